package bookingRepo

import "go.mongodb.org/mongo-driver/bson"

// ListQuery is the typed filter set for reservation listings. Zero values are
// ignored; DateFrom/DateTo form an inclusive range on the date field.
type ListQuery struct {
	ProviderID string
	ClientID   string
	Date       string
	DateFrom   string
	DateTo     string
	Status     string
	Limit      int64
	Skip       int64
}

func (q ListQuery) filter() bson.M {
	f := bson.M{}
	if q.ProviderID != "" {
		f["provider_id"] = q.ProviderID
	}
	if q.ClientID != "" {
		f["client_id"] = q.ClientID
	}
	if q.Date != "" {
		f["date"] = q.Date
	} else if q.DateFrom != "" || q.DateTo != "" {
		dateRange := bson.M{}
		if q.DateFrom != "" {
			dateRange["$gte"] = q.DateFrom
		}
		if q.DateTo != "" {
			dateRange["$lte"] = q.DateTo
		}
		f["date"] = dateRange
	}
	if q.Status != "" {
		f["status"] = q.Status
	}
	return f
}
