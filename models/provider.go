package models

// Provider is the read-only projection of a provider profile the engine
// consumes: identity, bookable state, recurring availability and push target.
// Profile lifecycle (registration, verification) lives outside this engine.
type Provider struct {
	ID           string         `bson:"id" json:"id"`
	Name         string         `bson:"name" json:"name"`
	Email        string         `bson:"email" json:"email"`
	Verified     bool           `bson:"verified" json:"verified"`
	Active       bool           `bson:"active" json:"active"`
	Availability WeeklySchedule `bson:"availability" json:"availability"`
	FCMToken     string         `bson:"fcm_token,omitempty" json:"-"`
}

// Bookable reports whether the provider may accept reservations.
func (p *Provider) Bookable() bool {
	return p.Verified && p.Active
}
