package models

// User is the minimal client projection the engine reads for notices.
type User struct {
	ID       string `bson:"id" json:"id"`
	Name     string `bson:"name" json:"name"`
	Email    string `bson:"email" json:"email"`
	FCMToken string `bson:"fcm_token,omitempty" json:"-"`
}
