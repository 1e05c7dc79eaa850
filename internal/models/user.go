package models

// User is a profile row in the users collection. The id is assigned by the
// external auth service and is immutable; name and is_admin may be amended
// by reconciliation on login.
type User struct {
	ID      string `bson:"_id" json:"id"`
	Email   string `bson:"email" json:"email"`
	Name    string `bson:"name" json:"name"`
	IsAdmin bool   `bson:"is_admin" json:"is_admin"`
}
