package models

import (
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
)

// SessionUser is the snapshot of the signed-in user bound to a session.
type SessionUser struct {
	ID      string `bson:"id" json:"id"`
	Email   string `bson:"email" json:"email"`
	Name    string `bson:"name" json:"name"`
	IsAdmin bool   `bson:"is_admin" json:"isAdmin"`
}

// Session maps an opaque cookie token to a user snapshot plus the delegated
// access token issued by the auth service. A TTL index on expires_at removes
// expired sessions server-side.
type Session struct {
	ID          bson.ObjectID `bson:"_id,omitempty" json:"-"`
	Token       string        `bson:"token" json:"-"`
	User        SessionUser   `bson:"user" json:"user"`
	AccessToken string        `bson:"access_token" json:"-"`
	ExpiresAt   time.Time     `bson:"expires_at" json:"-"`
	CreatedAt   time.Time     `bson:"created_at" json:"-"`
}

func (s *Session) IsExpired() bool {
	return time.Now().After(s.ExpiresAt)
}
