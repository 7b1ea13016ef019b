// Package realtime carries wishlist and auth change events over watermill.
package realtime

import "time"

const (
	TopicWishlistChanges = "wishlist_changes"
	TopicAuthEvents      = "auth_events"
)

const (
	OpInsert = "INSERT"
	OpDelete = "DELETE"
)

type WishlistChanged struct {
	Seq          int64     `json:"seq"`
	UserID       string    `json:"user_id"`
	ExperienceID string    `json:"experience_id"`
	Op           string    `json:"op"`
	At           time.Time `json:"at"`
}

type AuthStateChanged struct {
	Event  string    `json:"event"`
	AuthID string    `json:"auth_id"`
	Email  string    `json:"email"`
	At     time.Time `json:"at"`
}
