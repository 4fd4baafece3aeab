package models

import "time"

// Friendship statuses. Stored as plain strings so the column stays readable.
const (
	FriendshipPending  = "pending"
	FriendshipAccepted = "accepted"
)

// Friendship links two users. A row starts as a pending request from
// Requester to Addressee and flips to accepted when the addressee confirms.
// At most one row exists per user pair regardless of direction.
type Friendship struct {
	ID          uint       `gorm:"primaryKey" json:"id"`
	RequesterID uint       `gorm:"index:idx_friendships_pair,unique;not null" json:"requester_id"`
	AddresseeID uint       `gorm:"index:idx_friendships_pair,unique;index;not null" json:"addressee_id"`
	Status      string     `gorm:"size:16;not null;default:'pending'" json:"status"`
	CreatedAt   time.Time  `json:"created_at"`
	AcceptedAt  *time.Time `json:"accepted_at"`
	Requester   User       `gorm:"foreignKey:RequesterID" json:"requester"`
	Addressee   User       `gorm:"foreignKey:AddresseeID" json:"addressee"`
}
