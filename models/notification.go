package models

import "time"

// Notification types.
const (
	NotificationComment       = "comment"
	NotificationLike          = "like"
	NotificationShare         = "share"
	NotificationFriendRequest = "friend_request"
	NotificationFriendAccept  = "friend_accept"
)

// Notification target types.
const (
	NotificationTargetPublication = "publication"
	NotificationTargetComment     = "comment"
	NotificationTargetUser        = "user"
)

// Notification records an event addressed to a user: someone commented on,
// liked or shared their publication, or sent/accepted a friend request.
type Notification struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	RecipientID uint      `gorm:"index;not null" json:"recipient_id"`
	ActorID     uint      `gorm:"index;not null" json:"actor_id"`
	Type        string    `gorm:"size:32;not null" json:"type"`
	TargetType  string    `gorm:"size:32" json:"target_type"`
	TargetID    uint      `json:"target_id"`
	Message     string    `gorm:"size:255" json:"message"`
	IsRead      bool      `gorm:"default:false;index" json:"is_read"`
	CreatedAt   time.Time `json:"created_at"`
	Actor       User      `gorm:"foreignKey:ActorID" json:"actor"`
}
