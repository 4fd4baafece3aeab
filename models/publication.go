package models

import "time"

// PublicationContentMaxLen bounds publication content length in characters.
const PublicationContentMaxLen = 600

// Publication represents a user-authored post, the root content entity.
// Comments, likes, shares and media hang off it and are removed together
// with it inside one transaction.
type Publication struct {
	ID             uint        `gorm:"primaryKey" json:"id"`
	UserID         uint        `gorm:"index;not null" json:"user_id"`
	Content        string      `gorm:"size:600;not null" json:"content"`
	TopicID        *uint       `gorm:"index" json:"topic_id"`
	CreatedAt      time.Time   `json:"created_at"`
	UpdatedAt      time.Time   `json:"updated_at"`
	LastActivityAt *time.Time  `json:"last_activity_at"`
	User           User        `json:"author"`
	Comments       []Comment   `json:"-"`
	Likes          []Like      `json:"-"`
	Shares         []Share     `json:"-"`
	Media          []MediaFile `json:"media,omitempty"`

	// Filled per request by grouped count queries, never stored.
	LikeCount    int64 `gorm:"-" json:"like_count"`
	ShareCount   int64 `gorm:"-" json:"share_count"`
	CommentCount int64 `gorm:"-" json:"comment_count"`
}
