package models

import "time"

// CommentContentMaxLen bounds comment content length in characters.
const CommentContentMaxLen = 256

// Comment represents a reply to a publication.
type Comment struct {
	ID            uint      `gorm:"primaryKey" json:"id"`
	PublicationID uint      `gorm:"index;not null" json:"publication_id"`
	UserID        uint      `gorm:"index;not null" json:"user_id"`
	Content       string    `gorm:"size:256;not null" json:"content"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
	User          User      `json:"author"`
}
