package models

import "time"

// Like marks that a user liked a publication. Existence is the whole
// payload; one row per user per publication.
type Like struct {
	ID            uint      `gorm:"primaryKey" json:"id"`
	PublicationID uint      `gorm:"index:idx_likes_pub_user,unique;not null" json:"publication_id"`
	UserID        uint      `gorm:"index:idx_likes_pub_user,unique;index;not null" json:"user_id"`
	CreatedAt     time.Time `json:"created_at"`
	User          User      `json:"user"`
}
