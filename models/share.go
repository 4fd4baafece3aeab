package models

import "time"

// Share marks that a user reposted a publication to their own feed.
// Join-record semantics, same as Like.
type Share struct {
	ID            uint      `gorm:"primaryKey" json:"id"`
	PublicationID uint      `gorm:"index:idx_shares_pub_user,unique;not null" json:"publication_id"`
	UserID        uint      `gorm:"index:idx_shares_pub_user,unique;index;not null" json:"user_id"`
	CreatedAt     time.Time `json:"created_at"`
	User          User      `json:"user"`
}
