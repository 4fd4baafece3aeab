package models

import "time"

// Topic is a catalog entry publications can be filed under.
type Topic struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	Name        string    `gorm:"size:64;uniqueIndex;not null" json:"name"`
	Description string    `gorm:"size:255" json:"description"`
	CreatedAt   time.Time `json:"created_at"`

	// Filled per request by a grouped count query, never stored.
	PublicationCount int64 `gorm:"-" json:"publication_count"`
}
