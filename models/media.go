package models

import "time"

// MediaFile records an uploaded image stored on local disk. A file starts
// unattached with an expiry; attaching it to a publication clears the expiry,
// otherwise the background reaper removes it. Attached rows are deleted
// together with their publication.
type MediaFile struct {
	ID            uint       `gorm:"primaryKey" json:"id"`
	UserID        uint       `gorm:"index;not null" json:"user_id"`
	PublicationID *uint      `gorm:"index" json:"publication_id"`
	FilePath      string     `gorm:"size:1024;not null" json:"-"`
	URL           string     `gorm:"size:1024;not null" json:"url"`
	ExpireAt      *time.Time `gorm:"index" json:"-"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
}
