package models

import "time"

// UserActivity stores per-user request counts per day, upserted by the
// activity middleware. Powers the daily-active figure in platform stats.
type UserActivity struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"index:idx_activity_user_date,unique;not null" json:"user_id"`
	Date      time.Time `gorm:"index:idx_activity_user_date,unique;type:date;not null" json:"date"`
	Requests  int64     `gorm:"not null;default:0" json:"requests"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
