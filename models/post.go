package models

import "time"

// Post represents a blog entry. Ownership is the denormalized author username,
// compared against the authenticated identity on every mutation.
type Post struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	Username   string    `gorm:"size:64;index;not null" json:"username"`
	Title      string    `gorm:"size:255;not null" json:"title"`
	Content    string    `gorm:"type:text;not null" json:"content"`
	Photo      string    `gorm:"size:512" json:"photo"`
	Categories string    `gorm:"type:text" json:"categories"` // JSON array of category names
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}
