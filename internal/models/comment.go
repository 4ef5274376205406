package models

import (
	"time"
)

// Comment represents a reader comment on a post. Author name and photo are
// snapshots, same as on Post.
type Comment struct {
	ID             uint      `gorm:"primaryKey" json:"id"`
	PostID         uint      `gorm:"not null;index" json:"post_id"`
	Post           Post      `gorm:"foreignKey:PostID" json:"-"`
	Content        string    `gorm:"type:text;not null" json:"content"`
	AuthorID       uint      `gorm:"not null;index" json:"author_id"`
	AuthorName     string    `gorm:"not null" json:"author_name"`
	AuthorPhotoURL string    `json:"author_photo_url"`
	CreatedAt      time.Time `json:"created_at"`
}
