package models

import (
	"time"
)

// Status is the moderation state of a post.
type Status string

const (
	StatusPending  Status = "pending"
	StatusApproved Status = "approved"
	StatusRejected Status = "rejected"
)

// Category is one of the seven literary genres a post is filed under.
type Category string

const (
	CategoryPoetry     Category = "poetry"
	CategoryNovel      Category = "novel"
	CategoryShortStory Category = "short-story"
	CategoryEssay      Category = "essay"
	CategoryHumor      Category = "humor"
	CategoryGhostStory Category = "ghost-story"
	CategoryMemoir     Category = "memoir"
)

// Categories lists every valid genre, in display order.
var Categories = []Category{
	CategoryPoetry,
	CategoryNovel,
	CategoryShortStory,
	CategoryEssay,
	CategoryHumor,
	CategoryGhostStory,
	CategoryMemoir,
}

// Valid reports whether c is one of the known genres.
func (c Category) Valid() bool {
	for _, known := range Categories {
		if c == known {
			return true
		}
	}
	return false
}

// Post represents a literary submission. The author name and photo are a
// snapshot taken at submission time and are never re-synced with the user
// record; historical display is intentional.
type Post struct {
	ID             uint     `gorm:"primaryKey" json:"id"`
	Title          string   `gorm:"not null" json:"title"`
	Category       Category `gorm:"not null;index" json:"category"`
	Content        string   `gorm:"type:text;not null" json:"content"`
	AuthorID       uint     `gorm:"not null;index" json:"author_id"`
	Author         User     `gorm:"foreignKey:AuthorID" json:"author,omitempty"`
	AuthorName     string   `gorm:"not null" json:"author_name"`
	AuthorPhotoURL string   `json:"author_photo_url"`
	Status         Status   `gorm:"not null;default:pending;index" json:"status"`
	// CommentCount is denormalized and maintained in the same transaction
	// as every comment write, delete, and cascade.
	CommentCount int `gorm:"not null;default:0" json:"comment_count"`
	// LikeCount is not persisted; computed from the likes table at query time.
	LikeCount int `gorm:"->" json:"like_count"`
	// Liked indicates whether the requesting user liked this post (computed).
	Liked     bool      `gorm:"->" json:"liked"`
	CreatedAt time.Time `gorm:"index" json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// VisibleTo applies the reader visibility rule: approved posts are public,
// anything else is shown only to the author or an admin.
func (p *Post) VisibleTo(viewer *User) bool {
	if p.Status == StatusApproved {
		return true
	}
	if viewer == nil {
		return false
	}
	return viewer.ID == p.AuthorID || viewer.IsAdmin()
}
