// Package seed provides helpers to create test and demo data for the
// application database. These helpers are intended for development and
// testing only.
package seed

import (
	"fmt"
	"math/rand"
	"time"

	"sahityapata/internal/models"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Factory builds domain entities and persists them to the database.
// It is a thin helper used by seed presets and tests.
type Factory struct {
	db   *gorm.DB
	opts Options
	rng  *rand.Rand
}

// NewFactory creates a new Factory bound to the provided Gorm DB.
func NewFactory(db *gorm.DB, opts Options) *Factory {
	gofakeit.Seed(time.Now().UnixNano())
	return &Factory{
		db:   db,
		opts: opts,
		rng:  rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// CreateUser constructs and persists a sample user with a synthetic
// provider UID. Optional override functions may modify the generated user
// before saving.
func (f *Factory) CreateUser(overrides ...func(*models.User)) (*models.User, error) {
	user := &models.User{
		UID:         "seed-" + uuid.NewString(),
		DisplayName: gofakeit.Name(),
		Email:       gofakeit.Email(),
		PhotoURL:    fmt.Sprintf("https://i.pravatar.cc/150?u=%s", uuid.NewString()),
		Role:        models.RoleUser,
	}

	for _, override := range overrides {
		override(user)
	}

	if err := f.db.Create(user).Error; err != nil {
		return nil, err
	}
	return user, nil
}

// BuildPost constructs an unsaved post attributed to the author, with a
// created_at spread over the recent past.
func (f *Factory) BuildPost(author *models.User, overrides ...func(*models.Post)) *models.Post {
	category := models.Categories[f.rng.Intn(len(models.Categories))]

	post := &models.Post{
		Title:          gofakeit.Sentence(4),
		Category:       category,
		Content:        gofakeit.Paragraph(3, 5, 12, "\n\n"),
		AuthorID:       author.ID,
		AuthorName:     author.DisplayName,
		AuthorPhotoURL: author.PhotoURL,
		Status:         models.StatusPending,
	}

	maxDays := f.opts.MaxDays
	if maxDays <= 0 {
		maxDays = 90
	}
	daysBack := f.rng.Intn(maxDays)
	hoursBack := f.rng.Intn(24)
	post.CreatedAt = time.Now().Add(-time.Duration(daysBack)*24*time.Hour - time.Duration(hoursBack)*time.Hour)

	for _, override := range overrides {
		override(post)
	}
	return post
}

// CreateComment persists a comment on the post from the given author and
// bumps the post's comment counter so seeded data honors the invariant.
func (f *Factory) CreateComment(post *models.Post, author *models.User) (*models.Comment, error) {
	comment := &models.Comment{
		PostID:         post.ID,
		Content:        gofakeit.Sentence(f.rng.Intn(12) + 3),
		AuthorID:       author.ID,
		AuthorName:     author.DisplayName,
		AuthorPhotoURL: author.PhotoURL,
		CreatedAt:      post.CreatedAt.Add(time.Duration(f.rng.Intn(72)) * time.Hour),
	}

	err := f.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(comment).Error; err != nil {
			return err
		}
		return tx.Model(&models.Post{}).
			Where("id = ?", post.ID).
			Update("comment_count", gorm.Expr("comment_count + 1")).Error
	})
	if err != nil {
		return nil, err
	}
	return comment, nil
}

// CreateLike records a like, ignoring duplicates.
func (f *Factory) CreateLike(post *models.Post, user *models.User) error {
	return f.db.Exec(
		`INSERT INTO likes (user_id, post_id, created_at)
		 VALUES (?, ?, ?)
		 ON CONFLICT (user_id, post_id) DO NOTHING`,
		user.ID, post.ID, time.Now().UTC(),
	).Error
}
