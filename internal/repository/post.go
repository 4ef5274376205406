// Package repository provides data access layer implementations for the application.
package repository

import (
	"context"
	"errors"
	"time"

	"sahityapata/internal/cache"
	"sahityapata/internal/models"
	"sahityapata/internal/observability"

	"gorm.io/gorm"
)

// Keyset identifies the last item of the previous feed page for keyset pagination.
type Keyset struct {
	CreatedAt time.Time
	ID        uint
}

// PostRepository defines the interface for post data operations
type PostRepository interface {
	Create(ctx context.Context, post *models.Post) error
	GetByID(ctx context.Context, id uint, currentUserID uint) (*models.Post, error)
	ListApproved(ctx context.Context, category models.Category, after *Keyset, limit int, currentUserID uint) ([]*models.Post, error)
	ListByStatus(ctx context.Context, status models.Status, limit, offset int) ([]*models.Post, error)
	ListByAuthor(ctx context.Context, authorID uint, includeUnapproved bool, currentUserID uint) ([]*models.Post, error)
	UpdateStatus(ctx context.Context, id uint, status models.Status) error
	DeleteCascade(ctx context.Context, id uint) error
	IsLiked(ctx context.Context, userID, postID uint) (bool, error)
	Like(ctx context.Context, userID, postID uint) error
	Unlike(ctx context.Context, userID, postID uint) error
	Recount(ctx context.Context) error
}

// postRepository implements PostRepository
type postRepository struct {
	db      *gorm.DB
	metrics *observability.DatabaseMetrics
}

// NewPostRepository creates a new post repository
func NewPostRepository(db *gorm.DB) PostRepository {
	return &postRepository{db: db, metrics: observability.NewDatabaseMetrics(db)}
}

// Create inserts the post and increments the author's post count in one transaction.
func (r *postRepository) Create(ctx context.Context, post *models.Post) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(post).Error; err != nil {
			return err
		}
		return tx.Model(&models.User{}).
			Where("id = ?", post.AuthorID).
			Update("post_count", gorm.Expr("post_count + 1")).Error
	})
	if err != nil {
		return models.NewInternalError(err)
	}
	cache.InvalidateUser(ctx, post.AuthorID)
	return nil
}

// GetByID loads one post with its computed like columns. Anonymous reads
// (no viewer) share a cached copy; signed-in reads always hit the database
// because the liked flag is per viewer.
func (r *postRepository) GetByID(ctx context.Context, id uint, currentUserID uint) (*models.Post, error) {
	var post models.Post
	fetch := func() error {
		err := r.applyPostDetails(r.db.WithContext(ctx), currentUserID).
			First(&post, id).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return models.NewNotFoundError("Post", id)
			}
			return models.NewInternalError(err)
		}
		return nil
	}

	var err error
	if currentUserID == 0 {
		err = cache.Aside(ctx, cache.PostKey(id), &post, cache.PostTTL, fetch)
	} else {
		err = fetch()
	}
	if err != nil {
		return nil, err
	}
	return &post, nil
}

// ListApproved returns a page of approved posts newest first. A non-nil keyset
// restricts results to posts strictly older than the keyset row.
func (r *postRepository) ListApproved(ctx context.Context, category models.Category, after *Keyset, limit int, currentUserID uint) ([]*models.Post, error) {
	defer r.metrics.TrackQuery("select", "posts")()

	var posts []*models.Post
	q := r.applyPostDetails(r.db.WithContext(ctx), currentUserID).
		Where("status = ?", models.StatusApproved)

	if category != "" {
		q = q.Where("category = ?", category)
	}
	if after != nil {
		q = q.Where("posts.created_at < ? OR (posts.created_at = ? AND posts.id < ?)",
			after.CreatedAt, after.CreatedAt, after.ID)
	}

	err := q.Order("posts.created_at DESC, posts.id DESC").
		Limit(limit).
		Find(&posts).Error
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return posts, nil
}

func (r *postRepository) ListByStatus(ctx context.Context, status models.Status, limit, offset int) ([]*models.Post, error) {
	var posts []*models.Post
	err := r.applyPostDetails(r.db.WithContext(ctx), 0).
		Where("status = ?", status).
		Order("posts.created_at DESC, posts.id DESC").
		Limit(limit).
		Offset(offset).
		Find(&posts).Error
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return posts, nil
}

func (r *postRepository) ListByAuthor(ctx context.Context, authorID uint, includeUnapproved bool, currentUserID uint) ([]*models.Post, error) {
	var posts []*models.Post
	q := r.applyPostDetails(r.db.WithContext(ctx), currentUserID).
		Where("author_id = ?", authorID)
	if !includeUnapproved {
		q = q.Where("status = ?", models.StatusApproved)
	}
	err := q.Order("posts.created_at DESC, posts.id DESC").Find(&posts).Error
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return posts, nil
}

// applyPostDetails adds subqueries to fetch like counts and liked status in a single query.
func (r *postRepository) applyPostDetails(db *gorm.DB, currentUserID uint) *gorm.DB {
	selectQuery := "posts.*, " +
		"(SELECT COUNT(*) FROM likes WHERE likes.post_id = posts.id) as like_count"

	if currentUserID != 0 {
		return db.Select(selectQuery+", EXISTS(SELECT 1 FROM likes WHERE likes.post_id = posts.id AND likes.user_id = ?) as liked", currentUserID)
	}

	return db.Select(selectQuery + ", false as liked")
}

func (r *postRepository) UpdateStatus(ctx context.Context, id uint, status models.Status) error {
	res := r.db.WithContext(ctx).Model(&models.Post{}).
		Where("id = ?", id).
		Update("status", status)
	if res.Error != nil {
		return models.NewInternalError(res.Error)
	}
	if res.RowsAffected == 0 {
		return models.NewNotFoundError("Post", id)
	}
	cache.InvalidatePost(ctx, id)
	return nil
}

// DeleteCascade removes the post together with its comments and likes and
// decrements the author's post count, all in one transaction. The count never
// goes below zero.
func (r *postRepository) DeleteCascade(ctx context.Context, id uint) error {
	var authorID uint
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var post models.Post
		if err := tx.Select("id", "author_id").First(&post, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return models.NewNotFoundError("Post", id)
			}
			return err
		}
		authorID = post.AuthorID

		if err := tx.Where("post_id = ?", id).Delete(&models.Comment{}).Error; err != nil {
			return err
		}
		if err := tx.Where("post_id = ?", id).Delete(&models.Like{}).Error; err != nil {
			return err
		}
		if err := tx.Delete(&models.Post{}, id).Error; err != nil {
			return err
		}
		return tx.Model(&models.User{}).
			Where("id = ? AND post_count > 0", authorID).
			Update("post_count", gorm.Expr("post_count - 1")).Error
	})
	if err != nil {
		var appErr *models.AppError
		if errors.As(err, &appErr) {
			return err
		}
		return models.NewInternalError(err)
	}
	cache.InvalidatePost(ctx, id)
	cache.InvalidateUser(ctx, authorID)
	return nil
}

func (r *postRepository) IsLiked(ctx context.Context, userID, postID uint) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.Like{}).
		Where("user_id = ? AND post_id = ?", userID, postID).
		Count(&count).Error; err != nil {
		return false, models.NewInternalError(err)
	}
	return count > 0, nil
}

func (r *postRepository) Like(ctx context.Context, userID, postID uint) error {
	// INSERT ... ON CONFLICT DO NOTHING keeps concurrent double-taps idempotent
	result := r.db.WithContext(ctx).Exec(
		`INSERT INTO likes (user_id, post_id, created_at)
		 VALUES (?, ?, ?)
		 ON CONFLICT (user_id, post_id) DO NOTHING`,
		userID, postID, time.Now().UTC(),
	)
	if result.Error != nil {
		return models.NewInternalError(result.Error)
	}
	cache.InvalidatePost(ctx, postID)
	return nil
}

func (r *postRepository) Unlike(ctx context.Context, userID, postID uint) error {
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND post_id = ?", userID, postID).
		Delete(&models.Like{}).Error
	if err != nil {
		return models.NewInternalError(err)
	}
	cache.InvalidatePost(ctx, postID)
	return nil
}

// Recount recomputes the denormalized comment and post counters from their
// source tables. Used by the admin reconcile operation after manual data fixes.
func (r *postRepository) Recount(ctx context.Context) error {
	defer r.metrics.TrackQuery("recount", "posts")()

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Exec(
			`UPDATE posts SET comment_count =
			 (SELECT COUNT(*) FROM comments WHERE comments.post_id = posts.id)`,
		).Error; err != nil {
			return err
		}
		return tx.Exec(
			`UPDATE users SET post_count =
			 (SELECT COUNT(*) FROM posts WHERE posts.author_id = users.id)`,
		).Error
	})
	if err != nil {
		return models.NewInternalError(err)
	}
	return nil
}
