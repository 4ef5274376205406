package service

import (
	"context"
	"strings"

	"sahityapata/internal/cache"
	"sahityapata/internal/models"
	"sahityapata/internal/observability"
	"sahityapata/internal/repository"

	"go.opentelemetry.io/otel/attribute"
)

const (
	maxTitleLen   = 200
	maxContentLen = 100000
)

// PostService handles submission, the public feed, and engagement.
type PostService struct {
	postRepo repository.PostRepository
	userRepo repository.UserRepository
}

// SubmitPostInput carries a new submission from an authenticated author.
type SubmitPostInput struct {
	Author   *models.User
	Title    string
	Category models.Category
	Content  string
}

// FeedInput selects a feed page. Cursor is the opaque token from the
// previous page; empty means first page. Category narrows the feed to one
// genre and invalidates any cursor minted under a different filter.
type FeedInput struct {
	Category models.Category
	Cursor   string
	Viewer   *models.User
}

// FeedPage is one page of the approved feed plus the token for the next one.
type FeedPage struct {
	Posts      []*models.Post `json:"posts"`
	NextCursor string         `json:"next_cursor,omitempty"`
	HasMore    bool           `json:"has_more"`
}

// ToggleLikeResult reports the like state after a toggle.
type ToggleLikeResult struct {
	Liked bool `json:"liked"`
}

// NewPostService returns a PostService.
func NewPostService(postRepo repository.PostRepository, userRepo repository.UserRepository) *PostService {
	return &PostService{postRepo: postRepo, userRepo: userRepo}
}

// Submit validates and stores a new post in the pending state. The author's
// display name and photo are snapshotted onto the post.
func (s *PostService) Submit(ctx context.Context, in SubmitPostInput) (*models.Post, error) {
	if in.Author == nil {
		return nil, models.NewUnauthorizedError("Sign in to submit")
	}
	if in.Author.Banned {
		return nil, models.NewBannedError()
	}

	title := strings.TrimSpace(in.Title)
	content := strings.TrimSpace(in.Content)

	if title == "" {
		return nil, models.NewValidationError("Title is required")
	}
	if len(title) > maxTitleLen {
		return nil, models.NewValidationError("Title too long (max 200 characters)")
	}
	if content == "" {
		return nil, models.NewValidationError("Content is required")
	}
	if len(content) > maxContentLen {
		return nil, models.NewValidationError("Content too long (max 100000 characters)")
	}
	if !in.Category.Valid() {
		return nil, models.NewValidationError("Invalid category")
	}

	post := &models.Post{
		Title:          title,
		Category:       in.Category,
		Content:        content,
		AuthorID:       in.Author.ID,
		AuthorName:     in.Author.DisplayName,
		AuthorPhotoURL: in.Author.PhotoURL,
		Status:         models.StatusPending,
	}

	if err := s.postRepo.Create(ctx, post); err != nil {
		return nil, err
	}

	observability.AddTraceAttributesToContext(ctx, attribute.String("post.category", string(in.Category)))
	observability.PostSubmissions.WithLabelValues(string(in.Category)).Inc()
	return post, nil
}

// Feed returns one page of approved posts, newest first. The first
// unfiltered anonymous page is served cache-aside; cursor pages always hit
// the database.
func (s *PostService) Feed(ctx context.Context, in FeedInput) (*FeedPage, error) {
	span, ctx := observability.NewSpan(ctx, "service.feed")
	defer span.End()
	span.AddAttributes(attribute.String("feed.category", string(in.Category)))

	if in.Category != "" && !in.Category.Valid() {
		return nil, models.NewValidationError("Invalid category")
	}

	cursor, err := decodeCursor(in.Cursor)
	if err != nil {
		return nil, err
	}
	// A cursor minted under a different filter cannot position this feed;
	// restart from the first page.
	if cursor != nil && cursor.Category != in.Category {
		cursor = nil
	}

	var viewerID uint
	if in.Viewer != nil {
		viewerID = in.Viewer.ID
	}

	// Fetch one extra row to learn whether another page exists.
	fetch := func(dest *[]*models.Post) error {
		posts, err := s.postRepo.ListApproved(ctx, in.Category, cursor.keyset(), FeedPageSize+1, viewerID)
		if err != nil {
			return err
		}
		*dest = posts
		return nil
	}

	var posts []*models.Post
	if cursor == nil && viewerID == 0 {
		key := cache.FeedFirstPageKey(string(in.Category))
		found, cacheErr := cache.GetJSON(ctx, key, &posts)
		if cacheErr == nil && found {
			observability.FeedCacheResults.WithLabelValues("hit").Inc()
		} else {
			observability.FeedCacheResults.WithLabelValues("miss").Inc()
			if err := fetch(&posts); err != nil {
				return nil, err
			}
			_ = cache.SetJSON(ctx, key, posts, cache.FeedTTL)
		}
	} else {
		if err := fetch(&posts); err != nil {
			return nil, err
		}
	}

	page := &FeedPage{Posts: posts}
	if len(posts) > FeedPageSize {
		page.Posts = posts[:FeedPageSize]
		page.HasMore = true
		last := page.Posts[len(page.Posts)-1]
		page.NextCursor = encodeCursor(feedCursor{
			LastDate: last.CreatedAt,
			LastID:   last.ID,
			Category: in.Category,
		})
	}
	if page.Posts == nil {
		page.Posts = []*models.Post{}
	}
	return page, nil
}

// GetPost returns a single post subject to the visibility rule. A post the
// viewer may not see reads as not found so its existence is not leaked.
func (s *PostService) GetPost(ctx context.Context, postID uint, viewer *models.User) (*models.Post, error) {
	var viewerID uint
	if viewer != nil {
		viewerID = viewer.ID
	}

	post, err := s.postRepo.GetByID(ctx, postID, viewerID)
	if err != nil {
		return nil, err
	}
	if !post.VisibleTo(viewer) {
		return nil, models.NewNotFoundError("Post", postID)
	}
	return post, nil
}

// ListByAuthor returns an author's posts. The author themselves and admins
// also see pending and rejected entries.
func (s *PostService) ListByAuthor(ctx context.Context, authorID uint, viewer *models.User) ([]*models.Post, error) {
	var viewerID uint
	includeUnapproved := false
	if viewer != nil {
		viewerID = viewer.ID
		includeUnapproved = viewer.ID == authorID || viewer.IsAdmin()
	}
	return s.postRepo.ListByAuthor(ctx, authorID, includeUnapproved, viewerID)
}

// ToggleLike flips the viewer's like on a visible post. Both directions are
// idempotent under concurrent repeats.
func (s *PostService) ToggleLike(ctx context.Context, postID uint, viewer *models.User) (*ToggleLikeResult, error) {
	if viewer == nil {
		return nil, models.NewUnauthorizedError("Sign in to like posts")
	}
	if viewer.Banned {
		return nil, models.NewBannedError()
	}

	post, err := s.GetPost(ctx, postID, viewer)
	if err != nil {
		return nil, err
	}

	liked, err := s.postRepo.IsLiked(ctx, viewer.ID, post.ID)
	if err != nil {
		return nil, err
	}

	if liked {
		if err := s.postRepo.Unlike(ctx, viewer.ID, post.ID); err != nil {
			return nil, err
		}
		return &ToggleLikeResult{Liked: false}, nil
	}

	if err := s.postRepo.Like(ctx, viewer.ID, post.ID); err != nil {
		return nil, err
	}
	return &ToggleLikeResult{Liked: true}, nil
}
