package service

import (
	"context"
	"fmt"
	"testing"
	"time"

	"sahityapata/internal/models"
	"sahityapata/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.User{}, &models.Post{}, &models.Comment{}, &models.Like{}))
	return db
}

func createTestUser(t *testing.T, db *gorm.DB, name string, role models.Role) *models.User {
	user := &models.User{
		UID:         "uid-" + name,
		DisplayName: name,
		Email:       name + "@example.com",
		Role:        role,
	}
	require.NoError(t, db.Create(user).Error)
	return user
}

func TestPostService_Submit(t *testing.T) {
	db := setupTestDB(t)
	svc := NewPostService(repository.NewPostRepository(db), repository.NewUserRepository(db))
	ctx := context.Background()

	author := createTestUser(t, db, "lekhak", models.RoleUser)

	post, err := svc.Submit(ctx, SubmitPostInput{
		Author:   author,
		Title:    "Monsoon Verses",
		Category: models.CategoryPoetry,
		Content:  "The rain writes its own lines.",
	})
	require.NoError(t, err)
	assert.Equal(t, models.StatusPending, post.Status)
	assert.Equal(t, author.ID, post.AuthorID)
	assert.Equal(t, "lekhak", post.AuthorName)

	var fresh models.User
	require.NoError(t, db.First(&fresh, author.ID).Error)
	assert.Equal(t, 1, fresh.PostCount)
}

func TestPostService_Submit_Validation(t *testing.T) {
	db := setupTestDB(t)
	svc := NewPostService(repository.NewPostRepository(db), repository.NewUserRepository(db))
	ctx := context.Background()

	author := createTestUser(t, db, "writer", models.RoleUser)
	banned := createTestUser(t, db, "outcast", models.RoleUser)
	banned.Banned = true

	tests := []struct {
		name         string
		input        SubmitPostInput
		expectedCode string
	}{
		{
			name:         "anonymous",
			input:        SubmitPostInput{Title: "T", Category: models.CategoryEssay, Content: "C"},
			expectedCode: "UNAUTHORIZED",
		},
		{
			name:         "banned author",
			input:        SubmitPostInput{Author: banned, Title: "T", Category: models.CategoryEssay, Content: "C"},
			expectedCode: "ACCOUNT_BANNED",
		},
		{
			name:         "empty title",
			input:        SubmitPostInput{Author: author, Title: "   ", Category: models.CategoryEssay, Content: "C"},
			expectedCode: "VALIDATION_ERROR",
		},
		{
			name:         "empty content",
			input:        SubmitPostInput{Author: author, Title: "T", Category: models.CategoryEssay, Content: ""},
			expectedCode: "VALIDATION_ERROR",
		},
		{
			name:         "unknown category",
			input:        SubmitPostInput{Author: author, Title: "T", Category: "recipes", Content: "C"},
			expectedCode: "VALIDATION_ERROR",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Submit(ctx, tt.input)
			require.Error(t, err)
			assert.Equal(t, tt.expectedCode, err.(*models.AppError).Code)
		})
	}

	var count int64
	db.Model(&models.Post{}).Count(&count)
	assert.Zero(t, count)
}

func seedApprovedPosts(t *testing.T, db *gorm.DB, author *models.User, n int, category models.Category) []*models.Post {
	base := time.Now().Add(-time.Duration(n) * time.Hour)
	posts := make([]*models.Post, 0, n)
	for i := 0; i < n; i++ {
		p := &models.Post{
			Title:      fmt.Sprintf("Post %d", i),
			Category:   category,
			Content:    "content",
			AuthorID:   author.ID,
			AuthorName: author.DisplayName,
			Status:     models.StatusApproved,
			CreatedAt:  base.Add(time.Duration(i) * time.Hour),
		}
		require.NoError(t, db.Create(p).Error)
		posts = append(posts, p)
	}
	return posts
}

func TestPostService_Feed_Pagination(t *testing.T) {
	db := setupTestDB(t)
	svc := NewPostService(repository.NewPostRepository(db), repository.NewUserRepository(db))
	ctx := context.Background()

	author := createTestUser(t, db, "author", models.RoleUser)
	seedApprovedPosts(t, db, author, 8, models.CategoryEssay)

	// Posts outside the approved state never surface.
	hidden := &models.Post{Title: "Hidden", Category: models.CategoryEssay, Content: "x",
		AuthorID: author.ID, AuthorName: author.DisplayName, Status: models.StatusPending}
	require.NoError(t, db.Create(hidden).Error)
	rejected := &models.Post{Title: "Rejected", Category: models.CategoryEssay, Content: "x",
		AuthorID: author.ID, AuthorName: author.DisplayName, Status: models.StatusRejected}
	require.NoError(t, db.Create(rejected).Error)

	page1, err := svc.Feed(ctx, FeedInput{})
	require.NoError(t, err)
	assert.Len(t, page1.Posts, FeedPageSize)
	assert.True(t, page1.HasMore)
	assert.NotEmpty(t, page1.NextCursor)

	// Newest first.
	assert.Equal(t, "Post 7", page1.Posts[0].Title)
	for i := 1; i < len(page1.Posts); i++ {
		assert.False(t, page1.Posts[i].CreatedAt.After(page1.Posts[i-1].CreatedAt))
	}

	page2, err := svc.Feed(ctx, FeedInput{Cursor: page1.NextCursor})
	require.NoError(t, err)
	assert.Len(t, page2.Posts, 2)
	assert.False(t, page2.HasMore)
	assert.Empty(t, page2.NextCursor)

	// No overlap between pages.
	seen := map[uint]bool{}
	for _, p := range page1.Posts {
		seen[p.ID] = true
	}
	for _, p := range page2.Posts {
		assert.False(t, seen[p.ID])
		assert.NotEqual(t, "Hidden", p.Title)
		assert.NotEqual(t, "Rejected", p.Title)
	}
}

func TestPostService_Feed_CategoryFilter(t *testing.T) {
	db := setupTestDB(t)
	svc := NewPostService(repository.NewPostRepository(db), repository.NewUserRepository(db))
	ctx := context.Background()

	author := createTestUser(t, db, "author", models.RoleUser)
	seedApprovedPosts(t, db, author, 7, models.CategoryPoetry)
	seedApprovedPosts(t, db, author, 3, models.CategoryMemoir)

	page, err := svc.Feed(ctx, FeedInput{Category: models.CategoryPoetry})
	require.NoError(t, err)
	assert.Len(t, page.Posts, FeedPageSize)
	assert.True(t, page.HasMore)
	for _, p := range page.Posts {
		assert.Equal(t, models.CategoryPoetry, p.Category)
	}

	// A cursor minted under one filter restarts the feed under another.
	memoirPage, err := svc.Feed(ctx, FeedInput{Category: models.CategoryMemoir, Cursor: page.NextCursor})
	require.NoError(t, err)
	assert.Len(t, memoirPage.Posts, 3)

	_, err = svc.Feed(ctx, FeedInput{Category: "recipes"})
	require.Error(t, err)
	assert.Equal(t, "VALIDATION_ERROR", err.(*models.AppError).Code)

	_, err = svc.Feed(ctx, FeedInput{Cursor: "not base64 json"})
	require.Error(t, err)
	assert.Equal(t, "VALIDATION_ERROR", err.(*models.AppError).Code)
}

func TestPostService_GetPost_Visibility(t *testing.T) {
	db := setupTestDB(t)
	svc := NewPostService(repository.NewPostRepository(db), repository.NewUserRepository(db))
	ctx := context.Background()

	author := createTestUser(t, db, "author", models.RoleUser)
	stranger := createTestUser(t, db, "stranger", models.RoleUser)
	admin := createTestUser(t, db, "admin", models.RoleAdmin)

	pending := &models.Post{Title: "Draft", Category: models.CategoryNovel, Content: "x",
		AuthorID: author.ID, AuthorName: author.DisplayName, Status: models.StatusPending}
	require.NoError(t, db.Create(pending).Error)

	_, err := svc.GetPost(ctx, pending.ID, nil)
	require.Error(t, err)
	assert.Equal(t, "NOT_FOUND", err.(*models.AppError).Code)

	_, err = svc.GetPost(ctx, pending.ID, stranger)
	require.Error(t, err)
	assert.Equal(t, "NOT_FOUND", err.(*models.AppError).Code)

	got, err := svc.GetPost(ctx, pending.ID, author)
	require.NoError(t, err)
	assert.Equal(t, pending.ID, got.ID)

	got, err = svc.GetPost(ctx, pending.ID, admin)
	require.NoError(t, err)
	assert.Equal(t, pending.ID, got.ID)
}

func TestPostService_ToggleLike(t *testing.T) {
	db := setupTestDB(t)
	svc := NewPostService(repository.NewPostRepository(db), repository.NewUserRepository(db))
	ctx := context.Background()

	author := createTestUser(t, db, "author", models.RoleUser)
	reader := createTestUser(t, db, "reader", models.RoleUser)
	posts := seedApprovedPosts(t, db, author, 1, models.CategoryHumor)
	post := posts[0]

	res, err := svc.ToggleLike(ctx, post.ID, reader)
	require.NoError(t, err)
	assert.True(t, res.Liked)

	// Repeat toggles flip cleanly and never duplicate.
	res, err = svc.ToggleLike(ctx, post.ID, reader)
	require.NoError(t, err)
	assert.False(t, res.Liked)

	res, err = svc.ToggleLike(ctx, post.ID, reader)
	require.NoError(t, err)
	assert.True(t, res.Liked)

	var likeCount int64
	db.Model(&models.Like{}).Where("post_id = ?", post.ID).Count(&likeCount)
	assert.EqualValues(t, 1, likeCount)

	got, err := svc.GetPost(ctx, post.ID, reader)
	require.NoError(t, err)
	assert.Equal(t, 1, got.LikeCount)
	assert.True(t, got.Liked)

	_, err = svc.ToggleLike(ctx, post.ID, nil)
	require.Error(t, err)
	assert.Equal(t, "UNAUTHORIZED", err.(*models.AppError).Code)
}
