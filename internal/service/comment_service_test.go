package service

import (
	"context"
	"testing"

	"sahityapata/internal/models"
	"sahityapata/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCommentService_AddAndCount(t *testing.T) {
	db := setupTestDB(t)
	postRepo := repository.NewPostRepository(db)
	svc := NewCommentService(repository.NewCommentRepository(db), postRepo)
	ctx := context.Background()

	author := createTestUser(t, db, "author", models.RoleUser)
	reader := createTestUser(t, db, "reader", models.RoleUser)
	post := seedApprovedPosts(t, db, author, 1, models.CategoryGhostStory)[0]

	c1, err := svc.Add(ctx, AddCommentInput{Author: reader, PostID: post.ID, Content: "chilling"})
	require.NoError(t, err)
	assert.Equal(t, reader.ID, c1.AuthorID)
	assert.Equal(t, "reader", c1.AuthorName)

	_, err = svc.Add(ctx, AddCommentInput{Author: author, PostID: post.ID, Content: "thank you"})
	require.NoError(t, err)

	var fresh models.Post
	require.NoError(t, db.First(&fresh, post.ID).Error)
	assert.Equal(t, 2, fresh.CommentCount)

	comments, err := svc.ListByPost(ctx, post.ID, nil)
	require.NoError(t, err)
	assert.Len(t, comments, 2)
}

func TestCommentService_Add_Validation(t *testing.T) {
	db := setupTestDB(t)
	postRepo := repository.NewPostRepository(db)
	svc := NewCommentService(repository.NewCommentRepository(db), postRepo)
	ctx := context.Background()

	author := createTestUser(t, db, "author", models.RoleUser)
	reader := createTestUser(t, db, "reader", models.RoleUser)
	banned := createTestUser(t, db, "outcast", models.RoleUser)
	banned.Banned = true

	post := seedApprovedPosts(t, db, author, 1, models.CategoryEssay)[0]
	pending := &models.Post{Title: "Draft", Category: models.CategoryEssay, Content: "x",
		AuthorID: author.ID, AuthorName: author.DisplayName, Status: models.StatusPending}
	require.NoError(t, db.Create(pending).Error)

	_, err := svc.Add(ctx, AddCommentInput{PostID: post.ID, Content: "hi"})
	assert.Equal(t, "UNAUTHORIZED", err.(*models.AppError).Code)

	_, err = svc.Add(ctx, AddCommentInput{Author: banned, PostID: post.ID, Content: "hi"})
	assert.Equal(t, "ACCOUNT_BANNED", err.(*models.AppError).Code)

	_, err = svc.Add(ctx, AddCommentInput{Author: reader, PostID: post.ID, Content: "   "})
	assert.Equal(t, "VALIDATION_ERROR", err.(*models.AppError).Code)

	// A post the reader cannot see reads as missing.
	_, err = svc.Add(ctx, AddCommentInput{Author: reader, PostID: pending.ID, Content: "sneaky"})
	assert.Equal(t, "NOT_FOUND", err.(*models.AppError).Code)

	var fresh models.Post
	require.NoError(t, db.First(&fresh, post.ID).Error)
	assert.Zero(t, fresh.CommentCount)
}

func TestCommentService_Delete(t *testing.T) {
	db := setupTestDB(t)
	postRepo := repository.NewPostRepository(db)
	svc := NewCommentService(repository.NewCommentRepository(db), postRepo)
	ctx := context.Background()

	author := createTestUser(t, db, "author", models.RoleUser)
	reader := createTestUser(t, db, "reader", models.RoleUser)
	other := createTestUser(t, db, "other", models.RoleUser)
	admin := createTestUser(t, db, "admin", models.RoleAdmin)
	post := seedApprovedPosts(t, db, author, 1, models.CategoryShortStory)[0]

	c1, err := svc.Add(ctx, AddCommentInput{Author: reader, PostID: post.ID, Content: "one"})
	require.NoError(t, err)
	c2, err := svc.Add(ctx, AddCommentInput{Author: reader, PostID: post.ID, Content: "two"})
	require.NoError(t, err)

	// Only the comment author or an admin may delete.
	err = svc.Delete(ctx, c1.ID, other)
	assert.Equal(t, "FORBIDDEN", err.(*models.AppError).Code)

	require.NoError(t, svc.Delete(ctx, c1.ID, reader))
	require.NoError(t, svc.Delete(ctx, c2.ID, admin))

	err = svc.Delete(ctx, c2.ID, admin)
	assert.Equal(t, "NOT_FOUND", err.(*models.AppError).Code)

	var fresh models.Post
	require.NoError(t, db.First(&fresh, post.ID).Error)
	assert.Zero(t, fresh.CommentCount)
}
