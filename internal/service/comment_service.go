package service

import (
	"context"
	"strings"

	"sahityapata/internal/models"
	"sahityapata/internal/repository"
)

const maxCommentLen = 2000

// CommentService handles reader comments on posts.
type CommentService struct {
	commentRepo repository.CommentRepository
	postRepo    repository.PostRepository
}

// AddCommentInput carries a new comment from an authenticated reader.
type AddCommentInput struct {
	Author  *models.User
	PostID  uint
	Content string
}

// NewCommentService returns a CommentService.
func NewCommentService(commentRepo repository.CommentRepository, postRepo repository.PostRepository) *CommentService {
	return &CommentService{commentRepo: commentRepo, postRepo: postRepo}
}

// Add stores a comment on a post the author can see. The comment count on
// the post moves in the same transaction as the insert.
func (s *CommentService) Add(ctx context.Context, in AddCommentInput) (*models.Comment, error) {
	if in.Author == nil {
		return nil, models.NewUnauthorizedError("Sign in to comment")
	}
	if in.Author.Banned {
		return nil, models.NewBannedError()
	}

	content := strings.TrimSpace(in.Content)
	if content == "" {
		return nil, models.NewValidationError("Comment cannot be empty")
	}
	if len(content) > maxCommentLen {
		return nil, models.NewValidationError("Comment too long (max 2000 characters)")
	}

	post, err := s.postRepo.GetByID(ctx, in.PostID, in.Author.ID)
	if err != nil {
		return nil, err
	}
	if !post.VisibleTo(in.Author) {
		return nil, models.NewNotFoundError("Post", in.PostID)
	}

	comment := &models.Comment{
		PostID:         post.ID,
		Content:        content,
		AuthorID:       in.Author.ID,
		AuthorName:     in.Author.DisplayName,
		AuthorPhotoURL: in.Author.PhotoURL,
	}

	if err := s.commentRepo.Create(ctx, comment); err != nil {
		return nil, err
	}
	return comment, nil
}

// ListByPost returns all comments on a post the viewer can see, newest first.
func (s *CommentService) ListByPost(ctx context.Context, postID uint, viewer *models.User) ([]*models.Comment, error) {
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

	return s.commentRepo.ListByPost(ctx, post.ID)
}

// Delete removes a comment. Only its author or an admin may delete it; the
// post's comment count moves in the same transaction.
func (s *CommentService) Delete(ctx context.Context, commentID uint, actor *models.User) error {
	if actor == nil {
		return models.NewUnauthorizedError("Sign in to delete comments")
	}

	comment, err := s.commentRepo.GetByID(ctx, commentID)
	if err != nil {
		return err
	}

	if comment.AuthorID != actor.ID && !actor.IsAdmin() {
		return models.NewForbiddenError("You can only delete your own comments")
	}

	return s.commentRepo.Delete(ctx, comment.ID)
}
