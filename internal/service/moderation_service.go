package service

import (
	"context"

	"sahityapata/internal/cache"
	"sahityapata/internal/identity"
	"sahityapata/internal/middleware"
	"sahityapata/internal/models"
	"sahityapata/internal/observability"
	"sahityapata/internal/repository"
)

// ModerationService implements the admin review queue and user management.
// Every method assumes the caller has already been verified as an admin.
type ModerationService struct {
	postRepo repository.PostRepository
	userRepo repository.UserRepository
	revoker  identity.Revoker
}

// NewModerationService returns a ModerationService.
func NewModerationService(postRepo repository.PostRepository, userRepo repository.UserRepository, revoker identity.Revoker) *ModerationService {
	return &ModerationService{postRepo: postRepo, userRepo: userRepo, revoker: revoker}
}

// ListByStatus returns posts in the given moderation state, newest first.
func (s *ModerationService) ListByStatus(ctx context.Context, status models.Status, limit, offset int) ([]*models.Post, error) {
	switch status {
	case models.StatusPending, models.StatusApproved, models.StatusRejected:
	default:
		return nil, models.NewValidationError("Invalid status")
	}
	return s.postRepo.ListByStatus(ctx, status, limit, offset)
}

// Approve publishes a pending post. Only the pending state can move to
// approved.
func (s *ModerationService) Approve(ctx context.Context, postID uint) (*models.Post, error) {
	return s.decide(ctx, postID, models.StatusApproved)
}

// Reject declines a pending post. Only the pending state can move to
// rejected.
func (s *ModerationService) Reject(ctx context.Context, postID uint) (*models.Post, error) {
	return s.decide(ctx, postID, models.StatusRejected)
}

func (s *ModerationService) decide(ctx context.Context, postID uint, to models.Status) (*models.Post, error) {
	post, err := s.postRepo.GetByID(ctx, postID, 0)
	if err != nil {
		return nil, err
	}
	if post.Status != models.StatusPending {
		return nil, models.NewValidationError("Only pending posts can be reviewed")
	}

	if err := s.postRepo.UpdateStatus(ctx, post.ID, to); err != nil {
		return nil, err
	}
	post.Status = to

	if to == models.StatusApproved {
		cache.InvalidateFeed(ctx, string(post.Category))
	}

	observability.ModerationDecisions.WithLabelValues(string(to)).Inc()
	middleware.Logger.InfoContext(ctx, "moderation decision",
		"post_id", post.ID, "decision", to)
	return post, nil
}

// Delete removes a published post and everything hanging off it. Pending
// and rejected posts leave the system through the review queue, not here.
func (s *ModerationService) Delete(ctx context.Context, postID uint) error {
	post, err := s.postRepo.GetByID(ctx, postID, 0)
	if err != nil {
		return err
	}
	if post.Status != models.StatusApproved {
		return models.NewValidationError("Only approved posts can be deleted")
	}

	if err := s.postRepo.DeleteCascade(ctx, post.ID); err != nil {
		return err
	}

	cache.InvalidateFeed(ctx, string(post.Category))
	observability.ModerationDecisions.WithLabelValues("delete").Inc()
	middleware.Logger.InfoContext(ctx, "moderation decision",
		"post_id", post.ID, "decision", "delete")
	return nil
}

// ListUsers returns accounts for the admin user table, newest first.
func (s *ModerationService) ListUsers(ctx context.Context, limit, offset int) ([]models.User, error) {
	return s.userRepo.List(ctx, limit, offset)
}

// SetBanned bans or unbans an account. Banning is idempotent, admins cannot
// be banned, and a fresh ban revokes the account's refresh tokens so open
// sessions die at the provider.
func (s *ModerationService) SetBanned(ctx context.Context, userID uint, banned bool) (*models.User, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if banned && user.IsAdmin() {
		return nil, models.NewForbiddenError("Admins cannot be banned")
	}
	if user.Banned == banned {
		return user, nil
	}

	if err := s.userRepo.SetBanned(ctx, user.ID, banned); err != nil {
		return nil, err
	}
	user.Banned = banned

	if banned && s.revoker != nil {
		if revokeErr := s.revoker.Revoke(ctx, user.UID); revokeErr != nil {
			middleware.Logger.WarnContext(ctx, "failed to revoke tokens for banned account",
				"uid", user.UID, "error", revokeErr)
		}
	}

	middleware.Logger.InfoContext(ctx, "account ban state changed",
		"user_id", user.ID, "banned", banned)
	return user, nil
}

// Reconcile recomputes the denormalized counters from their source tables.
func (s *ModerationService) Reconcile(ctx context.Context) error {
	if err := s.postRepo.Recount(ctx); err != nil {
		return err
	}
	middleware.Logger.InfoContext(ctx, "counter reconciliation completed")
	return nil
}
