// Package service contains the application's business logic.
package service

import (
	"context"
	"strings"

	"sahityapata/internal/identity"
	"sahityapata/internal/middleware"
	"sahityapata/internal/models"
	"sahityapata/internal/observability"
	"sahityapata/internal/repository"
)

// SessionService resolves verified identities into local user accounts.
// It provisions accounts on first contact and enforces the ban gate on
// every resolution.
type SessionService struct {
	userRepo    repository.UserRepository
	revoker     identity.Revoker
	adminEmails map[string]struct{}
}

// NewSessionService returns a SessionService. adminEmails is the lowercase
// allow-list of addresses that are provisioned with the admin role.
func NewSessionService(userRepo repository.UserRepository, revoker identity.Revoker, adminEmails map[string]struct{}) *SessionService {
	return &SessionService{
		userRepo:    userRepo,
		revoker:     revoker,
		adminEmails: adminEmails,
	}
}

// Resolve maps a verified identity to the local account, creating it on
// first sign-in. Banned accounts are refused and their refresh tokens
// revoked so the provider stops minting new ID tokens for them.
func (s *SessionService) Resolve(ctx context.Context, ident *identity.Identity) (*models.User, error) {
	user, err := s.userRepo.GetByUID(ctx, ident.UID)
	if err != nil {
		return nil, err
	}

	if user == nil {
		user = &models.User{
			UID:         ident.UID,
			DisplayName: ident.DisplayName,
			Email:       ident.Email,
			PhotoURL:    ident.PhotoURL,
			Role:        s.roleFor(ident.Email),
		}
		if user.DisplayName == "" {
			user.DisplayName = "Anonymous"
		}
		if err := s.userRepo.Create(ctx, user); err != nil {
			return nil, err
		}
		observability.SessionResolutions.WithLabelValues("new").Inc()
		middleware.Logger.InfoContext(ctx, "provisioned new account",
			"uid", ident.UID, "role", user.Role)
		return user, nil
	}

	if user.Banned {
		observability.SessionResolutions.WithLabelValues("banned").Inc()
		if s.revoker != nil {
			if revokeErr := s.revoker.Revoke(ctx, user.UID); revokeErr != nil {
				middleware.Logger.WarnContext(ctx, "failed to revoke tokens for banned account",
					"uid", user.UID, "error", revokeErr)
			}
		}
		return nil, models.NewBannedError()
	}

	// Keep profile fields in step with the provider on returning sign-ins.
	changed := false
	if ident.DisplayName != "" && ident.DisplayName != user.DisplayName {
		user.DisplayName = ident.DisplayName
		changed = true
	}
	if ident.PhotoURL != "" && ident.PhotoURL != user.PhotoURL {
		user.PhotoURL = ident.PhotoURL
		changed = true
	}
	if changed {
		if err := s.userRepo.Update(ctx, user); err != nil {
			return nil, err
		}
	}

	observability.SessionResolutions.WithLabelValues("returning").Inc()
	return user, nil
}

func (s *SessionService) roleFor(email string) models.Role {
	if email == "" {
		return models.RoleUser
	}
	if _, ok := s.adminEmails[strings.ToLower(email)]; ok {
		return models.RoleAdmin
	}
	return models.RoleUser
}
