package server

import (
	"sahityapata/internal/models"

	"github.com/gofiber/fiber/v2"
)

// AdminListPosts handles GET /api/admin/posts?status=
func (s *Server) AdminListPosts(c *fiber.Ctx) error {
	status := models.Status(c.Query("status", string(models.StatusPending)))
	page := parsePagination(c, 20)

	posts, err := s.moderationService.ListByStatus(c.UserContext(), status, page.Limit, page.Offset)
	if err != nil {
		return s.respondServiceError(c, err)
	}

	return c.JSON(posts)
}

// ApprovePost handles POST /api/admin/posts/:id/approve
func (s *Server) ApprovePost(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	post, svcErr := s.moderationService.Approve(c.UserContext(), id)
	if svcErr != nil {
		return s.respondServiceError(c, svcErr)
	}

	return c.JSON(post)
}

// RejectPost handles POST /api/admin/posts/:id/reject
func (s *Server) RejectPost(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	post, svcErr := s.moderationService.Reject(c.UserContext(), id)
	if svcErr != nil {
		return s.respondServiceError(c, svcErr)
	}

	return c.JSON(post)
}

// AdminDeletePost handles DELETE /api/admin/posts/:id
func (s *Server) AdminDeletePost(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	if svcErr := s.moderationService.Delete(c.UserContext(), id); svcErr != nil {
		return s.respondServiceError(c, svcErr)
	}

	return c.SendStatus(fiber.StatusNoContent)
}

// AdminListUsers handles GET /api/admin/users
func (s *Server) AdminListUsers(c *fiber.Ctx) error {
	page := parsePagination(c, 50)

	users, err := s.moderationService.ListUsers(c.UserContext(), page.Limit, page.Offset)
	if err != nil {
		return s.respondServiceError(c, err)
	}

	return c.JSON(users)
}

// BanUser handles POST /api/admin/users/:id/ban
func (s *Server) BanUser(c *fiber.Ctx) error {
	return s.setBanned(c, true)
}

// UnbanUser handles POST /api/admin/users/:id/unban
func (s *Server) UnbanUser(c *fiber.Ctx) error {
	return s.setBanned(c, false)
}

func (s *Server) setBanned(c *fiber.Ctx, banned bool) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	user, svcErr := s.moderationService.SetBanned(c.UserContext(), id, banned)
	if svcErr != nil {
		return s.respondServiceError(c, svcErr)
	}

	return c.JSON(user)
}

// Reconcile handles POST /api/admin/reconcile
func (s *Server) Reconcile(c *fiber.Ctx) error {
	if err := s.moderationService.Reconcile(c.UserContext()); err != nil {
		return s.respondServiceError(c, err)
	}

	return c.JSON(fiber.Map{"status": "ok"})
}
