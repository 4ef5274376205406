package server

import (
	"sahityapata/internal/models"
	"sahityapata/internal/service"

	"github.com/gofiber/fiber/v2"
)

// SubmitPost handles POST /api/posts
func (s *Server) SubmitPost(c *fiber.Ctx) error {
	user := s.currentUser(c)

	var req struct {
		Title    string `json:"title"`
		Category string `json:"category"`
		Content  string `json:"content"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	post, err := s.postService.Submit(c.UserContext(), service.SubmitPostInput{
		Author:   user,
		Title:    req.Title,
		Category: models.Category(req.Category),
		Content:  req.Content,
	})
	if err != nil {
		return s.respondServiceError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(post)
}

// GetFeed handles GET /api/posts?category=&cursor=
func (s *Server) GetFeed(c *fiber.Ctx) error {
	page, err := s.postService.Feed(c.UserContext(), service.FeedInput{
		Category: models.Category(c.Query("category")),
		Cursor:   c.Query("cursor"),
		Viewer:   s.currentUser(c),
	})
	if err != nil {
		return s.respondServiceError(c, err)
	}

	return c.JSON(page)
}

// GetCategories handles GET /api/posts/categories
func (s *Server) GetCategories(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"categories": models.Categories})
}

// GetPost handles GET /api/posts/:id
func (s *Server) GetPost(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	post, svcErr := s.postService.GetPost(c.UserContext(), id, s.currentUser(c))
	if svcErr != nil {
		return s.respondServiceError(c, svcErr)
	}

	return c.JSON(post)
}

// GetUserPosts handles GET /api/users/:id/posts
func (s *Server) GetUserPosts(c *fiber.Ctx) error {
	authorID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	posts, svcErr := s.postService.ListByAuthor(c.UserContext(), authorID, s.currentUser(c))
	if svcErr != nil {
		return s.respondServiceError(c, svcErr)
	}

	return c.JSON(posts)
}

// ToggleLike handles POST /api/posts/:id/like
func (s *Server) ToggleLike(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	result, svcErr := s.postService.ToggleLike(c.UserContext(), id, s.currentUser(c))
	if svcErr != nil {
		return s.respondServiceError(c, svcErr)
	}

	return c.JSON(result)
}
