package service

import (
	"encoding/base64"
	"encoding/json"
	"time"

	"sahityapata/internal/models"
	"sahityapata/internal/repository"
)

// FeedPageSize is the fixed number of posts per feed page.
const FeedPageSize = 6

// feedCursor is the decoded form of the opaque cursor token. It pins the
// position after the last row of the previous page and the category the
// page was fetched under.
type feedCursor struct {
	LastDate time.Time       `json:"lastDate"`
	LastID   uint            `json:"lastId"`
	Category models.Category `json:"category"`
}

func encodeCursor(c feedCursor) string {
	b, err := json.Marshal(c)
	if err != nil {
		return ""
	}
	return base64.RawURLEncoding.EncodeToString(b)
}

// decodeCursor parses an opaque cursor token. A malformed token is a
// validation error; callers restart pagination from the first page by
// passing an empty token.
func decodeCursor(token string) (*feedCursor, error) {
	if token == "" {
		return nil, nil
	}
	b, err := base64.RawURLEncoding.DecodeString(token)
	if err != nil {
		return nil, models.NewValidationError("Invalid cursor")
	}
	var c feedCursor
	if err := json.Unmarshal(b, &c); err != nil {
		return nil, models.NewValidationError("Invalid cursor")
	}
	if c.LastID == 0 || c.LastDate.IsZero() {
		return nil, models.NewValidationError("Invalid cursor")
	}
	return &c, nil
}

func (c *feedCursor) keyset() *repository.Keyset {
	if c == nil {
		return nil
	}
	return &repository.Keyset{CreatedAt: c.LastDate, ID: c.LastID}
}
