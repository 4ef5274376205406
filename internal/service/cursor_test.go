package service

import (
	"testing"
	"time"

	"sahityapata/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCursorRoundTrip(t *testing.T) {
	orig := feedCursor{
		LastDate: time.Date(2026, 3, 14, 9, 26, 53, 0, time.UTC),
		LastID:   42,
		Category: models.CategoryPoetry,
	}

	token := encodeCursor(orig)
	require.NotEmpty(t, token)

	decoded, err := decodeCursor(token)
	require.NoError(t, err)
	require.NotNil(t, decoded)
	assert.True(t, orig.LastDate.Equal(decoded.LastDate))
	assert.Equal(t, orig.LastID, decoded.LastID)
	assert.Equal(t, orig.Category, decoded.Category)

	ks := decoded.keyset()
	require.NotNil(t, ks)
	assert.Equal(t, uint(42), ks.ID)
}

func TestDecodeCursor_Invalid(t *testing.T) {
	tests := []struct {
		name  string
		token string
	}{
		{"Not base64", "!!!not-a-cursor!!!"},
		{"Base64 but not JSON", "bm90LWpzb24"},
		{"Missing position fields", encodeCursor(feedCursor{Category: models.CategoryShortStory})},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, err := decodeCursor(tt.token)
			require.Error(t, err)
			assert.Nil(t, c)

			var appErr *models.AppError
			require.ErrorAs(t, err, &appErr)
			assert.Equal(t, "VALIDATION_ERROR", appErr.Code)
		})
	}
}

func TestDecodeCursor_Empty(t *testing.T) {
	c, err := decodeCursor("")
	require.NoError(t, err)
	assert.Nil(t, c)
	assert.Nil(t, c.keyset())
}
