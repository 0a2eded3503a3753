package pagination

import (
	"testing"
	"time"

	"github.com/SscSPs/statement_review_app/internal/apperrors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncodeDecodeCursor(t *testing.T) {
	createdAt := time.Date(2023, 5, 15, 14, 30, 45, 123456789, time.UTC)
	c := Cursor{CreatedAt: createdAt, ID: "7d0f3c1e-entry"}

	token := EncodeCursor(c)
	assert.NotEmpty(t, token)

	decoded, err := DecodeCursor(token)
	require.NoError(t, err)
	assert.True(t, createdAt.Equal(decoded.CreatedAt))
	assert.Equal(t, c.ID, decoded.ID)

	// ids containing the separator survive the round trip
	weird := Cursor{CreatedAt: createdAt, ID: "a|b"}
	decoded, err = DecodeCursor(EncodeCursor(weird))
	require.NoError(t, err)
	assert.Equal(t, "a|b", decoded.ID)
}

func TestDecodeCursorError(t *testing.T) {
	_, err := DecodeCursor("this is not base64!")
	assert.ErrorIs(t, err, apperrors.ErrValidation)
	assert.Contains(t, err.Error(), "base64 decode")

	_, err = DecodeCursor("MjAyMy0wNS0xNVQwMDowMDowMFo=") // a date with no separator
	assert.ErrorIs(t, err, apperrors.ErrValidation)
	assert.Contains(t, err.Error(), "split")

	_, err = DecodeCursor(EncodeCursor(Cursor{ID: "x"})[:8])
	assert.ErrorIs(t, err, apperrors.ErrValidation)
}

func TestCursorAfter(t *testing.T) {
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	c := Cursor{CreatedAt: base, ID: "b"}

	assert.True(t, c.After(base.Add(time.Microsecond), "a"))
	assert.True(t, c.After(base, "c"))
	assert.False(t, c.After(base, "b"))
	assert.False(t, c.After(base, "a"))
	assert.False(t, c.After(base.Add(-time.Microsecond), "z"))
}
