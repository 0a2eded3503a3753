package pagination

import (
	"encoding/base64"
	"fmt"
	"strings"
	"time"

	"github.com/SscSPs/statement_review_app/internal/apperrors"
)

const timeFormat = time.RFC3339Nano

// Cursor is a keyset position: rows strictly after (CreatedAt, ID) come next.
type Cursor struct {
	CreatedAt time.Time
	ID        string
}

// After reports whether a row sorted by (createdAt, id) comes after the cursor.
func (c Cursor) After(createdAt time.Time, id string) bool {
	if createdAt.Equal(c.CreatedAt) {
		return id > c.ID
	}
	return createdAt.After(c.CreatedAt)
}

// EncodeCursor creates an opaque base64 token for a keyset position.
func EncodeCursor(c Cursor) string {
	tokenStr := fmt.Sprintf("%s|%s", c.CreatedAt.UTC().Format(timeFormat), c.ID)
	return base64.URLEncoding.EncodeToString([]byte(tokenStr))
}

// DecodeCursor parses a token produced by EncodeCursor.
// Malformed tokens are reported as validation errors on the next_token parameter.
func DecodeCursor(token string) (Cursor, error) {
	decodedBytes, err := base64.URLEncoding.DecodeString(token)
	if err != nil {
		return Cursor{}, invalid("base64 decode")
	}
	parts := strings.SplitN(string(decodedBytes), "|", 2)
	if len(parts) != 2 || parts[1] == "" {
		return Cursor{}, invalid("split")
	}
	createdAt, err := time.Parse(timeFormat, parts[0])
	if err != nil {
		return Cursor{}, invalid("created_at parse")
	}
	return Cursor{CreatedAt: createdAt, ID: parts[1]}, nil
}

func invalid(stage string) error {
	return apperrors.NewValidationError("next_token", "invalid pagination token ("+stage+")")
}
