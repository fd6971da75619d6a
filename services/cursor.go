package services

import (
	"encoding/base64"
	"fmt"
	"strconv"
	"strings"
	"time"

	"timeline/models"
)

// Cursor - составной ключ пагинации (created_at, id) последнего твита
// отданной страницы. Сравнивается в том же порядке, что и сама лента
// (created_at DESC, id DESC), поэтому однозначно задает точку продолжения
// даже при совпадающих timestamp.
type Cursor struct {
	CreatedAt time.Time
	ID        int64
}

// EncodeCursor кодирует курсор в непрозрачную строку для клиента
func EncodeCursor(c Cursor) string {
	raw := fmt.Sprintf("%d:%d", c.CreatedAt.UnixNano(), c.ID)
	return base64.RawURLEncoding.EncodeToString([]byte(raw))
}

// CursorFromTweet строит курсор из последнего твита страницы
func CursorFromTweet(t models.FeedTweet) Cursor {
	return Cursor{CreatedAt: t.CreatedAt, ID: t.ID}
}

// DecodeCursor - точная обратная операция к EncodeCursor.
// Любой некорректный вход дает ErrInvalidCursor.
func DecodeCursor(s string) (Cursor, error) {
	raw, err := base64.RawURLEncoding.DecodeString(s)
	if err != nil {
		return Cursor{}, fmt.Errorf("%w: %v", ErrInvalidCursor, err)
	}

	parts := strings.Split(string(raw), ":")
	if len(parts) != 2 {
		return Cursor{}, fmt.Errorf("%w: malformed payload", ErrInvalidCursor)
	}

	nanos, err := strconv.ParseInt(parts[0], 10, 64)
	if err != nil {
		return Cursor{}, fmt.Errorf("%w: bad timestamp", ErrInvalidCursor)
	}
	id, err := strconv.ParseInt(parts[1], 10, 64)
	if err != nil || id <= 0 {
		return Cursor{}, fmt.Errorf("%w: bad id", ErrInvalidCursor)
	}

	return Cursor{CreatedAt: time.Unix(0, nanos).UTC(), ID: id}, nil
}
