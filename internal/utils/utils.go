package utils

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/vaughan-dsouza/quill/internal/models"
)

// context key
type ctxKey string

const CtxUserKey ctxKey = "user"

// WithUser stores the resolved user for the rest of the request.
func WithUser(ctx context.Context, u *models.User) context.Context {
	return context.WithValue(ctx, CtxUserKey, u)
}

// CurrentUser returns the user resolved from the session, if any.
func CurrentUser(ctx context.Context) (*models.User, bool) {
	u, ok := ctx.Value(CtxUserKey).(*models.User)
	if !ok || u == nil {
		return nil, false
	}
	return u, true
}

// ParseTTL parses durations such as "15m", "1h", "20s", or "30" (minutes).
// An empty string yields def.
func ParseTTL(ttlStr string, def time.Duration) (time.Duration, error) {
	if ttlStr == "" {
		return def, nil
	}

	if strings.HasSuffix(ttlStr, "m") ||
		strings.HasSuffix(ttlStr, "h") ||
		strings.HasSuffix(ttlStr, "s") {
		return time.ParseDuration(ttlStr)
	}

	// fallback: minutes
	min, err := strconv.Atoi(ttlStr)
	if err != nil {
		return 0, err
	}
	return time.Duration(min) * time.Minute, nil
}

// ParseID parses a positive row id from a path segment.
func ParseID(s string) (int64, error) {
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, err
	}
	if id <= 0 {
		return 0, errors.New("id must be positive")
	}
	return id, nil
}
