package middleware

import (
	"bytes"
	"context"
	"crypto/sha1"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"

	"github.com/iliyamo/cinema-showtime-planner/internal/config"
)

// cachedResponse is the stored envelope: the schedule endpoints only emit
// JSON, so status, content type and body are all that needs to round-trip.
type cachedResponse struct {
	Status      int    `json:"status"`
	ContentType string `json:"content_type"`
	Body        []byte `json:"body"`
}

// bodyCapture duplicates the response body into a buffer while forwarding
// it to the client, up to a size limit beyond which the entry is not
// cached.
type bodyCapture struct {
	http.ResponseWriter
	status int
	buf    bytes.Buffer
	limit  int
	over   bool
}

func (w *bodyCapture) WriteHeader(code int) {
	w.status = code
	w.ResponseWriter.WriteHeader(code)
}

func (w *bodyCapture) Write(b []byte) (int, error) {
	if !w.over {
		if w.buf.Len()+len(b) > w.limit {
			w.over = true
		} else {
			w.buf.Write(b)
		}
	}
	return w.ResponseWriter.Write(b)
}

// NewScheduleCache caches successful GET responses in Redis, keyed by route
// and query string.  It fronts the day-schedule listing, which is read far
// more often than it changes; submissions never read through this cache.
func NewScheduleCache(cfg config.CacheConfig, rdb *redis.Client) echo.MiddlewareFunc {
	if !cfg.Enabled || rdb == nil {
		return func(next echo.HandlerFunc) echo.HandlerFunc {
			return func(c echo.Context) error { return next(c) }
		}
	}

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if c.Request().Method != http.MethodGet {
				return next(c)
			}
			ctx := c.Request().Context()
			key := cacheKey(cfg.Prefix, c)

			if raw, err := rdb.Get(ctx, key).Bytes(); err == nil {
				var entry cachedResponse
				if json.Unmarshal(raw, &entry) == nil {
					c.Response().Header().Set(echo.HeaderContentType, entry.ContentType)
					c.Response().Header().Set("X-Cache", "HIT")
					return c.Blob(entry.Status, entry.ContentType, entry.Body)
				}
			}

			w := &bodyCapture{ResponseWriter: c.Response().Writer, status: http.StatusOK, limit: cfg.MaxBodyBytes}
			c.Response().Writer = w
			c.Response().Header().Set("X-Cache", "MISS")

			if err := next(c); err != nil {
				return err
			}
			if w.status == http.StatusOK && !w.over {
				entry := cachedResponse{
					Status:      w.status,
					ContentType: c.Response().Header().Get(echo.HeaderContentType),
					Body:        w.buf.Bytes(),
				}
				if raw, err := json.Marshal(entry); err == nil {
					// The request context may already be done; cache writes
					// use a fresh background context.
					_ = rdb.SetEx(context.Background(), key, raw, cfg.TTL).Err()
				}
			}
			return nil
		}
	}
}

func cacheKey(prefix string, c echo.Context) string {
	sum := sha1.Sum([]byte(c.Path() + "?" + c.Request().URL.RawQuery))
	return fmt.Sprintf("%s:%x", prefix, sum[:])
}
