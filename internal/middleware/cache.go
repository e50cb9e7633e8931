package middleware

import (
	"bytes"
	"crypto/sha1"
	"encoding/binary"
	"fmt"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"

	"github.com/iliyamo/customer-contacts-api/internal/config"
)

// captureWriter captures the response body and status while forwarding
// them to the client, so a successful response can be stored afterwards.
type captureWriter struct {
	http.ResponseWriter
	status int
	buf    bytes.Buffer
	size   int64
	limit  int64
}

func (cw *captureWriter) WriteHeader(code int) {
	cw.status = code
	cw.ResponseWriter.WriteHeader(code)
}

func (cw *captureWriter) Write(b []byte) (int, error) {
	if cw.limit <= 0 || cw.size+int64(len(b)) <= cw.limit {
		cw.buf.Write(b)
	}
	cw.size += int64(len(b))
	return cw.ResponseWriter.Write(b)
}

// resourceFamily groups routes whose cached responses go stale together.
// Contacts live under /customers/:customerId/..., and customer responses
// embed contact projections, so both share the "customers" family.
func resourceFamily(path string) string {
	p := strings.TrimPrefix(path, "/")
	if i := strings.IndexByte(p, '/'); i > 0 {
		p = p[:i]
	}
	return p
}

// encodePayload packs [4 bytes status][body] for storage.
func encodePayload(status int, body []byte) []byte {
	out := make([]byte, 4+len(body))
	binary.BigEndian.PutUint32(out[0:4], uint32(status))
	copy(out[4:], body)
	return out
}

func decodePayload(bs []byte) (status int, body []byte, ok bool) {
	if len(bs) < 4 {
		return 0, nil, false
	}
	return int(binary.BigEndian.Uint32(bs[0:4])), bs[4:], true
}

// ResponseCache caches successful GET responses in Redis and invalidates
// them with a per-family version counter: every successful write bumps
// the family version, which rotates the keys of all cached reads in that
// family. Keys include the authenticated user id so responses are never
// shared across identities. Disabled (pass-through) when Redis is absent.
func ResponseCache(cfg config.CacheConfig, rdb *redis.Client) echo.MiddlewareFunc {
	if !cfg.Enabled || rdb == nil {
		return func(next echo.HandlerFunc) echo.HandlerFunc {
			return func(c echo.Context) error { return next(c) }
		}
	}
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			req := c.Request()
			ctx := req.Context()
			family := resourceFamily(req.URL.Path)
			verKey := fmt.Sprintf("%s:ver:%s", cfg.Prefix, family)

			if req.Method != http.MethodGet {
				err := next(c)
				if err == nil && c.Response().Status < 400 {
					_ = rdb.Incr(ctx, verKey).Err()
				}
				return err
			}

			ver, _ := rdb.Get(ctx, verKey).Result()
			sum := sha1.Sum([]byte(fmt.Sprintf("%v:%s:%s?%s", c.Get("user_id"), ver, req.URL.Path, req.URL.RawQuery)))
			key := fmt.Sprintf("%s:%x", cfg.Prefix, sum)

			if bs, err := rdb.Get(ctx, key).Bytes(); err == nil {
				if status, body, ok := decodePayload(bs); ok {
					c.Response().Header().Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
					c.Response().Header().Set("X-Cache", "HIT")
					c.Response().WriteHeader(status)
					_, _ = c.Response().Write(body)
					return nil
				}
			}

			cw := &captureWriter{ResponseWriter: c.Response().Writer, status: http.StatusOK, limit: int64(cfg.MaxBodyBytes)}
			c.Response().Writer = cw
			c.Response().Header().Set("X-Cache", "MISS")

			if err := next(c); err != nil {
				return err
			}
			if cw.status == http.StatusOK && (cw.limit <= 0 || cw.size <= cw.limit) {
				_ = rdb.Set(ctx, key, encodePayload(cw.status, cw.buf.Bytes()), cfg.TTL).Err()
			}
			return nil
		}
	}
}
