package middleware

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

const (
	apiCachePrefix  = "folio-api-cache:"
	defaultCacheTTL = 60 * time.Second
)

type cachedResponse struct {
	Status      int    `json:"status"`
	ContentType string `json:"content_type"`
	Body        string `json:"body"` // base64
}

type cacheWriter struct {
	gin.ResponseWriter
	buf bytes.Buffer
}

func (w *cacheWriter) Write(p []byte) (int, error) {
	w.buf.Write(p)
	return w.ResponseWriter.Write(p)
}

// HTTPCache serves hot anonymous GET responses from Redis.
func HTTPCache(rdb *redis.Client, skipPaths []string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.Method != http.MethodGet || IsAuthenticated(c) ||
			shouldSkipCachePath(c.Request.URL.Path, skipPaths) || hasBypassTimestamp(c) {
			c.Next()
			return
		}

		ctx := c.Request.Context()
		key := apiCachePrefix + c.Request.URL.RequestURI()

		if cached, ok := readCachedResponse(ctx, rdb, key); ok {
			c.Header("X-Cache", "HIT")
			c.Data(cached.Status, cached.ContentType, cached.body())
			c.Abort()
			return
		}

		writer := &cacheWriter{ResponseWriter: c.Writer}
		c.Writer = writer
		c.Next()

		if c.Writer.Status() != http.StatusOK || writer.buf.Len() == 0 {
			return
		}
		entry := cachedResponse{
			Status:      c.Writer.Status(),
			ContentType: c.Writer.Header().Get("Content-Type"),
			Body:        base64.StdEncoding.EncodeToString(writer.buf.Bytes()),
		}
		if raw, err := json.Marshal(entry); err == nil {
			rdb.Set(ctx, key, raw, defaultCacheTTL)
		}
	}
}

// PurgeHTTPCache drops every cached response, e.g. after a CV refresh.
func PurgeHTTPCache(ctx context.Context, rdb *redis.Client) error {
	iter := rdb.Scan(ctx, 0, apiCachePrefix+"*", 100).Iterator()
	for iter.Next(ctx) {
		if err := rdb.Del(ctx, iter.Val()).Err(); err != nil {
			return fmt.Errorf("purge cache key %s: %w", iter.Val(), err)
		}
	}
	return iter.Err()
}

func (r cachedResponse) body() []byte {
	raw, err := base64.StdEncoding.DecodeString(r.Body)
	if err != nil {
		return nil
	}
	return raw
}

func readCachedResponse(ctx context.Context, rdb *redis.Client, key string) (*cachedResponse, bool) {
	raw, err := rdb.Get(ctx, key).Result()
	if err != nil {
		return nil, false
	}
	var entry cachedResponse
	if err := json.Unmarshal([]byte(raw), &entry); err != nil {
		return nil, false
	}
	if entry.body() == nil {
		return nil, false
	}
	return &entry, true
}

func shouldSkipCachePath(path string, skipPaths []string) bool {
	for _, skip := range skipPaths {
		if strings.HasSuffix(skip, "*") {
			if strings.HasPrefix(path, strings.TrimSuffix(skip, "*")) {
				return true
			}
			continue
		}
		if path == skip {
			return true
		}
	}
	return false
}

func hasBypassTimestamp(c *gin.Context) bool {
	for _, key := range []string{"ts", "timestamp", "_t", "t"} {
		if c.Query(key) != "" {
			return true
		}
	}
	return false
}
