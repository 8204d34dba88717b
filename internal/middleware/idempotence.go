package middleware

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

const (
	idempotenceTTL    = 60 * time.Second
	idempotenceHeader = "x-idempotence"
)

var idempotenceSkipPaths = []string{
	"/api/v1/auth/login",
}

// Idempotence rejects duplicate mutating requests within a short window.
// The key is the client-provided x-idempotence header, or a digest of the
// request signature when the header is absent.
func Idempotence(rdb *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.Method == http.MethodGet || c.Request.Method == http.MethodOptions {
			c.Next()
			return
		}
		for _, skip := range idempotenceSkipPaths {
			if c.Request.URL.Path == skip {
				c.Next()
				return
			}
		}

		key := "folio:idempotence:" + requestDigest(c)
		ctx := c.Request.Context()

		ok, err := rdb.SetNX(ctx, key, "0", idempotenceTTL).Result()
		if err != nil {
			c.Next()
			return
		}
		if !ok {
			c.AbortWithStatusJSON(http.StatusConflict, gin.H{
				"ok":      0,
				"code":    http.StatusConflict,
				"message": "duplicate request, try again later",
			})
			return
		}

		c.Next()

		// Successful requests keep the guard for the full window; failed ones
		// release it so the client can retry immediately.
		if status := c.Writer.Status(); status >= 200 && status < 300 {
			rdb.Set(ctx, key, "1", idempotenceTTL)
		} else {
			rdb.Del(ctx, key)
		}
	}
}

func requestDigest(c *gin.Context) string {
	if v := strings.TrimSpace(c.GetHeader(idempotenceHeader)); v != "" {
		return digest(v)
	}

	var body []byte
	if c.Request.Body != nil {
		body, _ = io.ReadAll(io.LimitReader(c.Request.Body, 1<<20))
		c.Request.Body = io.NopCloser(strings.NewReader(string(body)))
	}
	sig := fmt.Sprintf("%s|%s|%s|%s", c.Request.Method, c.Request.URL.RequestURI(), c.ClientIP(), body)
	return digest(sig)
}

func digest(s string) string {
	sum := sha256.Sum256([]byte(s))
	return hex.EncodeToString(sum[:])
}
