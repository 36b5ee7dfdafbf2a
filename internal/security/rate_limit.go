// Package security holds the abuse controls in front of the scan flow. A
// secure code is a bearer credential for check-in, so repeated guessing has
// to be throttled even though lookups themselves are cheap.
package security

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	"github.com/farra-app/farra-api/internal/helpers"
	"github.com/farra-app/farra-api/internal/models"
)

// scanCountScript bumps the caller's counter and arms its expiry in one
// atomic step. Doing INCR and PEXPIRE as separate commands could strand a
// counter without a TTL, throttling the caller forever.
const scanCountScript = `local n = redis.call("INCR", KEYS[1])
if n == 1 then
  redis.call("PEXPIRE", KEYS[1], ARGV[1])
end
return n`

type RateLimiter struct {
	redis  *redis.Client
	limit  int64
	window time.Duration
}

// NewRateLimiter throttles to limit requests per window per caller. A nil
// redis client disables throttling (single-instance dev setups).
func NewRateLimiter(redisClient *redis.Client, limit int, window time.Duration) *RateLimiter {
	return &RateLimiter{redis: redisClient, limit: int64(limit), window: window}
}

// ScanRateLimit keys the counter by authenticated UID when present, client
// IP otherwise. Counter state lives in redis so all instances share it.
func (r *RateLimiter) ScanRateLimit() gin.HandlerFunc {
	return func(c *gin.Context) {
		if r.redis == nil {
			c.Next()
			return
		}

		id := c.ClientIP()
		if user, ok := c.Get("user"); ok {
			if claims, ok := user.(*helpers.AuthClaims); ok {
				id = "user:" + claims.UID
			}
		}
		key := fmt.Sprintf("scanlimit:%s", id)

		count, err := r.redis.Eval(c.Request.Context(), scanCountScript,
			[]string{key}, r.window.Milliseconds()).Int64()
		if err != nil {
			// Redis being down must not block check-in at the door.
			c.Next()
			return
		}
		if count > r.limit {
			c.AbortWithStatusJSON(http.StatusTooManyRequests,
				models.ErrorResponse("too many scan attempts, slow down"))
			return
		}

		c.Next()
	}
}
