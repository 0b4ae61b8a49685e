package middleware

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rednote/backend/internal/cache"
	"github.com/rednote/backend/internal/logger"
	"github.com/rednote/backend/internal/util"
	"go.uber.org/zap"
)

// RedisRateLimitMiddleware creates a distributed fixed-window rate limiter
// keyed by client IP. It fails open: when redis is unreachable the request
// goes through and the outage is logged, because write availability
// matters more here than strict limiting.
func RedisRateLimitMiddleware(maxRequests int, window time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		redisClient := cache.GetRedisClient()
		if redisClient == nil {
			c.Next()
			return
		}

		clientIP := getClientIP(c.Request.RemoteAddr)
		key := fmt.Sprintf("rate_limit:%s", clientIP)
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()

		val, err := redisClient.GetInt(ctx, key)
		if err != nil {
			logger.Log.Warn("Rate limit check failed, allowing request",
				logger.WithIP(clientIP),
				zap.Error(err),
			)
			c.Next()
			return
		}

		if val >= int64(maxRequests) {
			logger.Log.Warn("Rate limit exceeded",
				logger.WithIP(clientIP),
				zap.Int("max_requests", maxRequests),
				zap.Int64("current_requests", val),
			)
			c.JSON(http.StatusTooManyRequests, util.Envelope{
				Code: "RATE_LIMITED",
				Msg:  "rate limit exceeded",
			})
			c.Abort()
			return
		}

		newVal, err := redisClient.IncrBy(ctx, key, 1)
		if err != nil {
			logger.Log.Warn("Rate limit increment failed, allowing request",
				logger.WithIP(clientIP),
				zap.Error(err),
			)
			c.Next()
			return
		}

		// First hit in this window owns the expiry.
		if newVal == 1 {
			if err := redisClient.Expire(ctx, key, window); err != nil {
				logger.Log.Warn("Failed to set rate limit expiration",
					logger.WithIP(clientIP),
					zap.Error(err),
				)
			}
		}

		c.Next()
	}
}

// getClientIP extracts the client IP from RemoteAddr
func getClientIP(remoteAddr string) string {
	if ip, _, err := net.SplitHostPort(remoteAddr); err == nil {
		return ip
	}
	return remoteAddr
}
