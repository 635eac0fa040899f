package server

import (
	"errors"
	"math"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/smallbiznis/homestead/internal/observability/logger"
	"github.com/smallbiznis/homestead/internal/ratelimit"
	"go.uber.org/zap"
)

const (
	endpointConfigurations = "configurations"
	endpointContact        = "contact"
)

// SubmissionRateLimit throttles anonymous form posts per client address.
func (s *Server) SubmissionRateLimit(endpoint string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if s.limiter == nil {
			c.Next()
			return
		}

		ctx := c.Request.Context()
		decision, err := s.limiter.Acquire(ctx, endpoint, c.ClientIP())
		if err != nil && !errors.Is(err, ratelimit.ErrRateLimited) && !errors.Is(err, ratelimit.ErrDuplicateSubmission) {
			logger.FromContext(ctx).Warn("submission rate limit check failed", zap.String("endpoint", endpoint), zap.Error(err))
			c.Next()
			return
		}
		if !decision.Allowed {
			denySubmission(c, endpoint, decision.RetryAfter, err)
			return
		}
		defer decision.Release()

		c.Next()
	}
}

func denySubmission(c *gin.Context, endpoint string, retryAfter time.Duration, reason error) {
	if reason == nil {
		reason = ErrRateLimited
	}
	logger.FromContext(c.Request.Context()).Warn("submission rate limit exceeded",
		zap.String("endpoint", endpoint),
		zap.String("reason", reason.Error()),
	)

	c.Header("Retry-After", retryAfterSeconds(retryAfter))
	AbortWithError(c, reason)
}

func retryAfterSeconds(d time.Duration) string {
	seconds := int64(math.Ceil(d.Seconds()))
	if seconds < 1 {
		seconds = 1
	}
	return strconv.FormatInt(seconds, 10)
}
