package middleware

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"escalafon/pkg/response"
)

// SlidingWindow 分布式滑动窗口限流后端（*redis.Client 实现）
type SlidingWindow interface {
	CheckRateLimit(ctx context.Context, key string, limit int, window time.Duration) (bool, error)
}

// RateLimit 写接口限流中间件
//
// 优先使用 Redis 滑动窗口（多实例共享配额）；backend 为 nil 或 Redis 出错时
// 退化为进程内按 IP 的令牌桶，配额相同。limit <= 0 表示不限流。
func RateLimit(backend SlidingWindow, limit int, window time.Duration, logger *zap.Logger) gin.HandlerFunc {
	if limit <= 0 || window <= 0 {
		return func(c *gin.Context) { c.Next() }
	}
	local := newLocalLimiter(limit, window)

	return func(c *gin.Context) {
		ip := c.ClientIP()

		allowed := true
		useLocal := backend == nil
		if !useLocal {
			key := fmt.Sprintf("rate_limit:%s:%s", ip, c.FullPath())
			ok, err := backend.CheckRateLimit(c.Request.Context(), key, limit, window)
			if err != nil {
				logger.Warn("Redis 限流失败，退化为进程内限流", zap.Error(err))
				useLocal = true
			} else {
				allowed = ok
			}
		}
		if useLocal {
			allowed = local.allow(ip)
		}

		if !allowed {
			response.TooManyRequests(c)
			c.Abort()
			return
		}

		c.Next()
	}
}

// localLimiter 进程内按 key 的令牌桶
type localLimiter struct {
	mu       sync.Mutex
	limiters map[string]*rate.Limiter
	every    rate.Limit
	burst    int
}

func newLocalLimiter(limit int, window time.Duration) *localLimiter {
	return &localLimiter{
		limiters: make(map[string]*rate.Limiter),
		every:    rate.Every(window / time.Duration(limit)),
		burst:    limit,
	}
}

func (l *localLimiter) allow(key string) bool {
	l.mu.Lock()
	lim, ok := l.limiters[key]
	if !ok {
		lim = rate.NewLimiter(l.every, l.burst)
		l.limiters[key] = lim
	}
	l.mu.Unlock()
	return lim.Allow()
}
