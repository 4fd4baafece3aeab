package middleware

import (
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"

	"github.com/dimas0315/AI-Social-Platform/config"
	"github.com/dimas0315/AI-Social-Platform/utils"
)

// visitor tracks the token bucket for one client IP.
type visitor struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

const visitorTTL = 5 * time.Minute

var (
	visitors   = map[string]*visitor{}
	visitorsMu sync.Mutex
)

// RateLimitMiddleware throttles requests per client IP with a token bucket
// refilled at the configured per-minute rate.
func RateLimitMiddleware() gin.HandlerFunc {
	perMinute := max(config.Get().RateLimitPerMinute, 1)
	limit := rate.Every(time.Minute / time.Duration(perMinute))
	burst := max(perMinute/2, 1)

	return func(ctx *gin.Context) {
		if !visitorAllow(ctx.ClientIP(), limit, burst) {
			utils.Error(ctx, http.StatusTooManyRequests, 42901, "rate limit exceeded")
			ctx.Abort()
			return
		}
		ctx.Next()
	}
}

func visitorAllow(ip string, limit rate.Limit, burst int) bool {
	visitorsMu.Lock()
	v, ok := visitors[ip]
	if !ok {
		v = &visitor{limiter: rate.NewLimiter(limit, burst)}
		visitors[ip] = v
	}
	v.lastSeen = time.Now()
	sweepVisitorsLocked(v.lastSeen)
	visitorsMu.Unlock()

	return v.limiter.Allow()
}

// sweepVisitorsLocked drops buckets idle past the TTL. Caller holds visitorsMu.
func sweepVisitorsLocked(now time.Time) {
	for ip, v := range visitors {
		if now.Sub(v.lastSeen) > visitorTTL {
			delete(visitors, ip)
		}
	}
}
