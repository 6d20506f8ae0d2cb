package middleware

import (
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"

	"github.com/Faseeh100/orphancare-web/internal/infrastructure/observability/logging"
)

type visitorLimiter struct {
	limiter *rate.Limiter
	seen    time.Time
}

// FormLimiter throttles public form posts per visitor
type FormLimiter struct {
	mu       sync.Mutex
	visitors map[string]*visitorLimiter
	limit    rate.Limit
	burst    int
	idle     time.Duration
	logger   *logging.ChanneledLogger
}

// NewFormLimiter allows perMinute posts a minute per visitor, with the
// same burst. A non-positive perMinute disables limiting.
func NewFormLimiter(perMinute int, logger *logging.ChanneledLogger) *FormLimiter {
	l := &FormLimiter{
		visitors: make(map[string]*visitorLimiter),
		limit:    rate.Inf,
		burst:    1,
		idle:     10 * time.Minute,
		logger:   logger,
	}
	if perMinute > 0 {
		l.limit = rate.Every(time.Minute / time.Duration(perMinute))
		l.burst = perMinute
	}
	return l
}

func (l *FormLimiter) allow(visitor string, now time.Time) bool {
	l.mu.Lock()
	v, ok := l.visitors[visitor]
	if !ok {
		v = &visitorLimiter{limiter: rate.NewLimiter(l.limit, l.burst)}
		l.visitors[visitor] = v
	}
	v.seen = now
	l.mu.Unlock()
	return v.limiter.AllowN(now, 1)
}

// Middleware rejects posts over the limit. limited renders the response;
// when nil a plain 429 is sent.
func (l *FormLimiter) Middleware(limited gin.HandlerFunc) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.Method != http.MethodPost {
			c.Next()
			return
		}
		visitor := GetVisitorID(c)
		if visitor == "" {
			visitor = c.ClientIP()
		}
		if l.allow(visitor, time.Now()) {
			c.Next()
			return
		}

		l.logger.WithContext(logging.ChannelForms, c.Request.Context()).Warn("Form post rate limited", "path", c.Request.URL.Path, "visitor", logging.MaskID(visitor))
		if limited != nil {
			limited(c)
		} else {
			c.String(http.StatusTooManyRequests, "Too many submissions. Please wait a minute and try again.")
		}
		c.Abort()
	}
}

// Sweep forgets visitors idle for longer than the limiter window
func (l *FormLimiter) Sweep(now time.Time) int {
	l.mu.Lock()
	defer l.mu.Unlock()
	removed := 0
	for id, v := range l.visitors {
		if now.Sub(v.seen) >= l.idle {
			delete(l.visitors, id)
			removed++
		}
	}
	return removed
}
