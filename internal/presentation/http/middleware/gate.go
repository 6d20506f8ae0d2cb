package middleware

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/Faseeh100/orphancare-web/internal/application/services"
	"github.com/Faseeh100/orphancare-web/internal/domain/entities/content"
	"github.com/Faseeh100/orphancare-web/internal/infrastructure/observability/logging"
	"github.com/Faseeh100/orphancare-web/internal/infrastructure/observability/performance"
	"github.com/Faseeh100/orphancare-web/internal/infrastructure/session"
)

const (
	sessionKey = "adminSession"
	loginPath  = "/login"

	sessionExpiredFlash = "Your session has expired. Please sign in again."
)

// GateConfig wires the admin gate
type GateConfig struct {
	Provider session.Provider
	Gate     *services.AuthGate
	Cookies  session.CookieOptions
	// Unavailable renders the "couldn't verify" page when the API could
	// not give a verdict. The session is already set on the context.
	Unavailable gin.HandlerFunc
}

// AdminGate lets a request through only after the API has confirmed the
// session token. Missing sessions go to the login page without a network
// call; rejected ones are cleared first.
func AdminGate(cfg GateConfig, logger *logging.ChanneledLogger, perfTracker *performance.Tracker) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		marker := perfTracker.StartOperation("middleware_admin_gate")
		defer marker.Complete()
		marker.AddMetadata("path", c.Request.URL.Path)

		sess, err := cfg.Provider.Load(c)
		if err != nil {
			logger.LogError(logging.ChannelAuth, "load_session", err, map[string]any{"path": c.Request.URL.Path})
			sess = nil
		}

		result := cfg.Gate.Check(c.Request.Context(), sess)
		marker.AddMetadata("decision", string(result.Decision))

		switch result.Decision {
		case services.DecisionAuthorized:
			marker.SetSuccess(true)
			c.Set(sessionKey, sess)
			logger.WithContext(logging.ChannelAuth, c.Request.Context()).Debug("Admin gate passed", "path", c.Request.URL.Path, "duration", time.Since(start))
			c.Next()
		case services.DecisionRejected:
			cfg.Provider.Clear(c)
			session.SetFlash(c, cfg.Cookies, sessionExpiredFlash)
			Redirect(c, loginPath)
			c.Abort()
		case services.DecisionUnavailable:
			marker.SetError(result.Err)
			c.Set(sessionKey, sess)
			cfg.Unavailable(c)
			c.Abort()
		default:
			Redirect(c, loginPath)
			c.Abort()
		}
	}
}

// GetSession returns the session the gate let through
func GetSession(c *gin.Context) (*content.Session, bool) {
	v, ok := c.Get(sessionKey)
	if !ok {
		return nil, false
	}
	sess, ok := v.(*content.Session)
	return sess, ok && sess != nil
}
