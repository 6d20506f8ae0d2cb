// Package middleware provides HTTP middleware for the presentation layer.
package middleware

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Faseeh100/orphancare-web/internal/infrastructure/observability/logging"
	"github.com/Faseeh100/orphancare-web/internal/infrastructure/security"
	"github.com/Faseeh100/orphancare-web/internal/infrastructure/session"
)

const (
	requestIDHeader = "X-Request-ID"
	visitorKey      = "visitorId"
)

// RequestID tags every request with an ID that channel loggers pick up
// from the request context
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(requestIDHeader)
		if id == "" || len(id) > 64 {
			id = security.NewULID()
		}
		c.Header(requestIDHeader, id)
		c.Request = c.Request.WithContext(context.WithValue(c.Request.Context(), logging.RequestIDKey, id))
		c.Next()
	}
}

// Visitor makes sure every browser carries an anonymous visitor ID. Views
// the fetcher tracks are scoped to it.
func Visitor(opts session.CookieOptions) gin.HandlerFunc {
	return func(c *gin.Context) {
		id := session.VisitorID(c)
		if _, ok := security.ULIDTime(id); !ok {
			id = security.NewULID()
			session.SetVisitorID(c, opts, id)
		}
		c.Set(visitorKey, id)
		c.Next()
	}
}

// GetVisitorID returns the visitor ID set by Visitor
func GetVisitorID(c *gin.Context) string {
	return c.GetString(visitorKey)
}

// IsHTMX reports a request issued by htmx
func IsHTMX(c *gin.Context) bool {
	return c.GetHeader("HX-Request") == "true"
}

// Redirect sends the browser to location. htmx requests get an HX-Redirect
// header so the whole page navigates instead of swapping a fragment.
func Redirect(c *gin.Context, location string) {
	if IsHTMX(c) {
		c.Header("HX-Redirect", location)
		c.Status(http.StatusNoContent)
		return
	}
	status := http.StatusFound
	if c.Request.Method != http.MethodGet && c.Request.Method != http.MethodHead {
		status = http.StatusSeeOther
	}
	c.Redirect(status, location)
}
