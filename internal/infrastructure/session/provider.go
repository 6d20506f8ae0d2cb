// Package session stores the signed-in administrator between requests.
// Handlers depend on Provider; production uses the cookie provider and
// tests use the in-memory one.
package session

import (
	"encoding/base64"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/Faseeh100/orphancare-web/internal/domain/entities/content"
)

const (
	flashCookie   = "oc_flash"
	visitorCookie = "oc_visitor"
)

// Provider loads, saves and clears the admin session of a request
type Provider interface {
	// Load returns nil without error when the request carries no session
	Load(c *gin.Context) (*content.Session, error)
	Save(c *gin.Context, sess content.Session) error
	Clear(c *gin.Context)
}

// CookieOptions are shared by every cookie the web tier sets
type CookieOptions struct {
	Secure bool
	TTL    time.Duration
}

func setCookie(c *gin.Context, opts CookieOptions, name, value string, maxAge int) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(name, value, maxAge, "/", "", opts.Secure, true)
}

// SetFlash stores a one-shot message shown on the next page load
func SetFlash(c *gin.Context, opts CookieOptions, message string) {
	setCookie(c, opts, flashCookie, base64.RawURLEncoding.EncodeToString([]byte(message)), 60)
}

// PopFlash returns and clears the pending flash message
func PopFlash(c *gin.Context, opts CookieOptions) string {
	raw, err := c.Cookie(flashCookie)
	if err != nil || raw == "" {
		return ""
	}
	setCookie(c, opts, flashCookie, "", -1)
	decoded, err := base64.RawURLEncoding.DecodeString(raw)
	if err != nil {
		return ""
	}
	return string(decoded)
}

// VisitorID reads the anonymous visitor cookie
func VisitorID(c *gin.Context) string {
	id, _ := c.Cookie(visitorCookie)
	return id
}

// SetVisitorID issues the anonymous visitor cookie for a year
func SetVisitorID(c *gin.Context, opts CookieOptions, id string) {
	setCookie(c, opts, visitorCookie, id, int((365 * 24 * time.Hour).Seconds()))
}
