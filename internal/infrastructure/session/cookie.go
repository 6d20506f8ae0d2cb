package session

import (
	"errors"
	"fmt"

	"github.com/gin-gonic/gin"

	"github.com/Faseeh100/orphancare-web/internal/domain/entities/content"
	"github.com/Faseeh100/orphancare-web/internal/infrastructure/security"
)

const sessionCookie = "oc_session"

// CookieProvider keeps the whole session in a signed JWT cookie, so every
// tab of the same browser sees a logout immediately
type CookieProvider struct {
	secret string
	opts   CookieOptions
}

func NewCookieProvider(secret string, opts CookieOptions) *CookieProvider {
	return &CookieProvider{secret: secret, opts: opts}
}

func (p *CookieProvider) Load(c *gin.Context) (*content.Session, error) {
	raw, err := c.Cookie(sessionCookie)
	if err != nil || raw == "" {
		return nil, nil
	}
	sess, err := security.ParseSession(raw, p.secret)
	if err != nil {
		if errors.Is(err, security.ErrInvalidSession) {
			p.Clear(c)
			return nil, nil
		}
		return nil, err
	}
	return &sess, nil
}

func (p *CookieProvider) Save(c *gin.Context, sess content.Session) error {
	signed, err := security.SignSession(sess, p.secret, p.opts.TTL)
	if err != nil {
		return fmt.Errorf("save session: %w", err)
	}
	setCookie(c, p.opts, sessionCookie, signed, int(p.opts.TTL.Seconds()))
	return nil
}

func (p *CookieProvider) Clear(c *gin.Context) {
	setCookie(c, p.opts, sessionCookie, "", -1)
}
