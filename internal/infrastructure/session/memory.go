package session

import (
	"sync"

	"github.com/gin-gonic/gin"

	"github.com/Faseeh100/orphancare-web/internal/domain/entities/content"
	"github.com/Faseeh100/orphancare-web/internal/infrastructure/security"
)

const memoryCookie = "oc_sid"

// MemoryProvider keeps sessions server-side, keyed by an opaque cookie
type MemoryProvider struct {
	mu       sync.RWMutex
	sessions map[string]content.Session
	opts     CookieOptions
}

func NewMemoryProvider(opts CookieOptions) *MemoryProvider {
	return &MemoryProvider{sessions: make(map[string]content.Session), opts: opts}
}

func (p *MemoryProvider) Load(c *gin.Context) (*content.Session, error) {
	sid, err := c.Cookie(memoryCookie)
	if err != nil || sid == "" {
		return nil, nil
	}
	p.mu.RLock()
	sess, ok := p.sessions[sid]
	p.mu.RUnlock()
	if !ok {
		return nil, nil
	}
	return &sess, nil
}

func (p *MemoryProvider) Save(c *gin.Context, sess content.Session) error {
	sid, err := security.RandomToken(24)
	if err != nil {
		return err
	}
	p.mu.Lock()
	p.sessions[sid] = sess
	p.mu.Unlock()
	setCookie(c, p.opts, memoryCookie, sid, int(p.opts.TTL.Seconds()))
	return nil
}

func (p *MemoryProvider) Clear(c *gin.Context) {
	if sid, err := c.Cookie(memoryCookie); err == nil {
		p.mu.Lock()
		delete(p.sessions, sid)
		p.mu.Unlock()
	}
	setCookie(c, p.opts, memoryCookie, "", -1)
}

// Put registers sess under sid without a request, for tests that start signed in
func (p *MemoryProvider) Put(sid string, sess content.Session) {
	p.mu.Lock()
	p.sessions[sid] = sess
	p.mu.Unlock()
}

// CookieName is the cookie the memory provider reads
func (p *MemoryProvider) CookieName() string { return memoryCookie }

// Len reports how many sessions are held
func (p *MemoryProvider) Len() int {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return len(p.sessions)
}
