package listing

import (
	"errors"
	"sync"
	"time"

	"github.com/Faseeh100/orphancare-web/internal/infrastructure/security"
)

// ErrConfirmation is returned for a missing, expired, reused or mismatched token
var ErrConfirmation = errors.New("this delete was not confirmed or the confirmation expired")

type pending struct {
	scope   string
	action  string
	id      string
	expires time.Time
}

// Confirmations issues single-use tokens that must accompany a destructive
// request. A token is bound to the session, the action and the record ID.
type Confirmations struct {
	mu     sync.Mutex
	tokens map[string]pending
	ttl    time.Duration
	now    func() time.Time
}

func NewConfirmations(ttl time.Duration) *Confirmations {
	return &Confirmations{tokens: make(map[string]pending), ttl: ttl, now: time.Now}
}

// Issue returns a token for the confirmation view of (scope, action, id)
func (c *Confirmations) Issue(scope, action, id string) (string, error) {
	token, err := security.RandomToken(24)
	if err != nil {
		return "", err
	}
	c.mu.Lock()
	c.tokens[token] = pending{scope: scope, action: action, id: id, expires: c.now().Add(c.ttl)}
	c.mu.Unlock()
	return token, nil
}

// Consume validates and burns token. Any mismatch also burns it.
func (c *Confirmations) Consume(token, scope, action, id string) error {
	if token == "" {
		return ErrConfirmation
	}
	c.mu.Lock()
	p, ok := c.tokens[token]
	delete(c.tokens, token)
	c.mu.Unlock()

	if !ok || c.now().After(p.expires) {
		return ErrConfirmation
	}
	if p.scope != scope || p.action != action || p.id != id {
		return ErrConfirmation
	}
	return nil
}

// Sweep drops expired tokens and returns how many were removed
func (c *Confirmations) Sweep(now time.Time) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	removed := 0
	for token, p := range c.tokens {
		if now.After(p.expires) {
			delete(c.tokens, token)
			removed++
		}
	}
	return removed
}

func (c *Confirmations) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.tokens)
}
