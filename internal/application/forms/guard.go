package forms

import (
	"errors"
	"sync"
	"time"

	"github.com/Faseeh100/orphancare-web/internal/infrastructure/security"
)

var (
	// ErrDuplicateSubmission is returned for a submission ID already in flight or recently accepted
	ErrDuplicateSubmission = errors.New("this form has already been submitted")
	// ErrMissingSubmissionID is returned when the hidden submission field is absent or forged
	ErrMissingSubmissionID = errors.New("the form is missing its submission id, please reload the page")
)

// abandonedAfter bounds an in-flight entry whose handler never reported
// back. It is far longer than any request can run.
const abandonedAfter = time.Hour

type guardState int

const (
	guardInFlight guardState = iota
	guardDone
)

type guardEntry struct {
	state guardState
	at    time.Time
}

// Guard enforces at most one accepted submission per rendered form. Each
// form carries a fresh submission ID; the same ID is refused while its
// first submit is in flight and for ttl after it succeeded.
type Guard struct {
	mu      sync.Mutex
	entries map[string]guardEntry
	ttl     time.Duration
	now     func() time.Time
}

func NewGuard(ttl time.Duration) *Guard {
	return &Guard{entries: make(map[string]guardEntry), ttl: ttl, now: time.Now}
}

// NewSubmissionID mints the hidden field value for a freshly rendered form
func NewSubmissionID() string {
	return security.NewULID()
}

// Ticket is held for the duration of one accepted submit
type Ticket struct {
	g  *Guard
	id string
}

// ID is the submission ID, also sent upstream as the idempotency key
func (t *Ticket) ID() string { return t.id }

// Begin claims id for a submit
func (g *Guard) Begin(id string) (*Ticket, error) {
	if _, ok := security.ULIDTime(id); !ok {
		return nil, ErrMissingSubmissionID
	}

	g.mu.Lock()
	defer g.mu.Unlock()
	if e, ok := g.entries[id]; ok {
		if e.state == guardInFlight || g.now().Sub(e.at) < g.ttl {
			return nil, ErrDuplicateSubmission
		}
	}
	g.entries[id] = guardEntry{state: guardInFlight, at: g.now()}
	return &Ticket{g: g, id: id}, nil
}

// Succeed marks the submission accepted; the ID stays blocked for the TTL
func (t *Ticket) Succeed() {
	t.g.mu.Lock()
	t.g.entries[t.id] = guardEntry{state: guardDone, at: t.g.now()}
	t.g.mu.Unlock()
}

// Fail releases the ID so the user can correct the form and resubmit
func (t *Ticket) Fail() {
	t.g.mu.Lock()
	delete(t.g.entries, t.id)
	t.g.mu.Unlock()
}

// Sweep drops accepted IDs older than the TTL. Submits still in flight are
// kept until abandonedAfter so a slow submit cannot be accepted twice. It
// returns how many were removed.
func (g *Guard) Sweep(now time.Time) int {
	g.mu.Lock()
	defer g.mu.Unlock()
	removed := 0
	for id, e := range g.entries {
		limit := g.ttl
		if e.state == guardInFlight {
			limit = max(g.ttl, abandonedAfter)
		}
		if now.Sub(e.at) >= limit {
			delete(g.entries, id)
			removed++
		}
	}
	return removed
}

// Len reports how many IDs are currently tracked
func (g *Guard) Len() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return len(g.entries)
}
