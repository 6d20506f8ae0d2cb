// Package fetch loads remote data for page views. Identical requests in
// flight share one upstream call, and a newer load for the same view makes
// any older one stale so its result is dropped instead of rendered.
package fetch

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/Faseeh100/orphancare-web/internal/infrastructure/observability/logging"
)

// Status is the state of one load
type Status string

const (
	StatusLoading Status = "loading"
	StatusError   Status = "error"
	StatusReady   Status = "ready"
	// StatusStale marks a result superseded by a newer load of the same view
	StatusStale Status = "stale"
)

// ErrSuperseded is the cancellation cause of a load replaced by a newer one
var ErrSuperseded = errors.New("superseded by a newer request")

// Result is exactly one of loading, error (Err set) or ready (Data set)
type Result[T any] struct {
	Status Status
	Data   T
	Err    error
	Shared bool
}

func (r Result[T]) IsReady() bool { return r.Status == StatusReady }
func (r Result[T]) IsError() bool { return r.Status == StatusError }
func (r Result[T]) IsStale() bool { return r.Status == StatusStale }

// Loading is the initial result shown before any data arrives
func Loading[T any]() Result[T] { return Result[T]{Status: StatusLoading} }

// Request names what is being loaded. Key identifies the upstream call for
// de-duplication (endpoint, query and auth scope). View identifies the
// consumer (visitor plus page or fragment) for stale detection.
type Request struct {
	View string
	Key  string
}

type viewState struct {
	seq     uint64
	cancel  context.CancelCauseFunc
	touched time.Time
}

// Fetcher is safe for concurrent use
type Fetcher struct {
	group         singleflight.Group
	flightTimeout time.Duration
	logger        *logging.ChanneledLogger

	mu    sync.Mutex
	views map[string]*viewState

	anon    atomic.Uint64
	flights atomic.Int64
	shared  atomic.Int64
	dropped atomic.Int64
}

// New creates a fetcher. flightTimeout bounds a shared upstream call even
// after every waiter has gone away.
func New(flightTimeout time.Duration, logger *logging.ChanneledLogger) *Fetcher {
	if flightTimeout <= 0 {
		flightTimeout = 15 * time.Second
	}
	return &Fetcher{
		flightTimeout: flightTimeout,
		logger:        logger,
		views:         make(map[string]*viewState),
	}
}

// Do runs load for req, sharing the call with concurrent identical requests.
// The result is stale when a newer Do for the same view started before this
// one finished. Cancelling ctx abandons only this waiter; the shared call
// keeps running for the others.
func Do[T any](ctx context.Context, f *Fetcher, req Request, load func(ctx context.Context) (T, error)) Result[T] {
	seq, waitCtx, done := f.begin(ctx, req.View)
	defer done()

	key := req.Key
	if key == "" {
		key = "anon:" + strconv.FormatUint(f.anon.Add(1), 10)
	}

	flightCtx := context.WithoutCancel(ctx)
	ch := f.group.DoChan(key, func() (any, error) {
		f.flights.Add(1)
		callCtx, cancel := context.WithTimeout(flightCtx, f.flightTimeout)
		defer cancel()
		return load(callCtx)
	})

	select {
	case <-waitCtx.Done():
		if errors.Is(context.Cause(waitCtx), ErrSuperseded) {
			f.dropped.Add(1)
			return Result[T]{Status: StatusStale}
		}
		return Result[T]{Status: StatusError, Err: ctx.Err()}

	case res := <-ch:
		if res.Shared {
			f.shared.Add(1)
		}
		if !f.isLatest(req.View, seq) {
			f.dropped.Add(1)
			if f.logger != nil {
				f.logger.Debug().Debug("Dropped stale result", "view", req.View, "key", key)
			}
			return Result[T]{Status: StatusStale, Shared: res.Shared}
		}
		if res.Err != nil {
			return Result[T]{Status: StatusError, Err: res.Err, Shared: res.Shared}
		}
		data, ok := res.Val.(T)
		if !ok {
			return Result[T]{Status: StatusError, Err: fmt.Errorf("unexpected type from fetch group: got %T", res.Val)}
		}
		return Result[T]{Status: StatusReady, Data: data, Shared: res.Shared}
	}
}

// begin registers a new load for view, superseding any load still waiting
func (f *Fetcher) begin(parent context.Context, view string) (uint64, context.Context, func()) {
	ctx, cancel := context.WithCancelCause(parent)
	if view == "" {
		return 0, ctx, func() { cancel(nil) }
	}

	f.mu.Lock()
	st, ok := f.views[view]
	if !ok {
		st = &viewState{}
		f.views[view] = st
	}
	if st.cancel != nil {
		st.cancel(ErrSuperseded)
	}
	st.seq++
	seq := st.seq
	st.cancel = cancel
	st.touched = time.Now()
	f.mu.Unlock()

	return seq, ctx, func() {
		cancel(nil)
		f.mu.Lock()
		if st.seq == seq {
			st.cancel = nil
		}
		f.mu.Unlock()
	}
}

func (f *Fetcher) isLatest(view string, seq uint64) bool {
	if view == "" {
		return true
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	st, ok := f.views[view]
	return ok && st.seq == seq
}

// Sweep forgets idle views not touched within maxIdle. It returns how many were removed.
func (f *Fetcher) Sweep(now time.Time, maxIdle time.Duration) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	removed := 0
	for view, st := range f.views {
		if st.cancel == nil && now.Sub(st.touched) > maxIdle {
			delete(f.views, view)
			removed++
		}
	}
	return removed
}

// Stats reports counters for the health endpoint
type Stats struct {
	Views   int   `json:"views"`
	Flights int64 `json:"flights"`
	Shared  int64 `json:"shared"`
	Dropped int64 `json:"dropped"`
}

func (f *Fetcher) Stats() Stats {
	f.mu.Lock()
	views := len(f.views)
	f.mu.Unlock()
	return Stats{Views: views, Flights: f.flights.Load(), Shared: f.shared.Load(), Dropped: f.dropped.Load()}
}

// ViewFor scopes a view name to one visitor or session
func ViewFor(scope, name string) string {
	return scope + "|" + name
}

// KeyFor builds a de-duplication key from endpoint, query and auth scope
func KeyFor(endpoint string, query url.Values, authScope string) string {
	var b strings.Builder
	b.WriteString(endpoint)
	if len(query) > 0 {
		b.WriteByte('?')
		b.WriteString(query.Encode())
	}
	if authScope != "" {
		b.WriteString("#")
		b.WriteString(authScope)
	}
	return b.String()
}
