package fetch

import (
	"context"
	"errors"
	"net/url"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDoReturnsReady(t *testing.T) {
	f := New(time.Second, nil)
	res := Do(context.Background(), f, Request{View: "v1|home", Key: "/programs"}, func(ctx context.Context) ([]string, error) {
		return []string{"a", "b"}, nil
	})
	require.True(t, res.IsReady())
	assert.Equal(t, []string{"a", "b"}, res.Data)
	assert.NoError(t, res.Err)
}

func TestDoReturnsError(t *testing.T) {
	f := New(time.Second, nil)
	boom := errors.New("boom")
	res := Do(context.Background(), f, Request{Key: "/stats"}, func(ctx context.Context) (int, error) {
		return 0, boom
	})
	require.True(t, res.IsError())
	assert.ErrorIs(t, res.Err, boom)
	assert.Zero(t, res.Data)
}

func TestConcurrentIdenticalRequestsShareOneCall(t *testing.T) {
	f := New(time.Second, nil)
	release := make(chan struct{})
	var calls atomic.Int32

	load := func(ctx context.Context) (string, error) {
		calls.Add(1)
		<-release
		return "shared", nil
	}

	var wg sync.WaitGroup
	results := make([]Result[string], 5)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i] = Do(context.Background(), f, Request{View: ViewFor("visitor"+string(rune('a'+i)), "services"), Key: "/services"}, load)
		}(i)
	}

	require.Eventually(t, func() bool { return f.Stats().Views == 5 }, time.Second, 5*time.Millisecond)
	time.Sleep(20 * time.Millisecond)
	close(release)
	wg.Wait()

	assert.Equal(t, int32(1), calls.Load())
	for _, r := range results {
		assert.True(t, r.IsReady())
		assert.Equal(t, "shared", r.Data)
	}
}

func TestNewerLoadForSameViewMakesOlderStale(t *testing.T) {
	f := New(time.Second, nil)
	view := ViewFor("visitor-1", "gallery")
	slow := make(chan struct{})

	older := make(chan Result[string], 1)
	go func() {
		older <- Do(context.Background(), f, Request{View: view, Key: "/images?category=children"}, func(ctx context.Context) (string, error) {
			<-slow
			return "children", nil
		})
	}()

	require.Eventually(t, func() bool { return f.Stats().Views == 1 }, time.Second, 5*time.Millisecond)

	newer := Do(context.Background(), f, Request{View: view, Key: "/images?category=events"}, func(ctx context.Context) (string, error) {
		return "events", nil
	})
	close(slow)

	require.True(t, newer.IsReady())
	assert.Equal(t, "events", newer.Data)

	old := <-older
	assert.True(t, old.IsStale())
	assert.Empty(t, old.Data)
}

func TestCallerCancellationDoesNotAbortSharedFlight(t *testing.T) {
	f := New(time.Second, nil)
	release := make(chan struct{})
	var flightErr atomic.Value

	load := func(ctx context.Context) (string, error) {
		<-release
		if err := ctx.Err(); err != nil {
			flightErr.Store(err)
			return "", err
		}
		return "ok", nil
	}

	ctx, cancel := context.WithCancel(context.Background())
	gaveUp := make(chan Result[string], 1)
	go func() {
		gaveUp <- Do(ctx, f, Request{View: "a|stats", Key: "/stats"}, load)
	}()

	stayed := make(chan Result[string], 1)
	go func() {
		stayed <- Do(context.Background(), f, Request{View: "b|stats", Key: "/stats"}, load)
	}()

	time.Sleep(20 * time.Millisecond)
	cancel()
	first := <-gaveUp
	assert.True(t, first.IsError())
	assert.ErrorIs(t, first.Err, context.Canceled)

	close(release)
	second := <-stayed
	require.True(t, second.IsReady())
	assert.Equal(t, "ok", second.Data)
	assert.Nil(t, flightErr.Load())
}

func TestSweepForgetsIdleViews(t *testing.T) {
	f := New(time.Second, nil)
	Do(context.Background(), f, Request{View: "a|home", Key: "k"}, func(ctx context.Context) (int, error) { return 1, nil })
	require.Equal(t, 1, f.Stats().Views)

	assert.Equal(t, 0, f.Sweep(time.Now(), time.Hour))
	assert.Equal(t, 1, f.Sweep(time.Now().Add(2*time.Hour), time.Hour))
	assert.Equal(t, 0, f.Stats().Views)
}

func TestKeyFor(t *testing.T) {
	q := url.Values{"category": {"events"}}
	assert.Equal(t, "/images?category=events", KeyFor("/images", q, ""))
	assert.Equal(t, "/programs/admin#user-1", KeyFor("/programs/admin", nil, "user-1"))
}
