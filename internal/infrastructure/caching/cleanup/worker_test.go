package cleanup

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Faseeh100/orphancare-web/internal/infrastructure/observability/logging"
)

func TestRunOnceSweepsEveryStore(t *testing.T) {
	w := NewWorker(&Config{CleanupInterval: time.Hour}, logging.NewDiscardLogger())
	w.Register("views", SweepFunc(func(time.Time) int { return 2 }))
	w.Register("guard", SweepFunc(func(time.Time) int { return 0 }))

	removed := w.RunOnce(time.Now())
	assert.Equal(t, map[string]int{"views": 2, "guard": 0}, removed)
}

func TestStartStopsOnCancel(t *testing.T) {
	var calls atomic.Int32
	w := NewWorker(&Config{CleanupInterval: 5 * time.Millisecond}, logging.NewDiscardLogger())
	w.Register("count", SweepFunc(func(time.Time) int {
		calls.Add(1)
		return 1
	}))

	ctx, cancel := context.WithCancel(context.Background())
	go w.Start(ctx)

	require.Eventually(t, func() bool { return calls.Load() >= 2 }, time.Second, 5*time.Millisecond)
	cancel()

	select {
	case <-w.Done():
	case <-time.After(time.Second):
		t.Fatal("worker did not stop")
	}
}
