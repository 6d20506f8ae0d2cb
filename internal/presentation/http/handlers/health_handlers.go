package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/Faseeh100/orphancare-web/internal/application/fetch"
	"github.com/Faseeh100/orphancare-web/internal/application/forms"
	"github.com/Faseeh100/orphancare-web/internal/application/listing"
	"github.com/Faseeh100/orphancare-web/internal/infrastructure/observability/performance"
)

// HealthHandlers reports liveness and the state of the in-memory tables
type HealthHandlers struct {
	fetcher       *fetch.Fetcher
	guard         *forms.Guard
	confirmations *listing.Confirmations
	perfTracker   *performance.Tracker
	started       time.Time
}

// NewHealthHandlers creates health handlers with injected dependencies
func NewHealthHandlers(fetcher *fetch.Fetcher, guard *forms.Guard, confirmations *listing.Confirmations, perfTracker *performance.Tracker) *HealthHandlers {
	return &HealthHandlers{
		fetcher:       fetcher,
		guard:         guard,
		confirmations: confirmations,
		perfTracker:   perfTracker,
		started:       time.Now(),
	}
}

// Health never calls the API; it only reports this process
func (h *HealthHandlers) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":        "ok",
		"startedAt":     h.started.UTC().Format(time.RFC3339),
		"fetcher":       h.fetcher.Stats(),
		"submissions":   h.guard.Len(),
		"confirmations": h.confirmations.Len(),
		"performance":   h.perfTracker.Snapshot(),
	})
}

// Metrics exposes the Prometheus registry
func (h *HealthHandlers) Metrics(c *gin.Context) {
	h.perfTracker.Handler().ServeHTTP(c.Writer, c.Request)
}
