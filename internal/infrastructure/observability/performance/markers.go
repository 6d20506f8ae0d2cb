// Package performance provides performance monitoring data structures and utilities
// for tracking operation performance across the web server.
package performance

import (
	"time"
)

// Marker represents a single performance measurement for an operation
type Marker struct {
	Operation string         `json:"operation"` // e.g. "admin_programs_page", "contact_submit"
	StartTime time.Time      `json:"startTime"`
	EndTime   time.Time      `json:"endTime"`
	Duration  time.Duration  `json:"duration"`
	Success   bool           `json:"success"`
	Error     string         `json:"error,omitempty"`
	Metadata  map[string]any `json:"metadata"`
	Completed bool           `json:"completed"`

	tracker *Tracker
}

// Complete marks the operation as finished and records it with the tracker
func (m *Marker) Complete() {
	if m.Completed {
		return // Prevent double completion
	}

	m.EndTime = time.Now()
	m.Duration = m.EndTime.Sub(m.StartTime)
	m.Completed = true

	if m.tracker != nil {
		m.tracker.record(m)
	}
}

// SetSuccess marks the operation as successful or failed
func (m *Marker) SetSuccess(success bool) {
	m.Success = success
}

// SetError sets an error message and marks the operation as failed
func (m *Marker) SetError(err error) {
	if err != nil {
		m.Error = err.Error()
		m.Success = false
	}
}

// AddMetadata adds key-value metadata to the marker
func (m *Marker) AddMetadata(key string, value any) {
	if m.Metadata == nil {
		m.Metadata = make(map[string]any)
	}
	m.Metadata[key] = value
}

// HealthStatus represents the overall health of a system component
type HealthStatus string

const (
	HealthHealthy  HealthStatus = "healthy"  // Operations performing within normal parameters
	HealthDegraded HealthStatus = "degraded" // Recent operations failing or slow
	HealthUnknown  HealthStatus = "unknown"  // Not enough data
)

// Snapshot is a point-in-time view served by the health endpoint
type Snapshot struct {
	Timestamp           time.Time    `json:"timestamp"`
	Uptime              string       `json:"uptime"`
	CompletedOperations int64        `json:"completedOperations"`
	FailedOperations    int64        `json:"failedOperations"`
	SlowOperations      int64        `json:"slowOperations"`
	OverallHealth       HealthStatus `json:"overallHealth"`
}
