// Package alertlog provides the append-only alert log backing the clinician
// alert feed. Entries are never deleted; only their status field changes.
package alertlog

import (
	"context"

	"github.com/Taby01/SmartUrine-Dash/internal/domain"
)

// Store defines the alert log operations.
type Store interface {
	// Insert appends a new alert to the log.
	Insert(ctx context.Context, alert *domain.Alert) error

	// Get retrieves an alert by id. Returns domain.ErrNotFound when absent.
	Get(ctx context.Context, id string) (*domain.Alert, error)

	// UpdateStatus re-statuses an alert. Returns domain.ErrNotFound when the
	// id is unknown.
	UpdateStatus(ctx context.Context, id string, status domain.AlertStatus) error

	// List returns alerts for the given patients, newest first. With active
	// true only Active alerts are returned; otherwise the log view, all
	// non-Active entries.
	List(ctx context.Context, patientIDs []int, active bool) ([]*domain.Alert, error)

	// Count returns the total number of alerts in the log.
	Count(ctx context.Context) (int64, error)

	// Close releases the underlying database handle.
	Close() error
}
