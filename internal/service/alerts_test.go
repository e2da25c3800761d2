package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Taby01/SmartUrine-Dash/internal/alertlog"
	"github.com/Taby01/SmartUrine-Dash/internal/domain"
	"github.com/Taby01/SmartUrine-Dash/internal/store"
)

func newTestAlertService(t *testing.T) (*AlertService, *store.Registry) {
	t.Helper()
	logger := testLogger()
	now := time.Now()

	registry := store.NewRegistry(store.SeedPatients(now), store.SeedDoctors(), logger)
	alertStore, err := alertlog.NewSQLiteStore(alertlog.MemoryDSN)
	require.NoError(t, err)
	t.Cleanup(func() { alertStore.Close() })

	ctx := context.Background()
	for _, seeded := range store.SeedAlerts(now) {
		a := seeded
		require.NoError(t, alertStore.Insert(ctx, &a))
	}

	return NewAlertService(logger, alertStore, registry), registry
}

func TestAlertService_ListActive(t *testing.T) {
	svc, _ := newTestAlertService(t)

	active, err := svc.ListActive(context.Background(), 1)
	require.NoError(t, err)
	require.Len(t, active, 2)
	assert.Equal(t, domain.LevelHigh, active[0].Level, "newest alert first")
	assert.Equal(t, "Marcus Thorne", active[0].PatientName)
	for _, a := range active {
		assert.Equal(t, domain.AlertActive, a.Status)
	}
}

func TestAlertService_ListLog(t *testing.T) {
	svc, _ := newTestAlertService(t)

	log, err := svc.ListLog(context.Background(), 1)
	require.NoError(t, err)
	require.Len(t, log, 1)
	assert.Equal(t, domain.AlertReviewed, log[0].Status)
	assert.Equal(t, "Eleanor Vance", log[0].PatientName)
}

func TestAlertService_ListUnknownDoctor(t *testing.T) {
	svc, _ := newTestAlertService(t)

	_, err := svc.ListActive(context.Background(), 99)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestAlertService_Transition(t *testing.T) {
	svc, _ := newTestAlertService(t)
	ctx := context.Background()

	active, err := svc.ListActive(ctx, 1)
	require.NoError(t, err)
	require.NotEmpty(t, active)
	id := active[0].ID

	updated, err := svc.Transition(ctx, id, domain.AlertSnoozed)
	require.NoError(t, err)
	assert.Equal(t, domain.AlertSnoozed, updated.Status)

	// The handled alert moved from the feed to the log.
	remaining, err := svc.ListActive(ctx, 1)
	require.NoError(t, err)
	assert.Len(t, remaining, len(active)-1)

	log, err := svc.ListLog(ctx, 1)
	require.NoError(t, err)
	assert.Len(t, log, 2)
}

func TestAlertService_TransitionRejectsReactivation(t *testing.T) {
	svc, _ := newTestAlertService(t)
	ctx := context.Background()

	log, err := svc.ListLog(ctx, 1)
	require.NoError(t, err)
	require.NotEmpty(t, log)

	_, err = svc.Transition(ctx, log[0].ID, domain.AlertActive)
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)

	_, err = svc.Transition(ctx, log[0].ID, domain.AlertSnoozed)
	assert.ErrorIs(t, err, domain.ErrInvalidTransition, "handled alerts are terminal")
}

func TestAlertService_TransitionUnknownAlert(t *testing.T) {
	svc, _ := newTestAlertService(t)

	_, err := svc.Transition(context.Background(), "missing", domain.AlertReviewed)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestAlertService_Raise(t *testing.T) {
	svc, _ := newTestAlertService(t)
	ctx := context.Background()

	alert, err := svc.Raise(ctx, 4, domain.LevelMedium, "Ketone reading of 12 mg/dL is approaching the edge of the expected range.", time.Now())
	require.NoError(t, err)
	assert.NotEmpty(t, alert.ID)
	assert.Equal(t, "Arthur Pendle", alert.PatientName)
	assert.Equal(t, domain.AlertActive, alert.Status)

	active, err := svc.ListActive(ctx, 1)
	require.NoError(t, err)
	assert.Len(t, active, 3)
}

func TestAlertService_RaiseUnknownPatient(t *testing.T) {
	svc, _ := newTestAlertService(t)

	_, err := svc.Raise(context.Background(), 99, domain.LevelHigh, "message", time.Now())
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestAlertService_DeriveFromResult(t *testing.T) {
	svc, registry := newTestAlertService(t)
	ctx := context.Background()

	p, err := registry.Patient(2)
	require.NoError(t, err)

	result := domain.TestResult{
		Date: time.Now(),
		Values: map[domain.Biomarker]domain.Value{
			domain.BiomarkerGlucose:    domain.Numeric(180), // alert
			domain.BiomarkerKetone:     domain.Numeric(12),  // caution
			domain.BiomarkerPH:         domain.Numeric(6.5), // normal
			domain.BiomarkerLeukocytes: domain.Qualitative("Negative"),
		},
	}

	raised, err := svc.DeriveFromResult(ctx, p, result)
	require.NoError(t, err)
	require.Len(t, raised, 2)

	// Catalog order puts Glucose before Ketone.
	assert.Equal(t, domain.LevelHigh, raised[0].Level)
	assert.Contains(t, raised[0].Message, "Glucose reading of 180 mg/dL")
	assert.Equal(t, domain.LevelMedium, raised[1].Level)
	assert.Contains(t, raised[1].Message, "Ketone reading of 12 mg/dL")
}

func TestAlertService_DeriveFromNormalResult(t *testing.T) {
	svc, registry := newTestAlertService(t)

	p, err := registry.Patient(4)
	require.NoError(t, err)

	result := domain.TestResult{
		Date: time.Now(),
		Values: map[domain.Biomarker]domain.Value{
			domain.BiomarkerGlucose: domain.Numeric(5),
			domain.BiomarkerPH:      domain.Numeric(6.2),
		},
	}

	raised, err := svc.DeriveFromResult(context.Background(), p, result)
	require.NoError(t, err)
	assert.Empty(t, raised)
}

func TestAlertService_Subscribe(t *testing.T) {
	svc, _ := newTestAlertService(t)

	ch, cancel := svc.Subscribe()
	defer cancel()

	_, err := svc.Raise(context.Background(), 3, domain.LevelHigh, "Nitrite reading of Positive is outside the expected range.", time.Now())
	require.NoError(t, err)

	select {
	case got := <-ch:
		assert.Equal(t, 3, got.PatientID)
		assert.Equal(t, domain.LevelHigh, got.Level)
	case <-time.After(time.Second):
		t.Fatal("expected a live alert on the subscription channel")
	}
}

func TestAlertService_SubscribeCancelStopsDelivery(t *testing.T) {
	svc, _ := newTestAlertService(t)

	ch, cancel := svc.Subscribe()
	cancel()
	cancel() // idempotent

	_, err := svc.Raise(context.Background(), 3, domain.LevelHigh, "message after cancel", time.Now())
	require.NoError(t, err)

	_, open := <-ch
	assert.False(t, open, "cancelled subscription channel must be closed")
}
