package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/Taby01/SmartUrine-Dash/internal/alertlog"
	"github.com/Taby01/SmartUrine-Dash/internal/domain"
	"github.com/Taby01/SmartUrine-Dash/internal/store"
)

// AlertService owns the clinician alert feed: derivation from out-of-range
// readings, the Active/Snoozed/Reviewed lifecycle and live fan-out to
// subscribed clients.
type AlertService struct {
	logger   *logrus.Logger
	store    alertlog.Store
	registry *store.Registry

	mu   sync.Mutex
	subs map[chan domain.Alert]struct{}
}

// NewAlertService creates a new alert service.
func NewAlertService(logger *logrus.Logger, alertStore alertlog.Store, registry *store.Registry) *AlertService {
	return &AlertService{
		logger:   logger,
		store:    alertStore,
		registry: registry,
		subs:     make(map[chan domain.Alert]struct{}),
	}
}

// ListActive returns the Active alerts for the doctor's roster, newest first.
func (s *AlertService) ListActive(ctx context.Context, doctorID int) ([]*domain.Alert, error) {
	d, err := s.registry.Doctor(doctorID)
	if err != nil {
		return nil, err
	}
	return s.store.List(ctx, d.PatientIDs, true)
}

// ListLog returns the handled alerts for the doctor's roster, newest first.
// Snoozed and Reviewed entries share the log view.
func (s *AlertService) ListLog(ctx context.Context, doctorID int) ([]*domain.Alert, error) {
	d, err := s.registry.Doctor(doctorID)
	if err != nil {
		return nil, err
	}
	return s.store.List(ctx, d.PatientIDs, false)
}

// Transition moves an alert out of the Active state. The only legal moves are
// Active to Snoozed and Active to Reviewed; handled alerts never re-activate.
func (s *AlertService) Transition(ctx context.Context, id string, next domain.AlertStatus) (*domain.Alert, error) {
	if next != domain.AlertSnoozed && next != domain.AlertReviewed {
		return nil, fmt.Errorf("cannot move an alert to %q: %w", next, domain.ErrInvalidTransition)
	}

	alert, err := s.store.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if alert.Status != domain.AlertActive {
		return nil, fmt.Errorf("alert %s is %s, not Active: %w", id, alert.Status, domain.ErrInvalidTransition)
	}

	if err := s.store.UpdateStatus(ctx, id, next); err != nil {
		return nil, err
	}
	alert.Status = next

	s.logger.WithFields(logrus.Fields{
		"alert_id":   id,
		"patient_id": alert.PatientID,
		"status":     next.String(),
	}).Info("Alert handled")

	return alert, nil
}

// Raise appends a new Active alert to the log and notifies subscribers.
func (s *AlertService) Raise(ctx context.Context, patientID int, level domain.AlertLevel, message string, at time.Time) (*domain.Alert, error) {
	p, err := s.registry.Patient(patientID)
	if err != nil {
		return nil, err
	}

	alert := &domain.Alert{
		ID:          uuid.New().String(),
		PatientID:   p.ID,
		PatientName: p.Name,
		Message:     message,
		Level:       level,
		Timestamp:   at,
		Status:      domain.AlertActive,
	}
	if err := s.store.Insert(ctx, alert); err != nil {
		return nil, fmt.Errorf("failed to raise alert: %w", err)
	}

	s.logger.WithFields(logrus.Fields{
		"alert_id":   alert.ID,
		"patient_id": alert.PatientID,
		"level":      alert.Level.String(),
	}).Info("Alert raised")

	s.broadcast(*alert)
	return alert, nil
}

// DeriveFromResult raises alerts for every out-of-range reading in the
// result: High for Alert classifications, Medium for Caution. The panel is
// walked in catalog order so derivation is deterministic.
func (s *AlertService) DeriveFromResult(ctx context.Context, patient domain.Patient, result domain.TestResult) ([]*domain.Alert, error) {
	var raised []*domain.Alert
	for _, b := range domain.Biomarkers() {
		v, ok := result.Values[b]
		if !ok || v.IsAbsent() {
			continue
		}
		var level domain.AlertLevel
		var message string
		switch domain.Classify(b, v) {
		case domain.StatusAlert:
			level = domain.LevelHigh
			message = fmt.Sprintf("%s reading of %s is outside the expected range.", b, formatReading(b, v))
		case domain.StatusCaution:
			level = domain.LevelMedium
			message = fmt.Sprintf("%s reading of %s is approaching the edge of the expected range.", b, formatReading(b, v))
		default:
			continue
		}

		alert, err := s.Raise(ctx, patient.ID, level, message, result.Date)
		if err != nil {
			return raised, err
		}
		raised = append(raised, alert)
	}
	return raised, nil
}

// Subscribe registers a live alert listener. The returned cancel func must be
// called when the listener goes away. Slow listeners drop alerts rather than
// block derivation.
func (s *AlertService) Subscribe() (<-chan domain.Alert, func()) {
	ch := make(chan domain.Alert, 16)

	s.mu.Lock()
	s.subs[ch] = struct{}{}
	s.mu.Unlock()

	cancel := func() {
		s.mu.Lock()
		if _, ok := s.subs[ch]; ok {
			delete(s.subs, ch)
			close(ch)
		}
		s.mu.Unlock()
	}
	return ch, cancel
}

func (s *AlertService) broadcast(a domain.Alert) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for ch := range s.subs {
		select {
		case ch <- a:
		default:
		}
	}
}

func formatReading(b domain.Biomarker, v domain.Value) string {
	t, ok := domain.Catalog[b]
	if ok && t.Unit != "" {
		return v.String() + " " + t.Unit
	}
	return v.String()
}
