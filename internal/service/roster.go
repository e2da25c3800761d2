package service

import (
	"context"

	"github.com/sirupsen/logrus"

	"github.com/Taby01/SmartUrine-Dash/internal/domain"
	"github.com/Taby01/SmartUrine-Dash/internal/store"
)

// RosterService implements the clinician roster use cases over the registry
// and ties incoming results to alert derivation.
type RosterService struct {
	logger   *logrus.Logger
	registry *store.Registry
	alerts   *AlertService
}

// NewRosterService creates a new roster service.
func NewRosterService(logger *logrus.Logger, registry *store.Registry, alerts *AlertService) *RosterService {
	return &RosterService{logger: logger, registry: registry, alerts: alerts}
}

// Patient returns a copy of the patient record.
func (s *RosterService) Patient(id int) (domain.Patient, error) {
	return s.registry.Patient(id)
}

// Doctor returns a copy of the doctor record.
func (s *RosterService) Doctor(id int) (domain.Doctor, error) {
	return s.registry.Doctor(id)
}

// Roster returns the patients on the doctor's supervised set.
func (s *RosterService) Roster(doctorID int) ([]domain.Patient, error) {
	return s.registry.Roster(doctorID)
}

// AddPatient creates a new patient and puts them on the doctor's roster.
func (s *RosterService) AddPatient(doctorID int, data domain.NewPatientData) (domain.Patient, error) {
	return s.registry.AddPatient(doctorID, data)
}

// RemovePatient takes the patient off the doctor's roster. The patient record
// itself is retained; removing an id not on the roster is a no-op.
func (s *RosterService) RemovePatient(doctorID, patientID int) error {
	return s.registry.RemovePatient(doctorID, patientID)
}

// AddResult records a test result on the patient's timeline and raises alerts
// for any out-of-range readings. The result is recorded even when alert
// derivation later fails; a partial feed beats a lost measurement.
func (s *RosterService) AddResult(ctx context.Context, patientID int, result domain.TestResult) ([]*domain.Alert, error) {
	if err := s.registry.AppendResult(patientID, result); err != nil {
		return nil, err
	}

	p, err := s.registry.Patient(patientID)
	if err != nil {
		return nil, err
	}

	raised, err := s.alerts.DeriveFromResult(ctx, p, result)
	if err != nil {
		s.logger.WithError(err).WithField("patient_id", patientID).Error("Alert derivation failed after result was recorded")
		return raised, err
	}
	return raised, nil
}
