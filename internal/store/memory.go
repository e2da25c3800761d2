// Package store owns the global patient and doctor collections. The registry
// is the single mutation entry point for both, so every user action is one
// atomic, consistent state transition under one lock.
package store

import (
	"fmt"
	"sort"
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/Taby01/SmartUrine-Dash/internal/domain"
)

// Registry is the process-memory source of truth for patients and doctors.
// Accessors return copies; callers never hold references into the registry.
type Registry struct {
	mu       sync.RWMutex
	patients map[int]*domain.Patient
	doctors  map[int]*domain.Doctor
	log      *logrus.Logger
}

// NewRegistry creates a registry populated with the given seed records.
func NewRegistry(patients []domain.Patient, doctors []domain.Doctor, logger *logrus.Logger) *Registry {
	r := &Registry{
		patients: make(map[int]*domain.Patient, len(patients)),
		doctors:  make(map[int]*domain.Doctor, len(doctors)),
		log:      logger,
	}
	for i := range patients {
		p := clonePatient(&patients[i])
		r.patients[p.ID] = p
	}
	for i := range doctors {
		d := cloneDoctor(&doctors[i])
		r.doctors[d.ID] = d
	}
	return r
}

// Patient returns a copy of the patient record.
func (r *Registry) Patient(id int) (domain.Patient, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	p, ok := r.patients[id]
	if !ok {
		return domain.Patient{}, fmt.Errorf("patient %d: %w", id, domain.ErrNotFound)
	}
	return *clonePatient(p), nil
}

// Doctor returns a copy of the doctor record.
func (r *Registry) Doctor(id int) (domain.Doctor, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	d, ok := r.doctors[id]
	if !ok {
		return domain.Doctor{}, fmt.Errorf("doctor %d: %w", id, domain.ErrNotFound)
	}
	return *cloneDoctor(d), nil
}

// DoctorByName returns the doctor with the given display name.
func (r *Registry) DoctorByName(name string) (domain.Doctor, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, d := range r.doctors {
		if d.Name == name {
			return *cloneDoctor(d), nil
		}
	}
	return domain.Doctor{}, fmt.Errorf("doctor %q: %w", name, domain.ErrNotFound)
}

// Patients returns copies of all patient records, ordered by id.
func (r *Registry) Patients() []domain.Patient {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]domain.Patient, 0, len(r.patients))
	for _, p := range r.patients {
		out = append(out, *clonePatient(p))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// Roster returns copies of the patients on the doctor's supervised set,
// ordered by id.
func (r *Registry) Roster(doctorID int) ([]domain.Patient, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	d, ok := r.doctors[doctorID]
	if !ok {
		return nil, fmt.Errorf("doctor %d: %w", doctorID, domain.ErrNotFound)
	}
	out := make([]domain.Patient, 0, len(d.PatientIDs))
	for _, id := range d.PatientIDs {
		if p, ok := r.patients[id]; ok {
			out = append(out, *clonePatient(p))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

// AddPatient validates the form data, allocates max(existing ids)+1, inserts
// the new patient with an empty result list and appends the id to the
// doctor's roster. Insertion and roster append happen under one lock; there
// is never a patient without an owner mid-transition.
func (r *Registry) AddPatient(doctorID int, data domain.NewPatientData) (domain.Patient, error) {
	if err := data.Validate(); err != nil {
		return domain.Patient{}, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	d, ok := r.doctors[doctorID]
	if !ok {
		return domain.Patient{}, fmt.Errorf("doctor %d: %w", doctorID, domain.ErrNotFound)
	}

	id := r.nextPatientID()
	p := &domain.Patient{
		ID:        id,
		Name:      data.Name,
		Age:       data.Age,
		Gender:    data.Gender,
		Avatar:    avatarURL(data.Name),
		Hospital:  data.Hospital,
		Contact:   data.Contact,
		Caregiver: data.Caregiver,
		Results:   []domain.TestResult{},
	}
	r.patients[id] = p
	d.PatientIDs = append(d.PatientIDs, id)

	r.log.WithFields(logrus.Fields{
		"patient_id": id,
		"doctor_id":  doctorID,
	}).Info("Patient added to roster")

	return *clonePatient(p), nil
}

// RemovePatient removes the relation from the doctor's roster. The patient
// record itself stays in the global collection. Removing an id that is not
// on the roster is a no-op.
func (r *Registry) RemovePatient(doctorID, patientID int) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	d, ok := r.doctors[doctorID]
	if !ok {
		return fmt.Errorf("doctor %d: %w", doctorID, domain.ErrNotFound)
	}

	for i, id := range d.PatientIDs {
		if id == patientID {
			d.PatientIDs = append(d.PatientIDs[:i], d.PatientIDs[i+1:]...)
			r.log.WithFields(logrus.Fields{
				"patient_id": patientID,
				"doctor_id":  doctorID,
			}).Info("Patient removed from roster")
			return nil
		}
	}
	return nil
}

// AppendResult appends a validated result to the patient's timeline, keeping
// the sequence in chronological ascending order.
func (r *Registry) AppendResult(patientID int, result domain.TestResult) error {
	if err := result.Validate(); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	p, ok := r.patients[patientID]
	if !ok {
		return fmt.Errorf("patient %d: %w", patientID, domain.ErrNotFound)
	}

	i := len(p.Results)
	for i > 0 && p.Results[i-1].Date.After(result.Date) {
		i--
	}
	p.Results = append(p.Results, domain.TestResult{})
	copy(p.Results[i+1:], p.Results[i:])
	p.Results[i] = result

	r.log.WithFields(logrus.Fields{
		"patient_id": patientID,
		"result_at":  result.Date,
		"readings":   len(result.Values),
	}).Info("Test result recorded")

	return nil
}

// nextPatientID allocates max(existing ids)+1, or 1 for an empty collection.
// Callers must hold the write lock.
func (r *Registry) nextPatientID() int {
	max := 0
	for id := range r.patients {
		if id > max {
			max = id
		}
	}
	return max + 1
}

func avatarURL(name string) string {
	seed := name
	for i, c := range name {
		if c == ' ' {
			seed = name[:i]
			break
		}
	}
	return "https://picsum.photos/seed/" + seed + "/100/100"
}

func clonePatient(p *domain.Patient) *domain.Patient {
	out := *p
	out.Results = make([]domain.TestResult, len(p.Results))
	for i, res := range p.Results {
		values := make(map[domain.Biomarker]domain.Value, len(res.Values))
		for b, v := range res.Values {
			values[b] = v
		}
		out.Results[i] = domain.TestResult{Date: res.Date, Values: values}
	}
	return &out
}

func cloneDoctor(d *domain.Doctor) *domain.Doctor {
	out := *d
	out.PatientIDs = append([]int(nil), d.PatientIDs...)
	return &out
}
