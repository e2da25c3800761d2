package domain

import (
	"fmt"
	"time"
)

// TestResult is a dated snapshot of readings for the biomarker panel.
// Results are immutable once recorded; a patient's sequence is chronological
// and append-only.
type TestResult struct {
	Date   time.Time           `json:"date"`
	Values map[Biomarker]Value `json:"values"`
}

// Validate checks a result before it enters a patient timeline.
func (r *TestResult) Validate() error {
	if r.Date.IsZero() {
		return NewValidationError("date", "result date is required")
	}
	if len(r.Values) == 0 {
		return NewValidationError("values", "at least one biomarker reading is required")
	}
	for b, v := range r.Values {
		if !b.IsKnown() {
			return NewValidationError("values", fmt.Sprintf("unknown biomarker %q", b))
		}
		if v.IsAbsent() {
			return NewValidationError("values", fmt.Sprintf("absent reading for %q; omit the key instead", b))
		}
	}
	return nil
}

// PatientContact holds patient contact details.
type PatientContact struct {
	Email   string `json:"email"`
	Phone   string `json:"phone"`
	Address string `json:"address"`
}

// Caregiver holds the patient's caregiver details.
type Caregiver struct {
	Name     string `json:"name"`
	Relation string `json:"relation"`
	Phone    string `json:"phone"`
}

// Patient is the source-of-truth record for a dashboard user under
// monitoring. The registry owns all Patient records; doctors hold only ids.
type Patient struct {
	ID        int            `json:"id"`
	Name      string         `json:"name"`
	Age       int            `json:"age"`
	Gender    Gender         `json:"gender"`
	Avatar    string         `json:"avatar"`
	Hospital  string         `json:"hospital"`
	Contact   PatientContact `json:"contact"`
	Caregiver Caregiver      `json:"caregiver"`
	Results   []TestResult   `json:"results"`
}

// NewPatientData is the add-patient form payload. Id, avatar and results are
// assigned by the roster, never by the caller.
type NewPatientData struct {
	Name      string         `json:"name"`
	Age       int            `json:"age"`
	Gender    Gender         `json:"gender"`
	Hospital  string         `json:"hospital"`
	Contact   PatientContact `json:"contact"`
	Caregiver Caregiver      `json:"caregiver"`
}

// Validate rejects incomplete add-patient submissions before any state
// changes. A failed validation must never leave a partial Patient behind.
func (d *NewPatientData) Validate() error {
	if d.Name == "" {
		return NewValidationError("name", "name is required")
	}
	if d.Age <= 0 {
		return NewValidationError("age", "age must be positive")
	}
	if !d.Gender.IsValid() {
		return NewValidationError("gender", fmt.Sprintf("unknown gender %q", d.Gender))
	}
	if d.Hospital == "" {
		return NewValidationError("hospital", "hospital is required")
	}
	if d.Contact.Email == "" {
		return NewValidationError("contact.email", "contact email is required")
	}
	if d.Contact.Phone == "" {
		return NewValidationError("contact.phone", "contact phone is required")
	}
	if d.Caregiver.Name == "" {
		return NewValidationError("caregiver.name", "caregiver name is required")
	}
	return nil
}

// Doctor is a supervising clinician. PatientIDs is the roster relation; every
// id must reference an existing Patient in the registry.
type Doctor struct {
	ID         int    `json:"id"`
	Name       string `json:"name"`
	Avatar     string `json:"avatar"`
	PatientIDs []int  `json:"patientIds"`
}

// Supervises reports whether the patient is on this doctor's roster.
func (d *Doctor) Supervises(patientID int) bool {
	for _, id := range d.PatientIDs {
		if id == patientID {
			return true
		}
	}
	return false
}

// Alert is a flagged notification tied to a patient's out-of-range result.
// The alert feed is an append-only log: entries are never removed, only their
// Status field changes.
type Alert struct {
	ID          string      `json:"id"`
	PatientID   int         `json:"patientId"`
	PatientName string      `json:"patientName"`
	Message     string      `json:"message"`
	Level       AlertLevel  `json:"level"`
	Timestamp   time.Time   `json:"timestamp"`
	Status      AlertStatus `json:"status"`
}

// Validate checks an alert before it enters the log.
func (a *Alert) Validate() error {
	if a.ID == "" {
		return NewValidationError("id", "alert id is required")
	}
	if a.PatientID <= 0 {
		return NewValidationError("patientId", "alert must reference a patient")
	}
	if a.Message == "" {
		return NewValidationError("message", "alert message is required")
	}
	if !a.Level.IsValid() {
		return NewValidationError("level", fmt.Sprintf("unknown alert level %q", a.Level))
	}
	if !a.Status.IsValid() {
		return NewValidationError("status", fmt.Sprintf("unknown alert status %q", a.Status))
	}
	if a.Timestamp.IsZero() {
		return NewValidationError("timestamp", "alert timestamp is required")
	}
	return nil
}

// Principal is the authenticated identity: an id plus role, never a copy of
// the underlying record. The live record is always resolved by id from the
// registry, so roster mutations are visible without synchronization.
type Principal struct {
	ID   int  `json:"id"`
	Role Role `json:"role"`
}
