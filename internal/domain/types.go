// Package domain contains the core business entities for the SmartUrine
// urinalysis dashboard: the biomarker catalog, health status classification,
// patient and clinician records, and the alert model.
package domain

// HealthStatus is the classification of a single biomarker reading.
// Evaluation order is fixed: Normal first, then Caution, with Alert as the
// fallback when neither predicate holds.
type HealthStatus string

const (
	StatusNormal  HealthStatus = "Normal"
	StatusCaution HealthStatus = "Caution"
	StatusAlert   HealthStatus = "Alert"
)

// Role identifies which side of the dashboard a user belongs to.
type Role string

const (
	RolePatient Role = "patient"
	RoleDoctor  Role = "doctor"
)

// Gender is the patient-record gender field.
type Gender string

const (
	GenderMale   Gender = "Male"
	GenderFemale Gender = "Female"
	GenderOther  Gender = "Other"
)

// AlertLevel is the severity of a clinician alert.
type AlertLevel string

const (
	LevelHigh   AlertLevel = "High"
	LevelMedium AlertLevel = "Medium"
)

// AlertStatus is the lifecycle state of a clinician alert.
// Alerts are created Active and move to Snoozed or Reviewed by clinician
// action; both are terminal. Alerts are never deleted, only re-statused.
type AlertStatus string

const (
	AlertActive   AlertStatus = "Active"
	AlertSnoozed  AlertStatus = "Snoozed"
	AlertReviewed AlertStatus = "Reviewed"
)

// IsValid reports whether the status is one of the three classification
// outcomes. Classification must be total, so an unknown value indicates a bug
// at the boundary rather than in the classifier.
func (s HealthStatus) IsValid() bool {
	switch s {
	case StatusNormal, StatusCaution, StatusAlert:
		return true
	default:
		return false
	}
}

// String returns the display form of the status.
func (s HealthStatus) String() string {
	return string(s)
}

// LogFields returns structured logging fields for classification audit entries.
func (s HealthStatus) LogFields() map[string]any {
	return map[string]any{
		"status":          string(s),
		"is_valid":        s.IsValid(),
		"requires_review": s.RequiresReview(),
	}
}

// RequiresReview reports whether the status should surface on the clinician
// side. Unknown statuses are treated as reviewable, conservatively.
func (s HealthStatus) RequiresReview() bool {
	switch s {
	case StatusNormal:
		return false
	case StatusCaution, StatusAlert:
		return true
	default:
		return true
	}
}

// IsValid validates the role.
func (r Role) IsValid() bool {
	switch r {
	case RolePatient, RoleDoctor:
		return true
	default:
		return false
	}
}

// String returns the string form of the role.
func (r Role) String() string {
	return string(r)
}

// IsValid validates the gender field.
func (g Gender) IsValid() bool {
	switch g {
	case GenderMale, GenderFemale, GenderOther:
		return true
	default:
		return false
	}
}

// IsValid validates the alert level.
func (l AlertLevel) IsValid() bool {
	switch l {
	case LevelHigh, LevelMedium:
		return true
	default:
		return false
	}
}

// String returns the string form of the alert level.
func (l AlertLevel) String() string {
	return string(l)
}

// IsValid validates the alert status.
func (s AlertStatus) IsValid() bool {
	switch s {
	case AlertActive, AlertSnoozed, AlertReviewed:
		return true
	default:
		return false
	}
}

// String returns the string form of the alert status.
func (s AlertStatus) String() string {
	return string(s)
}

// IsTerminal reports whether the status accepts no further transitions.
func (s AlertStatus) IsTerminal() bool {
	return s == AlertSnoozed || s == AlertReviewed
}
