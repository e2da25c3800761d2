package store

import (
	"time"

	"github.com/Taby01/SmartUrine-Dash/internal/domain"
)

// Session seed data. Result dates are relative to startup so the dashboard's
// relative-time displays and range filters behave sensibly on any day.

func panel(now time.Time, daysAgo int, overrides map[domain.Biomarker]domain.Value) domain.TestResult {
	values := map[domain.Biomarker]domain.Value{
		domain.BiomarkerUrobilinogen:    domain.Numeric(0.4),
		domain.BiomarkerGlucose:         domain.Numeric(5),
		domain.BiomarkerBilirubin:       domain.Qualitative("Negative"),
		domain.BiomarkerKetone:          domain.Numeric(2),
		domain.BiomarkerSpecificGravity: domain.Numeric(1.015),
		domain.BiomarkerBlood:           domain.Qualitative("Negative"),
		domain.BiomarkerPH:              domain.Numeric(6.2),
		domain.BiomarkerProtein:         domain.Numeric(8),
		domain.BiomarkerNitrite:         domain.Qualitative("Negative"),
		domain.BiomarkerLeukocytes:      domain.Qualitative("Negative"),
		domain.BiomarkerAscorbicAcid:    domain.Numeric(10),
	}
	for b, v := range overrides {
		values[b] = v
	}
	return domain.TestResult{
		Date:   now.AddDate(0, 0, -daysAgo).Truncate(time.Minute),
		Values: values,
	}
}

// SeedPatients returns the session's initial patient collection.
func SeedPatients(now time.Time) []domain.Patient {
	return []domain.Patient{
		{
			ID:       1,
			Name:     "Eleanor Vance",
			Age:      72,
			Gender:   domain.GenderFemale,
			Avatar:   "https://picsum.photos/seed/Eleanor/100/100",
			Hospital: "St. Anne Medical Center",
			Contact: domain.PatientContact{
				Email:   "eleanor.vance@example.com",
				Phone:   "555-0101",
				Address: "44 Wisteria Lane, Fairview",
			},
			Caregiver: domain.Caregiver{Name: "Claire Vance", Relation: "Daughter", Phone: "555-0102"},
			Results: []domain.TestResult{
				panel(now, 40, map[domain.Biomarker]domain.Value{
					domain.BiomarkerPH: domain.Numeric(8.4),
				}),
				panel(now, 10, nil),
				panel(now, 2, map[domain.Biomarker]domain.Value{
					domain.BiomarkerLeukocytes: domain.Qualitative("Trace"),
				}),
			},
		},
		{
			ID:       2,
			Name:     "Marcus Thorne",
			Age:      65,
			Gender:   domain.GenderMale,
			Avatar:   "https://picsum.photos/seed/Marcus/100/100",
			Hospital: "St. Anne Medical Center",
			Contact: domain.PatientContact{
				Email:   "marcus.thorne@example.com",
				Phone:   "555-0103",
				Address: "9 Alder Court, Fairview",
			},
			Caregiver: domain.Caregiver{Name: "June Thorne", Relation: "Spouse", Phone: "555-0104"},
			Results: []domain.TestResult{
				panel(now, 30, map[domain.Biomarker]domain.Value{
					domain.BiomarkerGlucose: domain.Numeric(22),
				}),
				panel(now, 1, map[domain.Biomarker]domain.Value{
					domain.BiomarkerGlucose: domain.Numeric(180),
					domain.BiomarkerKetone:  domain.Numeric(12),
				}),
			},
		},
		{
			ID:       3,
			Name:     "Lena Petrova",
			Age:      58,
			Gender:   domain.GenderFemale,
			Avatar:   "https://picsum.photos/seed/Lena/100/100",
			Hospital: "Riverside General Hospital",
			Contact: domain.PatientContact{
				Email:   "lena.petrova@example.com",
				Phone:   "555-0105",
				Address: "310 Harbor View, Riverside",
			},
			Caregiver: domain.Caregiver{Name: "Ivan Petrov", Relation: "Son", Phone: "555-0106"},
			Results: []domain.TestResult{
				panel(now, 5, map[domain.Biomarker]domain.Value{
					domain.BiomarkerProtein: domain.Numeric(24),
				}),
			},
		},
		{
			ID:       4,
			Name:     "Arthur Pendle",
			Age:      80,
			Gender:   domain.GenderMale,
			Avatar:   "https://picsum.photos/seed/Arthur/100/100",
			Hospital: "Riverside General Hospital",
			Contact: domain.PatientContact{
				Email:   "arthur.pendle@example.com",
				Phone:   "555-0107",
				Address: "7 Mill Road, Riverside",
			},
			Caregiver: domain.Caregiver{Name: "Grace Pendle", Relation: "Spouse", Phone: "555-0108"},
			Results:   []domain.TestResult{panel(now, 14, nil)},
		},
	}
}

// SeedDoctors returns the session's initial doctor collection. The sample
// data models one clinician supervising the whole panel.
func SeedDoctors() []domain.Doctor {
	return []domain.Doctor{
		{
			ID:         1,
			Name:       "Dr. David",
			Avatar:     "https://picsum.photos/seed/David/100/100",
			PatientIDs: []int{1, 2, 3, 4},
		},
	}
}

// SeedAlerts returns the simulated alert backlog present at session start.
func SeedAlerts(now time.Time) []domain.Alert {
	return []domain.Alert{
		{
			ID:          "7c9f1a52-3b0e-4d2a-8f61-2e9c4b7d5a10",
			PatientID:   2,
			PatientName: "Marcus Thorne",
			Message:     "Glucose reading of 180 mg/dL is outside the expected range.",
			Level:       domain.LevelHigh,
			Timestamp:   now.Add(-2 * time.Hour),
			Status:      domain.AlertActive,
		},
		{
			ID:          "e4b82d6f-1c3a-4f7b-9d05-8a61f2c3e7b4",
			PatientID:   3,
			PatientName: "Lena Petrova",
			Message:     "Protein reading of 24 mg/dL is approaching the edge of the expected range.",
			Level:       domain.LevelMedium,
			Timestamp:   now.Add(-26 * time.Hour),
			Status:      domain.AlertActive,
		},
		{
			ID:          "2a6d9e31-7f45-4c08-b1d2-c5e8a0f4962d",
			PatientID:   1,
			PatientName: "Eleanor Vance",
			Message:     "pH reading of 8.4 is approaching the edge of the expected range.",
			Level:       domain.LevelMedium,
			Timestamp:   now.AddDate(0, 0, -40),
			Status:      domain.AlertReviewed,
		},
	}
}
