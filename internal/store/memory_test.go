package store

import (
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Taby01/SmartUrine-Dash/internal/domain"
)

func testLogger() *logrus.Logger {
	log := logrus.New()
	log.SetLevel(logrus.PanicLevel)
	return log
}

func seededRegistry(t *testing.T) *Registry {
	t.Helper()
	now := time.Now()
	return NewRegistry(SeedPatients(now), SeedDoctors(), testLogger())
}

func newPatientData() domain.NewPatientData {
	return domain.NewPatientData{
		Name:     "Ida Quint",
		Age:      58,
		Gender:   domain.GenderFemale,
		Hospital: "St. Anne Medical Center",
		Contact:  domain.PatientContact{Email: "ida.quint@example.com", Phone: "555-0118", Address: "12 Birch Lane"},
		Caregiver: domain.Caregiver{
			Name:     "Ruth Quint",
			Relation: "Daughter",
			Phone:    "555-0119",
		},
	}
}

func TestAddPatientAllocatesNextID(t *testing.T) {
	reg := seededRegistry(t)

	p, err := reg.AddPatient(1, newPatientData())
	require.NoError(t, err)
	assert.Equal(t, 5, p.ID)
	assert.Empty(t, p.Results)
	assert.NotEmpty(t, p.Avatar)

	doc, err := reg.Doctor(1)
	require.NoError(t, err)
	assert.True(t, doc.Supervises(p.ID))
}

func TestAddPatientNonContiguousIDs(t *testing.T) {
	patients := []domain.Patient{{ID: 1, Name: "A"}, {ID: 3, Name: "B"}, {ID: 7, Name: "C"}}
	doctors := []domain.Doctor{{ID: 1, Name: "Dr. David", PatientIDs: []int{1, 3, 7}}}
	reg := NewRegistry(patients, doctors, testLogger())

	first, err := reg.AddPatient(1, newPatientData())
	require.NoError(t, err)
	assert.Equal(t, 8, first.ID)

	second, err := reg.AddPatient(1, newPatientData())
	require.NoError(t, err)
	assert.Equal(t, 9, second.ID)
}

func TestAddPatientEmptyCollectionStartsAtOne(t *testing.T) {
	reg := NewRegistry(nil, []domain.Doctor{{ID: 1, Name: "Dr. David"}}, testLogger())

	p, err := reg.AddPatient(1, newPatientData())
	require.NoError(t, err)
	assert.Equal(t, 1, p.ID)
}

func TestAddPatientRejectsInvalidFormWithoutMutation(t *testing.T) {
	reg := seededRegistry(t)
	before := len(reg.Patients())

	data := newPatientData()
	data.Name = ""
	_, err := reg.AddPatient(1, data)
	require.Error(t, err)
	assert.True(t, domain.IsValidation(err))
	assert.Len(t, reg.Patients(), before)
}

func TestAddPatientUnknownDoctor(t *testing.T) {
	reg := seededRegistry(t)
	_, err := reg.AddPatient(99, newPatientData())
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestRemovePatientKeepsGlobalRecord(t *testing.T) {
	reg := seededRegistry(t)

	require.NoError(t, reg.RemovePatient(1, 2))

	doc, err := reg.Doctor(1)
	require.NoError(t, err)
	assert.False(t, doc.Supervises(2))

	// The patient record itself survives in the global collection.
	p, err := reg.Patient(2)
	require.NoError(t, err)
	assert.Equal(t, "Marcus Thorne", p.Name)
}

func TestRemovePatientIsIdempotent(t *testing.T) {
	reg := seededRegistry(t)
	require.NoError(t, reg.RemovePatient(1, 2))
	require.NoError(t, reg.RemovePatient(1, 2))
}

func TestAddThenRemoveRoundTrip(t *testing.T) {
	reg := seededRegistry(t)
	doc, err := reg.Doctor(1)
	require.NoError(t, err)
	before := append([]int(nil), doc.PatientIDs...)

	p, err := reg.AddPatient(1, newPatientData())
	require.NoError(t, err)
	require.NoError(t, reg.RemovePatient(1, p.ID))

	doc, err = reg.Doctor(1)
	require.NoError(t, err)
	assert.ElementsMatch(t, before, doc.PatientIDs)

	_, err = reg.Patient(p.ID)
	assert.NoError(t, err, "patient record must remain after roster removal")
}

func TestAppendResultKeepsChronologicalOrder(t *testing.T) {
	reg := seededRegistry(t)
	now := time.Now()

	backdated := domain.TestResult{
		Date:   now.AddDate(0, 0, -20),
		Values: map[domain.Biomarker]domain.Value{domain.BiomarkerPH: domain.Numeric(6.0)},
	}
	require.NoError(t, reg.AppendResult(1, backdated))

	p, err := reg.Patient(1)
	require.NoError(t, err)
	for i := 1; i < len(p.Results); i++ {
		assert.False(t, p.Results[i].Date.Before(p.Results[i-1].Date),
			"results out of order at index %d", i)
	}
}

func TestAccessorsReturnCopies(t *testing.T) {
	reg := seededRegistry(t)

	p, err := reg.Patient(1)
	require.NoError(t, err)
	p.Results[0].Values[domain.BiomarkerPH] = domain.Numeric(1.0)
	p.Name = "Changed"

	fresh, err := reg.Patient(1)
	require.NoError(t, err)
	assert.Equal(t, "Eleanor Vance", fresh.Name)
	v := fresh.Results[0].Values[domain.BiomarkerPH]
	f, _ := v.Float()
	assert.NotEqual(t, 1.0, f)

	doc, err := reg.Doctor(1)
	require.NoError(t, err)
	doc.PatientIDs[0] = 99
	freshDoc, err := reg.Doctor(1)
	require.NoError(t, err)
	assert.Equal(t, 1, freshDoc.PatientIDs[0])
}

func TestRosterListsOnlySupervisedPatients(t *testing.T) {
	reg := seededRegistry(t)
	require.NoError(t, reg.RemovePatient(1, 4))

	roster, err := reg.Roster(1)
	require.NoError(t, err)
	ids := make([]int, len(roster))
	for i, p := range roster {
		ids[i] = p.ID
	}
	assert.Equal(t, []int{1, 2, 3}, ids)
}
