package service

import (
	"io"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Taby01/SmartUrine-Dash/internal/domain"
)

func testLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}

func newTestClassifier(t *testing.T) *ClassifierService {
	t.Helper()
	c, err := NewClassifierService(testLogger(), 128)
	require.NoError(t, err)
	return c
}

func TestClassifierService_Classify(t *testing.T) {
	c := newTestClassifier(t)

	assert.Equal(t, domain.StatusNormal, c.Classify(domain.BiomarkerGlucose, domain.Numeric(5)))
	assert.Equal(t, domain.StatusCaution, c.Classify(domain.BiomarkerGlucose, domain.Numeric(22)))
	assert.Equal(t, domain.StatusAlert, c.Classify(domain.BiomarkerGlucose, domain.Numeric(180)))
	assert.Equal(t, domain.StatusAlert, c.Classify(domain.BiomarkerNitrite, domain.Qualitative("Positive")))
}

func TestClassifierService_ClassifyUnknownBiomarker(t *testing.T) {
	c := newTestClassifier(t)

	assert.Equal(t, domain.StatusNormal, c.Classify(domain.Biomarker("Creatinine"), domain.Numeric(999)))
}

func TestClassifierService_CachedResultsStayStable(t *testing.T) {
	c := newTestClassifier(t)

	first := c.Classify(domain.BiomarkerPH, domain.Numeric(8.4))
	for i := 0; i < 10; i++ {
		assert.Equal(t, first, c.Classify(domain.BiomarkerPH, domain.Numeric(8.4)))
	}
	assert.Equal(t, domain.StatusCaution, first)
}

func TestClassifierService_NumericAndGradeDoNotCollide(t *testing.T) {
	c := newTestClassifier(t)

	// Both render as "5" but classify differently.
	assert.Equal(t, domain.StatusNormal, c.Classify(domain.BiomarkerGlucose, domain.Numeric(5)))
	assert.Equal(t, domain.StatusAlert, c.Classify(domain.BiomarkerGlucose, domain.Qualitative("5")))
}

func TestClassifierService_ClassifyResult(t *testing.T) {
	c := newTestClassifier(t)

	result := domain.TestResult{
		Date: time.Now(),
		Values: map[domain.Biomarker]domain.Value{
			domain.BiomarkerGlucose: domain.Numeric(5),
			domain.BiomarkerPH:      domain.Numeric(8.4),
			domain.BiomarkerKetone:  domain.Numeric(50),
		},
	}

	breakdown := c.ClassifyResult(result)
	assert.Equal(t, domain.StatusNormal, breakdown.Statuses[domain.BiomarkerGlucose])
	assert.Equal(t, domain.StatusCaution, breakdown.Statuses[domain.BiomarkerPH])
	assert.Equal(t, domain.StatusAlert, breakdown.Statuses[domain.BiomarkerKetone])
	assert.Equal(t, domain.StatusAlert, breakdown.Worst)
}

func TestClassifierService_ClassifyResultEmpty(t *testing.T) {
	c := newTestClassifier(t)

	breakdown := c.ClassifyResult(domain.TestResult{Date: time.Now()})
	assert.Empty(t, breakdown.Statuses)
	assert.Equal(t, domain.StatusNormal, breakdown.Worst)
}
