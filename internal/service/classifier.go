// Package service implements the dashboard use cases on top of the domain
// model: classification, timelines, the alert feed, roster management,
// authentication and export.
package service

import (
	"fmt"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/sirupsen/logrus"

	"github.com/Taby01/SmartUrine-Dash/internal/domain"
)

// classificationKey caches a (biomarker, reading) pair. Classification is
// deterministic, so cached entries never go stale.
type classificationKey struct {
	biomarker domain.Biomarker
	value     domain.Value
}

// ClassifierService wraps the pure catalog classifier with an LRU cache and
// audit logging.
type ClassifierService struct {
	logger *logrus.Logger
	cache  *lru.Cache[classificationKey, domain.HealthStatus]
}

// NewClassifierService creates a new classifier service.
func NewClassifierService(logger *logrus.Logger, cacheSize int) (*ClassifierService, error) {
	cache, err := lru.New[classificationKey, domain.HealthStatus](cacheSize)
	if err != nil {
		return nil, fmt.Errorf("failed to create classification cache: %w", err)
	}
	return &ClassifierService{logger: logger, cache: cache}, nil
}

// Classify maps a single reading to its health status. Unknown biomarkers
// classify as Normal; the service logs a warning so misspelled panel keys
// surface in operations rather than silently rendering green.
func (c *ClassifierService) Classify(b domain.Biomarker, v domain.Value) domain.HealthStatus {
	key := classificationKey{biomarker: b, value: v}
	if status, ok := c.cache.Get(key); ok {
		return status
	}

	if !b.IsKnown() {
		c.logger.WithField("biomarker", string(b)).Warn("Classifying unknown biomarker, defaulting to Normal")
	}

	status := domain.Classify(b, v)
	c.cache.Add(key, status)

	c.logger.WithFields(logrus.Fields{
		"biomarker": string(b),
		"value":     v.String(),
		"status":    status.String(),
	}).Debug("Reading classified")

	return status
}

// ResultClassification is the per-biomarker breakdown for one test result.
type ResultClassification struct {
	Statuses map[domain.Biomarker]domain.HealthStatus `json:"statuses"`
	Worst    domain.HealthStatus                      `json:"worst"`
}

// ClassifyResult classifies every reading present in the result. Absent
// readings are skipped. Worst is the most severe status across the panel,
// Normal for an empty result.
func (c *ClassifierService) ClassifyResult(result domain.TestResult) ResultClassification {
	out := ResultClassification{
		Statuses: make(map[domain.Biomarker]domain.HealthStatus, len(result.Values)),
		Worst:    domain.StatusNormal,
	}
	for b, v := range result.Values {
		if v.IsAbsent() {
			continue
		}
		status := c.Classify(b, v)
		out.Statuses[b] = status
		if severity(status) > severity(out.Worst) {
			out.Worst = status
		}
	}
	return out
}

func severity(s domain.HealthStatus) int {
	switch s {
	case domain.StatusAlert:
		return 2
	case domain.StatusCaution:
		return 1
	default:
		return 0
	}
}
