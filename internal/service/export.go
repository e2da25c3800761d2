package service

import (
	"time"

	"github.com/sirupsen/logrus"

	"github.com/Taby01/SmartUrine-Dash/internal/domain"
	"github.com/Taby01/SmartUrine-Dash/internal/store"
)

// ExportRequest selects the slice of a patient's timeline to export.
type ExportRequest struct {
	PatientID  int                `json:"patientId"`
	Range      string             `json:"range"`
	Biomarkers []domain.Biomarker `json:"biomarkers,omitempty"`
}

// ExportSummary describes the data an export request resolved to. File
// generation is not implemented; the summary is what the caller gets back.
type ExportSummary struct {
	PatientID   int       `json:"patientId"`
	PatientName string    `json:"patientName"`
	Range       string    `json:"range"`
	Biomarkers  []string  `json:"biomarkers"`
	ResultCount int       `json:"resultCount"`
	From        time.Time `json:"from,omitempty"`
	To          time.Time `json:"to,omitempty"`
	GeneratedAt time.Time `json:"generatedAt"`
}

// ExportService resolves export requests against patient timelines. It reuses
// the timeline filters, so an export always matches what the history view
// shows for the same selection.
type ExportService struct {
	logger   *logrus.Logger
	registry *store.Registry
}

// NewExportService creates a new export service.
func NewExportService(logger *logrus.Logger, registry *store.Registry) *ExportService {
	return &ExportService{logger: logger, registry: registry}
}

// RequestExport resolves the request to a summary of the selected results.
// An unknown range key or patient id fails before anything is logged as
// requested. The range defaults to "all" and an empty biomarker selection
// means the full panel.
func (s *ExportService) RequestExport(req ExportRequest, now time.Time) (*ExportSummary, error) {
	rangeKey, err := NormalizeRangeKey(req.Range)
	if err != nil {
		return nil, err
	}

	p, err := s.registry.Patient(req.PatientID)
	if err != nil {
		return nil, err
	}

	results, err := FilterByRange(p.Results, rangeKey, now)
	if err != nil {
		return nil, err
	}
	results = FilterByBiomarkers(results, req.Biomarkers)

	selected := req.Biomarkers
	if len(selected) == 0 {
		selected = domain.Biomarkers()
	}
	names := make([]string, len(selected))
	for i, b := range selected {
		names[i] = string(b)
	}

	summary := &ExportSummary{
		PatientID:   p.ID,
		PatientName: p.Name,
		Range:       rangeKey,
		Biomarkers:  names,
		ResultCount: len(results),
		GeneratedAt: now,
	}
	if len(results) > 0 {
		summary.From = results[0].Date
		summary.To = results[len(results)-1].Date
	}

	s.logger.WithFields(logrus.Fields{
		"patient_id": p.ID,
		"range":      rangeKey,
		"biomarkers": len(selected),
		"results":    summary.ResultCount,
	}).Info("Export requested")

	return summary, nil
}
