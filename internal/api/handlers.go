package api

import (
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/Taby01/SmartUrine-Dash/internal/domain"
	"github.com/Taby01/SmartUrine-Dash/internal/service"
)

const principalKey = "principal"

// respondError maps domain errors to HTTP status codes.
func (s *Server) respondError(c *gin.Context, err error) {
	switch {
	case domain.IsValidation(err):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, domain.ErrInvalidCredentials):
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid credentials"})
	case errors.Is(err, domain.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, domain.ErrInvalidTransition):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	default:
		s.logger.WithError(err).Error("Request failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}

// requireAuth resolves the session token to a principal. Tokens arrive as a
// bearer header, or as a token query parameter for websocket clients.
func (s *Server) requireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		token := strings.TrimPrefix(c.GetHeader("Authorization"), "Bearer ")
		if token == "" || token == c.GetHeader("Authorization") {
			token = c.Query("token")
		}
		if token == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing session token"})
			return
		}

		principal, ok := s.auth.Authenticate(token)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid session token"})
			return
		}

		c.Set(principalKey, principal)
		c.Set("session_token", token)
		c.Next()
	}
}

func (s *Server) principal(c *gin.Context) domain.Principal {
	return c.MustGet(principalKey).(domain.Principal)
}

// canAccessPatient reports whether the principal may read or write the
// patient's record: patients see their own record, doctors their roster.
func (s *Server) canAccessPatient(principal domain.Principal, patientID int) bool {
	switch principal.Role {
	case domain.RolePatient:
		return principal.ID == patientID
	case domain.RoleDoctor:
		d, err := s.roster.Doctor(principal.ID)
		if err != nil {
			return false
		}
		return d.Supervises(patientID)
	default:
		return false
	}
}

func (s *Server) requireDoctor(c *gin.Context) (domain.Principal, bool) {
	principal := s.principal(c)
	if principal.Role != domain.RoleDoctor {
		c.JSON(http.StatusForbidden, gin.H{"error": "clinician access required"})
		return domain.Principal{}, false
	}
	return principal, true
}

func pathID(c *gin.Context, name string) (int, bool) {
	id, err := strconv.Atoi(c.Param(name))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid " + name})
		return 0, false
	}
	return id, true
}

type loginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// handleLogin validates credentials and issues a session token.
func (s *Server) handleLogin(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "username and password are required"})
		return
	}

	session, err := s.auth.Login(req.Username, req.Password)
	if err != nil {
		s.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, session)
}

// handleLogout invalidates the current session.
func (s *Server) handleLogout(c *gin.Context) {
	s.auth.Logout(c.GetString("session_token"))
	c.Status(http.StatusNoContent)
}

type biomarkerInfo struct {
	ID          string `json:"id"`
	DisplayName string `json:"displayName"`
	Unit        string `json:"unit,omitempty"`
}

// handleBiomarkers returns the biomarker catalog in panel order.
func (s *Server) handleBiomarkers(c *gin.Context) {
	panel := domain.Biomarkers()
	out := make([]biomarkerInfo, 0, len(panel))
	for _, b := range panel {
		t := domain.Catalog[b]
		out = append(out, biomarkerInfo{ID: string(b), DisplayName: t.DisplayName, Unit: t.Unit})
	}
	c.JSON(http.StatusOK, gin.H{"biomarkers": out})
}

// handleGetPatient returns the full patient record.
func (s *Server) handleGetPatient(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	if !s.canAccessPatient(s.principal(c), id) {
		c.JSON(http.StatusForbidden, gin.H{"error": "not authorized for this patient"})
		return
	}

	p, err := s.roster.Patient(id)
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, p)
}

// handleLatestResult returns the most recent result with its per-biomarker
// classification.
func (s *Server) handleLatestResult(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	if !s.canAccessPatient(s.principal(c), id) {
		c.JSON(http.StatusForbidden, gin.H{"error": "not authorized for this patient"})
		return
	}

	p, err := s.roster.Patient(id)
	if err != nil {
		s.respondError(c, err)
		return
	}

	latest, ok := service.Latest(p.Results)
	if !ok {
		c.JSON(http.StatusOK, gin.H{"result": nil})
		return
	}

	breakdown := s.classifier.ClassifyResult(latest)
	c.JSON(http.StatusOK, gin.H{
		"result":   latest,
		"statuses": breakdown.Statuses,
		"worst":    breakdown.Worst,
	})
}

// handleResultHistory returns the timeline filtered by date range and
// biomarker selection. Query params: range, biomarkers (comma separated).
func (s *Server) handleResultHistory(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	if !s.canAccessPatient(s.principal(c), id) {
		c.JSON(http.StatusForbidden, gin.H{"error": "not authorized for this patient"})
		return
	}

	p, err := s.roster.Patient(id)
	if err != nil {
		s.respondError(c, err)
		return
	}

	results, err := service.FilterByRange(p.Results, c.Query("range"), time.Now())
	if err != nil {
		s.respondError(c, err)
		return
	}
	results = service.FilterByBiomarkers(results, parseBiomarkers(c.Query("biomarkers")))

	c.JSON(http.StatusOK, gin.H{"results": results})
}

// handleAddResult records a new test result and returns any alerts it raised.
func (s *Server) handleAddResult(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	if !s.canAccessPatient(s.principal(c), id) {
		c.JSON(http.StatusForbidden, gin.H{"error": "not authorized for this patient"})
		return
	}

	var result domain.TestResult
	if err := c.ShouldBindJSON(&result); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid test result payload"})
		return
	}
	if result.Date.IsZero() {
		result.Date = time.Now()
	}

	raised, err := s.roster.AddResult(c.Request.Context(), id, result)
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"alertsRaised": raised})
}

type exportBody struct {
	Range      string   `json:"range"`
	Biomarkers []string `json:"biomarkers"`
}

// handleExport resolves an export request to a summary of the selected data.
func (s *Server) handleExport(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	if !s.canAccessPatient(s.principal(c), id) {
		c.JSON(http.StatusForbidden, gin.H{"error": "not authorized for this patient"})
		return
	}

	var body exportBody
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid export payload"})
		return
	}

	markers := make([]domain.Biomarker, 0, len(body.Biomarkers))
	for _, b := range body.Biomarkers {
		markers = append(markers, domain.Biomarker(b))
	}

	summary, err := s.export.RequestExport(service.ExportRequest{
		PatientID:  id,
		Range:      body.Range,
		Biomarkers: markers,
	}, time.Now())
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusAccepted, summary)
}

// handleRoster returns the doctor's supervised patients.
func (s *Server) handleRoster(c *gin.Context) {
	principal, ok := s.requireDoctor(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	if principal.ID != id {
		c.JSON(http.StatusForbidden, gin.H{"error": "not authorized for this roster"})
		return
	}

	roster, err := s.roster.Roster(id)
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"patients": roster})
}

// handleAddPatient creates a patient and adds them to the doctor's roster.
func (s *Server) handleAddPatient(c *gin.Context) {
	principal, ok := s.requireDoctor(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	if principal.ID != id {
		c.JSON(http.StatusForbidden, gin.H{"error": "not authorized for this roster"})
		return
	}

	var form domain.NewPatientData
	if err := c.ShouldBindJSON(&form); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid patient payload"})
		return
	}

	p, err := s.roster.AddPatient(id, form)
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, p)
}

// handleRemovePatient takes a patient off the doctor's roster.
func (s *Server) handleRemovePatient(c *gin.Context) {
	principal, ok := s.requireDoctor(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	if principal.ID != id {
		c.JSON(http.StatusForbidden, gin.H{"error": "not authorized for this roster"})
		return
	}
	patientID, ok := pathID(c, "patientId")
	if !ok {
		return
	}

	if err := s.roster.RemovePatient(id, patientID); err != nil {
		s.respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// handleAlerts returns the doctor's alert feed. The tab query selects the
// view: "active" (default) or "log".
func (s *Server) handleAlerts(c *gin.Context) {
	principal, ok := s.requireDoctor(c)
	if !ok {
		return
	}

	tab := c.DefaultQuery("tab", "active")
	var (
		alerts []*domain.Alert
		err    error
	)
	switch tab {
	case "active":
		alerts, err = s.alerts.ListActive(c.Request.Context(), principal.ID)
	case "log":
		alerts, err = s.alerts.ListLog(c.Request.Context(), principal.ID)
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "tab must be active or log"})
		return
	}
	if err != nil {
		s.respondError(c, err)
		return
	}
	if alerts == nil {
		alerts = []*domain.Alert{}
	}
	c.JSON(http.StatusOK, gin.H{"alerts": alerts})
}

type alertStatusBody struct {
	Status domain.AlertStatus `json:"status" binding:"required"`
}

// handleAlertStatus moves an alert to Snoozed or Reviewed.
func (s *Server) handleAlertStatus(c *gin.Context) {
	if _, ok := s.requireDoctor(c); !ok {
		return
	}

	var body alertStatusBody
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "status is required"})
		return
	}

	alert, err := s.alerts.Transition(c.Request.Context(), c.Param("id"), body.Status)
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, alert)
}

func parseBiomarkers(raw string) []domain.Biomarker {
	if raw == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	out := make([]domain.Biomarker, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, domain.Biomarker(trimmed))
		}
	}
	return out
}
