package service

import (
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/Taby01/SmartUrine-Dash/internal/domain"
	"github.com/Taby01/SmartUrine-Dash/internal/store"
)

// doctorDisplayName is the seeded clinician the doctor login resolves to.
const doctorDisplayName = "Dr. David"

// account is a demo login entry. The dashboard ships with fixed demo
// credentials; there is no user registration.
type account struct {
	password  string
	role      domain.Role
	patientID int // only set for patient accounts
}

var accounts = map[string]account{
	"admin": {password: "password123", role: domain.RolePatient, patientID: 1},
	"david": {password: "1234", role: domain.RoleDoctor},
}

// Session is an authenticated login, identified by an opaque token.
type Session struct {
	Token     string           `json:"token"`
	Principal domain.Principal `json:"principal"`
	CreatedAt time.Time        `json:"createdAt"`
}

// AuthService validates the demo credentials and tracks issued sessions in
// process memory.
type AuthService struct {
	logger   *logrus.Logger
	registry *store.Registry

	mu       sync.RWMutex
	sessions map[string]domain.Principal
}

// NewAuthService creates a new auth service.
func NewAuthService(logger *logrus.Logger, registry *store.Registry) *AuthService {
	return &AuthService{
		logger:   logger,
		registry: registry,
		sessions: make(map[string]domain.Principal),
	}
}

// Login checks the credentials and issues a session. The error for a bad
// username and a bad password is identical.
func (s *AuthService) Login(username, password string) (Session, error) {
	acct, ok := accounts[username]
	if !ok || acct.password != password {
		s.logger.WithField("username", username).Warn("Login rejected")
		return Session{}, domain.ErrInvalidCredentials
	}

	principal, err := s.resolve(acct)
	if err != nil {
		return Session{}, err
	}

	session := Session{
		Token:     uuid.New().String(),
		Principal: principal,
		CreatedAt: time.Now(),
	}

	s.mu.Lock()
	s.sessions[session.Token] = principal
	s.mu.Unlock()

	s.logger.WithFields(logrus.Fields{
		"user_id": principal.ID,
		"role":    principal.Role.String(),
	}).Info("Login succeeded")

	return session, nil
}

// resolve maps a demo account to its live registry record. Principals carry
// only the id; the record is re-read on every use so roster changes are
// always visible.
func (s *AuthService) resolve(acct account) (domain.Principal, error) {
	switch acct.role {
	case domain.RolePatient:
		p, err := s.registry.Patient(acct.patientID)
		if err != nil {
			return domain.Principal{}, fmt.Errorf("demo patient account: %w", err)
		}
		return domain.Principal{ID: p.ID, Role: domain.RolePatient}, nil
	case domain.RoleDoctor:
		d, err := s.registry.DoctorByName(doctorDisplayName)
		if err != nil {
			return domain.Principal{}, fmt.Errorf("demo doctor account: %w", err)
		}
		return domain.Principal{ID: d.ID, Role: domain.RoleDoctor}, nil
	default:
		return domain.Principal{}, fmt.Errorf("unknown role %q", acct.role)
	}
}

// Authenticate resolves a session token to its principal.
func (s *AuthService) Authenticate(token string) (domain.Principal, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.sessions[token]
	return p, ok
}

// Logout invalidates a session token. Unknown tokens are a no-op.
func (s *AuthService) Logout(token string) {
	s.mu.Lock()
	delete(s.sessions, token)
	s.mu.Unlock()
}
