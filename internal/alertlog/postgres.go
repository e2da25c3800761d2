package alertlog

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	_ "github.com/lib/pq"

	"github.com/Taby01/SmartUrine-Dash/internal/domain"
)

// PostgresStore implements the Store interface using PostgreSQL. This is the
// opt-in persistent profile; the schema is managed via migrations.
type PostgresStore struct {
	db *sql.DB
}

// NewPostgresStore creates a new PostgreSQL alert log over an existing
// connection. It expects the schema to already exist.
func NewPostgresStore(db *sql.DB) (*PostgresStore, error) {
	if db == nil {
		return nil, fmt.Errorf("database connection is required")
	}

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &PostgresStore{db: db}, nil
}

// NewPostgresStoreFromURL creates a new PostgreSQL alert log from a
// connection URL.
func NewPostgresStoreFromURL(databaseURL string) (*PostgresStore, error) {
	db, err := sql.Open("postgres", databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	store, err := NewPostgresStore(db)
	if err != nil {
		db.Close()
		return nil, err
	}

	return store, nil
}

// Insert appends a new alert to the log.
func (s *PostgresStore) Insert(ctx context.Context, alert *domain.Alert) error {
	if err := alert.Validate(); err != nil {
		return err
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO alerts (id, patient_id, patient_name, message, level, timestamp, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`,
		alert.ID,
		alert.PatientID,
		alert.PatientName,
		alert.Message,
		string(alert.Level),
		alert.Timestamp.UTC(),
		string(alert.Status),
	)
	if err != nil {
		return fmt.Errorf("failed to insert alert: %w", err)
	}
	return nil
}

// Get retrieves an alert by id.
func (s *PostgresStore) Get(ctx context.Context, id string) (*domain.Alert, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, patient_id, patient_name, message, level, timestamp, status
		FROM alerts
		WHERE id = $1
	`, id)

	a, err := scanAlert(row)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("alert %s: %w", id, domain.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan alert: %w", err)
	}
	return a, nil
}

// UpdateStatus re-statuses an alert in place.
func (s *PostgresStore) UpdateStatus(ctx context.Context, id string, status domain.AlertStatus) error {
	result, err := s.db.ExecContext(ctx,
		"UPDATE alerts SET status = $1 WHERE id = $2",
		string(status), id,
	)
	if err != nil {
		return fmt.Errorf("failed to update alert status: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read rows affected: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("alert %s: %w", id, domain.ErrNotFound)
	}
	return nil
}

// List returns alerts for the given patients, newest first.
func (s *PostgresStore) List(ctx context.Context, patientIDs []int, active bool) ([]*domain.Alert, error) {
	if len(patientIDs) == 0 {
		return nil, nil
	}

	placeholders := make([]string, len(patientIDs))
	args := make([]interface{}, 0, len(patientIDs)+1)
	for i, id := range patientIDs {
		placeholders[i] = fmt.Sprintf("$%d", i+1)
		args = append(args, id)
	}
	op := "="
	if !active {
		op = "!="
	}
	args = append(args, string(domain.AlertActive))

	query := fmt.Sprintf(`
		SELECT id, patient_id, patient_name, message, level, timestamp, status
		FROM alerts
		WHERE patient_id IN (%s) AND status %s $%d
		ORDER BY timestamp DESC
	`, strings.Join(placeholders, ", "), op, len(patientIDs)+1)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query alerts: %w", err)
	}
	defer rows.Close()

	var result []*domain.Alert
	for rows.Next() {
		a, err := scanAlert(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan row: %w", err)
		}
		result = append(result, a)
	}
	return result, rows.Err()
}

// Count returns the total number of alerts in the log.
func (s *PostgresStore) Count(ctx context.Context) (int64, error) {
	var count int64
	err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM alerts").Scan(&count)
	return count, err
}

// Close closes the database handle.
func (s *PostgresStore) Close() error {
	return s.db.Close()
}
