package alertlog

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	_ "modernc.org/sqlite"

	"github.com/Taby01/SmartUrine-Dash/internal/domain"
)

// MemoryDSN keeps the alert log entirely in process memory, discarded on
// restart. This is the default profile.
const MemoryDSN = ":memory:"

// SQLiteStore implements the Store interface using SQLite.
type SQLiteStore struct {
	db  *sql.DB
	dsn string
}

// NewSQLiteStore creates a new SQLite alert log. For file-backed DSNs the
// parent directory and schema are created if they don't exist.
func NewSQLiteStore(dsn string) (*SQLiteStore, error) {
	inMemory := dsn == MemoryDSN || strings.Contains(dsn, "mode=memory")
	if !inMemory {
		if err := os.MkdirAll(filepath.Dir(dsn), 0755); err != nil {
			return nil, fmt.Errorf("failed to create directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if inMemory {
		// Each pooled connection would otherwise see its own empty database.
		db.SetMaxOpenConns(1)
	} else {
		if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to set WAL mode: %w", err)
		}
	}

	if err := createSchema(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create schema: %w", err)
	}

	return &SQLiteStore{db: db, dsn: dsn}, nil
}

// scanner is an interface for sql.Row and sql.Rows.
type scanner interface {
	Scan(dest ...interface{}) error
}

// scanAlert scans a row into an Alert.
func scanAlert(s scanner) (*domain.Alert, error) {
	a := &domain.Alert{}
	var level, status string

	err := s.Scan(&a.ID, &a.PatientID, &a.PatientName, &a.Message, &level, &a.Timestamp, &status)
	if err != nil {
		return nil, err
	}

	a.Level = domain.AlertLevel(level)
	a.Status = domain.AlertStatus(status)
	return a, nil
}

// createSchema creates the alert table and indexes.
func createSchema(db *sql.DB) error {
	schema := `
	CREATE TABLE IF NOT EXISTS alerts (
		id TEXT PRIMARY KEY,
		patient_id INTEGER NOT NULL,
		patient_name TEXT NOT NULL,
		message TEXT NOT NULL,
		level TEXT NOT NULL,
		timestamp DATETIME NOT NULL,
		status TEXT NOT NULL DEFAULT 'Active'
	);

	CREATE INDEX IF NOT EXISTS idx_alerts_patient_id ON alerts(patient_id);
	CREATE INDEX IF NOT EXISTS idx_alerts_status ON alerts(status);
	CREATE INDEX IF NOT EXISTS idx_alerts_timestamp ON alerts(timestamp);
	`

	_, err := db.Exec(schema)
	return err
}

// Insert appends a new alert to the log.
func (s *SQLiteStore) Insert(ctx context.Context, alert *domain.Alert) error {
	if err := alert.Validate(); err != nil {
		return err
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO alerts (id, patient_id, patient_name, message, level, timestamp, status)
		VALUES (?, ?, ?, ?, ?, ?, ?)
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
func (s *SQLiteStore) Get(ctx context.Context, id string) (*domain.Alert, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, patient_id, patient_name, message, level, timestamp, status
		FROM alerts
		WHERE id = ?
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

// UpdateStatus re-statuses an alert in place. Alerts are never deleted.
func (s *SQLiteStore) UpdateStatus(ctx context.Context, id string, status domain.AlertStatus) error {
	result, err := s.db.ExecContext(ctx,
		"UPDATE alerts SET status = ? WHERE id = ?",
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
func (s *SQLiteStore) List(ctx context.Context, patientIDs []int, active bool) ([]*domain.Alert, error) {
	if len(patientIDs) == 0 {
		return nil, nil
	}

	placeholders := strings.TrimSuffix(strings.Repeat("?,", len(patientIDs)), ",")
	op := "="
	if !active {
		op = "!="
	}
	query := fmt.Sprintf(`
		SELECT id, patient_id, patient_name, message, level, timestamp, status
		FROM alerts
		WHERE patient_id IN (%s) AND status %s ?
		ORDER BY timestamp DESC
	`, placeholders, op)

	args := make([]interface{}, 0, len(patientIDs)+1)
	for _, id := range patientIDs {
		args = append(args, id)
	}
	args = append(args, string(domain.AlertActive))

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
func (s *SQLiteStore) Count(ctx context.Context) (int64, error) {
	var count int64
	err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM alerts").Scan(&count)
	return count, err
}

// Close closes the database handle.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
