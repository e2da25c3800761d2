package alertlog

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Taby01/SmartUrine-Dash/internal/domain"
)

func createTestStore(t *testing.T) *SQLiteStore {
	t.Helper()
	store, err := NewSQLiteStore(MemoryDSN)
	require.NoError(t, err)
	return store
}

func testAlert(patientID int, age time.Duration, status domain.AlertStatus) *domain.Alert {
	return &domain.Alert{
		ID:          uuid.New().String(),
		PatientID:   patientID,
		PatientName: "Marcus Thorne",
		Message:     "Glucose reading of 180 mg/dL is outside the expected range.",
		Level:       domain.LevelHigh,
		Timestamp:   time.Now().Add(-age),
		Status:      status,
	}
}

func TestNewSQLiteStoreFileBacked(t *testing.T) {
	tmpDir, err := os.MkdirTemp("", "alertlog-test-*")
	require.NoError(t, err)
	defer os.RemoveAll(tmpDir)

	dbPath := filepath.Join(tmpDir, "alerts.db")

	store, err := NewSQLiteStore(dbPath)
	require.NoError(t, err)
	require.NotNil(t, store)
	defer store.Close()

	_, err = os.Stat(dbPath)
	assert.NoError(t, err, "database file should exist")
}

func TestSQLiteStore_InsertAndGet(t *testing.T) {
	store := createTestStore(t)
	defer store.Close()

	ctx := context.Background()
	alert := testAlert(2, time.Hour, domain.AlertActive)

	require.NoError(t, store.Insert(ctx, alert))

	retrieved, err := store.Get(ctx, alert.ID)
	require.NoError(t, err)
	assert.Equal(t, alert.PatientID, retrieved.PatientID)
	assert.Equal(t, alert.Message, retrieved.Message)
	assert.Equal(t, domain.LevelHigh, retrieved.Level)
	assert.Equal(t, domain.AlertActive, retrieved.Status)
}

func TestSQLiteStore_InsertRejectsInvalidAlert(t *testing.T) {
	store := createTestStore(t)
	defer store.Close()

	bad := testAlert(2, time.Hour, domain.AlertActive)
	bad.Message = ""
	assert.Error(t, store.Insert(context.Background(), bad))
}

func TestSQLiteStore_GetUnknownID(t *testing.T) {
	store := createTestStore(t)
	defer store.Close()

	_, err := store.Get(context.Background(), uuid.New().String())
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestSQLiteStore_UpdateStatus(t *testing.T) {
	store := createTestStore(t)
	defer store.Close()

	ctx := context.Background()
	alert := testAlert(2, time.Hour, domain.AlertActive)
	require.NoError(t, store.Insert(ctx, alert))

	require.NoError(t, store.UpdateStatus(ctx, alert.ID, domain.AlertReviewed))

	retrieved, err := store.Get(ctx, alert.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.AlertReviewed, retrieved.Status)

	err = store.UpdateStatus(ctx, uuid.New().String(), domain.AlertSnoozed)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestSQLiteStore_ListSplitsActiveFromLog(t *testing.T) {
	store := createTestStore(t)
	defer store.Close()

	ctx := context.Background()
	active := testAlert(2, time.Hour, domain.AlertActive)
	snoozed := testAlert(2, 2*time.Hour, domain.AlertSnoozed)
	reviewed := testAlert(3, 3*time.Hour, domain.AlertReviewed)
	unrelated := testAlert(9, time.Minute, domain.AlertActive)

	for _, a := range []*domain.Alert{active, snoozed, reviewed, unrelated} {
		require.NoError(t, store.Insert(ctx, a))
	}

	activeList, err := store.List(ctx, []int{2, 3}, true)
	require.NoError(t, err)
	require.Len(t, activeList, 1)
	assert.Equal(t, active.ID, activeList[0].ID)

	logList, err := store.List(ctx, []int{2, 3}, false)
	require.NoError(t, err)
	require.Len(t, logList, 2)
	assert.Equal(t, snoozed.ID, logList[0].ID, "log must be newest first")
	assert.Equal(t, reviewed.ID, logList[1].ID)
}

func TestSQLiteStore_ListOrdersNewestFirst(t *testing.T) {
	store := createTestStore(t)
	defer store.Close()

	ctx := context.Background()
	older := testAlert(2, 48*time.Hour, domain.AlertActive)
	newer := testAlert(2, time.Minute, domain.AlertActive)
	require.NoError(t, store.Insert(ctx, older))
	require.NoError(t, store.Insert(ctx, newer))

	list, err := store.List(ctx, []int{2}, true)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, newer.ID, list[0].ID)
	assert.Equal(t, older.ID, list[1].ID)
}

func TestSQLiteStore_ListEmptyRoster(t *testing.T) {
	store := createTestStore(t)
	defer store.Close()

	list, err := store.List(context.Background(), nil, true)
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestSQLiteStore_Count(t *testing.T) {
	store := createTestStore(t)
	defer store.Close()

	ctx := context.Background()
	require.NoError(t, store.Insert(ctx, testAlert(2, time.Hour, domain.AlertActive)))
	require.NoError(t, store.Insert(ctx, testAlert(3, time.Hour, domain.AlertReviewed)))

	count, err := store.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(2), count)
}
