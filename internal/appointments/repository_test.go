package appointments

import (
	"context"
	"testing"

	"github.com/pashagolub/pgxmock/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wolfman30/clinic-booking-api/internal/storage"
	"github.com/wolfman30/clinic-booking-api/internal/storage/storagetest"
)

func i64(v int64) *int64    { return &v }
func str(v string) *string { return &v }

func TestRepositoryListAllSeeded(t *testing.T) {
	repo := NewRepository(storagetest.NewSeededSQLite(t))

	all, err := repo.ListAll(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []Appointment{
		{ID: 1, DoctorID: 1, PatientID: 1, DateTime: "2025-12-08 13:00:00", Status: "scheduled"},
		{ID: 2, DoctorID: 1, PatientID: 2, DateTime: "2025-12-08 14:00:00", Status: "scheduled"},
		{ID: 3, DoctorID: 3, PatientID: 3, DateTime: "2025-12-08 15:00:00", Status: "scheduled"},
	}, all)
}

func TestRepositoryListScheduledForPhone(t *testing.T) {
	repo := NewRepository(storagetest.NewSeededSQLite(t))
	ctx := context.Background()

	_, err := repo.Insert(ctx, i64(2), 1, str("2025-12-01 09:00:00"), StatusScheduled)
	require.NoError(t, err)
	_, err = repo.Insert(ctx, i64(2), 1, str("2025-11-01 09:00:00"), "cancelled")
	require.NoError(t, err)

	rows, err := repo.ListScheduledForPhone(ctx, "1-555-0101")
	require.NoError(t, err)
	assert.Equal(t, []PatientAppointment{
		{ID: 4, DoctorName: "Dr. Jones", DateTime: "2025-12-01 09:00:00", Status: "scheduled"},
		{ID: 1, DoctorName: "Dr. Smith", DateTime: "2025-12-08 13:00:00", Status: "scheduled"},
	}, rows)

	none, err := repo.ListScheduledForPhone(ctx, "9-999-9999")
	require.NoError(t, err)
	assert.NotNil(t, none)
	assert.Empty(t, none)
}

func TestRepositoryBookedTimesFiltersDoctorDateStatus(t *testing.T) {
	repo := NewRepository(storagetest.NewSeededSQLite(t))
	ctx := context.Background()

	_, err := repo.Insert(ctx, i64(1), 3, str("2025-12-09 09:00:00"), StatusScheduled)
	require.NoError(t, err)
	id, err := repo.Insert(ctx, i64(1), 3, str("2025-12-08 10:00:00"), StatusScheduled)
	require.NoError(t, err)
	_, err = repo.UpdateStatus(ctx, id, "cancelled")
	require.NoError(t, err)

	booked, err := repo.BookedTimes(ctx, 1, "2025-12-08")
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"2025-12-08 13:00:00", "2025-12-08 14:00:00"}, booked)

	booked, err = repo.BookedTimes(ctx, 2, "2025-12-08")
	require.NoError(t, err)
	assert.Empty(t, booked)
}

func TestRepositoryHasScheduledAt(t *testing.T) {
	repo := NewRepository(storagetest.NewSeededSQLite(t))
	ctx := context.Background()

	taken, err := repo.HasScheduledAt(ctx, 1, "2025-12-08 13:00:00")
	require.NoError(t, err)
	assert.True(t, taken)

	taken, err = repo.HasScheduledAt(ctx, 2, "2025-12-08 13:00:00")
	require.NoError(t, err)
	assert.False(t, taken)
}

func TestRepositoryInsertNullDoctorFails(t *testing.T) {
	backend := storagetest.NewSeededSQLite(t)
	repo := NewRepository(backend)

	_, err := repo.Insert(context.Background(), nil, 1, str("2025-12-08 09:00:00"), StatusScheduled)
	require.Error(t, err)
	assert.Equal(t, int64(3), storagetest.Count(t, backend, "appointments"))
}

func TestRepositoryUpdateMissingRow(t *testing.T) {
	repo := NewRepository(storagetest.NewSeededSQLite(t))

	n, err := repo.UpdateDateTime(context.Background(), 999, "2026-01-01 09:00:00")
	require.NoError(t, err)
	assert.Zero(t, n)

	n, err = repo.UpdateStatus(context.Background(), 1, "cancelled")
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
}

func TestRepositoryNextScheduledForPatient(t *testing.T) {
	repo := NewRepository(storagetest.NewSeededSQLite(t))
	ctx := context.Background()

	next, err := repo.NextScheduledForPatient(ctx, 3)
	require.NoError(t, err)
	assert.Equal(t, &Upcoming{ID: 3, DoctorName: "Dr. Williams", DateTime: "2025-12-08 15:00:00"}, next)

	_, err = repo.UpdateStatus(ctx, 3, "cancelled")
	require.NoError(t, err)
	_, err = repo.NextScheduledForPatient(ctx, 3)
	assert.ErrorIs(t, err, ErrNoUpcoming)
}

func TestRepositoryPostgresInsertUsesReturning(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewRepository(storage.NewPostgresBackendWithPool(mock))

	mock.ExpectQuery(`INSERT INTO "appointments" \("doctor_id", "patient_id", "datetime", "status"\) VALUES \(\$1, \$2, \$3, \$4\) RETURNING "id"`).
		WithArgs(int64(1), int64(2), "2025-12-08 10:00:00", "scheduled").
		WillReturnRows(pgxmock.NewRows([]string{"id"}).AddRow(int64(42)))

	id, err := repo.Insert(context.Background(), i64(1), 2, str("2025-12-08 10:00:00"), StatusScheduled)
	require.NoError(t, err)
	assert.Equal(t, int64(42), id)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRepositoryPostgresBookedTimes(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewRepository(storage.NewPostgresBackendWithPool(mock))

	mock.ExpectQuery(`SELECT "datetime" FROM "appointments" WHERE \(\("doctor_id" = \$1\) AND \(substr\("datetime", 1, 10\) = \$2\) AND \("status" = \$3\)\)`).
		WithArgs(int64(1), "2025-12-08", "scheduled").
		WillReturnRows(pgxmock.NewRows([]string{"datetime"}).AddRow("2025-12-08 13:00:00"))

	booked, err := repo.BookedTimes(context.Background(), 1, "2025-12-08")
	require.NoError(t, err)
	assert.Equal(t, []string{"2025-12-08 13:00:00"}, booked)
	require.NoError(t, mock.ExpectationsWereMet())
}
