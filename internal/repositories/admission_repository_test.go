package repositories

import (
	"database/sql"
	"database/sql/driver"
	"testing"
	"time"

	"library_crm_backend/internal/models"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var admissionListColumns = []string{
	"id", "library_id", "name", "phone", "address", "guardian_name", "id_proof_number",
	"profile_image", "id_proof_image", "branch_id", "membership_start", "membership_end",
	"total_fee", "paid_amount", "due_amount", "cash_amount", "online_amount", "security_deposit",
	"discount", "seat_id", "shift_ids", "locker_id", "remark", "status",
	"created_at", "updated_at", "processed_at", "processed_by", "rejection_reason",
	"branch_name", "seat_number", "locker_number", "processed_by_name", "total_count",
}

func admissionListRow(id int64, status string, total int) []driver.Value {
	now := time.Now()
	return []driver.Value{
		id, int64(1), "Asha Verma", "9999999999", "12 Park Street", nil, nil,
		nil, nil, int64(7), now, now.AddDate(1, 0, 0),
		1500.0, 1000.0, 500.0, 500.0, 500.0, 0.0,
		0.0, int64(5), []byte("{10,11}"), int64(3), nil, status,
		now, now, nil, nil, nil,
		"Main Branch", "S-05", "L-03", nil, total,
	}
}

func TestAdmissionRepository_GetAdmissionRequests(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewAdmissionRepository(db)

	t.Run("FilterByStatus", func(t *testing.T) {
		rows := sqlmock.NewRows(admissionListColumns).
			AddRow(admissionListRow(2, "pending", 2)...).
			AddRow(admissionListRow(1, "pending", 2)...)

		mock.ExpectQuery("SELECT (.+) FROM admission_requests ar").
			WithArgs(int64(1), "pending", 20, 0).
			WillReturnRows(rows)

		status := "pending"
		requests, total, err := repo.GetAdmissionRequests(1, models.AdmissionFilters{Status: &status, Page: 1, PageSize: 20})
		assert.NoError(t, err)
		assert.Len(t, requests, 2)
		assert.Equal(t, 2, total)
		assert.Equal(t, []int64{10, 11}, requests[0].ShiftIDs)
		assert.Equal(t, "Main Branch", *requests[0].BranchName)
		assert.Equal(t, "S-05", *requests[0].SeatNumber)
	})

	t.Run("StatusAllMeansNoFilter", func(t *testing.T) {
		rows := sqlmock.NewRows(admissionListColumns).
			AddRow(admissionListRow(3, "rejected", 1)...)

		mock.ExpectQuery("SELECT (.+) FROM admission_requests ar").
			WithArgs(int64(1), 20, 0).
			WillReturnRows(rows)

		status := "all"
		requests, total, err := repo.GetAdmissionRequests(1, models.AdmissionFilters{Status: &status, Page: 1, PageSize: 20})
		assert.NoError(t, err)
		assert.Len(t, requests, 1)
		assert.Equal(t, 1, total)
	})

	t.Run("EmptyPage", func(t *testing.T) {
		mock.ExpectQuery("SELECT (.+) FROM admission_requests ar").
			WithArgs(int64(1), 20, 0).
			WillReturnRows(sqlmock.NewRows(admissionListColumns))

		requests, total, err := repo.GetAdmissionRequests(1, models.AdmissionFilters{Page: 1, PageSize: 20})
		assert.NoError(t, err)
		assert.Empty(t, requests)
		assert.Equal(t, 0, total)
	})

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAdmissionRepository_MarkProcessed(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewAdmissionRepository(db)

	t.Run("Success", func(t *testing.T) {
		mock.ExpectExec("UPDATE admission_requests").
			WithArgs(models.AdmissionStatusRejected, sqlmock.AnyArg(), int64(9), "no seats left", int64(4), int64(1), models.AdmissionStatusPending).
			WillReturnResult(sqlmock.NewResult(0, 1))

		reason := "no seats left"
		err := repo.MarkProcessed(db, 1, 4, 9, models.AdmissionStatusRejected, &reason)
		assert.NoError(t, err)
	})

	t.Run("AlreadyProcessed", func(t *testing.T) {
		mock.ExpectExec("UPDATE admission_requests").
			WithArgs(models.AdmissionStatusRejected, sqlmock.AnyArg(), int64(9), nil, int64(4), int64(1), models.AdmissionStatusPending).
			WillReturnResult(sqlmock.NewResult(0, 0))

		err := repo.MarkProcessed(db, 1, 4, 9, models.AdmissionStatusRejected, nil)
		assert.ErrorIs(t, err, ErrNotFound)
	})

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAdmissionRepository_GetStatusCounts(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewAdmissionRepository(db)

	t.Run("ZeroFillsMissingStatuses", func(t *testing.T) {
		rows := sqlmock.NewRows([]string{"status", "count"}).
			AddRow("pending", 3).
			AddRow("accepted", 2)

		mock.ExpectQuery("SELECT status, COUNT\\(\\*\\) FROM admission_requests").
			WithArgs(int64(1)).
			WillReturnRows(rows)

		stats, err := repo.GetStatusCounts(1)
		assert.NoError(t, err)
		assert.Equal(t, 3, stats.Pending)
		assert.Equal(t, 2, stats.Accepted)
		assert.Equal(t, 0, stats.Rejected)
		assert.Equal(t, 5, stats.Total)
	})

	t.Run("EmptyTenant", func(t *testing.T) {
		mock.ExpectQuery("SELECT status, COUNT\\(\\*\\) FROM admission_requests").
			WithArgs(int64(2)).
			WillReturnRows(sqlmock.NewRows([]string{"status", "count"}))

		stats, err := repo.GetStatusCounts(2)
		assert.NoError(t, err)
		assert.Equal(t, 0, stats.Total)
		assert.Equal(t, 0, stats.Pending)
	})

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAdmissionRepository_LockPendingRequest(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewAdmissionRepository(db)

	t.Run("NotPending", func(t *testing.T) {
		mock.ExpectQuery("SELECT (.+) FROM admission_requests").
			WithArgs(int64(5), int64(1), models.AdmissionStatusPending).
			WillReturnError(sql.ErrNoRows)

		req, err := repo.LockPendingRequest(db, 1, 5)
		assert.ErrorIs(t, err, ErrNotFound)
		assert.Nil(t, req)
	})

	assert.NoError(t, mock.ExpectationsWereMet())
}
