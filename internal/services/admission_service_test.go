package services

import (
	"database/sql/driver"
	"testing"
	"time"

	"library_crm_backend/internal/models"
	"library_crm_backend/internal/repositories"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	testLibraryID = int64(1)
	testActorID   = int64(9)
	testRequestID = int64(42)
	testPhone     = "9999999999"
)

var lockedRequestColumns = []string{
	"id", "library_id", "name", "phone", "address", "guardian_name", "id_proof_number",
	"profile_image", "id_proof_image", "branch_id", "membership_start", "membership_end",
	"total_fee", "paid_amount", "due_amount", "cash_amount", "online_amount", "security_deposit",
	"discount", "seat_id", "shift_ids", "locker_id", "remark", "status", "created_at", "updated_at",
}

// lockedRequestRow builds the row returned by the FOR UPDATE claim of the
// pending request: seat 5, shifts {10,11}, locker 3.
func lockedRequestRow(membershipEnd time.Time) []driver.Value {
	now := time.Now()
	return []driver.Value{
		testRequestID, testLibraryID, "Asha Verma", testPhone, "12 Park Street", "R. Verma", "ID-4411",
		nil, nil, int64(7), now, membershipEnd,
		1500.0, 1000.0, 500.0, 500.0, 500.0, 200.0,
		0.0, int64(5), []byte("{10,11}"), int64(3), nil, "pending", now, now,
	}
}

func newAdmissionServiceForTest(t *testing.T) (AdmissionService, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	svc := NewAdmissionService(
		repositories.NewAdmissionRepository(db),
		repositories.NewStudentRepository(db),
		repositories.NewResourceRepository(db),
		repositories.NewHistoryRepository(db),
		repositories.NewAccountRepository(db),
		db,
	)
	return svc, mock
}

func TestAcceptAdmission_FullConversion(t *testing.T) {
	svc, mock := newAdmissionServiceForTest(t)

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT (.+) FROM admission_requests(.+)FOR UPDATE").
		WithArgs(testRequestID, testLibraryID, models.AdmissionStatusPending).
		WillReturnRows(sqlmock.NewRows(lockedRequestColumns).AddRow(lockedRequestRow(time.Now().AddDate(1, 0, 0))...))
	mock.ExpectQuery("SELECT COUNT\\(\\*\\) FROM students").
		WithArgs(testLibraryID, testPhone).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))
	mock.ExpectQuery("INSERT INTO students").
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(77))
	// One seat assignment per requested shift, in request order.
	mock.ExpectQuery("INSERT INTO seat_assignments").
		WithArgs(testLibraryID, int64(5), int64(10), int64(77), sqlmock.AnyArg()).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(1))
	mock.ExpectQuery("INSERT INTO seat_assignments").
		WithArgs(testLibraryID, int64(5), int64(11), int64(77), sqlmock.AnyArg()).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(2))
	mock.ExpectExec("UPDATE lockers").
		WithArgs(int64(77), sqlmock.AnyArg(), int64(3), testLibraryID).
		WillReturnResult(sqlmock.NewResult(0, 1))
	// History snapshot references the first shift id as the primary shift.
	mock.ExpectQuery("INSERT INTO membership_history").
		WithArgs(testLibraryID, int64(77), int64(7), int64(5), int64(10),
			sqlmock.AnyArg(), sqlmock.AnyArg(), 1500.0, 1000.0, 500.0, 200.0, 0.0, sqlmock.AnyArg()).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(1))
	mock.ExpectQuery("SELECT COUNT\\(\\*\\) FROM student_accounts").
		WithArgs(testLibraryID, testPhone).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))
	mock.ExpectQuery("INSERT INTO student_accounts").
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(1))
	mock.ExpectExec("UPDATE admission_requests").
		WithArgs(models.AdmissionStatusAccepted, sqlmock.AnyArg(), testActorID, nil, testRequestID, testLibraryID, models.AdmissionStatusPending).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	student, err := svc.AcceptAdmission(testLibraryID, testRequestID, testActorID)
	require.NoError(t, err)
	assert.Equal(t, int64(77), student.ID)
	assert.Equal(t, models.StudentStatusActive, student.Status)
	assert.True(t, student.IsActive)
	assert.Equal(t, "Asha Verma", student.Name)
	assert.Equal(t, testPhone, *student.Phone)
	assert.Equal(t, 1500.0, student.TotalFee)
	assert.NotEmpty(t, student.RegistrationNumber)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAcceptAdmission_PastMembershipEndYieldsExpired(t *testing.T) {
	svc, mock := newAdmissionServiceForTest(t)

	past := time.Date(2000, 1, 1, 0, 0, 0, 0, time.UTC)

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT (.+) FROM admission_requests(.+)FOR UPDATE").
		WithArgs(testRequestID, testLibraryID, models.AdmissionStatusPending).
		WillReturnRows(sqlmock.NewRows(lockedRequestColumns).AddRow(lockedRequestRow(past)...))
	mock.ExpectQuery("SELECT COUNT\\(\\*\\) FROM students").
		WithArgs(testLibraryID, testPhone).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))
	mock.ExpectQuery("INSERT INTO students").
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(78))
	mock.ExpectQuery("INSERT INTO seat_assignments").
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(1))
	mock.ExpectQuery("INSERT INTO seat_assignments").
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(2))
	mock.ExpectExec("UPDATE lockers").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery("INSERT INTO membership_history").
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(1))
	mock.ExpectQuery("SELECT COUNT\\(\\*\\) FROM student_accounts").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))
	mock.ExpectQuery("INSERT INTO student_accounts").
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(1))
	mock.ExpectExec("UPDATE admission_requests").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	student, err := svc.AcceptAdmission(testLibraryID, testRequestID, testActorID)
	require.NoError(t, err)
	assert.Equal(t, models.StudentStatusExpired, student.Status)
	assert.True(t, student.IsActive)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAcceptAdmission_DuplicatePhoneRollsBackEverything(t *testing.T) {
	svc, mock := newAdmissionServiceForTest(t)

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT (.+) FROM admission_requests(.+)FOR UPDATE").
		WithArgs(testRequestID, testLibraryID, models.AdmissionStatusPending).
		WillReturnRows(sqlmock.NewRows(lockedRequestColumns).AddRow(lockedRequestRow(time.Now().AddDate(1, 0, 0))...))
	mock.ExpectQuery("SELECT COUNT\\(\\*\\) FROM students").
		WithArgs(testLibraryID, testPhone).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))
	mock.ExpectRollback()

	student, err := svc.AcceptAdmission(testLibraryID, testRequestID, testActorID)
	assert.ErrorIs(t, err, ErrDuplicateStudentPhone)
	assert.Nil(t, student)

	// No student, seat-assignment, locker, history or account statement ran.
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAcceptAdmission_NotPending(t *testing.T) {
	svc, mock := newAdmissionServiceForTest(t)

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT (.+) FROM admission_requests(.+)FOR UPDATE").
		WithArgs(testRequestID, testLibraryID, models.AdmissionStatusPending).
		WillReturnRows(sqlmock.NewRows(lockedRequestColumns))
	mock.ExpectRollback()

	student, err := svc.AcceptAdmission(testLibraryID, testRequestID, testActorID)
	assert.ErrorIs(t, err, ErrAdmissionNotFound)
	assert.Nil(t, student)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAcceptAdmission_NoSeatOrLockerRequested(t *testing.T) {
	svc, mock := newAdmissionServiceForTest(t)

	now := time.Now()
	row := []driver.Value{
		testRequestID, testLibraryID, "Bare Request", testPhone, nil, nil, nil,
		nil, nil, nil, now, now.AddDate(0, 6, 0),
		800.0, 800.0, 0.0, 800.0, 0.0, 0.0,
		0.0, nil, []byte("{}"), nil, nil, "pending", now, now,
	}

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT (.+) FROM admission_requests(.+)FOR UPDATE").
		WithArgs(testRequestID, testLibraryID, models.AdmissionStatusPending).
		WillReturnRows(sqlmock.NewRows(lockedRequestColumns).AddRow(row...))
	mock.ExpectQuery("SELECT COUNT\\(\\*\\) FROM students").
		WithArgs(testLibraryID, testPhone).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))
	mock.ExpectQuery("INSERT INTO students").
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(80))
	// No seat assignments, no locker update; history has a NULL primary shift.
	mock.ExpectQuery("INSERT INTO membership_history").
		WithArgs(testLibraryID, int64(80), nil, nil, nil,
			sqlmock.AnyArg(), sqlmock.AnyArg(), 800.0, 800.0, 0.0, 0.0, 0.0, sqlmock.AnyArg()).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(1))
	mock.ExpectQuery("SELECT COUNT\\(\\*\\) FROM student_accounts").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1)) // Account already exists
	mock.ExpectExec("UPDATE admission_requests").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	student, err := svc.AcceptAdmission(testLibraryID, testRequestID, testActorID)
	require.NoError(t, err)
	assert.Equal(t, int64(80), student.ID)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAcceptAdmission_LockerFailureAbortsConversion(t *testing.T) {
	svc, mock := newAdmissionServiceForTest(t)

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT (.+) FROM admission_requests(.+)FOR UPDATE").
		WithArgs(testRequestID, testLibraryID, models.AdmissionStatusPending).
		WillReturnRows(sqlmock.NewRows(lockedRequestColumns).AddRow(lockedRequestRow(time.Now().AddDate(1, 0, 0))...))
	mock.ExpectQuery("SELECT COUNT\\(\\*\\) FROM students").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))
	mock.ExpectQuery("INSERT INTO students").
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(81))
	mock.ExpectQuery("INSERT INTO seat_assignments").
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(1))
	mock.ExpectQuery("INSERT INTO seat_assignments").
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(2))
	// Locker row vanished from this tenant: the whole conversion aborts.
	mock.ExpectExec("UPDATE lockers").
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectRollback()

	student, err := svc.AcceptAdmission(testLibraryID, testRequestID, testActorID)
	assert.Error(t, err)
	assert.Nil(t, student)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRejectAdmission(t *testing.T) {
	svc, mock := newAdmissionServiceForTest(t)

	t.Run("SecondRejectFails", func(t *testing.T) {
		mock.ExpectExec("UPDATE admission_requests").
			WithArgs(models.AdmissionStatusRejected, sqlmock.AnyArg(), testActorID, nil, testRequestID, testLibraryID, models.AdmissionStatusPending).
			WillReturnResult(sqlmock.NewResult(0, 0))

		req, err := svc.RejectAdmission(testLibraryID, testRequestID, testActorID, nil)
		assert.ErrorIs(t, err, ErrAdmissionNotFound)
		assert.Nil(t, req)
	})

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetAdmissionStats_PassesThrough(t *testing.T) {
	svc, mock := newAdmissionServiceForTest(t)

	rows := sqlmock.NewRows([]string{"status", "count"}).
		AddRow("pending", 4)
	mock.ExpectQuery("SELECT status, COUNT\\(\\*\\) FROM admission_requests").
		WithArgs(testLibraryID).
		WillReturnRows(rows)

	stats, err := svc.GetAdmissionStats(testLibraryID)
	require.NoError(t, err)
	assert.Equal(t, 4, stats.Pending)
	assert.Equal(t, 0, stats.Rejected)
	assert.Equal(t, 4, stats.Total)

	assert.NoError(t, mock.ExpectationsWereMet())
}
