package repositories

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"library_crm_backend/internal/models"

	"github.com/lib/pq"
)

// AdmissionRepository defines the interface for admission-request database
// operations. Every method is scoped by library id; a row belonging to a
// different library behaves exactly as if it did not exist.
type AdmissionRepository interface {
	GetAdmissionRequests(libraryID int64, filters models.AdmissionFilters) ([]models.AdmissionRequest, int, error)
	GetAdmissionRequestByID(libraryID, id int64) (*models.AdmissionRequest, error)
	// LockPendingRequest claims the request row with SELECT ... FOR UPDATE,
	// guarded by status = 'pending'. It must be the first statement of the
	// conversion transaction so concurrent accepts serialize on the row lock.
	LockPendingRequest(executor SQLExecutor, libraryID, id int64) (*models.AdmissionRequest, error)
	// MarkProcessed flips a pending request to a terminal status, stamping
	// processed_at/processed_by. RowsAffected of zero means the request was
	// not pending (or not in this library) and maps to ErrNotFound.
	MarkProcessed(executor SQLExecutor, libraryID, id, actorID int64, status models.AdmissionStatus, rejectionReason *string) error
	GetStatusCounts(libraryID int64) (*models.AdmissionStats, error)
}

type admissionRepository struct {
	db *sql.DB
}

// NewAdmissionRepository creates a new instance of AdmissionRepository.
func NewAdmissionRepository(db *sql.DB) AdmissionRepository {
	return &admissionRepository{db: db}
}

const selectAdmissionFields = `
	ar.id, ar.library_id, ar.name, ar.phone, ar.address, ar.guardian_name, ar.id_proof_number,
	ar.profile_image, ar.id_proof_image, ar.branch_id, ar.membership_start, ar.membership_end,
	COALESCE(ar.total_fee, 0), COALESCE(ar.paid_amount, 0), COALESCE(ar.due_amount, 0),
	COALESCE(ar.cash_amount, 0), COALESCE(ar.online_amount, 0), COALESCE(ar.security_deposit, 0),
	COALESCE(ar.discount, 0), ar.seat_id, ar.shift_ids, ar.locker_id, ar.remark, ar.status,
	ar.created_at, ar.updated_at, ar.processed_at, ar.processed_by, ar.rejection_reason,
	b.name, s.seat_number, l.locker_number, u.full_name
`

const admissionJoins = `
	FROM admission_requests ar
	LEFT JOIN branches b ON ar.branch_id = b.id AND b.library_id = ar.library_id
	LEFT JOIN seats s ON ar.seat_id = s.id AND s.library_id = ar.library_id
	LEFT JOIN lockers l ON ar.locker_id = l.id AND l.library_id = ar.library_id
	LEFT JOIN users u ON ar.processed_by = u.id
`

// scanAdmissionRow scans one admission request row with its denormalized join
// columns. Used by GetAdmissionRequestByID and GetAdmissionRequests.
func scanAdmissionRow(row scanner, isList bool) (*models.AdmissionRequest, int, error) {
	var req models.AdmissionRequest
	var shiftIDs pq.Int64Array
	var branchName, seatNumber, lockerNumber, processedByName sql.NullString
	var totalCount int

	scanDest := []interface{}{
		&req.ID, &req.LibraryID, &req.Name, &req.Phone, &req.Address, &req.GuardianName, &req.IDProofNumber,
		&req.ProfileImage, &req.IDProofImage, &req.BranchID, &req.MembershipStart, &req.MembershipEnd,
		&req.TotalFee, &req.PaidAmount, &req.DueAmount,
		&req.CashAmount, &req.OnlineAmount, &req.SecurityDeposit,
		&req.Discount, &req.SeatID, &shiftIDs, &req.LockerID, &req.Remark, &req.Status,
		&req.CreatedAt, &req.UpdatedAt, &req.ProcessedAt, &req.ProcessedBy, &req.RejectionReason,
		&branchName, &seatNumber, &lockerNumber, &processedByName,
	}
	if isList {
		scanDest = append(scanDest, &totalCount)
	}

	if err := row.Scan(scanDest...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, 0, ErrNotFound
		}
		return nil, 0, fmt.Errorf("%w: scanning admission request: %v", ErrDatabaseError, err)
	}

	req.ShiftIDs = []int64(shiftIDs)
	if req.ShiftIDs == nil {
		req.ShiftIDs = []int64{}
	}
	if branchName.Valid {
		req.BranchName = &branchName.String
	}
	if seatNumber.Valid {
		req.SeatNumber = &seatNumber.String
	}
	if lockerNumber.Valid {
		req.LockerNumber = &lockerNumber.String
	}
	if processedByName.Valid {
		req.ProcessedByName = &processedByName.String
	}
	return &req, totalCount, nil
}

func (r *admissionRepository) GetAdmissionRequests(libraryID int64, filters models.AdmissionFilters) ([]models.AdmissionRequest, int, error) {
	requests := []models.AdmissionRequest{}
	var totalCount int

	var queryBuilder strings.Builder
	queryBuilder.WriteString("SELECT " + selectAdmissionFields + ", COUNT(*) OVER() AS total_count " + admissionJoins)
	queryBuilder.WriteString(" WHERE ar.library_id = $1")

	args := []interface{}{libraryID}
	argCount := 2

	if filters.Status != nil && *filters.Status != "" && *filters.Status != "all" {
		queryBuilder.WriteString(fmt.Sprintf(" AND ar.status = $%d", argCount))
		args = append(args, *filters.Status)
		argCount++
	}
	queryBuilder.WriteString(" ORDER BY ar.created_at DESC")

	if filters.PageSize > 0 {
		queryBuilder.WriteString(fmt.Sprintf(" LIMIT $%d", argCount))
		args = append(args, filters.PageSize)
		argCount++
		if filters.Page > 0 {
			offset := (filters.Page - 1) * filters.PageSize
			queryBuilder.WriteString(fmt.Sprintf(" OFFSET $%d", argCount))
			args = append(args, offset)
		}
	}

	rows, err := r.db.Query(queryBuilder.String(), args...)
	if err != nil {
		return nil, 0, fmt.Errorf("%w: querying admission requests: %v", ErrDatabaseError, err)
	}
	defer rows.Close()

	for rows.Next() {
		req, scannedTotal, scanErr := scanAdmissionRow(rows, true)
		if scanErr != nil {
			return nil, 0, scanErr
		}
		requests = append(requests, *req)
		totalCount = scannedTotal // total_count is the same for all rows from OVER()
	}
	if err = rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("%w: iterating admission request rows: %v", ErrDatabaseError, err)
	}
	if len(requests) == 0 {
		totalCount = 0
	}
	return requests, totalCount, nil
}

func (r *admissionRepository) GetAdmissionRequestByID(libraryID, id int64) (*models.AdmissionRequest, error) {
	query := "SELECT " + selectAdmissionFields + admissionJoins + " WHERE ar.id = $1 AND ar.library_id = $2"
	req, _, err := scanAdmissionRow(r.db.QueryRow(query, id, libraryID), false)
	return req, err
}

func (r *admissionRepository) LockPendingRequest(executor SQLExecutor, libraryID, id int64) (*models.AdmissionRequest, error) {
	query := `SELECT id, library_id, name, phone, address, guardian_name, id_proof_number,
	            profile_image, id_proof_image, branch_id, membership_start, membership_end,
	            COALESCE(total_fee, 0), COALESCE(paid_amount, 0), COALESCE(due_amount, 0),
	            COALESCE(cash_amount, 0), COALESCE(online_amount, 0), COALESCE(security_deposit, 0),
	            COALESCE(discount, 0), seat_id, shift_ids, locker_id, remark, status, created_at, updated_at
	          FROM admission_requests
	          WHERE id = $1 AND library_id = $2 AND status = $3
	          FOR UPDATE`

	var req models.AdmissionRequest
	var shiftIDs pq.Int64Array
	err := executor.QueryRow(query, id, libraryID, models.AdmissionStatusPending).Scan(
		&req.ID, &req.LibraryID, &req.Name, &req.Phone, &req.Address, &req.GuardianName, &req.IDProofNumber,
		&req.ProfileImage, &req.IDProofImage, &req.BranchID, &req.MembershipStart, &req.MembershipEnd,
		&req.TotalFee, &req.PaidAmount, &req.DueAmount,
		&req.CashAmount, &req.OnlineAmount, &req.SecurityDeposit,
		&req.Discount, &req.SeatID, &shiftIDs, &req.LockerID, &req.Remark, &req.Status,
		&req.CreatedAt, &req.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("%w: locking pending admission request ID %d: %v", ErrDatabaseError, id, err)
	}
	req.ShiftIDs = []int64(shiftIDs)
	if req.ShiftIDs == nil {
		req.ShiftIDs = []int64{}
	}
	return &req, nil
}

func (r *admissionRepository) MarkProcessed(executor SQLExecutor, libraryID, id, actorID int64, status models.AdmissionStatus, rejectionReason *string) error {
	query := `UPDATE admission_requests
	          SET status = $1, processed_at = $2, processed_by = $3, rejection_reason = $4, updated_at = $2
	          WHERE id = $5 AND library_id = $6 AND status = $7`

	result, err := executor.Exec(query, status, time.Now(), actorID, rejectionReason, id, libraryID, models.AdmissionStatusPending)
	if err != nil {
		return fmt.Errorf("%w: marking admission request ID %d as %s: %v", ErrDatabaseError, id, status, err)
	}
	rowsAffected, _ := result.RowsAffected()
	if rowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *admissionRepository) GetStatusCounts(libraryID int64) (*models.AdmissionStats, error) {
	query := `SELECT status, COUNT(*) FROM admission_requests WHERE library_id = $1 GROUP BY status`

	rows, err := r.db.Query(query, libraryID)
	if err != nil {
		return nil, fmt.Errorf("%w: querying admission status counts: %v", ErrDatabaseError, err)
	}
	defer rows.Close()

	stats := &models.AdmissionStats{}
	for rows.Next() {
		var status string
		var count int
		if err := rows.Scan(&status, &count); err != nil {
			return nil, fmt.Errorf("%w: scanning admission status count: %v", ErrDatabaseError, err)
		}
		switch models.AdmissionStatus(status) {
		case models.AdmissionStatusPending:
			stats.Pending = count
		case models.AdmissionStatusAccepted:
			stats.Accepted = count
		case models.AdmissionStatusRejected:
			stats.Rejected = count
		}
		stats.Total += count
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: iterating admission status counts: %v", ErrDatabaseError, err)
	}
	return stats, nil
}
