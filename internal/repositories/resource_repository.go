package repositories

import (
	"database/sql"
	"fmt"
	"time"

	"library_crm_backend/internal/models"

	"github.com/lib/pq"
)

// ResourceRepository covers the physical resources allocated during admission
// conversion: seat assignments, lockers and shift reference data.
type ResourceRepository interface {
	CreateSeatAssignment(executor SQLExecutor, assignment *models.SeatAssignment) (int64, error)
	// AssignLocker marks the locker occupied and binds it to the student.
	// The update is tenant-scoped; a locker id from another library maps to
	// ErrNotFound.
	AssignLocker(executor SQLExecutor, libraryID, lockerID, studentID int64) error
	GetShiftsByIDs(libraryID int64, shiftIDs []int64) ([]models.Shift, error)
}

type resourceRepository struct {
	db *sql.DB
}

// NewResourceRepository creates a new instance of ResourceRepository.
func NewResourceRepository(db *sql.DB) ResourceRepository {
	return &resourceRepository{db: db}
}

func (r *resourceRepository) CreateSeatAssignment(executor SQLExecutor, assignment *models.SeatAssignment) (int64, error) {
	query := `INSERT INTO seat_assignments (library_id, seat_id, shift_id, student_id, created_at)
	          VALUES ($1, $2, $3, $4, $5)
	          RETURNING id`

	assignment.CreatedAt = time.Now()
	err := executor.QueryRow(query,
		assignment.LibraryID, assignment.SeatID, assignment.ShiftID, assignment.StudentID, assignment.CreatedAt,
	).Scan(&assignment.ID)
	if err != nil {
		return 0, fmt.Errorf("%w: creating seat assignment: %v", ErrDatabaseError, err)
	}
	return assignment.ID, nil
}

func (r *resourceRepository) AssignLocker(executor SQLExecutor, libraryID, lockerID, studentID int64) error {
	query := `UPDATE lockers SET is_assigned = true, student_id = $1, updated_at = $2
	          WHERE id = $3 AND library_id = $4`

	result, err := executor.Exec(query, studentID, time.Now(), lockerID, libraryID)
	if err != nil {
		return fmt.Errorf("%w: assigning locker ID %d: %v", ErrDatabaseError, lockerID, err)
	}
	rowsAffected, _ := result.RowsAffected()
	if rowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *resourceRepository) GetShiftsByIDs(libraryID int64, shiftIDs []int64) ([]models.Shift, error) {
	if len(shiftIDs) == 0 {
		return []models.Shift{}, nil
	}

	query := `SELECT id, library_id, title, description, start_time, end_time, created_at, updated_at
	          FROM shifts WHERE library_id = $1 AND id = ANY($2)`

	rows, err := r.db.Query(query, libraryID, pq.Array(shiftIDs))
	if err != nil {
		return nil, fmt.Errorf("%w: querying shifts: %v", ErrDatabaseError, err)
	}
	defer rows.Close()

	byID := make(map[int64]models.Shift, len(shiftIDs))
	for rows.Next() {
		var shift models.Shift
		if err := rows.Scan(
			&shift.ID, &shift.LibraryID, &shift.Title, &shift.Description,
			&shift.StartTime, &shift.EndTime, &shift.CreatedAt, &shift.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("%w: scanning shift: %v", ErrDatabaseError, err)
		}
		byID[shift.ID] = shift
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: iterating shift rows: %v", ErrDatabaseError, err)
	}

	// Preserve the order of the request's shift-id list; ids with no matching
	// shift in this library are skipped.
	shifts := make([]models.Shift, 0, len(byID))
	for _, id := range shiftIDs {
		if shift, ok := byID[id]; ok {
			shifts = append(shifts, shift)
		}
	}
	return shifts, nil
}
