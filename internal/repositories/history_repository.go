package repositories

import (
	"database/sql"
	"fmt"
	"time"

	"library_crm_backend/internal/models"
)

// HistoryRepository appends membership-history snapshots. Rows are insert-only;
// no update or delete method exists on purpose.
type HistoryRepository interface {
	CreateMembershipHistory(executor SQLExecutor, record *models.MembershipHistory) (int64, error)
}

type historyRepository struct {
	db *sql.DB
}

// NewHistoryRepository creates a new instance of HistoryRepository.
func NewHistoryRepository(db *sql.DB) HistoryRepository {
	return &historyRepository{db: db}
}

func (r *historyRepository) CreateMembershipHistory(executor SQLExecutor, record *models.MembershipHistory) (int64, error) {
	query := `INSERT INTO membership_history
	            (library_id, student_id, branch_id, seat_id, shift_id, membership_start, membership_end,
	             total_fee, paid_amount, due_amount, security_deposit, discount, changed_at)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
	          RETURNING id`

	if record.ChangedAt.IsZero() {
		record.ChangedAt = time.Now()
	}

	err := executor.QueryRow(query,
		record.LibraryID, record.StudentID, record.BranchID, record.SeatID, record.ShiftID,
		record.MembershipStart, record.MembershipEnd,
		record.TotalFee, record.PaidAmount, record.DueAmount, record.SecurityDeposit, record.Discount,
		record.ChangedAt,
	).Scan(&record.ID)
	if err != nil {
		return 0, fmt.Errorf("%w: creating membership history record: %v", ErrDatabaseError, err)
	}
	return record.ID, nil
}
