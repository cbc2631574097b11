package repositories

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"library_crm_backend/internal/models"

	"github.com/lib/pq"
)

// AccountRepository manages student self-service login accounts.
// (library_id, phone) is unique at the storage layer; the application-level
// existence check is a fast path, not the enforcement.
type AccountRepository interface {
	AccountExists(executor SQLExecutor, libraryID int64, phone string) (bool, error)
	CreateStudentAccount(executor SQLExecutor, account *models.StudentAccount) (int64, error)
}

type accountRepository struct {
	db *sql.DB
}

// NewAccountRepository creates a new instance of AccountRepository.
func NewAccountRepository(db *sql.DB) AccountRepository {
	return &accountRepository{db: db}
}

func (r *accountRepository) AccountExists(executor SQLExecutor, libraryID int64, phone string) (bool, error) {
	var count int
	query := `SELECT COUNT(*) FROM student_accounts WHERE library_id = $1 AND phone = $2`
	if err := executor.QueryRow(query, libraryID, phone).Scan(&count); err != nil {
		return false, fmt.Errorf("%w: checking student account: %v", ErrDatabaseError, err)
	}
	return count > 0, nil
}

func (r *accountRepository) CreateStudentAccount(executor SQLExecutor, account *models.StudentAccount) (int64, error) {
	query := `INSERT INTO student_accounts
	            (library_id, student_id, phone, password_hash, name, registration_number, created_at)
	          VALUES ($1, $2, $3, $4, $5, $6, $7)
	          RETURNING id`

	account.CreatedAt = time.Now()
	err := executor.QueryRow(query,
		account.LibraryID, account.StudentID, account.Phone, account.PasswordHash,
		account.Name, account.RegistrationNumber, account.CreatedAt,
	).Scan(&account.ID)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) {
			if pqErr.Code.Name() == "unique_violation" {
				return 0, fmt.Errorf("%w: %s (constraint: %s)", ErrDuplicateKey, pqErr.Message, pqErr.Constraint)
			}
		}
		return 0, fmt.Errorf("%w: creating student account: %v", ErrDatabaseError, err)
	}
	return account.ID, nil
}
