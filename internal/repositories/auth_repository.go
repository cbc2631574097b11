package repositories

import (
	"database/sql"
	"errors"
	"fmt"

	"library_crm_backend/internal/models"
)

// AuthRepository looks up staff/owner logins for authentication.
type AuthRepository interface {
	GetUserByUsername(username string) (*models.User, error)
	GetUserByID(id int64) (*models.User, error)
}

type authRepository struct {
	db *sql.DB
}

// NewAuthRepository creates a new instance of AuthRepository.
func NewAuthRepository(db *sql.DB) AuthRepository {
	return &authRepository{db: db}
}

const selectUserFields = `id, library_id, username, password_hash, full_name, role, is_active, created_at, updated_at`

func scanUser(row scanner) (*models.User, error) {
	var user models.User
	err := row.Scan(
		&user.ID, &user.LibraryID, &user.Username, &user.PasswordHash,
		&user.FullName, &user.Role, &user.IsActive, &user.CreatedAt, &user.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("%w: scanning user: %v", ErrDatabaseError, err)
	}
	return &user, nil
}

func (r *authRepository) GetUserByUsername(username string) (*models.User, error) {
	query := "SELECT " + selectUserFields + " FROM users WHERE username = $1"
	return scanUser(r.db.QueryRow(query, username))
}

func (r *authRepository) GetUserByID(id int64) (*models.User, error) {
	query := "SELECT " + selectUserFields + " FROM users WHERE id = $1"
	return scanUser(r.db.QueryRow(query, id))
}
