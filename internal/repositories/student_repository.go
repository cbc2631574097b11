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

// StudentRepository defines the interface for student-related database operations.
type StudentRepository interface {
	CreateStudent(executor SQLExecutor, student *models.Student) (int64, error)
	// PhoneExists reports whether any student in the library already carries
	// the given contact phone. Called inside the conversion transaction.
	PhoneExists(executor SQLExecutor, libraryID int64, phone string) (bool, error)
	GetStudentByID(libraryID, id int64) (*models.Student, error)
	GetStudents(libraryID int64, filters models.StudentFilters) ([]models.Student, int, error)
}

type studentRepository struct {
	db *sql.DB
}

// NewStudentRepository creates a new instance of StudentRepository.
func NewStudentRepository(db *sql.DB) StudentRepository {
	return &studentRepository{db: db}
}

func (r *studentRepository) CreateStudent(executor SQLExecutor, student *models.Student) (int64, error) {
	query := `INSERT INTO students
	            (library_id, registration_number, name, phone, address, guardian_name, id_proof_number,
	             profile_image, id_proof_image, branch_id, membership_start, membership_end,
	             total_fee, paid_amount, due_amount, cash_amount, online_amount, security_deposit, discount,
	             status, is_active, created_at, updated_at)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20, $21, $22, $23)
	          RETURNING id`

	currentTime := time.Now()
	student.CreatedAt = currentTime
	student.UpdatedAt = currentTime

	err := executor.QueryRow(query,
		student.LibraryID, student.RegistrationNumber, student.Name, student.Phone, student.Address,
		student.GuardianName, student.IDProofNumber, student.ProfileImage, student.IDProofImage,
		student.BranchID, student.MembershipStart, student.MembershipEnd,
		student.TotalFee, student.PaidAmount, student.DueAmount, student.CashAmount,
		student.OnlineAmount, student.SecurityDeposit, student.Discount,
		student.Status, student.IsActive, student.CreatedAt, student.UpdatedAt,
	).Scan(&student.ID)

	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) {
			if pqErr.Code.Name() == "unique_violation" {
				return 0, fmt.Errorf("%w: %s (constraint: %s)", ErrDuplicateKey, pqErr.Message, pqErr.Constraint)
			}
		}
		return 0, fmt.Errorf("%w: creating student: %v", ErrDatabaseError, err)
	}
	return student.ID, nil
}

func (r *studentRepository) PhoneExists(executor SQLExecutor, libraryID int64, phone string) (bool, error) {
	var count int
	query := `SELECT COUNT(*) FROM students WHERE library_id = $1 AND phone = $2`
	if err := executor.QueryRow(query, libraryID, phone).Scan(&count); err != nil {
		return false, fmt.Errorf("%w: checking student phone: %v", ErrDatabaseError, err)
	}
	return count > 0, nil
}

const selectStudentFields = `
	st.id, st.library_id, st.registration_number, st.name, st.phone, st.address, st.guardian_name,
	st.id_proof_number, st.profile_image, st.id_proof_image, st.branch_id, st.membership_start,
	st.membership_end, COALESCE(st.total_fee, 0), COALESCE(st.paid_amount, 0), COALESCE(st.due_amount, 0),
	COALESCE(st.cash_amount, 0), COALESCE(st.online_amount, 0), COALESCE(st.security_deposit, 0),
	COALESCE(st.discount, 0), st.status, st.is_active, st.created_at, st.updated_at, b.name
`

const studentJoins = `
	FROM students st
	LEFT JOIN branches b ON st.branch_id = b.id AND b.library_id = st.library_id
`

func scanStudentRow(row scanner, isList bool) (*models.Student, int, error) {
	var student models.Student
	var branchName sql.NullString
	var totalCount int

	scanDest := []interface{}{
		&student.ID, &student.LibraryID, &student.RegistrationNumber, &student.Name, &student.Phone,
		&student.Address, &student.GuardianName, &student.IDProofNumber, &student.ProfileImage,
		&student.IDProofImage, &student.BranchID, &student.MembershipStart, &student.MembershipEnd,
		&student.TotalFee, &student.PaidAmount, &student.DueAmount, &student.CashAmount,
		&student.OnlineAmount, &student.SecurityDeposit, &student.Discount,
		&student.Status, &student.IsActive, &student.CreatedAt, &student.UpdatedAt, &branchName,
	}
	if isList {
		scanDest = append(scanDest, &totalCount)
	}

	if err := row.Scan(scanDest...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, 0, ErrNotFound
		}
		return nil, 0, fmt.Errorf("%w: scanning student: %v", ErrDatabaseError, err)
	}
	if branchName.Valid {
		student.BranchName = &branchName.String
	}
	return &student, totalCount, nil
}

func (r *studentRepository) GetStudentByID(libraryID, id int64) (*models.Student, error) {
	query := "SELECT " + selectStudentFields + studentJoins + " WHERE st.id = $1 AND st.library_id = $2"
	student, _, err := scanStudentRow(r.db.QueryRow(query, id, libraryID), false)
	return student, err
}

func (r *studentRepository) GetStudents(libraryID int64, filters models.StudentFilters) ([]models.Student, int, error) {
	students := []models.Student{}
	var totalCount int

	var queryBuilder strings.Builder
	queryBuilder.WriteString("SELECT " + selectStudentFields + ", COUNT(*) OVER() AS total_count " + studentJoins)
	queryBuilder.WriteString(" WHERE st.library_id = $1")

	args := []interface{}{libraryID}
	argCount := 2

	if filters.Search != nil && *filters.Search != "" {
		queryBuilder.WriteString(fmt.Sprintf(" AND (st.name ILIKE $%d OR st.phone ILIKE $%d)", argCount, argCount))
		args = append(args, "%"+*filters.Search+"%")
		argCount++
	}
	if filters.Status != nil && *filters.Status != "" && *filters.Status != "all" {
		queryBuilder.WriteString(fmt.Sprintf(" AND st.status = $%d", argCount))
		args = append(args, *filters.Status)
		argCount++
	}
	queryBuilder.WriteString(" ORDER BY st.created_at DESC")

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
		return nil, 0, fmt.Errorf("%w: querying students: %v", ErrDatabaseError, err)
	}
	defer rows.Close()

	for rows.Next() {
		student, scannedTotal, scanErr := scanStudentRow(rows, true)
		if scanErr != nil {
			return nil, 0, scanErr
		}
		students = append(students, *student)
		totalCount = scannedTotal
	}
	if err = rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("%w: iterating student rows: %v", ErrDatabaseError, err)
	}
	if len(students) == 0 {
		totalCount = 0
	}
	return students, totalCount, nil
}
