package services

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"library_crm_backend/internal/models"
	"library_crm_backend/internal/repositories"
	"library_crm_backend/pkg/utils"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// --- Custom Service Errors for Admission ---
var (
	ErrAdmissionNotFound     = errors.New("no pending admission request found")
	ErrDuplicateStudentPhone = errors.New("a student with this phone number already exists")
	ErrAdmissionValidation   = errors.New("admission data validation error")
)

// --- Admission DTOs ---
type RejectAdmissionRequest struct {
	Reason *string `json:"reason"`
}

// --- AdmissionService Interface ---
type AdmissionService interface {
	GetAdmissionRequests(libraryID int64, filters models.AdmissionFilters) ([]models.AdmissionRequest, int, error)
	GetAdmissionRequestByID(libraryID, requestID int64) (*models.AdmissionRequest, error)
	AcceptAdmission(libraryID, requestID, actorID int64) (*models.Student, error)
	RejectAdmission(libraryID, requestID, actorID int64, reason *string) (*models.AdmissionRequest, error)
	GetAdmissionStats(libraryID int64) (*models.AdmissionStats, error)
}

// --- admissionService Implementation ---
type admissionService struct {
	admissionRepo repositories.AdmissionRepository
	studentRepo   repositories.StudentRepository
	resourceRepo  repositories.ResourceRepository
	historyRepo   repositories.HistoryRepository
	accountRepo   repositories.AccountRepository
	db            *sql.DB // For managing the conversion transaction
}

// NewAdmissionService creates a new instance of AdmissionService.
func NewAdmissionService(
	ar repositories.AdmissionRepository,
	sr repositories.StudentRepository,
	rr repositories.ResourceRepository,
	hr repositories.HistoryRepository,
	acr repositories.AccountRepository,
	db *sql.DB,
) AdmissionService {
	return &admissionService{
		admissionRepo: ar,
		studentRepo:   sr,
		resourceRepo:  rr,
		historyRepo:   hr,
		accountRepo:   acr,
		db:            db,
	}
}

func (s *admissionService) GetAdmissionRequests(libraryID int64, filters models.AdmissionFilters) ([]models.AdmissionRequest, int, error) {
	if filters.Page <= 0 {
		filters.Page = 1
	}
	if filters.PageSize <= 0 {
		filters.PageSize = 20
	}

	requests, totalCount, err := s.admissionRepo.GetAdmissionRequests(libraryID, filters)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to get admission requests: %w", err)
	}
	return requests, totalCount, nil
}

func (s *admissionService) GetAdmissionRequestByID(libraryID, requestID int64) (*models.AdmissionRequest, error) {
	req, err := s.admissionRepo.GetAdmissionRequestByID(libraryID, requestID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrAdmissionNotFound
		}
		return nil, fmt.Errorf("failed to get admission request by ID: %w", err)
	}

	if len(req.ShiftIDs) > 0 {
		shifts, err := s.resourceRepo.GetShiftsByIDs(libraryID, req.ShiftIDs)
		if err != nil {
			return nil, fmt.Errorf("failed to resolve shifts for admission request: %w", err)
		}
		req.Shifts = shifts
	}
	return req, nil
}

// AcceptAdmission converts a pending admission request into a fully provisioned
// student inside one database transaction: student row, one seat assignment per
// requested shift, locker binding, membership-history snapshot, self-service
// account, and the status flip on the request itself. Any failure rolls back
// every effect and leaves the request pending.
func (s *admissionService) AcceptAdmission(libraryID, requestID, actorID int64) (*models.Student, error) {
	tx, err := s.db.Begin()
	if err != nil {
		return nil, fmt.Errorf("failed to start database transaction: %w", err)
	}
	defer tx.Rollback()

	// Claim the request row first. The FOR UPDATE + status guard serializes
	// concurrent accepts of the same request: the loser blocks here and then
	// sees no pending row.
	req, err := s.admissionRepo.LockPendingRequest(tx, libraryID, requestID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrAdmissionNotFound
		}
		return nil, fmt.Errorf("failed to claim admission request: %w", err)
	}

	if req.Phone != nil && strings.TrimSpace(*req.Phone) != "" {
		exists, err := s.studentRepo.PhoneExists(tx, libraryID, *req.Phone)
		if err != nil {
			return nil, fmt.Errorf("failed to check for duplicate student phone: %w", err)
		}
		if exists {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateStudentPhone, *req.Phone)
		}
	}

	status := models.StudentStatusActive
	if req.MembershipEnd != nil && req.MembershipEnd.Before(time.Now()) {
		status = models.StudentStatusExpired
	}

	student := &models.Student{
		LibraryID:          libraryID,
		RegistrationNumber: newRegistrationNumber(),
		Name:               req.Name,
		Phone:              req.Phone,
		Address:            req.Address,
		GuardianName:       req.GuardianName,
		IDProofNumber:      req.IDProofNumber,
		ProfileImage:       req.ProfileImage,
		IDProofImage:       req.IDProofImage,
		BranchID:           req.BranchID,
		MembershipStart:    req.MembershipStart,
		MembershipEnd:      req.MembershipEnd,
		TotalFee:           req.TotalFee,
		PaidAmount:         req.PaidAmount,
		DueAmount:          req.DueAmount,
		CashAmount:         req.CashAmount,
		OnlineAmount:       req.OnlineAmount,
		SecurityDeposit:    req.SecurityDeposit,
		Discount:           req.Discount,
		Status:             status,
		IsActive:           true,
	}
	if _, err := s.studentRepo.CreateStudent(tx, student); err != nil {
		return nil, fmt.Errorf("failed to create student from admission request: %w", err)
	}

	// Resource allocation. Seat and locker ids on the request come from the
	// intake flow and are not re-validated for availability here.
	var primaryShiftID *int64
	if req.SeatID != nil && len(req.ShiftIDs) > 0 {
		for _, shiftID := range req.ShiftIDs {
			assignment := &models.SeatAssignment{
				LibraryID: libraryID,
				SeatID:    *req.SeatID,
				ShiftID:   shiftID,
				StudentID: student.ID,
			}
			if _, err := s.resourceRepo.CreateSeatAssignment(tx, assignment); err != nil {
				return nil, fmt.Errorf("failed to create seat assignment for shift %d: %w", shiftID, err)
			}
		}
		first := req.ShiftIDs[0]
		primaryShiftID = &first
	}

	if req.LockerID != nil {
		if err := s.resourceRepo.AssignLocker(tx, libraryID, *req.LockerID, student.ID); err != nil {
			return nil, fmt.Errorf("failed to assign locker %d: %w", *req.LockerID, err)
		}
	}

	history := &models.MembershipHistory{
		LibraryID:       libraryID,
		StudentID:       student.ID,
		BranchID:        req.BranchID,
		SeatID:          req.SeatID,
		ShiftID:         primaryShiftID,
		MembershipStart: req.MembershipStart,
		MembershipEnd:   req.MembershipEnd,
		TotalFee:        req.TotalFee,
		PaidAmount:      req.PaidAmount,
		DueAmount:       req.DueAmount,
		SecurityDeposit: req.SecurityDeposit,
		Discount:        req.Discount,
	}
	if _, err := s.historyRepo.CreateMembershipHistory(tx, history); err != nil {
		return nil, fmt.Errorf("failed to record membership history: %w", err)
	}

	if req.Phone != nil && strings.TrimSpace(*req.Phone) != "" {
		exists, err := s.accountRepo.AccountExists(tx, libraryID, *req.Phone)
		if err != nil {
			return nil, fmt.Errorf("failed to check for existing student account: %w", err)
		}
		if !exists {
			// The initial password is the phone number itself; students are
			// expected to change it after first login.
			hash, err := bcrypt.GenerateFromPassword([]byte(*req.Phone), bcrypt.DefaultCost)
			if err != nil {
				return nil, fmt.Errorf("failed to hash initial account password: %w", err)
			}
			account := &models.StudentAccount{
				LibraryID:          libraryID,
				StudentID:          student.ID,
				Phone:              *req.Phone,
				PasswordHash:       string(hash),
				Name:               student.Name,
				RegistrationNumber: student.RegistrationNumber,
			}
			if _, err := s.accountRepo.CreateStudentAccount(tx, account); err != nil {
				return nil, fmt.Errorf("failed to create student account: %w", err)
			}
		}
	}

	if err := s.admissionRepo.MarkProcessed(tx, libraryID, requestID, actorID, models.AdmissionStatusAccepted, nil); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrAdmissionNotFound
		}
		return nil, fmt.Errorf("failed to mark admission request as accepted: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit admission conversion: %w", err)
	}
	return student, nil
}

func (s *admissionService) RejectAdmission(libraryID, requestID, actorID int64, reason *string) (*models.AdmissionRequest, error) {
	// A blank reason is stored as NULL, not an empty string.
	if reason != nil {
		reason = utils.NewNullString(strings.TrimSpace(*reason))
	}
	err := s.admissionRepo.MarkProcessed(s.db, libraryID, requestID, actorID, models.AdmissionStatusRejected, reason)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrAdmissionNotFound
		}
		return nil, fmt.Errorf("failed to reject admission request: %w", err)
	}

	req, err := s.admissionRepo.GetAdmissionRequestByID(libraryID, requestID)
	if err != nil {
		return nil, fmt.Errorf("failed to load rejected admission request: %w", err)
	}
	return req, nil
}

func (s *admissionService) GetAdmissionStats(libraryID int64) (*models.AdmissionStats, error) {
	stats, err := s.admissionRepo.GetStatusCounts(libraryID)
	if err != nil {
		return nil, fmt.Errorf("failed to get admission stats: %w", err)
	}
	return stats, nil
}

// newRegistrationNumber generates a short unique registration number for a
// newly converted student.
func newRegistrationNumber() string {
	return "REG-" + strings.ToUpper(uuid.NewString()[:8])
}
