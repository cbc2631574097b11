package services

import (
	"errors"
	"fmt"

	"library_crm_backend/internal/models"
	"library_crm_backend/internal/repositories"
)

var (
	ErrStudentNotFound = errors.New("student not found")
)

// StudentService exposes the read side for converted students. Students are
// only ever created by the admission conversion; there is no create here.
type StudentService interface {
	GetStudents(libraryID int64, filters models.StudentFilters) ([]models.Student, int, error)
	GetStudentByID(libraryID, studentID int64) (*models.Student, error)
}

type studentService struct {
	studentRepo repositories.StudentRepository
}

// NewStudentService creates a new instance of StudentService.
func NewStudentService(sr repositories.StudentRepository) StudentService {
	return &studentService{studentRepo: sr}
}

func (s *studentService) GetStudents(libraryID int64, filters models.StudentFilters) ([]models.Student, int, error) {
	if filters.Page <= 0 {
		filters.Page = 1
	}
	if filters.PageSize <= 0 {
		filters.PageSize = 20
	}

	students, totalCount, err := s.studentRepo.GetStudents(libraryID, filters)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to get students: %w", err)
	}
	return students, totalCount, nil
}

func (s *studentService) GetStudentByID(libraryID, studentID int64) (*models.Student, error) {
	student, err := s.studentRepo.GetStudentByID(libraryID, studentID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrStudentNotFound
		}
		return nil, fmt.Errorf("failed to get student by ID: %w", err)
	}
	return student, nil
}
