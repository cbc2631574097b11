package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"library_crm_backend/internal/models"
	"library_crm_backend/internal/services"
	"library_crm_backend/pkg/utils"

	"github.com/gin-gonic/gin"
)

// StudentHandler holds the student service.
type StudentHandler struct {
	studentService services.StudentService
}

// NewStudentHandler creates a new StudentHandler.
func NewStudentHandler(ss services.StudentService) *StudentHandler {
	return &StudentHandler{studentService: ss}
}

// GetStudents handles listing students with search and pagination.
func (h *StudentHandler) GetStudents(c *gin.Context) {
	libraryID, _, ok := principalFromContext(c)
	if !ok {
		return
	}

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	if page <= 0 {
		page = 1
	}
	if limit <= 0 {
		limit = 20
	}

	filters := models.StudentFilters{Page: page, PageSize: limit}
	if search := c.Query("search"); search != "" {
		filters.Search = &search
	}
	if status := c.Query("status"); status != "" {
		filters.Status = &status
	}

	students, totalCount, err := h.studentService.GetStudents(libraryID, filters)
	if err != nil {
		utils.LogError(err, "GetStudents: Error from studentService.GetStudents")
		utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, "Failed to fetch students.", "Internal error"))
		return
	}

	if students == nil {
		students = []models.Student{}
	}

	c.JSON(http.StatusOK, gin.H{
		"students":   students,
		"pagination": newPaginationMeta(totalCount, page, limit),
	})
}

// GetStudentByID handles fetching a single student.
func (h *StudentHandler) GetStudentByID(c *gin.Context) {
	libraryID, _, ok := principalFromContext(c)
	if !ok {
		return
	}

	idStr := c.Param("id")
	studentID, err := strconv.ParseInt(idStr, 10, 64)
	if err != nil {
		utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Invalid student ID format.", err.Error()))
		return
	}

	student, err := h.studentService.GetStudentByID(libraryID, studentID)
	if err != nil {
		utils.LogError(err, "GetStudentByID: Error from studentService.GetStudentByID for ID "+idStr)
		if errors.Is(err, services.ErrStudentNotFound) {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusNotFound, utils.ErrCodeNotFound, "Student not found.", err.Error()))
		} else {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, "Failed to fetch student.", "Internal error"))
		}
		return
	}
	c.JSON(http.StatusOK, student)
}
