package handlers

import (
	"errors"
	"io"
	"net/http"
	"strconv"

	"library_crm_backend/internal/models"
	"library_crm_backend/internal/services"
	"library_crm_backend/pkg/utils"

	"github.com/gin-gonic/gin"
)

// AdmissionHandler holds the admission service.
type AdmissionHandler struct {
	admissionService services.AdmissionService
}

// NewAdmissionHandler creates a new AdmissionHandler.
func NewAdmissionHandler(as services.AdmissionService) *AdmissionHandler {
	return &AdmissionHandler{admissionService: as}
}

// GetAdmissionRequests handles listing admission requests with status filter and pagination.
func (h *AdmissionHandler) GetAdmissionRequests(c *gin.Context) {
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

	filters := models.AdmissionFilters{Page: page, PageSize: limit}
	if statusStr := c.Query("status"); statusStr != "" && statusStr != "all" {
		if !models.IsValidAdmissionStatus(statusStr) {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Invalid status value.", "status: "+statusStr))
			return
		}
		filters.Status = &statusStr
	}

	requests, totalCount, err := h.admissionService.GetAdmissionRequests(libraryID, filters)
	if err != nil {
		utils.LogError(err, "GetAdmissionRequests: Error from admissionService.GetAdmissionRequests")
		utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, "Failed to fetch admission requests.", "Internal error"))
		return
	}

	if requests == nil {
		requests = []models.AdmissionRequest{}
	}

	c.JSON(http.StatusOK, gin.H{
		"requests":   requests,
		"pagination": newPaginationMeta(totalCount, page, limit),
	})
}

// GetAdmissionRequestByID handles fetching a single admission request with resolved shifts.
func (h *AdmissionHandler) GetAdmissionRequestByID(c *gin.Context) {
	libraryID, _, ok := principalFromContext(c)
	if !ok {
		return
	}

	idStr := c.Param("id")
	requestID, err := strconv.ParseInt(idStr, 10, 64)
	if err != nil {
		utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Invalid admission request ID format.", err.Error()))
		return
	}

	req, err := h.admissionService.GetAdmissionRequestByID(libraryID, requestID)
	if err != nil {
		utils.LogError(err, "GetAdmissionRequestByID: Error from admissionService for ID "+idStr)
		if errors.Is(err, services.ErrAdmissionNotFound) {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusNotFound, utils.ErrCodeNotFound, "Admission request not found.", err.Error()))
		} else {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, "Failed to fetch admission request.", "Internal error"))
		}
		return
	}
	c.JSON(http.StatusOK, req)
}

// AcceptAdmission handles the atomic conversion of a pending admission request
// into a provisioned student.
func (h *AdmissionHandler) AcceptAdmission(c *gin.Context) {
	libraryID, userID, ok := principalFromContext(c)
	if !ok {
		return
	}

	idStr := c.Param("id")
	requestID, err := strconv.ParseInt(idStr, 10, 64)
	if err != nil {
		utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Invalid admission request ID format.", err.Error()))
		return
	}

	student, err := h.admissionService.AcceptAdmission(libraryID, requestID, userID)
	if err != nil {
		utils.LogError(err, "AcceptAdmission: Error from admissionService.AcceptAdmission for ID "+idStr)
		if errors.Is(err, services.ErrAdmissionNotFound) {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusNotFound, utils.ErrCodeNotFound, "No pending admission request found.", err.Error()))
		} else if errors.Is(err, services.ErrDuplicateStudentPhone) {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeConflict, err.Error(), err.Error()))
		} else {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, "Failed to accept admission request.", err.Error()))
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Admission request accepted",
		"student": student,
	})
}

// RejectAdmission handles rejecting a pending admission request.
func (h *AdmissionHandler) RejectAdmission(c *gin.Context) {
	libraryID, userID, ok := principalFromContext(c)
	if !ok {
		return
	}

	idStr := c.Param("id")
	requestID, err := strconv.ParseInt(idStr, 10, 64)
	if err != nil {
		utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Invalid admission request ID format.", err.Error()))
		return
	}

	// The body is optional; an empty body means no rejection reason.
	var body services.RejectAdmissionRequest
	if err := c.ShouldBindJSON(&body); err != nil && !errors.Is(err, io.EOF) {
		utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Invalid request payload: "+err.Error(), err.Error()))
		return
	}

	req, err := h.admissionService.RejectAdmission(libraryID, requestID, userID, body.Reason)
	if err != nil {
		utils.LogError(err, "RejectAdmission: Error from admissionService.RejectAdmission for ID "+idStr)
		if errors.Is(err, services.ErrAdmissionNotFound) {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusNotFound, utils.ErrCodeNotFound, "No pending admission request found.", err.Error()))
		} else {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, "Failed to reject admission request.", "Internal error"))
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Admission request rejected",
		"request": req,
	})
}

// GetAdmissionStats handles the per-status counts summary for dashboards.
func (h *AdmissionHandler) GetAdmissionStats(c *gin.Context) {
	libraryID, _, ok := principalFromContext(c)
	if !ok {
		return
	}

	stats, err := h.admissionService.GetAdmissionStats(libraryID)
	if err != nil {
		utils.LogError(err, "GetAdmissionStats: Error from admissionService.GetAdmissionStats")
		utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, "Failed to fetch admission stats.", "Internal error"))
		return
	}
	c.JSON(http.StatusOK, stats)
}
