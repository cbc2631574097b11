package handlers

import (
	"net/http"

	"library_crm_backend/pkg/utils"

	"github.com/gin-gonic/gin"
)

// principalFromContext extracts the acting library (tenant) and user id set by
// the auth middleware. The tenant id always comes from the verified token,
// never from client-supplied input. Responds 401 and returns false when the
// context is missing either value.
func principalFromContext(c *gin.Context) (libraryID, userID int64, ok bool) {
	libVal, exists := c.Get("libraryID")
	if !exists {
		utils.RespondWithError(c, utils.NewAPIError(http.StatusUnauthorized, utils.ErrCodeUnauthorized, "Library context missing. Ensure AuthMiddleware runs first.", ""))
		return 0, 0, false
	}
	userVal, exists := c.Get("userID")
	if !exists {
		utils.RespondWithError(c, utils.NewAPIError(http.StatusUnauthorized, utils.ErrCodeUnauthorized, "User context missing. Ensure AuthMiddleware runs first.", ""))
		return 0, 0, false
	}

	libraryID, libOK := libVal.(int64)
	userID, userOK := userVal.(int64)
	if !libOK || !userOK {
		utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, "Invalid principal context.", ""))
		return 0, 0, false
	}
	return libraryID, userID, true
}

// paginationMeta is the standard pagination block for list responses.
type paginationMeta struct {
	Total      int `json:"total"`
	Page       int `json:"page"`
	Limit      int `json:"limit"`
	TotalPages int `json:"total_pages"`
}

func newPaginationMeta(total, page, limit int) paginationMeta {
	totalPages := 0
	if limit > 0 {
		totalPages = (total + limit - 1) / limit
	}
	return paginationMeta{Total: total, Page: page, Limit: limit, TotalPages: totalPages}
}
