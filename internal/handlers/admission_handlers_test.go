package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"library_crm_backend/internal/models"
	"library_crm_backend/internal/services"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubAdmissionService implements services.AdmissionService with canned results.
type stubAdmissionService struct {
	acceptStudent *models.Student
	acceptErr     error
	stats         *models.AdmissionStats
	statsErr      error
}

func (s *stubAdmissionService) GetAdmissionRequests(libraryID int64, filters models.AdmissionFilters) ([]models.AdmissionRequest, int, error) {
	return []models.AdmissionRequest{}, 0, nil
}

func (s *stubAdmissionService) GetAdmissionRequestByID(libraryID, requestID int64) (*models.AdmissionRequest, error) {
	return nil, services.ErrAdmissionNotFound
}

func (s *stubAdmissionService) AcceptAdmission(libraryID, requestID, actorID int64) (*models.Student, error) {
	return s.acceptStudent, s.acceptErr
}

func (s *stubAdmissionService) RejectAdmission(libraryID, requestID, actorID int64, reason *string) (*models.AdmissionRequest, error) {
	return nil, services.ErrAdmissionNotFound
}

func (s *stubAdmissionService) GetAdmissionStats(libraryID int64) (*models.AdmissionStats, error) {
	return s.stats, s.statsErr
}

// newTestRouter wires the handler behind a fake principal so the tenant and
// actor ids come from context exactly as in production.
func newTestRouter(svc services.AdmissionService) *gin.Engine {
	gin.SetMode(gin.TestMode)
	engine := gin.New()
	engine.Use(func(c *gin.Context) {
		c.Set("libraryID", int64(1))
		c.Set("userID", int64(9))
		c.Next()
	})

	h := NewAdmissionHandler(svc)
	engine.GET("/admission-requests/:id", h.GetAdmissionRequestByID)
	engine.POST("/admission-requests/:id/accept", h.AcceptAdmission)
	engine.POST("/admission-requests/:id/reject", h.RejectAdmission)
	engine.GET("/admission-requests/stats/summary", h.GetAdmissionStats)
	return engine
}

func TestAcceptAdmissionHandler_StatusMapping(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		phone := "9999999999"
		svc := &stubAdmissionService{acceptStudent: &models.Student{ID: 77, Name: "Asha Verma", Phone: &phone, Status: models.StudentStatusActive}}
		router := newTestRouter(svc)

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/admission-requests/42/accept", nil)
		router.ServeHTTP(w, req)

		require.Equal(t, http.StatusOK, w.Code)
		var body struct {
			Message string         `json:"message"`
			Student models.Student `json:"student"`
		}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
		assert.Equal(t, int64(77), body.Student.ID)
		assert.Equal(t, models.StudentStatusActive, body.Student.Status)
	})

	t.Run("NotPendingMapsTo404", func(t *testing.T) {
		svc := &stubAdmissionService{acceptErr: services.ErrAdmissionNotFound}
		router := newTestRouter(svc)

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/admission-requests/42/accept", nil)
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("DuplicatePhoneMapsTo400", func(t *testing.T) {
		svc := &stubAdmissionService{acceptErr: services.ErrDuplicateStudentPhone}
		router := newTestRouter(svc)

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/admission-requests/42/accept", nil)
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("InvalidIDMapsTo400", func(t *testing.T) {
		router := newTestRouter(&stubAdmissionService{})

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/admission-requests/not-a-number/accept", nil)
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestRejectAdmissionHandler_EmptyBodyAllowed(t *testing.T) {
	router := newTestRouter(&stubAdmissionService{})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/admission-requests/42/reject", nil)
	router.ServeHTTP(w, req)

	// Stub always reports not-pending; the point is that the missing body did
	// not produce a 400.
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestGetAdmissionStatsHandler(t *testing.T) {
	svc := &stubAdmissionService{stats: &models.AdmissionStats{Pending: 3, Accepted: 2, Rejected: 0, Total: 5}}
	router := newTestRouter(svc)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/admission-requests/stats/summary", nil)
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	var stats models.AdmissionStats
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &stats))
	assert.Equal(t, 3, stats.Pending)
	assert.Equal(t, 0, stats.Rejected)
	assert.Equal(t, 5, stats.Total)
}
