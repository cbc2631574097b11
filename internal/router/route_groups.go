package router

import (
	"library_crm_backend/internal/handlers"
	"library_crm_backend/internal/middleware"

	"github.com/gin-gonic/gin"
)

// SetupAdmissionRoutes sets up the admission request routes.
func SetupAdmissionRoutes(authenticatedGroup *gin.RouterGroup, admissionHandler *handlers.AdmissionHandler) {
	admissionRoutes := authenticatedGroup.Group("/admission-requests")
	admissionRoutes.Use(middleware.RoleAuthMiddleware("Owner", "Admin", "Staff"))
	{
		admissionRoutes.GET("", admissionHandler.GetAdmissionRequests)
		admissionRoutes.GET("/stats/summary", admissionHandler.GetAdmissionStats)
		admissionRoutes.GET("/:id", admissionHandler.GetAdmissionRequestByID)
		admissionRoutes.POST("/:id/accept", admissionHandler.AcceptAdmission)
		admissionRoutes.POST("/:id/reject", admissionHandler.RejectAdmission)
	}
}

// SetupStudentRoutes sets up the student read routes.
func SetupStudentRoutes(authenticatedGroup *gin.RouterGroup, studentHandler *handlers.StudentHandler) {
	studentRoutes := authenticatedGroup.Group("/students")
	studentRoutes.Use(middleware.RoleAuthMiddleware("Owner", "Admin", "Staff"))
	{
		studentRoutes.GET("", studentHandler.GetStudents)
		studentRoutes.GET("/:id", studentHandler.GetStudentByID)
	}
}
