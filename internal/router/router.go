package router

import (
	"database/sql"

	"library_crm_backend/internal/handlers"
	"library_crm_backend/internal/middleware"
	"library_crm_backend/internal/repositories"
	"library_crm_backend/internal/services"

	"github.com/gin-gonic/gin"
)

// Setup initializes the routing for the application.
func Setup(engine *gin.Engine, db *sql.DB) {
	// Initialize Repositories
	authRepo := repositories.NewAuthRepository(db)
	admissionRepo := repositories.NewAdmissionRepository(db)
	studentRepo := repositories.NewStudentRepository(db)
	resourceRepo := repositories.NewResourceRepository(db)
	historyRepo := repositories.NewHistoryRepository(db)
	accountRepo := repositories.NewAccountRepository(db)

	// Initialize Services
	authService := services.NewAuthService(authRepo)
	admissionService := services.NewAdmissionService(admissionRepo, studentRepo, resourceRepo, historyRepo, accountRepo, db)
	studentService := services.NewStudentService(studentRepo)

	// Initialize Handlers
	authHandler := handlers.NewAuthHandler(authService)
	admissionHandler := handlers.NewAdmissionHandler(admissionService)
	studentHandler := handlers.NewStudentHandler(studentService)

	apiV1 := engine.Group("/api/v1")

	// Public authentication routes
	SetupPublicAuthRoutes(apiV1.Group("/auth"), authHandler)

	// Authenticated routes; the tenant scope is resolved from the token by
	// AuthMiddleware before any of these handlers run.
	authenticated := apiV1.Group("")
	authenticated.Use(middleware.AuthMiddleware())
	{
		SetupAuthenticatedAuthRoutes(authenticated.Group("/auth"), authHandler)
		SetupAdmissionRoutes(authenticated, admissionHandler)
		SetupStudentRoutes(authenticated, studentHandler)
	}
}

// SetupPublicAuthRoutes sets up the unauthenticated auth routes.
func SetupPublicAuthRoutes(group *gin.RouterGroup, authHandler *handlers.AuthHandler) {
	group.POST("/login", authHandler.LoginUser)
}

// SetupAuthenticatedAuthRoutes sets up the auth routes that require a valid token.
func SetupAuthenticatedAuthRoutes(group *gin.RouterGroup, authHandler *handlers.AuthHandler) {
	group.GET("/me", authHandler.GetCurrentUser)
}
