// Package server wires the HTTP API: global middleware, route groups and the
// services behind them.
package server

import (
	"net/http"

	"jobboard-service/internal/handler"
	"jobboard-service/internal/middleware"
	"jobboard-service/internal/model"
	"jobboard-service/internal/service"
	"jobboard-service/internal/session"
	"jobboard-service/pkg/config"
	"jobboard-service/pkg/jwtutil"
	"jobboard-service/pkg/logger"
	"jobboard-service/pkg/storage"
	"jobboard-service/prometheus"

	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const applicationPostPath = "/api/v1/application/post"

// Deps are the collaborators the API is built on
type Deps struct {
	Config  *config.Config
	DB      *gorm.DB
	Storage storage.Service
	Logger  *zap.Logger
}

// Models lists every record type the API persists
func Models() []interface{} {
	return []interface{}{&model.User{}, &model.Job{}, &model.Application{}}
}

// New builds the echo instance serving the job board API
func New(deps Deps) *echo.Echo {
	cfg := deps.Config
	log := deps.Logger
	if log == nil {
		log = logger.GetLogger()
	}

	jwtUtil := jwtutil.NewJWTUtil(&cfg.JWT)
	sessions := session.NewIssuer(jwtUtil, cfg.Cookie, cfg.IsProduction())

	users := service.NewUserService(deps.DB)
	jobs := service.NewJobService(deps.DB)
	applications := service.NewApplicationService(deps.DB, deps.Storage, cfg.Storage.Folder, cfg.Storage.TempDir)

	userHandler := handler.NewUserHandler(users, sessions)
	jobHandler := handler.NewJobHandler(jobs)
	applicationHandler := handler.NewApplicationHandler(applications)
	healthHandler := handler.NewHealthHandler(deps.DB)

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.HTTPErrorHandler = handler.ErrorHandler

	// Apply global middleware - order matters
	e.Use(echomiddleware.Recover())
	e.Use(middleware.RequestIDMiddleware())
	e.Use(logger.Middleware(log))
	e.Use(prometheus.MetricsMiddleware())
	e.Use(echomiddleware.CORSWithConfig(echomiddleware.CORSConfig{
		AllowOrigins:     []string{cfg.Server.FrontendURL},
		AllowMethods:     []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete},
		AllowCredentials: true,
	}))
	var uploadLimit echo.MiddlewareFunc = func(next echo.HandlerFunc) echo.HandlerFunc { return next }
	if cfg.Server.BodyLimit != "" {
		e.Use(echomiddleware.BodyLimitWithConfig(echomiddleware.BodyLimitConfig{
			Limit: cfg.Server.BodyLimit,
			// resume uploads report an oversized body as an oversized resume
			Skipper: func(c echo.Context) bool { return c.Path() == applicationPostPath },
		}))
		uploadLimit = middleware.UploadBodyLimit(cfg.Server.BodyLimit, service.ErrResumeTooLarge)
	}

	// Public routes - no authentication required
	e.GET("/", handler.Hello)
	e.GET("/health", healthHandler.HealthCheck)
	e.GET("/metrics", echo.WrapHandler(prometheus.GetPrometheusHandler()))

	api := e.Group("/api/v1")
	auth := middleware.AuthMiddleware(sessions, users)
	employer := middleware.RequireRole(model.RoleEmployer)
	jobSeeker := middleware.RequireRole(model.RoleJobSeeker)

	user := api.Group("/user")
	user.POST("/register", userHandler.Register)
	user.POST("/login", userHandler.Login)
	user.GET("/logout", userHandler.Logout, auth)
	user.GET("/getuser", userHandler.GetUser, auth)

	job := api.Group("/job", auth)
	job.POST("/post", jobHandler.PostJob, employer)
	job.GET("/getall", jobHandler.GetAllJobs)
	job.GET("/getmyjobs", jobHandler.GetMyJobs, employer)
	job.PUT("/update/:id", jobHandler.UpdateJob, employer)
	job.DELETE("/delete/:id", jobHandler.DeleteJob, employer)
	job.GET("/:id", jobHandler.GetJob)

	application := api.Group("/application", auth)
	application.POST("/post", applicationHandler.PostApplication, jobSeeker, uploadLimit)
	application.GET("/employer/getall", applicationHandler.EmployerGetAllApplications, employer)
	application.GET("/jobseeker/getall", applicationHandler.JobSeekerGetAllApplications, jobSeeker)
	application.DELETE("/delete/:id", applicationHandler.DeleteApplication, jobSeeker)

	return e
}
