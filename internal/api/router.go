package api

import (
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"

	"github.com/99minutos/task-tracker/internal/api/handler"
	"github.com/99minutos/task-tracker/internal/api/middleware"
	"github.com/99minutos/task-tracker/internal/core/ports"
	"github.com/99minutos/task-tracker/internal/infrastructure/http/handlers"
)

// Deps are the services and settings the HTTP layer is built from.
type Deps struct {
	Tasks      ports.TaskService
	Roster     ports.RosterService
	Analytics  ports.AnalyticsService
	Principals ports.PrincipalResolver
	JWTSecret  string
	Checkers   []handlers.Checker
	Logger     zerolog.Logger
	// Registry overrides the default Prometheus registry for request metrics.
	Registry *prometheus.Registry
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(d Deps) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(d.Logger)

	promMiddleware := echoprometheus.MiddlewareConfig{Subsystem: "tasktracker"}
	promHandler := echoprometheus.HandlerConfig{}
	if d.Registry != nil {
		promMiddleware.Registerer = d.Registry
		promHandler.Gatherer = d.Registry
	}

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(middleware.RequestLogger(d.Logger))
	e.Use(echoprometheus.NewMiddlewareWithConfig(promMiddleware))

	// --- Health probes, metrics and docs (no auth required) ---
	healthHandler := handlers.NewHealthHandler()
	healthDepsHandler := handlers.NewHealthDependenciesHandler(d.Checkers...)

	e.GET("/health", healthHandler.Liveness)            // liveness
	e.GET("/health/ready", healthDepsHandler.Readiness) // readiness: store and redis
	e.GET("/metrics", echoprometheus.NewHandlerWithConfig(promHandler))
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	// --- Authenticated API ---
	taskHandler := handler.NewTaskHandler(d.Tasks)
	memberHandler := handler.NewMemberHandler(d.Roster)
	analyticsHandler := handler.NewAnalyticsHandler(d.Analytics)

	v1 := e.Group("/api/v1", middleware.Auth(d.JWTSecret, d.Principals))
	v1.GET("/me", handler.Me)

	tasks := v1.Group("/tasks")
	tasks.GET("", taskHandler.List)
	tasks.POST("", taskHandler.Submit)
	tasks.GET("/:id", taskHandler.Get)
	tasks.PATCH("/:id", taskHandler.Update)
	tasks.DELETE("/:id", taskHandler.Delete)
	tasks.POST("/:id/approve", taskHandler.Approve, middleware.RequireManager())
	tasks.POST("/:id/reject", taskHandler.Reject, middleware.RequireManager())
	tasks.POST("/:id/resubmit", taskHandler.Resubmit)
	tasks.POST("/:id/completion", taskHandler.ToggleCompletion)
	tasks.GET("/:id/activity", taskHandler.Activity)

	members := v1.Group("/members", middleware.RequireManager())
	members.GET("", memberHandler.List)
	members.POST("", memberHandler.Add)
	members.PATCH("/:user_id", memberHandler.UpdateRole)
	members.DELETE("/:user_id", memberHandler.Remove)

	analytics := v1.Group("/analytics")
	analytics.GET("/weekly", analyticsHandler.Weekly)
	analytics.GET("/team", analyticsHandler.Team, middleware.RequireManager())

	return e
}
