package api

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"

	"github.com/relaycrm/crm-api/internal/api/handler"
	"github.com/relaycrm/crm-api/internal/api/middleware"
	"github.com/relaycrm/crm-api/internal/core/domain"
	"github.com/relaycrm/crm-api/internal/core/ports"
)

// Deps carries everything the router wires into handlers.
type Deps struct {
	Auth      ports.AuthService
	Users     ports.UserService
	Leads     ports.LeadService
	Tasks     ports.TaskService
	Analytics ports.AnalyticsService
	Probes    []handler.Probe

	Logger      zerolog.Logger
	CORSOrigins []string

	// Registerer and Gatherer back the HTTP metrics and /metrics. They
	// default to the global Prometheus registry.
	Registerer prometheus.Registerer
	Gatherer   prometheus.Gatherer
}

// access describes who may call a route.
type access int

const (
	public access = iota
	authenticated
	restricted
)

type route struct {
	method  string
	path    string
	handler echo.HandlerFunc
	access  access
	roles   []domain.Role
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(d Deps) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(d.Logger)

	registerer, gatherer := d.Registerer, d.Gatherer
	if registerer == nil {
		registerer = prometheus.DefaultRegisterer
	}
	if gatherer == nil {
		gatherer = prometheus.DefaultGatherer
	}

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestIDWithConfig(echomiddleware.RequestIDConfig{Generator: uuid.NewString}))
	e.Use(middleware.RequestLogger(d.Logger))
	e.Use(echomiddleware.CORSWithConfig(echomiddleware.CORSConfig{
		AllowOrigins: d.CORSOrigins,
		AllowHeaders: []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, echo.HeaderAuthorization},
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete},
	}))
	e.Use(echoprometheus.NewMiddlewareWithConfig(echoprometheus.MiddlewareConfig{
		Subsystem:  "crm",
		Registerer: registerer,
		Skipper: func(c echo.Context) bool {
			return c.Path() == "/metrics"
		},
	}))

	authMW := middleware.Authenticate(d.Auth, d.Logger)

	for _, r := range routes(d) {
		var mws []echo.MiddlewareFunc
		switch r.access {
		case authenticated:
			mws = append(mws, authMW)
		case restricted:
			mws = append(mws, authMW, middleware.RequireRoles(r.roles...))
		}
		e.Add(r.method, r.path, r.handler, mws...)
	}

	e.GET("/metrics", echoprometheus.NewHandlerWithConfig(echoprometheus.HandlerConfig{Gatherer: gatherer}))
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	return e
}

// routes is the single place where role gates are declared.
func routes(d Deps) []route {
	health := handler.NewHealthHandler(d.Logger, d.Probes...)
	auth := handler.NewAuthHandler(d.Auth)
	admin := handler.NewAdminHandler(d.Users, d.Analytics)
	leads := handler.NewLeadHandler(d.Leads)
	tasks := handler.NewTaskHandler(d.Tasks)

	return []route{
		// --- Health probes ---
		{http.MethodGet, "/health", health.Liveness, public, nil},
		{http.MethodGet, "/health/ready", health.Readiness, public, nil},

		// --- Auth ---
		{http.MethodPost, "/auth/login", auth.Login, public, nil},
		{http.MethodPost, "/auth/register", auth.Register, public, nil},
		{http.MethodGet, "/auth/profile", auth.Profile, authenticated, nil},
		{http.MethodPut, "/auth/profile", auth.UpdateProfile, authenticated, nil},

		// --- Admin ---
		{http.MethodGet, "/api/admin/dashboard", admin.Dashboard, restricted, domain.AdminOnly},
		{http.MethodPost, "/api/admin/users", admin.CreateUser, restricted, domain.AdminOnly},
		{http.MethodGet, "/api/admin/users", admin.ListUsers, restricted, domain.AdminOnly},
		{http.MethodPatch, "/api/admin/users/:id/toggle-status", admin.ToggleUserStatus, restricted, domain.AdminOnly},
		{http.MethodGet, "/api/admin/analytics", admin.Analytics, restricted, domain.AdminOnly},

		// --- Leads ---
		{http.MethodPost, "/api/leads", leads.Create, restricted, domain.AllRoles},
		{http.MethodGet, "/api/leads", leads.List, restricted, domain.AllRoles},
		{http.MethodGet, "/api/leads/:id", leads.Get, restricted, domain.AllRoles},
		{http.MethodPut, "/api/leads/:id", leads.Update, restricted, domain.AllRoles},
		{http.MethodDelete, "/api/leads/:id", leads.Delete, restricted, domain.AdminOnly},

		// --- Tasks ---
		{http.MethodPost, "/api/tasks", tasks.Create, restricted, domain.AllRoles},
		{http.MethodGet, "/api/tasks", tasks.List, restricted, domain.AllRoles},
		{http.MethodPatch, "/api/tasks/:id/toggle", tasks.Toggle, restricted, domain.AllRoles},
		{http.MethodDelete, "/api/tasks/:id", tasks.Delete, restricted, domain.AllRoles},
	}
}
