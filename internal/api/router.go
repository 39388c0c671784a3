package api

import (
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/99minutos/todolist/internal/api/handler"
	"github.com/99minutos/todolist/internal/api/middleware"
	"github.com/99minutos/todolist/internal/api/views"
	"github.com/99minutos/todolist/internal/core/ports"
)

// Deps are the collaborators the HTTP layer needs.
type Deps struct {
	Auth   ports.AuthService
	Lists  ports.ListService
	Checks []handler.Check
	Log    zerolog.Logger
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(deps Deps) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = handler.NewValidator()
	e.Renderer = views.MustNewRenderer()
	e.HTTPErrorHandler = NewHTTPErrorHandler(deps.Log)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(middleware.RequestLogger(deps.Log))
	e.Use(middleware.Metrics())
	e.Use(middleware.LoadSession(deps.Auth, deps.Log))

	// --- Handlers ---
	authHandler := handler.NewAuthHandler(deps.Auth, deps.Log)
	listHandler := handler.NewListHandler(deps.Lists, deps.Log)
	pageHandler := handler.NewPageHandler()
	healthHandler := handler.NewHealthHandler(deps.Checks...)

	// --- Pages ---
	e.GET("/", authHandler.Home)
	e.GET("/register", authHandler.ShowRegister)
	e.POST("/register", authHandler.Register)
	e.GET("/login", authHandler.ShowLogin)
	e.POST("/login", authHandler.Login)
	e.GET("/logout", authHandler.Logout)
	e.GET("/about", pageHandler.About)

	// --- Lists (session required) ---
	lists := e.Group("/lists", middleware.RequireSession("/login"))
	lists.GET("/:urlUserName", listHandler.Show)
	lists.POST("/:urlUserName", listHandler.AddItem)

	// Anonymous deletes reach the service, which applies the ownership policy.
	e.POST("/delete", listHandler.DeleteItem)

	// --- Assets and probes (no session required) ---
	e.StaticFS("/static", views.StaticFS())
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))
	e.GET("/health", healthHandler.Liveness)
	e.GET("/health/ready", healthHandler.Readiness)

	return e
}
