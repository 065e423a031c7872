package api

import (
	"net/http"

	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/guardpost/access-api/internal/api/handler"
	"github.com/guardpost/access-api/internal/api/middleware"
	"github.com/guardpost/access-api/internal/core/authz"
	"github.com/guardpost/access-api/internal/core/domain"
	"github.com/guardpost/access-api/internal/core/password"
	"github.com/guardpost/access-api/internal/core/service"
	mongostore "github.com/guardpost/access-api/internal/infrastructure/db/mongo"
)

// Deps carries the collaborators the router wires into the middleware chain
// and handlers. Throttle and Rehash are optional; nil disables them.
type Deps struct {
	Verifier *password.Delegating
	Throttle middleware.LoginThrottle
	Rehash   middleware.RehashEnqueuer
	Logger   zerolog.Logger
}

// NewPolicyRegistry builds the explicit policy table consulted by both guard
// points. Every served route appears here; anything else is denied by the
// fail-closed default.
func NewPolicyRegistry() *authz.Registry {
	registry := authz.NewRegistry()

	anyRole := authz.AnyRole(domain.KnownRoles...)

	registry.
		Route(http.MethodGet, "/auth/hello", authz.AlwaysAllow()).
		Route(http.MethodGet, "/auth/hello-secured", authz.HasAuthority("READ")).
		Route(http.MethodGet, "/auth/hello-secured2", authz.HasAuthority("CREATE")).
		Route(http.MethodPost, "/auth/login", authz.AlwaysAllow()).
		Route(http.MethodGet, "/auth/me", anyRole).
		Route(http.MethodGet, "/projects", anyRole).
		Route(http.MethodPost, "/projects/refactor", anyRole).
		Route(http.MethodGet, "/health", authz.AlwaysAllow()).
		Route(http.MethodGet, "/health/ready", authz.AlwaysAllow()).
		Route(http.MethodGet, "/metrics", authz.AlwaysAllow())

	registry.
		Operation(handler.OpProjectRead, authz.HasAuthority("READ")).
		Operation(handler.OpProjectRefactor, authz.HasAuthority("REFACTOR"))

	return registry
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(db *mongo.Database, rdb *redis.Client, deps Deps) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(deps.Logger)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echomiddleware.Logger())
	e.Use(echoprometheus.NewMiddleware("access"))

	// --- Dependencies ---
	userRepo := mongostore.NewUserRepository(db)
	loader := service.NewPrincipalLoader(userRepo)
	authService := service.NewAuthService(loader, deps.Verifier, deps.Logger)
	authenticator := middleware.NewAuthenticator(authService, deps.Throttle, deps.Rehash, deps.Verifier.NeedsRehash, deps.Logger)

	registry := NewPolicyRegistry()
	e.Use(middleware.Guard(registry, authenticator))

	authHandler := handler.NewAuthHandler(authenticator)
	greetingHandler := handler.NewGreetingHandler()
	projectHandler := handler.NewProjectHandler(registry)

	// --- Auth routes ---
	e.POST("/auth/login", authHandler.Login)
	e.GET("/auth/me", authHandler.Me)
	e.GET("/auth/hello", greetingHandler.Hello)
	e.GET("/auth/hello-secured", greetingHandler.HelloSecured)
	e.GET("/auth/hello-secured2", greetingHandler.HelloSecured2)

	// --- Operation-guarded routes ---
	e.GET("/projects", projectHandler.List)
	e.POST("/projects/refactor", projectHandler.Refactor)

	// --- Health probes and metrics (no auth required) ---
	healthHandler := handler.NewHealthHandler()
	healthDepsHandler := handler.NewHealthDependenciesHandler(db, rdb)

	e.GET("/health", healthHandler.Liveness)            // liveness  – is the process alive?
	e.GET("/health/ready", healthDepsHandler.Readiness) // readiness – are dependencies up?
	e.GET("/metrics", echoprometheus.NewHandler())

	return e
}
