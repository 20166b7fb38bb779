package api

import (
	"net"

	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"

	_ "github.com/inventory-system/inventory-api/docs"
	"github.com/inventory-system/inventory-api/internal/api/handler"
	"github.com/inventory-system/inventory-api/internal/api/metrics"
	"github.com/inventory-system/inventory-api/internal/api/middleware"
	"github.com/inventory-system/inventory-api/internal/core/domain"
	"github.com/inventory-system/inventory-api/internal/core/ports"
	"github.com/inventory-system/inventory-api/internal/infrastructure/http/handlers"
)

// RouterParams groups everything NewRouter needs.
type RouterParams struct {
	Log        zerolog.Logger
	Production bool

	AuthService ports.AuthService
	Inventory   ports.InventoryService
	Tokens      ports.TokenVerifier

	// LoginLimiter is optional; nil disables login throttling.
	LoginLimiter middleware.LoginLimiter
	// RequestsPerMinute caps requests per client IP; zero disables the limit.
	RequestsPerMinute int
	// TrustedProxies may set X-Forwarded-For. Empty means RealIP is the TCP peer.
	TrustedProxies []*net.IPNet

	HealthChecks []handlers.DependencyCheck
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(p RouterParams) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(p.Log)
	e.IPExtractor = ipExtractor(p.TrustedProxies)

	// --- Global middleware ---
	// Metrics wrap Recover so recovered panics are counted as 500s.
	e.Use(metrics.Middleware())
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(requestLogger(p.Log))
	e.Use(echomiddleware.CORS())
	e.Use(middleware.SecureHeaders(p.Production))
	e.Use(middleware.RateLimitByIP(p.RequestsPerMinute))

	// --- Dependencies ---
	authHandler := handler.NewAuthHandler(p.AuthService)
	catalogHandler := handler.NewCatalogHandler(p.Inventory)
	authenticate := middleware.Auth(p.Tokens)
	adminOnly := middleware.RBAC(domain.RoleAdmin)
	anyRole := middleware.RBAC(domain.RoleAdmin, domain.RoleStaff)

	// --- Auth routes ---
	loginChain := []echo.MiddlewareFunc{}
	if p.LoginLimiter != nil {
		loginChain = append(loginChain, middleware.LoginThrottle(p.LoginLimiter, p.Log))
	}
	e.POST("/login", authHandler.Login, loginChain...)
	e.POST("/register", authHandler.Register, authenticate, adminOnly)

	// --- Catalog routes ---
	catalog := e.Group("/catalog", authenticate)
	catalog.GET("", catalogHandler.List, anyRole)
	catalog.POST("", catalogHandler.Create, adminOnly)
	catalog.PUT("/:id", catalogHandler.Update, adminOnly)
	catalog.DELETE("/:id", catalogHandler.Delete, adminOnly)

	// --- Health probes (no auth required) ---
	healthHandler := handlers.NewHealthHandler()
	healthDepsHandler := handlers.NewHealthDependenciesHandler(p.HealthChecks...)

	e.GET("/health", healthHandler.Liveness)            // liveness  – is the process alive?
	e.GET("/health/ready", healthDepsHandler.Readiness) // readiness – are dependencies up?

	// --- Operations ---
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	return e
}

func requestLogger(log zerolog.Logger) echo.MiddlewareFunc {
	return echomiddleware.RequestLoggerWithConfig(echomiddleware.RequestLoggerConfig{
		LogMethod:    true,
		LogURI:       true,
		LogStatus:    true,
		LogLatency:   true,
		LogRemoteIP:  true,
		LogRequestID: true,
		LogError:     true,
		HandleError:  true,
		LogValuesFunc: func(c echo.Context, v echomiddleware.RequestLoggerValues) error {
			evt := log.Info()
			if v.Status >= 500 {
				evt = log.Error().Err(v.Error)
			}
			evt.
				Str("method", v.Method).
				Str("uri", v.URI).
				Int("status", v.Status).
				Dur("latency", v.Latency).
				Str("remote_ip", v.RemoteIP).
				Str("request_id", v.RequestID).
				Msg("request")
			return nil
		},
	})
}

// ipExtractor ignores forwarding headers unless the peer is a trusted proxy.
func ipExtractor(trusted []*net.IPNet) echo.IPExtractor {
	if len(trusted) == 0 {
		return echo.ExtractIPDirect()
	}
	opts := []echo.TrustOption{
		echo.TrustLoopback(false),
		echo.TrustLinkLocal(false),
		echo.TrustPrivateNet(false),
	}
	for _, n := range trusted {
		opts = append(opts, echo.TrustIPRange(n))
	}
	return echo.ExtractIPFromXFFHeader(opts...)
}
