package api

import (
	"strings"

	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"

	_ "github.com/inkpost/blog-api/docs"
	"github.com/inkpost/blog-api/internal/api/handler"
	"github.com/inkpost/blog-api/internal/api/middleware"
	"github.com/inkpost/blog-api/internal/core/ports"
)

// Deps carries everything the router wires into handlers and middleware.
type Deps struct {
	AuthService ports.AuthService
	BlogService ports.BlogService
	Verifier    ports.AccessTokenVerifier
	Logger      zerolog.Logger

	FrontendURL string

	// Rate limiters; nil disables the scope.
	GlobalLimiter ports.RateLimiter
	AuthLimiter   ports.RateLimiter

	// Readiness lists the dependencies pinged by /health/ready.
	Readiness map[string]handler.Pinger

	// Metrics enables HTTP metrics and /metrics when set.
	Metrics *prometheus.Registry
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(deps Deps) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(deps.Logger)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(requestLogger(deps.Logger))
	e.Use(middleware.SecureHeaders(deps.FrontendURL))
	e.Use(middleware.CORS(deps.FrontendURL))
	e.Use(echomiddleware.BodyLimit(middleware.BodyLimit))

	if deps.Metrics != nil {
		e.Use(echoprometheus.NewMiddlewareWithConfig(echoprometheus.MiddlewareConfig{
			Namespace:  "blog_api",
			Registerer: deps.Metrics,
			Skipper: func(c echo.Context) bool {
				return c.Path() == "/metrics" || strings.HasPrefix(c.Path(), "/health")
			},
		}))
		e.GET("/metrics", echoprometheus.NewHandlerWithConfig(echoprometheus.HandlerConfig{Gatherer: deps.Metrics}))
	}

	// --- Dependencies ---
	authHandler := handler.NewAuthHandler(deps.AuthService)
	blogHandler := handler.NewBlogHandler(deps.BlogService)
	requireAuth := middleware.Auth(deps.Verifier)

	globalLimit := limiters(deps.Logger, limitScope{"global", deps.GlobalLimiter, "too many requests from this IP, please try again later"})
	authLimit := limiters(deps.Logger,
		limitScope{"global", deps.GlobalLimiter, "too many requests from this IP, please try again later"},
		limitScope{"auth", deps.AuthLimiter, "too many login attempts, please try again later"},
	)

	// --- Auth routes ---
	auth := e.Group("/auth", authLimit...)
	auth.POST("/register", authHandler.Register)
	auth.POST("/login", authHandler.Login)
	auth.POST("/refresh-token", authHandler.RefreshToken)
	auth.POST("/logout", authHandler.Logout)
	auth.POST("/logout-all", authHandler.LogoutAll, requireAuth)
	auth.GET("/verify", authHandler.Verify, requireAuth)

	// --- Blog routes ---
	blogs := e.Group("/blogs", globalLimit...)
	blogs.GET("", blogHandler.List)
	blogs.GET("/user/my-blogs", blogHandler.MyBlogs, requireAuth)
	blogs.GET("/:id", blogHandler.Get)
	blogs.POST("", blogHandler.Create, requireAuth)
	blogs.PATCH("/:id", blogHandler.Update, requireAuth)
	blogs.DELETE("/:id", blogHandler.Delete, requireAuth)

	// --- Health probes (no auth required) ---
	healthHandler := handler.NewHealthHandler()
	healthDepsHandler := handler.NewHealthDependenciesHandler(deps.Readiness)

	e.GET("/health", healthHandler.Liveness)            // liveness  – is the process alive?
	e.GET("/health/ready", healthDepsHandler.Readiness) // readiness – are dependencies up?

	e.GET("/swagger/*", echoSwagger.WrapHandler)

	return e
}

type limitScope struct {
	name    string
	limiter ports.RateLimiter
	message string
}

func limiters(log zerolog.Logger, scopes ...limitScope) []echo.MiddlewareFunc {
	var mws []echo.MiddlewareFunc
	for _, s := range scopes {
		if s.limiter == nil {
			continue
		}
		mws = append(mws, middleware.RateLimit(middleware.RateLimitConfig{
			Scope:   s.name,
			Limiter: s.limiter,
			Message: s.message,
		}, log))
	}
	return mws
}

func requestLogger(log zerolog.Logger) echo.MiddlewareFunc {
	return echomiddleware.RequestLoggerWithConfig(echomiddleware.RequestLoggerConfig{
		LogURI:       true,
		LogMethod:    true,
		LogStatus:    true,
		LogLatency:   true,
		LogRemoteIP:  true,
		LogRequestID: true,
		LogError:     true,
		HandleError:  true,
		LogValuesFunc: func(c echo.Context, v echomiddleware.RequestLoggerValues) error {
			evt := log.Info()
			switch {
			case v.Status >= 500:
				evt = log.Error().Err(v.Error)
			case v.Status >= 400:
				evt = log.Warn()
			}
			evt.
				Str("request_id", v.RequestID).
				Str("method", v.Method).
				Str("uri", v.URI).
				Int("status", v.Status).
				Dur("latency", v.Latency).
				Str("remote_ip", v.RemoteIP).
				Msg("request")
			return nil
		},
	})
}
