package server

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/time/rate"

	httpHandlers "github.com/decisiondeck/core/internal/adapters/http"
	"github.com/decisiondeck/core/internal/adapters/repository"
	"github.com/decisiondeck/core/internal/application/services"
	"github.com/decisiondeck/core/internal/domain/cards"
	"github.com/decisiondeck/core/internal/features"
	"github.com/decisiondeck/core/internal/infrastructure/config"
	"github.com/decisiondeck/core/internal/infrastructure/database"
	"github.com/decisiondeck/core/internal/infrastructure/logger"
	"github.com/decisiondeck/core/internal/ports"
)

// Server represents the HTTP server
type Server struct {
	echo   *echo.Echo
	config *config.Config
	logger *logger.Logger
	db     *database.DB

	store *services.CardStore
	repo  ports.CardRepository
}

// CustomValidator wraps the validator
type CustomValidator struct {
	validator *validator.Validate
}

// Validate validates structs
func (cv *CustomValidator) Validate(i interface{}) error {
	return cv.validator.Struct(i)
}

// New creates a new server instance. The database handle is nil unless the
// card source is postgres.
func New(cfg *config.Config, db *database.DB, appLogger *logger.Logger) (*Server, error) {
	e := echo.New()

	// Set custom validator
	e.Validator = &CustomValidator{validator: validator.New()}

	// Configure Echo
	e.HideBanner = true
	e.HidePort = true

	// Custom error handler
	e.HTTPErrorHandler = customErrorHandler(appLogger)

	// Card type registrations happen once, before any card is created.
	registry := cards.NewRegistry()
	if err := features.RegisterAll(registry); err != nil {
		return nil, fmt.Errorf("register card types: %w", err)
	}
	factory := cards.NewFactory(registry)

	repo, err := selectRepository(cfg, db, factory)
	if err != nil {
		return nil, err
	}

	// Initialize services
	store := services.NewCardStore(appLogger)
	actionService := services.NewActionService(store, registry, appLogger)

	// Write-through is only available when the repository can persist.
	writer, _ := repo.(ports.CardWriter)

	// Initialize handlers
	cardHandler := httpHandlers.NewCardHandler(store, actionService, registry, writer, appLogger)

	server := &Server{
		echo:   e,
		config: cfg,
		logger: appLogger,
		db:     db,
		store:  store,
		repo:   repo,
	}

	// Setup middleware
	server.setupMiddleware()

	// Setup routes
	server.setupRoutes(cardHandler)

	// Setup metrics
	if cfg.Metrics.Enabled {
		server.setupMetrics()
	}

	return server, nil
}

func selectRepository(cfg *config.Config, db *database.DB, factory *cards.Factory) (ports.CardRepository, error) {
	switch cfg.Cards.Source {
	case config.SourceFixture:
		return repository.NewFixtureCardRepository(factory), nil
	case config.SourceAPI:
		return repository.NewHTTPCardRepository(cfg.Cards.APIBaseURL, cfg.Cards.RequestTimeout, factory), nil
	case config.SourcePostgres:
		if db == nil {
			return nil, fmt.Errorf("card source %q requires a database connection", config.SourcePostgres)
		}
		return repository.NewPostgresCardRepository(db, factory), nil
	default:
		return nil, fmt.Errorf("unknown card source %q", cfg.Cards.Source)
	}
}

// setupMiddleware configures middleware
func (s *Server) setupMiddleware() {
	// Recovery middleware
	s.echo.Use(middleware.Recover())

	// Logger middleware
	s.echo.Use(middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogURI:       true,
		LogStatus:    true,
		LogMethod:    true,
		LogLatency:   true,
		LogError:     true,
		LogRemoteIP:  true,
		LogUserAgent: true,
		LogValuesFunc: func(c echo.Context, values middleware.RequestLoggerValues) error {
			fields := []interface{}{
				"method", values.Method,
				"uri", values.URI,
				"status", values.Status,
				"latency_ms", float64(values.Latency.Nanoseconds()) / 1000000,
				"remote_ip", values.RemoteIP,
				"user_agent", values.UserAgent,
			}

			if values.Error != nil {
				fields = append(fields, "error", values.Error.Error())
				s.logger.Errorw("HTTP request failed", fields...)
			} else {
				s.logger.Infow("HTTP request", fields...)
			}

			return nil
		},
	}))

	// CORS middleware
	s.echo.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: strings.Split(s.config.Security.CORSAllowedOrigins, ","),
		AllowHeaders: []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept},
		AllowMethods: []string{echo.GET, echo.HEAD, echo.PUT, echo.PATCH, echo.POST, echo.DELETE},
	}))

	// Rate limiting middleware
	s.echo.Use(middleware.RateLimiterWithConfig(middleware.RateLimiterConfig{
		Store: middleware.NewRateLimiterMemoryStoreWithConfig(
			middleware.RateLimiterMemoryStoreConfig{Rate: rate.Limit(s.config.Security.RateLimitRequests), Burst: s.config.Security.RateLimitRequests, ExpiresIn: s.config.Security.RateLimitWindow},
		),
		IdentifierExtractor: func(ctx echo.Context) (string, error) {
			id := ctx.RealIP()
			return id, nil
		},
		ErrorHandler: func(context echo.Context, err error) error {
			return context.JSON(http.StatusForbidden, map[string]string{"message": "rate limit exceeded"})
		},
		DenyHandler: func(context echo.Context, identifier string, err error) error {
			return context.JSON(http.StatusTooManyRequests, map[string]string{"message": "rate limit exceeded"})
		},
	}))

	// Security headers
	s.echo.Use(middleware.SecureWithConfig(middleware.SecureConfig{
		XSSProtection:      "1; mode=block",
		ContentTypeNosniff: "nosniff",
		XFrameOptions:      "DENY",
		HSTSMaxAge:         31536000,
	}))

	// Request ID middleware
	s.echo.Use(middleware.RequestID())

	// Timeout middleware
	s.echo.Use(middleware.TimeoutWithConfig(middleware.TimeoutConfig{
		Timeout: 30 * time.Second,
	}))
}

// setupRoutes configures all routes
func (s *Server) setupRoutes(cardHandler *httpHandlers.CardHandler) {
	// Health check routes
	s.echo.GET("/health", s.healthCheck)
	s.echo.GET("/health/detailed", s.detailedHealthCheck)
	s.echo.GET("/ready", s.readinessCheck)

	// API v1 routes
	v1 := s.echo.Group("/api/v1")

	cardGroup := v1.Group("/cards")
	cardGroup.GET("", cardHandler.ListCards)
	cardGroup.GET("/stats", cardHandler.GetStats)
	cardGroup.GET("/types", cardHandler.GetTypes)
	cardGroup.GET("/quick-actions", cardHandler.GetQuickActions)
	cardGroup.GET("/:id", cardHandler.GetCard)
	cardGroup.GET("/:id/view", cardHandler.GetCardView)
	cardGroup.GET("/:id/actions", cardHandler.GetCardActions)
	cardGroup.PUT("/:id", cardHandler.UpdateCard)
	cardGroup.DELETE("/:id", cardHandler.DeleteCard)
	cardGroup.POST("/:id/done", cardHandler.MarkDone)
	cardGroup.POST("/:id/skip", cardHandler.Skip)
	cardGroup.POST("/:id/select", cardHandler.Select)
	cardGroup.POST("/:id/actions/:actionId", cardHandler.ExecuteAction)
}

// setupMetrics configures Prometheus metrics
func (s *Server) setupMetrics() {
	registry := prometheus.NewRegistry()

	requestsTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	requestDuration := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	registry.MustRegister(requestsTotal, requestDuration)

	// Custom metrics middleware
	s.echo.Use(func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()

			err := next(c)

			duration := time.Since(start)
			status := c.Response().Status

			requestsTotal.WithLabelValues(
				c.Request().Method,
				c.Path(),
				fmt.Sprintf("%d", status),
			).Inc()

			requestDuration.WithLabelValues(
				c.Request().Method,
				c.Path(),
			).Observe(duration.Seconds())

			return err
		}
	})

	// Metrics endpoint
	metricsHandler := promhttp.HandlerFor(registry, promhttp.HandlerOpts{})
	s.echo.GET("/metrics", echo.WrapHandler(metricsHandler))
}

// Health check handlers
func (s *Server) healthCheck(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{
		"status": "ok",
		"time":   time.Now().UTC().Format(time.RFC3339),
	})
}

func (s *Server) detailedHealthCheck(c echo.Context) error {
	status := "ok"
	checks := make(map[string]interface{})

	if s.db != nil {
		if err := s.db.HealthCheck(); err != nil {
			status = "error"
			checks["database"] = map[string]interface{}{
				"status": "error",
				"error":  err.Error(),
			}
		} else {
			checks["database"] = map[string]interface{}{
				"status": "ok",
				"stats":  s.db.GetConnectionInfo(),
			}
		}
	}

	cardsCheck := map[string]interface{}{
		"status":      "ok",
		"source":      s.config.Cards.Source,
		"initialized": s.store.IsInitialized(),
		"total":       s.store.TotalCards(),
	}
	if loadErr := s.store.Error(); loadErr != "" {
		status = "error"
		cardsCheck["status"] = "error"
		cardsCheck["error"] = loadErr
	}
	checks["cards"] = cardsCheck

	response := map[string]interface{}{
		"status": status,
		"time":   time.Now().UTC().Format(time.RFC3339),
		"checks": checks,
		"version": map[string]string{
			"app": s.config.App.Version,
			"go":  "1.21",
		},
	}

	if status == "ok" {
		return c.JSON(http.StatusOK, response)
	}
	return c.JSON(http.StatusServiceUnavailable, response)
}

func (s *Server) readinessCheck(c echo.Context) error {
	if s.db != nil {
		if err := s.db.Ping(); err != nil {
			return c.JSON(http.StatusServiceUnavailable, map[string]string{
				"status": "not_ready",
				"reason": "database_not_ready",
			})
		}
	}

	if !s.store.IsInitialized() {
		return c.JSON(http.StatusServiceUnavailable, map[string]string{
			"status": "not_ready",
			"reason": "cards_not_loaded",
		})
	}

	return c.JSON(http.StatusOK, map[string]string{
		"status": "ready",
		"time":   time.Now().UTC().Format(time.RFC3339),
	})
}

// Start loads the card collection and starts the HTTP server. A failed
// initial load is logged but not fatal; the store stays uninitialized and a
// later load attempt can succeed.
func (s *Server) Start(address string) error {
	ctx, cancel := context.WithTimeout(context.Background(), s.config.Cards.RequestTimeout)
	defer cancel()
	if err := s.store.LoadCards(ctx, s.repo); err != nil {
		s.logger.LogDataSourceError(s.config.Cards.Source, err)
	}

	s.logger.Infow("Starting server", "address", address, "card_source", s.config.Cards.Source)
	return s.echo.Start(address)
}

// Shutdown gracefully shuts down the server
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("Shutting down server")
	return s.echo.Shutdown(ctx)
}

// customErrorHandler handles HTTP errors
func customErrorHandler(logger *logger.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		var (
			code = http.StatusInternalServerError
			msg  interface{}
		)

		if he, ok := err.(*echo.HTTPError); ok {
			code = he.Code
			msg = he.Message
			if he.Internal != nil {
				err = fmt.Errorf("%v, %v", err, he.Internal)
			}
		} else if e, ok := err.(*validator.ValidationErrors); ok {
			code = http.StatusBadRequest
			msg = map[string]string{"message": "validation failed", "details": e.Error()}
		} else {
			msg = map[string]string{"message": http.StatusText(code)}
		}

		if code == http.StatusInternalServerError {
			logger.Errorw("Internal server error", "error", err, "path", c.Request().URL.Path)
		}

		if !c.Response().Committed {
			if c.Request().Method == echo.HEAD {
				err = c.NoContent(code)
			} else {
				err = c.JSON(code, msg)
			}
			if err != nil {
				logger.Errorw("Failed to send error response", "error", err)
			}
		}
	}
}
