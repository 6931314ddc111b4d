// Package server
//
// @title baselog API
// @version 1.0
// @description Sales dashboard backend: accounts, customers, products, sales and reports
// @host localhost:8080
// @BasePath /
package server

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	stdlog "log"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/glebarez/sqlite"
	"github.com/go-playground/validator/v10"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/baselog-dev/baselog/internal/auth"
	"github.com/baselog-dev/baselog/internal/config"
	"github.com/baselog-dev/baselog/internal/forms"
	"github.com/baselog-dev/baselog/internal/models"
	"github.com/baselog-dev/baselog/internal/workers"
)

// Server represents the HTTP server
type Server struct {
	router   *gin.Engine
	db       *gorm.DB
	config   *config.Config
	logger   zerolog.Logger
	tokens   *auth.TokenIssuer
	registry *prometheus.Registry
	metrics  *httpMetrics
	version  string
}

// New opens the configured database and creates a server on top of it
func New(cfg *config.Config, zlog zerolog.Logger, version string) (*Server, error) {
	db, err := initDatabase(cfg, zlog)
	if err != nil {
		return nil, err
	}
	return NewWithDB(db, cfg, zlog, version)
}

// NewWithDB creates a server using an already opened database
func NewWithDB(db *gorm.DB, cfg *config.Config, zlog zerolog.Logger, version string) (*Server, error) {
	if err := models.AutoMigrate(db); err != nil {
		return nil, err
	}

	secret, err := loadJWTSecret(db, cfg.Auth.JWTSecret, zlog)
	if err != nil {
		return nil, err
	}
	tokens, err := auth.NewTokenIssuer(secret, cfg.Auth.TokenTTL)
	if err != nil {
		return nil, err
	}

	if err := registerValidationRules(); err != nil {
		return nil, fmt.Errorf("failed to register validation rules: %w", err)
	}

	registry := prometheus.NewRegistry()
	server := &Server{
		db:       db,
		config:   cfg,
		logger:   zlog,
		tokens:   tokens,
		registry: registry,
		metrics:  newHTTPMetrics(registry),
		version:  version,
	}

	server.setupRouter()

	return server, nil
}

var (
	rulesOnce sync.Once
	rulesErr  error
)

// registerValidationRules teaches gin's binding engine the form rules.
func registerValidationRules() error {
	rulesOnce.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			rulesErr = errors.New("unexpected gin validator engine")
			return
		}
		rulesErr = forms.RegisterRules(v)
	})
	return rulesErr
}

// loadJWTSecret prefers the configured secret, then the persisted one, and
// otherwise generates and persists a new one.
func loadJWTSecret(db *gorm.DB, configured string, zlog zerolog.Logger) (string, error) {
	if configured != "" {
		return configured, nil
	}

	var cfg models.Config
	err := db.First(&cfg).Error
	if err == nil && cfg.JWTSecret != "" {
		zlog.Debug().Msg("Loaded JWT secret from database")
		return cfg.JWTSecret, nil
	}
	if err != nil && !models.IsNotFound(err) {
		return "", fmt.Errorf("failed to load config: %w", err)
	}

	// 64 hex characters = 32 bytes of randomness
	secretBytes := make([]byte, 32)
	if _, err := rand.Read(secretBytes); err != nil {
		return "", fmt.Errorf("failed to generate JWT secret: %w", err)
	}
	cfg.JWTSecret = hex.EncodeToString(secretBytes)

	if err := db.Save(&cfg).Error; err != nil {
		return "", fmt.Errorf("failed to persist JWT secret: %w", err)
	}
	zlog.Info().Msg("Generated new JWT secret")
	return cfg.JWTSecret, nil
}

// sqliteDSN appends the connection pragmas so that every pooled
// connection gets them, not only the first one.
func sqliteDSN(url string) string {
	pragmas := []string{
		"_pragma=busy_timeout(5000)",
		"_pragma=foreign_keys(1)",
		"_pragma=synchronous(NORMAL)",
	}
	if !strings.Contains(url, ":memory:") {
		pragmas = append(pragmas, "_pragma=journal_mode(WAL)")
	}

	sep := "?"
	if strings.Contains(url, "?") {
		sep = "&"
	}
	return url + sep + strings.Join(pragmas, "&")
}

// initDatabase initializes the database connection with production settings
func initDatabase(cfg *config.Config, zlog zerolog.Logger) (*gorm.DB, error) {
	const (
		maxOpenConns    = 8
		maxIdleConns    = 4
		connMaxLifetime = 5 * time.Minute
	)

	db, err := gorm.Open(sqlite.Open(sqliteDSN(cfg.Database.URL)), &gorm.Config{
		// timestamps are compared as text, so keep them all in UTC
		NowFunc: func() time.Time { return time.Now().UTC() },
		Logger: logger.New(
			stdlog.New(zlog, "", 0),
			logger.Config{
				LogLevel:                  logger.Error,
				IgnoreRecordNotFoundError: true,
				SlowThreshold:             200 * time.Millisecond,
			},
		),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}

	sqlDB.SetMaxOpenConns(maxOpenConns)
	sqlDB.SetMaxIdleConns(maxIdleConns)
	sqlDB.SetConnMaxLifetime(connMaxLifetime)

	if err := sqlDB.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	var journalMode string
	db.Raw("PRAGMA journal_mode").Scan(&journalMode)
	zlog.Debug().Str("path", cfg.Database.URL).Str("journal_mode", journalMode).Msg("Database opened")

	return db, nil
}

// setupRouter configures the Gin router with routes and middleware
func (s *Server) setupRouter() {
	gin.SetMode(gin.ReleaseMode)

	s.router = gin.New()

	s.router.Use(gin.Recovery())
	s.router.Use(requestIDMiddleware())
	s.router.Use(s.loggingMiddleware())
	s.router.Use(s.metrics.middleware())

	// cors.New panics on an empty origin list; no origins means no
	// cross-origin access at all.
	if len(s.config.HTTP.CORSOrigins) > 0 {
		s.router.Use(cors.New(cors.Config{
			AllowOrigins:     s.config.HTTP.CORSOrigins,
			AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "HEAD", "OPTIONS"},
			AllowHeaders:     []string{"Origin", "Content-Length", "Content-Type", "Authorization", requestIDHeader},
			ExposeHeaders:    []string{"Content-Length", requestIDHeader},
			AllowCredentials: true,
			MaxAge:           12 * time.Hour,
		}))
	} else {
		s.logger.Warn().Msg("No CORS origins configured, cross-origin requests are disabled")
	}

	// Public endpoints
	s.router.GET("/health", s.healthCheck)
	s.router.GET("/metrics", gin.WrapH(promhttp.HandlerFor(s.registry, promhttp.HandlerOpts{})))
	s.router.POST("/auth/login", s.login)
	s.router.POST("/auth/register", s.register)

	// Authenticated routes (JWT required)
	api := s.router.Group("/")
	api.Use(JWTAuthMiddleware(s.db, s.tokens, s.logger))

	admin := api.Group("/")
	admin.Use(AdminOnlyMiddleware(s.logger))

	api.GET("/auth/me", s.getCurrentUser)
	api.POST("/auth/logout", s.logout)
	api.PUT("/auth/change-password", s.changePassword)

	admin.GET("/users", s.listUsers)
	admin.GET("/users/:id", s.getUser)
	admin.DELETE("/users/:id", s.deleteUser)

	api.GET("/customers", s.listCustomers)
	api.GET("/customers/:id", s.getCustomer)
	admin.POST("/customers", s.createCustomer)
	admin.PUT("/customers/:id", s.updateCustomer)
	admin.DELETE("/customers/:id", s.deleteCustomer)

	api.GET("/products", s.listProducts)
	api.GET("/products/:id", s.getProduct)
	admin.POST("/products", s.createProduct)
	admin.PUT("/products/:id", s.updateProduct)
	admin.DELETE("/products/:id", s.deleteProduct)

	admin.GET("/sales", s.listSales)
	api.GET("/sales/:id", s.getSale)
	api.GET("/sales/users/:id", s.listSalesByUser)
	admin.POST("/sales", s.createSale)
	admin.PUT("/sales/:id", s.updateSale)
	admin.DELETE("/sales/:id", s.deleteSale)

	api.GET("/reports/average-ticket", s.averageTicket)
	api.GET("/reports/sales-breakdown", s.salesBreakdown)
}

// @Router /health [get]
// @Success 200 {object} map[string]interface{}
func (s *Server) healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":    "online",
		"timestamp": time.Now().UTC(),
		"service":   "baselog-api",
		"version":   s.version,
	})
}

// Handler exposes the router, for tests and embedding
func (s *Server) Handler() http.Handler {
	return s.router
}

// GetDB returns the database connection
func (s *Server) GetDB() *gorm.DB {
	return s.db
}

// Start serves HTTP until ctx is cancelled, then shuts down gracefully
func (s *Server) Start(ctx context.Context) error {
	addr := ":" + s.config.HTTP.Port

	srv := &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	sweeper, err := workers.StartTokenSweeper(s.db, workers.DefaultSweepSchedule, s.logger)
	if err != nil {
		return err
	}

	serveErr := make(chan error, 1)
	go func() {
		s.logger.Info().Str("addr", addr).Msg("Starting HTTP server")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	select {
	case err := <-serveErr:
		<-sweeper.Stop().Done()
		if err != nil {
			return fmt.Errorf("HTTP server error: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	s.logger.Info().Msg("Received shutdown signal, shutting down gracefully...")
	<-sweeper.Stop().Done()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		s.logger.Error().Err(err).Msg("Error shutting down HTTP server")
		return err
	}

	// Close database connection to flush WAL writes
	if sqlDB, err := s.db.DB(); err == nil {
		if err := sqlDB.Close(); err != nil {
			s.logger.Error().Err(err).Msg("Error closing database")
		}
	}

	s.logger.Info().Msg("Server shutdown complete")
	return nil
}
