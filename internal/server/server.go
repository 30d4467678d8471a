package server

import (
	"database/sql"
	"fmt"
	"net/http"
	"time"

	"shopdesk/internal/config"
	"shopdesk/internal/mail"
	custommiddleware "shopdesk/internal/middleware"
	"shopdesk/internal/render"
	"shopdesk/internal/repository"
	"shopdesk/internal/service"
	"shopdesk/internal/storage"
	"shopdesk/internal/transport"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
)

type Server struct {
	*http.Server
	config *config.Config
	logger *zap.Logger
	db     *sql.DB
}

func NewServer(cfg *config.Config, logger *zap.Logger, db *sql.DB) (*Server, error) {
	// Create router
	router := chi.NewRouter()

	// Add basic middleware
	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	router.Use(middleware.Recoverer)
	router.Use(middleware.Compress(5))
	router.Use(custommiddleware.CORSMiddleware(cfg.CORS.AllowedOrigin, cfg.Server.Env == "development"))
	router.Use(custommiddleware.LoggingMiddleware(logger))
	router.Use(custommiddleware.ErrorHandlingMiddleware(logger))

	// Health check endpoint
	router.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok"}`))
	})

	// Initialize repositories
	productRepo := repository.NewProductRepository(db)
	orderRepo := repository.NewOrderRepository(db)

	// Initialize external collaborators
	uploader, err := storage.NewImageUploader(cfg.Storage)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize image storage: %w", err)
	}

	// The confirmation email is a best-effort side channel; without a
	// configured relay the order flow still works and reports "skipped".
	var renderer render.Renderer
	var dispatcher mail.Dispatcher
	if cfg.SMTP.Host != "" {
		renderer = render.NewRenderer(cfg.Company)
		dispatcher = mail.NewDispatcher(cfg.SMTP, cfg.Company.Name)
	} else {
		logger.Warn("SMTP relay not configured, order confirmation emails disabled")
	}

	// Initialize services
	productService := service.NewProductService(productRepo, uploader, logger)
	orderService := service.NewOrderService(orderRepo, renderer, dispatcher, logger)

	// Initialize handlers
	productHandler := transport.NewProductHandler(productService, logger)
	orderHandler := transport.NewOrderHandler(orderService, logger)

	// Register routes
	productHandler.RegisterRoutes(router)
	orderHandler.RegisterRoutes(router)

	server := &Server{
		Server: &http.Server{
			Addr:         fmt.Sprintf(":%s", cfg.Server.Port),
			Handler:      router,
			IdleTimeout:  time.Minute,
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 60 * time.Second,
		},
		config: cfg,
		logger: logger,
		db:     db,
	}

	return server, nil
}

func (s *Server) Close() error {
	s.logger.Info("Closing server resources")

	// Close database connection
	if s.db != nil {
		if err := s.db.Close(); err != nil {
			s.logger.Error("Failed to close database connection", zap.Error(err))
		}
	}

	s.logger.Sync()
	return nil
}
