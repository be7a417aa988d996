// File: internal/app/server.go
package app

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"pet_rescue_backend/internal/adoption"
	"pet_rescue_backend/internal/auth"
	"pet_rescue_backend/internal/config"
	"pet_rescue_backend/internal/jobs"
	"pet_rescue_backend/internal/lostpet"
	"pet_rescue_backend/internal/middleware"
	"pet_rescue_backend/internal/notification"
	"pet_rescue_backend/internal/pet"
	"pet_rescue_backend/internal/shared"
	"pet_rescue_backend/internal/transfer"
	"pet_rescue_backend/internal/user"
	"pet_rescue_backend/internal/vaccination"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Server struct holds the dependencies for the HTTP server.
type Server struct {
	httpServer *http.Server
	router     *gin.Engine
	cfg        *config.Config
	logger     *zap.Logger

	// Handlers
	userHandler         *user.Handler
	authHandler         *auth.Handler
	petHandler          *pet.Handler
	adoptionHandler     *adoption.Handler
	transferHandler     *transfer.Handler
	lostPetHandler      *lostpet.Handler
	vaccinationHandler  *vaccination.Handler
	notificationHandler *notification.Handler

	// Jobs
	outboxDispatchJob *jobs.OutboxDispatchJob

	// Middleware instances
	authMW      gin.HandlerFunc
	adminRoleMW gin.HandlerFunc
}

// NewServer creates a new instance of our application server.
func NewServer(
	cfg *config.Config,
	logger *zap.Logger,
	userHandler *user.Handler,
	authHandler *auth.Handler,
	petHandler *pet.Handler,
	adoptionHandler *adoption.Handler,
	transferHandler *transfer.Handler,
	lostPetHandler *lostpet.Handler,
	vaccinationHandler *vaccination.Handler,
	notificationHandler *notification.Handler,
	outboxDispatchJob *jobs.OutboxDispatchJob,
	tokenService shared.TokenService,
) (*Server, error) {
	gin.SetMode(cfg.GinMode)
	router := gin.New()

	// --- Global Middleware ---
	router.Use(middleware.ZapLogger(logger, cfg))
	router.Use(middleware.ErrorHandler(logger))
	router.Use(gin.Recovery())

	// CORS Middleware
	corsConfig := cors.DefaultConfig()
	corsConfig.AllowOrigins = []string{"*"}
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Type", "Accept", "Authorization", middleware.RequestIDHeader}
	corsConfig.AllowCredentials = true
	corsConfig.ExposeHeaders = []string{"Content-Length", middleware.RequestIDHeader}
	router.Use(cors.New(corsConfig))

	// Create middleware instances
	authMW := middleware.AuthMiddleware(tokenService, logger.Named("AuthMiddleware"))
	adminRoleMW := middleware.RoleAuthMiddleware(shared.RoleAdmin)

	// --- Setup Routes ---
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "UP", "message": "Pet Rescue API is healthy!"})
	})

	v1 := router.Group("/api/v1")

	authHandler.RegisterRoutes(v1)
	userHandler.RegisterRoutes(v1, authMW)
	petHandler.RegisterRoutes(v1, authMW)
	adoptionHandler.RegisterRoutes(v1, authMW, adminRoleMW)
	transferHandler.RegisterRoutes(v1, authMW, adminRoleMW)
	lostPetHandler.RegisterRoutes(v1, authMW)
	vaccinationHandler.RegisterRoutes(v1, authMW, adminRoleMW)

	notificationGroup := v1.Group("/notifications", authMW)
	notificationHandler.RegisterRoutes(notificationGroup)

	addr := fmt.Sprintf("%s:%s", cfg.ServerHost, cfg.ServerPort)
	httpServer := &http.Server{
		Addr:         addr,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	return &Server{
		httpServer:          httpServer,
		router:              router,
		cfg:                 cfg,
		logger:              logger,
		userHandler:         userHandler,
		authHandler:         authHandler,
		petHandler:          petHandler,
		adoptionHandler:     adoptionHandler,
		transferHandler:     transferHandler,
		lostPetHandler:      lostPetHandler,
		vaccinationHandler:  vaccinationHandler,
		notificationHandler: notificationHandler,
		outboxDispatchJob:   outboxDispatchJob,
		authMW:              authMW,
		adminRoleMW:         adminRoleMW,
	}, nil
}

func (s *Server) Start() error {
	if s.outboxDispatchJob != nil {
		err := s.outboxDispatchJob.SetupAndStart()
		if err != nil {
			s.logger.Error("Failed to setup and start outbox dispatch job", zap.Error(err))
		}
	} else {
		s.logger.Info("Outbox dispatch job is not configured, skipping start.")
	}

	s.logger.Info("HTTP Server starting",
		zap.String("address", s.httpServer.Addr),
		zap.String("gin_mode", s.cfg.GinMode),
	)
	if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		s.logger.Error("Failed to start HTTP server", zap.Error(err))
		return err
	}
	s.logger.Info("HTTP Server stopped gracefully or an error occurred")
	return nil
}

func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("Attempting graceful server shutdown...")
	if s.outboxDispatchJob != nil {
		s.outboxDispatchJob.Stop()
	}
	return s.httpServer.Shutdown(ctx)
}
