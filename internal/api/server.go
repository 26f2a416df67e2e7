package api

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	ginzap "github.com/gin-contrib/zap"
	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/finshield/riskscreen/internal/compliance"
)

// Server is the HTTP surface over the compliance service.
type Server struct {
	router   *gin.Engine
	logger   *zap.Logger
	service  *compliance.Service
	validate *validator.Validate
}

// NewServer creates the API server and mounts all routes.
func NewServer(service *compliance.Service, logger *zap.Logger) *Server {
	server := &Server{
		logger:   logger.Named("api"),
		service:  service,
		validate: validator.New(),
	}

	router := gin.New()
	router.Use(ginzap.Ginzap(logger, time.RFC3339, true))
	router.Use(ginzap.RecoveryWithZap(logger, true))
	router.Use(cors.New(cors.Config{
		AllowOrigins:  []string{"*"},
		AllowMethods:  []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Content-Type", "Accept"},
		ExposeHeaders: []string{"Content-Length"},
		MaxAge:        12 * time.Hour,
	}))

	router.GET("/healthz", server.handleHealth)
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	router.POST("/aml/screen", server.handleAMLScreen)
	router.POST("/kyc/verify", server.handleKYCVerify)
	router.POST("/risk/combined", server.handleCombinedRisk)

	admin := router.Group("/admin")
	admin.POST("/watchlists/reload", server.handleWatchlistReload)

	server.router = router
	return server
}

// Run starts the HTTP server on the given address.
func (s *Server) Run(addr string) error {
	s.logger.Info("starting api server", zap.String("addr", addr))
	return s.router.Run(addr)
}

// Handler exposes the router for tests.
func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":               "ok",
		"watchlist_generation": s.service.Store().Generation(),
	})
}

func (s *Server) handleWatchlistReload(c *gin.Context) {
	if err := s.service.ReloadWatchlists(); err != nil {
		s.logger.Error("watchlist reload failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "watchlist reload failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"status":               "reloaded",
		"watchlist_generation": s.service.Store().Generation(),
	})
}
