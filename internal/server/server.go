package server

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/zionge2k/news-alert-system/internal/config"
	"github.com/zionge2k/news-alert-system/internal/enqueue"
	"github.com/zionge2k/news-alert-system/internal/queueengine"
	"github.com/zionge2k/news-alert-system/internal/service"
	"github.com/zionge2k/news-alert-system/internal/store"
)

// Server exposes the admin HTTP surface: a health check, read-only queue
// status, published-set counts, and recent error log entries, plus
// TOTP-gated mutating queue endpoints (add/retry/clean). It does not run
// the Publisher Worker itself — that is a separate long-running loop
// started by the `publish` CLI command.
type Server struct {
	Config *config.Config
	DB     *gorm.DB
	Router *gin.Engine
	Logger *zap.Logger
	Server *http.Server

	Queue     *queueengine.Engine
	Enqueue   *enqueue.Service
	Published store.PublishedSet
	Monitor   *service.MonitoringService
	Auth      *service.AuthService
}

func NewServer(cfg *config.Config, db *gorm.DB, queue *queueengine.Engine, enqueuer *enqueue.Service, published store.PublishedSet, monitor *service.MonitoringService, logger *zap.Logger) *Server {
	gin.SetMode(cfg.Server.Mode)

	router := gin.New()

	srv := &Server{
		Config:    cfg,
		DB:        db,
		Router:    router,
		Logger:    logger,
		Queue:     queue,
		Enqueue:   enqueuer,
		Published: published,
		Monitor:   monitor,
		Auth:      service.NewAuthService(logger, cfg.Auth.TOTPSecret),
	}

	srv.setupMiddleware()
	srv.setupRoutes()

	return srv
}

func (s *Server) setupMiddleware() {
	s.Router.Use(gin.Recovery())

	s.Router.Use(gin.LoggerWithConfig(gin.LoggerConfig{
		Formatter: func(param gin.LogFormatterParams) string {
			return fmt.Sprintf("%s - [%s] \"%s %s %s %d %s \"%s\" %s\"\n",
				param.ClientIP,
				param.TimeStamp.Format(time.RFC3339),
				param.Method,
				param.Path,
				param.Request.Proto,
				param.StatusCode,
				param.Latency,
				param.Request.UserAgent(),
				param.ErrorMessage,
			)
		},
	}))

	s.Router.Use(func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Content-Type, X-TOTP-Code")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	})
}

func (s *Server) setupRoutes() {
	s.Router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "time": time.Now().Unix()})
	})

	api := s.Router.Group("/api/v1")
	{
		queue := api.Group("/queue")
		queue.GET("/status", s.handleQueueStatus)

		admin := queue.Group("")
		admin.Use(s.Auth.RequireTOTP())
		admin.POST("/add", s.handleQueueAdd)
		admin.POST("/retry", s.handleQueueRetry)
		admin.POST("/clean", s.handleQueueClean)

		api.GET("/published/counts", s.handlePublishedCounts)
		api.GET("/errors/recent", s.handleRecentErrors)
	}
}

func (s *Server) handleQueueStatus(c *gin.Context) {
	counts, err := s.Queue.Status(c.Request.Context())
	if err != nil {
		s.Logger.Error("failed to fetch queue status", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch queue status"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": counts})
}

type queueAddRequest struct {
	Platform string `json:"platform"`
	Category string `json:"category"`
	Hours    int    `json:"hours"`
	Limit    int    `json:"limit"`
}

func (s *Server) handleQueueAdd(c *gin.Context) {
	var req queueAddRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	inserted, err := s.Enqueue.AddArticlesFromDB(c.Request.Context(), enqueue.Filter{
		Platform: req.Platform,
		Category: req.Category,
		Hours:    req.Hours,
		Limit:    req.Limit,
	})
	if err != nil {
		s.Logger.Error("queue add failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to enqueue articles"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"inserted": inserted})
}

func (s *Server) handleQueueRetry(c *gin.Context) {
	maxRetries, err := strconv.Atoi(c.DefaultQuery("max_retries", "3"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid max_retries"})
		return
	}

	n, err := s.Queue.Retry(c.Request.Context(), maxRetries)
	if err != nil {
		s.Logger.Error("queue retry failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to retry queue items"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"retried": n})
}

func (s *Server) handleQueueClean(c *gin.Context) {
	ageStr := c.DefaultQuery("age", "168h")
	age, err := time.ParseDuration(ageStr)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid age duration"})
		return
	}

	n, err := s.Queue.Clean(c.Request.Context(), age)
	if err != nil {
		s.Logger.Error("queue clean failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to clean queue items"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"cleaned": n})
}

func (s *Server) handlePublishedCounts(c *gin.Context) {
	counts, err := s.Published.CountByPlatform(c.Request.Context())
	if err != nil {
		s.Logger.Error("failed to fetch published-set counts", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch published counts"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"counts": counts})
}

func (s *Server) handleRecentErrors(c *gin.Context) {
	limit, err := strconv.Atoi(c.DefaultQuery("limit", "50"))
	if err != nil || limit <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid limit"})
		return
	}

	entries, err := s.Monitor.RecentErrors(limit)
	if err != nil {
		s.Logger.Error("failed to fetch recent errors", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch recent errors"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"errors": entries})
}

func (s *Server) Start(ctx context.Context) error {
	addr := fmt.Sprintf("%s:%d", s.Config.Server.Host, s.Config.Server.Port)

	s.Server = &http.Server{
		Addr:    addr,
		Handler: s.Router,
	}

	s.Logger.Info("starting admin HTTP server", zap.String("addr", addr))

	if s.Config.Server.CertFile != "" && s.Config.Server.KeyFile != "" {
		return s.Server.ListenAndServeTLS(s.Config.Server.CertFile, s.Config.Server.KeyFile)
	}

	return s.Server.ListenAndServe()
}

func (s *Server) Shutdown(ctx context.Context) error {
	if s.Server == nil {
		return nil
	}

	shutdownCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	return s.Server.Shutdown(shutdownCtx)
}
