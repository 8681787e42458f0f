package server

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"

	"taskboard/internal/auth"
	"taskboard/internal/config"
	"taskboard/internal/handler"
	"taskboard/internal/middleware"
	"taskboard/internal/service"
)

type Server struct {
	Engine   *gin.Engine
	Gateways *Gateways
	Config   *config.Config
	Logger   *log.Logger
}

// Init opens storage, builds the services and registers the routes.
func Init(cfg *config.Config, logger *log.Logger) (*Server, error) {
	gw, err := OpenGateways(cfg, logger)
	if err != nil {
		return nil, err
	}

	boards := service.NewBoardService(gw.Boards, gw.Columns, gw.Tasks)
	tasks := service.NewTaskService(gw.Tasks, gw.Columns)

	var parser middleware.TokenParser
	if cfg.AuthEnabled() {
		parser = auth.NewIssuer(cfg.JWTSecret, cfg.JWTExpiry)
	} else {
		logger.Warn("JWT_SECRET is empty, mutating routes are not protected")
	}

	return &Server{
		Engine:   NewRouter(boards, tasks, parser, logger),
		Gateways: gw,
		Config:   cfg,
		Logger:   logger,
	}, nil
}

// NewRouter registers every route. Reads are public; writes need a bearer
// token when parser is not nil and run one at a time.
func NewRouter(boards handler.BoardUseCases, tasks handler.TaskUseCases, parser middleware.TokenParser, logger *log.Logger) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), middleware.RequestLogger(logger))

	boardHandler := handler.NewBoardHandler(boards)
	columnHandler := handler.NewColumnHandler(boards)
	taskHandler := handler.NewTaskHandler(tasks)

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// Public routes
	r.GET("/boards", boardHandler.GetAll)
	r.GET("/boards/:id", boardHandler.GetByID)
	r.GET("/boards/:id/columns", columnHandler.GetAll)
	r.GET("/tasks/:id", taskHandler.GetByID)

	// Mutating routes
	authorized := r.Group("/")
	if parser != nil {
		authorized.Use(middleware.JWTAuthMiddleware(parser))
	}
	authorized.Use(middleware.Serialize(&sync.Mutex{}))
	{
		authorized.POST("/boards", boardHandler.Create)
		authorized.PUT("/boards/:id", boardHandler.Update)
		authorized.DELETE("/boards/:id", boardHandler.Delete)

		authorized.POST("/tasks", taskHandler.Create)
		authorized.PUT("/tasks/:id", taskHandler.Update)
		authorized.DELETE("/tasks/:id", taskHandler.Delete)
		authorized.POST("/tasks/:id/move", taskHandler.MoveTask)
		authorized.POST("/tasks/:id/block", taskHandler.Block)
		authorized.POST("/tasks/:id/unblock", taskHandler.Unblock)
	}
	return r
}

// Run serves until SIGINT or SIGTERM, then shuts down gracefully and closes storage.
func (s *Server) Run() error {
	srv := &http.Server{
		Addr:    ":" + s.Config.ServerPort,
		Handler: s.Engine,
	}

	errCh := make(chan error, 1)
	go func() {
		s.Logger.WithField("port", s.Config.ServerPort).Info("server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	select {
	case err := <-errCh:
		return err
	case <-quit:
	}
	s.Logger.Info("shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		return err
	}
	if err := s.Gateways.Close(); err != nil {
		return err
	}

	s.Logger.Info("server exited")
	return nil
}
