package api

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/poiesic/curator"
	"github.com/poiesic/curator/catalog"
	"github.com/poiesic/curator/core"
	"github.com/poiesic/curator/ledger"
	"github.com/poiesic/curator/metrics"
	"github.com/poiesic/curator/priority"
	"github.com/poiesic/curator/storage"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// ErrEngineRequired is returned when no engine is provided.
var ErrEngineRequired = errors.New("engine required")

// Engine is the set of operations the API exposes.
type Engine interface {
	Recommend(ctx context.Context, userID string, query *core.Query) (*curator.Recommendation, error)
	Prioritize(ctx context.Context, tasks []core.Task) (*priority.Result, error)
	Decompose(ctx context.Context, userID, title, description string) (*curator.Decomposition, error)
	RecordInteraction(ctx context.Context, userID string, resourceID core.ResourceID, action core.Action, tags []string) (*ledger.Outcome, error)
	LikedTags(ctx context.Context, userID string) ([]string, error)
	InteractionFor(ctx context.Context, userID string, resourceID core.ResourceID) (core.Action, bool, error)
	Stats(ctx context.Context, userID string) (*core.InteractionStats, error)
	Usage(ctx context.Context, userID string) ([]core.FeatureUsage, error)
	Feedback(ctx context.Context, filter storage.FeedbackFilter) ([]*core.FeedbackRecord, error)
	Offline() bool
	Catalog() *catalog.Store
}

// Server provides the HTTP endpoints.
type Server struct {
	echo   *echo.Echo
	engine Engine
	logger *slog.Logger
}

// NewServer creates a server over the engine. A nil logger means slog.Default().
func NewServer(engine Engine, logger *slog.Logger) (*Server, error) {
	if engine == nil {
		return nil, ErrEngineRequired
	}
	if logger == nil {
		logger = slog.Default()
	}
	logger = logger.With("component", "api")

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.HTTPErrorHandler = errorHandler(logger)

	e.Use(middleware.Recover())
	e.Use(middleware.RequestID())
	e.Use(requestLogger(logger))

	s := &Server{echo: e, engine: engine, logger: logger}
	s.registerRoutes()
	return s, nil
}

func (s *Server) registerRoutes() {
	s.echo.GET("/health", s.handleHealth)
	s.echo.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	v1 := s.echo.Group("/api/v1")
	v1.POST("/recommend", s.handleRecommend)
	v1.POST("/prioritize", s.handlePrioritize)
	v1.POST("/decompose", s.handleDecompose)
	v1.POST("/feedback", s.handlePostFeedback)
	v1.GET("/feedback", s.handleListFeedback)
	v1.POST("/interactions", s.handleInteraction)

	users := v1.Group("/users/:userId")
	users.GET("/interactions/:resourceId", s.handleInteractionFor)
	users.GET("/liked-tags", s.handleLikedTags)
	users.GET("/stats", s.handleStats)
	users.GET("/usage", s.handleUsage)
}

// Handler returns the root HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.echo
}

// Start serves on addr until Shutdown is called.
func (s *Server) Start(addr string) error {
	s.logger.Info("starting http server", "addr", addr)
	err := s.echo.Start(addr)
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}

// Shutdown gracefully stops the server.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("shutting down http server")
	return s.echo.Shutdown(ctx)
}

func requestLogger(logger *slog.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			err := next(c)
			if err != nil {
				// resolve the status before recording it
				c.Error(err)
			}
			duration := time.Since(start)

			route := c.Path()
			status := c.Response().Status
			metrics.HTTPRequests.WithLabelValues(c.Request().Method, route, strconv.Itoa(status)).Inc()
			metrics.HTTPDuration.WithLabelValues(route).Observe(duration.Seconds())

			logger.Info("http request",
				"method", c.Request().Method,
				"uri", c.Request().RequestURI,
				"status", status,
				"duration", duration,
				"request_id", c.Response().Header().Get(echo.HeaderXRequestID),
			)
			return nil
		}
	}
}
