// Package server exposes the people session over HTTP.
package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/spigell/replica-matcher/internal/people"
	"github.com/spigell/replica-matcher/internal/ranking"
	"github.com/spigell/replica-matcher/internal/session"
	"github.com/spigell/replica-matcher/internal/trigger"
)

// Server provides HTTP endpoints for the people session.
type Server struct {
	echo    *echo.Echo
	tracker *session.Tracker
	ranker  *ranking.Ranker
	logger  *zap.Logger
	config  *Config
}

// Config holds HTTP server configuration.
type Config struct {
	Host string `mapstructure:"host"`
	Port int    `mapstructure:"port"`
}

// NewServer creates a new HTTP server. gatherer backs the /metrics endpoint.
func NewServer(tracker *session.Tracker, ranker *ranking.Ranker, gatherer prometheus.Gatherer, logger *zap.Logger, cfg *Config) (*Server, error) {
	if tracker == nil {
		return nil, fmt.Errorf("tracker cannot be nil")
	}
	if logger == nil {
		return nil, fmt.Errorf("logger is required for request tracking and debugging")
	}
	if ranker == nil {
		ranker = ranking.New(nil, logger)
	}
	if gatherer == nil {
		gatherer = prometheus.DefaultGatherer
	}
	if cfg == nil {
		cfg = &Config{
			Host: "localhost",
			Port: 8080,
		}
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	e.Use(middleware.Recover())
	e.Use(middleware.RequestID())
	e.Use(func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			err := next(c)
			duration := time.Since(start)

			logger.Info("http request",
				zap.String("method", c.Request().Method),
				zap.String("uri", c.Request().RequestURI),
				zap.Int("status", c.Response().Status),
				zap.Duration("duration", duration),
				zap.String("request_id", c.Response().Header().Get(echo.HeaderXRequestID)),
			)

			return err
		}
	})

	s := &Server{
		echo:    e,
		tracker: tracker,
		ranker:  ranker,
		logger:  logger,
		config:  cfg,
	}

	s.registerRoutes(gatherer)

	return s, nil
}

func (s *Server) registerRoutes(gatherer prometheus.Gatherer) {
	s.echo.GET("/health", s.handleHealth)
	s.echo.GET("/metrics", echo.WrapHandler(promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})))

	v1 := s.echo.Group("/api/v1")
	v1.POST("/messages", s.handleMessage)
	v1.GET("/people", s.handlePeople)
	v1.GET("/people/:category", s.handlePeopleByCategory)
	v1.DELETE("/people", s.handleClear)
	v1.GET("/filters", s.handleFilters)
}

// Handler returns the HTTP handler, for tests and embedding.
func (s *Server) Handler() http.Handler {
	return s.echo
}

// MessageRequest is the request body for POST /api/v1/messages.
type MessageRequest struct {
	ID        string    `json:"id"`
	Role      string    `json:"role"`
	Content   string    `json:"content"`
	Replica   string    `json:"replica"`
	UserQuery string    `json:"user_query"`
	CreatedAt time.Time `json:"created_at"`
}

// PeopleResponse is the people list returned by the API.
type PeopleResponse struct {
	MessageID  string                `json:"messageId,omitempty"`
	Category   trigger.Category      `json:"category"`
	Query      string                `json:"query"`
	People     []people.RankedPerson `json:"people"`
	TotalCount int                   `json:"totalCount"`
	BestMatch  *people.RankedPerson  `json:"bestMatch,omitempty"`
}

// HealthResponse is the response body for GET /health.
type HealthResponse struct {
	Status string `json:"status"`
}

func (s *Server) handleHealth(c echo.Context) error {
	return c.JSON(http.StatusOK, HealthResponse{Status: "ok"})
}

// handleMessage runs one assistant message through the session.
func (s *Server) handleMessage(c echo.Context) error {
	var req MessageRequest
	if err := c.Bind(&req); err != nil {
		s.logger.Warn("invalid message request", zap.Error(err))
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	if strings.TrimSpace(req.Content) == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "content field is required")
	}

	role := session.RoleAssistant
	if req.Role != "" {
		role = session.Role(strings.ToLower(req.Role))
	}

	result, err := s.tracker.Observe(c.Request().Context(), session.Message{
		ID:        req.ID,
		Role:      role,
		Content:   req.Content,
		Replica:   req.Replica,
		UserQuery: req.UserQuery,
		Created:   req.CreatedAt,
	})
	switch {
	case errors.Is(err, session.ErrStale):
		return echo.NewHTTPError(http.StatusConflict, "a newer message has already been processed")
	case errors.Is(err, session.ErrNotAssistant):
		return echo.NewHTTPError(http.StatusUnprocessableEntity, "only assistant messages are accepted")
	case err != nil:
		s.logger.Error("processing message failed", zap.Error(err))
		return echo.NewHTTPError(http.StatusInternalServerError, "processing message failed")
	}

	return c.JSON(http.StatusOK, newPeopleResponse(result))
}

func (s *Server) handlePeople(c echo.Context) error {
	result, ok := s.tracker.Current()
	if !ok {
		return c.JSON(http.StatusOK, emptyResponse(trigger.General, ""))
	}
	return c.JSON(http.StatusOK, newPeopleResponse(result))
}

// handlePeopleByCategory returns the current list when it was produced for
// the requested category, re-ranked against q when q is given.
func (s *Server) handlePeopleByCategory(c echo.Context) error {
	category := trigger.Category(strings.ToLower(c.Param("category")))
	if !category.Valid() {
		return echo.NewHTTPError(http.StatusBadRequest, fmt.Sprintf("unknown category %q", c.Param("category")))
	}
	query := strings.TrimSpace(c.QueryParam("q"))

	result, ok := s.tracker.Current()
	if !ok || result.Category != category {
		return c.JSON(http.StatusOK, emptyResponse(category, query))
	}

	if query != "" && query != result.Query {
		raw := make([]people.RawPerson, 0, len(result.People))
		for _, p := range result.People {
			raw = append(raw, p.RawPerson)
		}
		result.People = s.ranker.Rank(raw, query)
		result.Query = query
	}

	return c.JSON(http.StatusOK, newPeopleResponse(result))
}

func (s *Server) handleClear(c echo.Context) error {
	s.tracker.Clear()
	return c.NoContent(http.StatusNoContent)
}

func (s *Server) handleFilters(c echo.Context) error {
	return c.JSON(http.StatusOK, s.tracker.Filters())
}

func newPeopleResponse(result *session.Result) PeopleResponse {
	return PeopleResponse{
		MessageID:  result.MessageID,
		Category:   result.Category,
		Query:      result.Query,
		People:     result.People,
		TotalCount: len(result.People),
		BestMatch:  result.Best(),
	}
}

func emptyResponse(category trigger.Category, query string) PeopleResponse {
	return PeopleResponse{
		Category: category,
		Query:    query,
		People:   []people.RankedPerson{},
	}
}

// Start starts the HTTP server.
func (s *Server) Start() error {
	addr := fmt.Sprintf("%s:%d", s.config.Host, s.config.Port)
	s.logger.Info("starting http server", zap.String("addr", addr))
	return s.echo.Start(addr)
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("shutting down http server")
	return s.echo.Shutdown(ctx)
}
