// Package server assembles the echo HTTP server: session routing, the
// research pipeline, storage and the JSON API.
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/openscholar/scholard/ai/agents"
	"github.com/openscholar/scholard/ai/agents/orchestrator"
	"github.com/openscholar/scholard/ai/core/llm"
	"github.com/openscholar/scholard/ai/metrics"
	"github.com/openscholar/scholard/internal/profile"
	"github.com/openscholar/scholard/internal/util"
	"github.com/openscholar/scholard/papers"
	"github.com/openscholar/scholard/server/router/apiv1"
	"github.com/openscholar/scholard/store"
)

type Server struct {
	Profile *profile.Profile
	Store   *store.Store

	echoServer *echo.Echo
	apiV1      *apiv1.APIV1Service
	exporter   *metrics.Exporter
}

func NewServer(ctx context.Context, profile *profile.Profile, storeInstance *store.Store) (*Server, error) {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	e.Use(middleware.Recover())
	e.Use(middleware.CORS())
	e.Use(requestLogger())

	exporter := metrics.NewExporter(metrics.DefaultConfig())

	s2 := papers.NewSemanticScholarClient(profile.SemanticScholarAPIKey)
	arxiv := papers.NewArxivClient()
	fetcher := papers.NewFetcher(arxiv, s2)

	var llmService llm.Service
	var orch *orchestrator.Orchestrator
	if profile.IsAIEnabled() {
		var err error
		llmService, err = llm.NewService(&llm.Config{
			Provider: profile.LLMProvider,
			Model:    profile.LLMModel,
			APIKey:   profile.LLMAPIKey,
			BaseURL:  profile.LLMBaseURL,
			Timeout:  profile.LLMTimeout,
		})
		if err != nil {
			return nil, err
		}
		llmService = llm.WithMetrics(llmService, exporter)

		searcher := agents.NewSearcher(
			llmService,
			s2,
			arxiv,
			papers.NewDuckDuckGoClient(),
			papers.NewTavilyClient(profile.TavilyAPIKey),
			exporter,
		)
		orch = orchestrator.New(agents.NewPlanner(llmService), searcher, agents.NewWriter(llmService), exporter)

		go llmService.Warmup(ctx)
	} else {
		slog.Warn("no LLM configured, research pipeline disabled; recall from previous reports still works")
	}

	server := &Server{
		Profile:    profile,
		Store:      storeInstance,
		echoServer: e,
		exporter:   exporter,
	}

	server.apiV1 = apiv1.NewAPIV1Service(profile, storeInstance, llmService, orch, fetcher, exporter)
	server.apiV1.RegisterRoutes(e)

	e.GET("/healthz", server.healthz)
	e.GET("/metrics", echo.WrapHandler(exporter.Handler()))

	return server, nil
}

// Start launches the listener. It returns immediately; serve errors
// other than a clean shutdown are logged.
func (s *Server) Start(_ context.Context) error {
	go func() {
		address := fmt.Sprintf("%s:%d", s.Profile.Addr, s.Profile.Port)
		if err := s.echoServer.Start(address); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("failed to start echo server", "error", err)
		}
	}()
	return nil
}

func (s *Server) Shutdown(ctx context.Context) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	if err := s.echoServer.Shutdown(ctx); err != nil {
		slog.Error("failed to shutdown server", "error", err)
	}
	if err := s.Store.Close(); err != nil {
		slog.Error("failed to close database", "error", err)
	}
	slog.Info("scholard stopped properly")
}

func (s *Server) healthz(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]any{
		"status":     "healthy",
		"version":    s.Profile.Version,
		"ai_enabled": s.Profile.IsAIEnabled(),
	})
}

// requestLogger logs completed requests with slog, skipping the noisy
// health and metrics probes.
func requestLogger() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if util.HasPrefixes(c.Path(), "/healthz", "/metrics") {
				return next(c)
			}

			start := time.Now()
			err := next(c)
			status := c.Response().Status
			if err != nil {
				var httpErr *echo.HTTPError
				if errors.As(err, &httpErr) {
					status = httpErr.Code
				}
			}
			slog.Debug("http request",
				"method", c.Request().Method,
				"path", c.Request().URL.Path,
				"status", status,
				"duration_ms", time.Since(start).Milliseconds())
			return err
		}
	}
}
