// Package apiv1 exposes the JSON API: chat management, the research
// endpoint, document uploads and the report feed.
package apiv1

import (
	"bytes"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/renderer/html"

	"github.com/openscholar/scholard/ai/agents/orchestrator"
	"github.com/openscholar/scholard/ai/core/llm"
	"github.com/openscholar/scholard/ai/metrics"
	"github.com/openscholar/scholard/ai/session"
	"github.com/openscholar/scholard/internal/profile"
	"github.com/openscholar/scholard/papers"
	"github.com/openscholar/scholard/store"
)

type APIV1Service struct {
	Profile  *profile.Profile
	Store    *store.Store
	Sessions *session.Manager

	// LLM and Orchestrator are nil when no LLM is configured. The
	// contextual fast path and chat management still work without them.
	LLM          llm.Service
	Orchestrator *orchestrator.Orchestrator

	Fetcher  *papers.Fetcher
	Exporter *metrics.Exporter

	markdown goldmark.Markdown
}

func NewAPIV1Service(
	profile *profile.Profile,
	store *store.Store,
	llmService llm.Service,
	orch *orchestrator.Orchestrator,
	fetcher *papers.Fetcher,
	exporter *metrics.Exporter,
) *APIV1Service {
	return &APIV1Service{
		Profile:      profile,
		Store:        store,
		Sessions:     session.NewManager(),
		LLM:          llmService,
		Orchestrator: orch,
		Fetcher:      fetcher,
		Exporter:     exporter,
		markdown: goldmark.New(
			goldmark.WithExtensions(extension.GFM),
			goldmark.WithRendererOptions(html.WithHardWraps()),
		),
	}
}

func (s *APIV1Service) RegisterRoutes(e *echo.Echo) {
	g := e.Group("/api/v1")

	g.POST("/chats", s.createChat)
	g.GET("/chats", s.listChats)
	g.GET("/chats/:uid", s.getChat)
	g.PATCH("/chats/:uid", s.updateChat)
	g.DELETE("/chats/:uid", s.deleteChat)

	g.POST("/chats/:uid/research", s.research)
	g.GET("/chats/:uid/context", s.previewContext)
	g.POST("/chats/:uid/intent", s.testIntent)
	g.GET("/chats/:uid/feed.rss", s.chatFeed)

	g.POST("/chats/:uid/documents", s.uploadDocument)
	g.GET("/chats/:uid/documents", s.listDocuments)
	g.GET("/documents/:id", s.getDocument)
	g.DELETE("/documents/:id", s.deleteDocument)
}

// renderMarkdown converts a markdown report to HTML for clients that
// render reports directly.
func (s *APIV1Service) renderMarkdown(md string) (string, error) {
	var buf bytes.Buffer
	if err := s.markdown.Convert([]byte(md), &buf); err != nil {
		return "", errors.Wrap(err, "failed to render markdown")
	}
	return buf.String(), nil
}

// sessionHistory converts stored messages to the session history shape.
func sessionHistory(messages []*store.Message) []session.Message {
	history := make([]session.Message, 0, len(messages))
	for _, m := range messages {
		history = append(history, session.Message{
			Query:     m.Query,
			Report:    m.Report,
			CreatedTs: m.CreatedTs,
		})
	}
	return history
}
