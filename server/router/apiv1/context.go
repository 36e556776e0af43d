package apiv1

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/openscholar/scholard/ai/session"
	"github.com/openscholar/scholard/store"
)

// previewContext shows the session context that would back a recall
// answer. Useful when debugging routing behavior.
func (s *APIV1Service) previewContext(c echo.Context) error {
	ctx := c.Request().Context()
	uid := c.Param("uid")

	chat, err := s.Store.GetChat(ctx, &store.FindChat{ID: &uid})
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	if chat == nil {
		return echo.NewHTTPError(http.StatusNotFound, "chat not found")
	}

	messages, err := s.Store.ListMessages(ctx, &store.FindMessage{ChatID: &uid})
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	sessionCtx := session.BuildContext(uid, sessionHistory(messages))

	return c.JSON(http.StatusOK, map[string]any{
		"chat_uid":            uid,
		"last_research_topic": sessionCtx.LastResearchTopic,
		"last_paper_title":    sessionCtx.LastPaperTitle,
		"has_methodology":     sessionCtx.LastMethodology != "",
		"has_findings":        sessionCtx.LastFindings != "",
		"message_count":       len(messages),
	})
}

type testIntentRequest struct {
	Query string `json:"query"`
}

// testIntent classifies a query without answering it.
func (s *APIV1Service) testIntent(c echo.Context) error {
	ctx := c.Request().Context()
	uid := c.Param("uid")

	chat, err := s.Store.GetChat(ctx, &store.FindChat{ID: &uid})
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	if chat == nil {
		return echo.NewHTTPError(http.StatusNotFound, "chat not found")
	}

	request := &testIntentRequest{}
	if err := c.Bind(request); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	query := strings.TrimSpace(request.Query)
	if query == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "query is required")
	}

	messages, err := s.Store.ListMessages(ctx, &store.FindMessage{ChatID: &uid})
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	decision := s.Sessions.ProcessQuery(query, uid, sessionHistory(messages))
	return c.JSON(http.StatusOK, map[string]any{
		"query":                query,
		"detected_intent":      decision.Intent.String(),
		"confidence":           decision.Confidence,
		"should_research":      decision.ShouldResearch,
		"response_hint":        decision.ResponseHint,
		"has_previous_context": decision.HasPreviousContext,
	})
}
