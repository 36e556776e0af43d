package apiv1

import (
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/openscholar/scholard/ai/core/llm"
	"github.com/openscholar/scholard/internal/util"
	"github.com/openscholar/scholard/papers"
	"github.com/openscholar/scholard/store"
)

// conversationHistoryLimit caps the exchanges handed to the research
// pipeline to keep prompts inside token limits.
const conversationHistoryLimit = 5

type researchRequest struct {
	Query string `json:"query"`
}

type researchResponse struct {
	Success    bool    `json:"success"`
	Query      string  `json:"query"`
	Report     string  `json:"report"`
	HTMLReport string  `json:"html_report,omitempty"`
	Source     string  `json:"source"`
	Intent     string  `json:"intent,omitempty"`
	Confidence float32 `json:"confidence,omitempty"`
	PaperCount int     `json:"paper_count"`

	// ContextUsed reports whether prior exchanges informed the answer.
	ContextUsed bool `json:"conversation_context_used"`

	DocumentUsed string `json:"document_used,omitempty"`
}

func (s *APIV1Service) research(c echo.Context) error {
	ctx := c.Request().Context()
	uid := c.Param("uid")

	chat, err := s.Store.GetChat(ctx, &store.FindChat{ID: &uid})
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	if chat == nil {
		return echo.NewHTTPError(http.StatusNotFound, "chat not found")
	}

	request := &researchRequest{}
	if err := c.Bind(request); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	query := strings.TrimSpace(request.Query)
	if query == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "Please enter a research question")
	}
	if message := validateQuery(query); message != "" {
		return echo.NewHTTPError(http.StatusBadRequest, message)
	}

	// Uploaded documents take priority over any search.
	documents, err := s.Store.ListDocuments(ctx, &store.FindDocument{ChatID: &uid})
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	if len(documents) > 0 && s.LLM != nil {
		return s.answerFromDocument(c, chat, documents[0], query)
	}

	// A pasted paper link is answered from the paper's metadata, not by
	// running the full pipeline.
	if s.Fetcher != nil && papers.DetectPaperURL(query) {
		return s.answerPaperURL(c, chat, query)
	}

	limit := conversationHistoryLimit
	messages, err := s.Store.ListMessages(ctx, &store.FindMessage{ChatID: &uid, Limit: &limit})
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	history := sessionHistory(messages)

	decision := s.Sessions.ProcessQuery(query, uid, history)
	if s.Exporter != nil {
		s.Exporter.RecordIntent(decision.Intent.String())
	}
	slog.Debug("routed research query",
		"chat", uid,
		"intent", decision.Intent,
		"confidence", decision.Confidence,
		"should_research", decision.ShouldResearch)

	// Fast path: answer from the previous report without searching.
	if !decision.ShouldResearch {
		report := s.Sessions.GenerateContextualResponse(decision.Intent, decision.Context, query)
		if s.Exporter != nil {
			s.Exporter.RecordContextualResponse()
		}
		if _, err := s.Store.CreateMessage(ctx, &store.Message{ChatID: uid, Query: query, Report: report}); err != nil {
			return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
		}
		return c.JSON(http.StatusOK, &researchResponse{
			Success:     true,
			Query:       query,
			Report:      report,
			Source:      "session_memory",
			Intent:      decision.Intent.String(),
			Confidence:  decision.Confidence,
			ContextUsed: decision.HasPreviousContext,
		})
	}

	if s.Orchestrator == nil {
		return echo.NewHTTPError(http.StatusServiceUnavailable, "research pipeline is not configured; set an LLM API key")
	}

	result, err := s.Orchestrator.Research(ctx, query, history)
	if err != nil {
		slog.Error("research pipeline failed", "chat", uid, "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, fmt.Sprintf("An error occurred: %v", err))
	}

	if _, err := s.Store.CreateMessage(ctx, &store.Message{ChatID: uid, Query: query, Report: result.Report}); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	s.autoRenameChat(c, chat, autoTitle(query))

	htmlReport, err := s.renderMarkdown(result.Report)
	if err != nil {
		slog.Warn("failed to render report html", "error", err)
	}

	return c.JSON(http.StatusOK, &researchResponse{
		Success:     true,
		Query:       query,
		Report:      result.Report,
		HTMLReport:  htmlReport,
		Source:      "academic_papers",
		Intent:      decision.Intent.String(),
		Confidence:  decision.Confidence,
		PaperCount:  len(result.Papers),
		ContextUsed: len(history) > 0,
	})
}

// validateQuery rejects queries too short or too garbled to research.
// Returns an empty string when the query is acceptable.
func validateQuery(query string) string {
	words := strings.Fields(query)
	if len(words) < 3 && len([]rune(query)) < 10 {
		return `Please enter a more detailed research question. For example: "What is quantum computing?" or "How does climate change affect food security?"`
	}

	distinct := map[rune]struct{}{}
	for _, r := range query {
		if r != ' ' {
			distinct[r] = struct{}{}
		}
	}
	if len(distinct) < 3 {
		return "Please enter a valid research question with meaningful words."
	}

	if !strings.ContainsAny(query, "aeiouAEIOU") && len([]rune(query)) > 5 {
		return "Please enter a valid research question. Your input appears to be random characters."
	}
	return ""
}

// autoTitle derives a chat title from the first substantive query.
func autoTitle(query string) string {
	words := strings.Fields(query)
	if len(words) <= 6 {
		return strings.Join(words, " ")
	}
	return strings.Join(words[:6], " ") + "..."
}

// autoRenameChat renames a chat still carrying the default title.
func (s *APIV1Service) autoRenameChat(c echo.Context, chat *store.Chat, title string) {
	if chat.Title != store.DefaultChatTitle || title == "" {
		return
	}
	titleSource := store.TitleSourceAuto
	if _, err := s.Store.UpdateChat(c.Request().Context(), &store.UpdateChat{
		ID:          chat.ID,
		Title:       &title,
		TitleSource: &titleSource,
	}); err != nil {
		slog.Warn("failed to auto-rename chat", "chat", chat.ID, "error", err)
	}
}

const documentPreviewLimit = 6000

const documentAnswerPrompt = `You are analyzing an uploaded research document. Answer the user's question based ONLY on the document content provided.

**Document Information:**
- Filename: %s
- Word Count: %d

**Document Summary:**
%s

**Document Content:**
%s

**User Question:**
%s

**Instructions:**
- Answer the question based ONLY on the document content above
- If asking for a summary, provide a clear, structured summary
- If asking about topics, extract and list the main topics
- If asking about references, extract any citations or references mentioned
- If the question cannot be answered from the document, say so clearly
- Format your response in markdown with clear headings
- Be specific and cite relevant parts of the document

**Response:**`

func (s *APIV1Service) answerFromDocument(c echo.Context, chat *store.Chat, doc *store.Document, query string) error {
	ctx := c.Request().Context()

	preview := doc.Content
	if runes := []rune(preview); len(runes) > documentPreviewLimit {
		preview = string(runes[:documentPreviewLimit])
	}

	prompt := fmt.Sprintf(documentAnswerPrompt, doc.Filename, doc.WordCount, doc.Summary, preview, query)
	report, _, err := s.LLM.Chat(ctx, []llm.Message{llm.UserMessage(prompt)})
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, fmt.Sprintf("Failed to analyze document: %v", err))
	}
	report = strings.TrimSpace(report)

	if _, err := s.Store.CreateMessage(ctx, &store.Message{ChatID: chat.ID, Query: query, Report: report}); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	shortName, _ := util.TruncateString(doc.Filename, 30)
	s.autoRenameChat(c, chat, "Analysis: "+shortName)

	return c.JSON(http.StatusOK, &researchResponse{
		Success:      true,
		Query:        query,
		Report:       report,
		Source:       "uploaded_document",
		DocumentUsed: doc.Filename,
	})
}

const paperAnswerPrompt = `You are answering a question about a specific research paper. Use ONLY the metadata and abstract below.

**Paper:** %s
**Authors:** %s
**Year:** %s | **Journal:** %s | **Citations:** %d

**Abstract:**
%s

**Question:**
%s

Answer in markdown. If the abstract does not contain enough information, say so clearly.`

func (s *APIV1Service) answerPaperURL(c echo.Context, chat *store.Chat, query string) error {
	ctx := c.Request().Context()

	url, question := papers.ExtractURLAndQuestion(query)
	paper, err := s.Fetcher.FetchPaperInfo(ctx, url)
	if err != nil {
		slog.Warn("failed to fetch paper from url", "url", url, "error", err)
		return echo.NewHTTPError(http.StatusBadGateway, "Could not fetch paper details from the provided URL.")
	}

	var report string
	if question != "" && s.LLM != nil {
		prompt := fmt.Sprintf(paperAnswerPrompt,
			paper.Title,
			strings.Join(paper.Authors, ", "),
			paper.Year,
			paper.Journal,
			paper.Citations,
			paper.Abstract,
			question,
		)
		answer, _, err := s.LLM.Chat(ctx, []llm.Message{llm.UserMessage(prompt)})
		if err != nil {
			return echo.NewHTTPError(http.StatusInternalServerError, fmt.Sprintf("An error occurred: %v", err))
		}
		report = strings.TrimSpace(answer)
	} else {
		report = formatPaperReport(paper)
	}

	if _, err := s.Store.CreateMessage(ctx, &store.Message{ChatID: chat.ID, Query: query, Report: report}); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	shortTitle, _ := util.TruncateString(paper.Title, 60)
	s.autoRenameChat(c, chat, shortTitle)

	return c.JSON(http.StatusOK, &researchResponse{
		Success:    true,
		Query:      query,
		Report:     report,
		Source:     "paper_url",
		PaperCount: 1,
	})
}

// formatPaperReport renders fetched paper metadata as a short report.
func formatPaperReport(paper *papers.Paper) string {
	var b strings.Builder
	fmt.Fprintf(&b, "## %s\n\n", paper.Title)
	fmt.Fprintf(&b, "**Authors:** %s\n\n", strings.Join(paper.Authors, ", "))
	fmt.Fprintf(&b, "**Year:** %s | **Journal:** %s | **Citations:** %d\n\n", paper.Year, paper.Journal, paper.Citations)
	fmt.Fprintf(&b, "### Abstract\n\n%s\n\n", paper.Abstract)
	fmt.Fprintf(&b, "---\n%s\n", papers.FormatCitation(*paper))
	return b.String()
}
