package apiv1

import (
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/openscholar/scholard/ai/core/llm"
	"github.com/openscholar/scholard/store"
)

const (
	// maxUploadBytes caps uploads at 20 MB.
	maxUploadBytes = 20 * 1024 * 1024

	// minDocumentRunes rejects near-empty uploads.
	minDocumentRunes = 50

	// summaryPreviewLimit caps the text fed to the summary prompt.
	summaryPreviewLimit = 4000
)

// mimeByExtension maps supported upload extensions to their MIME type.
// Binary formats like PDF and DOCX need a text extractor we do not
// ship, so only plain text formats are accepted.
var mimeByExtension = map[string]string{
	".txt":      "text/plain",
	".md":       "text/markdown",
	".markdown": "text/markdown",
}

type documentResponse struct {
	ID        string `json:"id"`
	ChatUID   string `json:"chat_uid"`
	Filename  string `json:"filename"`
	Mime      string `json:"mime"`
	Summary   string `json:"summary"`
	WordCount int32  `json:"word_count"`
	SizeBytes int64  `json:"size_bytes"`
	CreatedTs int64  `json:"created_ts"`

	// Content is only populated by the single-document endpoint.
	Content string `json:"content,omitempty"`
}

func convertDocument(doc *store.Document, withContent bool) *documentResponse {
	response := &documentResponse{
		ID:        doc.ID,
		ChatUID:   doc.ChatID,
		Filename:  doc.Filename,
		Mime:      doc.Mime,
		Summary:   doc.Summary,
		WordCount: doc.WordCount,
		SizeBytes: doc.SizeBytes,
		CreatedTs: doc.CreatedTs,
	}
	if withContent {
		response.Content = doc.Content
	}
	return response
}

func (s *APIV1Service) uploadDocument(c echo.Context) error {
	ctx := c.Request().Context()
	uid := c.Param("uid")

	chat, err := s.Store.GetChat(ctx, &store.FindChat{ID: &uid})
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	if chat == nil {
		return echo.NewHTTPError(http.StatusNotFound, "chat not found")
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "No file provided")
	}
	if fileHeader.Filename == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "No file selected")
	}
	if fileHeader.Size > maxUploadBytes {
		return echo.NewHTTPError(http.StatusBadRequest, "File too large. Maximum size is 20MB.")
	}

	ext := strings.ToLower(filepath.Ext(fileHeader.Filename))
	mime, ok := mimeByExtension[ext]
	if !ok {
		return echo.NewHTTPError(http.StatusBadRequest,
			fmt.Sprintf("Unsupported file type: %s. Please upload TXT or Markdown files.", ext))
	}

	file, err := fileHeader.Open()
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	defer file.Close()

	raw, err := io.ReadAll(io.LimitReader(file, maxUploadBytes+1))
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	if len(raw) > maxUploadBytes {
		return echo.NewHTTPError(http.StatusBadRequest, "File too large. Maximum size is 20MB.")
	}

	content := strings.TrimSpace(string(raw))
	if len([]rune(content)) < minDocumentRunes {
		return echo.NewHTTPError(http.StatusBadRequest, "Document appears to be empty or too short")
	}

	doc, err := s.Store.CreateDocument(ctx, &store.Document{
		ChatID:    uid,
		Filename:  filepath.Base(fileHeader.Filename),
		Mime:      mime,
		Content:   content,
		Summary:   s.summarizeDocument(c, content),
		SizeBytes: int64(len(raw)),
	})
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusOK, map[string]any{
		"success":  true,
		"document": convertDocument(doc, false),
	})
}

const documentSummaryPrompt = `Analyze this document and provide a concise summary (3-5 sentences) covering:
1. Main topic/subject
2. Key findings or arguments
3. Document type (research paper, article, report, etc.)

Document text:
%s

Summary:`

// summarizeDocument asks the LLM for a short document summary. A
// document without a summary is still stored, so failures only log.
func (s *APIV1Service) summarizeDocument(c echo.Context, content string) string {
	if s.LLM == nil {
		return ""
	}

	preview := content
	if runes := []rune(preview); len(runes) > summaryPreviewLimit {
		preview = string(runes[:summaryPreviewLimit])
	}

	summary, _, err := s.LLM.Chat(c.Request().Context(), []llm.Message{
		llm.UserMessage(fmt.Sprintf(documentSummaryPrompt, preview)),
	})
	if err != nil {
		slog.Warn("failed to summarize document", "error", err)
		return ""
	}
	return strings.TrimSpace(summary)
}

func (s *APIV1Service) listDocuments(c echo.Context) error {
	ctx := c.Request().Context()
	uid := c.Param("uid")

	documents, err := s.Store.ListDocuments(ctx, &store.FindDocument{ChatID: &uid})
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	list := make([]*documentResponse, 0, len(documents))
	for _, doc := range documents {
		list = append(list, convertDocument(doc, false))
	}
	return c.JSON(http.StatusOK, map[string]any{"documents": list})
}

func (s *APIV1Service) getDocument(c echo.Context) error {
	ctx := c.Request().Context()
	id := c.Param("id")

	doc, err := s.Store.GetDocument(ctx, &store.FindDocument{ID: &id})
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	if doc == nil {
		return echo.NewHTTPError(http.StatusNotFound, "document not found")
	}
	return c.JSON(http.StatusOK, map[string]any{"document": convertDocument(doc, true)})
}

func (s *APIV1Service) deleteDocument(c echo.Context) error {
	ctx := c.Request().Context()
	id := c.Param("id")

	doc, err := s.Store.GetDocument(ctx, &store.FindDocument{ID: &id})
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	if doc == nil {
		return echo.NewHTTPError(http.StatusNotFound, "document not found")
	}

	if err := s.Store.DeleteDocument(ctx, &store.DeleteDocument{ID: id}); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, map[string]any{"success": true})
}
