package apiv1

import (
	"bytes"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func uploadRequest(t *testing.T, s *APIV1Service, uid, filename, content string) (*httptest.ResponseRecorder, error) {
	t.Helper()
	e := echo.New()

	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	part, err := writer.CreateFormFile("file", filename)
	require.NoError(t, err)
	_, err = part.Write([]byte(content))
	require.NoError(t, err)
	require.NoError(t, writer.Close())

	req := httptest.NewRequest(http.MethodPost, "/", &body)
	req.Header.Set(echo.HeaderContentType, writer.FormDataContentType())
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("uid")
	c.SetParamValues(uid)

	return rec, s.uploadDocument(c)
}

func TestUploadDocument(t *testing.T) {
	s := newTestService(t)
	chat := seedChat(t, s)

	content := strings.Repeat("CRISPR gene editing enables precise DNA modification. ", 5)
	rec, err := uploadRequest(t, s, chat.ID, "notes.txt", content)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, rec.Code)

	var got struct {
		Success  bool             `json:"success"`
		Document documentResponse `json:"document"`
	}
	decodeJSON(t, rec, &got)
	assert.True(t, got.Success)
	assert.Equal(t, "notes.txt", got.Document.Filename)
	assert.Equal(t, "text/plain", got.Document.Mime)
	assert.NotZero(t, got.Document.WordCount)
	assert.NotEmpty(t, got.Document.ID)
	// Content stays out of the list shape.
	assert.Empty(t, got.Document.Content)
}

func TestUploadDocumentRejectsUnsupportedType(t *testing.T) {
	s := newTestService(t)
	chat := seedChat(t, s)

	_, err := uploadRequest(t, s, chat.ID, "paper.pdf", strings.Repeat("x", 100))
	assert.Equal(t, http.StatusBadRequest, httpStatus(t, err))
}

func TestUploadDocumentRejectsTooShort(t *testing.T) {
	s := newTestService(t)
	chat := seedChat(t, s)

	_, err := uploadRequest(t, s, chat.ID, "notes.txt", "too short")
	assert.Equal(t, http.StatusBadRequest, httpStatus(t, err))
}

func TestUploadDocumentChatNotFound(t *testing.T) {
	s := newTestService(t)

	_, err := uploadRequest(t, s, "missing", "notes.txt", strings.Repeat("x", 100))
	assert.Equal(t, http.StatusNotFound, httpStatus(t, err))
}

func TestGetAndDeleteDocument(t *testing.T) {
	s := newTestService(t)
	chat := seedChat(t, s)

	rec, err := uploadRequest(t, s, chat.ID, "notes.md", strings.Repeat("markdown content here ", 10))
	require.NoError(t, err)
	var uploaded struct {
		Document documentResponse `json:"document"`
	}
	decodeJSON(t, rec, &uploaded)

	rec, err = request(t, s, s.getDocument, http.MethodGet, "/", "", map[string]string{"id": uploaded.Document.ID})
	require.NoError(t, err)
	var got struct {
		Document documentResponse `json:"document"`
	}
	decodeJSON(t, rec, &got)
	assert.Equal(t, "text/markdown", got.Document.Mime)
	assert.Contains(t, got.Document.Content, "markdown content here")

	_, err = request(t, s, s.deleteDocument, http.MethodDelete, "/", "", map[string]string{"id": uploaded.Document.ID})
	require.NoError(t, err)

	_, err = request(t, s, s.getDocument, http.MethodGet, "/", "", map[string]string{"id": uploaded.Document.ID})
	assert.Equal(t, http.StatusNotFound, httpStatus(t, err))
}

func TestListDocumentsNewestFirst(t *testing.T) {
	s := newTestService(t)
	chat := seedChat(t, s)

	_, err := uploadRequest(t, s, chat.ID, "first.txt", strings.Repeat("first document content ", 10))
	require.NoError(t, err)

	rec, err := request(t, s, s.listDocuments, http.MethodGet, "/", "", map[string]string{"uid": chat.ID})
	require.NoError(t, err)
	var got struct {
		Documents []documentResponse `json:"documents"`
	}
	decodeJSON(t, rec, &got)
	require.Len(t, got.Documents, 1)
	assert.Equal(t, "first.txt", got.Documents[0].Filename)
}
