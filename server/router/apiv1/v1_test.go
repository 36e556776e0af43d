package apiv1

import (
	"context"
	"encoding/json"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"

	"github.com/openscholar/scholard/internal/profile"
	"github.com/openscholar/scholard/store"
	"github.com/openscholar/scholard/store/db/sqlite"
)

// newTestService builds an API service on a throwaway SQLite store,
// with no LLM and no research pipeline.
func newTestService(t *testing.T) *APIV1Service {
	t.Helper()
	p := &profile.Profile{
		Mode:   "dev",
		Driver: "sqlite",
		DSN:    filepath.Join(t.TempDir(), "scholard_test.db"),
		Port:   28090,
	}
	driver, err := sqlite.NewDB(p)
	require.NoError(t, err)
	t.Cleanup(func() { _ = driver.Close() })
	require.NoError(t, driver.Migrate(context.Background()))

	return NewAPIV1Service(p, store.New(driver, p), nil, nil, nil, nil)
}

// request runs a handler with path params and returns the recorder.
func request(t *testing.T, s *APIV1Service, handler echo.HandlerFunc, method, target, body string, params map[string]string) (*httptest.ResponseRecorder, error) {
	t.Helper()
	e := echo.New()

	req := httptest.NewRequest(method, target, strings.NewReader(body))
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	names := make([]string, 0, len(params))
	values := make([]string, 0, len(params))
	for name, value := range params {
		names = append(names, name)
		values = append(values, value)
	}
	c.SetParamNames(names...)
	c.SetParamValues(values...)

	return rec, handler(c)
}

func decodeJSON(t *testing.T, rec *httptest.ResponseRecorder, out any) {
	t.Helper()
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), out))
}

func httpStatus(t *testing.T, err error) int {
	t.Helper()
	var httpErr *echo.HTTPError
	require.ErrorAs(t, err, &httpErr)
	return httpErr.Code
}

// seedChat creates a chat, optionally with prior exchanges.
func seedChat(t *testing.T, s *APIV1Service, exchanges ...[2]string) *store.Chat {
	t.Helper()
	ctx := context.Background()
	chat, err := s.Store.CreateChat(ctx, &store.Chat{})
	require.NoError(t, err)
	for i, exchange := range exchanges {
		_, err := s.Store.CreateMessage(ctx, &store.Message{
			ChatID:    chat.ID,
			Query:     exchange[0],
			Report:    exchange[1],
			CreatedTs: int64(100 + i),
		})
		require.NoError(t, err)
	}
	return chat
}
