package papers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/pkg/errors"
)

const tavilyBaseURL = "https://api.tavily.com"

// TavilyClient queries the Tavily search API. It is the preferred web
// source when an API key is configured; DuckDuckGo scraping is the
// keyless fallback.
type TavilyClient struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

func NewTavilyClient(apiKey string) *TavilyClient {
	return &TavilyClient{
		baseURL:    tavilyBaseURL,
		apiKey:     apiKey,
		httpClient: &http.Client{Timeout: 15 * time.Second},
	}
}

// Enabled reports whether an API key is configured.
func (c *TavilyClient) Enabled() bool {
	return c.apiKey != ""
}

type tavilyRequest struct {
	APIKey     string `json:"api_key"`
	Query      string `json:"query"`
	MaxResults int    `json:"max_results"`
}

type tavilyResult struct {
	Title   string `json:"title"`
	URL     string `json:"url"`
	Content string `json:"content"`
}

type tavilyResponse struct {
	Results []tavilyResult `json:"results"`
}

// Search runs a web search and normalizes the results.
func (c *TavilyClient) Search(ctx context.Context, query string, limit int) ([]Paper, error) {
	if !c.Enabled() {
		return nil, errors.New("tavily api key not configured")
	}

	payload, err := json.Marshal(tavilyRequest{
		APIKey:     c.apiKey,
		Query:      query,
		MaxResults: limit,
	})
	if err != nil {
		return nil, errors.Wrap(err, "encode tavily request")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.baseURL+"/search", bytes.NewReader(payload))
	if err != nil {
		return nil, errors.Wrap(err, "build tavily request")
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, errors.Wrap(err, "tavily request")
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, errors.Errorf("tavily returned status %d", resp.StatusCode)
	}

	var decoded tavilyResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return nil, errors.Wrap(err, "decode tavily response")
	}

	out := make([]Paper, 0, len(decoded.Results))
	for _, r := range decoded.Results {
		out = append(out, Paper{
			Title:    r.Title,
			Authors:  []string{"Web Source"},
			Year:     time.Now().Format("2006"),
			Abstract: truncate(r.Content, 800),
			URL:      r.URL,
			Journal:  "Web Article",
			Source:   SourceWeb,
		})
	}
	return out, nil
}
