package papers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/pkg/errors"
	"golang.org/x/time/rate"
)

const semanticScholarBaseURL = "https://api.semanticscholar.org/graph/v1"

// searchFields is the field set requested from the Graph API.
const searchFields = "title,authors,year,abstract,citationCount,url,externalIds,publicationDate,journal"

// SemanticScholarClient queries the Semantic Scholar Graph API.
// Unauthenticated access is rate-limited hard server-side, so requests
// go through a local limiter as well.
type SemanticScholarClient struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	limiter    *rate.Limiter
}

// NewSemanticScholarClient creates a client. apiKey may be empty; the
// public tier works without one.
func NewSemanticScholarClient(apiKey string) *SemanticScholarClient {
	return &SemanticScholarClient{
		baseURL:    semanticScholarBaseURL,
		apiKey:     apiKey,
		httpClient: &http.Client{Timeout: 15 * time.Second},
		limiter:    rate.NewLimiter(rate.Every(time.Second), 1),
	}
}

type s2Author struct {
	Name string `json:"name"`
}

type s2Journal struct {
	Name string `json:"name"`
}

type s2Paper struct {
	Title         string            `json:"title"`
	Authors       []s2Author        `json:"authors"`
	Year          *int              `json:"year"`
	Abstract      string            `json:"abstract"`
	CitationCount int               `json:"citationCount"`
	URL           string     `json:"url"`
	Journal       *s2Journal `json:"journal"`

	// externalIds values are not uniformly strings (CorpusId is a
	// number), so they are decoded lazily.
	RawExternalIDs map[string]json.RawMessage `json:"externalIds"`
}

type s2SearchResponse struct {
	Data []s2Paper `json:"data"`
}

// Search queries paper search and normalizes the top results.
func (c *SemanticScholarClient) Search(ctx context.Context, query string, limit int) ([]Paper, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, errors.Wrap(err, "semantic scholar rate limit wait")
	}

	params := url.Values{}
	params.Set("query", query)
	params.Set("limit", fmt.Sprintf("%d", limit))
	params.Set("fields", searchFields)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet,
		c.baseURL+"/paper/search?"+params.Encode(), nil)
	if err != nil {
		return nil, errors.Wrap(err, "build semantic scholar request")
	}
	if c.apiKey != "" {
		req.Header.Set("x-api-key", c.apiKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, errors.Wrap(err, "semantic scholar request")
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, errors.Errorf("semantic scholar returned status %d", resp.StatusCode)
	}

	var payload s2SearchResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, errors.Wrap(err, "decode semantic scholar response")
	}

	out := make([]Paper, 0, len(payload.Data))
	for _, p := range payload.Data {
		out = append(out, p.normalize())
	}
	return out, nil
}

// Fetch resolves a single paper by its Semantic Scholar ID.
func (c *SemanticScholarClient) Fetch(ctx context.Context, paperID string) (*Paper, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, errors.Wrap(err, "semantic scholar rate limit wait")
	}

	params := url.Values{}
	params.Set("fields", searchFields)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet,
		c.baseURL+"/paper/"+url.PathEscape(paperID)+"?"+params.Encode(), nil)
	if err != nil {
		return nil, errors.Wrap(err, "build semantic scholar request")
	}
	if c.apiKey != "" {
		req.Header.Set("x-api-key", c.apiKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, errors.Wrap(err, "semantic scholar request")
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, errors.Errorf("semantic scholar returned status %d", resp.StatusCode)
	}

	var p s2Paper
	if err := json.NewDecoder(resp.Body).Decode(&p); err != nil {
		return nil, errors.Wrap(err, "decode semantic scholar response")
	}
	paper := p.normalize()
	return &paper, nil
}

func (p s2Paper) normalize() Paper {
	authors := make([]string, 0, 3)
	for i, a := range p.Authors {
		if i >= 3 {
			break
		}
		authors = append(authors, a.Name)
	}
	if len(authors) == 0 {
		authors = []string{"Unknown"}
	}

	year := "N/A"
	if p.Year != nil {
		year = fmt.Sprintf("%d", *p.Year)
	}

	abstract := p.Abstract
	if abstract == "" {
		abstract = "No abstract available"
	}

	journal := "Preprint"
	if p.Journal != nil && p.Journal.Name != "" {
		journal = p.Journal.Name
	}

	var doi string
	if raw, ok := p.RawExternalIDs["DOI"]; ok {
		_ = json.Unmarshal(raw, &doi)
	}

	title := p.Title
	if title == "" {
		title = "Unknown Title"
	}

	return Paper{
		Title:     title,
		Authors:   authors,
		Year:      year,
		Abstract:  truncate(abstract, 800),
		Citations: p.CitationCount,
		URL:       p.URL,
		DOI:       doi,
		Journal:   journal,
		Source:    SourceSemanticScholar,
	}
}
