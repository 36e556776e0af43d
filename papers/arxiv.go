package papers

import (
	"context"
	"encoding/xml"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/pkg/errors"
	"golang.org/x/time/rate"
)

const arxivBaseURL = "http://export.arxiv.org/api/query"

// ArxivClient queries the arXiv Atom API. arXiv asks clients to keep
// at most one request every three seconds.
type ArxivClient struct {
	baseURL    string
	httpClient *http.Client
	limiter    *rate.Limiter
}

func NewArxivClient() *ArxivClient {
	return &ArxivClient{
		baseURL:    arxivBaseURL,
		httpClient: &http.Client{Timeout: 15 * time.Second},
		limiter:    rate.NewLimiter(rate.Every(3*time.Second), 1),
	}
}

type atomFeed struct {
	Entries []atomEntry `xml:"entry"`
}

type atomEntry struct {
	ID        string       `xml:"id"`
	Title     string       `xml:"title"`
	Summary   string       `xml:"summary"`
	Published string       `xml:"published"`
	Authors   []atomAuthor `xml:"author"`
	Links     []atomLink   `xml:"link"`
}

type atomAuthor struct {
	Name string `xml:"name"`
}

type atomLink struct {
	Href string `xml:"href,attr"`
	Rel  string `xml:"rel,attr"`
	Type string `xml:"type,attr"`
}

// Search runs a relevance-sorted full-text query.
func (c *ArxivClient) Search(ctx context.Context, query string, limit int) ([]Paper, error) {
	params := url.Values{}
	params.Set("search_query", "all:"+query)
	params.Set("start", "0")
	params.Set("max_results", fmt.Sprintf("%d", limit))
	params.Set("sortBy", "relevance")
	params.Set("sortOrder", "descending")

	body, err := c.get(ctx, c.baseURL+"?"+params.Encode())
	if err != nil {
		return nil, err
	}
	return parseArxivFeed(body)
}

// FetchByID resolves a single paper by arXiv identifier (e.g. 2103.00020).
func (c *ArxivClient) FetchByID(ctx context.Context, arxivID string) (*Paper, error) {
	params := url.Values{}
	params.Set("id_list", arxivID)

	body, err := c.get(ctx, c.baseURL+"?"+params.Encode())
	if err != nil {
		return nil, err
	}
	list, err := parseArxivFeed(body)
	if err != nil {
		return nil, err
	}
	if len(list) == 0 {
		return nil, errors.Errorf("paper %s not found on arXiv", arxivID)
	}
	return &list[0], nil
}

func (c *ArxivClient) get(ctx context.Context, rawURL string) ([]byte, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, errors.Wrap(err, "arxiv rate limit wait")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, errors.Wrap(err, "build arxiv request")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, errors.Wrap(err, "arxiv request")
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, errors.Errorf("arxiv returned status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, errors.Wrap(err, "read arxiv response")
	}
	return body, nil
}

func parseArxivFeed(body []byte) ([]Paper, error) {
	var feed atomFeed
	if err := xml.Unmarshal(body, &feed); err != nil {
		return nil, errors.Wrap(err, "parse arxiv feed")
	}

	out := make([]Paper, 0, len(feed.Entries))
	for _, entry := range feed.Entries {
		authors := make([]string, 0, 3)
		for i, a := range entry.Authors {
			if i >= 3 {
				break
			}
			authors = append(authors, a.Name)
		}
		if len(authors) == 0 {
			authors = []string{"Unknown"}
		}

		year := "N/A"
		if len(entry.Published) >= 4 {
			year = entry.Published[:4]
		}

		// The entry ID is the abstract URL, e.g.
		// http://arxiv.org/abs/2103.00020v1
		arxivID := entry.ID
		if idx := strings.LastIndex(arxivID, "/abs/"); idx >= 0 {
			arxivID = arxivID[idx+len("/abs/"):]
		}

		link := entry.ID
		for _, l := range entry.Links {
			if l.Rel == "alternate" && l.Href != "" {
				link = l.Href
				break
			}
		}

		title := strings.TrimSpace(strings.ReplaceAll(entry.Title, "\n", " "))
		if title == "" {
			title = "Unknown Title"
		}

		abstract := strings.TrimSpace(entry.Summary)
		if abstract == "" {
			abstract = "No abstract available"
		}

		out = append(out, Paper{
			Title:     title,
			Authors:   authors,
			Year:      year,
			Abstract:  truncate(abstract, 800),
			Citations: 0, // arXiv does not report citation counts
			URL:       link,
			DOI:       "arXiv:" + arxivID,
			Journal:   "arXiv Preprint",
			Source:    SourceArxiv,
		})
	}
	return out, nil
}
