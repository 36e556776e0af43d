package papers

import (
	"context"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/pkg/errors"
	"golang.org/x/net/html"
)

const duckduckgoURL = "https://html.duckduckgo.com/html/"

// DuckDuckGoClient scrapes the keyless DuckDuckGo HTML endpoint for
// general web context to complement the academic sources.
type DuckDuckGoClient struct {
	endpoint   string
	httpClient *http.Client
}

func NewDuckDuckGoClient() *DuckDuckGoClient {
	return &DuckDuckGoClient{
		endpoint:   duckduckgoURL,
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}
}

// Search posts a query and parses the top organic results.
func (c *DuckDuckGoClient) Search(ctx context.Context, query string, limit int) ([]Paper, error) {
	form := url.Values{}
	form.Set("q", query)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint,
		strings.NewReader(form.Encode()))
	if err != nil {
		return nil, errors.Wrap(err, "build web search request")
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("User-Agent", "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, errors.Wrap(err, "web search request")
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, errors.Errorf("web search returned status %d", resp.StatusCode)
	}

	return parseDuckDuckGoResults(resp.Body, limit)
}

// parseDuckDuckGoResults walks the result page and extracts title,
// link and snippet from each div.result block.
func parseDuckDuckGoResults(r io.Reader, limit int) ([]Paper, error) {
	doc, err := html.Parse(r)
	if err != nil {
		return nil, errors.Wrap(err, "parse web search response")
	}

	var out []Paper
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if len(out) >= limit {
			return
		}
		if n.Type == html.ElementNode && n.Data == "div" && hasClass(n, "result") {
			title, link := findResultAnchor(n, "result__a")
			snippet, _ := findResultAnchor(n, "result__snippet")
			if title != "" && snippet != "" {
				out = append(out, Paper{
					Title:    title,
					Authors:  []string{"Web Source"},
					Year:     time.Now().Format("2006"),
					Abstract: truncate(snippet, 800),
					URL:      link,
					Journal:  "Web Article",
					Source:   SourceWeb,
				})
			}
			return
		}
		for child := n.FirstChild; child != nil; child = child.NextSibling {
			walk(child)
		}
	}
	walk(doc)

	return out, nil
}

// findResultAnchor returns the text and href of the first <a> under n
// carrying the given class.
func findResultAnchor(n *html.Node, class string) (text, href string) {
	var walk func(*html.Node) bool
	walk = func(node *html.Node) bool {
		if node.Type == html.ElementNode && node.Data == "a" && hasClass(node, class) {
			text = strings.TrimSpace(nodeText(node))
			href = attrValue(node, "href")
			return true
		}
		for child := node.FirstChild; child != nil; child = child.NextSibling {
			if walk(child) {
				return true
			}
		}
		return false
	}
	walk(n)
	return text, href
}

func hasClass(n *html.Node, class string) bool {
	for _, c := range strings.Fields(attrValue(n, "class")) {
		if c == class {
			return true
		}
	}
	return false
}

func attrValue(n *html.Node, key string) string {
	for _, attr := range n.Attr {
		if attr.Key == key {
			return attr.Val
		}
	}
	return ""
}

func nodeText(n *html.Node) string {
	var b strings.Builder
	var walk func(*html.Node)
	walk = func(node *html.Node) {
		if node.Type == html.TextNode {
			b.WriteString(node.Data)
		}
		for child := node.FirstChild; child != nil; child = child.NextSibling {
			walk(child)
		}
	}
	walk(n)
	return b.String()
}
