// Package papers provides clients for academic search APIs and
// utilities for resolving research paper URLs and formatting citations.
package papers

import "strings"

// Source labels for Paper.Source. Citation formatting keys off these.
const (
	SourceSemanticScholar = "Semantic Scholar"
	SourceArxiv           = "arXiv"
	SourceWeb             = "Web"
	SourceDOI             = "DOI"
	SourcePDF             = "PDF"
)

// Paper is a single search result or resolved paper, normalized across
// all sources.
type Paper struct {
	Title     string   `json:"title"`
	Authors   []string `json:"authors"`
	Year      string   `json:"year"`
	Abstract  string   `json:"abstract"`
	Citations int      `json:"citations"`
	URL       string   `json:"url"`
	DOI       string   `json:"doi"`
	Journal   string   `json:"journal"`
	Source    string   `json:"source"`
}

// DedupeByTitle removes papers whose titles duplicate an earlier entry,
// ignoring case and surrounding whitespace. Order is preserved.
func DedupeByTitle(list []Paper) []Paper {
	seen := make(map[string]bool, len(list))
	out := make([]Paper, 0, len(list))
	for _, p := range list {
		key := strings.ToLower(strings.TrimSpace(p.Title))
		if key == "" || !seen[key] {
			out = append(out, p)
		}
		if key != "" {
			seen[key] = true
		}
	}
	return out
}

// truncate caps s at n runes. Abstracts from the APIs can run to
// several thousand characters and we only feed a snippet to the LLM.
func truncate(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}
