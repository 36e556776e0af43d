package papers

import (
	"context"
	"encoding/json"
	"net/http"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/pkg/errors"
)

// URL patterns for the supported paper sources.
var (
	arxivURLPattern           = regexp.MustCompile(`(?i)(?:https?://)?(?:www\.)?arxiv\.org/(?:abs|pdf)/(\d+\.\d+)(?:v\d+)?(?:\.pdf)?`)
	semanticScholarURLPattern = regexp.MustCompile(`(?i)(?:https?://)?(?:www\.)?semanticscholar\.org/paper/[^/]+/([a-f0-9]+)`)
	doiURLPattern             = regexp.MustCompile(`(?i)(?:https?://)?(?:dx\.)?doi\.org/(10\.\d+/[^\s]+)`)
	pdfURLPattern             = regexp.MustCompile(`(?i)https?://[^\s]+\.pdf`)
	genericURLPattern         = regexp.MustCompile(`https?://[^\s]+`)
	whitespacePattern         = regexp.MustCompile(`\s+`)
)

// Fetcher resolves research paper URLs pasted into a query to paper
// metadata, so a user can ask about a specific paper instead of a topic.
type Fetcher struct {
	arxiv      *ArxivClient
	s2         *SemanticScholarClient
	httpClient *http.Client
}

func NewFetcher(arxiv *ArxivClient, s2 *SemanticScholarClient) *Fetcher {
	return &Fetcher{
		arxiv:      arxiv,
		s2:         s2,
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}
}

// DetectPaperURL reports whether text contains a recognizable research
// paper URL (arXiv, Semantic Scholar, DOI, or a direct PDF link).
func DetectPaperURL(text string) bool {
	return arxivURLPattern.MatchString(text) ||
		semanticScholarURLPattern.MatchString(text) ||
		doiURLPattern.MatchString(text) ||
		pdfURLPattern.MatchString(text)
}

// ExtractURLAndQuestion splits a query into its first URL and the
// remaining question text. The question is empty when what remains is
// too short to be meaningful.
func ExtractURLAndQuestion(text string) (url, question string) {
	urls := genericURLPattern.FindAllString(text, -1)
	if len(urls) == 0 {
		return "", ""
	}

	url = urls[0]
	question = strings.TrimSpace(strings.Replace(text, url, "", 1))
	question = strings.TrimSpace(whitespacePattern.ReplaceAllString(question, " "))

	if len(question) < 5 {
		question = ""
	}
	return url, question
}

// FetchPaperInfo resolves a paper URL to metadata via the matching
// source API. Direct PDF links yield a stub since the text itself is
// not fetched.
func (f *Fetcher) FetchPaperInfo(ctx context.Context, rawURL string) (*Paper, error) {
	if m := arxivURLPattern.FindStringSubmatch(rawURL); m != nil {
		paper, err := f.arxiv.FetchByID(ctx, m[1])
		return paper, errors.Wrap(err, "fetch arxiv paper")
	}

	if m := semanticScholarURLPattern.FindStringSubmatch(rawURL); m != nil {
		paper, err := f.s2.Fetch(ctx, m[1])
		return paper, errors.Wrap(err, "fetch semantic scholar paper")
	}

	if m := doiURLPattern.FindStringSubmatch(rawURL); m != nil {
		return f.fetchDOIPaper(ctx, m[1])
	}

	if strings.HasSuffix(strings.ToLower(rawURL), ".pdf") {
		return &Paper{
			Title:    "Research Paper (PDF)",
			Authors:  []string{"Unknown"},
			Abstract: "PDF file - full text extraction not available",
			URL:      rawURL,
			Journal:  "Unknown",
			Source:   SourcePDF,
		}, nil
	}

	return nil, errors.New("unsupported URL format or unable to extract paper information")
}

type crossrefWork struct {
	Message struct {
		Title     []string `json:"title"`
		Abstract  string   `json:"abstract"`
		Publisher string   `json:"publisher"`
		Author    []struct {
			Given  string `json:"given"`
			Family string `json:"family"`
		} `json:"author"`
		PublishedPrint struct {
			DateParts [][]int `json:"date-parts"`
		} `json:"published-print"`
		PublishedOnline struct {
			DateParts [][]int `json:"date-parts"`
		} `json:"published-online"`
	} `json:"message"`
}

func (f *Fetcher) fetchDOIPaper(ctx context.Context, doi string) (*Paper, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet,
		"https://api.crossref.org/works/"+doi, nil)
	if err != nil {
		return nil, errors.Wrap(err, "build crossref request")
	}

	resp, err := f.httpClient.Do(req)
	if err != nil {
		return nil, errors.Wrap(err, "crossref request")
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, errors.Errorf("crossref returned status %d", resp.StatusCode)
	}

	var work crossrefWork
	if err := json.NewDecoder(resp.Body).Decode(&work); err != nil {
		return nil, errors.Wrap(err, "decode crossref response")
	}

	msg := work.Message

	title := "Unknown Title"
	if len(msg.Title) > 0 && msg.Title[0] != "" {
		title = msg.Title[0]
	}

	authors := make([]string, 0, len(msg.Author))
	for _, a := range msg.Author {
		name := strings.TrimSpace(a.Given + " " + a.Family)
		if name != "" {
			authors = append(authors, name)
		}
	}
	if len(authors) == 0 {
		authors = []string{"Unknown"}
	}

	year := "N/A"
	if y := firstDatePart(msg.PublishedPrint.DateParts); y != 0 {
		year = strconv.Itoa(y)
	} else if y := firstDatePart(msg.PublishedOnline.DateParts); y != 0 {
		year = strconv.Itoa(y)
	}

	abstract := msg.Abstract
	if abstract == "" {
		abstract = "No abstract available"
	}

	journal := msg.Publisher
	if journal == "" {
		journal = "Unknown"
	}

	return &Paper{
		Title:    title,
		Authors:  authors,
		Year:     year,
		Abstract: truncate(abstract, 800),
		URL:      "https://doi.org/" + doi,
		DOI:      doi,
		Journal:  journal,
		Source:   SourceDOI,
	}, nil
}

func firstDatePart(parts [][]int) int {
	if len(parts) > 0 && len(parts[0]) > 0 {
		return parts[0][0]
	}
	return 0
}
