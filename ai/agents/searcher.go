package agents

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"

	"github.com/openscholar/scholard/ai/core/llm"
	"github.com/openscholar/scholard/ai/metrics"
	"github.com/openscholar/scholard/papers"
)

// maxSourcesPerTask caps the sources fed to the synthesizer for one
// sub-task: two peer-reviewed papers, two preprints, one web result.
const maxSourcesPerTask = 5

// Searcher gathers sources for a sub-task from Semantic Scholar, arXiv
// and the web, then synthesizes them with the LLM.
type Searcher struct {
	llm      llm.Service
	s2       *papers.SemanticScholarClient
	arxiv    *papers.ArxivClient
	ddg      *papers.DuckDuckGoClient
	tavily   *papers.TavilyClient
	exporter *metrics.Exporter // may be nil
}

func NewSearcher(llmService llm.Service, s2 *papers.SemanticScholarClient, arxiv *papers.ArxivClient, ddg *papers.DuckDuckGoClient, tavily *papers.TavilyClient, exporter *metrics.Exporter) *Searcher {
	return &Searcher{
		llm:      llmService,
		s2:       s2,
		arxiv:    arxiv,
		ddg:      ddg,
		tavily:   tavily,
		exporter: exporter,
	}
}

func (s *Searcher) recordSource(source string, count int, err error) {
	if s.exporter == nil {
		return
	}
	if err != nil {
		s.exporter.RecordSourceError(source)
		return
	}
	s.exporter.RecordSourceResults(source, count)
}

// SearchAndSynthesize queries all sources in parallel and distills the
// results into a short factual summary. Individual source failures are
// logged and tolerated; only an empty result set or a failed synthesis
// call is an error for the caller.
func (s *Searcher) SearchAndSynthesize(ctx context.Context, task *SubTask) (string, []papers.Paper, error) {
	var (
		semanticPapers []papers.Paper
		arxivPapers    []papers.Paper
		webPapers      []papers.Paper
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		list, err := s.s2.Search(gctx, task.SubQuestion, 2)
		s.recordSource("semantic_scholar", len(list), err)
		if err != nil {
			slog.Warn("searcher: semantic scholar search failed", "error", err)
			return nil
		}
		semanticPapers = list
		return nil
	})
	g.Go(func() error {
		list, err := s.arxiv.Search(gctx, task.SubQuestion, 2)
		s.recordSource("arxiv", len(list), err)
		if err != nil {
			slog.Warn("searcher: arxiv search failed", "error", err)
			return nil
		}
		arxivPapers = list
		return nil
	})
	g.Go(func() error {
		list, err := s.searchWeb(gctx, task.SubQuestion, 1)
		s.recordSource("web", len(list), err)
		if err != nil {
			slog.Warn("searcher: web search failed", "error", err)
			return nil
		}
		webPapers = list
		return nil
	})
	if err := g.Wait(); err != nil {
		return "", nil, errors.Wrap(err, "source search")
	}

	// Stable source order regardless of which goroutine finished first.
	found := make([]papers.Paper, 0, maxSourcesPerTask)
	found = append(found, semanticPapers...)
	found = append(found, arxivPapers...)
	found = append(found, webPapers...)
	if len(found) > maxSourcesPerTask {
		found = found[:maxSourcesPerTask]
	}

	if len(found) == 0 {
		return "No sources found for this query.", nil, nil
	}

	slog.Debug("searcher: sources gathered",
		"sub_question", task.SubQuestion,
		"semantic_scholar", len(semanticPapers),
		"arxiv", len(arxivPapers),
		"web", len(webPapers),
	)

	summary, err := s.synthesize(ctx, task, found)
	if err != nil {
		return "", nil, err
	}
	return summary, found, nil
}

// searchWeb prefers Tavily when a key is configured and falls back to
// DuckDuckGo scraping otherwise.
func (s *Searcher) searchWeb(ctx context.Context, query string, limit int) ([]papers.Paper, error) {
	if s.tavily != nil && s.tavily.Enabled() {
		list, err := s.tavily.Search(ctx, query, limit)
		if err == nil {
			return list, nil
		}
		slog.Warn("searcher: tavily failed, falling back to duckduckgo", "error", err)
	}
	return s.ddg.Search(ctx, query, limit)
}

func (s *Searcher) synthesize(ctx context.Context, task *SubTask, found []papers.Paper) (string, error) {
	snippets := buildSnippets(found)

	system := fmt.Sprintf(searcherSystemPrompt, task.SubQuestion, task.ExpectedOutputFormat)
	human := fmt.Sprintf(searcherHumanTemplate, snippets)

	summary, _, err := s.llm.Chat(ctx, []llm.Message{
		llm.SystemPrompt(system),
		llm.UserMessage(human),
	})
	if err != nil {
		return "", errors.Wrap(err, "searcher synthesis LLM call")
	}
	return summary, nil
}

func buildSnippets(found []papers.Paper) string {
	var b strings.Builder
	for i, p := range found {
		authors := "Unknown"
		if len(p.Authors) > 0 {
			authors = strings.Join(p.Authors, ", ")
		}
		abstract := p.Abstract
		if len([]rune(abstract)) > 500 {
			abstract = string([]rune(abstract)[:500])
		}
		fmt.Fprintf(&b, "\n\n**Source %d: %s**\n", i+1, p.Title)
		fmt.Fprintf(&b, "Authors: %s\n", authors)
		fmt.Fprintf(&b, "Year: %s | Journal: %s | Citations: %d\n", p.Year, p.Journal, p.Citations)
		fmt.Fprintf(&b, "Abstract: %s...\n", abstract)
	}
	return b.String()
}
