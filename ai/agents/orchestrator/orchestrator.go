// Package orchestrator coordinates the planner, searcher and writer
// agents into the full research pipeline: plan the query into three
// sub-tasks, gather and synthesize sources for each, then write one
// report with a deduplicated reference list.
package orchestrator

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/pkg/errors"

	"github.com/openscholar/scholard/ai/agents"
	"github.com/openscholar/scholard/ai/metrics"
	"github.com/openscholar/scholard/ai/session"
	"github.com/openscholar/scholard/papers"
)

// historyWindow limits how many prior exchanges are shown to the
// planner; each report is previewed, not included in full.
const (
	historyWindow       = 3
	reportPreviewLength = 200
)

// Result is the outcome of one research run.
type Result struct {
	Report   string
	Papers   []papers.Paper
	Findings []agents.Finding
}

// Orchestrator runs the plan, search, write pipeline.
type Orchestrator struct {
	planner  *agents.Planner
	searcher *agents.Searcher
	writer   *agents.Writer
	exporter *metrics.Exporter // may be nil
}

func New(planner *agents.Planner, searcher *agents.Searcher, writer *agents.Writer, exporter *metrics.Exporter) *Orchestrator {
	return &Orchestrator{
		planner:  planner,
		searcher: searcher,
		writer:   writer,
		exporter: exporter,
	}
}

// Research executes the full pipeline for a query. history provides
// conversational context to the planner; it is never searched itself.
func (o *Orchestrator) Research(ctx context.Context, query string, history []session.Message) (*Result, error) {
	startTime := time.Now()

	result, err := o.research(ctx, query, history)

	if o.exporter != nil {
		o.exporter.RecordResearchRun(time.Since(startTime), err == nil)
	}
	if err != nil {
		return nil, err
	}

	slog.Info("orchestrator: research complete",
		"query", query,
		"papers", len(result.Papers),
		"duration_ms", time.Since(startTime).Milliseconds(),
	)
	return result, nil
}

func (o *Orchestrator) research(ctx context.Context, query string, history []session.Message) (*Result, error) {
	conversationContext := formatConversationHistory(history)

	plan, err := o.planner.Plan(ctx, query, conversationContext)
	if err != nil {
		return nil, errors.Wrap(err, "plan research")
	}
	slog.Debug("orchestrator: plan ready", "sub_tasks", len(plan.SubTasks))

	var (
		allPapers []papers.Paper
		findings  []agents.Finding
	)
	for i := range plan.SubTasks {
		task := &plan.SubTasks[i]
		summary, found, err := o.searcher.SearchAndSynthesize(ctx, task)
		if err != nil {
			return nil, errors.Wrapf(err, "search sub-task %d", i+1)
		}
		task.SummaryOfSources = summary
		allPapers = append(allPapers, found...)
		findings = append(findings, agents.Finding{
			Question:   task.SubQuestion,
			Summary:    summary,
			PaperCount: len(found),
		})
	}

	report, err := o.writer.WriteReport(ctx, query, plan)
	if err != nil {
		return nil, errors.Wrap(err, "write report")
	}

	if len(allPapers) > 0 {
		report += "\n\n" + papers.FormatReferenceList(allPapers)
	}

	return &Result{
		Report:   report,
		Papers:   papers.DedupeByTitle(allPapers),
		Findings: findings,
	}, nil
}

// formatConversationHistory renders the last few exchanges for the
// planner prompt, previewing each prior report.
func formatConversationHistory(history []session.Message) string {
	if len(history) == 0 {
		return ""
	}

	window := history
	if len(window) > historyWindow {
		window = window[len(window)-historyWindow:]
	}

	var b strings.Builder
	b.WriteString("Previous conversation:\n\n")
	for i, msg := range window {
		fmt.Fprintf(&b, "Q%d: %s\n", i+1, msg.Query)
		preview := msg.Report
		if len([]rune(preview)) > reportPreviewLength {
			preview = string([]rune(preview)[:reportPreviewLength]) + "..."
		}
		fmt.Fprintf(&b, "A%d: %s\n\n", i+1, preview)
	}
	return b.String()
}
