package agents

import (
	"context"
	"fmt"
	"strings"

	"github.com/pkg/errors"

	"github.com/openscholar/scholard/ai/core/llm"
)

// Writer synthesizes the searcher's findings into the final report.
type Writer struct {
	llm llm.Service
}

func NewWriter(llmService llm.Service) *Writer {
	return &Writer{llm: llmService}
}

// WriteReport produces the final markdown report from a completed plan.
// References are appended by the caller, which owns the paper list.
func (w *Writer) WriteReport(ctx context.Context, query string, plan *ResearchPlan) (string, error) {
	var formatted strings.Builder
	for i, task := range plan.SubTasks {
		fmt.Fprintf(&formatted, "\n### Finding %d: %s\n", i+1, task.SubQuestion)
		fmt.Fprintf(&formatted, "**Expected Format:** %s\n\n", task.ExpectedOutputFormat)
		fmt.Fprintf(&formatted, "%s\n\n", task.SummaryOfSources)
		formatted.WriteString("---\n")
	}

	report, _, err := w.llm.Chat(ctx, []llm.Message{
		llm.SystemPrompt(fmt.Sprintf(writerSystemPrompt, query)),
		llm.UserMessage(fmt.Sprintf(writerHumanTemplate, formatted.String())),
	})
	if err != nil {
		return "", errors.Wrap(err, "writer LLM call")
	}
	return report, nil
}
