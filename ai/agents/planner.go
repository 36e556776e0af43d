package agents

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"github.com/pkg/errors"

	"github.com/openscholar/scholard/ai/core/llm"
)

// Planner decomposes a research query into exactly three sub-tasks.
type Planner struct {
	llm llm.Service
}

func NewPlanner(llmService llm.Service) *Planner {
	return &Planner{llm: llmService}
}

// Plan asks the LLM for a three-task research plan. conversationContext
// may be empty for a fresh chat. A malformed LLM response degrades to a
// generic fallback plan instead of failing the whole research run.
func (p *Planner) Plan(ctx context.Context, query, conversationContext string) (*ResearchPlan, error) {
	contextSection := ""
	if conversationContext != "" {
		contextSection = fmt.Sprintf("Conversation History:\n%s\n---\n", conversationContext)
	}

	human := fmt.Sprintf(`%s

Current User Query: %s

---
Based on the query above (and conversation context if provided), generate the list of exactly three research sub-tasks.
If this is a follow-up question, ensure the sub-tasks build upon or relate to the previous conversation.
%s`, contextSection, query, plannerFormatInstructions)

	response, _, err := p.llm.Chat(ctx, []llm.Message{
		llm.SystemPrompt(plannerSystemPrompt),
		llm.UserMessage(human),
	})
	if err != nil {
		return nil, errors.Wrap(err, "planner LLM call")
	}

	plan, err := parseResearchPlan(response)
	if err != nil {
		slog.Warn("planner: failed to parse plan, using fallback",
			"error", err,
			"response_length", len(response))
		return fallbackPlan(query), nil
	}

	return plan, nil
}

func parseResearchPlan(response string) (*ResearchPlan, error) {
	response = strings.TrimSpace(response)
	response = strings.TrimPrefix(response, "```json")
	response = strings.TrimPrefix(response, "```")
	response = strings.TrimSuffix(response, "```")
	response = strings.TrimSpace(response)

	var plan ResearchPlan
	if err := json.Unmarshal([]byte(response), &plan); err != nil {
		return nil, errors.Wrap(err, "parse plan JSON")
	}

	if len(plan.SubTasks) == 0 {
		return nil, errors.New("no sub-tasks in plan")
	}
	if len(plan.SubTasks) > 3 {
		plan.SubTasks = plan.SubTasks[:3]
	}

	for i := range plan.SubTasks {
		if strings.TrimSpace(plan.SubTasks[i].SubQuestion) == "" {
			return nil, errors.Errorf("sub-task %d has an empty question", i+1)
		}
		if plan.SubTasks[i].ExpectedOutputFormat == "" {
			plan.SubTasks[i].ExpectedOutputFormat = "A brief paragraph summary"
		}
	}

	return &plan, nil
}

// fallbackPlan produces three generic sub-tasks when the LLM response
// cannot be parsed, so research still proceeds.
func fallbackPlan(query string) *ResearchPlan {
	return &ResearchPlan{SubTasks: []SubTask{
		{
			SubQuestion:          fmt.Sprintf("What is the current state of research on: %s", query),
			ExpectedOutputFormat: "A brief paragraph summary",
		},
		{
			SubQuestion:          fmt.Sprintf("What methods and approaches are used to study: %s", query),
			ExpectedOutputFormat: "A bullet list of methods",
		},
		{
			SubQuestion:          fmt.Sprintf("What are the key findings and open problems regarding: %s", query),
			ExpectedOutputFormat: "A bullet list of findings",
		},
	}}
}
