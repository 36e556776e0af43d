package session

import "fmt"

// RoutingDecision is the outcome of processing one query: the detected
// intent, whether a full research run is required, and the context the
// caller needs if it is not.
type RoutingDecision struct {
	Intent             Intent          `json:"intent"`
	Confidence         float32         `json:"confidence"`
	ShouldResearch     bool            `json:"should_research"`
	Context            *SessionContext `json:"-"`
	ResponseHint       string          `json:"response_hint"`
	HasPreviousContext bool            `json:"has_previous_context"`
}

// Manager routes queries between fresh research and recall from the
// previous report. It is stateless: every call rebuilds its view of the
// session from the supplied history.
type Manager struct {
	detector *IntentDetector
}

func NewManager() *Manager {
	return &Manager{detector: NewIntentDetector()}
}

// ProcessQuery builds the session context, classifies the query and
// returns the routing decision. Only IntentNewResearch triggers a full
// research run; every other intent is answered from context by
// GenerateContextualResponse.
func (m *Manager) ProcessQuery(query, chatID string, messages []Message) *RoutingDecision {
	ctx := BuildContext(chatID, messages)

	intent, confidence := m.detector.Detect(query, messages, ctx)

	return &RoutingDecision{
		Intent:             intent,
		Confidence:         confidence,
		ShouldResearch:     intent == IntentNewResearch,
		Context:            ctx,
		ResponseHint:       buildResponseHint(intent, ctx),
		HasPreviousContext: ctx.HasReport(),
	}
}

func buildResponseHint(intent Intent, ctx *SessionContext) string {
	if !ctx.HasReport() {
		return "No previous research found. Proceed with new research."
	}

	switch intent {
	case IntentSummaryRequest:
		return fmt.Sprintf("Extract summary from previous research about: %s", ctx.LastResearchTopic)
	case IntentMethodologyRequest:
		return fmt.Sprintf("Extract methodology from previous research about: %s", ctx.LastResearchTopic)
	case IntentFindingsRequest:
		return fmt.Sprintf("Extract findings from previous research about: %s", ctx.LastResearchTopic)
	case IntentReferenceRequest:
		return fmt.Sprintf("Extract references from previous research about: %s", ctx.LastResearchTopic)
	case IntentFollowupVague:
		return fmt.Sprintf("User is asking about previous topic: %s. Clarify what specific aspect they want to know.", ctx.LastResearchTopic)
	}
	return "Proceed with new research."
}

// GenerateContextualResponse renders a reply from the stored context
// without running new research. Callers invoke it only when
// ShouldResearch was false. Missing sections degrade to canned text;
// the function never errors. Intents without a case here, comparison
// requests included, fall through to a generic prompt.
func (m *Manager) GenerateContextualResponse(intent Intent, ctx *SessionContext, query string) string {
	if !ctx.HasReport() {
		return "I don't have any previous research to reference. Please ask a research question first."
	}

	report := ParseReport(ctx.LastReport)

	switch intent {
	case IntentSummaryRequest:
		return formatSummaryResponse(ctx.LastResearchTopic, report.Summary())

	case IntentMethodologyRequest:
		methodology := ctx.LastMethodology
		if methodology == "" {
			methodology = report.Methodology()
		}
		return formatMethodologyResponse(ctx.LastResearchTopic, methodology)

	case IntentFindingsRequest:
		findings := ctx.LastFindings
		if findings == "" {
			findings = report.Findings()
		}
		return formatFindingsResponse(ctx.LastResearchTopic, findings)

	case IntentReferenceRequest:
		return formatReferencesResponse(report.References())

	case IntentFollowupVague:
		return formatClarificationResponse(ctx.LastResearchTopic)
	}

	return "I'm not sure how to respond. Could you be more specific?"
}

func formatSummaryResponse(topic, summary string) string {
	return fmt.Sprintf(`## Summary: %s

%s

---
*This summary is extracted from our previous research discussion.*
`, topic, summary)
}

func formatMethodologyResponse(topic, methodology string) string {
	if methodology == "" {
		return fmt.Sprintf("**Methodology for: %s**\n\nNo explicit methodology section was found in the previous research. The research covered various aspects of this topic through academic paper analysis.", topic)
	}
	return fmt.Sprintf(`## Methodology: %s

%s

---
*This methodology is extracted from our previous research discussion.*
`, topic, methodology)
}

func formatFindingsResponse(topic, findings string) string {
	if findings == "" {
		return fmt.Sprintf("**Key Findings for: %s**\n\nPlease refer to the full report from our previous discussion for detailed findings.", topic)
	}
	return fmt.Sprintf(`## Key Findings: %s

%s

---
*These findings are extracted from our previous research discussion.*
`, topic, findings)
}

func formatReferencesResponse(references string) string {
	if references == "" {
		return "**References**\n\nNo references section was found in the previous research."
	}
	return fmt.Sprintf(`## References

%s
`, references)
}

func formatClarificationResponse(topic string) string {
	return fmt.Sprintf(`I see you're asking about our previous discussion on **%s**.

Could you clarify what you'd like to know? For example:
- **"Give me a summary"** - For a concise overview
- **"What was the methodology?"** - For research methods used
- **"What were the key findings?"** - For main results
- **"Show me the references"** - For source papers

Or ask a new specific question about this topic!
`, topic)
}
