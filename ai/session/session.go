// Package session implements context awareness for follow-up queries.
// It classifies a query's intent against the chat history and decides
// whether a full research run is needed or whether the answer can be
// re-derived from the most recent report.
package session

// Intent represents the classified purpose of a user query.
type Intent string

const (
	IntentNewResearch          Intent = "new_research"
	IntentSummaryRequest       Intent = "summary_request"
	IntentMethodologyRequest   Intent = "methodology_request"
	IntentFindingsRequest      Intent = "findings_request"
	IntentComparisonRequest    Intent = "comparison_request"
	IntentReferenceRequest     Intent = "reference_request"
	IntentClarificationRequest Intent = "clarification_request" // declared but never produced by the detector
	IntentFollowupVague        Intent = "followup_vague"
)

// String returns the string representation of the intent.
func (i Intent) String() string {
	return string(i)
}

// Message is a single prior exchange in a chat: the user's query and the
// report produced for it. Supplied by the caller in ascending creation
// order; the session package never reads or writes storage itself.
type Message struct {
	Query     string
	Report    string
	CreatedTs int64
}

// Paper holds metadata of a paper referenced by a prior report.
// Kept on SessionContext for callers that track citations; the routing
// logic itself does not consult it.
type Paper struct {
	Title   string
	Authors []string
	Year    string
	URL     string
}

// SessionContext is the derived snapshot of the most recent research
// exchange in a chat. It is rebuilt from scratch on every query and
// never mutated afterwards; empty strings mean "not present".
type SessionContext struct {
	ChatID            string
	LastResearchTopic string
	LastPaperTitle    string
	LastReport        string
	LastMethodology   string
	LastFindings      string
	LastPapers        []Paper
}

// HasReport returns true if a prior report is available for recall.
func (c *SessionContext) HasReport() bool {
	return c.LastReport != ""
}

// BuildContext assembles the session context from the message history.
// It scans newest-first and stops as soon as both the last substantive
// topic (a query of more than three words) and the last non-empty report
// are found; the two can come from different messages. Methodology,
// findings and paper title are derived once from the same report.
func BuildContext(chatID string, messages []Message) *SessionContext {
	ctx := &SessionContext{ChatID: chatID, LastPapers: []Paper{}}

	if len(messages) == 0 {
		return ctx
	}

	for i := len(messages) - 1; i >= 0; i-- {
		msg := messages[i]

		if ctx.LastResearchTopic == "" && wordCount(msg.Query) > 3 {
			ctx.LastResearchTopic = msg.Query
		}

		if ctx.LastReport == "" && msg.Report != "" {
			ctx.LastReport = msg.Report
			report := ParseReport(msg.Report)
			ctx.LastMethodology = report.Methodology()
			ctx.LastFindings = report.Findings()
			ctx.LastPaperTitle = report.Title()
		}

		if ctx.LastResearchTopic != "" && ctx.LastReport != "" {
			break
		}
	}

	return ctx
}
