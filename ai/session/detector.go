package session

import (
	"regexp"
	"strings"
)

// intentRule pairs an intent with its compiled patterns. Rules are
// evaluated strictly in slice order and the first pattern hit wins, so
// a query matching both a methodology and a summary phrase resolves to
// whichever rule is declared earlier.
type intentRule struct {
	intent   Intent
	patterns []*regexp.Regexp
}

// Confidence levels returned by Detect. An explicit phrase match is
// strongest; the two follow-up heuristics are weaker; the new-research
// default is weakest. The router does not threshold on these.
const (
	ConfidenceExplicit    float32 = 0.9
	ConfidenceContextCue  float32 = 0.7
	ConfidenceShortQuery  float32 = 0.6
	ConfidenceNewResearch float32 = 0.5
)

var intentRules = []intentRule{
	{IntentSummaryRequest, compileAll(
		`\b(summarize|summary|tldr|brief|overview)\b`,
		`\b(what (was|is) (it|this|that) about)\b`,
		`\b(give me (a|the) summary)\b`,
		`\b(recap|brief overview)\b`,
		`\bwhat did (we|you) (discuss|find|talk about)\b`,
	)},
	{IntentMethodologyRequest, compileAll(
		`\b(methodology|method|approach|technique)\b`,
		`\b(how (did|was|were) (they|it|the study))\b`,
		`\b(research (method|design|approach))\b`,
		`\b(what (approach|method) (did|was))\b`,
		`\b(experimental (design|setup|procedure))\b`,
		`\b(sample size|data collection|analysis)\b`,
	)},
	{IntentFindingsRequest, compileAll(
		`\b(findings|results|outcomes|conclusions?)\b`,
		`\b(what (did they|was) (find|discover|conclude))\b`,
		`\b(key (findings|results|takeaways))\b`,
		`\b(main (results|conclusions))\b`,
	)},
	{IntentComparisonRequest, compileAll(
		`\b(compare|comparison|versus|vs\.?|difference)\b`,
		`\b(how (does|is) (it|this) (different|similar))\b`,
		`\b(contrast (with|to))\b`,
		`\b(similarities (and|or) differences)\b`,
	)},
	{IntentReferenceRequest, compileAll(
		`\b(references?|citations?|sources?|papers?)\b`,
		`\b(which papers?|what (papers|sources))\b`,
		`\b(bibliography|works cited)\b`,
		`\b(show (me )?(the )?(papers|sources|references))\b`,
	)},
}

// contextIndicators are pronoun and deictic cues that mark a query as
// referring back to something discussed earlier in the session.
var contextIndicators = compileAll(
	`\b(this|that|it|the paper|the study|the article)\b`,
	`\b(previously|earlier|before|above)\b`,
	`\b(tell me more|more (about|on|info))\b`,
	`\b(what about|how about)\b`,
	`^(and|also|additionally)\b`,
)

func compileAll(exprs ...string) []*regexp.Regexp {
	out := make([]*regexp.Regexp, 0, len(exprs))
	for _, expr := range exprs {
		out = append(out, regexp.MustCompile(expr))
	}
	return out
}

// IntentDetector classifies queries against session context. It holds
// no mutable state and is safe for concurrent use.
type IntentDetector struct{}

func NewIntentDetector() *IntentDetector {
	return &IntentDetector{}
}

// Detect classifies a query, returning the intent and a confidence
// score. Resolution order: explicit phrase tables first, then the
// context-cue heuristic (requires non-empty history), then the
// short-query heuristic (requires a known prior topic), then the
// new-research default. The function is total: it never errors.
func (d *IntentDetector) Detect(query string, history []Message, ctx *SessionContext) (Intent, float32) {
	queryLower := strings.ToLower(strings.TrimSpace(query))

	for _, rule := range intentRules {
		for _, pattern := range rule.patterns {
			if pattern.MatchString(queryLower) {
				return rule.intent, ConfidenceExplicit
			}
		}
	}

	hasContextIndicator := false
	for _, pattern := range contextIndicators {
		if pattern.MatchString(queryLower) {
			hasContextIndicator = true
			break
		}
	}

	if hasContextIndicator && len(history) > 0 {
		return IntentFollowupVague, ConfidenceContextCue
	}

	if wordCount(query) < 5 && ctx.LastResearchTopic != "" {
		return IntentFollowupVague, ConfidenceShortQuery
	}

	return IntentNewResearch, ConfidenceNewResearch
}

// ShouldUseContext reports whether an intent can be answered from the
// stored session context alone. Note the router keys its research
// decision off IntentNewResearch only, so IntentComparisonRequest is
// kept out of research despite returning false here.
func (d *IntentDetector) ShouldUseContext(intent Intent) bool {
	switch intent {
	case IntentSummaryRequest, IntentMethodologyRequest, IntentFindingsRequest,
		IntentReferenceRequest, IntentFollowupVague:
		return true
	}
	return false
}

func wordCount(s string) int {
	return len(strings.Fields(s))
}
