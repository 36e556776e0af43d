package session

import (
	"strings"
)

// summaryFallbackLimit caps the raw-text fallback when a report has
// neither a summary heading nor three plain paragraphs.
const summaryFallbackLimit = 500

// Heading keyword groups for section extraction. Within a group the
// longest keyword is tried first so "Key Findings" is not shadowed by
// "Findings". Group order matters: the first group with a hit wins.
var (
	summaryHeadings     = []string{"executive summary", "summary", "overview"}
	methodologyHeadings = [][]string{
		{"research design", "methodology", "methods", "method"},
		{"experimental setup", "approach"},
	}
	findingsHeadings = [][]string{
		{"key findings", "findings", "results"},
		{"main results", "outcomes"},
	}
	referenceHeadings = []string{"references", "bibliography", "sources"}
)

// section is a single heading→body span of a markdown report.
type section struct {
	heading string // heading text after the '#' markers, untrimmed remainder included
	body    string // lines between this heading and the next, not yet trimmed
}

// Report is a parsed markdown research report. The heading index is
// built in a single pass so that repeated section lookups within one
// request do not re-scan the text.
type Report struct {
	raw      string
	lines    []string
	sections []section
}

// ParseReport indexes the heading structure of a markdown report.
func ParseReport(raw string) *Report {
	lines := strings.Split(raw, "\n")
	r := &Report{raw: raw, lines: lines}

	var current *section
	var body []string
	flush := func() {
		if current != nil {
			current.body = strings.Join(body, "\n")
			r.sections = append(r.sections, *current)
		}
		body = nil
	}

	for _, line := range lines {
		if isHeadingLine(line) {
			flush()
			current = &section{heading: strings.TrimLeft(line, "#")}
			continue
		}
		if current != nil {
			body = append(body, line)
		}
	}
	flush()

	return r
}

func isHeadingLine(line string) bool {
	return strings.HasPrefix(line, "#")
}

// Title returns the first markdown heading found within the first five
// lines of the report, stripped of its '#' markers. Empty if none.
func (r *Report) Title() string {
	limit := len(r.lines)
	if limit > 5 {
		limit = 5
	}
	for _, line := range r.lines[:limit] {
		if strings.HasPrefix(strings.TrimSpace(line), "#") {
			return strings.TrimSpace(strings.Trim(line, "#"))
		}
	}
	return ""
}

// findSection returns the body of the first section whose heading starts
// with one of the given keywords (case-insensitive). The remainder of
// the heading line after the keyword is prepended to the body, matching
// the behavior of a "heading up to next heading" span. Only the first
// occurrence of a matching heading is used.
func (r *Report) findSection(keywords []string) (string, bool) {
	for _, sec := range r.sections {
		head := strings.TrimLeft(sec.heading, " \t")
		lowered := strings.ToLower(head)
		for _, kw := range keywords {
			if strings.HasPrefix(lowered, kw) {
				rest := head[len(kw):]
				body := rest + "\n" + sec.body
				return strings.TrimSpace(body), true
			}
		}
	}
	return "", false
}

// Summary extracts the summary section. It always returns non-empty
// text: an explicit summary heading wins, then the first three plain
// paragraphs, then a truncated prefix of the raw report.
func (r *Report) Summary() string {
	if body, ok := r.findSection(summaryHeadings); ok {
		return body
	}

	// No summary section: take the first few paragraphs that are not
	// themselves headings.
	var paragraphs []string
	for _, p := range strings.Split(r.raw, "\n\n") {
		p = strings.TrimSpace(p)
		if p == "" || strings.HasPrefix(p, "#") {
			continue
		}
		paragraphs = append(paragraphs, p)
	}
	if len(paragraphs) >= 3 {
		return strings.Join(paragraphs[:3], "\n\n")
	}

	runes := []rune(r.raw)
	if len(runes) > summaryFallbackLimit {
		runes = runes[:summaryFallbackLimit]
	}
	return string(runes) + "..."
}

// Methodology extracts the methodology section, or "" if the report has
// no recognizable methodology heading.
func (r *Report) Methodology() string {
	for _, group := range methodologyHeadings {
		if body, ok := r.findSection(group); ok {
			return body
		}
	}
	return ""
}

// Findings extracts the key-findings section, or "" if absent.
func (r *Report) Findings() string {
	for _, group := range findingsHeadings {
		if body, ok := r.findSection(group); ok {
			return body
		}
	}
	return ""
}

// References extracts the references section, or "" if absent.
func (r *Report) References() string {
	if body, ok := r.findSection(referenceHeadings); ok {
		return body
	}
	return ""
}

// ExtractSummary extracts or synthesizes a summary from a raw report.
func ExtractSummary(report string) string {
	return ParseReport(report).Summary()
}

// ExtractMethodology extracts the methodology section from a raw report.
func ExtractMethodology(report string) string {
	return ParseReport(report).Methodology()
}

// ExtractFindings extracts the findings section from a raw report.
func ExtractFindings(report string) string {
	return ParseReport(report).Findings()
}

// ExtractReferences extracts the references section from a raw report.
func ExtractReferences(report string) string {
	return ParseReport(report).References()
}
