package papers

import (
	"fmt"
	"strings"
)

// FormatCitation renders a paper as an APA-style citation with a
// clickable markdown link. Web sources link their URL, arXiv IDs link
// to the abstract page, DOIs link through doi.org, anything else falls
// back to the raw URL if present.
func FormatCitation(p Paper) string {
	var authorStr string
	switch len(p.Authors) {
	case 0:
		authorStr = "Unknown"
	case 1:
		authorStr = p.Authors[0]
	case 2:
		authorStr = fmt.Sprintf("%s & %s", p.Authors[0], p.Authors[1])
	default:
		authorStr = fmt.Sprintf("%s et al.", p.Authors[0])
	}

	citation := fmt.Sprintf("%s (%s). %s. *%s*.", authorStr, p.Year, p.Title, p.Journal)

	switch {
	case p.Source == SourceWeb:
		if p.URL != "" {
			citation += fmt.Sprintf(" [[Web Link]](%s)", p.URL)
		}
	case strings.HasPrefix(p.DOI, "arXiv:"):
		arxivID := strings.TrimPrefix(p.DOI, "arXiv:")
		citation += fmt.Sprintf(" [[arXiv:%s]](https://arxiv.org/abs/%s)", arxivID, arxivID)
	case p.DOI != "":
		citation += fmt.Sprintf(" [[DOI]](https://doi.org/%s)", p.DOI)
	case p.URL != "":
		citation += fmt.Sprintf(" [[Link]](%s)", p.URL)
	}

	return citation
}

// FormatReferenceList renders a numbered reference section from a
// deduplicated paper list.
func FormatReferenceList(list []Paper) string {
	if len(list) == 0 {
		return ""
	}
	var b strings.Builder
	b.WriteString("## References\n\n")
	for i, p := range DedupeByTitle(list) {
		fmt.Fprintf(&b, "%d. %s\n", i+1, FormatCitation(p))
	}
	return b.String()
}
