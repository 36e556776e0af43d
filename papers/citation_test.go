package papers

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormatCitationAuthorForms(t *testing.T) {
	base := Paper{Year: "2023", Title: "T", Journal: "J"}

	tests := []struct {
		name    string
		authors []string
		want    string
	}{
		{"no authors", nil, "Unknown (2023). T. *J*."},
		{"one author", []string{"Smith"}, "Smith (2023). T. *J*."},
		{"two authors", []string{"Smith", "Jones"}, "Smith & Jones (2023). T. *J*."},
		{"three authors", []string{"Smith", "Jones", "Lee"}, "Smith et al. (2023). T. *J*."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := base
			p.Authors = tt.authors
			assert.Equal(t, tt.want, FormatCitation(p))
		})
	}
}

func TestFormatCitationLinks(t *testing.T) {
	arxiv := Paper{
		Authors: []string{"Radford"}, Year: "2021", Title: "CLIP",
		Journal: "arXiv Preprint", DOI: "arXiv:2103.00020", Source: SourceArxiv,
	}
	got := FormatCitation(arxiv)
	assert.Contains(t, got, "[[arXiv:2103.00020]](https://arxiv.org/abs/2103.00020)")

	doi := Paper{
		Authors: []string{"Smith"}, Year: "2020", Title: "T",
		Journal: "Nature", DOI: "10.1038/abc", Source: SourceSemanticScholar,
	}
	assert.Contains(t, FormatCitation(doi), "[[DOI]](https://doi.org/10.1038/abc)")

	web := Paper{
		Authors: []string{"Web Source"}, Year: "2024", Title: "Post",
		Journal: "Web Article", URL: "https://example.com/a", Source: SourceWeb,
	}
	assert.Contains(t, FormatCitation(web), "[[Web Link]](https://example.com/a)")

	plain := Paper{
		Authors: []string{"Smith"}, Year: "2020", Title: "T",
		Journal: "J", URL: "https://example.com/p", Source: SourceSemanticScholar,
	}
	assert.Contains(t, FormatCitation(plain), "[[Link]](https://example.com/p)")

	bare := Paper{Authors: []string{"Smith"}, Year: "2020", Title: "T", Journal: "J"}
	assert.Equal(t, "Smith (2020). T. *J*.", FormatCitation(bare))
}

func TestDedupeByTitle(t *testing.T) {
	list := []Paper{
		{Title: "Attention Is All You Need"},
		{Title: "attention is all you need "},
		{Title: "BERT"},
		{Title: ""},
	}

	got := DedupeByTitle(list)
	require.Len(t, got, 3)
	assert.Equal(t, "Attention Is All You Need", got[0].Title)
	assert.Equal(t, "BERT", got[1].Title)
	assert.Equal(t, "", got[2].Title)
}

func TestFormatReferenceList(t *testing.T) {
	list := []Paper{
		{Title: "A", Authors: []string{"X"}, Year: "2020", Journal: "J"},
		{Title: "a", Authors: []string{"X"}, Year: "2020", Journal: "J"},
		{Title: "B", Authors: []string{"Y"}, Year: "2021", Journal: "K"},
	}

	got := FormatReferenceList(list)
	assert.Contains(t, got, "## References")
	assert.Contains(t, got, "1. X (2020). A. *J*.")
	assert.Contains(t, got, "2. Y (2021). B. *K*.")
	assert.NotContains(t, got, "3.")

	assert.Empty(t, FormatReferenceList(nil))
}
