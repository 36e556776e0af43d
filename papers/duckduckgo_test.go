package papers

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleResultsPage = `<html><body>
<div class="serp__results">
  <div class="result results_links web-result">
    <h2 class="result__title">
      <a class="result__a" href="https://example.com/quantum">Quantum Computing Explained</a>
    </h2>
    <a class="result__snippet" href="https://example.com/quantum">An <b>introduction</b> to qubits and gates.</a>
  </div>
  <div class="result results_links web-result">
    <h2 class="result__title">
      <a class="result__a" href="https://example.org/qc">QC Overview</a>
    </h2>
    <a class="result__snippet" href="https://example.org/qc">Another overview article.</a>
  </div>
  <div class="result">
    <h2><a class="result__a" href="https://example.net/c">No snippet result</a></h2>
  </div>
</div>
</body></html>`

func TestParseDuckDuckGoResults(t *testing.T) {
	list, err := parseDuckDuckGoResults(strings.NewReader(sampleResultsPage), 5)
	require.NoError(t, err)
	require.Len(t, list, 2)

	first := list[0]
	assert.Equal(t, "Quantum Computing Explained", first.Title)
	assert.Equal(t, "https://example.com/quantum", first.URL)
	assert.Equal(t, "An introduction to qubits and gates.", first.Abstract)
	assert.Equal(t, []string{"Web Source"}, first.Authors)
	assert.Equal(t, "Web Article", first.Journal)
	assert.Equal(t, SourceWeb, first.Source)

	assert.Equal(t, "QC Overview", list[1].Title)
}

func TestParseDuckDuckGoResultsLimit(t *testing.T) {
	list, err := parseDuckDuckGoResults(strings.NewReader(sampleResultsPage), 1)
	require.NoError(t, err)
	assert.Len(t, list, 1)
}

func TestParseDuckDuckGoResultsEmptyPage(t *testing.T) {
	list, err := parseDuckDuckGoResults(strings.NewReader("<html><body></body></html>"), 3)
	require.NoError(t, err)
	assert.Empty(t, list)
}
