package agents

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/openscholar/scholard/papers"
)

func TestWriterFormatsFindings(t *testing.T) {
	mock := &mockLLM{responses: []string{"# Final Report\n\nbody"}}
	writer := NewWriter(mock)

	plan := &ResearchPlan{SubTasks: []SubTask{
		{SubQuestion: "Q1", ExpectedOutputFormat: "F1", SummaryOfSources: "S1"},
		{SubQuestion: "Q2", ExpectedOutputFormat: "F2", SummaryOfSources: "S2"},
	}}

	report, err := writer.WriteReport(context.Background(), "original query", plan)
	require.NoError(t, err)
	assert.Equal(t, "# Final Report\n\nbody", report)

	require.Len(t, mock.calls, 1)
	system := mock.calls[0][0].Content
	human := mock.calls[0][1].Content
	assert.Contains(t, system, "original query")
	assert.Contains(t, human, "### Finding 1: Q1")
	assert.Contains(t, human, "**Expected Format:** F2")
	assert.Contains(t, human, "S1")
	assert.Contains(t, human, "S2")
}

func TestBuildSnippets(t *testing.T) {
	got := buildSnippets([]papers.Paper{
		{
			Title:     "Paper One",
			Authors:   []string{"A", "B"},
			Year:      "2021",
			Journal:   "J",
			Citations: 12,
			Abstract:  "Short abstract.",
		},
		{
			Title:   "Paper Two",
			Year:    "2022",
			Journal: "K",
		},
	})

	assert.Contains(t, got, "**Source 1: Paper One**")
	assert.Contains(t, got, "Authors: A, B")
	assert.Contains(t, got, "Year: 2021 | Journal: J | Citations: 12")
	assert.Contains(t, got, "Abstract: Short abstract....")
	assert.Contains(t, got, "**Source 2: Paper Two**")
	assert.Contains(t, got, "Authors: Unknown")
}
