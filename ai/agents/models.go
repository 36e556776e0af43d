// Package agents implements the three research agents: the planner
// that decomposes a query into sub-tasks, the searcher that gathers and
// synthesizes sources for each sub-task, and the writer that produces
// the final report.
package agents

// SubTask is a single research sub-question produced by the planner.
// SummaryOfSources is filled in by the searcher.
type SubTask struct {
	SubQuestion          string `json:"sub_question"`
	ExpectedOutputFormat string `json:"expected_output_format"`
	SummaryOfSources     string `json:"summary_of_sources,omitempty"`
}

// ResearchPlan is the planner's output: exactly three sub-tasks.
type ResearchPlan struct {
	SubTasks []SubTask `json:"sub_tasks"`
}

// Finding summarizes one completed sub-task for progress reporting.
type Finding struct {
	Question   string `json:"question"`
	Summary    string `json:"summary"`
	PaperCount int    `json:"paper_count"`
}
