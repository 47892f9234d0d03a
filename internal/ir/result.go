package ir

// Result is the verdict for one scenario invocation.
// Results are created once by the checker and never mutated afterwards.
type Result struct {
	Scenario     string        `json:"scenario"`
	Status       Status        `json:"status"`
	Passed       bool          `json:"passed"`
	Mismatches   []Mismatch    `json:"mismatches"`
	Observations []Observation `json:"observations,omitempty"`
}

// Summary aggregates results across one run of the harness.
//
// Invariant: Total == Passed + Failed == len(Results). Only Add mutates a
// Summary, which keeps the counts consistent with the result sequence.
type Summary struct {
	RunID   string   `json:"run_id,omitempty"`
	Total   int      `json:"total"`
	Passed  int      `json:"passed"`
	Failed  int      `json:"failed"`
	Results []Result `json:"results"`
}

// NewSummary creates an empty summary for the given run.
func NewSummary(runID string) *Summary {
	return &Summary{
		RunID:   runID,
		Results: []Result{},
	}
}

// Add appends a result and updates the counts.
func (s *Summary) Add(r Result) {
	s.Results = append(s.Results, r)
	s.Total++
	if r.Passed {
		s.Passed++
	} else {
		s.Failed++
	}
}

// ExitCode is 1 iff any scenario failed.
func (s *Summary) ExitCode() int {
	if s.Failed > 0 {
		return 1
	}
	return 0
}

// Failures returns the failed results in run order.
func (s *Summary) Failures() []Result {
	var out []Result
	for _, r := range s.Results {
		if !r.Passed {
			out = append(out, r)
		}
	}
	return out
}
