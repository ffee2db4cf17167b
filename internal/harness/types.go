package harness

import "github.com/roach88/bioindex/internal/index"

// TraceEvent records one query and what it returned.
type TraceEvent struct {
	Seq      int               `json:"seq"`
	Op       string            `json:"op"`
	ID       string            `json:"id,omitempty"`
	Query    string            `json:"query,omitempty"`
	Limit    int               `json:"limit,omitempty"`
	Error    string            `json:"error,omitempty"`
	Relation string            `json:"relation,omitempty"`
	Count    int               `json:"count"`
	IDs      []string          `json:"ids,omitempty"`
	Names    []string          `json:"names,omitempty"`
	Stats    *index.Statistics `json:"stats,omitempty"`
}

// BuildSummary describes the dataset load and index build.
type BuildSummary struct {
	// Error is the integrity code if the build failed.
	Error string `json:"error,omitempty"`

	// LoadRejected counts records the loader left out of the dataset.
	LoadRejected      int `json:"load_rejected"`
	Rejected          int `json:"rejected"`
	DroppedReferences int `json:"dropped_references"`
	SyntheticCreated  int `json:"synthetic_created"`
}

// Result is the outcome of a scenario execution.
type Result struct {
	// Pass is true when the build outcome and every expect clause matched.
	Pass bool `json:"pass"`

	Build BuildSummary `json:"build"`

	// Trace holds one event per query, in order.
	Trace []TraceEvent `json:"trace"`

	// Errors contains expectation failures. Empty if Pass is true.
	Errors []string `json:"errors,omitempty"`
}

// NewResult creates a new passing result.
func NewResult() *Result {
	return &Result{
		Pass:   true,
		Trace:  []TraceEvent{},
		Errors: []string{},
	}
}

// AddError adds a validation error and marks the result as failed.
func (r *Result) AddError(err string) {
	r.Errors = append(r.Errors, err)
	r.Pass = false
}
