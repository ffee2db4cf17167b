package harness

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/roach88/bioindex/internal/catalog"
	"github.com/roach88/bioindex/internal/index"
	"github.com/roach88/bioindex/internal/loader"
)

// BuildID is the fixed build ID every harness build uses.
const BuildID = "harness-build"

// buildTime is the fixed clock every harness build uses.
var buildTime = time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)

// Error codes recorded in the trace and matched by ExpectClause.Error.
const (
	ErrCodeNotFound       = "not_found"
	ErrCodeNotInitialized = "not_initialized"
	ErrCodeGeneric        = "error"
)

// Run loads the scenario's dataset, builds an index and executes every
// query. An error is returned only when the dataset cannot be loaded at
// all; record issues, build failures and expectation mismatches are
// reported in the Result.
func Run(scenario *Scenario) (*Result, error) {
	loaded, err := loadDataset(scenario)
	if err != nil {
		return nil, fmt.Errorf("failed to load dataset: %w", err)
	}

	ix := index.New(
		index.WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))),
		index.WithIDGenerator(index.NewFixedGenerator(BuildID)),
		index.WithClock(func() time.Time { return buildTime }),
	)

	result := NewResult()
	result.Build.LoadRejected = rejectedRecords(loaded.Issues)

	snap, buildErr := ix.Build(loaded.Dataset)
	if buildErr != nil {
		result.Build.Error = ErrorCode(buildErr)
	} else {
		result.Build.Rejected = len(snap.Report.Rejected)
		result.Build.DroppedReferences = snap.Report.DroppedReferences
		result.Build.SyntheticCreated = snap.Report.SyntheticCreated
	}

	if result.Build.Error != scenario.ExpectBuildError {
		result.AddError(fmt.Sprintf("build: expected error %q, got %q", scenario.ExpectBuildError, result.Build.Error))
	}

	for i, step := range scenario.Queries {
		event := runQuery(ix, step)
		event.Seq = i + 1
		result.Trace = append(result.Trace, event)

		if step.Expect != nil {
			for _, msg := range checkExpect(i, step, event) {
				result.AddError(msg)
			}
		}
	}

	return result, nil
}

func loadDataset(s *Scenario) (*loader.Result, error) {
	if s.DatasetFile != "" {
		return loader.LoadDatasetFile(s.DatasetFile)
	}
	return loader.FromRecords(s.Dataset.Nodes, s.Dataset.Technologies)
}

// rejectedRecords counts distinct records among issues; one record may
// carry several.
func rejectedRecords(issues []catalog.RecordIssue) int {
	type key struct {
		kind  catalog.EntityKind
		index int
	}
	seen := make(map[key]struct{}, len(issues))
	for _, i := range issues {
		seen[key{i.Kind, i.Index}] = struct{}{}
	}
	return len(seen)
}

// ErrorCode classifies a façade or build error for the trace.
func ErrorCode(err error) string {
	var integrity *index.IntegrityError
	switch {
	case err == nil:
		return ""
	case errors.As(err, &integrity):
		return string(integrity.Code)
	case errors.Is(err, index.ErrNotFound):
		return ErrCodeNotFound
	case errors.Is(err, index.ErrNotInitialized):
		return ErrCodeNotInitialized
	default:
		return ErrCodeGeneric
	}
}

// runQuery executes one step. Errors are captured in the event.
func runQuery(ix *index.Index, step QueryStep) TraceEvent {
	event := TraceEvent{Op: step.Op, ID: step.ID, Query: step.Query, Limit: step.Limit}

	var (
		nodes []catalog.Node
		techs []catalog.Technology
		err   error
	)

	switch step.Op {
	case OpStats:
		var stats index.Statistics
		if stats, err = ix.Statistics(); err == nil {
			event.Stats = &stats
		}
	case OpGet:
		var e index.Entity
		if e, err = ix.EntityDetails(step.ID); err == nil {
			event.Relation = string(e.Type)
			event.Count = 1
			event.IDs = []string{e.ID}
			event.Names = []string{e.Name()}
		}
	case OpRelated:
		var r index.Related
		if r, err = ix.Related(step.ID); err == nil {
			event.Relation = r.Relation
			nodes, techs = r.Nodes, r.Technologies
		}
	case OpNodesOf:
		var tn index.TechnologyNodes
		if tn, err = ix.NodesByTechnology(step.ID); err == nil {
			nodes = tn.Nodes
		}
	case OpTechnologiesOf:
		var nt index.NodeTechnologies
		if nt, err = ix.TechnologiesByNode(step.ID); err == nil {
			techs = nt.Technologies
		}
	case OpSearchNodes:
		nodes, err = ix.SearchNodes(step.Query, step.Limit)
	case OpSearchTechnologies:
		techs, err = ix.SearchTechnologies(step.Query, step.Limit)
	case OpLookupNode:
		var n catalog.Node
		if n, err = ix.LookupNode(step.Query); err == nil {
			nodes = []catalog.Node{n}
		}
	case OpLookupTechnology:
		var t catalog.Technology
		if t, err = ix.LookupTechnology(step.Query); err == nil {
			techs = []catalog.Technology{t}
		}
	case OpListNodes:
		nodes, err = ix.ListNodes(step.Limit)
	case OpListTechnologies:
		techs, err = ix.ListTechnologies(step.Limit)
	default:
		err = fmt.Errorf("unknown op %q", step.Op)
	}

	if err != nil {
		event.Error = ErrorCode(err)
		return event
	}

	for _, n := range nodes {
		event.IDs = append(event.IDs, n.ID)
		event.Names = append(event.Names, n.Name)
	}
	for _, t := range techs {
		event.IDs = append(event.IDs, t.ID)
		event.Names = append(event.Names, t.Name)
	}
	if nodes != nil || techs != nil {
		event.Count = len(event.IDs)
	}
	return event
}
