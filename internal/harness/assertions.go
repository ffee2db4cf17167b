package harness

import (
	"fmt"
	"slices"
)

// checkExpect compares one trace event with its expect clause and returns
// a message per mismatch.
func checkExpect(index int, step QueryStep, event TraceEvent) []string {
	exp := step.Expect
	prefix := fmt.Sprintf("queries[%d] %s", index, step.Op)
	var errs []string

	if exp.Error != "" || event.Error != "" {
		if exp.Error != event.Error {
			errs = append(errs, fmt.Sprintf("%s: expected error %q, got %q", prefix, exp.Error, event.Error))
		}
		return errs
	}

	if exp.Count != nil && *exp.Count != event.Count {
		errs = append(errs, fmt.Sprintf("%s: expected count %d, got %d", prefix, *exp.Count, event.Count))
	}
	if exp.IDs != nil && !slices.Equal(exp.IDs, event.IDs) {
		errs = append(errs, fmt.Sprintf("%s: expected ids %v, got %v", prefix, exp.IDs, event.IDs))
	}
	if exp.Names != nil && !slices.Equal(exp.Names, event.Names) {
		errs = append(errs, fmt.Sprintf("%s: expected names %v, got %v", prefix, exp.Names, event.Names))
	}
	return errs
}
