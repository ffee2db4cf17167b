package loader

import (
	_ "embed"
	"fmt"
	"strings"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	cueerrors "cuelang.org/go/cue/errors"
	"github.com/google/uuid"

	"github.com/roach88/bioindex/internal/catalog"
)

//go:embed schema.cue
var schemaCUE string

// Validator checks loosely typed records against the CUE schema.
// Not safe for concurrent use: it owns one cue.Context.
type Validator struct {
	ctx        *cue.Context
	node       cue.Value
	technology cue.Value
}

// NewValidator compiles the embedded schema.
func NewValidator() (*Validator, error) {
	ctx := cuecontext.New()
	schema := ctx.CompileString(schemaCUE, cue.Filename("schema.cue"))
	if err := schema.Err(); err != nil {
		return nil, fmt.Errorf("compile schema: %w", err)
	}

	v := &Validator{
		ctx:        ctx,
		node:       schema.LookupPath(cue.ParsePath("#Node")),
		technology: schema.LookupPath(cue.ParsePath("#Technology")),
	}
	if !v.node.Exists() || !v.technology.Exists() {
		return nil, fmt.Errorf("schema is missing #Node or #Technology")
	}
	return v, nil
}

// Check validates one record of the given kind. It returns every issue CUE
// reports; an empty result means the record is valid.
func (v *Validator) Check(kind catalog.EntityKind, index int, record any) []catalog.RecordIssue {
	def := v.node
	if kind == catalog.EntityTechnology {
		def = v.technology
	}

	id := recordID(record)
	unified := def.Unify(v.ctx.Encode(record))
	err := unified.Validate(cue.Concrete(true))
	if err == nil {
		return nil
	}

	var issues []catalog.RecordIssue
	for _, e := range cueerrors.Errors(err) {
		format, args := e.Msg()
		issues = append(issues, catalog.RecordIssue{
			Kind:    kind,
			Index:   index,
			ID:      id,
			Field:   fieldPath(e.Path()),
			Message: fmt.Sprintf(format, args...),
		})
	}
	if len(issues) == 0 {
		issues = append(issues, catalog.RecordIssue{Kind: kind, Index: index, ID: id, Message: err.Error()})
	}
	return issues
}

// Warn reports conditions that do not reject a record. Node IDs are
// conventionally UUIDs; anything else is flagged.
func (v *Validator) Warn(kind catalog.EntityKind, index int, id string) []catalog.RecordIssue {
	if kind != catalog.EntityNode {
		return nil
	}
	if _, err := uuid.Parse(id); err != nil {
		return []catalog.RecordIssue{{
			Kind: kind, Index: index, ID: id, Field: "id",
			Message: "node id is not a UUID",
		}}
	}
	return nil
}

// fieldPath drops definition selectors (#Node) from a CUE error path.
func fieldPath(path []string) string {
	parts := make([]string, 0, len(path))
	for _, p := range path {
		if strings.HasPrefix(p, "#") {
			continue
		}
		parts = append(parts, p)
	}
	return strings.Join(parts, ".")
}

func recordID(record any) string {
	m, ok := record.(map[string]any)
	if !ok {
		return ""
	}
	id, _ := m["id"].(string)
	return id
}
