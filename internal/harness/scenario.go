package harness

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Scenario is one dataset plus the queries to run against it.
type Scenario struct {
	// Name identifies the scenario and names its golden file.
	Name string `yaml:"name"`

	// Description explains what this scenario checks.
	Description string `yaml:"description"`

	// Dataset holds records inline. Mutually exclusive with DatasetFile.
	Dataset *DatasetSpec `yaml:"dataset,omitempty"`

	// DatasetFile points at a single-file dataset, relative to the scenario
	// file when loaded through LoadScenario.
	DatasetFile string `yaml:"dataset_file,omitempty"`

	// ExpectBuildError is the integrity code the build must fail with
	// (for example ID_COLLISION). Empty means the build must succeed.
	ExpectBuildError string `yaml:"expect_build_error,omitempty"`

	// Queries run in order against the built index.
	Queries []QueryStep `yaml:"queries"`
}

// DatasetSpec is an inline dataset. Records stay loosely typed so they go
// through the same validation as dataset files.
type DatasetSpec struct {
	Nodes        []any `yaml:"nodes"`
	Technologies []any `yaml:"technologies"`
}

// QueryStep is one façade call.
type QueryStep struct {
	// Op is one of the Op* constants.
	Op string `yaml:"op"`

	// ID is the entity ID for get, related, nodes_of and technologies_of.
	ID string `yaml:"id,omitempty"`

	// Query is the search text or, for lookups, the name.
	Query string `yaml:"query,omitempty"`

	// Limit caps search and list results; 0 means unbounded.
	Limit int `yaml:"limit,omitempty"`

	// Expect is optional; without it the step only contributes to the trace.
	Expect *ExpectClause `yaml:"expect,omitempty"`
}

// ExpectClause checks a query outcome. Only set fields are compared.
type ExpectClause struct {
	// Error is the expected error code (see ErrorCode). When set, the query
	// must fail.
	Error string `yaml:"error,omitempty"`

	// Count is the expected number of returned entities.
	Count *int `yaml:"count,omitempty"`

	// IDs is the expected list of returned IDs, in order.
	IDs []string `yaml:"ids,omitempty"`

	// Names is the expected list of returned display names, in order.
	Names []string `yaml:"names,omitempty"`
}

// Query operations.
const (
	OpStats              = "stats"
	OpGet                = "get"
	OpRelated            = "related"
	OpNodesOf            = "nodes_of"
	OpTechnologiesOf     = "technologies_of"
	OpSearchNodes        = "search_nodes"
	OpSearchTechnologies = "search_technologies"
	OpLookupNode         = "lookup_node"
	OpLookupTechnology   = "lookup_technology"
	OpListNodes          = "list_nodes"
	OpListTechnologies   = "list_technologies"
)

// LoadScenario reads and parses a scenario YAML file.
// Returns an error if the file doesn't exist, is malformed,
// contains unknown fields (typos), or is missing required fields.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario file: %w", err)
	}

	scenario, err := ParseScenario(data)
	if err != nil {
		return nil, err
	}

	if scenario.DatasetFile != "" && !filepath.IsAbs(scenario.DatasetFile) {
		scenario.DatasetFile = filepath.Join(filepath.Dir(path), scenario.DatasetFile)
	}
	return scenario, nil
}

// ParseScenario decodes scenario YAML with strict field checking.
func ParseScenario(data []byte) (*Scenario, error) {
	var scenario Scenario
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&scenario); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if err := validateScenario(&scenario); err != nil {
		return nil, fmt.Errorf("invalid scenario: %w", err)
	}
	return &scenario, nil
}

func validateScenario(s *Scenario) error {
	if s.Name == "" {
		return fmt.Errorf("name is required")
	}
	if s.Dataset == nil && s.DatasetFile == "" {
		return fmt.Errorf("one of dataset or dataset_file is required")
	}
	if s.Dataset != nil && s.DatasetFile != "" {
		return fmt.Errorf("dataset and dataset_file are mutually exclusive")
	}
	if len(s.Queries) == 0 {
		return fmt.Errorf("queries list is required and must be non-empty")
	}

	for i, q := range s.Queries {
		if err := validateQuery(i, q); err != nil {
			return err
		}
	}
	return nil
}

func validateQuery(index int, q QueryStep) error {
	switch q.Op {
	case OpGet, OpRelated, OpNodesOf, OpTechnologiesOf:
		if q.ID == "" {
			return fmt.Errorf("queries[%d]: id is required for %s", index, q.Op)
		}
	case OpLookupNode, OpLookupTechnology:
		if q.Query == "" {
			return fmt.Errorf("queries[%d]: query is required for %s", index, q.Op)
		}
	case OpStats, OpSearchNodes, OpSearchTechnologies, OpListNodes, OpListTechnologies:
	case "":
		return fmt.Errorf("queries[%d]: op is required", index)
	default:
		return fmt.Errorf("queries[%d]: unknown op %q", index, q.Op)
	}

	if q.Limit < 0 {
		return fmt.Errorf("queries[%d]: limit must be non-negative", index)
	}
	if q.Expect != nil && q.Expect.Count != nil && *q.Expect.Count < 0 {
		return fmt.Errorf("queries[%d].expect: count must be non-negative", index)
	}
	return nil
}
