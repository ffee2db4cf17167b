// Package harness runs bioindex query scenarios.
//
// A scenario is a YAML file holding a small dataset and a list of queries.
// Run loads the dataset through the loader (CUE validation included),
// builds an index with a fixed build ID and clock, runs each query against
// it, and records one trace event per query. Queries may carry expect
// clauses; a mismatch fails the scenario.
//
// # Scenario Format
//
//	name: italian_node
//	description: "A free-text reference becomes a synthetic technology"
//	dataset:
//	  technologies:
//	    - { id: 4pi, name: 4Pi microscopy, abbr: 4Pi }
//	  nodes:
//	    - id: 0d4a5ba4-3c0b-4a8e-9f71-2c5a4d0f6e11
//	      name: Italian Node
//	      technologies: [3D-CLEM, 4pi]
//	queries:
//	  - op: technologies_of
//	    id: 0d4a5ba4-3c0b-4a8e-9f71-2c5a4d0f6e11
//	    expect:
//	      count: 2
//	      names: [3D-CLEM, 4Pi microscopy]
//
// A scenario may point at a dataset file instead (dataset_file, relative
// to the scenario), and may declare expect_build_error when the dataset is
// meant to fail integrity checks.
//
// # Golden Files
//
// RunWithGolden compares the marshaled trace against
// testdata/golden/<name>.golden. Regenerate with:
//
//	go test ./internal/harness -update
package harness
