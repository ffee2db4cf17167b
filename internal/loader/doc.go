// Package loader reads bioindex datasets from JSON or YAML files.
//
// Every record is validated against the CUE definitions in schema.cue
// before it is decoded into a catalog type. A record that fails validation
// is left out of the dataset and reported as a catalog.RecordIssue; only
// file-level problems (unreadable file, malformed document) are errors.
//
// Supported layouts:
//   - Two files, one JSON array or YAML sequence of records each
//     (LoadFiles)
//   - One file with top-level "nodes" and "technologies" keys
//     (LoadDatasetFile)
package loader
