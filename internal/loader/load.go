package loader

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/roach88/bioindex/internal/catalog"
)

// Format is a dataset file encoding.
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// FormatFromPath picks the format from a file extension.
func FormatFromPath(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return FormatJSON, nil
	case ".yaml", ".yml":
		return FormatYAML, nil
	default:
		return "", fmt.Errorf("unsupported dataset file extension %q (want .json, .yaml or .yml)", filepath.Ext(path))
	}
}

// Result is a loaded dataset plus everything left out of it.
type Result struct {
	Dataset catalog.Dataset

	// Issues lists rejected records.
	Issues []catalog.RecordIssue

	// Warnings lists records that were kept but look suspicious.
	Warnings []catalog.RecordIssue
}

// LoadFiles reads nodes and technologies from two files, each holding a
// list of records.
func LoadFiles(nodesPath, technologiesPath string) (*Result, error) {
	nodes, err := readRecordList(nodesPath)
	if err != nil {
		return nil, err
	}
	techs, err := readRecordList(technologiesPath)
	if err != nil {
		return nil, err
	}
	return FromRecords(nodes, techs)
}

// datasetDoc is the single-file layout.
type datasetDoc struct {
	Nodes        []any `json:"nodes" yaml:"nodes"`
	Technologies []any `json:"technologies" yaml:"technologies"`
}

// LoadDatasetFile reads one file with top-level nodes and technologies.
func LoadDatasetFile(path string) (*Result, error) {
	format, err := FormatFromPath(path)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("cannot read dataset file %s: %w", path, err)
	}

	return parseDataset(path, data, format)
}

//go:embed sample.yaml
var sampleDataset []byte

// SampleSource names the embedded sample dataset in logs and store meta.
const SampleSource = "builtin:sample"

// LoadSample returns the embedded Euro-BioImaging sample dataset.
func LoadSample() (*Result, error) {
	return parseDataset(SampleSource, sampleDataset, FormatYAML)
}

func parseDataset(name string, data []byte, format Format) (*Result, error) {
	var doc datasetDoc
	if err := decode(data, format, &doc); err != nil {
		return nil, fmt.Errorf("invalid dataset file %s: %w", name, err)
	}
	return FromRecords(doc.Nodes, doc.Technologies)
}

// FromRecords validates loosely typed records and decodes the valid ones.
// Record order is preserved.
func FromRecords(nodes, technologies []any) (*Result, error) {
	v, err := NewValidator()
	if err != nil {
		return nil, err
	}

	res := &Result{
		Dataset: catalog.Dataset{
			Nodes:        make([]catalog.Node, 0, len(nodes)),
			Technologies: make([]catalog.Technology, 0, len(technologies)),
		},
		Issues:   []catalog.RecordIssue{},
		Warnings: []catalog.RecordIssue{},
	}

	for i, rec := range technologies {
		var t catalog.Technology
		if !decodeRecord(v, res, catalog.EntityTechnology, i, rec, &t) {
			continue
		}
		res.Dataset.Technologies = append(res.Dataset.Technologies, t)
	}
	for i, rec := range nodes {
		var n catalog.Node
		if !decodeRecord(v, res, catalog.EntityNode, i, rec, &n) {
			continue
		}
		res.Warnings = append(res.Warnings, v.Warn(catalog.EntityNode, i, n.ID)...)
		res.Dataset.Nodes = append(res.Dataset.Nodes, n)
	}
	return res, nil
}

// decodeRecord validates rec and decodes it into out. Returns false, with
// the issues recorded, if rec is rejected.
func decodeRecord(v *Validator, res *Result, kind catalog.EntityKind, index int, rec any, out any) bool {
	rec = normalizeKeys(rec)
	if issues := v.Check(kind, index, rec); len(issues) > 0 {
		res.Issues = append(res.Issues, issues...)
		return false
	}

	data, err := json.Marshal(rec)
	if err == nil {
		err = json.Unmarshal(data, out)
	}
	if err != nil {
		res.Issues = append(res.Issues, catalog.RecordIssue{
			Kind: kind, Index: index, ID: recordID(rec), Message: err.Error(),
		})
		return false
	}
	return true
}

func readRecordList(path string) ([]any, error) {
	format, err := FormatFromPath(path)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("cannot read dataset file %s: %w", path, err)
	}

	var records []any
	if err := decode(data, format, &records); err != nil {
		return nil, fmt.Errorf("invalid dataset file %s: expected a list of records: %w", path, err)
	}
	return records, nil
}

func decode(data []byte, format Format, out any) error {
	if format == FormatYAML {
		return yaml.NewDecoder(bytes.NewReader(data)).Decode(out)
	}
	return json.Unmarshal(data, out)
}

// normalizeKeys converts map[any]any produced by some YAML documents into
// map[string]any so records can be encoded for CUE and JSON.
func normalizeKeys(v any) any {
	switch val := v.(type) {
	case map[string]any:
		for k, elem := range val {
			val[k] = normalizeKeys(elem)
		}
		return val
	case map[any]any:
		out := make(map[string]any, len(val))
		for k, elem := range val {
			out[fmt.Sprint(k)] = normalizeKeys(elem)
		}
		return out
	case []any:
		for i, elem := range val {
			val[i] = normalizeKeys(elem)
		}
		return val
	default:
		return v
	}
}
