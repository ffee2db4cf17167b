package catalog

import (
	"encoding/json"
	"fmt"
)

// EntityKind names the two record families in a dataset.
type EntityKind string

const (
	EntityNode       EntityKind = "node"
	EntityTechnology EntityKind = "technology"
)

// Country locates a node. Datasets may give either a plain string or an
// object with name and ISO 3166 alpha-2 code.
type Country struct {
	Name  string `json:"name"`
	ISOA2 string `json:"iso_a2,omitempty"`
}

// UnmarshalJSON accepts "Italy" as well as {"name": "Italy", "iso_a2": "IT"}.
func (c *Country) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*c = Country{Name: s}
		return nil
	}
	type plain Country
	var p plain
	if err := json.Unmarshal(data, &p); err != nil {
		return fmt.Errorf("country: %w", err)
	}
	*c = Country(p)
	return nil
}

// Category groups technologies. Accepts a plain string or {"name": "..."}.
type Category struct {
	Name string `json:"name"`
}

// UnmarshalJSON accepts both the string and the object form.
func (c *Category) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*c = Category{Name: s}
		return nil
	}
	type plain Category
	var p plain
	if err := json.Unmarshal(data, &p); err != nil {
		return fmt.Errorf("category: %w", err)
	}
	*c = Category(p)
	return nil
}

// Node is an imaging facility. Technologies holds raw references exactly as
// they appear in the dataset: canonical technology IDs or free-form names.
type Node struct {
	ID           string   `json:"id"`
	Name         string   `json:"name"`
	Description  string   `json:"description,omitempty"`
	Country      Country  `json:"country"`
	Technologies []string `json:"technologies"`
}

// Technology is an imaging technique. Synthetic is true only for records
// the resolver fabricated from a name no formal record carries.
type Technology struct {
	ID           string   `json:"id"`
	Name         string   `json:"name"`
	Description  string   `json:"description,omitempty"`
	Category     Category `json:"category"`
	Abbreviation string   `json:"abbr,omitempty"`
	Synthetic    bool     `json:"synthetic,omitempty"`
}

// Dataset is the raw input to an index build. Order is significant: it is
// the insertion order every listing and search result follows.
type Dataset struct {
	Nodes        []Node       `json:"nodes"`
	Technologies []Technology `json:"technologies"`
}

// RecordIssue describes one record that was rejected during load or build.
// Index is the record's position in its input sequence.
type RecordIssue struct {
	Kind    EntityKind `json:"kind"`
	Index   int        `json:"index"`
	ID      string     `json:"id,omitempty"`
	Field   string     `json:"field,omitempty"`
	Message string     `json:"message"`
}

func (i RecordIssue) String() string {
	loc := fmt.Sprintf("%s[%d]", i.Kind, i.Index)
	if i.ID != "" {
		loc += fmt.Sprintf(" (id=%s)", i.ID)
	}
	if i.Field != "" {
		return fmt.Sprintf("%s: %s: %s", loc, i.Field, i.Message)
	}
	return fmt.Sprintf("%s: %s", loc, i.Message)
}
