package catalog

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNode_UnmarshalCountryObject(t *testing.T) {
	data := `{
		"id": "7409a98f-1bdb-47d2-80e7-c89db73efedd",
		"name": "Advanced Light Microscopy Italian Node",
		"country": {"name": "Italy", "iso_a2": "IT"},
		"technologies": ["3D-CLEM"]
	}`

	var n Node
	require.NoError(t, json.Unmarshal([]byte(data), &n))
	assert.Equal(t, Country{Name: "Italy", ISOA2: "IT"}, n.Country)
	assert.Equal(t, []string{"3D-CLEM"}, n.Technologies)
}

func TestNode_UnmarshalCountryString(t *testing.T) {
	var n Node
	require.NoError(t, json.Unmarshal([]byte(`{"id":"n1","name":"N","country":"Poland"}`), &n))
	assert.Equal(t, Country{Name: "Poland"}, n.Country)
}

func TestNode_UnmarshalCountryInvalid(t *testing.T) {
	var n Node
	err := json.Unmarshal([]byte(`{"id":"n1","name":"N","country":42}`), &n)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "country")
}

func TestTechnology_UnmarshalCategoryForms(t *testing.T) {
	var obj, str Technology
	require.NoError(t, json.Unmarshal([]byte(`{"id":"t1","name":"4Pi microscopy","abbr":"4Pi","category":{"name":"Fluorescence Nanoscopy"}}`), &obj))
	require.NoError(t, json.Unmarshal([]byte(`{"id":"t1","name":"4Pi microscopy","category":"Fluorescence Nanoscopy"}`), &str))

	assert.Equal(t, "Fluorescence Nanoscopy", obj.Category.Name)
	assert.Equal(t, obj.Category, str.Category)
	assert.Equal(t, "4Pi", obj.Abbreviation)
}

func TestTechnology_MarshalSnakeCase(t *testing.T) {
	data, err := json.Marshal(Technology{ID: "synthetic-x", Name: "x", Synthetic: true})
	require.NoError(t, err)
	assert.JSONEq(t, `{"id":"synthetic-x","name":"x","category":{"name":""},"synthetic":true}`, string(data))
}

func TestRecordIssue_String(t *testing.T) {
	issue := RecordIssue{Kind: EntityNode, Index: 2, ID: "n3", Field: "name", Message: "name is required"}
	assert.Equal(t, "node[2] (id=n3): name: name is required", issue.String())

	issue = RecordIssue{Kind: EntityTechnology, Index: 0, Message: "duplicate"}
	assert.Equal(t, "technology[0]: duplicate", issue.String())
}

func TestReference_Constructors(t *testing.T) {
	assert.Equal(t, Reference{Kind: RefCanonical, Value: "t1"}, Canonical("t1"))
	assert.Equal(t, Reference{Kind: RefName, Value: "CLEM"}, Named("CLEM"))
	assert.Equal(t, "canonical", RefCanonical.String())
	assert.Equal(t, "name", RefName.String())
}
