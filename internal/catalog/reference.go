package catalog

// RefKind tags a technology reference after classification.
type RefKind int

const (
	// RefCanonical is a reference that names an existing formal technology,
	// either by ID or by its exact display name.
	RefCanonical RefKind = iota
	// RefName is a free-form name with no formal record behind it.
	RefName
)

func (k RefKind) String() string {
	switch k {
	case RefCanonical:
		return "canonical"
	case RefName:
		return "name"
	default:
		return "unknown"
	}
}

// Reference is a classified technology reference. For RefCanonical, Value is
// the formal technology ID. For RefName, Value is the reference text as
// written in the dataset.
type Reference struct {
	Kind  RefKind
	Value string
}

// Canonical returns a reference to a formal technology ID.
func Canonical(id string) Reference {
	return Reference{Kind: RefCanonical, Value: id}
}

// Named returns a free-form name reference.
func Named(text string) Reference {
	return Reference{Kind: RefName, Value: text}
}
