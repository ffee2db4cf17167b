package store

import (
	"encoding/json"
	"fmt"
)

// marshalReferences stores raw technology references as a JSON array.
// A nil list is stored as [] so the column is never NULL.
func marshalReferences(refs []string) (string, error) {
	if refs == nil {
		refs = []string{}
	}
	data, err := json.Marshal(refs)
	if err != nil {
		return "", fmt.Errorf("marshal references: %w", err)
	}
	return string(data), nil
}

func unmarshalReferences(data string) ([]string, error) {
	refs := []string{}
	if data == "" {
		return refs, nil
	}
	if err := json.Unmarshal([]byte(data), &refs); err != nil {
		return nil, fmt.Errorf("unmarshal references: %w", err)
	}
	return refs, nil
}
