package index

import (
	"errors"
	"fmt"
)

// ErrNotFound is returned when a query names an ID or name that is absent
// from the relevant Record Store. Lookups wrap it with the missing key.
var ErrNotFound = errors.New("entity not found")

// ErrNotInitialized is returned by every query issued before the first
// successful build has been published.
var ErrNotInitialized = errors.New("index not initialized")

// IntegrityError reports a violated structural invariant found while
// building a snapshot. It is fatal to the build: the snapshot is discarded
// and the previously published state is kept.
//
// Integrity errors include:
//   - Missing node: an edge names a node absent from the Record Store
//   - Missing technology: an edge names a technology absent after resolution
//   - Asymmetric edge: one directional mapping has an edge the other lacks
//   - ID collision: the same ID exists as both a node and a technology
type IntegrityError struct {
	// Code identifies the violated invariant.
	Code IntegrityErrorCode `json:"code"`

	// Message is a human-readable description.
	Message string `json:"message"`

	// ID is the offending entity ID.
	ID string `json:"id"`

	// Direction names the mapping in which the violation was seen,
	// "node->technology" or "technology->node". Empty when not applicable.
	Direction string `json:"direction,omitempty"`
}

// IntegrityErrorCode categorizes integrity errors.
type IntegrityErrorCode string

const (
	ErrCodeMissingNode       IntegrityErrorCode = "MISSING_NODE"
	ErrCodeMissingTechnology IntegrityErrorCode = "MISSING_TECHNOLOGY"
	ErrCodeAsymmetricEdge    IntegrityErrorCode = "ASYMMETRIC_EDGE"
	ErrCodeIDCollision       IntegrityErrorCode = "ID_COLLISION"
)

const (
	dirNodeToTech = "node->technology"
	dirTechToNode = "technology->node"
)

// Error implements the error interface.
func (e *IntegrityError) Error() string {
	if e.Direction != "" {
		return fmt.Sprintf("%s: %s (id=%s, direction=%s)", e.Code, e.Message, e.ID, e.Direction)
	}
	return fmt.Sprintf("%s: %s (id=%s)", e.Code, e.Message, e.ID)
}

// IsIntegrityError returns true if err is or wraps an IntegrityError.
func IsIntegrityError(err error) bool {
	var ie *IntegrityError
	return errors.As(err, &ie)
}

func newMissingNodeError(nodeID, direction string) *IntegrityError {
	return &IntegrityError{
		Code:      ErrCodeMissingNode,
		Message:   "edge references a node absent from the record store",
		ID:        nodeID,
		Direction: direction,
	}
}

func newMissingTechnologyError(techID, direction string) *IntegrityError {
	return &IntegrityError{
		Code:      ErrCodeMissingTechnology,
		Message:   "edge references a technology absent from the record store",
		ID:        techID,
		Direction: direction,
	}
}

func newAsymmetricEdgeError(from, to, direction string) *IntegrityError {
	return &IntegrityError{
		Code:      ErrCodeAsymmetricEdge,
		Message:   fmt.Sprintf("edge %s -> %s has no reverse entry", from, to),
		ID:        from,
		Direction: direction,
	}
}

func newIDCollisionError(id string) *IntegrityError {
	return &IntegrityError{
		Code:    ErrCodeIDCollision,
		Message: "id exists as both a node and a technology",
		ID:      id,
	}
}

func nodeNotFound(id string) error {
	return fmt.Errorf("%w: node %q", ErrNotFound, id)
}

func technologyNotFound(id string) error {
	return fmt.Errorf("%w: technology %q", ErrNotFound, id)
}
