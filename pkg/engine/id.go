package engine

import "github.com/google/uuid"

// NewRelationID returns a fresh identifier for a relation node.
func NewRelationID() string {
	return "rel-" + uuid.NewString()
}
