package entity

import (
	"context"
	"errors"
)

// Kind classifies a canonical entity.
type Kind string

const (
	KindPerson    Kind = "person"
	KindWorkgroup Kind = "workgroup"
	KindTopic     Kind = "topic"
)

// Kinds lists every valid entity kind in a stable order.
var Kinds = []Kind{KindPerson, KindWorkgroup, KindTopic}

// Valid reports whether k is a known entity kind.
func (k Kind) Valid() bool {
	switch k {
	case KindPerson, KindWorkgroup, KindTopic:
		return true
	}
	return false
}

// ID is a canonical entity identity. The zero value means "unresolved".
type ID string

// CanonicalEntity is the single authoritative identity a name variation
// resolves to. Entities are created and deleted by the store owner, never
// by the resolver.
type CanonicalEntity struct {
	ID      ID       `json:"id"`
	Name    string   `json:"name"`              // canonical display name
	Aliases []string `json:"aliases,omitempty"` // alternate-name set
	Kind    Kind     `json:"kind"`
}

var (
	// ErrNotFound is returned when an entity identity does not exist.
	ErrNotFound = errors.New("entity: not found")

	// ErrInvalidKind is returned for unknown entity kinds.
	ErrInvalidKind = errors.New("entity: invalid kind")
)

// Store is the external entity-store boundary. Implementations own entity
// lifecycle; consumers of this interface read it per request.
type Store interface {
	// List returns every entity of the given kind, in stable order.
	List(ctx context.Context, kind Kind) ([]CanonicalEntity, error)

	// Get returns a single entity by identity, or ErrNotFound.
	Get(ctx context.Context, kind Kind, id ID) (*CanonicalEntity, error)

	// Save creates or replaces an entity. Used by ingestion tooling only.
	Save(ctx context.Context, e CanonicalEntity) error

	// Count returns the number of entities of the given kind.
	Count(ctx context.Context, kind Kind) (int, error)
}
