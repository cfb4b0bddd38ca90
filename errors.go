package archiverag

import "errors"

var (
	// ErrQueryTooShort is returned when a query is empty or below the
	// minimum length. Rejected before any collaborator is contacted.
	ErrQueryTooShort = errors.New("archiverag: query too short")

	// ErrTimeout is returned when an external collaborator exceeded its
	// allotted time. Distinct from generic failure so callers can retry
	// at a higher layer; never retried internally.
	ErrTimeout = errors.New("archiverag: collaborator timed out")

	// ErrServiceUnavailable is returned when a collaborator (vector index,
	// LLM endpoint) is unreachable. Never conflated with "no evidence".
	ErrServiceUnavailable = errors.New("archiverag: service unavailable")

	// ErrEntityNotFound is returned when a relationship lookup names an
	// entity identity that does not exist in the entity store.
	ErrEntityNotFound = errors.New("archiverag: entity not found")

	// ErrUnknownEntityKind is returned for entity kinds outside
	// person/workgroup/topic.
	ErrUnknownEntityKind = errors.New("archiverag: unknown entity kind")

	// ErrInvalidConfig is returned for invalid configuration values.
	ErrInvalidConfig = errors.New("archiverag: invalid configuration")

	// ErrEngineClosed is returned when operating on a closed engine.
	ErrEngineClosed = errors.New("archiverag: engine is closed")
)
