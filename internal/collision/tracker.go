package collision

import (
	"github.com/arloliu/splitbson/internal/hash"
)

// Tracker tracks distinct schema streams and detects 32-bit fingerprint
// collisions during analysis and container encoding. It maintains a map of
// fingerprint-to-identity mappings and an ordered list of distinct schemas
// for index encoding.
type Tracker struct {
	schemaIDs    map[uint32]uint64 // fingerprint → xxHash64 identity
	schemaList   [][]byte          // distinct schemas in first-seen order
	ordinals     map[uint64]int    // xxHash64 identity → ordinal in schemaList
	hasCollision bool
}

// NewTracker creates a new collision tracker.
func NewTracker() *Tracker {
	return &Tracker{
		schemaIDs: make(map[uint32]uint64),
		ordinals:  make(map[uint64]int),
	}
}

// Track records a finalized schema stream under its 32-bit fingerprint and
// returns the schema's ordinal (position in first-seen order).
//
// A collision (different schema content, same fingerprint) is not an error:
// the collision flag is set and the schema still receives its own ordinal,
// keyed by its 64-bit identity.
func (t *Tracker) Track(fingerprint uint32, schema []byte) int {
	id := hash.ID64(schema)

	if existing, ok := t.schemaIDs[fingerprint]; ok && existing != id {
		t.hasCollision = true
	}
	t.schemaIDs[fingerprint] = id

	if ordinal, ok := t.ordinals[id]; ok {
		return ordinal
	}

	ordinal := len(t.schemaList)
	owned := make([]byte, len(schema))
	copy(owned, schema)
	t.schemaList = append(t.schemaList, owned)
	t.ordinals[id] = ordinal

	return ordinal
}

// HasCollision returns true if two distinct schemas shared a fingerprint.
func (t *Tracker) HasCollision() bool {
	return t.hasCollision
}

// Schemas returns the distinct schema streams in first-seen order.
// The returned slices are owned by the tracker; callers must not modify them.
func (t *Tracker) Schemas() [][]byte {
	return t.schemaList
}

// Count returns the number of distinct schemas tracked.
func (t *Tracker) Count() int {
	return len(t.schemaList)
}

// Reset clears all tracked schemas and collision state.
func (t *Tracker) Reset() {
	clear(t.schemaIDs)
	clear(t.ordinals)
	t.schemaList = t.schemaList[:0]
	t.hasCollision = false
}
