package moderator

import (
	"context"
	"fmt"
)

// Query is a bounded, ordered fetch against the items collection. Results are
// ordered by ItemOrdering. The store evaluates at most the two equality
// filters; empty values mean no constraint.
type Query struct {
	Status Status
	Type   ItemType
	Limit  int

	// StartAfter and StartAt are mutually exclusive. StartAfter excludes the
	// marked document, StartAt includes it.
	StartAfter *Marker
	StartAt    *Marker
}

func (q Query) validate() error {
	if q.Limit <= 0 || q.Limit > MaxLimit {
		return fmt.Errorf("%w: limit %d out of range [1, %d]", ErrInvalidQuery, q.Limit, MaxLimit)
	}
	if q.StartAfter != nil && q.StartAt != nil {
		return fmt.Errorf("%w: start-after and start-at are mutually exclusive", ErrInvalidQuery)
	}

	return nil
}

// cursor converts the start constraint into a keyset cursor over ItemOrdering.
func (q Query) cursor() (*KeysetCursor, error) {
	switch {
	case q.StartAfter != nil:
		return CursorAfter(ItemOrdering, *q.StartAfter, markerGetters)
	case q.StartAt != nil:
		return CursorAt(ItemOrdering, *q.StartAt, markerGetters)
	default:
		return nil, nil
	}
}

// ItemPatch lists the fields a moderation action may change.
type ItemPatch struct {
	Status    Status
	ClaimedBy string
}

// Tx is a single-document read-then-conditional-write transaction. Reads
// through Tx lock the document until the transaction ends.
type Tx interface {
	Get(id string) (*Item, error)
	// Update writes the patch to an item previously read with Get.
	Update(id string, patch ItemPatch) error
}

// Store is the remote ordered collection holding the items.
type Store interface {
	// Find returns at most q.Limit items in ItemOrdering order.
	Find(ctx context.Context, q Query) ([]Item, error)
	// Get returns ErrNotFound when the item does not exist.
	Get(ctx context.Context, id string) (*Item, error)
	// Delete removes the item permanently. Returns ErrNotFound when nothing
	// was deleted.
	Delete(ctx context.Context, id string) error
	// RunTransaction commits when fn returns nil and rolls back otherwise.
	RunTransaction(ctx context.Context, fn func(tx Tx) error) error
}
