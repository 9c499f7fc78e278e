package moderator

import (
	"fmt"
	"slices"

	"gorm.io/gorm"
)

// CursorPager applies ordering, a keyset cursor and a limit to a gorm query.
type CursorPager struct {
	limit  int
	cursor *KeysetCursor
	sort   Orderings
}

func NewCursorPager() *CursorPager {
	return new(CursorPager)
}

// WithLimit sets the maximum number of returned records. NormalizeLimit is
// applied.
func (c *CursorPager) WithLimit(limit int) *CursorPager {
	if c == nil {
		c = new(CursorPager)
	}

	c.limit = NormalizeLimit(limit)

	return c
}

// WithCursor sets the cursor explicitly. A nil cursor starts from the
// beginning of the dataset.
func (c *CursorPager) WithCursor(cursor *KeysetCursor) *CursorPager {
	if c == nil {
		c = new(CursorPager)
	}

	c.cursor = cursor

	return c
}

// WithSubstitutedSort resets previous orderings and applies the provided ones.
func (c *CursorPager) WithSubstitutedSort(orderBy ...OrderBy) *CursorPager {
	if c == nil {
		c = new(CursorPager)
	}

	c.sort = nil

	return c.WithSort(orderBy...)
}

// WithSort appends sort orderings without overwriting existing ones.
// Order is preserved as if calling:
//
//	OrderBy(o1).ThenBy(o2).ThenBy(o3)...
func (c *CursorPager) WithSort(orderBy ...OrderBy) *CursorPager {
	if c == nil {
		c = new(CursorPager)
	}

	for _, o := range orderBy {
		idx := slices.IndexFunc(c.sort, func(processed OrderBy) bool {
			return processed.Column == o.Column
		})

		// Remove previous occurrence (avoid duplication).
		if idx != -1 {
			c.sort = slices.Delete(c.sort, idx, idx+1)
		}

		c.sort = append(c.sort, o)
	}

	return c
}

// Paginate applies pagination to the dataset. Returns an error if pagination
// cannot be applied.
func (c *CursorPager) Paginate(db *gorm.DB) (*gorm.DB, error) {
	if err := c.validate(); err != nil {
		return nil, fmt.Errorf("cannot paginate: %w", err)
	}

	db = c.cursor.Apply(db)
	db = c.sort.Apply(db)

	return db.Limit(c.limit), nil
}

// GetSort returns orderings that will be applied to the dataset.
func (c *CursorPager) GetSort() Orderings {
	if c == nil {
		return nil
	}

	return c.sort
}

// GetLimit returns the normalized limit.
func (c *CursorPager) GetLimit() int {
	if c == nil {
		return 0
	}

	return c.limit
}

// GetCursor returns the cursor as-is.
func (c *CursorPager) GetCursor() *KeysetCursor {
	if c == nil {
		return nil
	}

	return c.cursor
}

func (c *CursorPager) validate() error {
	if c == nil {
		return fmt.Errorf("cursor pager is nil")
	}

	if c.limit <= 0 {
		return fmt.Errorf("cursor pager limit is not set")
	}

	if err := c.sort.validate(); err != nil {
		return err
	}

	return c.cursor.validate(c.sort)
}
