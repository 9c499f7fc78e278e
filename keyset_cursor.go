package moderator

import (
	"fmt"

	"github.com/samber/lo"
	"gorm.io/gorm"
)

// KeysetCursor marks a position in an ordered dataset. An empty cursor means
// the beginning of the dataset.
//
// IMPORTANT:
// The cursor MUST contain a condition on a unique column, otherwise rows
// sharing the same sort values may be skipped or repeated.
//
// The cursor holds one element per ordering column:
//
//	[(C1, O1, V1), (C2, O2, V2)... (Cn, On, Vn)]
type KeysetCursor struct {
	elements []CursorElement
}

func NewKeysetCursor(elements ...CursorElement) *KeysetCursor {
	return &KeysetCursor{
		elements: elements,
	}
}

// IsEmpty reports whether the cursor constrains nothing.
func (c *KeysetCursor) IsEmpty() bool {
	return c == nil || len(c.elements) == 0
}

// Apply adds the cursor filter to a gorm query.
func (c *KeysetCursor) Apply(db *gorm.DB) *gorm.DB {
	exp := c.toDNF().toGORMExpression()
	if exp == nil {
		return db
	}

	return db.Clauses(exp)
}

// String implements fmt.Stringer. Values are inlined, so the result is for
// logs only.
func (c *KeysetCursor) String() string {
	return c.toDNF().String()
}

// toDNF expands the cursor elements into a filter.
//
// Applying the expansion to the elements
//
//	[(C1, O1, V1), (C2, O2, V2)]
//
// gives the filter:
//
//	(C1 O1 V1) OR (C1 = V1 AND C2 O2 V2)
//
// which selects exactly the rows positioned after (or, with an inclusive final
// operator, at or after) the cursor in the dataset order.
func (c *KeysetCursor) toDNF() tDNF {
	if c.IsEmpty() {
		return nil
	}

	dnf := make(tDNF, 0, len(c.elements))
	for i := range c.elements {
		conjunction := make(tConjunction, 0, i+1)
		conjunction = append(conjunction, lo.Map(c.elements[:i], func(item CursorElement, _ int) tPredicate {
			return item.toEqualityPredicate()
		})...)
		conjunction = append(conjunction, tPredicate(c.elements[i]))

		dnf = append(dnf, conjunction)
	}

	return dnf
}

func (c *KeysetCursor) validate(orderings Orderings) error {
	if c.IsEmpty() {
		return nil
	}

	if len(c.elements) != len(orderings) {
		return fmt.Errorf("cursor column number mismatch")
	}

	last := len(c.elements) - 1
	for i, cond := range c.elements {
		orderBy := orderings[i]

		if cond.Column != orderBy.Column {
			return fmt.Errorf("unexpected cursor column '%s'", cond.Column)
		}

		if !cond.Operator.Valid() {
			return fmt.Errorf("invalid cursor operator '%s'", cond.Operator)
		} else if cond.Operator.ForOrdering() != orderBy.Direction {
			return fmt.Errorf("unexpected cursor operator '%s'", cond.Operator)
		}

		// An inclusive operator on a leading column would also admit rows
		// placed before the cursor.
		if cond.Operator.IsInclusive() && i != last {
			return fmt.Errorf("inclusive cursor operator on non-final column '%s'", cond.Column)
		}
	}

	return nil
}

var _ fmt.Stringer = (*KeysetCursor)(nil)

// Getters maps ordering columns to value getters of the paginated type.
// Example:
//
//	Getters[Item]{
//		"posted_at": func(i Item) any { return i.Timestamp },
//		"id":        func(i Item) any { return i.ID },
//	}
type Getters[T any] map[string]func(T) any

// CursorAfter builds a cursor selecting the rows strictly after value.
func CursorAfter[T any](orderings Orderings, value T, getters Getters[T]) (*KeysetCursor, error) {
	return buildCursor(orderings, value, getters, false)
}

// CursorAt builds a cursor selecting value itself and the rows after it.
func CursorAt[T any](orderings Orderings, value T, getters Getters[T]) (*KeysetCursor, error) {
	return buildCursor(orderings, value, getters, true)
}

func buildCursor[T any](orderings Orderings, value T, getters Getters[T], inclusive bool) (*KeysetCursor, error) {
	if err := orderings.validate(); err != nil {
		return nil, fmt.Errorf("cannot build cursor: %w", err)
	}

	ret := KeysetCursor{elements: make([]CursorElement, 0, len(orderings))}
	for i, orderBy := range orderings {
		getter, ok := getters[orderBy.Column]
		if !ok {
			return nil, fmt.Errorf("cannot find getter for column '%s' met in ordering", orderBy.Column)
		}

		operator := orderBy.Direction.ForOperator()
		if inclusive && i == len(orderings)-1 {
			operator = operator.Inclusive()
		}

		ret.elements = append(ret.elements, CursorElement{
			Column:   orderBy.Column,
			Value:    getter(value),
			Operator: operator,
		})
	}

	return &ret, nil
}

// CursorElement is a triple (c, v, o), where:
//
//   - "c" - the column.
//   - "v" - the value the column is compared with.
//   - "o" - the operator applied to the pair (c, v).
type CursorElement struct {
	Column   string
	Value    any
	Operator Operator
}

func (c CursorElement) toEqualityPredicate() tPredicate {
	return tPredicate{
		Column:   c.Column,
		Value:    c.Value,
		Operator: operatorEq,
	}
}
