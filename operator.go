package moderator

import "fmt"

// Operator defines a comparison operator for filtering by column.
// Used in pagination filtering conditions.
type Operator string

func (o Operator) Valid() bool {
	return o == OperatorLT || o == OperatorGT || o == OperatorLTE || o == OperatorGTE
}

// IsInclusive reports whether the operator also matches the cursor value itself.
func (o Operator) IsInclusive() bool {
	return o == OperatorLTE || o == OperatorGTE
}

// Inclusive returns the non-strict form of the operator. Inclusive operators
// are returned as is.
func (o Operator) Inclusive() Operator {
	switch o {
	case OperatorGT, OperatorGTE:
		return OperatorGTE
	case OperatorLT, OperatorLTE:
		return OperatorLTE
	default:
		panic(fmt.Errorf("cannot make operator '%s' inclusive", o))
	}
}

func (o Operator) ForOrdering() Direction {
	switch o {
	case OperatorGT, OperatorGTE:
		return DirectionASC
	case OperatorLT, OperatorLTE:
		return DirectionDESC
	default:
		panic(fmt.Errorf("cannot map operator '%s' to ordering", o))
	}
}

const (
	OperatorGT  Operator = ">"
	OperatorLT  Operator = "<"
	OperatorGTE Operator = ">="
	OperatorLTE Operator = "<="

	// operatorEq is the equality operator. It is private because we use it
	// ONLY while building filtering conditions.
	operatorEq Operator = "="
)
