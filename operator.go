package keyset

import "fmt"

// Operator defines a comparison operator for filtering by column.
// Used in boundary filtering conditions.
type Operator string

const (
	OperatorGT Operator = ">"
	OperatorLT Operator = "<"

	// operatorEq is the equality operator. It is private because we use it
	// ONLY while building boundary filtering conditions.
	operatorEq Operator = "="
)

func (o Operator) Valid() bool {
	return o == OperatorLT || o == OperatorGT
}

// Inverted returns the mirrored operator. Walking backward from a boundary
// is walking forward with every comparison flipped.
func (o Operator) Inverted() Operator {
	switch o {
	case OperatorGT:
		return OperatorLT
	case OperatorLT:
		return OperatorGT
	default:
		panic(fmt.Errorf("cannot invert operator '%s'", o))
	}
}

func (o Operator) ForOrdering() Direction {
	switch o {
	case OperatorGT:
		return DirectionASC
	case OperatorLT:
		return DirectionDESC
	default:
		panic(fmt.Errorf("cannot map operator '%s' to ordering", o))
	}
}
