package rpn

import (
	"fmt"
)

// Operator is a binary arithmetic reducer. It is applied as a OP b where b is the top of the
// stack and a is the element beneath it.
type Operator int

const (
	Add Operator = iota
	Subtract
	Multiply
	Divide
)

var operatorNames = map[Operator]string{
	Add:      "add",
	Subtract: "subtract",
	Multiply: "multiply",
	Divide:   "divide",
}

// Operators returns every supported operator in a stable order.
func Operators() []Operator {
	return []Operator{Add, Subtract, Multiply, Divide}
}

// String returns the operator name, which is also its route.
func (op Operator) String() string {
	if name, ok := operatorNames[op]; ok {
		return name
	}
	return fmt.Sprintf("operator(%d)", int(op))
}

func (op Operator) apply(a, b float64) float64 {
	switch op {
	case Add:
		return a + b
	case Subtract:
		return a - b
	case Multiply:
		return a * b
	default:
		return a / b
	}
}

func (op Operator) describe(a, b float64) string {
	switch op {
	case Add:
		return fmt.Sprintf("adding %v and %v", a, b)
	case Subtract:
		return fmt.Sprintf("subtracting %v from %v", b, a)
	case Multiply:
		return fmt.Sprintf("multiplying %v by %v", a, b)
	default:
		return fmt.Sprintf("dividing %v by %v", a, b)
	}
}
