// Package rpn implements the shared reverse-Polish-notation stack machine. A single Machine is
// meant to be shared by every client of the server; all of its methods are safe for
// concurrent use and either fully apply or leave the stack untouched.
package rpn

import (
	"math"
	"sync"

	"github.com/week8/rpnserver/errortypes"
	"github.com/week8/rpnserver/logger"
)

const (
	msgStackEmpty    = "stack is empty"
	msgTooFewOperand = "stack has less than 2 elements"
	msgDivideByZero  = "division by zero"
	msgNonFinite     = "result is not a finite number"
)

// Machine is a float64 stack with RPN arithmetic. The last element of stack is the top.
type Machine struct {
	mu    sync.Mutex
	stack []float64
}

// NewMachine returns a Machine with an empty stack.
func NewMachine() *Machine {
	return &Machine{
		stack: []float64{},
	}
}

// Push appends values in order, so the last value becomes the new top. It returns a copy of the
// stack after the push.
func (m *Machine) Push(values []float64) []float64 {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.stack = append(m.stack, values...)
	logger.Infof("pushing %v, stack is now %v", values, m.stack)
	return m.snapshot()
}

// Pop removes and returns the top of the stack along with the length left behind.
func (m *Machine) Pop() (top float64, length int, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if len(m.stack) == 0 {
		return 0, 0, &errortypes.PreconditionFailed{Message: msgStackEmpty}
	}

	top = m.stack[len(m.stack)-1]
	m.stack = m.stack[:len(m.stack)-1]
	logger.Infof("popping %v", top)
	return top, len(m.stack), nil
}

// Peek returns the top of the stack without removing it. ok is false when the stack is empty.
func (m *Machine) Peek() (top float64, ok bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if len(m.stack) == 0 {
		return 0, false
	}
	return m.stack[len(m.stack)-1], true
}

// Length returns the number of elements on the stack.
func (m *Machine) Length() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.stack)
}

// Values returns a copy of the stack, bottom first.
func (m *Machine) Values() []float64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.snapshot()
}

// Apply pops b (the top) and a (second from top), pushes a OP b and returns it with the new
// stack length.
//
// The stack is unchanged if it holds fewer than two elements, if a divide has a zero divisor,
// or if the result is not finite.
func (m *Machine) Apply(op Operator) (result float64, length int, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	n := len(m.stack)
	if n < 2 {
		return 0, n, &errortypes.PreconditionFailed{Message: msgTooFewOperand}
	}

	a, b := m.stack[n-2], m.stack[n-1]
	if op == Divide && b == 0 {
		return 0, n, &errortypes.DivisionByZero{Message: msgDivideByZero}
	}

	result = op.apply(a, b)
	if math.IsInf(result, 0) || math.IsNaN(result) {
		return 0, n, &errortypes.NonFiniteResult{Message: msgNonFinite}
	}

	m.stack = append(m.stack[:n-2], result)
	logger.Infof("%s", op.describe(a, b))
	return result, len(m.stack), nil
}

func (m *Machine) Add() (float64, error) {
	result, _, err := m.Apply(Add)
	return result, err
}

func (m *Machine) Subtract() (float64, error) {
	result, _, err := m.Apply(Subtract)
	return result, err
}

func (m *Machine) Multiply() (float64, error) {
	result, _, err := m.Apply(Multiply)
	return result, err
}

func (m *Machine) Divide() (float64, error) {
	result, _, err := m.Apply(Divide)
	return result, err
}

func (m *Machine) snapshot() []float64 {
	values := make([]float64, len(m.stack))
	copy(values, m.stack)
	return values
}
