package errortypes

// BadInput should be used when a request body is missing a required field or carries a
// field of the wrong shape.
//
// BadInputs are reported to the client and are not written to the app log.
type BadInput struct {
	Message string
}

func (err *BadInput) Error() string {
	return err.Message
}

func (err *BadInput) Code() int {
	return BadInputErrorCode
}

func (err *BadInput) Severity() Severity {
	return SeverityFatal
}

// PreconditionFailed should be used when an operation needs state which is not currently true,
// for example popping an empty stack or drawing with a non-positive maximum.
type PreconditionFailed struct {
	Message string
}

func (err *PreconditionFailed) Error() string {
	return err.Message
}

func (err *PreconditionFailed) Code() int {
	return PreconditionFailedErrorCode
}

func (err *PreconditionFailed) Severity() Severity {
	return SeverityFatal
}

// DivisionByZero is returned by a divide whose divisor (the top of the stack) is zero.
// The stack is left untouched.
type DivisionByZero struct {
	Message string
}

func (err *DivisionByZero) Error() string {
	return err.Message
}

func (err *DivisionByZero) Code() int {
	return DivisionByZeroErrorCode
}

func (err *DivisionByZero) Severity() Severity {
	return SeverityFatal
}

// NonFiniteResult is returned when an arithmetic result is +Inf, -Inf or NaN, none of which
// can be represented in a JSON response.
type NonFiniteResult struct {
	Message string
}

func (err *NonFiniteResult) Error() string {
	return err.Message
}

func (err *NonFiniteResult) Code() int {
	return NonFiniteResultErrorCode
}

func (err *NonFiniteResult) Severity() Severity {
	return SeverityFatal
}
