package errortypes

// Severity represents the severity level of a request processing error.
type Severity int

// SeverityFatal represents an error which fails the request.
const SeverityFatal Severity = 1
