// Package issues provides the issue type recorded while generating code.
package issues

import "fmt"

// Severity indicates how much an issue affects the generated output.
//
// Levels are ordered from least to most severe: Info < Warning < Critical.
type Severity int

const (
	// SeverityInfo records a generation choice worth knowing about.
	SeverityInfo Severity = iota
	// SeverityWarning records a fallback that may lose information,
	// e.g. a response shape no rule recognized.
	SeverityWarning
	// SeverityCritical records something that could not be generated.
	SeverityCritical
)

// String returns the lowercase name of the severity level.
func (s Severity) String() string {
	switch s {
	case SeverityInfo:
		return "info"
	case SeverityWarning:
		return "warning"
	case SeverityCritical:
		return "critical"
	default:
		return "unknown"
	}
}

// Code values identify well-known issue kinds.
const (
	// CodeResponseShapeUnrecognized marks an operation whose response did not
	// match any recognized media type or envelope and was treated as unit.
	CodeResponseShapeUnrecognized = "ResponseShapeUnrecognized"
	// CodeFormatFailed marks a generated file that could not be formatted.
	CodeFormatFailed = "FormatFailed"
	// CodeNameCollision marks a function renamed to avoid a duplicate.
	CodeNameCollision = "NameCollision"
	// CodeParameterDropped marks a parameter removed from a signature.
	CodeParameterDropped = "ParameterDropped"
)

// Operation identifies the operation an issue belongs to.
type Operation struct {
	Method      string
	Path        string
	OperationID string
	Tag         string
}

// String returns "(operationId: x)" when an id is known, else "(GET /path)".
func (o Operation) String() string {
	if o.OperationID != "" {
		return fmt.Sprintf("(operationId: %s)", o.OperationID)
	}
	if o.Method != "" {
		return fmt.Sprintf("(%s %s)", o.Method, o.Path)
	}
	return ""
}

// Issue represents a single problem or notice found during generation.
type Issue struct {
	// Path is the JSON path of the element (e.g. "paths./pets.get.responses")
	Path string
	// Message is a human-readable description of the issue
	Message string
	// Severity indicates the severity level of the issue
	Severity Severity
	// Code is one of the Code* constants, or empty
	Code string
	// Operation is set when the issue relates to a single operation
	Operation *Operation
}

// String returns a formatted representation, prefixed with a severity symbol.
func (i Issue) String() string {
	var symbol string
	switch i.Severity {
	case SeverityCritical:
		symbol = "✗"
	case SeverityWarning:
		symbol = "⚠"
	case SeverityInfo:
		symbol = "ℹ"
	default:
		symbol = "?"
	}

	where := i.Path
	if i.Operation != nil {
		if ctx := i.Operation.String(); ctx != "" {
			where += " " + ctx
		}
	}
	if i.Code != "" {
		return fmt.Sprintf("%s %s: [%s] %s", symbol, where, i.Code, i.Message)
	}
	return fmt.Sprintf("%s %s: %s", symbol, where, i.Message)
}

// Counts tallies issues by severity.
func Counts(list []Issue) (info, warning, critical int) {
	for _, issue := range list {
		switch issue.Severity {
		case SeverityInfo:
			info++
		case SeverityWarning:
			warning++
		case SeverityCritical:
			critical++
		}
	}
	return info, warning, critical
}
