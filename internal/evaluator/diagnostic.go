package evaluator

import (
	"fmt"

	"github.com/vk/geonodes/internal/value"
)

// DiagnosticKind tells why a default value was substituted.
type DiagnosticKind int

const (
	// NotConvertible means no conversion exists between the two types.
	NotConvertible DiagnosticKind = iota
	// ConversionFailed means a conversion exists but rejected the value.
	ConversionFailed
)

// String implements fmt.Stringer.
func (k DiagnosticKind) String() string {
	switch k {
	case NotConvertible:
		return "not_convertible"
	case ConversionFailed:
		return "conversion_failed"
	default:
		return "unknown"
	}
}

// Diagnostic records a value that was replaced by the target type's default.
type Diagnostic struct {
	Kind DiagnosticKind
	// From names the producing socket or group input slot.
	From     string
	To       string
	FromType *value.Type
	ToType   *value.Type
	Err      error
}

// String implements fmt.Stringer.
func (d Diagnostic) String() string {
	s := fmt.Sprintf("%s: %s (%s) -> %s (%s)", d.Kind, d.From, d.FromType, d.To, d.ToType)
	if d.Err != nil {
		s += ": " + d.Err.Error()
	}
	return s
}
