// Package dsperror defines the error kinds raised across the explorer:
// malformed descriptor input, an exhausted feasible search space,
// layer-count/topology mismatches, and internal invariant violations.
// Each kind is a sentinel wrapped with context via github.com/pkg/errors
// so callers can both match on kind (errors.Is) and print a full chain.
package dsperror

import "github.com/pkg/errors"

// Sentinel error kinds. Wrap these with errors.Wrapf to attach context
// (file+line, candidate utilization, etc) at the point of occurrence.
var (
	// ErrMalformedInput marks a model/descriptor line that does not fit
	// the format: the wrong number of fields or a field that does not parse.
	ErrMalformedInput = errors.New("malformed input")

	// ErrInfeasibleSearchSpace marks a search where no candidate passed
	// resource pruning.
	ErrInfeasibleSearchSpace = errors.New("infeasible search space")

	// ErrTopologyMismatch marks a layer count that disagrees with the
	// topology descriptor's expected line/instance counts.
	ErrTopologyMismatch = errors.New("topology mismatch")

	// ErrDomainError marks a divisor-zero or non-positive tile value
	// reaching a cost kernel. This should never happen given the
	// generator's constraints; it signals an invariant violation in
	// this program, not a user input error.
	ErrDomainError = errors.New("domain invariant violated")
)

// MalformedInput wraps ErrMalformedInput with a file and line number.
func MalformedInput(file string, line int, reason string) error {
	return errors.Wrapf(ErrMalformedInput, "%s:%d: %s", file, line, reason)
}

// InfeasibleSearchSpace wraps ErrInfeasibleSearchSpace with a
// diagnostic describing the best (closest-to-feasible) candidate seen.
func InfeasibleSearchSpace(detail string) error {
	return errors.Wrap(ErrInfeasibleSearchSpace, detail)
}

// DomainError wraps ErrDomainError with the offending value's context.
// Callers should treat this as fatal: it means a generator upstream
// produced a candidate that violates its own constraints.
func DomainError(context string) error {
	return errors.Wrap(ErrDomainError, context)
}
