package align

import (
	"errors"
	"fmt"
)

// Kind classifies why a build or query operation failed. The engine never
// panics or throws across its API boundary; every failure path returns an
// error carrying one of these kinds, and callers that need C-style boolean
// semantics can compare against them directly.
type Kind int

const (
	// NoDatabase means Initialise or a query ran without a bound database,
	// or the database has no reference position set.
	NoDatabase Kind = iota
	// SingularBasis means the triple-basis solver hit a non-invertible
	// matrix; the offending triple's direction vectors were collinear.
	SingularBasis
	// HullFailure means the underlying hull library reported an error or
	// produced a hull with no facets.
	HullFailure
	// NoIntersection means an N>=4 query's ray missed every non-skirt
	// facet and the nearest-neighbor fallback could not assemble a
	// non-singular triple either.
	NoIntersection
	// DomainError means a caller supplied a direction vector or angle
	// outside the engine's valid range in a way normalization could not
	// repair (for example a zero-length direction vector).
	DomainError
	// NotBuilt means a query was attempted before a successful Initialise.
	NotBuilt
)

func (k Kind) String() string {
	switch k {
	case NoDatabase:
		return "no_database"
	case SingularBasis:
		return "singular_basis"
	case HullFailure:
		return "hull_failure"
	case NoIntersection:
		return "no_intersection"
	case DomainError:
		return "domain_error"
	case NotBuilt:
		return "not_built"
	default:
		return "unknown"
	}
}

// Error is the error type every failure path in this package returns.
type Error struct {
	Kind Kind
	Msg  string
}

func (e *Error) Error() string {
	return fmt.Sprintf("align: %s: %s", e.Kind, e.Msg)
}

func errf(k Kind, format string, args ...any) *Error {
	return &Error{Kind: k, Msg: fmt.Sprintf(format, args...)}
}

// KindOf reports the Kind carried by err, if err is (or wraps) an *Error.
func KindOf(err error) (Kind, bool) {
	var ae *Error
	if !errors.As(err, &ae) {
		return 0, false
	}
	return ae.Kind, true
}
