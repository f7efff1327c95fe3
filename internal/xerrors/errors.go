// Package xerrors implements the closed error taxonomy from the error
// handling design: a small set of kinds with local policy at module
// boundaries, instead of untyped boxed errors that hide that policy.
package xerrors

import (
	"errors"
	"fmt"
)

// Kind classifies an error so callers can apply the right recovery policy
// without string-matching messages.
type Kind int

const (
	// Transient covers a single failed RPC call or similarly retryable fault.
	// Policy: log, skip the current log/cycle, continue the block.
	Transient Kind = iota
	// BlockWide covers a subscription drop or other fault spanning the block.
	// Policy: propagate; reconnect is the caller's job.
	BlockWide
	// BudgetExceeded means the per-block RPC budget has been spent.
	// Policy: short-circuit remaining cycle work, do not fail the block.
	BudgetExceeded
	// NotFoundCache is a cold cache lookup.
	// Policy: fall back to the catalogue or chain.
	NotFoundCache
	// NotFoundCatalogue is a cold catalogue lookup (new pair).
	// Policy: triggers the pair resolver.
	NotFoundCatalogue
	// Decode is a malformed log or response.
	// Policy: log and skip that log.
	Decode
	// CatalogueIntegrity is a benign unique-violation race on insert.
	// Policy: refresh the cache and continue.
	CatalogueIntegrity
	// Fatal covers startup failures: missing config, unreachable catalogue.
	// Policy: fail fast.
	Fatal
)

func (k Kind) String() string {
	switch k {
	case Transient:
		return "transient"
	case BlockWide:
		return "block_wide"
	case BudgetExceeded:
		return "budget_exceeded"
	case NotFoundCache:
		return "not_found_cache"
	case NotFoundCatalogue:
		return "not_found_catalogue"
	case Decode:
		return "decode"
	case CatalogueIntegrity:
		return "catalogue_integrity"
	case Fatal:
		return "fatal"
	default:
		return "unknown"
	}
}

// Error is the concrete error type every component boundary converts into.
type Error struct {
	Kind Kind
	Op   string
	Err  error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Op, e.Kind, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Op, e.Kind)
}

func (e *Error) Unwrap() error { return e.Err }

// New wraps err (which may be nil) with an Op and a Kind.
func New(kind Kind, op string, err error) *Error {
	return &Error{Kind: kind, Op: op, Err: err}
}

// Is reports whether err is (or wraps) an *Error of the given Kind.
func Is(err error, kind Kind) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind == kind
	}
	return false
}
