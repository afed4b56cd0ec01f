package annotate

import (
	"context"
	"time"
)

// Outcome is the non-error answer of a curated-database lookup.
type Outcome int

const (
	OutcomeNotFound Outcome = iota
	OutcomeFound
)

func (o Outcome) String() string {
	switch o {
	case OutcomeFound:
		return "found"
	case OutcomeNotFound:
		return "not_found"
	default:
		return "unknown"
	}
}

// LookupResult carries the function comments of a found entry, or the
// reason nothing usable was found.
type LookupResult struct {
	Outcome  Outcome
	Comments []string
	Reason   string
}

func Found(comments ...string) LookupResult {
	return LookupResult{Outcome: OutcomeFound, Comments: comments}
}

func NotFound(reason string) LookupResult {
	return LookupResult{Outcome: OutcomeNotFound, Reason: reason}
}

// Lookup fetches function comments for an accession.
// A non-nil error always means the lookup itself failed (transport,
// cancellation); "no comment" is reported through OutcomeNotFound.
type Lookup interface {
	Lookup(ctx context.Context, accession string) (LookupResult, error)
}

// LookupFunc adapts a function to Lookup.
type LookupFunc func(ctx context.Context, accession string) (LookupResult, error)

func (f LookupFunc) Lookup(ctx context.Context, accession string) (LookupResult, error) {
	return f(ctx, accession)
}

// LookupObserver receives one call per completed lookup. outcome is
// "found", "not_found", "timeout" or "error".
type LookupObserver interface {
	ObserveLookup(outcome string, elapsed time.Duration)
}
