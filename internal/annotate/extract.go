package annotate

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"
)

// MalformedPolicy decides what Extract does with identifiers that carry no accession.
type MalformedPolicy int

const (
	// MalformedFail aborts extraction with a *MalformedIdentifierError.
	MalformedFail MalformedPolicy = iota
	// MalformedPredict skips the lookup and sends the record to the residual set.
	MalformedPredict
)

func (p MalformedPolicy) String() string {
	if p == MalformedPredict {
		return "predict"
	}
	return "fail"
}

func ParseMalformedPolicy(s string) (MalformedPolicy, error) {
	switch s {
	case "", "fail":
		return MalformedFail, nil
	case "predict":
		return MalformedPredict, nil
	}
	return MalformedFail, fmt.Errorf("invalid malformed-identifier policy %q (want fail | predict)", s)
}

// Extractor resolves curated annotations for a record set.
type Extractor struct {
	Lookup    Lookup
	Workers   int           // concurrent lookups; <1 means 1
	Timeout   time.Duration // per lookup; 0 disables; expiry counts as not found
	Malformed MalformedPolicy
	Logger    *slog.Logger
	Observer  LookupObserver
}

// Curated is the result of Extract. Texts keys and Residual IDs partition
// the distinct input identifiers; both follow input order.
type Curated struct {
	Texts    *OrderedMap[string, string]
	Residual []ProteinRecord
}

// Extract looks up every distinct record once. Found entries land in Texts;
// everything else is appended unmodified to Residual. Any lookup error
// aborts with a *StageError naming the identifier.
func (e *Extractor) Extract(ctx context.Context, records []ProteinRecord) (Curated, error) {
	if e.Lookup == nil {
		return Curated{}, errors.New("annotate: Extractor has no Lookup")
	}
	log := e.logger()

	keys := make([]string, len(records))
	skip := make([]bool, len(records))
	for i, r := range records {
		acc, err := Accession(r.ID)
		if err != nil {
			if e.Malformed == MalformedPredict {
				log.Warn("malformed identifier; skipping database lookup", "id", r.ID, "error", err)
				skip[i] = true
				continue
			}
			return Curated{}, &StageError{Stage: StageExtract, ID: r.ID, Err: err}
		}
		keys[i] = acc
	}

	workers := e.Workers
	if workers < 1 {
		workers = 1
	}
	results := make([]LookupResult, len(records))
	first := make([]bool, len(records))
	seen := make(map[string]struct{}, len(records))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i, r := range records {
		if _, dup := seen[r.ID]; dup {
			log.Warn("duplicate identifier; keeping first occurrence", "id", r.ID)
			continue
		}
		seen[r.ID] = struct{}{}
		first[i] = true
		if skip[i] {
			results[i] = NotFound("malformed identifier")
			continue
		}
		g.Go(func() error {
			res, err := e.lookupOne(gctx, keys[i])
			if err != nil {
				return &StageError{Stage: StageExtract, ID: r.ID, Err: err}
			}
			results[i] = res
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return Curated{}, err
	}

	out := Curated{Texts: NewOrderedMap[string, string](len(records))}
	for i, r := range records {
		if !first[i] {
			continue
		}
		if res := results[i]; res.Outcome == OutcomeFound {
			if text := FormatCurated(res.Comments); text != "" {
				out.Texts.Set(r.ID, text)
				continue
			}
		}
		log.Debug("no curated annotation", "id", r.ID, "reason", results[i].Reason)
		out.Residual = append(out.Residual, r)
	}
	return out, nil
}

func (e *Extractor) lookupOne(ctx context.Context, accession string) (LookupResult, error) {
	if err := ctx.Err(); err != nil {
		return LookupResult{}, err
	}
	lctx, cancel := ctx, context.CancelFunc(func() {})
	if e.Timeout > 0 {
		lctx, cancel = context.WithTimeout(ctx, e.Timeout)
	}
	defer cancel()

	start := time.Now()
	res, err := e.Lookup.Lookup(lctx, accession)
	outcome := res.Outcome.String()
	if err != nil {
		outcome = "error"
		if ctx.Err() == nil && e.Timeout > 0 &&
			(errors.Is(lctx.Err(), context.DeadlineExceeded) || errors.Is(err, context.DeadlineExceeded)) {
			e.logger().Warn("lookup timed out; treating as not found", "accession", accession, "timeout", e.Timeout)
			res, err, outcome = NotFound("lookup timed out"), nil, "timeout"
		}
	}
	if e.Observer != nil {
		e.Observer.ObserveLookup(outcome, time.Since(start))
	}
	return res, err
}

func (e *Extractor) logger() *slog.Logger {
	if e.Logger != nil {
		return e.Logger
	}
	return slog.Default()
}
