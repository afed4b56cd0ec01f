package annotate

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func recs(ids ...string) []ProteinRecord {
	out := make([]ProteinRecord, len(ids))
	for i, id := range ids {
		out[i] = ProteinRecord{ID: id, Seq: []byte("MKV")}
	}
	return out
}

// tableLookup answers from a fixed accession → comments table.
func tableLookup(table map[string][]string) LookupFunc {
	return func(_ context.Context, acc string) (LookupResult, error) {
		if c, ok := table[acc]; ok {
			return Found(c...), nil
		}
		return NotFound("no function comment"), nil
	}
}

type recordingObserver struct {
	mu       sync.Mutex
	outcomes map[string]int
}

func (r *recordingObserver) ObserveLookup(outcome string, _ time.Duration) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.outcomes == nil {
		r.outcomes = map[string]int{}
	}
	r.outcomes[outcome]++
}

func TestExtract_Partition(t *testing.T) {
	records := recs("sp|A1|X", "sp|B2|Y", "sp|C3|Z", "sp|D4|W")
	obs := &recordingObserver{}
	ex := &Extractor{
		Lookup:   tableLookup(map[string][]string{"A1": {"alpha"}, "C3": {"gamma", "more"}}),
		Workers:  3,
		Observer: obs,
	}
	got, err := ex.Extract(context.Background(), records)
	require.NoError(t, err)

	assert.Equal(t, []string{"sp|A1|X", "sp|C3|Z"}, got.Texts.Keys())
	assert.Equal(t, []string{"sp|B2|Y", "sp|D4|W"}, IDs(got.Residual))

	c3, _ := got.Texts.Get("sp|C3|Z")
	assert.Equal(t, "Uniprot annotations: gamma | more", c3)

	union := map[string]int{}
	for _, id := range got.Texts.Keys() {
		union[id]++
	}
	for _, r := range got.Residual {
		union[r.ID]++
	}
	assert.Len(t, union, len(records))
	for id, n := range union {
		assert.Equal(t, 1, n, "identifier %s landed in both buckets", id)
	}
	assert.Equal(t, map[string]int{"found": 2, "not_found": 2}, obs.outcomes)
}

func TestExtract_ResidualKeepsOrderAndRecord(t *testing.T) {
	records := recs("sp|Z9|a", "sp|Y8|b", "sp|X7|c")
	records[1].Seq = []byte("MSEQ")

	// Completion order is reversed relative to input order.
	delays := map[string]time.Duration{"Z9": 30 * time.Millisecond, "Y8": 15 * time.Millisecond, "X7": 0}
	ex := &Extractor{Workers: 3, Lookup: LookupFunc(func(ctx context.Context, acc string) (LookupResult, error) {
		time.Sleep(delays[acc])
		return NotFound("none"), nil
	})}
	got, err := ex.Extract(context.Background(), records)
	require.NoError(t, err)
	assert.Equal(t, records, got.Residual)
	assert.Zero(t, got.Texts.Len())
}

func TestExtract_TransportErrorPropagates(t *testing.T) {
	boom := &TransportError{Accession: "B2", Status: 503, Err: errors.New("service unavailable")}
	ex := &Extractor{Workers: 2, Lookup: LookupFunc(func(_ context.Context, acc string) (LookupResult, error) {
		if acc == "B2" {
			return LookupResult{}, boom
		}
		return Found("ok"), nil
	})}
	_, err := ex.Extract(context.Background(), recs("sp|A1|x", "sp|B2|y"))
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrTransport)

	var se *StageError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, StageExtract, se.Stage)
	assert.Equal(t, "sp|B2|y", se.ID)
}

func TestExtract_MalformedFail(t *testing.T) {
	var calls atomic.Int32
	ex := &Extractor{Lookup: LookupFunc(func(context.Context, string) (LookupResult, error) {
		calls.Add(1)
		return Found("x"), nil
	})}
	_, err := ex.Extract(context.Background(), recs("sp|A1|x", "noaccession"))
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrMalformedIdentifier)
	assert.Contains(t, err.Error(), "noaccession")
	assert.Zero(t, calls.Load(), "no lookups run when an identifier is malformed")
}

func TestExtract_MalformedPredict(t *testing.T) {
	ex := &Extractor{Malformed: MalformedPredict, Lookup: tableLookup(map[string][]string{"A1": {"a"}})}
	got, err := ex.Extract(context.Background(), recs("noaccession", "sp|A1|x"))
	require.NoError(t, err)
	assert.Equal(t, []string{"sp|A1|x"}, got.Texts.Keys())
	assert.Equal(t, []string{"noaccession"}, IDs(got.Residual))
}

func TestExtract_TimeoutCountsAsNotFound(t *testing.T) {
	obs := &recordingObserver{}
	ex := &Extractor{
		Timeout:  10 * time.Millisecond,
		Observer: obs,
		Lookup: LookupFunc(func(ctx context.Context, acc string) (LookupResult, error) {
			if acc == "SLOW" {
				<-ctx.Done()
				return LookupResult{}, &TransportError{Accession: acc, Err: ctx.Err()}
			}
			return Found("fast"), nil
		}),
	}
	got, err := ex.Extract(context.Background(), recs("sp|SLOW|a", "sp|FAST|b"))
	require.NoError(t, err)
	assert.Equal(t, []string{"sp|FAST|b"}, got.Texts.Keys())
	assert.Equal(t, []string{"sp|SLOW|a"}, IDs(got.Residual))
	assert.Equal(t, 1, obs.outcomes["timeout"])
}

func TestExtract_ParentCancelIsNotNotFound(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	ex := &Extractor{Timeout: time.Second, Lookup: tableLookup(nil)}
	_, err := ex.Extract(ctx, recs("sp|A1|x"))
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestExtract_DuplicatesLookedUpOnce(t *testing.T) {
	var calls atomic.Int32
	ex := &Extractor{Workers: 4, Lookup: LookupFunc(func(context.Context, string) (LookupResult, error) {
		calls.Add(1)
		return NotFound("none"), nil
	})}
	got, err := ex.Extract(context.Background(), recs("sp|A|1", "sp|A|1", "sp|B|2"))
	require.NoError(t, err)
	assert.EqualValues(t, 2, calls.Load())
	assert.Equal(t, []string{"sp|A|1", "sp|B|2"}, IDs(got.Residual))
}

func TestExtract_FoundWithoutTextGoesToResidual(t *testing.T) {
	ex := &Extractor{Lookup: LookupFunc(func(context.Context, string) (LookupResult, error) {
		return Found("   "), nil
	})}
	got, err := ex.Extract(context.Background(), recs("sp|A|1"))
	require.NoError(t, err)
	assert.Zero(t, got.Texts.Len())
	assert.Len(t, got.Residual, 1)
}

func TestExtract_EmptyInput(t *testing.T) {
	ex := &Extractor{Lookup: tableLookup(nil)}
	got, err := ex.Extract(context.Background(), nil)
	require.NoError(t, err)
	assert.Zero(t, got.Texts.Len())
	assert.Empty(t, got.Residual)
}

func TestExtract_ManyWorkersDeterministic(t *testing.T) {
	var ids []string
	table := map[string][]string{}
	for i := 0; i < 50; i++ {
		acc := fmt.Sprintf("A%02d", i)
		ids = append(ids, "sp|"+acc+"|n")
		if i%3 == 0 {
			table[acc] = []string{acc}
		}
	}
	ex := &Extractor{Workers: 8, Lookup: tableLookup(table)}
	a, err := ex.Extract(context.Background(), recs(ids...))
	require.NoError(t, err)
	b, err := ex.Extract(context.Background(), recs(ids...))
	require.NoError(t, err)
	assert.Equal(t, a.Texts.Keys(), b.Texts.Keys())
	assert.Equal(t, IDs(a.Residual), IDs(b.Residual))
	assert.Equal(t, 17, a.Texts.Len())
}

func TestParseMalformedPolicy(t *testing.T) {
	p, err := ParseMalformedPolicy("predict")
	require.NoError(t, err)
	assert.Equal(t, MalformedPredict, p)
	p, err = ParseMalformedPolicy("")
	require.NoError(t, err)
	assert.Equal(t, MalformedFail, p)
	_, err = ParseMalformedPolicy("ignore")
	assert.Error(t, err)
}
