package annotate

import (
	"errors"
	"fmt"
	"strings"
)

// Pipeline stages, used to attribute fatal errors.
const (
	StageRead      = "read"
	StageExtract   = "extract"
	StagePredict   = "predict"
	StageAggregate = "aggregate"
	StageReconcile = "reconcile"
	StageWrite     = "write"
)

// Sentinels for errors.Is checks against the typed errors below.
var (
	ErrMalformedIdentifier = errors.New("malformed identifier")
	ErrTransport           = errors.New("lookup transport failure")
	ErrSchema              = errors.New("predictor table schema error")
)

// MalformedIdentifierError reports an identifier without a usable accession field.
type MalformedIdentifierError struct {
	ID     string
	Reason string
}

func (e *MalformedIdentifierError) Error() string {
	return fmt.Sprintf("malformed identifier %q: %s", e.ID, e.Reason)
}

func (e *MalformedIdentifierError) Is(target error) bool { return target == ErrMalformedIdentifier }

// TransportError is a lookup failure that is not a "not found" answer.
// Status is the HTTP status when one was received, else 0.
type TransportError struct {
	Accession string
	Status    int
	Err       error
}

func (e *TransportError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("lookup %s: status %d: %v", e.Accession, e.Status, e.Err)
	}
	return fmt.Sprintf("lookup %s: %v", e.Accession, e.Err)
}

func (e *TransportError) Unwrap() error        { return e.Err }
func (e *TransportError) Is(target error) bool { return target == ErrTransport }

// SchemaError reports a predictor table that cannot be read as
// (Protein, Score, label) rows.
type SchemaError struct {
	Path    string
	Line    int
	Missing []string
	Err     error
}

func (e *SchemaError) Error() string {
	if len(e.Missing) > 0 {
		return fmt.Sprintf("%s: missing required column(s) %s", e.Path, strings.Join(e.Missing, ", "))
	}
	if e.Line > 0 {
		return fmt.Sprintf("%s:%d: %v", e.Path, e.Line, e.Err)
	}
	return fmt.Sprintf("%s: %v", e.Path, e.Err)
}

func (e *SchemaError) Unwrap() error        { return e.Err }
func (e *SchemaError) Is(target error) bool { return target == ErrSchema }

// StageError attributes a fatal error to a pipeline stage and, when known,
// the protein identifier being processed.
type StageError struct {
	Stage string
	ID    string
	Err   error
}

func (e *StageError) Error() string {
	if e.ID != "" {
		return fmt.Sprintf("%s: %s: %v", e.Stage, e.ID, e.Err)
	}
	return fmt.Sprintf("%s: %v", e.Stage, e.Err)
}

func (e *StageError) Unwrap() error { return e.Err }

// WrapStage returns nil for a nil err. An err that already carries a stage
// is returned unchanged.
func WrapStage(stage, id string, err error) error {
	if err == nil {
		return nil
	}
	var se *StageError
	if errors.As(err, &se) {
		return err
	}
	return &StageError{Stage: stage, ID: id, Err: err}
}
