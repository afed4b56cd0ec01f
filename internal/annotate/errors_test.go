package annotate

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStageErrorMessage(t *testing.T) {
	err := WrapStage(StageExtract, "sp|A|x", &TransportError{Accession: "A", Status: 502, Err: errors.New("bad gateway")})
	assert.Equal(t, "extract: sp|A|x: lookup A: status 502: bad gateway", err.Error())
	assert.ErrorIs(t, err, ErrTransport)
}

func TestWrapStage_KeepsInnermostStage(t *testing.T) {
	inner := &StageError{Stage: StageRead, Err: errors.New("x")}
	assert.Same(t, inner, WrapStage(StageWrite, "", inner))
	assert.NoError(t, WrapStage(StageWrite, "", nil))
}

func TestSchemaErrorMessage(t *testing.T) {
	err := &SchemaError{Path: "p.csv", Missing: []string{"Score"}}
	assert.Equal(t, "p.csv: missing required column(s) Score", err.Error())
	assert.ErrorIs(t, err, ErrSchema)

	err = &SchemaError{Path: "p.csv", Line: 4, Err: errors.New("bad score")}
	assert.Equal(t, "p.csv:4: bad score", err.Error())
}
