package ferr_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/exprfilter/exprfilter/ferr"
)

func TestIsMatchesKind(t *testing.T) {
	err := ferr.New(ferr.KindFieldNotFound, "field %q not found", "foo")
	assert.True(t, ferr.Is(err, ferr.KindFieldNotFound))
	assert.False(t, ferr.Is(err, ferr.KindType))
}

func TestIsReturnsFalseForForeignError(t *testing.T) {
	assert.False(t, ferr.Is(errors.New("boom"), ferr.KindOther))
}

func TestParseErrorCarriesOffset(t *testing.T) {
	err := ferr.ParseError(7, "unexpected token")
	assert.Equal(t, 7, err.Offset)
	assert.Contains(t, err.Error(), "byte 7")
}

func TestWrapPreservesCauseForUnwrap(t *testing.T) {
	cause := errors.New("underlying failure")
	err := ferr.Wrap(ferr.KindExecution, cause, "evaluation failed")
	assert.True(t, errors.Is(err, cause))
	assert.ErrorContains(t, err, "execution")
}
