package quant

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestQuantErrorIsMatchesByKind(t *testing.T) {
	wrapped := &QuantError{Kind: KindAborted, Msg: "wrapped differently"}
	assert.True(t, errors.Is(wrapped, ErrAborted))
	assert.False(t, errors.Is(wrapped, ErrQualityTooLow))
}

func TestQuantErrorUnwrap(t *testing.T) {
	cause := errors.New("underlying")
	wrapped := &QuantError{Kind: KindOutOfMemory, Msg: "allocation failed", Cause: cause}
	assert.Equal(t, cause, errors.Unwrap(wrapped))
}
