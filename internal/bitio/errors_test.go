package bitio

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNewErrorWrapsCause(t *testing.T) {
	cause := errors.New("unexpected eof")
	err := NewError(CodeBadData, cause, "entity %d", 42)

	require.ErrorIs(t, err, cause)
	require.Contains(t, err.Error(), "bad data")
	require.Contains(t, err.Error(), "entity 42")
}

func TestCodeOf(t *testing.T) {
	err := NewError(CodeNoAcceptableProtocol, nil, "protocols %v", []int{34})
	code, ok := CodeOf(err)
	require.True(t, ok)
	require.Equal(t, CodeNoAcceptableProtocol, code)

	_, ok = CodeOf(errors.New("plain"))
	require.False(t, ok)

	_, ok = CodeOf(nil)
	require.False(t, ok)
}

func TestCodeOfDoesNotUnwrapPlainStringWrapping(t *testing.T) {
	inner := NewError(CodeBadCommand, nil, "svc %d", 99)
	outer := errors.New("wrapped: " + inner.Error())
	_, ok := CodeOf(outer)
	require.False(t, ok, "plain string wrapping should not be unwrappable")
}
