package types

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestError_Format(t *testing.T) {
	err := NewError(ErrInvalidRunningState, "connect requires stopped")
	assert.Equal(t, "[INVALID_RUNNING_STATE] connect requires stopped", err.Error())

	cause := errors.New("dial tcp: refused")
	err = NewError(ErrTransportFault, "handshake failed").WithCause(cause)
	assert.Equal(t, "[TRANSPORT_FAULT] handshake failed: dial tcp: refused", err.Error())
}

func TestError_Unwrap(t *testing.T) {
	cause := errors.New("deadline exceeded")
	err := NewError(ErrHandshakeTimeout, "handshake exceeded 5s").WithCause(cause)

	assert.ErrorIs(t, err, cause)

	wrapped := fmt.Errorf("connect: %w", err)
	var typed *Error
	require.True(t, errors.As(wrapped, &typed))
	assert.Equal(t, ErrHandshakeTimeout, typed.Code)
}

func TestGetErrorCode(t *testing.T) {
	assert.Equal(t, ErrGateway, GetErrorCode(NewError(ErrGateway, "refused")))
	assert.Equal(t, ErrorCode(""), GetErrorCode(errors.New("plain")))
	assert.Equal(t, ErrorCode(""), GetErrorCode(nil))
}
