package types

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestErrorFormatting(t *testing.T) {
	err := NewRoutingError("unknown token")
	assert.Equal(t, "[ROUTING_ERROR] unknown token", err.Error())

	wrapped := NewGenerationError("agent turn failed").WithCause(errors.New("upstream down"))
	assert.Equal(t, "[GENERATION_ERROR] agent turn failed: upstream down", wrapped.Error())
	assert.Equal(t, "upstream down", wrapped.Unwrap().Error())
}

func TestErrorBuilders(t *testing.T) {
	err := NewError(ErrInvalidRequest, "bad payload").
		WithHTTPStatus(http.StatusBadRequest).
		WithRetryable(true)

	assert.Equal(t, ErrInvalidRequest, err.Code)
	assert.Equal(t, http.StatusBadRequest, err.HTTPStatus)
	assert.True(t, err.Retryable)
}

func TestAsErrorThroughWrapping(t *testing.T) {
	base := NewPersistenceError("insert failed")
	wrapped := fmt.Errorf("failed after 3 retries: %w", base)

	got := AsError(wrapped)
	require.NotNil(t, got)
	assert.Equal(t, ErrPersistence, got.Code)

	assert.Nil(t, AsError(errors.New("plain")))
	assert.Nil(t, AsError(nil))
}

func TestIsErrorCode(t *testing.T) {
	err := NewConfigurationError("empty roster")

	assert.True(t, IsErrorCode(err, ErrConfiguration))
	assert.False(t, IsErrorCode(err, ErrRouting))
	assert.True(t, IsErrorCode(fmt.Errorf("build: %w", err), ErrConfiguration))
	assert.False(t, IsErrorCode(errors.New("plain"), ErrConfiguration))
}

func TestIsRetryable(t *testing.T) {
	assert.True(t, IsRetryable(NewRoutingError("invalid token").WithRetryable(true)))
	assert.False(t, IsRetryable(NewRoutingError("invalid token")))
	assert.False(t, IsRetryable(errors.New("plain")))

	wrapped := fmt.Errorf("attempt 2: %w", NewDesignError("bad roster").WithRetryable(true))
	assert.True(t, IsRetryable(wrapped))
}

func TestErrorCodeConstants(t *testing.T) {
	assert.Equal(t, ErrorCode("TURN_LIMIT_EXCEEDED"), ErrTurnLimit)
	assert.Equal(t, ErrorCode("DESIGN_ERROR"), NewDesignError("x").Code)
	assert.Equal(t, ErrorCode("NOT_FOUND"), ErrNotFound)
}
