package wealth

import (
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"

	internalTypes "github.com/eshaffer321/wealth-go/internal/types"
)

func TestFromInternal(t *testing.T) {
	internal := &internalTypes.Error{
		Code:       "SERVER_ERROR",
		Message:    "server error: 503 (Service Unavailable)",
		StatusCode: 503,
		RequestID:  "req-1",
		Err:        internalTypes.ErrServerError,
	}

	err := fromInternal(errors.Wrap(internal, "transport"))

	var apiErr *Error
	assert.True(t, errors.As(err, &apiErr))
	assert.Equal(t, 503, apiErr.StatusCode)
	assert.Equal(t, "req-1", apiErr.RequestID)
	assert.ErrorIs(t, err, ErrServerError)
	assert.True(t, IsRetryable(err))
	assert.False(t, IsAuthError(err))

	assert.Nil(t, fromInternal(nil))
	assert.Equal(t, ErrNotFound, fromInternal(ErrNotFound))
}

func TestErrorClassification(t *testing.T) {
	tests := []struct {
		name      string
		err       error
		auth      bool
		retryable bool
	}{
		{"expired", errors.Wrap(ErrSessionExpired, "failed to get category summary"), true, false},
		{"not authenticated", ErrNotAuthenticated, true, false},
		{"rate limited", ErrRateLimited, false, true},
		{"timeout", ErrTimeout, false, true},
		{"bad request", &Error{Code: "BAD_REQUEST", StatusCode: 400}, false, false},
		{"gateway", &Error{Code: "HTTP_ERROR", StatusCode: 502}, false, true},
		{"validation", &ValidationError{Field: "to"}, false, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.auth, IsAuthError(tt.err))
			assert.Equal(t, tt.retryable, IsRetryable(tt.err))
		})
	}
}

func TestValidationError(t *testing.T) {
	err := &ValidationError{Field: "scope", Message: "unknown scope", Value: "week"}

	assert.ErrorIs(t, err, ErrInvalidInput)
	assert.NotErrorIs(t, err, ErrInvalidRange)
	assert.Contains(t, err.Error(), "scope")

	dateErr := &ValidationError{Field: "to", Message: "must not be before from", Err: ErrInvalidRange}
	assert.ErrorIs(t, dateErr, ErrInvalidRange)
	assert.NotErrorIs(t, dateErr, ErrInvalidInput)
}

func TestError_Is(t *testing.T) {
	assert.True(t, errors.Is(NewError("BAD_REQUEST", "bad"), NewError("BAD_REQUEST", "other")))
	assert.False(t, errors.Is(NewError("BAD_REQUEST", "bad"), NewError("HTTP_ERROR", "bad")))
	assert.ErrorIs(t, WrapError(ErrTimeout, "TIMEOUT", "slow"), ErrTimeout)
}
