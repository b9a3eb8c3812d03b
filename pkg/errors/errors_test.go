package errors

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAsAppError_UnwrapsThroughChain(t *testing.T) {
	wrapped := fmt.Errorf("handler failed: %w", ErrWriteContention)

	appErr := AsAppError(wrapped)
	assert.Equal(t, CodeWriteContention, appErr.Code)
	assert.Equal(t, http.StatusInternalServerError, appErr.HTTPStatus)
}

func TestAsAppError_UnknownForPlainError(t *testing.T) {
	appErr := AsAppError(errors.New("boom"))
	assert.Equal(t, CodeUnknown, appErr.Code)
}

func TestHasCode(t *testing.T) {
	err := fmt.Errorf("outer: %w", ErrProviderUnavailable)
	assert.True(t, HasCode(err, CodeProviderUnavailable))
	assert.False(t, HasCode(err, CodeGenerationTimeout))
	assert.False(t, HasCode(nil, CodeProviderUnavailable))
}

func TestWithErrorClonesBase(t *testing.T) {
	cause := errors.New("duplicate key")
	derived := ErrWriteContention.WithError(cause)

	// 预定义错误不被污染
	require.Nil(t, ErrWriteContention.Err)
	assert.Equal(t, cause, derived.Err)
	assert.True(t, errors.Is(derived, cause))
	assert.Equal(t, CodeWriteContention, derived.Code)
}

func TestWithDetailClonesBase(t *testing.T) {
	derived := ErrInvalidContentKind.WithDetail("tweet")
	assert.Empty(t, ErrInvalidContentKind.Detail)
	assert.Equal(t, "tweet", derived.Detail)
}

func TestHTTPStatusMapping(t *testing.T) {
	tests := []struct {
		code ErrorCode
		want int
	}{
		{CodeInvalidContentKind, http.StatusBadRequest},
		{CodeTopicIndexOutOfRange, http.StatusBadRequest},
		{CodeTranscriptMissing, http.StatusUnprocessableEntity},
		{CodeTopicsMissing, http.StatusUnprocessableEntity},
		{CodeSpendLimitExceeded, http.StatusTooManyRequests},
		{CodeProviderUnavailable, http.StatusServiceUnavailable},
		{CodeGenerationTimeout, http.StatusGatewayTimeout},
		{CodeWriteContention, http.StatusInternalServerError},
		{CodeMeetingNotFound, http.StatusNotFound},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, New(tt.code, "x").HTTPStatus, string(tt.code))
	}
}
