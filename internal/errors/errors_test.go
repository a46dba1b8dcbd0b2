package errors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAppError_Error(t *testing.T) {
	assert.Equal(t, "account not found", NotFound("account not found").Error())

	err := Wrap(errors.New("dial tcp: connection refused"), ErrCodeUnavailable, "status store unavailable")
	assert.Equal(t, "status store unavailable: dial tcp: connection refused", err.Error())
}

func TestAppError_UnwrapThroughFmt(t *testing.T) {
	cause := errors.New("underlying")
	err := fmt.Errorf("upsert: %w", Wrap(cause, ErrCodeConflict, "handle taken"))

	assert.ErrorIs(t, err, cause)
	assert.True(t, IsConflict(err))
	assert.Equal(t, ErrCodeConflict, GetCode(err))

	appErr, ok := As(err)
	require.True(t, ok)
	assert.Equal(t, "handle taken", appErr.Message)
}

func TestWrap_NilError(t *testing.T) {
	assert.Nil(t, Wrap(nil, ErrCodeInternal, "x"))
}

func TestConstructorsAndPredicates(t *testing.T) {
	tests := []struct {
		name  string
		err   error
		check func(error) bool
		code  ErrorCode
	}{
		{"not found", NotFound("x"), IsNotFound, ErrCodeNotFound},
		{"validation", Validation("x"), IsValidation, ErrCodeValidation},
		{"validation formatted", Validationf("bad %s", "id"), IsValidation, ErrCodeValidation},
		{"unavailable", Unavailable("x"), IsUnavailable, ErrCodeUnavailable},
		{"timeout", Wrap(errors.New("slow"), ErrCodeTimeout, "x"), func(err error) bool {
			return HasCode(err, ErrCodeTimeout)
		}, ErrCodeTimeout},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.True(t, tt.check(tt.err))
			assert.Equal(t, tt.code, GetCode(tt.err))
		})
	}
}

func TestPlainErrors(t *testing.T) {
	plain := errors.New("plain")

	_, ok := As(plain)
	assert.False(t, ok)
	assert.Empty(t, GetCode(plain))
	assert.Empty(t, GetField(plain))
	assert.False(t, IsNotFound(plain))
}

func TestGetField(t *testing.T) {
	err := fmt.Errorf("parse: %w", ValidationField("usernames", "no usable handles"))
	assert.Equal(t, "usernames", GetField(err))
}
