package errors

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWrapAndUnwrap(t *testing.T) {
	cause := fmt.Errorf("connection refused")
	err := Wrap(cause, "DATA_LOAD_ERROR", http.StatusInternalServerError, "failed to load topic catalog")

	assert.Equal(t, "failed to load topic catalog: connection refused", err.Error())
	assert.Equal(t, cause, err.Unwrap())
}

func TestFromError(t *testing.T) {
	assert.Nil(t, FromError(nil))

	typed := FromError(ErrValidation)
	assert.Equal(t, ErrValidation.Code, typed.Code)
	assert.Equal(t, http.StatusBadRequest, typed.Status)

	// Typed errors survive a plain wrap.
	wrapped := fmt.Errorf("generate: %w", ErrNotFound)
	typed = FromError(wrapped)
	assert.Equal(t, ErrNotFound.Code, typed.Code)

	plain := FromError(fmt.Errorf("boom"))
	assert.Equal(t, ErrInternal.Code, plain.Code)
	assert.Equal(t, http.StatusInternalServerError, plain.Status)
}

func TestClone(t *testing.T) {
	clone := Clone(ErrValidation, "invalid fl_weekday: Funday")
	require.NotNil(t, clone)

	assert.Equal(t, "invalid fl_weekday: Funday", clone.Message)
	assert.Equal(t, ErrValidation.Code, clone.Code)
	assert.Equal(t, ErrValidation.Status, clone.Status)
	// The predefined error itself is untouched.
	assert.Equal(t, "validation failed", ErrValidation.Message)

	keep := Clone(ErrValidation, "")
	assert.Equal(t, ErrValidation.Message, keep.Message)

	assert.Nil(t, Clone(nil, "x"))
}
