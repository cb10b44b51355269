package errors

import (
	stderrors "errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFromErrorKeepsTypedErrors(t *testing.T) {
	typed := Clone(ErrNotFound, "aircraft not found")
	wrapped := fmt.Errorf("lookup: %w", typed)

	got := FromError(wrapped)
	assert.Equal(t, "NOT_FOUND", got.Code)
	assert.Equal(t, "aircraft not found", got.Message)
}

func TestFromErrorWrapsPlainErrors(t *testing.T) {
	got := FromError(stderrors.New("disk full"))
	assert.Equal(t, ErrInternal.Code, got.Code)
	assert.Equal(t, ExitFailure, got.ExitCode)
	assert.Contains(t, got.Error(), "disk full")
}

func TestValidationMatchesByCode(t *testing.T) {
	err := Validation("bad token %q", "x.y.z.w")
	assert.True(t, IsValidation(err))
	assert.True(t, IsValidation(fmt.Errorf("resolve: %w", err)))
	assert.False(t, IsValidation(ErrInternal))
	assert.Equal(t, ExitUsage, err.ExitCode)
	assert.Equal(t, `bad token "x.y.z.w"`, err.Error())
}

func TestCloneNil(t *testing.T) {
	assert.Nil(t, Clone(nil, "x"))
	assert.Nil(t, FromError(nil))
}
