package models

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAppError_Wrapping(t *testing.T) {
	cause := errors.New("connection reset")
	err := fmt.Errorf("list users: %w", NewInternalError(cause))

	assert.ErrorIs(t, err, cause)
	assert.Equal(t, CodeInternal, ErrorCode(err))
	assert.Contains(t, err.Error(), "connection reset")
}

func TestErrorCode(t *testing.T) {
	assert.Equal(t, CodeNotFound, ErrorCode(NewNotFoundError("Post", 7)))
	assert.Equal(t, CodeSelfFollow, ErrorCode(NewSelfFollowError("no")))
	assert.Equal(t, CodeInternal, ErrorCode(errors.New("plain")))
	assert.True(t, IsCode(NewConflictError("taken"), CodeConflict))
	assert.False(t, IsCode(nil, CodeConflict))
	assert.Equal(t, "Post 7 not found", NewNotFoundError("Post", 7).Error())
}
