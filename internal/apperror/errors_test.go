package apperror

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCodeOf(t *testing.T) {
	wrapped := fmt.Errorf("update artikel: %w", ConcurrentlyDeleted("Artikel", 7))
	assert.Equal(t, CodeConcurrentlyDeleted, CodeOf(wrapped))
	assert.True(t, IsCode(wrapped, CodeConcurrentlyDeleted))
	assert.False(t, IsCode(wrapped, CodeNotFound))

	verr := &ValidationError{Object: "x", Violations: []Violation{{Field: "a", Message: "a is required"}}}
	assert.Equal(t, CodeValidation, CodeOf(fmt.Errorf("create: %w", verr)))

	assert.Equal(t, CodeInternal, CodeOf(errors.New("boom")))
	assert.False(t, IsCode(nil, CodeInternal))
}

func TestErrorMessages(t *testing.T) {
	cause := errors.New("connection reset")
	err := Wrap(CodeConflict, "version conflict", cause)
	assert.Equal(t, "version conflict: connection reset", err.Error())
	assert.ErrorIs(t, err, cause)

	assert.Equal(t, "Artikel with ID 3 was deleted concurrently", ConcurrentlyDeleted("Artikel", 3).Error())

	verr := &ValidationError{Object: 42, Violations: []Violation{
		{Message: "a is required"},
		{Message: "b must be 5 characters in length"},
	}}
	assert.Equal(t, "invalid int: a is required; b must be 5 characters in length", verr.Error())
}
