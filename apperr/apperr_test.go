package apperr

import (
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
)

func TestKindOf(t *testing.T) {
	assert.Equal(t, NotFound, KindOf(NotFoundf("enrollment %d not found", 4)))
	assert.Equal(t, Unhandled, KindOf(errors.New("boom")))

	wrapped := errors.Wrap(New(InvalidState, "not active"), "cancel")
	assert.Equal(t, InvalidState, KindOf(wrapped))
	assert.True(t, Is(wrapped, InvalidState))
	assert.False(t, Is(nil, InvalidState))
}

func TestInternalHidesCause(t *testing.T) {
	err := Internal(errors.New("pq: relation \"enrollments\" does not exist"), "load enrollment")

	assert.Equal(t, Unhandled, err.Kind)
	assert.NotContains(t, err.Message, "relation")
	assert.Contains(t, err.Error(), "load enrollment")
	assert.NotNil(t, errors.Unwrap(err))
}

func TestInvalidCarriesFields(t *testing.T) {
	err := Invalid("Validation failed!", map[string]string{"progress_percentage": "must be <= 100"})

	assert.Equal(t, ValidationFailed, err.Kind)
	assert.Equal(t, map[string]string{"progress_percentage": "must be <= 100"}, err.Details)
}
