package validator_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/recyclebin/pkg/validator"
)

func TestValidationErrors(t *testing.T) {
	t.Parallel()

	t.Run("empty message", func(t *testing.T) {
		t.Parallel()
		var errs validator.ValidationErrors
		assert.Equal(t, "validation failed", errs.Error())
		assert.True(t, errs.IsEmpty())
	})

	t.Run("collects fields in order", func(t *testing.T) {
		t.Parallel()
		var errs validator.ValidationErrors
		errs.Add(validator.ValidationError{Field: "email", Message: "is required"})
		errs.Add(validator.ValidationError{Field: "store", Message: "unknown"})
		errs.Add(validator.ValidationError{Field: "email", Message: "malformed"})

		assert.Equal(t, "validation failed: email: is required; store: unknown; email: malformed", errs.Error())
		assert.Equal(t, []string{"email", "store"}, errs.Fields())
		assert.Equal(t, []string{"is required", "malformed"}, errs.Get("email"))
		assert.True(t, errs.Has("store"))
		assert.False(t, errs.Has("name"))
		assert.Equal(t, map[string][]string{
			"email": {"is required", "malformed"},
			"store": {"unknown"},
		}, errs.Messages())
	})
}

func TestApply(t *testing.T) {
	t.Parallel()

	assert.NoError(t, validator.Apply(validator.RequiredString("email", "a@b.co")))
	assert.NoError(t, validator.Apply())

	err := validator.Apply(
		validator.RequiredString("email", " "),
		validator.ValidEmail("email", " "),
		validator.RequiredString("name", "x"),
	)
	require.Error(t, err)
	verrs := validator.ExtractValidationErrors(err)
	require.Len(t, verrs, 2)
	assert.Equal(t, "validation.required", verrs[0].Code)
	assert.Equal(t, "validation.email", verrs[1].Code)
}

func TestExtractValidationErrors(t *testing.T) {
	t.Parallel()

	assert.Nil(t, validator.ExtractValidationErrors(nil))
	assert.Nil(t, validator.ExtractValidationErrors(errors.New("plain")))
	assert.False(t, validator.IsValidationError(errors.New("plain")))

	wrapped := fmt.Errorf("notify: %w", validator.Apply(validator.RequiredString("email", "")))
	assert.True(t, validator.IsValidationError(wrapped))
	assert.True(t, validator.ExtractValidationErrors(wrapped).Has("email"))
}
