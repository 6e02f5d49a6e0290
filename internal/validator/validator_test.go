package validator_test

import (
	"fmt"
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/blog/internal/validator"
)

func TestRules(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		rule validator.Rule
		ok   bool
	}{
		{"required ok", validator.Required("f", "x"), true},
		{"required empty", validator.Required("f", ""), false},
		{"min ok", validator.MinLenString("f", "abc", 3), true},
		{"min short", validator.MinLenString("f", "ab", 3), false},
		{"min counts runes", validator.MinLenString("f", "äöü", 3), true},
		{"max ok", validator.MaxLenString("f", "abcdefghij", 10), true},
		{"max long", validator.MaxLenString("f", "abcdefghijk", 10), false},
		{"alnum ok", validator.Alphanumeric("f", "Alice42"), true},
		{"alnum space", validator.Alphanumeric("f", "ali ce"), false},
		{"alnum symbol", validator.Alphanumeric("f", "alice!"), false},
		{"alnum non ascii", validator.Alphanumeric("f", "älice"), false},
		{"alnum empty", validator.Alphanumeric("f", ""), false},
		{"check true", validator.Check("f", true, "m"), true},
		{"check false", validator.Check("f", false, "m"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.ok, tt.rule.Check())
		})
	}
}

func TestApply(t *testing.T) {
	t.Parallel()

	t.Run("all pass", func(t *testing.T) {
		t.Parallel()

		err := validator.Apply(
			validator.Required("title", "Hi"),
			validator.Required("body", "world"),
		)
		assert.NoError(t, err)
	})

	t.Run("collects every failure in order", func(t *testing.T) {
		t.Parallel()

		err := validator.Apply(
			validator.Required("title", "").WithMessage("You must provide a title."),
			validator.Required("body", "").WithMessage("You must provide content."),
		)
		require.Error(t, err)
		require.True(t, validator.IsValidationError(err))

		errs := validator.ExtractValidationErrors(err)
		assert.Equal(t, []string{"You must provide a title.", "You must provide content."}, errs.Messages())
		assert.True(t, errs.Has("title"))
		assert.True(t, errs.Has("body"))
		assert.False(t, errs.Has("username"))
	})

	t.Run("conditional rules", func(t *testing.T) {
		t.Parallel()

		username := ""
		rules := slices.Concat(
			[]validator.Rule{validator.Required("username", username)},
			validator.When(username != "", validator.MinLenString("username", username, 3)),
		)
		errs := validator.ExtractValidationErrors(validator.Apply(rules...))
		assert.Len(t, errs, 1)
	})

	t.Run("wrapped", func(t *testing.T) {
		t.Parallel()

		err := fmt.Errorf("register: %w", validator.Apply(validator.Required("username", "")))
		assert.True(t, validator.IsValidationError(err))
		assert.Len(t, validator.ExtractValidationErrors(err), 1)
		assert.Nil(t, validator.ExtractValidationErrors(fmt.Errorf("other")))
	})
}
