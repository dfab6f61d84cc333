package validator_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/dmitrymomot/recyclebin/pkg/validator"
)

func passes(r validator.Rule) bool { return r.Check() }

func TestValidEmail(t *testing.T) {
	t.Parallel()

	tests := []struct {
		value string
		want  bool
	}{
		{"ops@example.com", true},
		{"first.last+tag@sub.example.org", true},
		{" ops@example.com ", true},
		{"o'brien@example.com", true},
		{"ops@10.0.0.1", true},
		{"", false},
		{"ops", false},
		{"ops@", false},
		{"@example.com", false},
		{"ops@localhost", false},
		{"ops@example..com", false},
		{"ops@.example.com", false},
		{"Ops Team <ops@example.com>", false},
		{"a@b@example.com", false},
	}

	for _, tt := range tests {
		t.Run(tt.value, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, passes(validator.ValidEmail("email", tt.value)))
		})
	}
}

func TestRequiredString(t *testing.T) {
	t.Parallel()

	assert.True(t, passes(validator.RequiredString("f", "x")))
	assert.False(t, passes(validator.RequiredString("f", "")))
	assert.False(t, passes(validator.RequiredString("f", " \t\n")))
}

func TestMaxLenString(t *testing.T) {
	t.Parallel()

	r := validator.MaxLenString("f", "abcd", 4)
	assert.True(t, passes(r))
	assert.Equal(t, 4, r.Error.Params["max"])
	assert.False(t, passes(validator.MaxLenString("f", "abcde", 4)))
}

func TestInListString(t *testing.T) {
	t.Parallel()

	allowed := []string{"local", "s3"}
	assert.True(t, passes(validator.InListString("driver", "s3", allowed)))
	r := validator.InListString("driver", "ftp", allowed)
	assert.False(t, passes(r))
	assert.Equal(t, "must be one of: local, s3", r.Error.Message)
}

func TestMinNum(t *testing.T) {
	t.Parallel()

	assert.True(t, passes(validator.MinNum("n", 1, 1)))
	assert.False(t, passes(validator.MinNum("n", 0, 1)))
	assert.True(t, passes(validator.MinNum("size", int64(1<<20), 1)))
	assert.False(t, passes(validator.MinNum("ratio", -0.5, 0.0)))
}
