package oaserrors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseError(t *testing.T) {
	t.Run("all fields", func(t *testing.T) {
		cause := errors.New("yaml: line 3: mapping values are not allowed")
		err := &ParseError{Path: "stripe.yaml", Message: "cannot decode document", Cause: cause}
		assert.Equal(t, "parse error in stripe.yaml: cannot decode document: yaml: line 3: mapping values are not allowed", err.Error())
		assert.ErrorIs(t, err, ErrParse)
		assert.ErrorIs(t, err, cause)
	})

	t.Run("minimal", func(t *testing.T) {
		assert.Equal(t, "parse error", (&ParseError{}).Error())
	})
}

func TestReferenceError(t *testing.T) {
	tests := []struct {
		name       string
		err        *ReferenceError
		want       string
		unresolved bool
	}{
		{
			name:       "unresolved parameter",
			err:        &ReferenceError{Ref: "#/components/parameters/Missing", Kind: "parameter", Unresolved: true},
			want:       "unresolved reference to parameter: #/components/parameters/Missing",
			unresolved: true,
		},
		{
			name: "malformed schema ref",
			err:  &ReferenceError{Ref: "other.yaml#/Foo", Kind: "schema", Message: "external references are not supported"},
			want: "reference error to schema: other.yaml#/Foo: external references are not supported",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.err.Error())
			assert.ErrorIs(t, tt.err, ErrReference)
			assert.Equal(t, tt.unresolved, errors.Is(tt.err, ErrUnresolvedReference))
		})
	}
}

func TestSpecError(t *testing.T) {
	err := &SpecError{Method: "GET", Path: "/{id}", Message: "no tag can be derived"}
	assert.Equal(t, "spec error at GET /{id}: no tag can be derived", err.Error())
	assert.ErrorIs(t, err, ErrSpec)
	assert.NotErrorIs(t, err, ErrConfig)

	wrapped := fmt.Errorf("generator: %w", err)
	var specErr *SpecError
	assert.True(t, errors.As(wrapped, &specErr))
	assert.Equal(t, "/{id}", specErr.Path)
}

func TestPaginationError(t *testing.T) {
	err := &PaginationError{Vendor: "zoom", Property: "page", Operation: "list_meetings"}
	assert.Equal(t, "must implement custom pagination function for zoom page (operation list_meetings)", err.Error())
	assert.ErrorIs(t, err, ErrPagination)
}

func TestConfigError(t *testing.T) {
	cause := errors.New("boom")
	err := &ConfigError{Option: "drivers", Value: "sixth", Message: "unknown pagination driver", Cause: cause}
	assert.Equal(t, "configuration error for drivers (value: sixth): unknown pagination driver: boom", err.Error())
	assert.ErrorIs(t, err, ErrConfig)
	assert.Equal(t, cause, err.Unwrap())
}
