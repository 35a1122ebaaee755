package domain

import (
	"errors"
	"fmt"
	"testing"
)

func TestValidationError_Error(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		fields [][2]string
		want   string
	}{
		{name: "one field", fields: [][2]string{{"text", "required"}}, want: "validation: text: required"},
		{
			name:   "every field listed",
			fields: [][2]string{{"lang", "required"}, {"index", "must not be negative"}},
			want:   "validation: lang: required; index: must not be negative",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			var v ValidationError
			for _, f := range tt.fields {
				v.Add(f[0], f[1])
			}
			err := v.Err()
			if err == nil {
				t.Fatal("Err() = nil after Add")
			}
			if got := err.Error(); got != tt.want {
				t.Fatalf("Error() = %q, want %q", got, tt.want)
			}
			if !errors.Is(err, ErrValidation) {
				t.Fatal("errors.Is(err, ErrValidation) = false")
			}
		})
	}
}

func TestValidationError_EmptyIsNil(t *testing.T) {
	t.Parallel()

	var v ValidationError
	if err := v.Err(); err != nil {
		t.Fatalf("Err() = %v, want nil", err)
	}
}

func TestValidationError_Wrapped(t *testing.T) {
	t.Parallel()

	err := fmt.Errorf("import: %w", NewValidationError("file", "archive contains no terms"))

	var ve *ValidationError
	if !errors.As(err, &ve) {
		t.Fatal("errors.As should find ValidationError")
	}
	if len(ve.Errors) != 1 || ve.Errors[0].Field != "file" {
		t.Fatalf("fields = %+v, want one for file", ve.Errors)
	}
	if !errors.Is(err, ErrValidation) {
		t.Fatal("wrapped ValidationError should match ErrValidation")
	}
}

func TestSentinelErrors_AreDistinct(t *testing.T) {
	t.Parallel()

	sentinels := []error{ErrNotFound, ErrAlreadyExists, ErrValidation, ErrLanguageUnavailable}
	for i, a := range sentinels {
		for j, b := range sentinels {
			if i != j && errors.Is(a, b) {
				t.Errorf("sentinel errors %d and %d should not match", i, j)
			}
		}
	}
}
