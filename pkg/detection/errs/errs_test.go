package errs_test

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	"stackscan/pkg/detection/errs"
)

func TestErrorMessage(t *testing.T) {
	tests := []struct {
		name     string
		err      *errs.Error
		contains []string
	}{
		{
			name:     "kind and component only",
			err:      &errs.Error{Kind: errs.ValidationFailure, Component: "engine"},
			contains: []string{"engine", "validation_failure"},
		},
		{
			name:     "wrapped error",
			err:      errs.Wrap(errs.ParseFailure, "nodejs", fmt.Errorf("unexpected token")),
			contains: []string{"nodejs", "parse_failure", "unexpected token"},
		},
		{
			name:     "wrapped error with path",
			err:      errs.WrapPath(errs.FileSystemFailure, "fsscan", "go.mod", fmt.Errorf("permission denied")),
			contains: []string{"fsscan", "filesystem_failure", "go.mod", "permission denied"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			msg := tt.err.Error()
			for _, want := range tt.contains {
				if !strings.Contains(msg, want) {
					t.Errorf("Expected message %q to contain %q", msg, want)
				}
			}
		})
	}
}

func TestKindOf(t *testing.T) {
	wrapped := fmt.Errorf("outer: %w", errs.New(errs.DetectionFailure, "python", "boom"))
	if got := errs.KindOf(wrapped); got != errs.DetectionFailure {
		t.Errorf("Expected kind %q through wrapping, got %q", errs.DetectionFailure, got)
	}

	if got := errs.KindOf(errors.New("plain")); got != "" {
		t.Errorf("Expected empty kind for untyped error, got %q", got)
	}
}

func TestRetryable(t *testing.T) {
	tests := []struct {
		kind      errs.Kind
		retryable bool
	}{
		{errs.FileSystemFailure, true},
		{errs.ParseFailure, true},
		{errs.DetectionFailure, true},
		{errs.IntegrationFailure, false},
		{errs.ValidationFailure, false},
		{errs.ResourceExhaustion, false},
	}

	for _, tt := range tests {
		t.Run(string(tt.kind), func(t *testing.T) {
			err := errs.New(tt.kind, "test", "failed")
			if got := errs.Retryable(err); got != tt.retryable {
				t.Errorf("Retryable(%s) = %v, want %v", tt.kind, got, tt.retryable)
			}
		})
	}

	if errs.Retryable(errors.New("plain")) {
		t.Error("Expected untyped errors to be non-retryable")
	}
}

func TestErrorsIsMatchesOnKind(t *testing.T) {
	err := errs.WrapPath(errs.FileSystemFailure, "fsscan", "package.json", fmt.Errorf("no such file"))

	if !errors.Is(err, &errs.Error{Kind: errs.FileSystemFailure}) {
		t.Error("Expected errors.Is to match on kind")
	}
	if errors.Is(err, &errs.Error{Kind: errs.ParseFailure}) {
		t.Error("Expected errors.Is to reject a different kind")
	}
}

func TestUnwrap(t *testing.T) {
	inner := fmt.Errorf("root cause")
	err := errs.Wrap(errs.IntegrationFailure, "engine", inner)

	if !errors.Is(err, inner) {
		t.Error("Expected the wrapped error to be reachable via errors.Is")
	}
}
