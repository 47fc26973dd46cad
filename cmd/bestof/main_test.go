package main

import (
	"context"
	"errors"
	"fmt"
	"testing"

	bterrors "github.com/matzehuels/bestof/pkg/errors"
)

func TestExitCode(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"cancelled", fmt.Errorf("enrich: %w", context.Canceled), exitInterrupted},
		{"invalid input", bterrors.New(bterrors.ErrCodeInvalidInput, "no projects"), exitInvalidData},
		{"invalid config", bterrors.New(bterrors.ErrCodeInvalidConfig, "bad weights"), exitInvalidData},
		{"missing file", fmt.Errorf("load: %w", bterrors.New(bterrors.ErrCodeFileNotFound, "projects.yaml")), exitInvalidData},
		{"unwritable", bterrors.New(bterrors.ErrCodeOutputUnwritable, "README.md"), exitFailure},
		{"plain", errors.New("boom"), exitFailure},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := exitCode(tt.err); got != tt.want {
				t.Errorf("exitCode() = %d, want %d", got, tt.want)
			}
		})
	}
}
