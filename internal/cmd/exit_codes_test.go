package cmd

import (
	"errors"
	"fmt"
	"testing"

	"github.com/ezerfernandes/mdmedium/internal/render"
	"github.com/ezerfernandes/mdmedium/internal/store"
	"github.com/stretchr/testify/assert"
)

func TestExitCodeFor(t *testing.T) {
	t.Parallel()

	tests := []struct {
		err  error
		want int
	}{
		{nil, exitSuccess},
		{errors.New("boom"), exitGeneral},
		{fmt.Errorf("%w: flag", errUsage), exitUsage},
		{errUnknownMode, exitUsage},
		{render.ErrMissingToken, exitUsage},
		{fmt.Errorf("snippet 0: %w", render.ErrOutDir), exitUsage},
		{fmt.Errorf("%w: x", store.ErrReadInput), exitIO},
		{store.ErrWriteOutput, exitIO},
		{fmt.Errorf("snippet 0: %w", &render.RemoteError{StatusCode: 500}), exitRender},
		{&render.ToolError{ExitCode: 1}, exitRender},
		{render.ErrNoArtifact, exitRender},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, exitCodeFor(tt.err), fmt.Sprint(tt.err))
	}
}
