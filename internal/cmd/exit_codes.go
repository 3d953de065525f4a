package cmd

import (
	"errors"

	"github.com/ezerfernandes/mdmedium/internal/render"
	"github.com/ezerfernandes/mdmedium/internal/store"
)

const (
	exitSuccess = 0
	exitGeneral = 1
	exitUsage   = 2
	exitIO      = 3
	exitRender  = 4
)

func exitCodeFor(err error) int {
	switch {
	case err == nil:
		return exitSuccess
	case errors.Is(err, errUsage),
		errors.Is(err, errConfig),
		errors.Is(err, errUnknownMode),
		errors.Is(err, render.ErrMissingToken),
		errors.Is(err, render.ErrOutDir):
		return exitUsage
	case errors.Is(err, store.ErrReadInput),
		errors.Is(err, store.ErrWriteOutput):
		return exitIO
	case errors.Is(err, render.ErrRemote),
		errors.Is(err, render.ErrRenderTool),
		errors.Is(err, render.ErrNoArtifact):
		return exitRender
	default:
		return exitGeneral
	}
}
