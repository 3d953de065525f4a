package render

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/ezerfernandes/mdmedium/internal/fence"
)

// Carbon defaults.
const (
	DefaultCarbonBin = "carbon-now"
	TempStem         = "temp_code"
	ArtifactExt      = ".png"
)

// Carbon renders snippets to PNG images with the carbon-now CLI and returns a
// Markdown image reference to the result.
type Carbon struct {
	Bin string
	// Args are appended to the fixed argument list.
	Args []string
	// OutDir receives the images.
	OutDir string
	// WorkDir holds the transient code file; defaults to OutDir.
	WorkDir string
	// LinkPrefix is prepended to "<leaf of OutDir>/<artifact>.png".
	LinkPrefix string
	// Strict makes a nonzero exit or a missing image fatal.
	Strict     bool
	Extensions fence.Extensions
	Runner     Runner
	Logger     *slog.Logger
}

// NewCarbon returns a strict Carbon renderer writing to outDir.
func NewCarbon(outDir, linkPrefix string, exts fence.Extensions) *Carbon {
	return &Carbon{
		Bin:        DefaultCarbonBin,
		OutDir:     outDir,
		LinkPrefix: linkPrefix,
		Strict:     true,
		Extensions: exts,
		Runner:     ShellRunner{},
	}
}

// ToolError reports a nonzero exit of the render tool.
type ToolError struct {
	ExitCode int
	Stderr   string
}

func (e *ToolError) Error() string {
	if len(e.Stderr) == 0 {
		return fmt.Sprintf("%v: exit status %d", ErrRenderTool, e.ExitCode)
	}

	return fmt.Sprintf("%v: exit status %d: %s", ErrRenderTool, e.ExitCode, e.Stderr)
}

func (e *ToolError) Unwrap() error {
	return ErrRenderTool
}

// ArtifactName returns the image name, without extension, for the snippet at index.
func ArtifactName(index int) string {
	return "code-" + strconv.Itoa(index)
}

// leaf returns the last element of the absolute output directory.
func (c *Carbon) leaf() string {
	dir := c.OutDir
	if abs, err := filepath.Abs(dir); err == nil {
		dir = abs
	}

	return filepath.Base(dir)
}

// Reference returns the Markdown image reference for artifact.
func (c *Carbon) Reference(artifact string) string {
	link := c.leaf() + "/" + artifact + ArtifactExt
	if len(c.LinkPrefix) != 0 {
		link = strings.TrimSuffix(c.LinkPrefix, "/") + "/" + link
	}

	return "![img](" + link + ")"
}

// Render implements [Renderer].
func (c *Carbon) Render(ctx context.Context, req Request) (token string, err error) {
	logger := loggerOrDefault(c.Logger)

	if leaf := c.leaf(); leaf == string(filepath.Separator) || leaf == "." {
		return "", fmt.Errorf("%w: %q", ErrOutDir, c.OutDir)
	}

	workDir := c.WorkDir
	if len(workDir) == 0 {
		workDir = c.OutDir
	}

	file, err := os.CreateTemp(workDir, TempStem+"-*."+c.Extensions.Label(req.Lang))
	if err != nil {
		return "", fmt.Errorf("creating transient file: %w", err)
	}

	tmp := file.Name()

	defer func() {
		if rerr := os.Remove(tmp); rerr != nil && err == nil {
			token, err = "", fmt.Errorf("removing transient file: %w", rerr)
		}
	}()

	_, err = file.WriteString(req.Code)
	if cerr := file.Close(); err == nil {
		err = cerr
	}

	if err != nil {
		return "", fmt.Errorf("writing transient file: %w", err)
	}

	artifact := ArtifactName(req.Index)
	image := filepath.Join(c.OutDir, artifact+ArtifactExt)

	// An image left by an earlier run must not pass for this one.
	if rerr := os.Remove(image); rerr != nil && !errors.Is(rerr, fs.ErrNotExist) {
		return "", fmt.Errorf("removing previous image: %w", rerr)
	}

	bin := c.Bin
	if len(bin) == 0 {
		bin = DefaultCarbonBin
	}

	args := append([]string{bin, tmp, "-h", "-l", c.OutDir, "-t", artifact}, c.Args...)

	runner := c.Runner
	if runner == nil {
		runner = ShellRunner{}
	}

	var stdout, stderr bytes.Buffer

	code, err := runner.Run(ctx, "", args, &stdout, &stderr)
	if err != nil {
		return "", fmt.Errorf("running %s: %w", bin, err)
	}

	logger.Debug("render tool finished", "index", req.Index, "exit", code, "stdout", stdout.String(), "stderr", stderr.String())

	if code != 0 {
		terr := &ToolError{ExitCode: code, Stderr: strings.TrimSpace(stderr.String())}
		if c.Strict {
			return "", terr
		}

		logger.Warn("render tool failed, keeping reference", "index", req.Index, "error", terr)
	}

	switch _, serr := os.Stat(image); {
	case serr == nil:
		logger.Info("image created", "index", req.Index, "path", image)
	case !errors.Is(serr, fs.ErrNotExist):
		return "", serr
	case c.Strict:
		return "", fmt.Errorf("%w: %s", ErrNoArtifact, image)
	default:
		logger.Warn("image not found, keeping reference", "index", req.Index, "path", image)
	}

	return c.Reference(artifact), nil
}
