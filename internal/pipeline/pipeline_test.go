package pipeline_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/ezerfernandes/mdmedium/internal/fence"
	"github.com/ezerfernandes/mdmedium/internal/pipeline"
	"github.com/ezerfernandes/mdmedium/internal/render"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubRenderer struct {
	requests []render.Request
	token    func(req render.Request) (string, error)
}

func (s *stubRenderer) Render(_ context.Context, req render.Request) (string, error) {
	s.requests = append(s.requests, req)

	return s.token(req)
}

func echo(token string) *stubRenderer {
	return &stubRenderer{token: func(render.Request) (string, error) { return token, nil }}
}

func quiet() pipeline.Option {
	return pipeline.WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func TestRunNoFences(t *testing.T) {
	t.Parallel()

	doc := "# Title\n\nNo code here, only `inline`.\n"
	stub := echo("unused")

	res, err := pipeline.New(stub, quiet()).Run(context.Background(), doc)
	require.NoError(t, err)

	assert.Equal(t, doc, res.Document)
	assert.Zero(t, res.Replaced)
	assert.Empty(t, stub.requests)
}

func TestRunLinkScenario(t *testing.T) {
	t.Parallel()

	stub := echo("https://x/1")

	res, err := pipeline.New(stub, quiet()).Run(context.Background(), "a\n```python\nprint(1)\n```\nb")
	require.NoError(t, err)

	assert.Equal(t, "a\nhttps://x/1\nb", res.Document)
	require.Len(t, stub.requests, 1)
	assert.Equal(t, render.Request{Index: 0, Lang: "python", Code: "print(1)\n"}, stub.requests[0])
}

func TestRunRoundTrip(t *testing.T) {
	t.Parallel()

	doc := "before  \n\n```go\nfunc main() {}\n```\n  after\n"

	found, ok := fence.Locate(doc)
	require.True(t, ok)

	res, err := pipeline.New(echo("TOKEN"), quiet()).Run(context.Background(), doc)
	require.NoError(t, err)

	assert.Equal(t, doc[:found.Start]+"TOKEN"+doc[found.End:], res.Document)
}

func TestRunSequenceIndices(t *testing.T) {
	t.Parallel()

	doc := "```\none\n```\ntext\n```sh\ntwo\n```\n```go\nthree\n```\n"
	stub := &stubRenderer{token: func(req render.Request) (string, error) {
		return "[" + req.Lang + "]", nil
	}}

	res, err := pipeline.New(stub, quiet(), pipeline.WithPrefix("post")).Run(context.Background(), doc)
	require.NoError(t, err)

	assert.Equal(t, 3, res.Replaced)
	assert.Equal(t, "[]\ntext\n[sh]\n[go]\n", res.Document)

	require.Len(t, stub.requests, 3)

	for i, req := range stub.requests {
		assert.Equal(t, i, req.Index)
		assert.Equal(t, "post", req.Prefix)
	}
}

func TestRunImageScenario(t *testing.T) {
	t.Parallel()

	carbon := render.Carbon{OutDir: "/tmp/out", LinkPrefix: "p"}
	stub := &stubRenderer{token: func(req render.Request) (string, error) {
		return carbon.Reference(render.ArtifactName(req.Index)), nil
	}}

	res, err := pipeline.New(stub, quiet()).Run(context.Background(), "```go\na\n```\n\n```go\nb\n```\n")
	require.NoError(t, err)

	assert.Equal(t, "![img](p/out/code-0.png)\n\n![img](p/out/code-1.png)\n", res.Document)
}

func TestRunAbortsOnFirstFailure(t *testing.T) {
	t.Parallel()

	failure := errors.New("remote said no")
	stub := &stubRenderer{token: func(render.Request) (string, error) { return "", failure }}

	res, err := pipeline.New(stub, quiet()).Run(context.Background(), "```go\na\n```\n```go\nb\n```\n")
	require.ErrorIs(t, err, failure)

	assert.Empty(t, res.Document)
	assert.Len(t, stub.requests, 1, "no fence is processed after the failing one")
}

func TestRunRejectsFenceToken(t *testing.T) {
	t.Parallel()

	_, err := pipeline.New(echo("```\nloop\n```"), quiet()).Run(context.Background(), "```go\na\n```\n")
	require.ErrorIs(t, err, pipeline.ErrFenceToken)
}

func TestRunWithoutRenderer(t *testing.T) {
	t.Parallel()

	_, err := pipeline.New(nil).Run(context.Background(), "text")
	require.ErrorIs(t, err, pipeline.ErrNoRenderer)
}

func TestStateString(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "scanning", pipeline.Scanning.String())
	assert.Equal(t, "done", pipeline.Done.String())
}
