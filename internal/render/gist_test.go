package render_test

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/ezerfernandes/mdmedium/internal/fence"
	"github.com/ezerfernandes/mdmedium/internal/render"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type gistRequest struct {
	Files map[string]struct {
		Content string `json:"content"`
	} `json:"files"`
	Public      bool   `json:"public"`
	Description string `json:"description"`
}

func newGist(t *testing.T, handler http.HandlerFunc) *render.Gist {
	t.Helper()

	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	gist := render.NewGist("secret", fence.DefaultExtensions())
	gist.APIURL = srv.URL
	gist.Client = srv.Client()
	gist.Delay = 0
	gist.Logger = slog.New(slog.NewTextHandler(io.Discard, nil))

	return gist
}

func TestGistRender(t *testing.T) {
	t.Parallel()

	var got gistRequest

	gist := newGist(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/gists", r.URL.Path)
		assert.Equal(t, "token secret", r.Header.Get("Authorization"))
		assert.Equal(t, "application/vnd.github.v3+json", r.Header.Get("Accept"))
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&got))

		w.WriteHeader(http.StatusCreated)
		_, _ = io.WriteString(w, `{"id":"abc","html_url":"https://gist.github.com/abc"}`)
	})
	gist.Description = "my post"

	token, err := gist.Render(context.Background(), render.Request{Index: 3, Lang: "python", Code: "print(1)\n", Prefix: "post"})
	require.NoError(t, err)

	assert.Equal(t, "https://gist.github.com/abc", token)
	assert.True(t, got.Public)
	assert.Equal(t, "my post", got.Description)
	require.Contains(t, got.Files, "post-3.py")
	assert.Equal(t, "print(1)\n", got.Files["post-3.py"].Content)
}

func TestGistFileName(t *testing.T) {
	t.Parallel()

	gist := render.NewGist("secret", fence.DefaultExtensions())

	assert.Equal(t, "0.txt", gist.FileName(render.Request{Index: 0}))
	assert.Equal(t, "x-1.txt", gist.FileName(render.Request{Index: 1, Lang: "cobol", Prefix: "x"}))
	assert.Equal(t, "2.go", gist.FileName(render.Request{Index: 2, Lang: "go"}))
}

func TestGistRemoteError(t *testing.T) {
	t.Parallel()

	gist := newGist(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = io.WriteString(w, `{"message":"Bad credentials"}`)
	})

	_, err := gist.Render(context.Background(), render.Request{Code: "x"})
	require.ErrorIs(t, err, render.ErrRemote)

	var remote *render.RemoteError

	require.True(t, errors.As(err, &remote))
	assert.Equal(t, http.StatusUnauthorized, remote.StatusCode)
	assert.Contains(t, remote.Body, "Bad credentials")
	assert.NotContains(t, err.Error(), "secret")
}

func TestGistMissingURL(t *testing.T) {
	t.Parallel()

	gist := newGist(t, func(w http.ResponseWriter, _ *http.Request) {
		_, _ = io.WriteString(w, `{"id":"abc"}`)
	})

	_, err := gist.Render(context.Background(), render.Request{Code: "x"})
	require.ErrorIs(t, err, render.ErrRemote)
}

func TestGistMissingToken(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32

	gist := newGist(t, func(w http.ResponseWriter, _ *http.Request) {
		calls.Add(1)
	})
	gist.Token = ""

	_, err := gist.Render(context.Background(), render.Request{Code: "x"})
	require.ErrorIs(t, err, render.ErrMissingToken)
	assert.Zero(t, calls.Load())
}

func TestGistDelay(t *testing.T) {
	t.Parallel()

	gist := newGist(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})
	gist.Delay = 50 * time.Millisecond

	start := time.Now()
	_, err := gist.Render(context.Background(), render.Request{Code: "x"})

	require.ErrorIs(t, err, render.ErrRemote)
	assert.GreaterOrEqual(t, time.Since(start), gist.Delay, "delay applies after failed calls too")
}

func TestPlaceholder(t *testing.T) {
	t.Parallel()

	token, err := render.Placeholder{Name: "gist"}.Render(context.Background(), render.Request{Index: 4})
	require.NoError(t, err)
	assert.Equal(t, "gist:4", token)
}
