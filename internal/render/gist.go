package render

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/ezerfernandes/mdmedium/internal/fence"
)

// Gist defaults.
const (
	DefaultAPIURL      = "https://api.github.com"
	DefaultDelay       = 200 * time.Millisecond
	DefaultDescription = "Code snippet"
)

const maxErrorBody = 512

// Gist renders snippets as public GitHub gists and returns their URL.
type Gist struct {
	// Token authorizes the API call. It is never logged.
	Token       string
	APIURL      string
	Description string
	// Delay is slept after every API call, successful or not.
	Delay      time.Duration
	Extensions fence.Extensions
	Client     *http.Client
	Logger     *slog.Logger
}

// NewGist returns a Gist renderer with default settings.
func NewGist(token string, exts fence.Extensions) *Gist {
	return &Gist{
		Token:       token,
		APIURL:      DefaultAPIURL,
		Description: DefaultDescription,
		Delay:       DefaultDelay,
		Extensions:  exts,
		Client:      http.DefaultClient,
	}
}

// RemoteError reports a non-success response from the snippet host.
type RemoteError struct {
	StatusCode int
	Body       string
}

func (e *RemoteError) Error() string {
	if len(e.Body) == 0 {
		return fmt.Sprintf("%v: status %d", ErrRemote, e.StatusCode)
	}

	return fmt.Sprintf("%v: status %d: %s", ErrRemote, e.StatusCode, e.Body)
}

func (e *RemoteError) Unwrap() error {
	return ErrRemote
}

type gistFile struct {
	Content string `json:"content"`
}

type gistPayload struct {
	Files       map[string]gistFile `json:"files"`
	Public      bool                `json:"public"`
	Description string              `json:"description"`
}

type gistResponse struct {
	ID      string `json:"id"`
	HTMLURL string `json:"html_url"`
}

// FileName returns the gist file name for req: "<prefix>-<index>.<ext>", or
// "<index>.<ext>" without a prefix.
func (g *Gist) FileName(req Request) string {
	name := strconv.Itoa(req.Index)
	if len(req.Prefix) != 0 {
		name = req.Prefix + "-" + name
	}

	return name + "." + g.Extensions.Label(req.Lang)
}

// Render implements [Renderer].
func (g *Gist) Render(ctx context.Context, req Request) (string, error) {
	if len(g.Token) == 0 {
		return "", ErrMissingToken
	}

	name := g.FileName(req)

	body, err := json.Marshal(gistPayload{
		Files:       map[string]gistFile{name: {Content: req.Code}},
		Public:      true,
		Description: g.Description,
	})
	if err != nil {
		return "", err
	}

	created, err := g.create(ctx, body)

	if werr := wait(ctx, g.Delay); werr != nil && err == nil {
		err = werr
	}

	if err != nil {
		return "", err
	}

	loggerOrDefault(g.Logger).Info("gist created", "index", req.Index, "file", name, "id", created.ID, "url", created.HTMLURL)

	return created.HTMLURL, nil
}

func (g *Gist) create(ctx context.Context, body []byte) (*gistResponse, error) {
	apiURL := g.APIURL
	if len(apiURL) == 0 {
		apiURL = DefaultAPIURL
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, strings.TrimSuffix(apiURL, "/")+"/gists", bytes.NewReader(body))
	if err != nil {
		return nil, err
	}

	req.Header.Set("Accept", "application/vnd.github.v3+json")
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "token "+g.Token)

	client := g.Client
	if client == nil {
		client = http.DefaultClient
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		excerpt, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))

		return nil, &RemoteError{StatusCode: resp.StatusCode, Body: strings.TrimSpace(string(excerpt))}
	}

	var created gistResponse

	if err := json.NewDecoder(resp.Body).Decode(&created); err != nil {
		return nil, fmt.Errorf("%w: decoding response: %v", ErrRemote, err)
	}

	if len(created.HTMLURL) == 0 {
		return nil, fmt.Errorf("%w: response has no html_url", ErrRemote)
	}

	return &created, nil
}
