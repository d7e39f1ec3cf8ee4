// Package gateway is the single shared HTTP client of the banking web
// client. Every domain API call goes through it: it attaches the stored
// bearer credential, counts in-flight requests for the busy signal, and
// handles authentication failure centrally so no call site carries auth
// logic of its own.
package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/phegonbank/webclient-go/internal/busy"
	apperrors "github.com/phegonbank/webclient-go/internal/errors"
	"github.com/phegonbank/webclient-go/internal/ports"
)

const (
	defaultTimeout  = 10 * time.Second
	maxResponseBody = 8 << 20
	maxErrorBody    = 64 << 10
)

// Sink receives request counters for metrics emission. It matches the
// observability statsd client.
type Sink interface {
	Count(name string, value int64, tags map[string]string)
}

// Options bundles dependencies for New.
type Options struct {
	// BaseURL is the API root, e.g. "https://bank.example.com/api".
	BaseURL string
	// Timeout is the fixed per-request timeout; it surfaces as a Timeout
	// AppError on the normal error path and counts as a settle.
	Timeout time.Duration
	Store   ports.CredentialStore
	Busy    *busy.Broadcaster
	Logger  *slog.Logger
	Metrics Sink

	// OnUnauthorized runs after a 401 response has cleared the credential
	// store; the UI layer uses it to navigate to the login entry point.
	// Optional; see also SetOnUnauthorized.
	OnUnauthorized func()

	// HTTPClient overrides the underlying client, for tests.
	HTTPClient *http.Client
}

// Client is the shared request gateway.
type Client struct {
	http    *http.Client
	baseURL string
	store   ports.CredentialStore
	busy    *busy.Broadcaster
	logger  *slog.Logger
	metrics Sink

	onUnauthorized func()
}

// New creates the gateway client.
func New(opts Options) *Client {
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	httpClient := opts.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: timeout}
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	b := opts.Busy
	if b == nil {
		b = busy.New()
	}
	return &Client{
		http:           httpClient,
		baseURL:        strings.TrimRight(opts.BaseURL, "/"),
		store:          opts.Store,
		busy:           b,
		logger:         logger,
		metrics:        opts.Metrics,
		onUnauthorized: opts.OnUnauthorized,
	}
}

// SetOnUnauthorized replaces the 401 hook. The bootstrap wires the session
// manager here after both exist.
func (c *Client) SetOnUnauthorized(fn func()) {
	c.onUnauthorized = fn
}

// Busy returns the broadcaster fed by this gateway.
func (c *Client) Busy() *busy.Broadcaster { return c.busy }

// Get performs a GET and decodes the (possibly enveloped) response into out.
func (c *Client) Get(ctx context.Context, path string, out any) error {
	body, err := c.do(ctx, http.MethodGet, path, "", nil)
	if err != nil {
		return err
	}
	return decodeBody(body, out)
}

// GetList performs a GET and decodes a list payload, tolerating all the
// envelope shapes the backend has shipped over time (see decodeList).
func (c *Client) GetList(ctx context.Context, path string, out any) error {
	body, err := c.do(ctx, http.MethodGet, path, "", nil)
	if err != nil {
		return err
	}
	return decodeList(body, out)
}

// Post performs a POST with a JSON body and decodes the response into out.
func (c *Client) Post(ctx context.Context, path string, in, out any) error {
	return c.sendJSON(ctx, http.MethodPost, path, in, out)
}

// Put performs a PUT with a JSON body and decodes the response into out.
func (c *Client) Put(ctx context.Context, path string, in, out any) error {
	return c.sendJSON(ctx, http.MethodPut, path, in, out)
}

// Delete performs a DELETE, discarding any response payload.
func (c *Client) Delete(ctx context.Context, path string) error {
	_, err := c.do(ctx, http.MethodDelete, path, "", nil)
	return err
}

// PutMultipart uploads a single file under the given form field and decodes
// the response into out. Used for profile pictures.
func (c *Client) PutMultipart(ctx context.Context, path, field, filename string, r io.Reader, out any) error {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fw, err := mw.CreateFormFile(field, filename)
	if err != nil {
		return fmt.Errorf("create form file: %w", err)
	}
	if _, err = io.Copy(fw, r); err != nil {
		return fmt.Errorf("copy form file: %w", err)
	}
	if err = mw.Close(); err != nil {
		return fmt.Errorf("finish multipart body: %w", err)
	}

	body, err := c.do(ctx, http.MethodPut, path, mw.FormDataContentType(), &buf)
	if err != nil {
		return err
	}
	return decodeBody(body, out)
}

func (c *Client) sendJSON(ctx context.Context, method, path string, in, out any) error {
	var reader io.Reader
	if in != nil {
		data, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("marshal request body: %w", err)
		}
		reader = bytes.NewReader(data)
	}
	body, err := c.do(ctx, method, path, "application/json", reader)
	if err != nil {
		return err
	}
	return decodeBody(body, out)
}

// do executes one request. The busy decrement is deferred so it runs
// exactly once on every exit: success, transport failure, and error-status
// paths all settle.
func (c *Client) do(ctx context.Context, method, path, contentType string, body io.Reader) ([]byte, error) {
	c.busy.Begin()
	defer c.busy.End()

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}

	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-Id", uuid.NewString())
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	c.attachCredential(ctx, req)

	resp, err := c.http.Do(req)
	if err != nil {
		c.count(method, 0)
		return nil, classifyTransportError(err)
	}
	defer func() {
		if cerr := resp.Body.Close(); cerr != nil {
			c.logger.Debug("close response body failed", "error", cerr)
		}
	}()

	c.count(method, resp.StatusCode)

	if resp.StatusCode == http.StatusUnauthorized {
		return nil, c.handleUnauthorized(ctx, resp)
	}

	if resp.StatusCode >= 400 {
		msg, rerr := readErrorMessage(resp.Body)
		if rerr != nil {
			c.logger.Debug("read error body failed", "error", rerr)
		}
		return nil, apperrors.FromStatus(resp.StatusCode, msg)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBody))
	if err != nil {
		return nil, apperrors.Network(fmt.Errorf("read response body: %w", err))
	}
	return data, nil
}

// attachCredential reads the store and sets the bearer header when a token
// is present. A store read failure is logged and the request proceeds
// unauthenticated; the backend's 401 then drives the usual recovery.
func (c *Client) attachCredential(ctx context.Context, req *http.Request) {
	if c.store == nil {
		return
	}
	cred, err := c.store.Load(ctx)
	if err != nil {
		c.logger.Warn("load credential failed, sending unauthenticated", "error", err)
		return
	}
	if cred.Present() {
		req.Header.Set("Authorization", "Bearer "+cred.Token)
	}
}

// handleUnauthorized implements the one global side effect of the gateway:
// any 401 clears the credential store and fires the navigation hook, no
// matter which call site issued the request.
func (c *Client) handleUnauthorized(ctx context.Context, resp *http.Response) error {
	msg, rerr := readErrorMessage(resp.Body)
	if rerr != nil {
		c.logger.Debug("read 401 body failed", "error", rerr)
	}

	if c.store != nil {
		if err := c.store.Clear(ctx); err != nil {
			c.logger.ErrorContext(ctx, "clear credential after 401 failed", "error", err)
		}
	}
	if c.onUnauthorized != nil {
		c.onUnauthorized()
	}

	if msg == "" {
		msg = "session expired"
	}
	return apperrors.Unauthorized(msg)
}

func (c *Client) count(method string, status int) {
	if c.metrics == nil {
		return
	}
	c.metrics.Count("client.requests", 1, map[string]string{
		"method": method,
		"status": strconv.Itoa(status),
	})
}

func classifyTransportError(err error) error {
	var ne net.Error
	if errors.As(err, &ne) && ne.Timeout() {
		return apperrors.Timeout(err)
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return apperrors.Timeout(err)
	}
	return apperrors.Network(err)
}
