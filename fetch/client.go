// Package fetch downloads raw survey exports from the questionnaire host.
//
// The host speaks JSON-RPC over HTTPS. Every export is a three-step exchange: a
// session key is acquired with the account credentials, the responses are exported
// as base64-encoded CSV, and the session key is released again. The decoded CSV is
// written to disk atomically with its byte-order mark removed.
package fetch

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/nao1215/surveydash"
	"github.com/nao1215/surveydash/domain/model"
)

const (
	methodGetSessionKey     = "get_session_key"
	methodExportResponses   = "export_responses"
	methodReleaseSessionKey = "release_session_key"

	// DefaultTimeout bounds a single remote call
	DefaultTimeout = 60 * time.Second

	// ResponseShort exports answer codes
	ResponseShort = "short"
	// ResponseLong exports answer texts
	ResponseLong = "long"
)

var (
	// ErrMissingCredentials is returned when the URL, user name or password is empty
	ErrMissingCredentials = errors.New("fetch: missing credentials")
	// ErrRemoteStatus is wrapped by every StatusError
	ErrRemoteStatus = errors.New("fetch: remote status")
	// ErrInvalidResponse is returned when the host answers with something that is not
	// a JSON-RPC response of the expected shape
	ErrInvalidResponse = errors.New("fetch: invalid response")

	utf8BOM = []byte{0xEF, 0xBB, 0xBF}
)

// StatusError reports a status payload the host returned in place of a result,
// e.g. "Invalid user name or password" or "No Data, could not get max id.".
type StatusError struct {
	Method string
	Status string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s: %s: %s", ErrRemoteStatus, e.Method, e.Status)
}

// Unwrap makes errors.Is(err, ErrRemoteStatus) hold
func (e *StatusError) Unwrap() error {
	return ErrRemoteStatus
}

// Credentials identify the account on the questionnaire host.
type Credentials struct {
	URL      string
	Username string
	Password string
	// UID is sent as the JSON-RPC request id
	UID int
}

// Validate reports ErrMissingCredentials when a required field is empty
func (c Credentials) Validate() error {
	var missing []string
	if c.URL == "" {
		missing = append(missing, "url")
	}
	if c.Username == "" {
		missing = append(missing, "username")
	}
	if c.Password == "" {
		missing = append(missing, "password")
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: %v", ErrMissingCredentials, missing)
	}
	return nil
}

// Survey is one export to download: a questionnaire variant in one country.
type Survey struct {
	Variant  model.Variant
	Country  model.Country
	ID       int
	Language string
	// ResponseType is ResponseShort or ResponseLong; empty means ResponseShort
	ResponseType string
}

func (s Survey) String() string {
	return fmt.Sprintf("%s/%s (%d)", s.Variant, s.Country, s.ID)
}

// Client talks to the questionnaire host.
type Client struct {
	creds  Credentials
	http   *http.Client
	logger *slog.Logger
}

// Option configures a Client
type Option func(*Client)

// WithHTTPClient replaces the default HTTP client
func WithHTTPClient(c *http.Client) Option {
	return func(cl *Client) {
		cl.http = c
	}
}

// WithTimeout sets the timeout of the default HTTP client
func WithTimeout(d time.Duration) Option {
	return func(cl *Client) {
		cl.http = &http.Client{Timeout: d}
	}
}

// WithLogger sets the logger; the default is slog.Default()
func WithLogger(logger *slog.Logger) Option {
	return func(cl *Client) {
		cl.logger = logger
	}
}

// New returns a client for the given account. It fails with ErrMissingCredentials
// before any network traffic when the credentials are incomplete.
func New(creds Credentials, opts ...Option) (*Client, error) {
	if err := creds.Validate(); err != nil {
		return nil, err
	}
	c := &Client{
		creds:  creds,
		http:   &http.Client{Timeout: DefaultTimeout},
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// Fetch downloads one survey export to dest, replacing any previous file.
// The session key is released on every path, including failures.
func (c *Client) Fetch(ctx context.Context, s Survey, dest string) error {
	responseType := s.ResponseType
	if responseType == "" {
		responseType = ResponseShort
	}
	if responseType != ResponseShort && responseType != ResponseLong {
		return fmt.Errorf("fetch: %s: unknown response type %q", s, responseType)
	}

	session, err := c.sessionKey(ctx)
	if err != nil {
		return err
	}
	defer c.release(session)

	data, err := c.export(ctx, session, s, responseType)
	if err != nil {
		return err
	}
	if err := surveydash.WriteFileAtomic(dest, data); err != nil {
		return fmt.Errorf("fetch: failed to write %s: %w", dest, err)
	}
	c.logger.Info("fetched survey export", "survey", s.String(), "path", dest, "bytes", len(data))
	return nil
}

// FetchAll downloads every survey in order into dir as <variant>_<country>.csv and
// returns the written paths. It stops at the first failure.
func (c *Client) FetchAll(ctx context.Context, surveys []Survey, dir string) ([]string, error) {
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return nil, fmt.Errorf("fetch: failed to create %s: %w", dir, err)
	}
	paths := make([]string, 0, len(surveys))
	for _, s := range surveys {
		if err := ctx.Err(); err != nil {
			return paths, err
		}
		dest := filepath.Join(dir, surveydash.RawFileName(s.Variant, s.Country))
		if err := c.Fetch(ctx, s, dest); err != nil {
			return paths, err
		}
		paths = append(paths, dest)
	}
	return paths, nil
}

func (c *Client) sessionKey(ctx context.Context) (string, error) {
	result, err := c.call(ctx, methodGetSessionKey, c.creds.Username, c.creds.Password)
	if err != nil {
		return "", err
	}
	return stringResult(methodGetSessionKey, result)
}

func (c *Client) export(ctx context.Context, session string, s Survey, responseType string) ([]byte, error) {
	result, err := c.call(ctx, methodExportResponses,
		session, s.ID, "csv", s.Language, "all", "code", responseType, nil, nil, nil)
	if err != nil {
		return nil, err
	}
	encoded, err := stringResult(methodExportResponses, result)
	if err != nil {
		return nil, err
	}
	data, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrInvalidResponse, methodExportResponses, err)
	}
	return bytes.TrimPrefix(data, utf8BOM), nil
}

// release runs detached from the caller's context so that a cancelled fetch still
// gives its session back.
func (c *Client) release(session string) {
	timeout := c.http.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	if _, err := c.call(ctx, methodReleaseSessionKey, session); err != nil {
		c.logger.Warn("failed to release session key", "error", err)
	}
}

type request struct {
	Method string `json:"method"`
	Params []any  `json:"params"`
	ID     int    `json:"id"`
}

type response struct {
	ID     int             `json:"id"`
	Result json.RawMessage `json:"result"`
	Error  json.RawMessage `json:"error"`
}

func (c *Client) call(ctx context.Context, method string, params ...any) (json.RawMessage, error) {
	body, err := json.Marshal(request{Method: method, Params: params, ID: c.creds.UID})
	if err != nil {
		return nil, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.creds.URL, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	payload, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: %s: HTTP %d", ErrInvalidResponse, method, resp.StatusCode)
	}

	var r response
	if err := json.Unmarshal(payload, &r); err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrInvalidResponse, method, err)
	}
	if len(r.Error) > 0 && string(r.Error) != "null" {
		return nil, &StatusError{Method: method, Status: errorText(r.Error)}
	}
	return r.Result, nil
}

// stringResult unpacks a string result. An object carrying a status is a StatusError.
func stringResult(method string, result json.RawMessage) (string, error) {
	if len(result) == 0 || string(result) == "null" {
		return "", fmt.Errorf("%w: %s: empty result", ErrInvalidResponse, method)
	}
	var s string
	if err := json.Unmarshal(result, &s); err == nil {
		return s, nil
	}
	var status struct {
		Status string `json:"status"`
	}
	if err := json.Unmarshal(result, &status); err == nil && status.Status != "" {
		return "", &StatusError{Method: method, Status: status.Status}
	}
	return "", fmt.Errorf("%w: %s: unexpected result %s", ErrInvalidResponse, method, result)
}

func errorText(raw json.RawMessage) string {
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	return string(raw)
}
