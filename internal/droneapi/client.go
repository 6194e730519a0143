package droneapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jawji/dronedeck/internal/drone"
)

// Controller is the remote drone controller as seen by the synchronizer.
// It is implemented by *Client and can be faked in tests.
type Controller interface {
	FetchState(ctx context.Context, base drone.State) (drone.Partial, error)
	FetchTelemetry(ctx context.Context) (*Reading, error)
	SendJoystick(ctx context.Context, input drone.JoystickInput) error
	SendCommand(ctx context.Context, cmd drone.Command) (CommandAck, error)
}

// Ensure Client implements Controller at compile time.
var _ Controller = (*Client)(nil)

// Client talks to the drone controller HTTP API.
type Client struct {
	baseURL   *url.URL
	http      *http.Client
	userAgent string
}

const (
	defaultUserAgent      = "dronedeck/0.1"
	defaultRequestTimeout = 5 * time.Second

	// CommandIDHeader carries the client-generated id of a dispatched command.
	CommandIDHeader = "X-Command-ID"
)

// NewClient builds a Client for endpoint, e.g. http://127.0.0.1:8000/api/drone.
// A zero timeout uses the default of five seconds.
func NewClient(endpoint string, timeout time.Duration) (*Client, error) {
	base, err := parseBaseURL(endpoint)
	if err != nil {
		return nil, err
	}
	if timeout <= 0 {
		timeout = defaultRequestTimeout
	}
	return &Client{
		baseURL: base,
		http: &http.Client{
			Timeout: timeout,
		},
		userAgent: defaultUserAgent,
	}, nil
}

// Endpoint returns the normalized base URL.
func (c *Client) Endpoint() string {
	return c.baseURL.String()
}

// FetchState retrieves the controller's view of the drone from /state.
// Every sub-record in the payload is decoded on top of the matching
// sub-record of base, so fields the controller omits keep base's values.
// Sub-records absent from the payload stay nil in the returned partial.
func (c *Client) FetchState(ctx context.Context, base drone.State) (drone.Partial, error) {
	if c == nil {
		return drone.Partial{}, fmt.Errorf("client is nil")
	}
	var raw map[string]json.RawMessage
	if err := c.do(ctx, http.MethodGet, "state", nil, &raw, nil); err != nil {
		return drone.Partial{}, readError(err)
	}
	if raw == nil {
		return drone.Partial{}, fmt.Errorf("%w: state payload is not an object", ErrMalformedResponse)
	}
	return decodePartial(raw, base.Clone())
}

// FetchTelemetry retrieves the flat telemetry payload from /telemetry. It
// returns a nil reading on any failure, never a partially populated one.
func (c *Client) FetchTelemetry(ctx context.Context) (*Reading, error) {
	if c == nil {
		return nil, fmt.Errorf("client is nil")
	}
	var reading Reading
	if err := c.do(ctx, http.MethodGet, "telemetry", nil, &reading, nil); err != nil {
		return nil, readError(err)
	}
	if err := reading.validate(); err != nil {
		return nil, err
	}
	return &reading, nil
}

// SendJoystick posts a stick sample to /joystick. Axes are clamped first.
func (c *Client) SendJoystick(ctx context.Context, input drone.JoystickInput) error {
	if c == nil {
		return fmt.Errorf("client is nil")
	}
	if err := c.do(ctx, http.MethodPost, "joystick", input.Clamped(), nil, nil); err != nil {
		return fmt.Errorf("%w: %w", ErrJoystickSendFailed, err)
	}
	return nil
}

// CommandAck is the controller's answer to an accepted command.
type CommandAck struct {
	ID      string `json:"id"`
	Command string `json:"command"`
	Status  string `json:"status"`
}

// SendCommand posts cmd to /command. Any failure is a *CommandError that
// matches ErrCommandFailed.
func (c *Client) SendCommand(ctx context.Context, cmd drone.Command) (CommandAck, error) {
	if c == nil {
		return CommandAck{}, fmt.Errorf("client is nil")
	}
	id := uuid.NewString()
	header := http.Header{}
	header.Set(CommandIDHeader, id)

	var ack CommandAck
	if err := c.do(ctx, http.MethodPost, "command", cmd, &ack, header); err != nil {
		return CommandAck{}, &CommandError{Command: cmd.Name, ID: id, Err: err}
	}
	if ack.ID == "" {
		ack.ID = id
	}
	if ack.Command == "" {
		ack.Command = cmd.Name
	}
	return ack, nil
}

func readError(err error) error {
	if errors.Is(err, ErrMalformedResponse) {
		return err
	}
	return fmt.Errorf("%w: %w", ErrFetchFailed, err)
}

func (c *Client) do(ctx context.Context, method, path string, payload, dest any, header http.Header) error {
	reqURL := c.baseURL.JoinPath(path)

	var body io.Reader
	if payload != nil {
		buf, err := json.Marshal(payload)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		body = bytes.NewReader(buf)
	}

	req, err := http.NewRequestWithContext(ctx, method, reqURL.String(), body)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for key, values := range header {
		for _, v := range values {
			req.Header.Add(key, v)
		}
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%w: execute request: %w", ErrUnavailable, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 64*1024))
		return &StatusError{Path: reqURL.Path, StatusCode: resp.StatusCode}
	}
	if dest == nil {
		return nil
	}
	decoder := json.NewDecoder(resp.Body)
	if err := decoder.Decode(dest); err != nil {
		if errors.Is(err, io.EOF) && method != http.MethodGet {
			// Write endpoints may answer with an empty body.
			return nil
		}
		return fmt.Errorf("%w: decode response: %w", ErrMalformedResponse, err)
	}
	return nil
}

func parseBaseURL(endpoint string) (*url.URL, error) {
	trimmed := strings.TrimSpace(endpoint)
	if trimmed == "" {
		return nil, fmt.Errorf("endpoint is empty")
	}
	if !strings.Contains(trimmed, "://") {
		trimmed = "http://" + trimmed
	}
	u, err := url.Parse(trimmed)
	if err != nil {
		return nil, fmt.Errorf("parse endpoint %q: %w", endpoint, err)
	}
	if u.Host == "" {
		return nil, fmt.Errorf("parse endpoint %q: missing host", endpoint)
	}
	u.Path = strings.TrimRight(u.Path, "/")
	u.RawPath = ""
	u.RawQuery = ""
	u.Fragment = ""
	return u, nil
}
