// Package command provides the HTTP client for the office assistant
// command endpoint.
//
// The backend accepts free text plus a language tag and answers with a
// structured reply: text to speak aloud, an optional section to navigate
// to, and an optional flag asking the user to confirm before the action
// is executed.
//
// Example usage:
//
//	client, _ := command.NewClient(
//	    command.WithBaseURL("http://localhost:5000"),
//	)
//
//	reply, err := client.Send(ctx, "overdue invoices", "en-US")
//	// reply.Speak contains the assistant's answer
package command

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/officevoice/go-officevoice/internal/httpc"
)

// Reply is the structured response from the command endpoint.
// Immutable once received.
type Reply struct {
	// Speak is the text the assistant should say aloud.
	// Always present on success, may be empty.
	Speak string `json:"speak"`

	// RedirectURL is an optional navigation target.
	RedirectURL string `json:"redirect_url,omitempty"`

	// NeedsConfirm asks the caller to confirm before the command
	// is executed for real.
	NeedsConfirm bool `json:"needs_confirm,omitempty"`
}

// Status is the response from the assistant status endpoint.
type Status struct {
	// InterpreterEnabled reports whether server-side command
	// interpretation is configured.
	InterpreterEnabled bool `json:"openai_enabled"`
}

// Commander is the interface the conversational controller depends on.
// *Client is the production implementation; Mock serves tests.
type Commander interface {
	// Send submits a command and returns the structured reply.
	// Empty text is valid and acts as a "greet me" signal.
	Send(ctx context.Context, text, lang string) (*Reply, error)
}

// Client talks to the assistant command endpoint over HTTP.
type Client struct {
	config *Config
	http   *http.Client
	logger *slog.Logger
}

// NewClient creates a new command client.
func NewClient(opts ...Option) (*Client, error) {
	cfg := DefaultConfig()
	cfg.Apply(opts...)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = httpc.NewClient(cfg.Timeout)
	}

	return &Client{
		config: cfg,
		http:   httpClient,
		logger: cfg.Logger.With("component", "command.client"),
	}, nil
}

// commandRequest is the JSON body for the command endpoint.
type commandRequest struct {
	Text string `json:"text"`
	Lang string `json:"lang"`
}

// Send submits one command and returns the reply.
// Non-2xx responses and transport failures return an error wrapping
// ErrCommandFailed; callers must treat that as "could not process".
func (c *Client) Send(ctx context.Context, text, lang string) (*Reply, error) {
	start := time.Now()

	body, err := json.Marshal(commandRequest{Text: text, Lang: lang})
	if err != nil {
		return nil, fmt.Errorf("command: marshal request: %w", err)
	}

	url := c.config.BaseURL + c.config.CommandPath
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("command: create request: %w", err)
	}
	c.setHeaders(req)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCommandFailed, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, c.parseError(resp)
	}

	var reply Reply
	if err := json.NewDecoder(resp.Body).Decode(&reply); err != nil {
		return nil, fmt.Errorf("%w: decode reply: %v", ErrCommandFailed, err)
	}

	c.logger.Debug("command processed",
		"chars", len(text),
		"lang", lang,
		"redirect", reply.RedirectURL != "",
		"needs_confirm", reply.NeedsConfirm,
		"latency_ms", time.Since(start).Milliseconds(),
	)

	return &reply, nil
}

// Probe checks the assistant status endpoint.
// Used once at startup to decide whether to enable the voice trigger.
func (c *Client) Probe(ctx context.Context) (*Status, error) {
	url := c.config.BaseURL + c.config.StatusPath
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("command: create request: %w", err)
	}
	c.setHeaders(req)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCommandFailed, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, c.parseError(resp)
	}

	var status Status
	if err := json.NewDecoder(resp.Body).Decode(&status); err != nil {
		return nil, fmt.Errorf("%w: decode status: %v", ErrCommandFailed, err)
	}
	return &status, nil
}

// setHeaders sets common request headers.
func (c *Client) setHeaders(req *http.Request) {
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	if c.config.AuthToken != "" {
		req.Header.Set("Authorization", "Bearer "+c.config.AuthToken)
	}
}

// parseError converts a non-success response into an *APIError.
func (c *Client) parseError(resp *http.Response) error {
	data, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
	msg := strings.TrimSpace(string(data))

	// The backend sometimes wraps errors as {"speak": "..."}.
	var wrapped struct {
		Speak string `json:"speak"`
		Error string `json:"error"`
	}
	if err := json.Unmarshal(data, &wrapped); err == nil {
		if wrapped.Error != "" {
			msg = wrapped.Error
		} else if wrapped.Speak != "" {
			msg = wrapped.Speak
		}
	}

	return &APIError{
		StatusCode: resp.StatusCode,
		Message:    msg,
	}
}

// Verify Client implements Commander at compile time.
var _ Commander = (*Client)(nil)
