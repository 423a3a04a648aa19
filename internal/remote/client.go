// Package remote implements the HTTP gateways to the blog-listing service:
// the blog collection resource and the login exchange.
package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/google/uuid"
)

const userAgent = "bloglist-client/1.0"

// maxErrorBody bounds how much of an error response is read.
const maxErrorBody = 64 << 10

// Client carries the transport shared by the gateways.
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     *slog.Logger
}

// NewClient creates a Client for the service rooted at baseURL.
func NewClient(baseURL string, httpClient *http.Client, logger *slog.Logger) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: httpClient,
		logger:     logger,
	}
}

type errorBody struct {
	Error string `json:"error"`
}

// do sends a JSON request. in is encoded as the body when non-nil; out is
// decoded from a successful response when non-nil. An empty credential
// sends no Authorization header.
func (c *Client) do(ctx context.Context, method, path, credential string, in, out any) error {
	var body io.Reader
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		body = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	requestID := uuid.NewString()
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-ID", requestID)
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if credential != "" {
		req.Header.Set("Authorization", credential)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Error("remote request failed",
			slog.String("method", method),
			slog.String("path", path),
			slog.String("request_id", requestID),
			slog.String("error", err.Error()),
		)
		return &Error{Kind: KindUnavailable, Reason: err.Error()}
	}
	defer resp.Body.Close()

	c.logger.Debug("remote request",
		slog.String("method", method),
		slog.String("path", path),
		slog.String("request_id", requestID),
		slog.Int("http_status", resp.StatusCode),
	)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		var eb errorBody
		reason := strings.TrimSpace(string(b))
		if json.Unmarshal(b, &eb) == nil && eb.Error != "" {
			reason = eb.Error
		}
		c.logger.Warn("remote rejected request",
			slog.String("method", method),
			slog.String("path", path),
			slog.String("request_id", requestID),
			slog.Int("http_status", resp.StatusCode),
			slog.String("reason", reason),
		)
		return &Error{Kind: classifyStatus(resp.StatusCode), Status: resp.StatusCode, Reason: reason}
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
