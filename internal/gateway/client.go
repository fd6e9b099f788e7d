// Package gateway is the client's only path to the remote knowledge-base
// server. Every GraphQL operation returns either a typed payload or a
// typed failure: transport problems surface as *RequestError, a
// populated errors array as *GraphQLError, regardless of HTTP status.
package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"go.uber.org/zap"
)

// TokenSource supplies the bearer token attached to every request. An
// empty token sends no Authorization header.
type TokenSource func() string

type Client struct {
	endpoint string
	http     *http.Client
	token    TokenSource
	log      *zap.Logger
}

func NewClient(endpoint string, token TokenSource, log *zap.Logger) *Client {
	if token == nil {
		token = func() string { return "" }
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Client{
		endpoint: endpoint,
		http:     &http.Client{Timeout: 30 * time.Second},
		token:    token,
		log:      log,
	}
}

// SetEndpoint redirects subsequent requests, used by the --server flag.
func (c *Client) SetEndpoint(endpoint string) {
	c.endpoint = endpoint
}

// RequestError is the transport failure class: the request never
// produced a decodable GraphQL response.
type RequestError struct {
	StatusCode int
	Err        error
}

func (e *RequestError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("gateway request failed: %v", e.Err)
	}
	return fmt.Sprintf("gateway request failed: status code %d", e.StatusCode)
}

func (e *RequestError) Unwrap() error { return e.Err }

// GraphQLError is the server failure class: the response carried a
// populated error list, possibly alongside partial data.
type GraphQLError struct {
	Errors []ErrorEntry
}

type ErrorEntry struct {
	Message string `json:"message"`
}

func (e *GraphQLError) Error() string {
	if len(e.Errors) == 0 {
		return "graphql error"
	}
	return fmt.Sprintf("graphql error: %s", e.Errors[0].Message)
}

type request struct {
	Query     string         `json:"query"`
	Variables map[string]any `json:"variables,omitempty"`
}

type response struct {
	Data   json.RawMessage `json:"data"`
	Errors []ErrorEntry    `json:"errors"`
}

func (c *Client) do(ctx context.Context, query string, vars map[string]any, out any) error {
	body, err := json.Marshal(request{Query: query, Variables: vars})
	if err != nil {
		return &RequestError{Err: fmt.Errorf("failed to encode request: %w", err)}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewBuffer(body))
	if err != nil {
		return &RequestError{Err: err}
	}

	req.Header.Set("Content-Type", "application/json")
	if token := c.token(); token != "" {
		req.Header.Set("Authorization", fmt.Sprintf("Bearer %s", token))
	}

	resp, err := c.http.Do(req)
	if err != nil {
		c.log.Warn("graphql request failed", zap.Error(err))
		return &RequestError{Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		io.Copy(io.Discard, resp.Body)
		c.log.Warn("graphql request rejected", zap.Int("status", resp.StatusCode))
		return &RequestError{StatusCode: resp.StatusCode}
	}

	var parsed response
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return &RequestError{Err: fmt.Errorf("failed to decode response: %w", err)}
	}

	if len(parsed.Errors) > 0 {
		c.log.Warn("graphql response carried errors",
			zap.String("message", parsed.Errors[0].Message),
		)
		return &GraphQLError{Errors: parsed.Errors}
	}

	if out != nil {
		if err := json.Unmarshal(parsed.Data, out); err != nil {
			return &RequestError{Err: fmt.Errorf("failed to decode data: %w", err)}
		}
	}

	return nil
}
