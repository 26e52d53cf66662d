// Package supabase implements the persistence ports against a Supabase
// PostgREST backend — the remote record store the working copy converges
// to. Every call goes through the shared circuit breaker and retry policy;
// a failure here is always surfaced as an error outcome, never a crash.
package supabase

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/sony/gobreaker"
	"go.opentelemetry.io/otel"
	"go.uber.org/zap"

	"github.com/oxidacionz/smartbytes-ledger-go/internal/infra/resilience"
)

var tracer = otel.Tracer("supabase")

// Client wraps HTTP calls to the Supabase PostgREST API.
type Client struct {
	httpClient     *http.Client
	baseURL        string
	apiKey         string
	serviceRoleKey string
	cb             *gobreaker.CircuitBreaker
	cfg            resilience.Config
	logger         *zap.Logger
}

// NewClient creates a Supabase client.
func NewClient(httpClient *http.Client, baseURL, apiKey, serviceRoleKey string, cb *gobreaker.CircuitBreaker, cfg resilience.Config, logger *zap.Logger) *Client {
	return &Client{
		httpClient:     httpClient,
		baseURL:        baseURL,
		apiKey:         apiKey,
		serviceRoleKey: serviceRoleKey,
		cb:             cb,
		cfg:            cfg,
		logger:         logger,
	}
}

func (c *Client) setHeaders(req *http.Request, prefer string) {
	req.Header.Set("apikey", c.apiKey)
	req.Header.Set("Authorization", fmt.Sprintf("Bearer %s", c.serviceRoleKey))
	req.Header.Set("Content-Type", "application/json")
	if prefer != "" {
		req.Header.Set("Prefer", prefer)
	}
}

// do executes one PostgREST request behind the breaker and retry policy.
// body may be nil for GET/DELETE.
func (c *Client) do(ctx context.Context, method, path string, payload any) ([]byte, error) {
	var out []byte
	_, err := c.cb.Execute(func() (any, error) {
		return nil, resilience.RetryWithBackoff(ctx, c.cfg, func() error {
			var body io.Reader
			if payload != nil {
				jsonBody, err := json.Marshal(payload)
				if err != nil {
					return err
				}
				body = bytes.NewReader(jsonBody)
			}

			url := fmt.Sprintf("%s/rest/v1/%s", c.baseURL, path)
			req, err := http.NewRequestWithContext(ctx, method, url, body)
			if err != nil {
				return err
			}

			prefer := "return=representation"
			if method == http.MethodPatch || method == http.MethodDelete {
				prefer = "return=minimal"
			}
			c.setHeaders(req, prefer)

			resp, err := c.httpClient.Do(req)
			if err != nil {
				c.logger.Error("supabase: request failed",
					zap.String("method", method),
					zap.String("path", path),
					zap.Error(err),
				)
				return err
			}
			defer resp.Body.Close()

			respBody, err := io.ReadAll(resp.Body)
			if err != nil {
				return err
			}

			if resp.StatusCode == http.StatusNotFound || resp.StatusCode == http.StatusNoContent {
				out = nil
				return nil
			}
			if resp.StatusCode < 200 || resp.StatusCode >= 300 {
				c.logger.Warn("supabase: non-2xx response",
					zap.String("method", method),
					zap.String("path", path),
					zap.Int("status", resp.StatusCode),
					zap.String("body", string(respBody)),
				)
				return fmt.Errorf("supabase %s %s returned %d: %s", method, path, resp.StatusCode, string(respBody))
			}

			c.logger.Debug("supabase: request OK",
				zap.String("method", method),
				zap.String("path", path),
				zap.Int("status", resp.StatusCode),
			)
			out = respBody
			return nil
		})
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) get(ctx context.Context, path string) ([]byte, error) {
	return c.do(ctx, http.MethodGet, path, nil)
}

func (c *Client) post(ctx context.Context, table string, record any) error {
	_, err := c.do(ctx, http.MethodPost, table, record)
	return err
}

func (c *Client) patch(ctx context.Context, path string, record any) error {
	_, err := c.do(ctx, http.MethodPatch, path, record)
	return err
}

func (c *Client) delete(ctx context.Context, path string) error {
	_, err := c.do(ctx, http.MethodDelete, path, nil)
	return err
}

// rpc invokes a PostgREST stored procedure.
func (c *Client) rpc(ctx context.Context, fn string, args map[string]any) error {
	_, err := c.do(ctx, http.MethodPost, fmt.Sprintf("rpc/%s", fn), args)
	return err
}

// decodeRows unmarshals a PostgREST array response, tolerating empty bodies.
func decodeRows[T any](body []byte) ([]T, error) {
	if len(body) == 0 {
		return []T{}, nil
	}
	var rows []T
	if err := json.Unmarshal(body, &rows); err != nil {
		return nil, fmt.Errorf("decode rows: %w", err)
	}
	return rows, nil
}
