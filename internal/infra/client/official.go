// Package client provides HTTP clients for the two independent live rate
// sources: the official central-bank endpoint and the peer-market average
// endpoint. Both are scraped by a separate backend; these clients only
// fetch the published results. Every call carries a bounded timeout so
// a stalled source can never hang the refresh loop.
package client

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/sony/gobreaker"
	"go.opentelemetry.io/otel"

	"github.com/oxidacionz/smartbytes-ledger-go/internal/domain"
	"github.com/oxidacionz/smartbytes-ledger-go/internal/infra/resilience"
)

var tracer = otel.Tracer("client")

// fetchTimeout bounds a single rate-source call, retries included.
const fetchTimeout = 8 * time.Second

// OfficialClient fetches the official central-bank rates.
type OfficialClient struct {
	httpClient *http.Client
	baseURL    string
	cb         *gobreaker.CircuitBreaker
	cfg        resilience.Config
}

// NewOfficialClient creates a new OfficialClient.
func NewOfficialClient(httpClient *http.Client, baseURL string, cb *gobreaker.CircuitBreaker, cfg resilience.Config) *OfficialClient {
	return &OfficialClient{
		httpClient: httpClient,
		baseURL:    baseURL,
		cb:         cb,
		cfg:        cfg,
	}
}

// officialResponse is the wire shape of the official endpoint.
// A missing or non-positive field means "source unavailable" for that pair.
type officialResponse struct {
	USD       float64 `json:"usd_bcv"`
	EUR       float64 `json:"eur_bcv"`
	Timestamp string  `json:"timestamp"`
}

// FetchOfficial fetches the official USD and EUR rates with retry,
// circuit breaker, tracing, and a bounded timeout.
func (c *OfficialClient) FetchOfficial(ctx context.Context) (*domain.RateSet, error) {
	ctx, span := tracer.Start(ctx, "OfficialClient.FetchOfficial")
	defer span.End()

	ctx, cancel := context.WithTimeout(ctx, fetchTimeout)
	defer cancel()

	var parsed officialResponse

	_, err := c.cb.Execute(func() (any, error) {
		return nil, resilience.RetryWithBackoff(ctx, c.cfg, func() error {
			url := fmt.Sprintf("%s/api/rates", c.baseURL)
			req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
			if err != nil {
				return err
			}

			resp, err := c.httpClient.Do(req)
			if err != nil {
				return err
			}
			defer resp.Body.Close()

			if resp.StatusCode != http.StatusOK {
				return fmt.Errorf("official rate source returned status %d", resp.StatusCode)
			}

			return json.NewDecoder(resp.Body).Decode(&parsed)
		})
	})
	if err != nil {
		return nil, &domain.ErrExternalService{Service: "rates/official", Err: err}
	}

	// Malformed payloads are "source unavailable", not a hard failure.
	if parsed.USD <= 0 && parsed.EUR <= 0 {
		return nil, &domain.ErrExternalService{
			Service: "rates/official",
			Err:     fmt.Errorf("no usable rates in response"),
		}
	}

	updated, err := time.Parse(time.RFC3339, parsed.Timestamp)
	if err != nil {
		updated = time.Now().UTC()
	}

	return &domain.RateSet{
		OfficialUSD: parsed.USD,
		OfficialEUR: parsed.EUR,
		UpdatedAt:   updated,
	}, nil
}
