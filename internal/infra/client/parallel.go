package client

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/sony/gobreaker"

	"github.com/oxidacionz/smartbytes-ledger-go/internal/domain"
	"github.com/oxidacionz/smartbytes-ledger-go/internal/infra/resilience"
)

// ParallelClient fetches the peer-market buy/sell averages.
type ParallelClient struct {
	httpClient *http.Client
	baseURL    string
	cb         *gobreaker.CircuitBreaker
	cfg        resilience.Config
}

// NewParallelClient creates a new ParallelClient.
func NewParallelClient(httpClient *http.Client, baseURL string, cb *gobreaker.CircuitBreaker, cfg resilience.Config) *ParallelClient {
	return &ParallelClient{
		httpClient: httpClient,
		baseURL:    baseURL,
		cb:         cb,
		cfg:        cfg,
	}
}

// parallelResponse is the wire shape of the peer-market endpoint.
type parallelResponse struct {
	AvgBuy  float64 `json:"promedio_compra_ves"`
	AvgSell float64 `json:"promedio_venta_ves"`
	Date    string  `json:"fecha"`
}

// FetchParallel fetches the peer-market averages with retry, circuit
// breaker, tracing, and a bounded timeout.
func (c *ParallelClient) FetchParallel(ctx context.Context) (*domain.RateSet, error) {
	ctx, span := tracer.Start(ctx, "ParallelClient.FetchParallel")
	defer span.End()

	ctx, cancel := context.WithTimeout(ctx, fetchTimeout)
	defer cancel()

	var parsed parallelResponse

	_, err := c.cb.Execute(func() (any, error) {
		return nil, resilience.RetryWithBackoff(ctx, c.cfg, func() error {
			url := fmt.Sprintf("%s/api/parallel", c.baseURL)
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
				return fmt.Errorf("parallel rate source returned status %d", resp.StatusCode)
			}

			return json.NewDecoder(resp.Body).Decode(&parsed)
		})
	})
	if err != nil {
		return nil, &domain.ErrExternalService{Service: "rates/parallel", Err: err}
	}

	if parsed.AvgBuy <= 0 && parsed.AvgSell <= 0 {
		return nil, &domain.ErrExternalService{
			Service: "rates/parallel",
			Err:     fmt.Errorf("no usable rates in response"),
		}
	}

	return &domain.RateSet{
		ParallelBuy:  parsed.AvgBuy,
		ParallelSell: parsed.AvgSell,
		UpdatedAt:    time.Now().UTC(),
	}, nil
}
