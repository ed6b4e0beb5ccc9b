package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/sony/gobreaker"

	"github.com/mr1hm/go-crop-advisor/internal/models"
)

type RESTConfig struct {
	BaseURL         string
	APIKey          string
	Timeout         time.Duration
	MaxRetries      int
	BreakerFailures int           // consecutive failures before the breaker opens
	BreakerOpen     time.Duration // how long the breaker stays open
}

// StatusError is a non-200 response from the REST gateway.
type StatusError struct {
	Table  string
	Code   int
	Status string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("unexpected status code: %d - status: %s (table %s)", e.Code, e.Status, e.Table)
}

// REST reads the catalog tables through the hosted platform's REST gateway.
type REST struct {
	cfg     RESTConfig
	client  *http.Client
	breaker *gobreaker.CircuitBreaker
}

func NewREST(cfg RESTConfig) *REST {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 15 * time.Second
	}
	if cfg.BreakerFailures <= 0 {
		cfg.BreakerFailures = 5
	}
	return &REST{
		cfg:    cfg,
		client: &http.Client{Timeout: cfg.Timeout},
		breaker: gobreaker.NewCircuitBreaker(gobreaker.Settings{
			Name:    "catalog-rest",
			Timeout: cfg.BreakerOpen,
			ReadyToTrip: func(c gobreaker.Counts) bool {
				return c.ConsecutiveFailures >= uint32(cfg.BreakerFailures)
			},
			// a 4xx is our request's fault, not the gateway's
			IsSuccessful: func(err error) bool {
				var se *StatusError
				return err == nil || (errors.As(err, &se) && se.Code < 500)
			},
			OnStateChange: func(name string, from, to gobreaker.State) {
				slog.Warn("circuit breaker state change", "name", name, "from", from.String(), "to", to.String())
			},
		}),
	}
}

func (*REST) Name() string { return SourceREST }

// BreakerState reports the breaker as 0 closed, 1 half-open, 2 open.
func (r *REST) BreakerState() gobreaker.State {
	return r.breaker.State()
}

func (r *REST) Districts(ctx context.Context) ([]models.District, error) {
	rows, err := getTable[districtRow](ctx, r, "districts", "name.asc")
	return mapRows(rows, districtRow.model), err
}

func (r *REST) Crops(ctx context.Context) ([]models.Crop, error) {
	rows, err := getTable[cropRow](ctx, r, "crops", "name.asc")
	return mapRows(rows, cropRow.model), err
}

func (r *REST) Suitability(ctx context.Context) ([]models.Suitability, error) {
	rows, err := getTable[suitabilityRow](ctx, r, "district_crop_suitability", "suitability_score.desc")
	return mapRows(rows, suitabilityRow.model), err
}

func (r *REST) CultivationSteps(ctx context.Context) ([]models.CultivationStep, error) {
	rows, err := getTable[stepRow](ctx, r, "crop_cultivation_steps", "step_number.asc")
	return mapRows(rows, stepRow.model), err
}

// getTable retries transient failures with exponential backoff. Every
// attempt goes through the circuit breaker; client errors are not retried.
func getTable[R any](ctx context.Context, r *REST, table, order string) ([]R, error) {
	bo := backoff.NewExponentialBackOff()
	bo.InitialInterval = 200 * time.Millisecond
	bo.MaxElapsedTime = r.cfg.Timeout * 2

	var rows []R
	op := func() error {
		out, err := r.breaker.Execute(func() (interface{}, error) {
			return fetchRows[R](ctx, r, table, order)
		})
		if err != nil {
			var se *StatusError
			if errors.As(err, &se) && se.Code < 500 {
				return backoff.Permanent(err)
			}
			if errors.Is(err, gobreaker.ErrOpenState) {
				return backoff.Permanent(err)
			}
			slog.Debug("catalog fetch failed, retrying", "table", table, "error", err)
			return err
		}
		rows = out.([]R)
		return nil
	}

	policy := backoff.WithContext(backoff.WithMaxRetries(bo, uint64(max(r.cfg.MaxRetries, 0))), ctx)
	if err := backoff.Retry(op, policy); err != nil {
		return nil, err
	}
	return rows, nil
}

func fetchRows[R any](ctx context.Context, r *REST, table, order string) ([]R, error) {
	u := strings.TrimRight(r.cfg.BaseURL, "/") + "/rest/v1/" + table + "?" + url.Values{
		"select": {"*"},
		"order":  {order},
	}.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, fmt.Errorf("error creating request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if r.cfg.APIKey != "" {
		req.Header.Set("apikey", r.cfg.APIKey)
		req.Header.Set("Authorization", "Bearer "+r.cfg.APIKey)
	}

	resp, err := r.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("error doing request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, &StatusError{Table: table, Code: resp.StatusCode, Status: resp.Status}
	}

	var rows []R
	if err := json.NewDecoder(resp.Body).Decode(&rows); err != nil {
		return nil, fmt.Errorf("error decoding resp.Body: %w", err)
	}
	return rows, nil
}
