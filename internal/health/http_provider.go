package health

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/tidwall/gjson"
	"golang.org/x/time/rate"
)

const (
	quantityActiveEnergyBurned = "active_energy_burned"
	quantityStepCount          = "step_count"

	defaultValuePath = "sum"
	maxResponseBytes = 1 << 20
)

type HTTPProviderOptions struct {
	BaseURL           string
	Token             string
	EnergyPath        string
	StepsPath         string
	Timeout           time.Duration
	RequestsPerSecond float64
	Client            *http.Client
}

// HTTPProvider queries a JSON statistics bridge:
//
//	GET {base}/statistics?type=<quantity>&start=<RFC3339>&end=<RFC3339>
//
// and extracts the cumulative sum from the response with a gjson path.
type HTTPProvider struct {
	baseURL    string
	token      string
	energyPath string
	stepsPath  string
	timeout    time.Duration
	client     *http.Client
	limiter    *rate.Limiter
}

func NewHTTPProvider(options HTTPProviderOptions) (*HTTPProvider, error) {
	baseURL := strings.TrimRight(strings.TrimSpace(options.BaseURL), "/")
	if baseURL == "" {
		return nil, errors.New("health base url is required")
	}
	if _, err := url.ParseRequestURI(baseURL); err != nil {
		return nil, fmt.Errorf("invalid health base url: %w", err)
	}

	timeout := options.Timeout
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	rps := options.RequestsPerSecond
	if rps <= 0 {
		rps = 2
	}
	client := options.Client
	if client == nil {
		client = &http.Client{}
	}

	return &HTTPProvider{
		baseURL:    baseURL,
		token:      strings.TrimSpace(options.Token),
		energyPath: valuePathOrDefault(options.EnergyPath),
		stepsPath:  valuePathOrDefault(options.StepsPath),
		timeout:    timeout,
		client:     client,
		limiter:    rate.NewLimiter(rate.Limit(rps), 2),
	}, nil
}

func (p *HTTPProvider) FetchEnergyBurned(ctx context.Context, start time.Time, end time.Time) (float64, error) {
	return p.fetchSum(ctx, quantityActiveEnergyBurned, p.energyPath, start, end)
}

func (p *HTTPProvider) FetchStepCount(ctx context.Context, start time.Time, end time.Time) (float64, error) {
	return p.fetchSum(ctx, quantityStepCount, p.stepsPath, start, end)
}

func (p *HTTPProvider) fetchSum(ctx context.Context, quantity string, valuePath string, start time.Time, end time.Time) (float64, error) {
	if end.Before(start) {
		return 0, fmt.Errorf("fetch %s: end before start", quantity)
	}
	if err := p.limiter.Wait(ctx); err != nil {
		return 0, fmt.Errorf("fetch %s: %w", quantity, err)
	}

	requestCtx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	query := url.Values{}
	query.Set("type", quantity)
	query.Set("start", start.UTC().Format(time.RFC3339))
	query.Set("end", end.UTC().Format(time.RFC3339))

	request, err := http.NewRequestWithContext(requestCtx, http.MethodGet, p.baseURL+"/statistics?"+query.Encode(), nil)
	if err != nil {
		return 0, fmt.Errorf("build %s request: %w", quantity, err)
	}
	request.Header.Set("Accept", "application/json")
	if p.token != "" {
		request.Header.Set("Authorization", "Bearer "+p.token)
	}

	response, err := p.client.Do(request)
	if err != nil {
		return 0, fmt.Errorf("fetch %s: %w", quantity, err)
	}
	defer response.Body.Close()

	if response.StatusCode == http.StatusNotFound || response.StatusCode == http.StatusNoContent {
		return 0, ErrNoData
	}
	if response.StatusCode != http.StatusOK {
		return 0, fmt.Errorf("fetch %s: unexpected status %d", quantity, response.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(response.Body, maxResponseBytes))
	if err != nil {
		return 0, fmt.Errorf("read %s response: %w", quantity, err)
	}
	if !gjson.ValidBytes(body) {
		return 0, fmt.Errorf("fetch %s: invalid json response", quantity)
	}

	value := gjson.GetBytes(body, valuePath)
	if !value.Exists() || value.Type == gjson.Null {
		return 0, ErrNoData
	}
	if value.Type != gjson.Number {
		return 0, fmt.Errorf("fetch %s: value at %q is not a number", quantity, valuePath)
	}
	return value.Float(), nil
}

func valuePathOrDefault(path string) string {
	trimmed := strings.TrimSpace(path)
	if trimmed == "" {
		return defaultValuePath
	}
	return trimmed
}
