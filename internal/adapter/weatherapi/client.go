package weatherapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/couchcryptid/weather-outlook-service/internal/domain"
	"github.com/couchcryptid/weather-outlook-service/internal/observability"
)

// Endpoint labels used for metrics and error messages.
const (
	endpointProbability   = "probability"
	endpointConditions    = "conditions"
	endpointSearch        = "search"
	endpointPopular       = "popular"
	endpointByCoordinates = "by_coordinates"
)

// defaultSearchLimit matches the dashboard's location picker.
const defaultSearchLimit = 10

// Client talks to the remote weather-probability API. It implements
// domain.ProbabilitySource and domain.LocationResolver.
type Client struct {
	httpClient *http.Client
	baseURL    string
	metrics    *observability.Metrics
	logger     *slog.Logger
}

// NewClient creates a weather API client rooted at baseURL.
func NewClient(baseURL string, timeout time.Duration, metrics *observability.Metrics, logger *slog.Logger) *Client {
	return &Client{
		httpClient: &http.Client{
			Timeout: timeout,
		},
		baseURL: strings.TrimRight(baseURL, "/"),
		metrics: metrics,
		logger:  logger,
	}
}

// GetProbabilities posts a query and returns the probability analysis.
func (c *Client) GetProbabilities(ctx context.Context, q domain.WeatherQuery) (domain.WeatherResponse, error) {
	body, err := json.Marshal(q)
	if err != nil {
		return domain.WeatherResponse{}, fmt.Errorf("encode query: %w", err)
	}

	var resp domain.WeatherResponse
	if err := c.do(ctx, http.MethodPost, "/api/weather/probability", nil, body, endpointProbability, &resp); err != nil {
		return domain.WeatherResponse{}, err
	}
	return resp, nil
}

// GetConditions returns the catalog of supported conditions and variables.
func (c *Client) GetConditions(ctx context.Context) (domain.ConditionCatalog, error) {
	var catalog domain.ConditionCatalog
	if err := c.do(ctx, http.MethodGet, "/api/weather/conditions", nil, nil, endpointConditions, &catalog); err != nil {
		return domain.ConditionCatalog{}, err
	}
	return catalog, nil
}

// SearchLocations finds locations whose name or country matches query.
// A non-positive limit uses the default of 10.
func (c *Client) SearchLocations(ctx context.Context, query string, limit int) ([]domain.Location, error) {
	if limit <= 0 {
		limit = defaultSearchLimit
	}
	params := url.Values{
		"query": {query},
		"limit": {strconv.Itoa(limit)},
	}

	var resp locationList
	if err := c.do(ctx, http.MethodGet, "/api/locations/search", params, nil, endpointSearch, &resp); err != nil {
		return nil, err
	}
	if len(resp.Locations) > limit {
		resp.Locations = resp.Locations[:limit]
	}
	return resp.Locations, nil
}

// PopularLocations returns the predefined popular locations.
func (c *Client) PopularLocations(ctx context.Context) ([]domain.Location, error) {
	var resp locationList
	if err := c.do(ctx, http.MethodGet, "/api/locations/popular", nil, nil, endpointPopular, &resp); err != nil {
		return nil, err
	}
	return resp.Locations, nil
}

// LocationByCoordinates returns the nearest known location to lat/lon, or a
// zero Location when none is within the upstream search radius.
func (c *Client) LocationByCoordinates(ctx context.Context, lat, lon float64) (domain.Location, error) {
	params := url.Values{
		"latitude":  {strconv.FormatFloat(lat, 'f', 6, 64)},
		"longitude": {strconv.FormatFloat(lon, 'f', 6, 64)},
	}

	var resp locationList
	if err := c.do(ctx, http.MethodGet, "/api/locations/by-coordinates", params, nil, endpointByCoordinates, &resp); err != nil {
		return domain.Location{}, err
	}
	// Upstream sorts by distance.
	if len(resp.Locations) == 0 {
		return domain.Location{}, nil
	}
	return resp.Locations[0], nil
}

func (c *Client) do(ctx context.Context, method, path string, params url.Values, body []byte, endpoint string, out any) error {
	u := c.baseURL + path
	if len(params) > 0 {
		u += "?" + params.Encode()
	}

	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, u, reader)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	c.metrics.WeatherAPIDuration.WithLabelValues(endpoint).Observe(time.Since(start).Seconds())
	if err != nil {
		c.metrics.WeatherAPIRequests.WithLabelValues(endpoint, "error").Inc()
		if isTimeout(err) {
			return &APIError{Endpoint: endpoint, Timeout: true, Detail: err.Error()}
		}
		return fmt.Errorf("%s request: %w", endpoint, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		c.metrics.WeatherAPIRequests.WithLabelValues(endpoint, "error").Inc()
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
		apiErr := &APIError{Endpoint: endpoint, Status: resp.StatusCode, Detail: parseDetail(raw)}
		c.logger.Warn("weather api error",
			"endpoint", endpoint,
			"status", resp.StatusCode,
			"detail", apiErr.Detail,
		)
		return apiErr
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		c.metrics.WeatherAPIRequests.WithLabelValues(endpoint, "error").Inc()
		return fmt.Errorf("decode %s response: %w", endpoint, err)
	}

	c.metrics.WeatherAPIRequests.WithLabelValues(endpoint, "success").Inc()
	c.logger.Debug("weather api request", "endpoint", endpoint, "duration", time.Since(start))
	return nil
}

// Upstream API response envelopes.

type locationList struct {
	Locations []domain.Location `json:"locations"`
	Total     int               `json:"total"`
}
