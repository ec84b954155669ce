package weatherapi

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/couchcryptid/weather-outlook-service/internal/domain"
	"github.com/couchcryptid/weather-outlook-service/internal/observability"
)

const (
	contentTypeJSON   = "application/json"
	headerContentType = "Content-Type"
)

func testClient(baseURL string) *Client {
	return &Client{
		httpClient: &http.Client{Timeout: 5 * time.Second},
		baseURL:    baseURL,
		metrics:    observability.NewMetricsForTesting(),
		logger:     slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
}

func writeJSON(t *testing.T, w http.ResponseWriter, v any) {
	t.Helper()
	w.Header().Set(headerContentType, contentTypeJSON)
	require.NoError(t, json.NewEncoder(w).Encode(v))
}

func TestClient_GetProbabilities_Success(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/weather/probability", r.URL.Path)
		assert.Equal(t, contentTypeJSON, r.Header.Get(headerContentType))

		var q domain.WeatherQuery
		require.NoError(t, json.NewDecoder(r.Body).Decode(&q))
		assert.Equal(t, 40.4168, q.Latitude)
		assert.Equal(t, "04-26", q.DateOfYear)
		assert.Equal(t, []string{domain.ConditionVeryHot}, q.SelectedConditions)

		writeJSON(t, w, domain.WeatherResponse{
			Location:          "40.4168, -3.7038",
			CurrentConditions: domain.Conditions{Temperature: 22.5},
			Probabilities:     []domain.Probability{{Condition: domain.ConditionVeryHot, Probability: 0.3}},
			SampleSize:        30,
			DataSource:        "NASA POWER",
		})
	}))
	defer srv.Close()

	c := testClient(srv.URL)
	resp, err := c.GetProbabilities(context.Background(), domain.WeatherQuery{
		Latitude:           40.4168,
		Longitude:          -3.7038,
		DateOfYear:         "04-26",
		SelectedConditions: []string{domain.ConditionVeryHot},
	})
	require.NoError(t, err)

	assert.Equal(t, 22.5, resp.CurrentConditions.Temperature)
	assert.Equal(t, 30, resp.SampleSize)
	require.Len(t, resp.Probabilities, 1)
	assert.True(t, resp.Probabilities[0].Enabled())
}

func TestClient_GetConditions(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/weather/conditions", r.URL.Path)
		_, _ = w.Write([]byte(`{
			"conditions": [{"id": "very_hot", "name": "Muy Caliente", "description": "Temperaturas extremadamente altas"}],
			"variables": [{"id": "temperature", "name": "Temperatura", "unit": "°C"}]
		}`))
	}))
	defer srv.Close()

	catalog, err := testClient(srv.URL).GetConditions(context.Background())
	require.NoError(t, err)

	require.Len(t, catalog.Conditions, 1)
	assert.Equal(t, "very_hot", catalog.Conditions[0].ID)
	require.Len(t, catalog.Variables, 1)
	assert.Equal(t, "°C", catalog.Variables[0].Unit)
}

func TestClient_SearchLocations(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/locations/search", r.URL.Path)
		assert.Equal(t, "esp", r.URL.Query().Get("query"))
		assert.Equal(t, "2", r.URL.Query().Get("limit"))
		writeJSON(t, w, locationList{
			Locations: []domain.Location{
				{ID: 2, Name: "Madrid", Country: "España"},
				{ID: 3, Name: "Barcelona", Country: "España"},
				{ID: 4, Name: "Sevilla", Country: "España"},
			},
			Total: 3,
		})
	}))
	defer srv.Close()

	locs, err := testClient(srv.URL).SearchLocations(context.Background(), "esp", 2)
	require.NoError(t, err)
	require.Len(t, locs, 2)
	assert.Equal(t, "Madrid", locs[0].Name)
}

func TestClient_SearchLocations_DefaultLimit(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "10", r.URL.Query().Get("limit"))
		writeJSON(t, w, locationList{})
	}))
	defer srv.Close()

	locs, err := testClient(srv.URL).SearchLocations(context.Background(), "x", 0)
	require.NoError(t, err)
	assert.Empty(t, locs)
}

func TestClient_PopularLocations(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/locations/popular", r.URL.Path)
		writeJSON(t, w, locationList{
			Locations: []domain.Location{{ID: 1, Name: "Ciudad de México", Timezone: "America/Mexico_City"}},
			Total:     1,
		})
	}))
	defer srv.Close()

	locs, err := testClient(srv.URL).PopularLocations(context.Background())
	require.NoError(t, err)
	require.Len(t, locs, 1)
	assert.Equal(t, "America/Mexico_City", locs[0].Timezone)
}

func TestClient_LocationByCoordinates(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/locations/by-coordinates", r.URL.Path)
		assert.Equal(t, "40.416800", r.URL.Query().Get("latitude"))
		assert.Equal(t, "-3.703800", r.URL.Query().Get("longitude"))
		writeJSON(t, w, locationList{
			Locations: []domain.Location{
				{Name: "Madrid", Country: "España", DistanceKm: 0.12},
				{Name: "Toledo", Country: "España", DistanceKm: 48.3},
			},
		})
	}))
	defer srv.Close()

	loc, err := testClient(srv.URL).LocationByCoordinates(context.Background(), 40.4168, -3.7038)
	require.NoError(t, err)
	assert.Equal(t, "Madrid", loc.Name)
	assert.Equal(t, 0.12, loc.DistanceKm)
}

func TestClient_LocationByCoordinates_NoneNearby(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(t, w, locationList{Locations: []domain.Location{}})
	}))
	defer srv.Close()

	loc, err := testClient(srv.URL).LocationByCoordinates(context.Background(), 0, 0)
	require.NoError(t, err)
	assert.Equal(t, domain.Location{}, loc)
}

func TestClient_APIErrors(t *testing.T) {
	tests := []struct {
		name      string
		status    int
		body      string
		contains  string
		retryable bool
	}{
		{"detail string", http.StatusBadRequest, `{"detail":"Invalid date format"}`, "Invalid date format", false},
		{"validation list", http.StatusUnprocessableEntity, `{"detail":[{"loc":["body","latitude"],"msg":"field required"}]}`, "field required", false},
		{"plain body", http.StatusNotFound, `not here`, "not here", false},
		{"gateway timeout", http.StatusGatewayTimeout, ``, "still processing", true},
		{"server error", http.StatusInternalServerError, `{"detail":"boom"}`, "internal server error", true},
		{"rate limited", http.StatusTooManyRequests, ``, "status 429", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			_, err := testClient(srv.URL).GetProbabilities(context.Background(), domain.WeatherQuery{})
			require.Error(t, err)

			var apiErr *APIError
			require.True(t, errors.As(err, &apiErr))
			assert.Equal(t, tt.status, apiErr.Status)
			assert.Contains(t, err.Error(), tt.contains)
			assert.Equal(t, tt.retryable, IsRetryable(err))
		})
	}
}

func TestClient_Timeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		time.Sleep(200 * time.Millisecond)
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	c := testClient(srv.URL)
	c.httpClient.Timeout = 50 * time.Millisecond

	_, err := c.GetProbabilities(context.Background(), domain.WeatherQuery{})
	require.Error(t, err)

	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.True(t, apiErr.Timeout)
	assert.True(t, IsRetryable(err))
	assert.Contains(t, err.Error(), "longer than expected")
}

func TestClient_MalformedResponse(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"location":`))
	}))
	defer srv.Close()

	_, err := testClient(srv.URL).GetProbabilities(context.Background(), domain.WeatherQuery{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "decode probability response")
	assert.False(t, IsRetryable(err))
}

func TestNewClient_TrimsTrailingSlash(t *testing.T) {
	c := NewClient("http://localhost:8000/", time.Second, observability.NewMetricsForTesting(), slog.Default())
	assert.Equal(t, "http://localhost:8000", c.baseURL)
	assert.Equal(t, time.Second, c.httpClient.Timeout)
}
