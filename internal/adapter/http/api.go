package http

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/couchcryptid/weather-outlook-service/internal/domain"
	"github.com/couchcryptid/weather-outlook-service/internal/observability"
	"github.com/couchcryptid/weather-outlook-service/internal/preferences"
)

// maxBodyBytes caps request bodies; a 50-year daily series fits comfortably.
const maxBodyBytes = 1 << 20

// Analyzer produces an outlook report for a validated query.
type Analyzer interface {
	Analyze(ctx context.Context, q domain.WeatherQuery) (domain.OutlookReport, error)
}

// Catalog lists the conditions and locations known to the weather backend.
type Catalog interface {
	GetConditions(ctx context.Context) (domain.ConditionCatalog, error)
	SearchLocations(ctx context.Context, query string, limit int) ([]domain.Location, error)
	PopularLocations(ctx context.Context) ([]domain.Location, error)
}

// API serves the JSON endpoints under /api/v1.
type API struct {
	analyzer Analyzer
	catalog  Catalog
	prefs    preferences.Store
	metrics  *observability.Metrics
	logger   *slog.Logger
}

// NewAPI wires the JSON API. A nil catalog disables the catalog routes.
func NewAPI(analyzer Analyzer, catalog Catalog, prefs preferences.Store, metrics *observability.Metrics, logger *slog.Logger) *API {
	return &API{
		analyzer: analyzer,
		catalog:  catalog,
		prefs:    prefs,
		metrics:  metrics,
		logger:   logger,
	}
}

func (a *API) register(mux *http.ServeMux) {
	a.handle(mux, "POST /api/v1/stats", a.handleStats)
	a.handle(mux, "POST /api/v1/outliers", a.handleOutliers)
	a.handle(mux, "POST /api/v1/classify", a.handleClassify)
	a.handle(mux, "POST /api/v1/outlook", a.handleOutlook)
	a.handle(mux, "POST /api/v1/outlook/export", a.handleExport)
	a.handle(mux, "GET /api/v1/preferences", a.handleGetPreferences)
	a.handle(mux, "PUT /api/v1/preferences", a.handlePutPreferences)

	if a.catalog != nil {
		a.handle(mux, "GET /api/v1/conditions", a.handleConditions)
		a.handle(mux, "GET /api/v1/locations/search", a.handleSearchLocations)
		a.handle(mux, "GET /api/v1/locations/popular", a.handlePopularLocations)
	}
}

// handle registers h and counts its responses by route and status.
func (a *API) handle(mux *http.ServeMux, pattern string, h http.HandlerFunc) {
	mux.HandleFunc(pattern, func(w http.ResponseWriter, r *http.Request) {
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		h(rec, r)
		a.metrics.HTTPRequests.WithLabelValues(pattern, strconv.Itoa(rec.status)).Inc()
	})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

// --- statistics ---

type seriesRequest struct {
	Values []float64 `json:"values"`
}

type statsResponse struct {
	Stats *domain.StatsSummary `json:"stats"`
	Trend domain.Trend         `json:"trend"`
	Slope float64              `json:"slope"`
}

func (a *API) handleStats(w http.ResponseWriter, r *http.Request) {
	var req seriesRequest
	if !a.decode(w, r, &req) {
		return
	}

	resp := statsResponse{
		Trend: domain.TrendOf(req.Values),
		Slope: domain.Slope(req.Values),
	}
	if summary, ok := domain.CalculateStats(req.Values); ok {
		resp.Stats = &summary
	}
	writeJSON(w, http.StatusOK, resp)
}

type outliersResponse struct {
	Points []domain.OutlierPoint `json:"points"`
	Lower  *float64              `json:"lower,omitempty"`
	Upper  *float64              `json:"upper,omitempty"`
}

func (a *API) handleOutliers(w http.ResponseWriter, r *http.Request) {
	var req seriesRequest
	if !a.decode(w, r, &req) {
		return
	}

	resp := outliersResponse{Points: domain.DetectOutliers(req.Values)}
	if lower, upper, ok := domain.OutlierBounds(req.Values); ok {
		resp.Lower, resp.Upper = &lower, &upper
	}
	writeJSON(w, http.StatusOK, resp)
}

// --- classification ---

type classifyRequest struct {
	Metric      string                 `json:"metric"`
	Value       *float64               `json:"value"`
	Probability *float64               `json:"probability,omitempty"`
	Thresholds  domain.ThresholdConfig `json:"thresholds"`
}

type classifyResponse struct {
	Label *domain.ConditionLabel `json:"label,omitempty"`
	Risk  *domain.RiskLevel      `json:"risk,omitempty"`
}

func (a *API) handleClassify(w http.ResponseWriter, r *http.Request) {
	var req classifyRequest
	if !a.decode(w, r, &req) {
		return
	}
	if req.Value == nil && req.Probability == nil {
		writeError(w, http.StatusBadRequest, errors.New("value or probability is required"))
		return
	}

	var resp classifyResponse
	if req.Value != nil {
		label := domain.Classify(domain.MetricType(req.Metric), *req.Value, req.Thresholds)
		resp.Label = &label
	}
	if req.Probability != nil {
		risk := domain.ClassifyRisk(*req.Probability)
		resp.Risk = &risk
	}
	writeJSON(w, http.StatusOK, resp)
}

// --- outlook ---

func (a *API) handleOutlook(w http.ResponseWriter, r *http.Request) {
	report, _, ok := a.analyze(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, report)
}

func (a *API) handleExport(w http.ResponseWriter, r *http.Request) {
	format, err := domain.ParseExportFormat(r.URL.Query().Get("format"))
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	report, prefs, ok := a.analyze(w, r)
	if !ok {
		return
	}

	export, err := domain.ExportReport(report, format, prefs)
	if err != nil {
		a.logger.Error("export failed", "report_id", report.ID, "format", format, "error", err)
		writeError(w, http.StatusInternalServerError, errors.New("export failed"))
		return
	}

	w.Header().Set("Content-Type", export.ContentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", export.Filename))
	w.WriteHeader(http.StatusOK)
	w.Write(export.Data) //nolint:errcheck // client may have gone away
}

// analyze decodes a query, fills it from the stored preferences and runs it.
// It writes the error response itself and reports whether to continue.
func (a *API) analyze(w http.ResponseWriter, r *http.Request) (domain.OutlookReport, preferences.Preferences, bool) {
	var q domain.WeatherQuery
	if !a.decode(w, r, &q) {
		return domain.OutlookReport{}, preferences.Preferences{}, false
	}

	prefs, err := a.prefs.Load(r.Context())
	if err != nil {
		a.logger.Error("load preferences", "error", err)
		writeError(w, http.StatusInternalServerError, errors.New("preferences unavailable"))
		return domain.OutlookReport{}, preferences.Preferences{}, false
	}

	q = prefs.ApplyTo(q)
	if err := q.Validate(); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return domain.OutlookReport{}, preferences.Preferences{}, false
	}

	report, err := a.analyzer.Analyze(r.Context(), q)
	if err != nil {
		a.logger.Warn("outlook analysis failed", "lat", q.Latitude, "lon", q.Longitude, "error", err)
		writeError(w, http.StatusBadGateway, err)
		return domain.OutlookReport{}, preferences.Preferences{}, false
	}
	return report, prefs, true
}

// --- preferences ---

func (a *API) handleGetPreferences(w http.ResponseWriter, r *http.Request) {
	prefs, err := a.prefs.Load(r.Context())
	if err != nil {
		a.logger.Error("load preferences", "error", err)
		writeError(w, http.StatusInternalServerError, errors.New("preferences unavailable"))
		return
	}
	writeJSON(w, http.StatusOK, prefs)
}

// handlePutPreferences applies a partial update onto the stored preferences.
func (a *API) handlePutPreferences(w http.ResponseWriter, r *http.Request) {
	var decodeErr error
	prefs, err := a.prefs.Update(r.Context(), func(p *preferences.Preferences) error {
		decodeErr = decodeBody(r, p)
		return decodeErr
	})
	switch {
	case decodeErr != nil:
		writeError(w, http.StatusBadRequest, decodeErr)
	case errors.Is(err, preferences.ErrInvalid):
		writeError(w, http.StatusBadRequest, err)
	case err != nil:
		a.logger.Error("update preferences", "error", err)
		writeError(w, http.StatusInternalServerError, errors.New("preferences could not be saved"))
	default:
		writeJSON(w, http.StatusOK, prefs)
	}
}

// --- catalog ---

func (a *API) handleConditions(w http.ResponseWriter, r *http.Request) {
	catalog, err := a.catalog.GetConditions(r.Context())
	if err != nil {
		writeError(w, http.StatusBadGateway, err)
		return
	}
	writeJSON(w, http.StatusOK, catalog)
}

func (a *API) handleSearchLocations(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("query")
	if query == "" {
		writeError(w, http.StatusBadRequest, errors.New("query is required"))
		return
	}
	limit := 0
	if s := r.URL.Query().Get("limit"); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil || n < 1 {
			writeError(w, http.StatusBadRequest, fmt.Errorf("invalid limit %q", s))
			return
		}
		limit = n
	}

	locs, err := a.catalog.SearchLocations(r.Context(), query, limit)
	if err != nil {
		writeError(w, http.StatusBadGateway, err)
		return
	}
	writeJSON(w, http.StatusOK, locationsResponse{Locations: locs, Total: len(locs)})
}

func (a *API) handlePopularLocations(w http.ResponseWriter, r *http.Request) {
	locs, err := a.catalog.PopularLocations(r.Context())
	if err != nil {
		writeError(w, http.StatusBadGateway, err)
		return
	}
	writeJSON(w, http.StatusOK, locationsResponse{Locations: locs, Total: len(locs)})
}

type locationsResponse struct {
	Locations []domain.Location `json:"locations"`
	Total     int               `json:"total"`
}

// --- helpers ---

// decode reads a JSON body into v, writing a 400 on failure.
func (a *API) decode(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := decodeBody(r, v); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return false
	}
	return true
}

func decodeBody(r *http.Request, v any) error {
	dec := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes))
	if err := dec.Decode(v); err != nil {
		return fmt.Errorf("invalid request body: %w", err)
	}
	return nil
}

type errorResponse struct {
	Error string `json:"error"`
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, errorResponse{Error: err.Error()})
}

// writeJSON encodes v before writing the header so an unencodable value
// becomes a 500 instead of an empty 200.
func writeJSON(w http.ResponseWriter, status int, v any) {
	data, err := json.Marshal(v)
	if err != nil {
		status = http.StatusInternalServerError
		data, _ = json.Marshal(errorResponse{Error: "response could not be encoded"})
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	w.Write(append(data, '\n')) //nolint:errcheck // client may have gone away
}
