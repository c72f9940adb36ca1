// Package api serves simulations over HTTP.
package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/san-kum/popsim/internal/config"
	"github.com/san-kum/popsim/internal/export"
	"github.com/san-kum/popsim/internal/growth"
)

// CSVFilename is offered to clients downloading the CSV export.
const CSVFilename = "population_growth.csv"

const (
	// MaxYearsLimit bounds the cap a request may ask for; every simulated
	// year becomes one record in the response.
	MaxYearsLimit = 10000
	maxBodyBytes  = 64 << 10
)

type Handler struct {
	log      *slog.Logger
	defaults *config.Config
	mux      *http.ServeMux
	stats    Stats
}

// NewHandler routes the simulation endpoints. Fields missing from a request
// fall back to defaults.
func NewHandler(logger *slog.Logger, defaults *config.Config) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	if defaults == nil {
		defaults = config.DefaultConfig()
	}
	h := &Handler{log: logger, defaults: defaults, mux: http.NewServeMux()}

	registry := prometheus.NewRegistry()
	registry.MustRegister(NewCollector("popsim", "api", &h.stats))

	h.mux.HandleFunc("POST /api/simulate", h.handleSimulate)
	h.mux.HandleFunc("GET /api/simulate.csv", h.handleSimulateCSV)
	h.mux.Handle("GET /metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))
	return h
}

// Stats returns the live counters behind /metrics.
func (h *Handler) Stats() StatsProvider { return &h.stats }

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
	h.mux.ServeHTTP(rec, r)
	h.log.Info("request",
		slog.String("method", r.Method),
		slog.String("path", r.URL.Path),
		slog.Int("status", rec.status),
		slog.Duration("elapsed", time.Since(start)),
	)
}

type SimulateRequest struct {
	PopulationA *float64 `json:"population_a"`
	RateA       *float64 `json:"rate_a"`
	PopulationB *float64 `json:"population_b"`
	RateB       *float64 `json:"rate_b"`
	MaxYears    *int     `json:"max_years"`
}

func (req SimulateRequest) input(defaults *config.Config) growth.Input {
	in := defaults.Input()
	if req.PopulationA != nil {
		in.PopulationA = *req.PopulationA
	}
	if req.RateA != nil {
		in.RateA = *req.RateA
	}
	if req.PopulationB != nil {
		in.PopulationB = *req.PopulationB
	}
	if req.RateB != nil {
		in.RateB = *req.RateB
	}
	if req.MaxYears != nil {
		in.MaxYears = *req.MaxYears
	}
	return in
}

func (h *Handler) handleSimulate(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)

	var req SimulateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		status := http.StatusBadRequest
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			status = http.StatusRequestEntityTooLarge
		}
		h.writeError(w, status, fmt.Errorf("decode request: %w", err))
		return
	}

	res, ok := h.simulate(w, req.input(h.defaults))
	if !ok {
		return
	}

	doc := export.NewDocument(res)
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("X-Run-ID", doc.RunID)
	if err := export.WriteJSON(w, doc); err != nil {
		h.log.Error("write response", slog.String("run_id", doc.RunID), slog.Any("err", err))
	}
}

func (h *Handler) handleSimulateCSV(w http.ResponseWriter, r *http.Request) {
	req, err := requestFromQuery(r.URL.Query())
	if err != nil {
		h.writeError(w, http.StatusBadRequest, err)
		return
	}

	res, ok := h.simulate(w, req.input(h.defaults))
	if !ok {
		return
	}

	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", CSVFilename))
	w.Header().Set("X-Outcome", res.Outcome.String())
	if err := export.WriteCSV(w, res.Records); err != nil {
		h.log.Error("write csv", slog.Any("err", err))
	}
}

func (h *Handler) simulate(w http.ResponseWriter, in growth.Input) (*growth.Result, bool) {
	var (
		res *growth.Result
		err error
	)
	if in.MaxYears > MaxYearsLimit {
		err = &growth.InputError{
			Field:  "max_years",
			Value:  float64(in.MaxYears),
			Reason: fmt.Sprintf("must not exceed %d", MaxYearsLimit),
		}
	} else {
		res, err = growth.Simulate(in)
	}
	if err != nil {
		if errors.Is(err, growth.ErrInvalidInput) {
			h.stats.reject()
			h.log.Debug("rejected input", slog.Any("err", err))
			h.writeError(w, http.StatusBadRequest, err)
		} else {
			h.log.Error("simulate", slog.Any("err", err))
			h.writeError(w, http.StatusInternalServerError, err)
		}
		return nil, false
	}
	h.stats.record(res)
	h.log.Debug("simulated",
		slog.String("outcome", res.Outcome.String()),
		slog.Int("years", res.YearsElapsed),
	)
	return res, true
}

func requestFromQuery(q url.Values) (SimulateRequest, error) {
	var req SimulateRequest
	floats := []struct {
		key string
		dst **float64
	}{
		{"population_a", &req.PopulationA},
		{"rate_a", &req.RateA},
		{"population_b", &req.PopulationB},
		{"rate_b", &req.RateB},
	}
	for _, f := range floats {
		raw := q.Get(f.key)
		if raw == "" {
			continue
		}
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return req, fmt.Errorf("%s: %w", f.key, err)
		}
		*f.dst = &v
	}
	if raw := q.Get("max_years"); raw != "" {
		v, err := strconv.Atoi(raw)
		if err != nil {
			return req, fmt.Errorf("max_years: %w", err)
		}
		req.MaxYears = &v
	}
	return req, nil
}

func (h *Handler) writeError(w http.ResponseWriter, status int, err error) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if encErr := json.NewEncoder(w).Encode(map[string]string{"error": err.Error()}); encErr != nil {
		h.log.Error("write error response", slog.Int("status", status), slog.Any("err", encErr))
	}
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}
