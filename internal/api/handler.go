package api

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/sync/singleflight"

	"dbprobe/internal/graphql"
	"dbprobe/internal/metrics"
	"dbprobe/internal/probe"
	"dbprobe/internal/security"
)

// Handler serves probe results over HTTP
type Handler struct {
	prober *probe.Prober
	logger *slog.Logger
	group  singleflight.Group
}

// NewHandler creates a new API handler
func NewHandler(prober *probe.Prober, logger *slog.Logger) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{
		prober: prober,
		logger: logger,
	}
}

type probeResult struct {
	report *probe.Report
	err    error
}

// Run performs one probe. Concurrent callers share one run, and a caller
// going away does not cancel it.
func (h *Handler) Run(ctx context.Context) (*probe.Report, error) {
	v, _, shared := h.group.Do("probe", func() (interface{}, error) {
		report, err := h.prober.Run(context.WithoutCancel(ctx))
		return probeResult{report: report, err: err}, nil
	})
	res := v.(probeResult)
	if shared {
		h.logger.Debug("joined running probe", "run_id", res.report.ID)
	}
	return res.report, res.err
}

// Probe handles GET /probe
func (h *Handler) Probe(w http.ResponseWriter, r *http.Request) {
	report, err := h.Run(r.Context())

	status := http.StatusOK
	if err != nil {
		status = http.StatusServiceUnavailable
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(report); err != nil {
		h.logger.Error("Error encoding response", "error", err)
	}
}

// Healthz handles GET /healthz
func (h *Handler) Healthz(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write([]byte("ok"))
}

// NewRouter wires the handler, the GraphQL endpoint, request metrics and the
// metrics endpoint. allow guards everything but /healthz; nil admits everyone.
func NewRouter(h *Handler, gatherer prometheus.Gatherer, reg prometheus.Registerer, allow *security.Allowlist) (http.Handler, error) {
	gql, err := graphql.NewHandler(h.Run, h.logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create GraphQL handler: %w", err)
	}

	r := chi.NewRouter()
	r.Use(metrics.NewHTTP(reg).Middleware)

	r.Get("/healthz", h.Healthz)
	r.Group(func(r chi.Router) {
		r.Use(allow.Middleware)
		r.Get("/probe", h.Probe)
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))
		r.Handle("/graphql", gql)
	})

	return r, nil
}
