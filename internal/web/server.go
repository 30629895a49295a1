// Package web serves the estimate form and a JSON API over HTTP.
package web

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/hemantobora/ec2-estimator/internal/controller"
	"github.com/hemantobora/ec2-estimator/internal/estimator"
	"github.com/hemantobora/ec2-estimator/internal/models"
	"github.com/hemantobora/ec2-estimator/internal/pricing"
)

const kindInvalidInput = "InvalidInput"

// ReferenceSource looks up list prices for a finished estimate.
type ReferenceSource interface {
	Reference(ctx context.Context, cfg models.Configuration) *pricing.Reference
}

// Server exposes one shared controller as an HTML form plus a stateless JSON API.
type Server struct {
	ctrl     *controller.Controller
	est      estimator.Estimator
	prices   ReferenceSource
	logger   zerolog.Logger
	registry *prometheus.Registry
	metrics  *metrics
	baseCtx  context.Context
	started  time.Time

	// list price reference of the last finished request, looked up once
	refMu sync.Mutex
	refID string
	ref   *pricing.Reference
}

// Option configures a Server.
type Option func(*Server)

// WithLogger sets the request and handler logger.
func WithLogger(l zerolog.Logger) Option { return func(s *Server) { s.logger = l } }

// WithPricing enables the list price cross-check on the page.
func WithPricing(p ReferenceSource) Option { return func(s *Server) { s.prices = p } }

// WithBaseContext sets the context form submissions run under; requests outlive the HTTP call.
func WithBaseContext(ctx context.Context) Option { return func(s *Server) { s.baseCtx = ctx } }

// New builds a Server. est serves the JSON API; ctrl backs the HTML form.
func New(ctrl *controller.Controller, est estimator.Estimator, opts ...Option) *Server {
	s := &Server{
		ctrl:     ctrl,
		est:      est,
		logger:   zerolog.Nop(),
		registry: prometheus.NewRegistry(),
		baseCtx:  context.Background(),
		started:  time.Now(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.metrics = newMetrics(s.registry)
	ctrl.Subscribe(s.metrics.observe)
	return s
}

// Handler returns the routed handler.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(requestLogger(s.logger))
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(90 * time.Second))

	r.Get("/", s.handlePage)
	r.Post("/estimate", s.handleSubmit)
	r.Post("/configuration", s.handleConfiguration)

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/state", s.handleState)
		r.Post("/estimate", s.handleEstimate)
		r.Get("/catalog", s.handleCatalog)
	})

	r.Get("/health", s.handleHealth)
	r.Handle("/metrics", promhttp.HandlerFor(s.registry, promhttp.HandlerOpts{}))
	return r
}

// ListenAndServe serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info().Str("addr", addr).Msg("starting web server")
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		s.logger.Info().Msg("shutting down web server")
		return srv.Shutdown(shutdownCtx)
	}
}

func (s *Server) handlePage(w http.ResponseWriter, r *http.Request) {
	s.renderPage(w, r, http.StatusOK, "")
}

func (s *Server) renderPage(w http.ResponseWriter, r *http.Request, status int, notice string) {
	snap := s.ctrl.Snapshot()
	ref := s.reference(r.Context(), snap)
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if err := pageTemplate.Execute(w, newPageData(snap, ref, notice)); err != nil {
		s.logger.Error().Err(err).Msg("render page")
	}
}

// reference returns the list price panel for snap, memoized per request id so
// page refreshes do not repeat lookups, failed ones included.
func (s *Server) reference(ctx context.Context, snap controller.Snapshot) *pricing.Reference {
	if s.prices == nil || snap.State != controller.Succeeded {
		return nil
	}
	s.refMu.Lock()
	defer s.refMu.Unlock()
	if s.refID != snap.RequestID || s.ref == nil {
		s.ref = s.prices.Reference(ctx, snap.Configuration)
		s.refID = snap.RequestID
	}
	return s.ref
}

func (s *Server) handleSubmit(w http.ResponseWriter, r *http.Request) {
	if err := s.applyForm(r); err != nil {
		s.formError(w, r, err)
		return
	}
	if _, ok := s.ctrl.Submit(s.baseCtx); !ok {
		s.logger.Debug().Msg("submit ignored")
		if s.ctrl.Snapshot().Configuration.InstanceType == "" {
			s.renderPage(w, r, http.StatusOK, "Select an instance type to get an estimate.")
			return
		}
	}
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (s *Server) handleConfiguration(w http.ResponseWriter, r *http.Request) {
	if err := s.applyForm(r); err != nil {
		s.formError(w, r, err)
		return
	}
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// applyForm copies the submitted fields into the controller, all or none.
func (s *Server) applyForm(r *http.Request) error {
	if err := r.ParseForm(); err != nil {
		return &models.InputValidationError{InputType: "form", Value: "", Cause: err}
	}
	fields := []string{
		controller.FieldInstanceType,
		controller.FieldOperatingSystem,
		controller.FieldEBSVolumeType,
		controller.FieldEBSVolumeSizeGB,
	}
	values := make(map[string]string, len(fields))
	for _, field := range fields {
		if _, present := r.PostForm[field]; present {
			values[field] = r.PostForm.Get(field)
		}
	}
	if len(values) == 0 {
		return nil
	}
	return s.ctrl.UpdateFields(values)
}

func (s *Server) formError(w http.ResponseWriter, r *http.Request, err error) {
	status := http.StatusBadRequest
	if errors.Is(err, controller.ErrBusy) {
		status = http.StatusConflict
	}
	s.renderPage(w, r, status, err.Error())
}

func (s *Server) handleState(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, s.ctrl.Snapshot())
}

func (s *Server) handleEstimate(w http.ResponseWriter, r *http.Request) {
	cfg := models.DefaultConfiguration()
	if err := json.NewDecoder(r.Body).Decode(&cfg); err != nil {
		respondError(w, http.StatusBadRequest, kindInvalidInput, "invalid request body")
		return
	}
	if cfg.InstanceType == "" {
		respondError(w, http.StatusBadRequest, kindInvalidInput, "instanceType is required")
		return
	}
	if err := cfg.Validate(); err != nil {
		respondError(w, http.StatusBadRequest, kindInvalidInput, err.Error())
		return
	}

	start := time.Now()
	est, err := s.est.Estimate(r.Context(), cfg)
	if err != nil {
		kind := models.KindOf(err)
		s.metrics.record(outcome(kind), time.Since(start))
		status := http.StatusBadGateway
		if kind == models.KindMissingCredential {
			status = http.StatusServiceUnavailable
		}
		respondError(w, status, string(kind), err.Error())
		return
	}
	s.metrics.record(outcomeSucceeded, time.Since(start))
	respondJSON(w, http.StatusOK, est)
}

func (s *Server) handleCatalog(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]any{
		"region":           models.Region,
		"instanceTypes":    models.InstanceTypes,
		"operatingSystems": models.OperatingSystems,
		"ebsVolumeTypes":   models.EBSVolumeTypes,
		"defaults":         models.DefaultConfiguration(),
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]any{
		"status": "healthy",
		"uptime": time.Since(s.started).Round(time.Second).String(),
	})
}

type errorResponse struct {
	Kind    string `json:"kind"`
	Message string `json:"message"`
}

func respondJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func respondError(w http.ResponseWriter, status int, kind, message string) {
	respondJSON(w, status, errorResponse{Kind: kind, Message: message})
}
