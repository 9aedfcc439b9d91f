// Package server is the REST boundary adapter. It converts HTTP bodies
// to line or record batches, invokes the core pipeline once per request
// and marshals typed results back to JSON. No aggregation logic lives
// here.
package server

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/coffersTech/logcrunch/internal/config"
	"github.com/coffersTech/logcrunch/internal/engine"
	"github.com/coffersTech/logcrunch/internal/model"
	"github.com/coffersTech/logcrunch/internal/parse"
	"github.com/coffersTech/logcrunch/internal/pipeline"
)

// Server exposes the batch operations over HTTP.
type Server struct {
	cfg     *config.Config
	metrics *Metrics
	opts    pipeline.Options
	srv     *http.Server
}

// New creates a Server. A nil metrics value registers against the
// default Prometheus registry.
func New(cfg *config.Config, metrics *Metrics) *Server {
	if metrics == nil {
		metrics = NewMetrics(nil)
	}
	return &Server{
		cfg:     cfg,
		metrics: metrics,
		opts:    pipeline.Options{Workers: cfg.Workers},
	}
}

// Router builds the chi router with all routes configured.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(RequestID)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"*"},
		MaxAge:         300,
	}))

	// Prometheus metrics endpoint (unprotected for scraping)
	r.Handle("/metrics", promhttp.Handler())

	m := s.metrics
	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/health", m.InstrumentHandler("GET", "/api/v1/health", s.handleHealth))

		r.Post("/logs/parse", m.InstrumentHandler("POST", "/api/v1/logs/parse", s.handleLogParse))
		r.Post("/logs/stats", m.InstrumentHandler("POST", "/api/v1/logs/stats", s.handleLogStats))
		r.Post("/logs/validate", m.InstrumentHandler("POST", "/api/v1/logs/validate", s.handleLogValidate))
		r.Post("/logs/filter", m.InstrumentHandler("POST", "/api/v1/logs/filter", s.handleLogFilter))
		r.Post("/logs/batch", m.InstrumentHandler("POST", "/api/v1/logs/batch", s.handleLogBatch))

		r.Post("/records/stats", m.InstrumentHandler("POST", "/api/v1/records/stats", s.handleRecordStats))
		r.Post("/records/process", m.InstrumentHandler("POST", "/api/v1/records/process", s.handleRecordProcess))
		r.Post("/records/filter", m.InstrumentHandler("POST", "/api/v1/records/filter", s.handleRecordFilter))
		r.Post("/records/categories", m.InstrumentHandler("POST", "/api/v1/records/categories", s.handleRecordCategories))
		r.Post("/records/category-stats", m.InstrumentHandler("POST", "/api/v1/records/category-stats", s.handleCategoryStats))
	})

	return r
}

// Start runs the HTTP server until it is shut down.
func (s *Server) Start() error {
	addr := fmt.Sprintf("%s:%d", s.cfg.Bind, s.cfg.Port)
	s.srv = &http.Server{
		Addr:    addr,
		Handler: s.Router(),
	}
	log.Printf("Listening on %s", addr)
	if err := s.srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.srv != nil {
		return s.srv.Shutdown(ctx)
	}
	return nil
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// readBody reads the request body up to the configured limit.
func (s *Server) readBody(w http.ResponseWriter, r *http.Request) ([]byte, bool) {
	defer r.Body.Close()
	limit := int64(s.cfg.MaxBodyMB) * 1024 * 1024
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, limit))
	if err != nil {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("failed to read body: %v", err))
		return nil, false
	}
	return body, true
}

// readLines reads a newline-delimited body.
func (s *Server) readLines(w http.ResponseWriter, r *http.Request) ([]string, bool) {
	body, ok := s.readBody(w, r)
	if !ok {
		return nil, false
	}
	return parse.SplitLines(body), true
}

// readRecordArray decodes a JSON-array body of typed records.
func (s *Server) readRecordArray(w http.ResponseWriter, r *http.Request) ([]model.DataRecord, bool) {
	body, ok := s.readBody(w, r)
	if !ok {
		return nil, false
	}
	records, err := parse.RecordArray(body)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return nil, false
	}
	return records, true
}

// handleLogParse decodes the submitted lines strictly and echoes the
// typed entries.
func (s *Server) handleLogParse(w http.ResponseWriter, r *http.Request) {
	lines, ok := s.readLines(w, r)
	if !ok {
		return
	}
	start := time.Now()
	entries, err := pipeline.ParseLogs(lines, s.opts)
	s.metrics.RecordBatchOperation("parse", err == nil, time.Since(start))
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}
	s.metrics.RecordRecordsProcessed("log", len(entries))
	writeJSON(w, http.StatusOK, entries)
}

func (s *Server) handleLogStats(w http.ResponseWriter, r *http.Request) {
	lines, ok := s.readLines(w, r)
	if !ok {
		return
	}
	start := time.Now()
	stats, err := pipeline.ComputeStats(lines, s.opts)
	s.metrics.RecordBatchOperation("stats", err == nil, time.Since(start))
	if err != nil {
		writeError(w, emptyBatchStatus(err), err.Error())
		return
	}
	s.metrics.RecordRecordsProcessed("log", stats.TotalCount)
	writeJSON(w, http.StatusOK, stats)
}

func (s *Server) handleLogValidate(w http.ResponseWriter, r *http.Request) {
	lines, ok := s.readLines(w, r)
	if !ok {
		return
	}
	start := time.Now()
	validCount, errs := pipeline.ValidateLogs(lines, s.opts)
	s.metrics.RecordBatchOperation("validate", true, time.Since(start))
	s.metrics.RecordRecordsProcessed("log", len(lines))
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"valid_count": validCount,
		"errors":      stringsOrEmpty(errs),
	})
}

func (s *Server) handleLogFilter(w http.ResponseWriter, r *http.Request) {
	filter, err := logFilterFromQuery(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	lines, ok := s.readLines(w, r)
	if !ok {
		return
	}
	start := time.Now()
	entries := pipeline.FilterLogs(lines, filter, s.opts)
	s.metrics.RecordBatchOperation("filter", true, time.Since(start))
	s.metrics.RecordRecordsProcessed("log", len(lines))
	writeJSON(w, http.StatusOK, entries)
}

func (s *Server) handleLogBatch(w http.ResponseWriter, r *http.Request) {
	lines, ok := s.readLines(w, r)
	if !ok {
		return
	}
	start := time.Now()
	stats, errs, err := pipeline.BatchProcess(lines, s.opts)
	s.metrics.RecordBatchOperation("batch", err == nil, time.Since(start))
	if err != nil {
		writeError(w, emptyBatchStatus(err), err.Error())
		return
	}
	s.metrics.RecordRecordsProcessed("log", stats.TotalCount)
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"stats":  stats,
		"errors": stringsOrEmpty(errs),
	})
}

func (s *Server) handleRecordStats(w http.ResponseWriter, r *http.Request) {
	records, ok := s.readRecordArray(w, r)
	if !ok {
		return
	}
	start := time.Now()
	stats, err := engine.ComputeRecordStats(records, engine.Options{Workers: s.cfg.Workers})
	s.metrics.RecordBatchOperation("record_stats", err == nil, time.Since(start))
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}
	s.metrics.RecordRecordsProcessed("record", len(records))
	writeJSON(w, http.StatusOK, stats)
}

func (s *Server) handleRecordProcess(w http.ResponseWriter, r *http.Request) {
	records, ok := s.readRecordArray(w, r)
	if !ok {
		return
	}
	start := time.Now()
	stats, err := pipeline.ProcessRecords(records, s.opts)
	s.metrics.RecordBatchOperation("record_process", err == nil, time.Since(start))
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}
	s.metrics.RecordRecordsProcessed("record", len(records))
	writeJSON(w, http.StatusOK, stats)
}

func (s *Server) handleRecordFilter(w http.ResponseWriter, r *http.Request) {
	filter, err := recordFilterFromQuery(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	records, ok := s.readRecordArray(w, r)
	if !ok {
		return
	}
	start := time.Now()
	filtered := engine.FilterRecords(records, filter, engine.Options{Workers: s.cfg.Workers})
	s.metrics.RecordBatchOperation("record_filter", true, time.Since(start))
	s.metrics.RecordRecordsProcessed("record", len(records))
	writeJSON(w, http.StatusOK, filtered)
}

func (s *Server) handleRecordCategories(w http.ResponseWriter, r *http.Request) {
	records, ok := s.readRecordArray(w, r)
	if !ok {
		return
	}
	start := time.Now()
	result := map[string]interface{}{
		"categories": engine.UniqueCategories(records),
		"stats":      engine.AggregateByCategory(records),
	}
	s.metrics.RecordBatchOperation("record_categories", true, time.Since(start))
	s.metrics.RecordRecordsProcessed("record", len(records))
	writeJSON(w, http.StatusOK, result)
}

func (s *Server) handleCategoryStats(w http.ResponseWriter, r *http.Request) {
	category := r.URL.Query().Get("category")
	if category == "" {
		writeError(w, http.StatusBadRequest, "missing 'category' query parameter")
		return
	}
	records, ok := s.readRecordArray(w, r)
	if !ok {
		return
	}
	start := time.Now()
	stats := engine.StatsForCategory(records, category)
	s.metrics.RecordBatchOperation("category_stats", stats != nil, time.Since(start))
	if stats == nil {
		writeError(w, http.StatusNotFound, fmt.Sprintf("no records in category %q", category))
		return
	}
	s.metrics.RecordRecordsProcessed("record", len(records))
	writeJSON(w, http.StatusOK, stats)
}

// logFilterFromQuery builds a LogFilter from query parameters:
// min_level, min_duration_ms, status_codes (comma-separated).
func logFilterFromQuery(r *http.Request) (engine.LogFilter, error) {
	var filter engine.LogFilter
	q := r.URL.Query()

	filter.MinLevel = q.Get("min_level")
	if v := q.Get("min_duration_ms"); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return filter, fmt.Errorf("invalid min_duration_ms: %q", v)
		}
		filter.MinDurationMS = &f
	}
	if v := q.Get("status_codes"); v != "" {
		for _, part := range strings.Split(v, ",") {
			code, err := strconv.Atoi(strings.TrimSpace(part))
			if err != nil {
				return filter, fmt.Errorf("invalid status code: %q", part)
			}
			filter.StatusCodes = append(filter.StatusCodes, code)
		}
	}
	return filter, nil
}

// recordFilterFromQuery builds a RecordFilter from query parameters:
// category, min_value.
func recordFilterFromQuery(r *http.Request) (engine.RecordFilter, error) {
	var filter engine.RecordFilter
	q := r.URL.Query()

	filter.Category = q.Get("category")
	if v := q.Get("min_value"); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return filter, fmt.Errorf("invalid min_value: %q", v)
		}
		filter.MinValue = &f
	}
	return filter, nil
}

func emptyBatchStatus(err error) int {
	if pipeline.IsEmptyBatch(err) {
		return http.StatusUnprocessableEntity
	}
	return http.StatusInternalServerError
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("JSON encode error: %v", err)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

// stringsOrEmpty keeps "errors" as [] instead of null in responses.
func stringsOrEmpty(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
