// Package server is the HTTP + WebSocket API surface: submit scans, poll or
// stream their progress, fetch stored results and export reports.
package server

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"

	"github.com/raysh454/siteaudit/internal/logging"
	"github.com/raysh454/siteaudit/internal/report"
	"github.com/raysh454/siteaudit/internal/scanner"
	"github.com/raysh454/siteaudit/internal/store"
	"github.com/raysh454/siteaudit/internal/target"
)

type Config struct {
	// ListenAddr is the HTTP listen address.
	ListenAddr string

	// StorePath is the SQLite database for scan history; the default keeps
	// history in memory for the life of the process.
	StorePath string

	Scanner scanner.Config
	Logger  logging.Logger
}

func DefaultConfig() Config {
	return Config{
		ListenAddr: ":8080",
		StorePath:  store.DefaultConfig().Path,
		Scanner:    scanner.DefaultConfig(),
	}
}

// Server wires scanner, job manager and store behind a chi router.
type Server struct {
	cfg      Config
	scanner  *scanner.Scanner
	jobs     *scanner.Manager
	store    store.Store
	router   chi.Router
	upgrader websocket.Upgrader
	logger   logging.Logger
}

func NewServer(cfg Config) (*Server, error) {
	logger := logging.OrNop(cfg.Logger).With(logging.Field{Key: "component", Value: "server"})

	sc, err := scanner.New(cfg.Scanner, cfg.Logger)
	if err != nil {
		return nil, fmt.Errorf("server: building scanner: %w", err)
	}

	st, err := store.NewSQLiteStore(store.Config{Path: cfg.StorePath}, cfg.Logger)
	if err != nil {
		sc.Close()
		return nil, fmt.Errorf("server: opening store: %w", err)
	}

	s := &Server{
		cfg:     cfg,
		scanner: sc,
		jobs:    scanner.NewManager(sc, st, cfg.Logger),
		store:   st,
		router:  chi.NewRouter(),
		logger:  logger,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				// TODO: tighten for production
				return true
			},
		},
	}

	s.routes()
	return s, nil
}

func (s *Server) routes() {
	r := s.router

	r.Use(s.corsMiddleware)

	r.Options("/scans", s.optionsHandler("GET, POST"))
	r.Options("/scans/{scanID}", s.optionsHandler("GET, DELETE"))
	r.Options("/scans/{scanID}/report", s.optionsHandler("GET"))
	r.Options("/ws/scans/{scanID}", s.optionsHandler("GET"))

	r.Post("/scans", s.handleStartScan)
	r.Get("/scans", s.handleListScans)
	r.Get("/scans/{scanID}", s.handleGetScan)
	r.Delete("/scans/{scanID}", s.handleDeleteScan)
	r.Get("/scans/{scanID}/report", s.handleExportReport)

	r.Get("/ws/scans/{scanID}", s.handleScanWS)
}

func (s *Server) corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
		w.Header().Set("Access-Control-Max-Age", "86400")

		next.ServeHTTP(w, r)
	})
}

func (s *Server) optionsHandler(methods string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Methods", methods)
		w.WriteHeader(http.StatusNoContent)
	}
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	fields := []logging.Field{
		{Key: "method", Value: r.Method},
		{Key: "path", Value: r.URL.Path},
	}

	if q := r.URL.Query(); len(q) > 0 {
		fields = append(fields, logging.Field{Key: "query", Value: q})
	}

	if r.Body != nil && r.Method == http.MethodPost {
		if bodyBytes, err := io.ReadAll(r.Body); err == nil {
			fields = append(fields, logging.Field{Key: "body", Value: string(bodyBytes)})
			r.Body = io.NopCloser(bytes.NewReader(bodyBytes))
		}
	}

	s.logger.Info("http_request", fields...)

	s.router.ServeHTTP(w, r)
}

// Close releases the scanner's client pool and the store.
func (s *Server) Close() {
	if s.scanner != nil {
		s.scanner.Close()
	}
	if s.store != nil {
		s.store.Close()
	}
}

// HTTPServer creates an *http.Server ready to ListenAndServe.
func (s *Server) HTTPServer() *http.Server {
	return &http.Server{
		Addr:         s.cfg.ListenAddr,
		Handler:      s,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 0, // allow streaming
	}
}

// --- JSON helpers ---

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if v != nil {
		_ = json.NewEncoder(w).Encode(v)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

// --- HTTP handlers ---

func (s *Server) handleStartScan(w http.ResponseWriter, r *http.Request) {
	var body struct {
		URL string `json:"url"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}

	// Resolve synchronously so malformed input is a 400, not a failed job.
	if _, err := target.Resolve(body.URL); err != nil {
		s.logger.Warn("rejecting scan input",
			logging.Field{Key: "input", Value: body.URL},
			logging.Field{Key: "error", Value: err.Error()})
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	// The job outlives the request; it is bound to the server, not to r.
	job := s.jobs.Start(context.Background(), body.URL)
	s.logger.Info("scan job accepted",
		logging.Field{Key: "job_id", Value: job.ID},
		logging.Field{Key: "url", Value: body.URL})
	writeJSON(w, http.StatusAccepted, job)
}

func (s *Server) handleListScans(w http.ResponseWriter, r *http.Request) {
	summaries, err := s.store.List(r.Context())
	if err != nil {
		s.logger.Warn("listing scans", logging.Field{Key: "error", Value: err.Error()})
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, summaries)
}

func (s *Server) handleGetScan(w http.ResponseWriter, r *http.Request) {
	scanID := chi.URLParam(r, "scanID")

	// Running jobs answer from memory; finished ones from the store.
	if job, err := s.jobs.Get(scanID); err == nil {
		writeJSON(w, http.StatusOK, job)
		return
	}

	entry, err := s.store.Get(r.Context(), scanID)
	if errors.Is(err, store.ErrNotFound) {
		writeError(w, http.StatusNotFound, "scan not found")
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, entry)
}

func (s *Server) handleDeleteScan(w http.ResponseWriter, r *http.Request) {
	scanID := chi.URLParam(r, "scanID")

	// Cancel if it is still running; ignore "not found", the job may have
	// finished long ago.
	_ = s.jobs.Cancel(scanID)

	err := s.store.Delete(r.Context(), scanID)
	if errors.Is(err, store.ErrNotFound) {
		// Deleting a job that never stored a result is still a success if
		// the job itself existed.
		if _, jobErr := s.jobs.Get(scanID); jobErr != nil {
			writeError(w, http.StatusNotFound, "scan not found")
			return
		}
	} else if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

func (s *Server) handleExportReport(w http.ResponseWriter, r *http.Request) {
	scanID := chi.URLParam(r, "scanID")

	entry, err := s.store.Get(r.Context(), scanID)
	if errors.Is(err, store.ErrNotFound) {
		writeError(w, http.StatusNotFound, "scan not found")
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	format := r.URL.Query().Get("format")
	switch format {
	case "", "json":
		w.Header().Set("Content-Type", "application/json")
		if err := report.WriteJSON(w, entry.Result); err != nil {
			s.logger.Warn("writing json report", logging.Field{Key: "error", Value: err.Error()})
		}
	case "pdf":
		w.Header().Set("Content-Type", "application/pdf")
		w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", "audit-"+scanID+".pdf"))
		if err := report.WritePDF(w, entry.Result); err != nil {
			s.logger.Warn("writing pdf report", logging.Field{Key: "error", Value: err.Error()})
		}
	default:
		writeError(w, http.StatusBadRequest, "unknown format: "+format)
	}
}

// handleScanWS attaches to an existing job and streams its lifecycle events
// over a websocket, closing when the job finishes.
func (s *Server) handleScanWS(w http.ResponseWriter, r *http.Request) {
	scanID := chi.URLParam(r, "scanID")

	job, err := s.jobs.Get(scanID)
	if err != nil {
		writeError(w, http.StatusNotFound, "scan not found")
		return
	}

	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Warn("upgrading to websocket", logging.Field{Key: "error", Value: err.Error()})
		return
	}
	defer conn.Close()

	s.logger.Info("streaming scan events", logging.Field{Key: "job_id", Value: scanID})
	_ = conn.WriteJSON(job)

	events, err := s.jobs.Events(scanID)
	if err != nil {
		_ = conn.WriteJSON(map[string]string{"error": err.Error()})
		return
	}
	for ev := range events {
		if err := conn.WriteJSON(ev); err != nil {
			// Assume client disconnected.
			return
		}
	}

	// Stream the final result before closing.
	if job, err := s.jobs.Get(scanID); err == nil && job.Result != nil {
		_ = conn.WriteJSON(job.Result)
	}
}
