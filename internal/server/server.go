// Package server exposes the analysis suite over HTTP.
package server

import (
	"encoding/json"
	"io"
	"net/http"
	"os"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/sirupsen/logrus"

	"github.com/taxlytics/taxlytics/internal/calculation"
	"github.com/taxlytics/taxlytics/internal/config"
	"github.com/taxlytics/taxlytics/internal/dataset"
	"github.com/taxlytics/taxlytics/internal/domain"
)

// Server holds the current dataset and serves the analysis API. The dataset
// slice itself is immutable; regenerate and upload swap the reference under
// the mutex.
type Server struct {
	cfg *config.Config
	log *logrus.Logger
	gen *calculation.Generator

	mu sync.RWMutex
	ds domain.Dataset
}

// New creates a server around the given configuration.
func New(cfg *config.Config, log *logrus.Logger) *Server {
	gen := calculation.NewGenerator()
	gen.Log = log
	return &Server{cfg: cfg, log: log, gen: gen}
}

// Router builds the chi router with all API routes.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(s.requestLogger)

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Route("/api", func(r chi.Router) {
		r.Get("/summary", s.section(func(ds domain.Dataset) any { return calculation.Summarize(ds) }))
		r.Get("/income", s.section(func(ds domain.Dataset) any { return calculation.AnalyzeIncomeDistribution(ds) }))
		r.Get("/tax-rates", s.section(func(ds domain.Dataset) any { return calculation.AnalyzeTaxRates(ds) }))
		r.Get("/deductions", s.section(func(ds domain.Dataset) any { return calculation.AnalyzeDeductions(ds) }))
		r.Get("/refunds", s.section(func(ds domain.Dataset) any { return calculation.AnalyzeRefunds(ds) }))
		r.Get("/state", s.section(func(ds domain.Dataset) any { return calculation.AnalyzeByState(ds) }))
		r.Get("/capital-gains", s.section(func(ds domain.Dataset) any { return calculation.AnalyzeCapitalGains(ds) }))
		r.Get("/credits", s.section(func(ds domain.Dataset) any { return calculation.AnalyzeCreditsDependents(ds) }))
		r.Get("/fica", s.section(func(ds domain.Dataset) any { return calculation.AnalyzeFICA(ds) }))
		r.Get("/full", s.section(func(ds domain.Dataset) any { return calculation.RunFullAnalysis(ds) }))

		r.Post("/regenerate", s.handleRegenerate)
		r.Post("/upload", s.handleUpload)
		r.Get("/records", s.handleRecords)
	})

	return r
}

// ListenAndServe blocks serving the API.
func (s *Server) ListenAndServe() error {
	s.log.Infof("listening on %s", s.cfg.ListenAddr)
	return http.ListenAndServe(s.cfg.ListenAddr, s.Router())
}

// section wraps an analysis function as a GET handler over the current dataset.
func (s *Server) section(analyze func(domain.Dataset) any) http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		ds, err := s.ensureData()
		if err != nil {
			respondError(w, http.StatusInternalServerError, err.Error())
			return
		}
		respondJSON(w, http.StatusOK, analyze(ds))
	}
}

// ensureData returns the current dataset, loading the data file or generating
// a fresh dataset on first use.
func (s *Server) ensureData() (domain.Dataset, error) {
	s.mu.RLock()
	ds := s.ds
	s.mu.RUnlock()
	if ds != nil {
		return ds, nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.ds != nil {
		return s.ds, nil
	}

	if _, err := os.Stat(s.cfg.DataFile); err == nil {
		loaded, err := dataset.Load(s.cfg.DataFile)
		if err != nil {
			return nil, err
		}
		s.log.Infof("loaded %d tax records from %s", len(loaded), s.cfg.DataFile)
		s.ds = loaded
		return s.ds, nil
	}

	generated, err := s.gen.Generate(s.cfg.Seed, s.cfg.Records)
	if err != nil {
		return nil, err
	}
	if err := dataset.Write(s.cfg.DataFile, generated); err != nil {
		return nil, err
	}
	s.ds = generated
	return s.ds, nil
}

func (s *Server) handleRegenerate(w http.ResponseWriter, r *http.Request) {
	n := s.cfg.Records
	seed := s.cfg.Seed
	if v := r.URL.Query().Get("records"); v != "" {
		parsed, err := strconv.Atoi(v)
		if err != nil {
			respondError(w, http.StatusBadRequest, "records must be an integer")
			return
		}
		n = parsed
	}
	if v := r.URL.Query().Get("seed"); v != "" {
		parsed, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			respondError(w, http.StatusBadRequest, "seed must be an integer")
			return
		}
		seed = parsed
	}

	ds, err := s.gen.Generate(seed, n)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := dataset.Write(s.cfg.DataFile, ds); err != nil {
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}

	s.mu.Lock()
	s.ds = ds
	s.mu.Unlock()

	respondJSON(w, http.StatusOK, map[string]any{
		"status":            "ok",
		"records_generated": n,
		"seed":              seed,
	})
}

func (s *Server) handleUpload(w http.ResponseWriter, r *http.Request) {
	file, header, err := r.FormFile("file")
	if err != nil {
		respondError(w, http.StatusBadRequest, "file field is required")
		return
	}
	defer file.Close()

	if !strings.HasSuffix(strings.ToLower(header.Filename), ".csv") {
		respondError(w, http.StatusBadRequest, "only CSV files are accepted")
		return
	}

	out, err := os.Create(s.cfg.DataFile)
	if err != nil {
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if _, err := io.Copy(out, file); err != nil {
		out.Close()
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	out.Close()

	ds, err := dataset.Load(s.cfg.DataFile)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	s.mu.Lock()
	s.ds = ds
	s.mu.Unlock()

	respondJSON(w, http.StatusOK, map[string]any{
		"status":         "ok",
		"records_loaded": len(ds),
	})
}

func (s *Server) handleRecords(w http.ResponseWriter, r *http.Request) {
	ds, err := s.ensureData()
	if err != nil {
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}

	limit := queryInt(r, "limit", 50)
	offset := queryInt(r, "offset", 0)
	if limit < 0 || offset < 0 {
		respondError(w, http.StatusBadRequest, "limit and offset must be non-negative")
		return
	}

	page := domain.Dataset{}
	if offset < len(ds) {
		end := offset + limit
		if end > len(ds) {
			end = len(ds)
		}
		page = ds[offset:end]
	}

	respondJSON(w, http.StatusOK, map[string]any{
		"total":   len(ds),
		"offset":  offset,
		"limit":   limit,
		"records": page,
	})
}

func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		s.log.WithFields(logrus.Fields{
			"method":   r.Method,
			"path":     r.URL.Path,
			"duration": time.Since(start).String(),
		}).Debug("request")
	})
}

func queryInt(r *http.Request, name string, def int) int {
	v := r.URL.Query().Get(name)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return n
}

func respondJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(payload)
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{"error": message})
}
