package server

import (
	"bytes"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taxlytics/taxlytics/internal/calculation"
	"github.com/taxlytics/taxlytics/internal/config"
	"github.com/taxlytics/taxlytics/internal/dataset"
)

func newTestServer(t *testing.T) *Server {
	t.Helper()
	cfg := config.Default()
	cfg.Records = 100
	cfg.DataFile = filepath.Join(t.TempDir(), "tax_data.csv")

	log := logrus.New()
	log.SetOutput(io.Discard)
	return New(cfg, log)
}

func doRequest(t *testing.T, s *Server, method, target string, body io.Reader) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, target, body)
	rec := httptest.NewRecorder()
	s.Router().ServeHTTP(rec, req)
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder, dst any) {
	t.Helper()
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), dst))
}

func TestHealthz(t *testing.T) {
	s := newTestServer(t)

	rec := doRequest(t, s, http.MethodGet, "/healthz", nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	var body map[string]string
	decodeBody(t, rec, &body)
	assert.Equal(t, "ok", body["status"])
}

func TestSectionEndpoints(t *testing.T) {
	s := newTestServer(t)

	paths := []string{
		"/api/summary",
		"/api/income",
		"/api/tax-rates",
		"/api/deductions",
		"/api/refunds",
		"/api/state",
		"/api/capital-gains",
		"/api/credits",
		"/api/fica",
		"/api/full",
	}
	for _, path := range paths {
		rec := doRequest(t, s, http.MethodGet, path, nil)
		assert.Equal(t, http.StatusOK, rec.Code, "GET %s", path)
		assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	}
}

func TestSummaryGeneratesAndPersistsDataset(t *testing.T) {
	s := newTestServer(t)

	rec := doRequest(t, s, http.MethodGet, "/api/summary", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		TotalTaxpayers int `json:"total_taxpayers"`
	}
	decodeBody(t, rec, &body)
	assert.Equal(t, 100, body.TotalTaxpayers)

	// First request persists the generated dataset to the data file.
	_, err := os.Stat(s.cfg.DataFile)
	assert.NoError(t, err)
}

func TestSummaryLoadsExistingDataFile(t *testing.T) {
	s := newTestServer(t)

	ds, err := calculation.NewGenerator().Generate(7, 25)
	require.NoError(t, err)
	require.NoError(t, dataset.Write(s.cfg.DataFile, ds))

	rec := doRequest(t, s, http.MethodGet, "/api/summary", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		TotalTaxpayers int `json:"total_taxpayers"`
	}
	decodeBody(t, rec, &body)
	assert.Equal(t, 25, body.TotalTaxpayers)
}

func TestRegenerate(t *testing.T) {
	s := newTestServer(t)

	rec := doRequest(t, s, http.MethodPost, "/api/regenerate?records=30&seed=9", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Status  string `json:"status"`
		Records int    `json:"records_generated"`
		Seed    int64  `json:"seed"`
	}
	decodeBody(t, rec, &body)
	assert.Equal(t, "ok", body.Status)
	assert.Equal(t, 30, body.Records)
	assert.Equal(t, int64(9), body.Seed)

	rec = doRequest(t, s, http.MethodGet, "/api/summary", nil)
	var summary struct {
		TotalTaxpayers int `json:"total_taxpayers"`
	}
	decodeBody(t, rec, &summary)
	assert.Equal(t, 30, summary.TotalTaxpayers)
}

func TestRegenerateValidation(t *testing.T) {
	s := newTestServer(t)

	tests := []struct {
		name   string
		target string
	}{
		{"non-integer records", "/api/regenerate?records=abc"},
		{"non-integer seed", "/api/regenerate?seed=abc"},
		{"records below minimum", "/api/regenerate?records=0"},
		{"records above maximum", "/api/regenerate?records=10001"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := doRequest(t, s, http.MethodPost, tt.target, nil)
			assert.Equal(t, http.StatusBadRequest, rec.Code)

			var body map[string]string
			decodeBody(t, rec, &body)
			assert.NotEmpty(t, body["error"])
		})
	}
}

func TestUpload(t *testing.T) {
	s := newTestServer(t)

	ds, err := calculation.NewGenerator().Generate(3, 10)
	require.NoError(t, err)
	path := filepath.Join(t.TempDir(), "upload.csv")
	require.NoError(t, dataset.Write(path, ds))
	raw, err := os.ReadFile(path)
	require.NoError(t, err)

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreateFormFile("file", "upload.csv")
	require.NoError(t, err)
	_, err = part.Write(raw)
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/upload", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	rec := httptest.NewRecorder()
	s.Router().ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Status  string `json:"status"`
		Records int    `json:"records_loaded"`
	}
	decodeBody(t, rec, &body)
	assert.Equal(t, "ok", body.Status)
	assert.Equal(t, 10, body.Records)
}

func TestUploadRejectsNonCSV(t *testing.T) {
	s := newTestServer(t)

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreateFormFile("file", "data.txt")
	require.NoError(t, err)
	_, err = part.Write([]byte("not a csv"))
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/upload", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	rec := httptest.NewRecorder()
	s.Router().ServeHTTP(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestUploadRequiresFileField(t *testing.T) {
	s := newTestServer(t)

	rec := doRequest(t, s, http.MethodPost, "/api/upload", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestRecordsPagination(t *testing.T) {
	s := newTestServer(t)

	type page struct {
		Total   int               `json:"total"`
		Offset  int               `json:"offset"`
		Limit   int               `json:"limit"`
		Records []json.RawMessage `json:"records"`
	}

	rec := doRequest(t, s, http.MethodGet, "/api/records", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var p page
	decodeBody(t, rec, &p)
	assert.Equal(t, 100, p.Total)
	assert.Equal(t, 50, p.Limit)
	assert.Len(t, p.Records, 50)

	rec = doRequest(t, s, http.MethodGet, "/api/records?limit=10&offset=95", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	decodeBody(t, rec, &p)
	assert.Equal(t, 95, p.Offset)
	assert.Len(t, p.Records, 5)

	// Offset past the end yields an empty page, not an error.
	rec = doRequest(t, s, http.MethodGet, "/api/records?offset=1000", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	decodeBody(t, rec, &p)
	assert.Empty(t, p.Records)

	rec = doRequest(t, s, http.MethodGet, "/api/records?limit=-1", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
