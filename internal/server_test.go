package internal

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/Coobeliues/vector-search/internal/archiver"
	"github.com/Coobeliues/vector-search/internal/history"
)

func newTestHandler(t *testing.T) http.Handler {
	t.Helper()
	return Handler(newTestService(t, testConfig(t), &bytes.Buffer{}))
}

func TestHandlerArchive(t *testing.T) {
	h := newTestHandler(t)

	t.Run("packs the requested project", func(t *testing.T) {
		parent := t.TempDir()
		projectDir := writeProject(t, parent)

		body := fmt.Sprintf(`{"paths": [%q]}`, projectDir)
		rr := httptest.NewRecorder()
		h.ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/archive", strings.NewReader(body)))

		if rr.Code != http.StatusOK {
			t.Fatalf("POST /archive = %d, expected %d: %s", rr.Code, http.StatusOK, rr.Body.String())
		}
		var resp struct {
			JobID  string `json:"job_id"`
			Status string `json:"status"`
		}
		if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
			t.Fatalf("Unmarshal() failed: %v", err)
		}
		if resp.JobID == "" {
			t.Error("response has no job_id")
		}
		if resp.Status != "ok" {
			t.Errorf("status = %q, expected %q", resp.Status, "ok")
		}
		if _, err := os.Stat(filepath.Join(parent, archiver.DefaultOutputName)); err != nil {
			t.Errorf("archive missing: %v", err)
		}
	})

	t.Run("rejects malformed json", func(t *testing.T) {
		rr := httptest.NewRecorder()
		h.ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/archive", strings.NewReader("{oops")))
		if rr.Code != http.StatusBadRequest {
			t.Errorf("POST /archive = %d, expected %d", rr.Code, http.StatusBadRequest)
		}
	})

	t.Run("rejects non-post methods", func(t *testing.T) {
		rr := httptest.NewRecorder()
		h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/archive", nil))
		if rr.Code != http.StatusMethodNotAllowed {
			t.Errorf("GET /archive = %d, expected %d", rr.Code, http.StatusMethodNotAllowed)
		}
	})

	t.Run("reports failed runs", func(t *testing.T) {
		body := fmt.Sprintf(`{"paths": [%q]}`, filepath.Join(t.TempDir(), "nope"))
		rr := httptest.NewRecorder()
		h.ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/archive", strings.NewReader(body)))
		if rr.Code != http.StatusInternalServerError {
			t.Errorf("POST /archive = %d, expected %d", rr.Code, http.StatusInternalServerError)
		}
	})
}

func TestHandlerArchiveUsesConfiguredDefaults(t *testing.T) {
	cfg := testConfig(t)
	cfg.Archive.OutputName = "nightly.tar.gz"
	h := Handler(newTestService(t, cfg, &bytes.Buffer{}))

	parent := t.TempDir()
	projectDir := writeProject(t, parent)

	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/archive",
		strings.NewReader(fmt.Sprintf(`{"paths": [%q]}`, projectDir))))
	if rr.Code != http.StatusOK {
		t.Fatalf("POST /archive = %d, expected %d: %s", rr.Code, http.StatusOK, rr.Body.String())
	}
	if _, err := os.Stat(filepath.Join(parent, "nightly.tar.gz")); err != nil {
		t.Errorf("archive missing under the configured name: %v", err)
	}
	if _, err := os.Stat(filepath.Join(parent, archiver.DefaultOutputName)); !os.IsNotExist(err) {
		t.Error("archive written under the default name instead of the configured one")
	}
}

func TestHandlerHistory(t *testing.T) {
	h := newTestHandler(t)

	// record one run through the API
	projectDir := writeProject(t, t.TempDir())
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/archive",
		strings.NewReader(fmt.Sprintf(`{"paths": [%q]}`, projectDir))))
	if rr.Code != http.StatusOK {
		t.Fatalf("POST /archive = %d, expected %d: %s", rr.Code, http.StatusOK, rr.Body.String())
	}

	t.Run("lists recorded runs", func(t *testing.T) {
		rr := httptest.NewRecorder()
		h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/history", nil))
		if rr.Code != http.StatusOK {
			t.Fatalf("GET /history = %d, expected %d: %s", rr.Code, http.StatusOK, rr.Body.String())
		}
		if ct := rr.Header().Get("Content-Type"); ct != "application/json" {
			t.Errorf("Content-Type = %q, expected %q", ct, "application/json")
		}
		var runs []history.Run
		if err := json.Unmarshal(rr.Body.Bytes(), &runs); err != nil {
			t.Fatalf("Unmarshal() failed: %v", err)
		}
		if len(runs) != 1 {
			t.Fatalf("GET /history returned %d runs, expected 1", len(runs))
		}
		if runs[0].Status != history.StatusOK {
			t.Errorf("run status = %q, expected %q", runs[0].Status, history.StatusOK)
		}
	})

	t.Run("rejects a malformed limit", func(t *testing.T) {
		rr := httptest.NewRecorder()
		h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/history?limit=abc", nil))
		if rr.Code != http.StatusBadRequest {
			t.Errorf("GET /history?limit=abc = %d, expected %d", rr.Code, http.StatusBadRequest)
		}
	})

	t.Run("rejects non-get methods", func(t *testing.T) {
		rr := httptest.NewRecorder()
		h.ServeHTTP(rr, httptest.NewRequest(http.MethodDelete, "/history", nil))
		if rr.Code != http.StatusMethodNotAllowed {
			t.Errorf("DELETE /history = %d, expected %d", rr.Code, http.StatusMethodNotAllowed)
		}
	})
}

func TestHandlerHistoryEmpty(t *testing.T) {
	h := newTestHandler(t)

	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/history", nil))
	if rr.Code != http.StatusOK {
		t.Fatalf("GET /history = %d, expected %d", rr.Code, http.StatusOK)
	}
	if got := strings.TrimSpace(rr.Body.String()); got != "[]" {
		t.Errorf("GET /history body = %q, expected an empty array", got)
	}
}

func TestHandlerHealthz(t *testing.T) {
	h := newTestHandler(t)

	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	if rr.Code != http.StatusOK {
		t.Errorf("GET /healthz = %d, expected %d", rr.Code, http.StatusOK)
	}
}
