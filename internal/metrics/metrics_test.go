package metrics

import (
	"errors"
	"io"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestLoaderMetrics_ObserveFile(t *testing.T) {
	m := NewLoaderMetrics()
	m.ObserveFile("pdf", 20*time.Millisecond, nil)
	m.ObserveFile("pdf", 30*time.Millisecond, errors.New("corrupt"))
	m.ObserveFile("xml", 5*time.Millisecond, nil)

	if got := testutil.ToFloat64(m.filesTotal.WithLabelValues("pdf", "success")); got != 1 {
		t.Errorf("expected 1 pdf success, got %v", got)
	}
	if got := testutil.ToFloat64(m.filesTotal.WithLabelValues("pdf", "error")); got != 1 {
		t.Errorf("expected 1 pdf error, got %v", got)
	}
	if got := testutil.ToFloat64(m.filesTotal.WithLabelValues("xml", "success")); got != 1 {
		t.Errorf("expected 1 xml success, got %v", got)
	}
}

func TestLoaderMetrics_Handler(t *testing.T) {
	m := NewLoaderMetrics()
	m.ObservePass(7)

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))

	body, _ := io.ReadAll(rec.Body)
	if !strings.Contains(string(body), "pharmadocs_loader_pass_documents 7") {
		t.Errorf("expected pass gauge in exposition, got:\n%s", body)
	}
}
