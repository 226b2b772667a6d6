package metrics

import (
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func TestNilRecorderIsNoop(t *testing.T) {
	var r *Recorder
	r.RecordHTTPRequest("GET", "/health", 200, time.Millisecond)
	r.RecordStandings(time.Millisecond, nil)
	r.RecordScore(true)
	r.RecordJobRun("standings_refresh", nil)

	rec := httptest.NewRecorder()
	r.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404 from nil recorder handler, got %d", rec.Code)
	}
}

func TestHandlerExposesRecordedSeries(t *testing.T) {
	r := NewRecorder()
	r.RecordHTTPRequest("GET", "/api/v1/seasons/{id}/standings", 200, 20*time.Millisecond)
	r.RecordStandings(5*time.Millisecond, nil)
	r.RecordStandings(0, errors.New("boom"))
	r.RecordScore(true)
	r.RecordJobRun("standings_refresh", nil)

	server := httptest.NewServer(r.Handler())
	defer server.Close()

	resp, err := http.Get(server.URL)
	if err != nil {
		t.Fatalf("get metrics: %v", err)
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("read body: %v", err)
	}
	text := string(body)

	for _, want := range []string{
		`leaguehub_http_requests_total{method="GET",route="/api/v1/seasons/{id}/standings",status="200"} 1`,
		`leaguehub_standings_computations_total{outcome="ok"} 1`,
		`leaguehub_standings_computations_total{outcome="error"} 1`,
		`leaguehub_scores_recorded_total{state="final"} 1`,
		`leaguehub_job_runs_total{job="standings_refresh",outcome="ok"} 1`,
	} {
		if !strings.Contains(text, want) {
			t.Errorf("expected metrics output to contain %q", want)
		}
	}
}
