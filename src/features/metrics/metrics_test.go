package metrics

import (
	"io"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestRecorder_Counters(t *testing.T) {
	r := NewRecorder()

	r.RecordFailure("netease", "fetch", "no_lyrics")
	r.RecordFailure("netease", "fetch", "no_lyrics")
	r.RecordFailure("netease", "search", "transport")
	r.ObserveRequest("netease", "search", "found", 120*time.Millisecond)

	if got := testutil.ToFloat64(r.failures.WithLabelValues("netease", "fetch", "no_lyrics")); got != 2 {
		t.Errorf("expected 2 no_lyrics failures, got %v", got)
	}
	if got := testutil.ToFloat64(r.failures.WithLabelValues("netease", "search", "transport")); got != 1 {
		t.Errorf("expected 1 transport failure, got %v", got)
	}
	if got := testutil.ToFloat64(r.requests.WithLabelValues("netease", "search", "found")); got != 1 {
		t.Errorf("expected 1 request, got %v", got)
	}
	if got := testutil.CollectAndCount(r.latency); got != 1 {
		t.Errorf("expected 1 latency series, got %d", got)
	}
}

func TestRegisterRoutes_ExposesMetrics(t *testing.T) {
	r := NewRecorder()
	r.RecordFailure("netease", "fetch", "decode")
	app := fiber.New()
	RegisterRoutes(app, r, "/metrics")

	resp, err := app.Test(httptest.NewRequest("GET", "/metrics", nil))
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	body, _ := io.ReadAll(resp.Body)

	if resp.StatusCode != fiber.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	want := `neteaselyrics_provider_failures_total{kind="decode",operation="fetch",provider="netease"} 1`
	if !strings.Contains(string(body), want) {
		t.Errorf("expected %q in output", want)
	}
}
