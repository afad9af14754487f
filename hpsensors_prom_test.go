package main

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/edlorenzo/hpsensors/sensors/hpwmi"
	"github.com/edlorenzo/hpsensors/sensors/sim"
)

func newTestChip(t *testing.T) *hpwmi.Chip {
	t.Helper()

	chip, err := hpwmi.Discover(sim.DefaultProfile(1))
	if err != nil {
		t.Fatalf("discover: %s", err)
	}
	return chip
}

func doPut(t *testing.T, srv *httptest.Server, path, body string) int {
	t.Helper()

	req, err := http.NewRequest(http.MethodPut, srv.URL+path, strings.NewReader(body))
	if err != nil {
		t.Fatalf("build request: %s", err)
	}
	resp, err := srv.Client().Do(req)
	if err != nil {
		t.Fatalf("%s: %s", path, err)
	}
	resp.Body.Close()
	return resp.StatusCode
}

func TestHistoryResetRoutes(t *testing.T) {
	chip := newTestChip(t)
	defer chip.Close()

	srv := httptest.NewServer(newRouter(chip))
	defer srv.Close()

	if code := doPut(t, srv, "/history_reset/temperature", ""); code != http.StatusNoContent {
		t.Errorf("category reset: got %d", code)
	}
	if code := doPut(t, srv, "/history_reset/voltage/0", ""); code != http.StatusNoContent {
		t.Errorf("channel reset: got %d", code)
	}
	if code := doPut(t, srv, "/history_reset/humidity", ""); code != http.StatusNotFound {
		t.Errorf("unknown category: got %d", code)
	}
	if code := doPut(t, srv, "/history_reset/temperature/9", ""); code != http.StatusNotFound {
		t.Errorf("unknown channel: got %d", code)
	}
}

func TestUpdateIntervalRoute(t *testing.T) {
	chip := newTestChip(t)
	defer chip.Close()

	srv := httptest.NewServer(newRouter(chip))
	defer srv.Close()

	if code := doPut(t, srv, "/update_interval", "100"); code != http.StatusUnprocessableEntity {
		t.Errorf("below minimum: got %d", code)
	}
	if code := doPut(t, srv, "/update_interval", "5000"); code != http.StatusOK {
		t.Errorf("enable: got %d", code)
	}
	if got := chip.UpdateInterval(); got != 5000 {
		t.Errorf("interval after enable: got %d", got)
	}
	if code := doPut(t, srv, "/update_interval", "0"); code != http.StatusOK {
		t.Errorf("disable: got %d", code)
	}
}

func TestCollectExportsHistory(t *testing.T) {
	chip := newTestChip(t)
	defer chip.Close()

	collect(chip)

	lo := testutil.ToFloat64(gaugeLowest.WithLabelValues("temperature", "0", "CPU Thermal Index"))
	hi := testutil.ToFloat64(gaugeHighest.WithLabelValues("temperature", "0", "CPU Thermal Index"))
	if lo <= 0 || hi < lo {
		t.Errorf("history gauges: lowest=%v highest=%v", lo, hi)
	}
}
