package http

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"paybot/internal/core"
	"paybot/internal/registry"
	"paybot/internal/services"
	"paybot/internal/storage"
)

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()

	store := storage.NewMemoryStore()
	reg := registry.New(store)
	svc := services.NewPaymentService(store, reg, nil)

	ctx := context.Background()
	if _, err := reg.EnsureApp(ctx, "Astra"); err != nil {
		t.Fatal(err)
	}
	if _, err := svc.Submit(ctx, core.Submission{
		CreatorName: "Jane",
		AppName:     "Astra",
		Submitter:   "jacobm6039",
		Amount:      "150.50",
		Date:        core.NewDate(2025, 4, 10),
	}); err != nil {
		t.Fatal(err)
	}

	srv := NewServer(":0", svc, nil)
	ts := httptest.NewServer(srv.Handler)
	t.Cleanup(ts.Close)
	return ts
}

func get(t *testing.T, url string) (int, string) {
	t.Helper()
	resp, err := http.Get(url)
	if err != nil {
		t.Fatalf("GET %s: %v", url, err)
	}
	defer resp.Body.Close()

	buf := make([]byte, 4096)
	n, _ := resp.Body.Read(buf)
	return resp.StatusCode, string(buf[:n])
}

func TestHealthz(t *testing.T) {
	ts := newTestServer(t)

	status, body := get(t, ts.URL+"/healthz")
	if status != http.StatusOK || !strings.Contains(body, "ok") {
		t.Fatalf("unexpected health response: %d %q", status, body)
	}
}

func TestAuditEndpoint(t *testing.T) {
	ts := newTestServer(t)

	status, body := get(t, ts.URL+"/api/audit?user=all&app=Astra&period=4/2025")
	if status != http.StatusOK {
		t.Fatalf("unexpected status %d: %s", status, body)
	}
	if !strings.Contains(body, "1 payment(s) for 4/2025") {
		t.Fatalf("unexpected audit body: %s", body)
	}
	if !strings.Contains(body, "Total: $150.50") {
		t.Fatalf("missing total: %s", body)
	}
}

func TestAuditEndpointDefaultsToWildcards(t *testing.T) {
	ts := newTestServer(t)

	status, body := get(t, ts.URL+"/api/audit?period=4/2025")
	if status != http.StatusOK {
		t.Fatalf("unexpected status %d: %s", status, body)
	}
	if !strings.Contains(body, "(user: all, app: all)") {
		t.Fatalf("missing wildcard filters in header: %s", body)
	}
}

func TestAuditEndpointBadPeriod(t *testing.T) {
	ts := newTestServer(t)

	status, body := get(t, ts.URL+"/api/audit?period=april")
	if status != http.StatusBadRequest {
		t.Fatalf("expected 400 for bad period, got %d", status)
	}
	if !strings.Contains(body, "4/2025") {
		t.Fatalf("error should show the expected shape: %s", body)
	}
}

func TestAuditEndpointMissingPeriod(t *testing.T) {
	ts := newTestServer(t)

	status, _ := get(t, ts.URL+"/api/audit")
	if status != http.StatusBadRequest {
		t.Fatalf("expected 400 for missing period, got %d", status)
	}
}
