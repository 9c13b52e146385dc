package server

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/codeveil/codeveil/internal/config"
	"github.com/codeveil/codeveil/internal/logger"
	"github.com/codeveil/codeveil/internal/websocket"
)

func newTestServer(t *testing.T) *Server {
	t.Helper()
	cfg := config.GetDefaults()
	cfg.RateLimit.Enabled = false
	return New(cfg, logger.NewNop(), nil, nil)
}

func doJSON(t *testing.T, s *Server, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			t.Fatal(err)
		}
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)
	return rec
}

func TestHandleHealth(t *testing.T) {
	s := newTestServer(t)
	rec := doJSON(t, s, "GET", "/health", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "healthy") {
		t.Errorf("body = %s", rec.Body.String())
	}
}

func TestHandleInfo(t *testing.T) {
	s := newTestServer(t)
	rec := doJSON(t, s, "GET", "/info", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}

	var info map[string]interface{}
	if err := json.Unmarshal(rec.Body.Bytes(), &info); err != nil {
		t.Fatal(err)
	}
	if rules, ok := info["rules"].(float64); !ok || rules <= 0 {
		t.Errorf("rules = %v, want > 0", info["rules"])
	}
	if info["default_profile"] != "balanced" {
		t.Errorf("default_profile = %v", info["default_profile"])
	}
}

func TestHandleSanitize(t *testing.T) {
	s := newTestServer(t)

	rec := doJSON(t, s, "POST", "/v1/sanitize", map[string]interface{}{
		"text":    "function getCustomerData(customerId) { return fetch('https://api.stripe.com/v1/customers/' + customerId); }",
		"profile": "paranoid",
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}

	var resp SanitizeResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if strings.Contains(resp.TransformedText, "customer") || strings.Contains(resp.TransformedText, "stripe") {
		t.Errorf("sensitive terms survived: %s", resp.TransformedText)
	}
	if resp.Profile != "paranoid" {
		t.Errorf("profile = %s", resp.Profile)
	}
	if resp.Metrics == nil {
		t.Fatal("metrics missing")
	}
	if resp.Metrics.PrivacyScore < 40 || resp.Metrics.PrivacyScore > 95 {
		t.Errorf("privacy score out of band: %v", resp.Metrics.PrivacyScore)
	}
	if !resp.Metrics.ComplianceReady {
		t.Error("expected compliance ready")
	}
}

func TestHandleSanitizeDefaultsProfile(t *testing.T) {
	s := newTestServer(t)

	rec := doJSON(t, s, "POST", "/v1/sanitize", map[string]interface{}{"text": "hello"})
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	var resp SanitizeResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if resp.Profile != "balanced" {
		t.Errorf("profile = %s, want balanced default", resp.Profile)
	}
}

func TestHandleSanitizeMissingText(t *testing.T) {
	s := newTestServer(t)

	rec := doJSON(t, s, "POST", "/v1/sanitize", map[string]interface{}{"profile": "balanced"})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}

func TestHandleSanitizeInvalidJSON(t *testing.T) {
	s := newTestServer(t)

	req := httptest.NewRequest("POST", "/v1/sanitize", strings.NewReader("{not json"))
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}

func TestSessionEndpointsWithoutStore(t *testing.T) {
	s := newTestServer(t)

	if rec := doJSON(t, s, "GET", "/v1/sessions/abc", nil); rec.Code != http.StatusServiceUnavailable {
		t.Errorf("GET status = %d, want 503", rec.Code)
	}
	if rec := doJSON(t, s, "DELETE", "/v1/sessions/abc", nil); rec.Code != http.StatusServiceUnavailable {
		t.Errorf("DELETE status = %d, want 503", rec.Code)
	}
}

func TestAuditEndpointWithoutStore(t *testing.T) {
	s := newTestServer(t)

	if rec := doJSON(t, s, "GET", "/v1/audit", nil); rec.Code != http.StatusServiceUnavailable {
		t.Errorf("status = %d, want 503", rec.Code)
	}
}

func TestHandleDemo(t *testing.T) {
	s := newTestServer(t)

	rec := doJSON(t, s, "GET", "/v1/demo/business-code", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}

	var resp struct {
		TransformedText string `json:"transformed_text"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if strings.Contains(resp.TransformedText, "stripe") {
		t.Errorf("demo output still mentions vendor: %s", resp.TransformedText)
	}
}

func TestHandleDemoUnknownCategory(t *testing.T) {
	s := newTestServer(t)

	if rec := doJSON(t, s, "GET", "/v1/demo/nonexistent", nil); rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", rec.Code)
	}
}

func TestRateLimitRejectsBursts(t *testing.T) {
	cfg := config.GetDefaults()
	cfg.RateLimit.RequestsPerMin = 60
	cfg.RateLimit.Burst = 3
	s := New(cfg, logger.NewNop(), nil, nil)

	limited := false
	for i := 0; i < 10; i++ {
		req := httptest.NewRequest("GET", "/v1/demo", nil)
		req.RemoteAddr = "203.0.113.7:1234"
		rec := httptest.NewRecorder()
		s.router.ServeHTTP(rec, req)
		if rec.Code == http.StatusTooManyRequests {
			limited = true
		}
	}
	if !limited {
		t.Error("expected at least one 429 under burst load")
	}
}

func TestReloadSwapsDefaults(t *testing.T) {
	s := newTestServer(t)

	cfg := config.GetDefaults()
	cfg.Sanitizer.DefaultProfile = "paranoid"
	s.Reload(cfg)

	rec := doJSON(t, s, "POST", "/v1/sanitize", map[string]interface{}{"text": "hello"})
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	var resp SanitizeResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if resp.Profile != "paranoid" {
		t.Errorf("profile = %s, want reloaded default paranoid", resp.Profile)
	}
}

func TestInfoConcurrentWithReload(t *testing.T) {
	s := newTestServer(t)

	var wg sync.WaitGroup
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 50; j++ {
				if rec := doJSON(t, s, "GET", "/info", nil); rec.Code != http.StatusOK {
					t.Errorf("status = %d, want 200", rec.Code)
					return
				}
			}
		}()
	}
	for i := 0; i < 50; i++ {
		cfg := config.GetDefaults()
		cfg.RateLimit.Enabled = false
		s.Reload(cfg)
	}
	wg.Wait()
}

func TestStatusEventSnapshot(t *testing.T) {
	s := newTestServer(t)

	if rec := doJSON(t, s, "GET", "/v1/demo", nil); rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}

	ev := s.statusEvent()
	if ev.Type != websocket.EventTypeSystemStatus {
		t.Errorf("event type = %s, want system_status", ev.Type)
	}
	status, ok := ev.Data.(websocket.SystemStatusEvent)
	if !ok {
		t.Fatalf("event data has type %T", ev.Data)
	}
	if status.TotalRequests < 1 {
		t.Errorf("total requests = %d, want >= 1", status.TotalRequests)
	}
	if status.ActiveRules <= 0 {
		t.Errorf("active rules = %d, want > 0", status.ActiveRules)
	}
	if status.Status != "healthy" {
		t.Errorf("status = %q", status.Status)
	}
}

func TestInfoReportsRequestTotal(t *testing.T) {
	s := newTestServer(t)

	doJSON(t, s, "GET", "/v1/demo", nil)
	rec := doJSON(t, s, "GET", "/info", nil)

	var info map[string]interface{}
	if err := json.Unmarshal(rec.Body.Bytes(), &info); err != nil {
		t.Fatal(err)
	}
	if total, ok := info["total_requests"].(float64); !ok || total < 1 {
		t.Errorf("total_requests = %v, want >= 1", info["total_requests"])
	}
}
