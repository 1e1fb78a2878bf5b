package server

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"paysplit/internal/domain/paysplit"
	"paysplit/internal/platform/config"
	"paysplit/internal/platform/metrics"
)

func testConfig(t *testing.T) config.Config {
	t.Helper()
	return config.Config{
		Environment:        "test",
		OutputDir:          t.TempDir(),
		FontPath:           "../../domain/payslip/testdata/DejaVuSans.ttf",
		SourceKind:         config.SourceFixture,
		FrameSelector:      "iframe#mainFrame",
		BrowserTimeout:     time.Second,
		MaxBodyBytes:       1 << 20,
		RateLimitPerMinute: 60,
		MetricsEnabled:     true,
	}
}

func TestNewSource(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*config.Config)
		wantErr bool
		check   func(paysplit.Source) bool
	}{
		{
			name:   "fixture",
			mutate: func(c *config.Config) { c.SourceKind = config.SourceFixture },
			check:  func(s paysplit.Source) bool { _, ok := s.(*paysplit.FixtureSource); return ok },
		},
		{
			name:   "file",
			mutate: func(c *config.Config) { c.SourceKind = config.SourceFile; c.SourcePath = "frame.html" },
			check:  func(s paysplit.Source) bool { _, ok := s.(*paysplit.DocumentSource); return ok },
		},
		{
			name: "live",
			mutate: func(c *config.Config) {
				c.SourceKind = config.SourceLive
				c.SourceURL = "https://hr.example.com/payslip"
			},
			check: func(s paysplit.Source) bool { _, ok := s.(*paysplit.DocumentSource); return ok },
		},
		{
			name:    "live with bad url",
			mutate:  func(c *config.Config) { c.SourceKind = config.SourceLive; c.SourceURL = "not a url" },
			wantErr: true,
		},
		{
			name:    "unknown kind",
			mutate:  func(c *config.Config) { c.SourceKind = "ftp" },
			wantErr: true,
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			cfg := testConfig(t)
			tc.mutate(&cfg)
			source, err := NewSource(cfg)
			if tc.wantErr {
				if err == nil {
					t.Fatal("expected error")
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !tc.check(source) {
				t.Fatalf("unexpected source type %T", source)
			}
		})
	}
}

func TestNewServiceRejectsMissingFont(t *testing.T) {
	cfg := testConfig(t)
	cfg.FontPath = "does-not-exist.ttf"
	if _, err := NewService(cfg, nil); err == nil {
		t.Fatal("expected font load error")
	}
}

func TestRouter(t *testing.T) {
	cfg := testConfig(t)
	collector := metrics.New()
	service, err := NewService(cfg, collector)
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	router := NewRouter(cfg, service, collector)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	if rec.Code != http.StatusOK || rec.Body.String() != "ok" {
		t.Fatalf("unexpected healthz response %d %q", rec.Code, rec.Body.String())
	}

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/paysplit/sample.pdf", nil))
	if rec.Code != http.StatusOK || !bytes.HasPrefix(rec.Body.Bytes(), []byte("%PDF-")) {
		t.Fatalf("unexpected sample response %d", rec.Code)
	}
	if rec.Header().Get("X-Request-ID") == "" || rec.Header().Get("X-Content-Type-Options") != "nosniff" {
		t.Fatalf("expected shared middleware headers, got %v", rec.Header())
	}

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/v1/commands", strings.NewReader(`{"action":"NOPE"}`)))
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for unknown action, got %d", rec.Code)
	}

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), `"commandFailuresTotal":1`) {
		t.Fatalf("unexpected metrics response %d %s", rec.Code, rec.Body.String())
	}
}

func TestRouterHidesMetricsWhenDisabled(t *testing.T) {
	cfg := testConfig(t)
	cfg.MetricsEnabled = false
	service, err := NewService(cfg, nil)
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	rec := httptest.NewRecorder()
	NewRouter(cfg, service, metrics.New()).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
}
