package paysplithandler

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/goccy/go-json"

	"paysplit/internal/domain/auth"
	"paysplit/internal/domain/command"
	"paysplit/internal/domain/payslip"
	"paysplit/internal/domain/paysplit"
	"paysplit/internal/transport/http/middleware"
)

const (
	framePath = "../../../../domain/paysplit/testdata/frame.html"
	fontPath  = "../../../../domain/payslip/testdata/DejaVuSans.ttf"
)

func newRouter(t *testing.T, source paysplit.Source, secret string) http.Handler {
	t.Helper()
	cfg := payslip.DefaultConfig()
	cfg.FontPath = fontPath
	renderer, err := payslip.NewRenderer(cfg)
	if err != nil {
		t.Fatalf("new renderer: %v", err)
	}
	service := command.NewService(source, renderer, t.TempDir(), nil, nil)

	router := chi.NewRouter()
	router.Use(middleware.RequestID)
	router.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.Auth(secret))
		NewHandler(service).RegisterRoutes(r)
	})
	return router
}

func readFrame(t *testing.T) []byte {
	t.Helper()
	data, err := os.ReadFile(framePath)
	if err != nil {
		t.Fatalf("read frame: %v", err)
	}
	return data
}

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   *struct {
		Code string `json:"code"`
	} `json:"error"`
	RequestID string `json:"requestId"`
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) envelope {
	t.Helper()
	var env envelope
	if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
		t.Fatalf("decode envelope: %v (%s)", err, rec.Body.String())
	}
	return env
}

func TestParseReturnsRecord(t *testing.T) {
	router := newRouter(t, paysplit.NewFixtureSource(), "")

	req := httptest.NewRequest(http.MethodPost, "/api/v1/paysplit/parse", bytes.NewReader(readFrame(t)))
	req.Header.Set("Content-Type", "text/html")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	env := decode(t, rec)
	if !env.Success || env.RequestID == "" {
		t.Fatalf("unexpected envelope: %+v", env)
	}
	var split paysplit.PaySplit
	if err := json.Unmarshal(env.Data, &split); err != nil {
		t.Fatalf("decode record: %v", err)
	}
	want := paysplit.SampleRecord()
	if split.MonthYear != want.MonthYear || split.Employee != want.Employee {
		t.Fatalf("unexpected record header: %+v", split)
	}
	if !split.SalaryDetail.Total.Amount.Equal(want.SalaryDetail.Total.Amount) {
		t.Fatalf("unexpected total %s", split.SalaryDetail.Total.Amount)
	}
}

func TestCommandStatuses(t *testing.T) {
	missing := paysplit.NewDocumentSource(paysplit.FileLoader{Path: filepath.Join(t.TempDir(), "gone.html")})

	tests := []struct {
		name   string
		source paysplit.Source
		body   string
		status int
		code   string
	}{
		{name: "parse fixture", source: paysplit.NewFixtureSource(), body: `{"action":"PARSE_PAYSPLIT"}`, status: http.StatusOK},
		{name: "generate fixture", source: paysplit.NewFixtureSource(), body: `{"action":"GEN_PAYSPLIT"}`, status: http.StatusOK},
		{name: "unknown action", source: paysplit.NewFixtureSource(), body: `{"action":"PRINT_PAYSPLIT"}`, status: http.StatusBadRequest, code: "unknown_action"},
		{name: "malformed json", source: paysplit.NewFixtureSource(), body: `{"action":`, status: http.StatusBadRequest, code: "invalid_payload"},
		{name: "source unavailable", source: missing, body: `{"action":"PARSE_PAYSPLIT"}`, status: http.StatusBadGateway, code: "source_unavailable"},
		{name: "inline document missing sections", source: paysplit.NewFixtureSource(), body: `{"action":"PARSE_PAYSPLIT","document":"<html><body><p>login</p></body></html>"}`, status: http.StatusUnprocessableEntity, code: "extraction_failed"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			router := newRouter(t, tc.source, "")
			req := httptest.NewRequest(http.MethodPost, "/api/v1/commands", strings.NewReader(tc.body))
			req.Header.Set("Content-Type", "application/json")
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, req)

			if rec.Code != tc.status {
				t.Fatalf("expected %d, got %d: %s", tc.status, rec.Code, rec.Body.String())
			}
			env := decode(t, rec)
			if tc.code == "" {
				if !env.Success {
					t.Fatalf("expected success: %s", rec.Body.String())
				}
				return
			}
			if env.Error == nil || env.Error.Code != tc.code {
				t.Fatalf("expected error code %q: %s", tc.code, rec.Body.String())
			}
		})
	}
}

func TestGenerateResponseNamesFile(t *testing.T) {
	router := newRouter(t, paysplit.NewFixtureSource(), "")
	req := httptest.NewRequest(http.MethodPost, "/api/v1/commands", strings.NewReader(`{"action":"GEN_PAYSPLIT"}`))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	var resp command.Response
	if err := json.Unmarshal(decode(t, rec).Data, &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.Action != command.ActionGenerate || resp.FileName != "202407-周星星-paysplit.pdf" || resp.PaySplit != nil {
		t.Fatalf("unexpected response: %+v", resp)
	}
}

func TestRenderReturnsPDF(t *testing.T) {
	router := newRouter(t, paysplit.NewFixtureSource(), "")
	req := httptest.NewRequest(http.MethodPost, "/api/v1/paysplit/render", bytes.NewReader(readFrame(t)))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if rec.Header().Get("Content-Type") != "application/pdf" {
		t.Fatalf("unexpected content type %q", rec.Header().Get("Content-Type"))
	}
	if !strings.HasPrefix(rec.Header().Get("Content-Disposition"), "attachment") {
		t.Fatalf("unexpected disposition %q", rec.Header().Get("Content-Disposition"))
	}
	if !bytes.HasPrefix(rec.Body.Bytes(), []byte("%PDF-")) {
		t.Fatal("body is not a PDF")
	}
}

func TestRenderRejectsEmptyBody(t *testing.T) {
	router := newRouter(t, paysplit.NewFixtureSource(), "")
	req := httptest.NewRequest(http.MethodPost, "/api/v1/paysplit/render", strings.NewReader("  \n"))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestSamplePDF(t *testing.T) {
	missing := paysplit.NewDocumentSource(paysplit.FileLoader{Path: filepath.Join(t.TempDir(), "gone.html")})
	router := newRouter(t, missing, "")
	req := httptest.NewRequest(http.MethodGet, "/api/v1/paysplit/sample.pdf", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK || !bytes.HasPrefix(rec.Body.Bytes(), []byte("%PDF-")) {
		t.Fatalf("expected sample PDF, got %d", rec.Code)
	}
}

func TestCommandsRequireTokenWhenSecretSet(t *testing.T) {
	router := newRouter(t, paysplit.NewFixtureSource(), "secret")

	req := httptest.NewRequest(http.MethodPost, "/api/v1/commands", strings.NewReader(`{"action":"PARSE_PAYSPLIT"}`))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without token, got %d", rec.Code)
	}

	token, err := auth.GenerateToken("secret", auth.Claims{ClientID: "hr-frame"}, time.Hour)
	if err != nil {
		t.Fatalf("token: %v", err)
	}
	req = httptest.NewRequest(http.MethodPost, "/api/v1/commands", strings.NewReader(`{"action":"PARSE_PAYSPLIT"}`))
	req.Header.Set("Authorization", "Bearer "+token)
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 with token, got %d: %s", rec.Code, rec.Body.String())
	}
}
