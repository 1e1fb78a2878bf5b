package config

import (
	"testing"
	"time"
)

func TestLoadReadsEnvironment(t *testing.T) {
	t.Setenv("SOURCE_KIND", "LIVE")
	t.Setenv("SOURCE_URL", "https://hr.example.com/salary")
	t.Setenv("BROWSER_TIMEOUT", "45s")
	t.Setenv("BROWSER_NO_SANDBOX", "true")
	t.Setenv("RATE_LIMIT_PER_MINUTE", "not-a-number")
	t.Setenv("FONT_PATH", "fonts/NotoSansTC-Regular.ttf")
	t.Setenv("TRUSTED_PROXIES", "10.0.0.0/8, 192.0.2.1")

	cfg := Load()
	if cfg.SourceKind != SourceLive {
		t.Fatalf("expected live source, got %q", cfg.SourceKind)
	}
	if cfg.BrowserTimeout != 45*time.Second || !cfg.BrowserNoSandbox {
		t.Fatalf("unexpected browser settings: %+v", cfg)
	}
	if cfg.RateLimitPerMinute != 60 {
		t.Fatalf("expected fallback rate limit, got %d", cfg.RateLimitPerMinute)
	}
	if cfg.FrameSelector != "iframe#mainFrame" {
		t.Fatalf("unexpected default frame selector %q", cfg.FrameSelector)
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("unexpected validation error: %v", err)
	}
	prefixes, err := cfg.TrustedProxyPrefixes()
	if err != nil || len(prefixes) != 2 || prefixes[1].String() != "192.0.2.1/32" {
		t.Fatalf("unexpected trusted proxies %v (%v)", prefixes, err)
	}
}

func TestValidate(t *testing.T) {
	base := Config{SourceKind: SourceFixture, MaxBodyBytes: 4096, RateLimitPerMinute: 10, FontPath: "payslip.ttf"}

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{name: "fixture source", mutate: func(c *Config) {}},
		{name: "file source without path", mutate: func(c *Config) { c.SourceKind = SourceFile }, wantErr: true},
		{name: "file source with path", mutate: func(c *Config) { c.SourceKind = SourceFile; c.SourcePath = "frame.html" }},
		{name: "live source without url", mutate: func(c *Config) { c.SourceKind = SourceLive }, wantErr: true},
		{name: "unknown source", mutate: func(c *Config) { c.SourceKind = "ftp" }, wantErr: true},
		{name: "production without secret", mutate: func(c *Config) { c.Environment = "production" }, wantErr: true},
		{name: "tiny body limit", mutate: func(c *Config) { c.MaxBodyBytes = 10 }, wantErr: true},
		{name: "zero rate limit", mutate: func(c *Config) { c.RateLimitPerMinute = 0 }, wantErr: true},
		{name: "missing font", mutate: func(c *Config) { c.FontPath = "" }, wantErr: true},
		{name: "trusted proxy cidr", mutate: func(c *Config) { c.TrustedProxies = "10.0.0.0/8,::1" }},
		{name: "bad trusted proxy", mutate: func(c *Config) { c.TrustedProxies = "10.0.0.0/8,proxy.local" }, wantErr: true},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			cfg := base
			tc.mutate(&cfg)
			err := cfg.Validate()
			if tc.wantErr && err == nil {
				t.Fatal("expected validation error")
			}
			if !tc.wantErr && err != nil {
				t.Fatalf("unexpected validation error: %v", err)
			}
		})
	}
}
