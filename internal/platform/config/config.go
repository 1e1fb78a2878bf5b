package config

import (
	"fmt"
	"log/slog"
	"net/netip"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	SourceFile    = "file"
	SourceLive    = "live"
	SourceFixture = "fixture"
)

type Config struct {
	Addr               string
	Environment        string
	LogLevel           string
	JWTSecret          string
	DataEncryptionKey  string
	OutputDir          string
	SourceKind         string
	SourcePath         string
	SourceURL          string
	SourceCookies      string
	FrameSelector      string
	ChromePath         string
	BrowserDownload    bool
	BrowserNoSandbox   bool
	BrowserTimeout     time.Duration
	FontPath           string
	WatermarkPath      string
	MaxBodyBytes       int64
	RateLimitPerMinute int
	TrustedProxies     string
	MetricsEnabled     bool
}

// Load reads configuration from the environment. A .env file in the working
// directory is applied first when present.
func Load() Config {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		slog.Warn("load .env failed", "err", err)
	}

	return Config{
		Addr:               getEnv("APP_ADDR", ":8080"),
		Environment:        getEnv("APP_ENV", "development"),
		LogLevel:           getEnv("LOG_LEVEL", "info"),
		JWTSecret:          getEnv("JWT_SECRET", ""),
		DataEncryptionKey:  getEnv("DATA_ENCRYPTION_KEY", ""),
		OutputDir:          getEnv("OUTPUT_DIR", "storage/payslips"),
		SourceKind:         strings.ToLower(getEnv("SOURCE_KIND", SourceFile)),
		SourcePath:         getEnv("SOURCE_PATH", ""),
		SourceURL:          getEnv("SOURCE_URL", ""),
		SourceCookies:      getEnv("SOURCE_COOKIES", ""),
		FrameSelector:      getEnv("FRAME_SELECTOR", "iframe#mainFrame"),
		ChromePath:         getEnv("CHROME_PATH", ""),
		BrowserDownload:    getEnvBool("BROWSER_DOWNLOAD", false),
		BrowserNoSandbox:   getEnvBool("BROWSER_NO_SANDBOX", false),
		BrowserTimeout:     getEnvDuration("BROWSER_TIMEOUT", 30*time.Second),
		FontPath:           getEnv("FONT_PATH", ""),
		WatermarkPath:      getEnv("WATERMARK_PATH", ""),
		MaxBodyBytes:       int64(getEnvInt("MAX_BODY_BYTES", 2097152)),
		RateLimitPerMinute: getEnvInt("RATE_LIMIT_PER_MINUTE", 60),
		TrustedProxies:     getEnv("TRUSTED_PROXIES", ""),
		MetricsEnabled:     getEnvBool("METRICS_ENABLED", true),
	}
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	parsed, err := strconv.ParseBool(value)
	if err != nil {
		return fallback
	}
	return parsed
}

func getEnvInt(key string, fallback int) int {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return fallback
	}
	return parsed
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	parsed, err := time.ParseDuration(value)
	if err != nil {
		return fallback
	}
	return parsed
}

func (c Config) Validate() error {
	switch c.SourceKind {
	case SourceFile:
		if strings.TrimSpace(c.SourcePath) == "" {
			return fmt.Errorf("SOURCE_PATH is required when SOURCE_KIND is file")
		}
	case SourceLive:
		if strings.TrimSpace(c.SourceURL) == "" {
			return fmt.Errorf("SOURCE_URL is required when SOURCE_KIND is live")
		}
		if strings.TrimSpace(c.FrameSelector) == "" {
			return fmt.Errorf("FRAME_SELECTOR must not be empty")
		}
	case SourceFixture:
	default:
		return fmt.Errorf("SOURCE_KIND must be one of file, live, fixture")
	}
	if c.Environment == "production" && strings.TrimSpace(c.JWTSecret) == "" {
		return fmt.Errorf("JWT_SECRET must be set in production")
	}
	if c.MaxBodyBytes < 1024 {
		return fmt.Errorf("MAX_BODY_BYTES must be at least 1024")
	}
	if c.RateLimitPerMinute <= 0 {
		return fmt.Errorf("RATE_LIMIT_PER_MINUTE must be positive")
	}
	if c.BrowserTimeout < 0 {
		return fmt.Errorf("BROWSER_TIMEOUT must not be negative")
	}
	if strings.TrimSpace(c.FontPath) == "" {
		return fmt.Errorf("FONT_PATH is required: payslip labels need a TrueType font with CJK glyphs")
	}
	if _, err := c.TrustedProxyPrefixes(); err != nil {
		return err
	}
	return nil
}

// TrustedProxyPrefixes parses TRUSTED_PROXIES, a comma-separated list of CIDR
// ranges or single addresses.
func (c Config) TrustedProxyPrefixes() ([]netip.Prefix, error) {
	var prefixes []netip.Prefix
	for _, field := range strings.Split(c.TrustedProxies, ",") {
		field = strings.TrimSpace(field)
		if field == "" {
			continue
		}
		if prefix, err := netip.ParsePrefix(field); err == nil {
			prefixes = append(prefixes, prefix.Masked())
			continue
		}
		addr, err := netip.ParseAddr(field)
		if err != nil {
			return nil, fmt.Errorf("TRUSTED_PROXIES: invalid entry %q", field)
		}
		prefixes = append(prefixes, netip.PrefixFrom(addr, addr.BitLen()))
	}
	return prefixes, nil
}
