package browser

import "time"

type loaderConfig struct {
	chromePath    string
	download      bool
	noSandbox     bool
	timeout       time.Duration
	frameSelector string
	cookies       string
}

func defaultConfig() loaderConfig {
	return loaderConfig{
		timeout:       30 * time.Second,
		frameSelector: "iframe#mainFrame",
	}
}

// Option configures a Loader.
type Option func(*loaderConfig)

// WithChromePath sets the Chrome or Chromium executable. By default chromedp
// searches the standard locations.
func WithChromePath(path string) Option {
	return func(c *loaderConfig) {
		c.chromePath = path
	}
}

// WithDownload fetches a Chromium build when no executable path is set.
func WithDownload(enabled bool) Option {
	return func(c *loaderConfig) {
		c.download = enabled
	}
}

// WithNoSandbox disables the Chrome sandbox, required when running as root.
func WithNoSandbox(enabled bool) Option {
	return func(c *loaderConfig) {
		c.noSandbox = enabled
	}
}

// WithTimeout bounds one page load. Zero disables the bound.
func WithTimeout(d time.Duration) Option {
	return func(c *loaderConfig) {
		c.timeout = d
	}
}

// WithFrameSelector sets the CSS selector of the embedded payroll frame.
func WithFrameSelector(selector string) Option {
	return func(c *loaderConfig) {
		if selector != "" {
			c.frameSelector = selector
		}
	}
}

// WithCookies installs session cookies ("name=value; other=value") for the
// page URL before navigating.
func WithCookies(header string) Option {
	return func(c *loaderConfig) {
		c.cookies = header
	}
}
