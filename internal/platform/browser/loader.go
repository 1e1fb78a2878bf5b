// Package browser loads the payroll frame from the live HR page with a
// headless Chrome instance.
package browser

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/chromedp/cdproto/network"
	"github.com/chromedp/chromedp"
	"github.com/go-rod/rod/lib/launcher"

	"paysplit/internal/domain/paysplit"
)

// Loader reads the embedded frame's document from a page URL. Every Load
// starts and stops its own browser.
type Loader struct {
	pageURL string
	cfg     loaderConfig
	cookies []*http.Cookie
}

func NewLoader(pageURL string, opts ...Option) (*Loader, error) {
	if _, err := url.ParseRequestURI(pageURL); err != nil {
		return nil, fmt.Errorf("browser: invalid page URL %q: %w", pageURL, err)
	}
	cfg := defaultConfig()
	for _, o := range opts {
		o(&cfg)
	}
	cookies, err := parseCookies(cfg.cookies)
	if err != nil {
		return nil, err
	}
	return &Loader{pageURL: pageURL, cfg: cfg, cookies: cookies}, nil
}

func (l *Loader) Load(ctx context.Context) (*goquery.Document, error) {
	chromePath, err := l.chromePath()
	if err != nil {
		return nil, err
	}

	allocOpts := append(
		chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("disable-dev-shm-usage", true),
		chromedp.Flag("disable-extensions", true),
		chromedp.Flag("no-first-run", true),
	)
	if chromePath != "" {
		allocOpts = append(allocOpts, chromedp.ExecPath(chromePath))
	}
	if l.cfg.noSandbox {
		allocOpts = append(allocOpts, chromedp.Flag("no-sandbox", true))
	}

	if l.cfg.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, l.cfg.timeout)
		defer cancel()
	}

	allocCtx, allocCancel := chromedp.NewExecAllocator(ctx, allocOpts...)
	defer allocCancel()
	tabCtx, tabCancel := chromedp.NewContext(allocCtx)
	defer tabCancel()

	pollOpts := []chromedp.PollOption{}
	if l.cfg.timeout > 0 {
		pollOpts = append(pollOpts, chromedp.WithPollingTimeout(l.cfg.timeout))
	}

	var markup string
	if err := chromedp.Run(tabCtx,
		l.setCookies(),
		chromedp.Navigate(l.pageURL),
		chromedp.WaitReady("body", chromedp.ByQuery),
	); err != nil {
		return nil, fmt.Errorf("%w: loading %s: %w", paysplit.ErrSourceUnavailable, l.pageURL, err)
	}
	if err := chromedp.Run(tabCtx, chromedp.Poll(frameScript(l.cfg.frameSelector), &markup, pollOpts...)); err != nil {
		return nil, fmt.Errorf("%w: frame %s: %w", paysplit.ErrSourceUnavailable, l.cfg.frameSelector, err)
	}
	return paysplit.ReaderLoader{HTML: []byte(markup)}.Load(ctx)
}

func (l *Loader) chromePath() (string, error) {
	if l.cfg.chromePath != "" || !l.cfg.download {
		return l.cfg.chromePath, nil
	}
	path, err := launcher.NewBrowser().Get()
	if err != nil {
		return "", fmt.Errorf("browser: downloading chromium: %w", err)
	}
	return path, nil
}

func (l *Loader) setCookies() chromedp.Action {
	return chromedp.ActionFunc(func(ctx context.Context) error {
		for _, c := range l.cookies {
			if err := network.SetCookie(c.Name, c.Value).WithURL(l.pageURL).Do(ctx); err != nil {
				return fmt.Errorf("browser: set cookie %s: %w", c.Name, err)
			}
		}
		return nil
	})
}

func parseCookies(header string) ([]*http.Cookie, error) {
	if strings.TrimSpace(header) == "" {
		return nil, nil
	}
	cookies, err := http.ParseCookie(header)
	if err != nil {
		return nil, fmt.Errorf("browser: invalid cookies: %w", err)
	}
	return cookies, nil
}

// frameScript evaluates to the frame's serialized document once it has fully
// loaded, and to false until then.
func frameScript(selector string) string {
	return `(() => {
	const frame = document.querySelector(` + strconv.Quote(selector) + `);
	const doc = frame && frame.contentDocument;
	if (!doc || doc.readyState !== "complete" || !doc.body) {
		return false;
	}
	return doc.documentElement.outerHTML;
})()`
}
