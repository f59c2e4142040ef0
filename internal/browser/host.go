package browser

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/playwright-community/playwright-go"

	"github.com/roach88/focusnav/internal/supports"
)

// Engine selects the playwright browser type.
type Engine string

const (
	Chromium Engine = "chromium"
	Firefox  Engine = "firefox"
	WebKit   Engine = "webkit"
)

// ParseEngine validates an engine name; "" selects Chromium.
func ParseEngine(s string) (Engine, error) {
	switch Engine(strings.ToLower(s)) {
	case "":
		return Chromium, nil
	case Chromium, Firefox, WebKit:
		return Engine(strings.ToLower(s)), nil
	default:
		return "", fmt.Errorf("unknown browser engine %q: must be one of chromium, firefox, webkit", s)
	}
}

// Options configures Launch.
type Options struct {
	Engine   Engine
	Headless bool
}

// blankPage is loaded before probing so document.body exists.
const blankPage = `<!DOCTYPE html><html><head><title>focusnav probe</title></head><body></body></html>`

// evaluator is the part of playwright.Page the host needs.
type evaluator interface {
	Evaluate(expression string, arg ...interface{}) (interface{}, error)
}

// Host implements supports.Host on a live browser page.
type Host struct {
	pw      *playwright.Playwright
	browser playwright.Browser
	page    evaluator
	engine  Engine
}

var _ supports.Host = (*Host)(nil)

// Launch starts playwright, launches the browser and opens the probe page.
func Launch(opts Options) (*Host, error) {
	pw, err := playwright.Run()
	if err != nil {
		return nil, fmt.Errorf("failed to start playwright: %w", err)
	}

	var browserType playwright.BrowserType
	switch opts.Engine {
	case Firefox:
		browserType = pw.Firefox
	case WebKit:
		browserType = pw.WebKit
	default:
		browserType = pw.Chromium
	}

	browser, err := browserType.Launch(playwright.BrowserTypeLaunchOptions{
		Headless: playwright.Bool(opts.Headless),
	})
	if err != nil {
		_ = pw.Stop()
		return nil, fmt.Errorf("failed to launch %s: %w", opts.Engine, err)
	}

	page, err := browser.NewPage()
	if err != nil {
		_ = browser.Close()
		_ = pw.Stop()
		return nil, fmt.Errorf("failed to create page: %w", err)
	}
	if err := page.SetContent(blankPage); err != nil {
		_ = browser.Close()
		_ = pw.Stop()
		return nil, fmt.Errorf("failed to load probe page: %w", err)
	}

	slog.Info("browser launched", "engine", opts.Engine, "version", browser.Version())
	return &Host{pw: pw, browser: browser, page: page, engine: opts.Engine}, nil
}

// Engine returns the launched engine.
func (h *Host) Engine() Engine {
	return h.engine
}

// UserAgent returns the page's navigator.userAgent.
func (h *Host) UserAgent(ctx context.Context) (string, error) {
	out, err := h.evaluate(ctx, `() => navigator.userAgent`)
	if err != nil {
		return "", fmt.Errorf("failed to read user agent: %w", err)
	}
	ua, ok := out.(string)
	if !ok {
		return "", fmt.Errorf("user agent has type %T", out)
	}
	return ua, nil
}

// Probe implements supports.Host. Script exceptions and non-boolean results
// mean the probe cannot run in this engine; cancellation and transport
// errors are probe failures.
func (h *Host) Probe(ctx context.Context, p supports.Probe) (bool, error) {
	out, err := h.evaluate(ctx, p.Script)
	if err != nil {
		if ctx.Err() != nil {
			return false, supports.Failed(p.Capability, ctx.Err())
		}
		var pwErr *playwright.Error
		if errors.As(err, &pwErr) && isScriptError(pwErr) {
			return false, supports.Unsupported(p.Capability, err)
		}
		return false, supports.Failed(p.Capability, err)
	}

	v, ok := out.(bool)
	if !ok {
		return false, supports.Unsupported(p.Capability, fmt.Errorf("probe returned %T", out))
	}
	slog.Debug("probe", "capability", p.Capability, "supported", v)
	return v, nil
}

// evaluate runs a script and gives up when ctx is done. playwright calls
// are not cancellable; an abandoned evaluation finishes in the background.
func (h *Host) evaluate(ctx context.Context, script string) (interface{}, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	type result struct {
		out interface{}
		err error
	}
	done := make(chan result, 1)
	go func() {
		out, err := h.page.Evaluate(script)
		done <- result{out, err}
	}()

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case r := <-done:
		return r.out, r.err
	}
}

// isScriptError reports whether the error originates from the evaluated
// script rather than from the browser connection.
func isScriptError(err *playwright.Error) bool {
	msg := err.Message
	for _, marker := range []string{"TypeError", "ReferenceError", "SyntaxError", "DOMException", "is not a function", "NotSupportedError"} {
		if strings.Contains(msg, marker) {
			return true
		}
	}
	return false
}

// Close shuts down the browser and playwright.
func (h *Host) Close() error {
	var errs []error
	if h.browser != nil {
		if err := h.browser.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close browser: %w", err))
		}
	}
	if h.pw != nil {
		if err := h.pw.Stop(); err != nil {
			errs = append(errs, fmt.Errorf("stop playwright: %w", err))
		}
	}
	return errors.Join(errs...)
}
