package browser

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/playwright-community/playwright-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/focusnav/internal/supports"
)

type fakePage struct {
	out   interface{}
	err   error
	delay time.Duration
	calls []string
}

func (f *fakePage) Evaluate(expression string, _ ...interface{}) (interface{}, error) {
	f.calls = append(f.calls, expression)
	if f.delay > 0 {
		time.Sleep(f.delay)
	}
	return f.out, f.err
}

func probe(t *testing.T, c supports.Capability) supports.Probe {
	t.Helper()
	p, ok := supports.ProbeFor(c)
	require.True(t, ok)
	return p
}

func TestProbeReturnsScriptResult(t *testing.T) {
	page := &fakePage{out: true}
	host := &Host{page: page, engine: Chromium}

	v, err := host.Probe(context.Background(), probe(t, supports.FocusSvg))
	require.NoError(t, err)
	assert.True(t, v)
	require.Len(t, page.calls, 1)
	assert.Contains(t, page.calls[0], "<svg")
}

func TestProbeScriptErrorIsUnsupported(t *testing.T) {
	host := &Host{page: &fakePage{err: &playwright.Error{Message: "TypeError: target.focus is not a function"}}}

	_, err := host.Probe(context.Background(), probe(t, supports.FocusSvg))
	assert.True(t, supports.IsUnsupported(err))
}

func TestProbeNonBooleanIsUnsupported(t *testing.T) {
	host := &Host{page: &fakePage{out: "yes"}}

	_, err := host.Probe(context.Background(), probe(t, supports.FocusTable))
	assert.True(t, supports.IsUnsupported(err))
}

func TestProbeTransportErrorFails(t *testing.T) {
	host := &Host{page: &fakePage{err: errors.New("target closed")}}

	_, err := host.Probe(context.Background(), probe(t, supports.FocusTable))
	require.Error(t, err)
	assert.False(t, supports.IsUnsupported(err))
	var pe *supports.ProbeError
	require.ErrorAs(t, err, &pe)
	assert.Equal(t, supports.ErrCodeProbeFailed, pe.Code)
}

func TestProbeHonoursContext(t *testing.T) {
	page := &fakePage{out: true, delay: 200 * time.Millisecond}
	host := &Host{page: page}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	_, err := host.Probe(ctx, probe(t, supports.FocusTable))
	assert.ErrorIs(t, err, context.DeadlineExceeded)

	ctx, cancel = context.WithCancel(context.Background())
	cancel()
	_, err = host.Probe(ctx, probe(t, supports.FocusTable))
	assert.ErrorIs(t, err, context.Canceled)
}

func TestUserAgent(t *testing.T) {
	host := &Host{page: &fakePage{out: "Mozilla/5.0 Firefox/52.0"}}
	ua, err := host.UserAgent(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "Mozilla/5.0 Firefox/52.0", ua)
}

func TestHostCachePopulation(t *testing.T) {
	page := &fakePage{out: false}
	cache := supports.NewCache(&Host{page: page})

	set := cache.Set(context.Background())
	assert.Len(t, page.calls, len(supports.Probes()))
	assert.Empty(t, set.Supported())

	cache.Set(context.Background())
	assert.Len(t, page.calls, len(supports.Probes()), "populated capabilities are not probed again")
}

func TestParseEngine(t *testing.T) {
	e, err := ParseEngine("")
	require.NoError(t, err)
	assert.Equal(t, Chromium, e)

	e, err = ParseEngine("WebKit")
	require.NoError(t, err)
	assert.Equal(t, WebKit, e)

	_, err = ParseEngine("trident")
	assert.Error(t, err)
}

func TestCloseWithoutBrowser(t *testing.T) {
	assert.NoError(t, (&Host{}).Close())
}
