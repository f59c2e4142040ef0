package supports

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProbeRegistry(t *testing.T) {
	seen := make(map[Capability]bool)
	for _, p := range Probes() {
		assert.False(t, seen[p.Capability], "duplicate probe %s", p.Capability)
		seen[p.Capability] = true

		assert.True(t, strings.HasPrefix(p.Script, "async () => {"), p.Capability)
		assert.Contains(t, p.Script, "return ", p.Capability)
		assert.NotContains(t, p.Script, "%!", "format error in %s", p.Capability)
	}
	assert.Len(t, seen, 32)
	assert.Equal(t, len(Probes()), len(Capabilities()))

	p, ok := ProbeFor(TabsequenceAreaAtImgPosition)
	require.True(t, ok)
	assert.Equal(t, TabsequenceAreaAtImgPosition, p.Capability)

	_, ok = ProbeFor("focusTelepathy")
	assert.False(t, ok)
}

func TestParseSet(t *testing.T) {
	set, err := ParseSet(map[string]bool{"focusSvg": true, "focusTable": false})
	require.NoError(t, err)
	assert.True(t, set.Has(FocusSvg))
	assert.False(t, set.Has(FocusTable))
	assert.False(t, set.Has(ShadowRoot))
	assert.Equal(t, []Capability{FocusSvg, FocusTable}, set.Names())

	_, err = ParseSet(map[string]bool{"focusSvgg": true})
	assert.ErrorContains(t, err, "focusSvgg")
}

func TestProbeErrors(t *testing.T) {
	unsupported := Unsupported(FocusSvg, errors.New("no SVG"))
	assert.True(t, errors.Is(unsupported, ErrUnsupportedProbe))
	assert.True(t, IsUnsupported(fmt.Errorf("wrapped: %w", unsupported)))
	assert.Equal(t, "UNSUPPORTED_PROBE: focusSvg: no SVG", unsupported.Error())

	failed := Failed(FocusSvg, context.DeadlineExceeded)
	assert.False(t, IsUnsupported(failed))
	assert.True(t, errors.Is(failed, context.DeadlineExceeded))

	var pe *ProbeError
	require.True(t, errors.As(fmt.Errorf("x: %w", failed), &pe))
	assert.Equal(t, ErrCodeProbeFailed, pe.Code)
}

func TestTableHost(t *testing.T) {
	host := TableHost(Set{FocusSvg: true})
	p, _ := ProbeFor(FocusSvg)

	v, err := host.Probe(context.Background(), p)
	require.NoError(t, err)
	assert.True(t, v)

	p, _ = ProbeFor(FocusTable)
	_, err = host.Probe(context.Background(), p)
	assert.True(t, IsUnsupported(err))
}
