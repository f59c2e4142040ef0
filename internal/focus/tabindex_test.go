package focus

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseTabindex(t *testing.T) {
	tests := []struct {
		name     string
		raw      string
		present  bool
		trailing bool
		want     Tabindex
	}{
		{name: "absent", present: false, want: Tabindex{Kind: TabindexAbsent}},
		{name: "empty", raw: "", present: true, want: Tabindex{Kind: TabindexInvalid}},
		{name: "zero", raw: "0", present: true, want: Tabindex{Kind: TabindexValue, Value: 0}},
		{name: "negative with spaces", raw: " -1 ", present: true, want: Tabindex{Kind: TabindexValue, Value: -1}},
		{name: "explicit plus", raw: "+3", present: true, want: Tabindex{Kind: TabindexValue, Value: 3}},
		{name: "word", raw: "abc", present: true, want: Tabindex{Kind: TabindexInvalid}},
		{name: "trailing rejected", raw: "3x", present: true, want: Tabindex{Kind: TabindexInvalid}},
		{name: "trailing accepted", raw: "3x", present: true, trailing: true, want: Tabindex{Kind: TabindexValue, Value: 3}},
		{name: "overflow", raw: "99999999999999999999", present: true, want: Tabindex{Kind: TabindexInvalid}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseTabindex(tt.raw, tt.present, tt.trailing))
		})
	}
}

func TestTabindexPredicates(t *testing.T) {
	absent := Tabindex{Kind: TabindexAbsent}
	invalid := Tabindex{Kind: TabindexInvalid}
	negative := Tabindex{Kind: TabindexValue, Value: -1}
	zero := Tabindex{Kind: TabindexValue}

	// absent and invalid stay distinct from -1
	assert.False(t, absent.Negative())
	assert.False(t, invalid.Negative())
	assert.True(t, negative.Negative())

	assert.True(t, absent.TabbableOrNone())
	assert.True(t, invalid.TabbableOrNone())
	assert.False(t, negative.TabbableOrNone())

	assert.False(t, absent.NonNegative())
	assert.True(t, zero.NonNegative())

	assert.Equal(t, "absent", absent.String())
	assert.Equal(t, "invalid", invalid.String())
	assert.Equal(t, "-1", negative.String())
}
