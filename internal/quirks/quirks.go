package quirks

import (
	"bytes"
	_ "embed"
	"fmt"
	"sort"
	"sync"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"
	"gopkg.in/yaml.v3"

	"github.com/roach88/focusnav/internal/platform"
)

// Quirk names an engine behavior that deviates from the HTML focus model.
type Quirk string

const (
	NoKeyboardNavigation           Quirk = "no-keyboard-navigation"
	ForeignContextInert            Quirk = "foreign-context-inert"
	HiddenFrameDemotes             Quirk = "hidden-frame-demotes"
	ObjectFrameOpaque              Quirk = "object-frame-opaque"
	NestedSvgNegativeTabbable      Quirk = "nested-svg-negative-tabbable"
	RestrictedTabbableTypes        Quirk = "restricted-tabbable-types"
	UseNegativeTabindexTabbable    Quirk = "use-negative-tabindex-tabbable"
	SvgFocusViaAttribute           Quirk = "svg-focus-via-attribute"
	SvgNoTabindexProperty          Quirk = "svg-no-tabindex-property"
	SvgNoFocusMethod               Quirk = "svg-no-focus-method"
	AudioControlsKeepTabbable      Quirk = "audio-controls-keep-tabbable"
	VideoWithoutControlsScriptOnly Quirk = "video-without-controls-script-only"
	VideoControlsKeepTabbable      Quirk = "video-controls-keep-tabbable"
	ObjectNeverTabbable            Quirk = "object-never-tabbable"
	ScrollContainerTabbable        Quirk = "scroll-container-tabbable"
	LayoutScriptFocusOnly          Quirk = "layout-script-focus-only"
	ShadowScopedSequence           Quirk = "shadow-scoped-sequence"
	LabelOnlyTabbable              Quirk = "label-only-tabbable"
	PointerFocusInput              Quirk = "pointer-focus-input"
)

// Known lists every quirk the classifiers consult.
var Known = []Quirk{
	NoKeyboardNavigation,
	ForeignContextInert,
	HiddenFrameDemotes,
	ObjectFrameOpaque,
	NestedSvgNegativeTabbable,
	RestrictedTabbableTypes,
	UseNegativeTabindexTabbable,
	SvgFocusViaAttribute,
	SvgNoTabindexProperty,
	SvgNoFocusMethod,
	AudioControlsKeepTabbable,
	VideoWithoutControlsScriptOnly,
	VideoControlsKeepTabbable,
	ObjectNeverTabbable,
	ScrollContainerTabbable,
	LayoutScriptFocusOnly,
	ShadowScopedSequence,
	LabelOnlyTabbable,
	PointerFocusInput,
}

//go:embed quirks.yaml
var tableYAML []byte

// Entry is one row of the quirk table.
type Entry struct {
	Name        Quirk  `yaml:"name"`
	Description string `yaml:"description"`
	When        string `yaml:"when"`

	program *vm.Program
}

type tableFile struct {
	Quirks []Entry `yaml:"quirks"`
}

// Table is a compiled quirk table.
type Table struct {
	entries []Entry
}

// Set is the resolved, read-only flag set for one descriptor.
type Set map[Quirk]bool

// Has reports whether the quirk applies.
func (s Set) Has(q Quirk) bool {
	return s[q]
}

// Active returns the applying quirks in name order.
func (s Set) Active() []Quirk {
	var out []Quirk
	for q, on := range s {
		if on {
			out = append(out, q)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// predicateEnv is the variable set visible to predicates.
func predicateEnv(d platform.Descriptor) map[string]any {
	return map[string]any{
		"engine":  string(d.Engine),
		"os":      string(d.OS),
		"browser": d.Browser,
		"major":   d.Major,
	}
}

// Parse reads and compiles a quirk table. Unknown keys, unknown quirk names,
// duplicate names and predicates that do not compile to a boolean are errors.
func Parse(data []byte) (*Table, error) {
	var f tableFile
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&f); err != nil {
		return nil, fmt.Errorf("failed to parse quirk table: %w", err)
	}

	known := make(map[Quirk]bool, len(Known))
	for _, q := range Known {
		known[q] = true
	}

	seen := make(map[Quirk]bool, len(f.Quirks))
	typeEnv := predicateEnv(platform.Descriptor{})
	for i := range f.Quirks {
		e := &f.Quirks[i]
		if !known[e.Name] {
			return nil, fmt.Errorf("quirks[%d]: unknown quirk %q", i, e.Name)
		}
		if seen[e.Name] {
			return nil, fmt.Errorf("quirks[%d]: duplicate quirk %q", i, e.Name)
		}
		seen[e.Name] = true
		if e.When == "" {
			return nil, fmt.Errorf("quirks[%d]: when is required", i)
		}
		program, err := expr.Compile(e.When, expr.Env(typeEnv), expr.AsBool())
		if err != nil {
			return nil, fmt.Errorf("quirks[%d] %s: %w", i, e.Name, err)
		}
		e.program = program
	}

	return &Table{entries: f.Quirks}, nil
}

var builtin = sync.OnceValues(func() (*Table, error) {
	return Parse(tableYAML)
})

// Builtin returns the embedded quirk table.
func Builtin() *Table {
	t, err := builtin()
	if err != nil {
		// the embedded table is covered by tests
		panic(err)
	}
	return t
}

// Entries returns the table rows in declaration order.
func (t *Table) Entries() []Entry {
	out := make([]Entry, len(t.entries))
	copy(out, t.entries)
	return out
}

// Resolve evaluates every predicate for the descriptor.
func (t *Table) Resolve(d platform.Descriptor) (Set, error) {
	env := predicateEnv(d)
	set := make(Set, len(t.entries))
	for _, e := range t.entries {
		out, err := vm.Run(e.program, env)
		if err != nil {
			return nil, fmt.Errorf("evaluate quirk %s: %w", e.Name, err)
		}
		on, ok := out.(bool)
		if !ok {
			return nil, fmt.Errorf("evaluate quirk %s: result %T is not a bool", e.Name, out)
		}
		set[e.Name] = on
	}
	return set, nil
}

// For resolves the built-in table for a descriptor.
func For(d platform.Descriptor) Set {
	set, err := Builtin().Resolve(d)
	if err != nil {
		// predicates are type-checked against the same environment shape
		panic(err)
	}
	return set
}
