package profile

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	cueerrors "cuelang.org/go/cue/errors"
	"cuelang.org/go/cue/load"
	"cuelang.org/go/cue/token"
	"github.com/agnivade/levenshtein"

	"github.com/roach88/focusnav/internal/platform"
	"github.com/roach88/focusnav/internal/supports"
)

//go:embed schema.cue
var schemaCUE []byte

//go:embed builtin.cue
var builtinCUE []byte

// SourceBuiltin marks profiles compiled into the binary.
const SourceBuiltin = "builtin"

// Error codes for profile loading.
const (
	ErrCodeNotFound    = "E101" // profile directory missing or empty
	ErrCodeLoadFailed  = "E102" // CUE load or build failed
	ErrCodeInvalid     = "E103" // profile does not satisfy #Profile
	ErrCodeUnknownName = "E104" // no profile with the requested name
)

// LoadError describes a profile that could not be loaded or found.
type LoadError struct {
	Code    string
	Message string
	Pos     token.Pos // CUE position if available
}

func (e *LoadError) Error() string {
	if e.Pos.IsValid() {
		return fmt.Sprintf("%s:%d:%d: %s: %s", e.Pos.Filename(), e.Pos.Line(), e.Pos.Column(), e.Code, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// IsUnknownProfile reports whether err is a lookup of a missing profile.
func IsUnknownProfile(err error) bool {
	var le *LoadError
	return errors.As(err, &le) && le.Code == ErrCodeUnknownName
}

// Profile is an environment with a recorded capability table.
type Profile struct {
	Name         string
	Description  string
	UserAgent    string
	Capabilities supports.Set
	Source       string // SourceBuiltin or the directory it was loaded from
}

// Descriptor parses the profile's user agent.
func (p Profile) Descriptor() platform.Descriptor {
	return platform.Parse(p.UserAgent)
}

// rawProfile mirrors #Profile for decoding.
type rawProfile struct {
	Description  string          `json:"description"`
	UserAgent    string          `json:"user_agent"`
	Capabilities map[string]bool `json:"capabilities"`
}

// Registry is a set of named profiles.
type Registry struct {
	profiles map[string]Profile
}

var builtin = sync.OnceValues(func() (*Registry, error) {
	ctx := cuecontext.New()
	schema := ctx.CompileBytes(schemaCUE, cue.Filename("schema.cue"))
	value := schema.Unify(ctx.CompileBytes(builtinCUE, cue.Filename("builtin.cue")))
	return decode(value, SourceBuiltin)
})

// Builtin returns the embedded profiles.
func Builtin() *Registry {
	r, err := builtin()
	if err != nil {
		// the embedded profiles are covered by tests
		panic(err)
	}
	return r
}

// LoadDir loads every profile defined by the CUE package in dir.
func LoadDir(dir string) (*Registry, error) {
	info, err := os.Stat(dir)
	if err != nil {
		return nil, &LoadError{Code: ErrCodeNotFound, Message: fmt.Sprintf("profiles directory not found: %s", dir)}
	}
	if !info.IsDir() {
		return nil, &LoadError{Code: ErrCodeNotFound, Message: fmt.Sprintf("not a directory: %s", dir)}
	}
	files, err := filepath.Glob(filepath.Join(dir, "*.cue"))
	if err != nil || len(files) == 0 {
		return nil, &LoadError{Code: ErrCodeNotFound, Message: fmt.Sprintf("no CUE files found in %s", dir)}
	}

	instances := load.Instances([]string{"."}, &load.Config{Dir: dir})
	if len(instances) == 0 {
		return nil, &LoadError{Code: ErrCodeLoadFailed, Message: "no CUE instances loaded"}
	}
	inst := instances[0]
	if inst.Err != nil {
		return nil, &LoadError{Code: ErrCodeLoadFailed, Message: fmt.Sprintf("loading CUE files: %v", inst.Err)}
	}

	ctx := cuecontext.New()
	user := ctx.BuildInstance(inst)
	if err := user.Err(); err != nil {
		return nil, &LoadError{Code: ErrCodeLoadFailed, Message: fmt.Sprintf("building CUE value: %v", err), Pos: errPos(err)}
	}
	schema := ctx.CompileBytes(schemaCUE, cue.Filename("schema.cue"))
	return decode(schema.Unify(user), dir)
}

func decode(value cue.Value, source string) (*Registry, error) {
	if err := value.Validate(cue.Concrete(true)); err != nil {
		return nil, &LoadError{Code: ErrCodeInvalid, Message: cueerrors.Details(err, nil), Pos: errPos(err)}
	}

	r := &Registry{profiles: make(map[string]Profile)}
	profiles := value.LookupPath(cue.ParsePath("profile"))
	if !profiles.Exists() {
		return r, nil
	}
	iter, err := profiles.Fields()
	if err != nil {
		return nil, &LoadError{Code: ErrCodeInvalid, Message: fmt.Sprintf("iterating profiles: %v", err)}
	}
	for iter.Next() {
		name := iter.Label()
		var raw rawProfile
		if err := iter.Value().Decode(&raw); err != nil {
			return nil, &LoadError{Code: ErrCodeInvalid, Message: fmt.Sprintf("profile %s: %v", name, err), Pos: iter.Value().Pos()}
		}
		caps, err := supports.ParseSet(raw.Capabilities)
		if err != nil {
			return nil, &LoadError{Code: ErrCodeInvalid, Message: fmt.Sprintf("profile %s: %v", name, err), Pos: iter.Value().Pos()}
		}
		r.profiles[name] = Profile{
			Name:         name,
			Description:  raw.Description,
			UserAgent:    raw.UserAgent,
			Capabilities: caps,
			Source:       source,
		}
	}
	return r, nil
}

func errPos(err error) token.Pos {
	var cerr cueerrors.Error
	if errors.As(err, &cerr) {
		return cerr.Position()
	}
	return token.NoPos
}

// Names returns the profile names in order.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.profiles))
	for name := range r.profiles {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Profiles returns the profiles in name order.
func (r *Registry) Profiles() []Profile {
	out := make([]Profile, 0, len(r.profiles))
	for _, name := range r.Names() {
		out = append(out, r.profiles[name])
	}
	return out
}

// Get returns a profile by name. Unknown names produce an E104 error that
// suggests the closest known name.
func (r *Registry) Get(name string) (Profile, error) {
	p, ok := r.profiles[name]
	if ok {
		return p, nil
	}
	msg := fmt.Sprintf("unknown profile %q", name)
	if s := Suggest(name, r.Names()); s != "" {
		msg += fmt.Sprintf(" (did you mean %q?)", s)
	}
	return Profile{}, &LoadError{Code: ErrCodeUnknownName, Message: msg}
}

// Merge returns a registry holding r's profiles overlaid with other's.
func (r *Registry) Merge(other *Registry) *Registry {
	out := &Registry{profiles: make(map[string]Profile, len(r.profiles))}
	for k, v := range r.profiles {
		out.profiles[k] = v
	}
	if other != nil {
		for k, v := range other.profiles {
			out.profiles[k] = v
		}
	}
	return out
}

// Suggest returns the candidate closest to name by edit distance, or "" when
// nothing is within a third of the name's length.
func Suggest(name string, candidates []string) string {
	best, bestDist := "", -1
	for _, c := range candidates {
		d := levenshtein.ComputeDistance(name, c)
		if bestDist < 0 || d < bestDist {
			best, bestDist = c, d
		}
	}
	limit := len(name) / 3
	if limit < 2 {
		limit = 2
	}
	if bestDist < 0 || bestDist > limit {
		return ""
	}
	return best
}
