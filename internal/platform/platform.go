package platform

import (
	"fmt"
	"sync"

	"github.com/roach88/focusnav/internal/digest"
)

// Engine identifies a rendering engine family.
type Engine string

const (
	Trident Engine = "trident"
	Edge    Engine = "edge" // EdgeHTML, not Chromium-based Edge
	Gecko   Engine = "gecko"
	WebKit  Engine = "webkit"
	Blink   Engine = "blink"
)

// OS identifies the operating system family.
type OS string

const (
	Windows  OS = "windows"
	OSX      OS = "osx"
	Linux    OS = "linux"
	Android  OS = "android"
	IOS      OS = "ios"
	ChromeOS OS = "chromeos"
	Unknown  OS = "unknown"
)

// Descriptor is the immutable environment record consumed by the classifiers.
type Descriptor struct {
	Engine    Engine `json:"engine"`
	OS        OS     `json:"os"`
	Browser   string `json:"browser"` // lowercase product name: chrome, opera, firefox, safari, ie, edge
	Major     int    `json:"major"`
	UserAgent string `json:"user_agent,omitempty"`
}

// Is reports whether the descriptor belongs to any of the given engines.
func (d Descriptor) Is(engines ...Engine) bool {
	for _, e := range engines {
		if d.Engine == e {
			return true
		}
	}
	return false
}

// String renders the descriptor for logs and CLI output.
func (d Descriptor) String() string {
	if d.Engine == "" {
		return fmt.Sprintf("unknown engine on %s", d.OS)
	}
	return fmt.Sprintf("%s %d (%s on %s)", d.Browser, d.Major, d.Engine, d.OS)
}

// Key returns the content-addressed fingerprint of the descriptor.
// The user agent itself is excluded: two agents that resolve to the same
// engine, OS, product and major version share probe results.
func (d Descriptor) Key() string {
	key, err := digest.Fingerprint(digest.DomainEnvironment, map[string]any{
		"engine":  string(d.Engine),
		"os":      string(d.OS),
		"browser": d.Browser,
		"major":   d.Major,
	})
	if err != nil {
		// only strings and ints are marshaled
		panic(err)
	}
	return key
}

var (
	describeOnce sync.Once
	described    Descriptor
)

// Describe returns the descriptor of the process's runtime. The first call
// parses userAgent; later calls return the same descriptor regardless of
// their argument.
func Describe(userAgent string) Descriptor {
	describeOnce.Do(func() {
		described = Parse(userAgent)
	})
	return described
}
