// Package quirks resolves engine-specific behavior into a flat flag set.
//
// The table in quirks.yaml maps each quirk to a boolean predicate over the
// environment descriptor (engine, os, browser, major). Predicates are
// compiled with expr once per process and evaluated once per descriptor, so
// classifier rules test a single flag instead of repeating nested
// engine/version conditionals.
//
// Predicate environment:
//
//	engine   string  trident | edge | gecko | webkit | blink
//	os       string  windows | osx | linux | android | ios | chromeos | unknown
//	browser  string  ie | edge | chrome | opera | samsung | firefox | safari
//	major    int     product major version
package quirks
