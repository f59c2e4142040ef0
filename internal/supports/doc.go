// Package supports discovers binary engine capabilities that cannot be read
// from the user agent.
//
// Every capability has a Probe: a JavaScript micro-test that builds a
// throwaway fragment on a blank page, attempts one focus behaviour and
// reports whether focus stuck. Probes execute through a Host. The browser
// package runs them in a real engine; TableHost answers from a recorded
// table (built-in profiles, the sqlite store).
//
// Cache memoizes results. Each capability is populated at most once with an
// atomic load-or-store, so concurrent first callers agree on one value. A
// probe that cannot run resolves to false.
package supports
