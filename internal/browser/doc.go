// Package browser runs capability probes inside a real rendering engine
// driven by playwright-go.
//
// A Host launches one browser, opens a blank page and evaluates each probe
// script there, so probing never touches a document under test. The page's
// navigator.userAgent identifies the environment the results belong to.
package browser
