// Package platform describes the rendering engine the focus rules are
// evaluated for.
//
// A Descriptor is pure data: engine family, operating system, browser product
// and major version. It is derived from a user agent string once and never
// mutated afterwards. Everything engine-specific in the rest of the module is
// keyed off a Descriptor, either directly or through the quirk table.
package platform
