// Package digest computes content-addressed fingerprints.
//
// Values are serialized to canonical JSON (sorted keys by UTF-16 code units,
// NFC-normalized strings, no HTML escaping, no floats, no null) and hashed with
// SHA-256 under a domain prefix. Fingerprints are stable across processes and
// are used as keys of the persistent capability cache.
package digest
