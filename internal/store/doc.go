// Package store provides SQLite-backed persistence for probed capability sets.
//
// Each probe run records the environment it was executed in and the
// capability values it produced:
//   - probe_runs: one row per run, keyed by a UUIDv7 id and ordered by a
//     logical seq, never by wall time
//   - capabilities: the latest value per (environment key, capability),
//     pointing at the run that produced it
//
// The environment key is platform.Descriptor.Key, a content-addressed
// fingerprint of engine, OS, product and major version, so runs from any
// patch release of the same browser share one capability table.
//
// # Database Configuration
//
//   - WAL mode: Concurrent reads during writes
//   - synchronous=NORMAL: Balance durability/performance
//   - busy_timeout=5000: Wait for locks up to 5 seconds
//   - foreign_keys=ON: Enforce referential integrity
package store
