// Package testutil provides deterministic helpers shared by package tests:
// fixed run id generation and HTML fixture parsing.
package testutil
