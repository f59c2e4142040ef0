// Package dom defines the read-only view of a document tree that the focus
// classifiers and the tab-sequence builder consume.
//
// Nothing in this package owns or mutates a tree. Element is the node
// reference, Context is the loosely typed "where to start" description
// resolved to concrete elements, and Querier is the candidate query that
// yields the superset of possibly focus-relevant elements in document order.
// internal/htmldoc provides the implementation backed by golang.org/x/net/html.
package dom
