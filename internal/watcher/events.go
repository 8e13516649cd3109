// Package watcher watches a workspace for file changes and drives
// incremental re-indexing through a debounce window.
package watcher

import "time"

// RawEvent is one filesystem notification, from either fsnotify or the
// polling fallback. Only the path matters to the debouncer: a full
// indexing pass re-derives added/modified/deleted status from the
// fingerprint store, so the watcher never needs to classify the change
// itself.
type RawEvent struct {
	Path      string
	Timestamp time.Time
}

// Source is anything that can emit raw filesystem events until stopped.
type Source interface {
	Start(rootPath string) error
	Stop() error
	Events() <-chan RawEvent
	Errors() <-chan error
}
