package watcher

import "context"

// Watcher reports debounced changes to a fixed set of files.
type Watcher interface {
	// Start begins watching, calling callback with each batch of changed files.
	Start(ctx context.Context, callback func(files []string)) error

	// Stop stops the watcher and releases its resources.
	Stop() error
}
