package output

import (
	"context"
	"errors"
	"time"

	"github.com/mvp-joe/javameta/internal/outline"
)

// ErrSerialization is wrapped by every failure to encode or persist records.
var ErrSerialization = errors.New("serialization error")

// Batch is the result of one run as handed to sinks.
type Batch struct {
	RunID     string
	CreatedAt time.Time
	Records   []outline.FileRecord
}

// Sink persists the records of a run. Records must be written in the given order.
type Sink interface {
	// Name identifies the sink in logs and errors.
	Name() string

	// Write persists the batch.
	Write(ctx context.Context, batch *Batch) error
}
