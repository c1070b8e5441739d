package domain

import "fmt"

// StorageError signals a ledger-level failure. Dedup integrity can no
// longer be assumed, so the orchestrator treats it as fatal for the run.
type StorageError struct {
	Op  string
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("storage %s: %v", e.Op, e.Err)
}

func (e *StorageError) Unwrap() error { return e.Err }

// FetchError is an item-local network failure. The item is skipped and the
// run continues.
type FetchError struct {
	URL string
	Err error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("fetch %s: %v", e.URL, e.Err)
}

func (e *FetchError) Unwrap() error { return e.Err }

// ExtractionError is an item-local model-extraction failure, raised after
// the provider's own retry budget is exhausted.
type ExtractionError struct {
	Subject  string
	Attempts int
	Err      error
}

func (e *ExtractionError) Error() string {
	return fmt.Sprintf("extract %s (%d attempts): %v", e.Subject, e.Attempts, e.Err)
}

func (e *ExtractionError) Unwrap() error { return e.Err }

// OutputError signals a failure writing the ranked output. It aborts the
// run because the run's product would otherwise be lost silently, but
// unlike a storage error it says nothing about ledger integrity.
type OutputError struct {
	Sink string
	Err  error
}

func (e *OutputError) Error() string {
	return fmt.Sprintf("output %s: %v", e.Sink, e.Err)
}

func (e *OutputError) Unwrap() error { return e.Err }

// ConfigError is a startup-time configuration failure, raised before any
// ledger writes happen.
type ConfigError struct {
	Field  string
	Reason string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("config %s: %s", e.Field, e.Reason)
}
