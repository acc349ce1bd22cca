package session

import (
	"fmt"
	"strings"
)

// Result is the outcome of a session operation. Operations report failures
// here instead of panicking.
type Result[T any] struct {
	Data T
	Err  error
}

// OK reports whether the operation succeeded.
func (r Result[T]) OK() bool {
	return r.Err == nil
}

// Unwrap returns the result as a conventional (value, error) pair.
func (r Result[T]) Unwrap() (T, error) {
	return r.Data, r.Err
}

// WriteStrategy decides what a successful write applies to the collection.
type WriteStrategy string

const (
	// ApplyEcho applies the representation the remote returned.
	ApplyEcho WriteStrategy = "echo"
	// ApplyDraft applies the caller's input, keeping the remote-assigned id.
	ApplyDraft WriteStrategy = "draft"
)

// ParseWriteStrategy accepts "echo" and "draft"; blank means echo.
func ParseWriteStrategy(raw string) (WriteStrategy, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "", string(ApplyEcho):
		return ApplyEcho, nil
	case string(ApplyDraft):
		return ApplyDraft, nil
	}
	return "", fmt.Errorf("unknown write strategy %q", raw)
}
