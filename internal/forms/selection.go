// Package forms holds controllers for form fragments whose contents
// depend on asynchronous lookups keyed by a user selection.
package forms

import (
	"context"
	"log/slog"
	"sync"
)

// Loader fetches the derived data for one selected key.
type Loader[K comparable, D any] func(ctx context.Context, key K) (D, error)

// State is a point-in-time view of a selection and its derived data.
// Exactly one of Loading, HasData and Err is meaningful when Selected
// is true; all are zero when it is false.
type State[K comparable, D any] struct {
	Selected bool
	Key      K
	Loading  bool
	HasData  bool
	Data     D
	Err      string
}

// SelectionController serializes a select-then-fetch flow so that
// overlapping requests cannot apply data for a key that is no longer
// selected. Every Select and Clear advances a generation; a fetch
// result is applied only if its generation is still current when the
// fetch returns. Stale results are discarded, not surfaced as errors.
type SelectionController[K comparable, D any] struct {
	loader Loader[K, D]
	logger *slog.Logger

	mu         sync.Mutex
	generation uint64
	state      State[K, D]
}

func NewSelectionController[K comparable, D any](loader Loader[K, D], logger *slog.Logger) *SelectionController[K, D] {
	if logger == nil {
		logger = slog.Default()
	}
	return &SelectionController[K, D]{loader: loader, logger: logger}
}

// Select makes key the current selection and fetches its derived data.
// The returned state is the controller's state after this call's fetch
// either applied or was discarded; callers render it as-is. The loader
// runs outside the lock, so concurrent Selects race only on the
// generation check.
func (c *SelectionController[K, D]) Select(ctx context.Context, key K) State[K, D] {
	c.mu.Lock()
	c.generation++
	gen := c.generation
	c.state = State[K, D]{Selected: true, Key: key, Loading: true}
	c.mu.Unlock()

	data, err := c.loader(ctx, key)

	c.mu.Lock()
	defer c.mu.Unlock()

	if gen != c.generation {
		// A newer Select or Clear superseded this fetch.
		c.logger.Debug("discarding stale fetch result", "key", key)
		return c.state
	}

	if err != nil {
		c.state = State[K, D]{Selected: true, Key: key, Err: err.Error()}
		return c.state
	}
	c.state = State[K, D]{Selected: true, Key: key, HasData: true, Data: data}
	return c.state
}

// Clear resets the selection. Any in-flight fetch becomes stale and
// its result will be discarded.
func (c *SelectionController[K, D]) Clear() State[K, D] {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.generation++
	c.state = State[K, D]{}
	return c.state
}

// Snapshot returns the current state without changing it.
func (c *SelectionController[K, D]) Snapshot() State[K, D] {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}
