package dashboard

import (
	"context"
	"errors"
	"sync"
	"time"

	"expensedash/internal/core"
)

// ErrDisposed is returned by a View that was closed, including for a cycle
// that was in flight when Close was called.
var ErrDisposed = errors.New("dashboard view disposed")

// View holds the current snapshot for one consumer (a browser session, a CLI
// run). A successful refresh replaces the snapshot whole; a failed one keeps
// the previous snapshot and records the error.
type View struct {
	agg *Aggregator

	mu        sync.Mutex
	snap      *core.DashboardSnapshot
	updatedAt time.Time
	lastErr   error
	started   uint64 // cycles started
	applied   uint64 // cycle that produced snap
	disposed  bool
}

func NewView(agg *Aggregator) *View {
	return &View{agg: agg}
}

// Refresh runs one fetch cycle. The fetch is detached from ctx cancellation:
// a caller that goes away does not abort it, its result is just dropped if
// the view was closed meanwhile. A cycle finishing after a newer one has
// already been applied does not overwrite it.
func (v *View) Refresh(ctx context.Context) (core.DashboardSnapshot, error) {
	v.mu.Lock()
	if v.disposed {
		v.mu.Unlock()
		return core.DashboardSnapshot{}, ErrDisposed
	}
	v.started++
	seq := v.started
	v.mu.Unlock()

	snap, err := v.agg.Fetch(context.WithoutCancel(ctx))

	v.mu.Lock()
	defer v.mu.Unlock()
	if v.disposed {
		return core.DashboardSnapshot{}, ErrDisposed
	}
	if err != nil {
		if seq > v.applied {
			v.lastErr = err
		}
		return core.DashboardSnapshot{}, err
	}
	if seq > v.applied {
		v.snap = &snap
		v.applied = seq
		v.updatedAt = time.Now()
		v.lastErr = nil
	}
	return snap, nil
}

// Snapshot returns the current snapshot, if any cycle has succeeded.
func (v *View) Snapshot() (core.DashboardSnapshot, bool) {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.snap == nil || v.disposed {
		return core.DashboardSnapshot{}, false
	}
	return *v.snap, true
}

// Current returns the snapshot, running a refresh first when there is none.
func (v *View) Current(ctx context.Context) (core.DashboardSnapshot, error) {
	if snap, ok := v.Snapshot(); ok {
		return snap, nil
	}
	return v.Refresh(ctx)
}

// Err is the error of the latest failed cycle, cleared by a successful one.
func (v *View) Err() error {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.lastErr
}

func (v *View) UpdatedAt() time.Time {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.updatedAt
}

// Close disposes the view. It is safe to call more than once.
func (v *View) Close() {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.disposed = true
	v.snap = nil
}

func (v *View) Closed() bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.disposed
}
