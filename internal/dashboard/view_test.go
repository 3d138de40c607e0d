package dashboard

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

// gatedSource blocks every call until release is closed.
type gatedSource struct {
	fakeSource
	release chan struct{}
	started chan struct{}
}

func (g *gatedSource) wait(ctx context.Context, endpoint string) (json.RawMessage, error) {
	select {
	case g.started <- struct{}{}:
	default:
	}
	<-g.release
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return g.get(ctx, endpoint)
}

func (g *gatedSource) Progress(ctx context.Context) (json.RawMessage, error) {
	return g.wait(ctx, EndpointProgress)
}
func (g *gatedSource) MonthlySummary(ctx context.Context) (json.RawMessage, error) {
	return g.wait(ctx, EndpointMonthlySummary)
}
func (g *gatedSource) WeeklySummary(ctx context.Context) (json.RawMessage, error) {
	return g.wait(ctx, EndpointWeeklySummary)
}
func (g *gatedSource) CategoryTotals(ctx context.Context) (json.RawMessage, error) {
	return g.wait(ctx, EndpointCategoryTotals)
}

func TestView_RefreshReplacesSnapshot(t *testing.T) {
	src := &fakeSource{bodies: sampleBodies()}
	v := NewView(NewAggregator(src))

	if _, ok := v.Snapshot(); ok {
		t.Fatal("new view should have no snapshot")
	}
	snap, err := v.Refresh(context.Background())
	if err != nil {
		t.Fatalf("Refresh: %v", err)
	}
	cur, ok := v.Snapshot()
	if !ok || !cur.TotalAllTime.Equal(snap.TotalAllTime) {
		t.Errorf("Snapshot = %+v, %v", cur, ok)
	}
	if v.UpdatedAt().IsZero() {
		t.Error("UpdatedAt not set")
	}

	src.bodies = map[string]string{
		EndpointProgress:       `[{"total": 7}]`,
		EndpointMonthlySummary: `{}`,
		EndpointWeeklySummary:  `{}`,
		EndpointCategoryTotals: `{}`,
	}
	if _, err := v.Refresh(context.Background()); err != nil {
		t.Fatalf("second Refresh: %v", err)
	}
	cur, _ = v.Snapshot()
	if !cur.TotalAllTime.Equal(decimal.NewFromInt(7)) || len(cur.CategoryShares) != 0 {
		t.Errorf("snapshot not replaced whole: %+v", cur)
	}
}

func TestView_FailureKeepsPreviousSnapshot(t *testing.T) {
	src := &fakeSource{bodies: sampleBodies()}
	v := NewView(NewAggregator(src))
	if _, err := v.Refresh(context.Background()); err != nil {
		t.Fatalf("Refresh: %v", err)
	}

	boom := errors.New("down")
	src.errs = map[string]error{EndpointCategoryTotals: boom}
	if _, err := v.Refresh(context.Background()); !errors.Is(err, boom) {
		t.Fatalf("err = %v, want %v", err, boom)
	}
	if !errors.Is(v.Err(), boom) {
		t.Errorf("Err() = %v", v.Err())
	}
	cur, ok := v.Snapshot()
	if !ok || !cur.TotalAllTime.Equal(decimal.NewFromInt(100)) {
		t.Errorf("previous snapshot lost: %+v, %v", cur, ok)
	}

	src.errs = nil
	if _, err := v.Refresh(context.Background()); err != nil {
		t.Fatalf("Refresh: %v", err)
	}
	if v.Err() != nil {
		t.Errorf("Err() not cleared: %v", v.Err())
	}
}

func TestView_LateResultAfterCloseIsDiscarded(t *testing.T) {
	src := &gatedSource{
		fakeSource: fakeSource{bodies: sampleBodies()},
		release:    make(chan struct{}),
		started:    make(chan struct{}, 1),
	}
	v := NewView(NewAggregator(src))

	done := make(chan error, 1)
	go func() {
		_, err := v.Refresh(context.Background())
		done <- err
	}()

	<-src.started
	v.Close()
	close(src.release)

	select {
	case err := <-done:
		if !errors.Is(err, ErrDisposed) {
			t.Errorf("err = %v, want ErrDisposed", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Refresh did not return")
	}
	if _, ok := v.Snapshot(); ok {
		t.Error("disposed view still exposes a snapshot")
	}
	if _, err := v.Refresh(context.Background()); !errors.Is(err, ErrDisposed) {
		t.Errorf("Refresh after Close err = %v", err)
	}
}

func TestView_CallerCancellationDoesNotAbortFetch(t *testing.T) {
	src := &gatedSource{
		fakeSource: fakeSource{bodies: sampleBodies()},
		release:    make(chan struct{}),
		started:    make(chan struct{}, 1),
	}
	v := NewView(NewAggregator(src))

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		_, err := v.Refresh(ctx)
		done <- err
	}()

	<-src.started
	cancel()
	close(src.release)

	if err := <-done; err != nil {
		t.Fatalf("Refresh err = %v, want success despite cancellation", err)
	}
	if _, ok := v.Snapshot(); !ok {
		t.Error("snapshot not stored")
	}
}

func TestView_Current(t *testing.T) {
	src := &fakeSource{bodies: sampleBodies()}
	v := NewView(NewAggregator(src))

	if _, err := v.Current(context.Background()); err != nil {
		t.Fatalf("Current: %v", err)
	}
	if _, err := v.Current(context.Background()); err != nil {
		t.Fatalf("Current: %v", err)
	}
	if src.calls.Load() != 4 {
		t.Errorf("calls = %d, want a single fetch cycle", src.calls.Load())
	}
}
