// Package dashboard builds the dashboard snapshot from the backend's summary
// endpoints and keeps the current snapshot for one consumer.
package dashboard

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"

	"expensedash/internal/core"
	applog "expensedash/internal/log"
)

// Endpoint names used in logs, metrics and errors.
const (
	EndpointProgress       = "progress"
	EndpointMonthlySummary = "monthly_summary"
	EndpointWeeklySummary  = "weekly_summary"
	EndpointCategoryTotals = "category_totals"
	EndpointMonthlyLimit   = "monthly_limit"
)

// SummarySource serves the four summary bodies a snapshot needs.
type SummarySource interface {
	Progress(ctx context.Context) (json.RawMessage, error)
	MonthlySummary(ctx context.Context) (json.RawMessage, error)
	WeeklySummary(ctx context.Context) (json.RawMessage, error)
	CategoryTotals(ctx context.Context) (json.RawMessage, error)
}

// LimitSource serves the user's monthly budget ceiling.
type LimitSource interface {
	MonthlyLimit(ctx context.Context) (decimal.Decimal, error)
}

// Metrics receives one record per backend call and per snapshot build.
type Metrics interface {
	RecordFetch(ctx context.Context, endpoint string, d time.Duration, err error)
	RecordBuild(ctx context.Context, d time.Duration, err error)
}

type noopMetrics struct{}

func (noopMetrics) RecordFetch(context.Context, string, time.Duration, error) {}
func (noopMetrics) RecordBuild(context.Context, time.Duration, error)         {}

// Aggregator fetches the summary endpoints concurrently and builds a snapshot.
type Aggregator struct {
	src     SummarySource
	limit   LimitSource
	logger  *applog.Logger
	metrics Metrics
}

// Option configures an Aggregator.
type Option func(*Aggregator)

// WithLimit also fetches the monthly limit. Its failure does not fail the
// snapshot; MonthlyLimit is left empty instead.
func WithLimit(l LimitSource) Option {
	return func(a *Aggregator) { a.limit = l }
}

func WithLogger(l *applog.Logger) Option {
	return func(a *Aggregator) {
		if l != nil {
			a.logger = l.WithComponent(applog.ComponentDashboard)
		}
	}
}

func WithMetrics(m Metrics) Option {
	return func(a *Aggregator) {
		if m != nil {
			a.metrics = m
		}
	}
}

func NewAggregator(src SummarySource, opts ...Option) *Aggregator {
	a := &Aggregator{
		src:     src,
		logger:  applog.Discard(),
		metrics: noopMetrics{},
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

type summaryCall struct {
	endpoint string
	fetch    func(context.Context) (json.RawMessage, error)
	body     json.RawMessage
	err      error
}

// Fetch runs one fetch cycle. Every call is issued at once and Fetch returns
// only after all of them settle. If any summary call failed, the first
// failure in call order is returned and no snapshot is built.
func (a *Aggregator) Fetch(ctx context.Context) (core.DashboardSnapshot, error) {
	start := time.Now()

	calls := []*summaryCall{
		{endpoint: EndpointProgress, fetch: a.src.Progress},
		{endpoint: EndpointMonthlySummary, fetch: a.src.MonthlySummary},
		{endpoint: EndpointWeeklySummary, fetch: a.src.WeeklySummary},
		{endpoint: EndpointCategoryTotals, fetch: a.src.CategoryTotals},
	}

	// Each goroutine owns its slot; results are read only after Wait.
	var g errgroup.Group
	for _, c := range calls {
		g.Go(func() error {
			t := time.Now()
			c.body, c.err = c.fetch(ctx)
			a.metrics.RecordFetch(ctx, c.endpoint, time.Since(t), c.err)
			return nil
		})
	}

	var limit decimal.NullDecimal
	if a.limit != nil {
		g.Go(func() error {
			t := time.Now()
			v, err := a.limit.MonthlyLimit(ctx)
			a.metrics.RecordFetch(ctx, EndpointMonthlyLimit, time.Since(t), err)
			if err != nil {
				a.logger.WarnContext(ctx, "Monthly limit unavailable",
					applog.FieldEndpoint, EndpointMonthlyLimit,
					applog.FieldError, err.Error())
				return nil
			}
			limit = decimal.NewNullDecimal(v)
			return nil
		})
	}

	_ = g.Wait()

	var firstErr error
	for _, c := range calls {
		if c.err == nil {
			continue
		}
		a.logger.WarnContext(ctx, "Summary fetch failed",
			applog.FieldEndpoint, c.endpoint,
			applog.FieldError, c.err.Error())
		if firstErr == nil {
			firstErr = fmt.Errorf("fetch %s: %w", c.endpoint, c.err)
		}
	}
	if firstErr != nil {
		a.metrics.RecordBuild(ctx, time.Since(start), firstErr)
		return core.DashboardSnapshot{}, firstErr
	}

	snap := Build(Responses{
		Progress:       calls[0].body,
		MonthlySummary: calls[1].body,
		WeeklySummary:  calls[2].body,
		CategoryTotals: calls[3].body,
		MonthlyLimit:   limit,
	})
	a.metrics.RecordBuild(ctx, time.Since(start), nil)

	a.logger.DebugContext(ctx, "Dashboard snapshot built",
		applog.FieldTotal, snap.TotalAllTime.String(),
		applog.FieldMonths, len(snap.MonthlySeries),
		applog.FieldWeeks, len(snap.WeeklySeries),
		applog.FieldCategories, len(snap.CategoryShares),
		applog.FieldDuration, time.Since(start).Milliseconds())

	return snap, nil
}
