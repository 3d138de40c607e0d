package telemetry

import (
	"context"
	"time"
)

// Noop records nothing.
type Noop struct{}

func (Noop) RecordFetch(context.Context, string, time.Duration, error) {}
func (Noop) RecordBuild(context.Context, time.Duration, error)         {}
func (Noop) Close(context.Context) error                               { return nil }
