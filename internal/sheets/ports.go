package sheets

import (
	"context"
	"time"

	"expensedash/internal/core"
)

// Ports for outbound adapters.
type (
	// SnapshotExporter writes a dashboard snapshot to an external table.
	SnapshotExporter interface {
		// Export writes snap as of at and returns a reference to what was written.
		Export(ctx context.Context, snap core.DashboardSnapshot, at time.Time) (ref string, err error)
	}
)
