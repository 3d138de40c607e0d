// Package memory is a SnapshotExporter that keeps exports in process and can
// print them as an aligned table.
package memory

import (
	"context"
	"fmt"
	"io"
	"strings"
	"sync"
	"text/tabwriter"
	"time"

	"expensedash/internal/core"
	ports "expensedash/internal/sheets"
)

// Export is one recorded snapshot export.
type Export struct {
	At   time.Time
	Rows [][]interface{}
}

type Store struct {
	mu    sync.Mutex
	out   io.Writer
	items []Export
}

var _ ports.SnapshotExporter = (*Store)(nil)

// New returns a store. When out is non-nil every export is also printed to it.
func New(out io.Writer) *Store {
	return &Store{out: out}
}

// Export records the snapshot rows and returns a synthetic reference.
func (s *Store) Export(_ context.Context, snap core.DashboardSnapshot, at time.Time) (string, error) {
	rows := ports.Rows(snap, at)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.items = append(s.items, Export{At: at, Rows: rows})
	if s.out != nil {
		if err := writeTable(s.out, rows); err != nil {
			return "", fmt.Errorf("print export: %w", err)
		}
	}
	return fmt.Sprintf("mem:%d", len(s.items)), nil
}

// Exports returns a copy of everything exported so far, oldest first.
func (s *Store) Exports() []Export {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Export(nil), s.items...)
}

// Last returns the most recent export.
func (s *Store) Last() (Export, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.items) == 0 {
		return Export{}, false
	}
	return s.items[len(s.items)-1], true
}

func writeTable(w io.Writer, rows [][]interface{}) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	for _, row := range rows {
		cells := make([]string, len(row))
		for i, v := range row {
			cells[i] = fmt.Sprint(v)
		}
		if _, err := fmt.Fprintln(tw, strings.Join(cells, "\t")); err != nil {
			return err
		}
	}
	return tw.Flush()
}
