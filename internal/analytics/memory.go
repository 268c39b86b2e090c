package analytics

import (
	"context"
	"sync/atomic"

	"github.com/puzpuzpuz/xsync/v3"
)

// MemoryRecorder keeps counts for the life of the process. Visitor sets of
// past days are never pruned; restarts reset everything.
type MemoryRecorder struct {
	pv       atomic.Int64
	uv       atomic.Int64
	visitors *xsync.MapOf[string, struct{}]
	paths    *xsync.MapOf[string, int64]
}

func NewMemoryRecorder() *MemoryRecorder {
	return &MemoryRecorder{
		visitors: xsync.NewMapOf[string, struct{}](),
		paths:    xsync.NewMapOf[string, int64](),
	}
}

func (m *MemoryRecorder) Record(_ context.Context, v Visit) error {
	m.pv.Add(1)
	m.paths.Compute(v.Path, func(old int64, _ bool) (int64, bool) {
		return old + 1, false
	})
	if _, loaded := m.visitors.LoadOrStore(day(v.At)+"|"+v.IP, struct{}{}); !loaded {
		m.uv.Add(1)
	}
	return nil
}

func (m *MemoryRecorder) Counts(_ context.Context) (Counts, error) {
	paths := make(map[string]int64, m.paths.Size())
	m.paths.Range(func(path string, n int64) bool {
		paths[path] = n
		return true
	})
	return Counts{PV: m.pv.Load(), UV: m.uv.Load(), Paths: paths}, nil
}
