package discounts

import (
	"sync"
	"time"
)

// Memo caches the last built Index and rebuilds only when the source version changes
// or a launch/fixed-price window boundary has been crossed.
type Memo struct {
	mu      sync.Mutex
	idx     *Index
	version uint64
	builds  int
}

// Index returns the cached index for version, rebuilding when required.
func (m *Memo) Index(src Sources, version uint64, now time.Time) *Index {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.idx != nil && m.version == version && !m.idx.StaleAt(now) {
		return m.idx
	}
	m.idx = Build(src, now)
	m.version = version
	m.builds++
	return m.idx
}

// Builds reports how many times the index was rebuilt.
func (m *Memo) Builds() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.builds
}
