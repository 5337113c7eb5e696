package qtable

import (
	"context"
	"sync"

	"aegis-hq/aegis/pkg/remedy"
)

// MemoryStorage keeps snapshots in memory. Useful for tests and for
// deployments that do not need the table to survive restarts.
type MemoryStorage struct {
	mu       sync.Mutex
	snapshot *Snapshot
}

// NewMemoryStorage creates an empty in-memory backend.
func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{}
}

// Load returns the last saved snapshot, or nil if none.
func (m *MemoryStorage) Load(ctx context.Context) (*Snapshot, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.snapshot == nil {
		return nil, nil
	}
	return copySnapshot(m.snapshot), nil
}

// Save stores a deep copy of the snapshot.
func (m *MemoryStorage) Save(ctx context.Context, snapshot *Snapshot) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.snapshot = copySnapshot(snapshot)
	return nil
}

// Close is a no-op.
func (m *MemoryStorage) Close() error { return nil }

func copySnapshot(snapshot *Snapshot) *Snapshot {
	if snapshot == nil {
		return nil
	}
	values := make(map[StateID]map[remedy.Action]float64, len(snapshot.Values))
	for s, row := range snapshot.Values {
		copied := make(map[remedy.Action]float64, len(row))
		for a, v := range row {
			copied[a] = v
		}
		values[s] = copied
	}
	return &Snapshot{
		Algorithm: snapshot.Algorithm,
		Values:    values,
		SavedAt:   snapshot.SavedAt,
	}
}
