package sheet

import (
	"context"
	"sync"
)

// MemoryStore is an in-memory Store used in tests and local development.
// It honors the same fail-soft contract as the Sheets-backed store: when
// Fail is set, reads come back empty and writes report false.
type MemoryStore struct {
	mu     sync.Mutex
	tables map[Table][][]string

	// Fail simulates an unreachable backing store.
	Fail bool
	// FailTables limits the simulated failure to specific tables.
	FailTables map[Table]bool
}

// NewMemoryStore instantiates an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{tables: make(map[Table][][]string)}
}

func (m *MemoryStore) failing(table Table) bool {
	return m.Fail || m.FailTables[table]
}

func (m *MemoryStore) Rows(_ context.Context, table Table) [][]string {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failing(table) {
		return nil
	}
	rows := m.tables[table]
	out := make([][]string, len(rows))
	for i, r := range rows {
		out[i] = append([]string(nil), r...)
	}
	return out
}

func (m *MemoryStore) Append(_ context.Context, table Table, row []string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failing(table) {
		return false
	}
	m.tables[table] = append(m.tables[table], append([]string(nil), row...))
	return true
}

func (m *MemoryStore) UpdateCell(_ context.Context, table Table, row, col int, value string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failing(table) {
		return false
	}
	rows := m.tables[table]
	if row < 0 || row >= len(rows) {
		return false
	}
	for len(rows[row]) <= col {
		rows[row] = append(rows[row], "")
	}
	rows[row][col] = value
	return true
}
