package ledger

import "fmt"

// Store reads and writes the complete record set. Save replaces everything
// previously stored; there are no partial writes.
type Store interface {
	Load() ([]Record, error)
	Save(records []Record) error
	Close() error
}

// MemoryStore keeps records in memory. It is useful for tests and for
// throwaway sessions.
type MemoryStore struct {
	records []Record
	saves   int
}

// NewMemoryStore creates a store preloaded with records.
func NewMemoryStore(records ...Record) *MemoryStore {
	return &MemoryStore{records: append([]Record(nil), records...)}
}

func (m *MemoryStore) Load() ([]Record, error) {
	return append([]Record(nil), m.records...), nil
}

func (m *MemoryStore) Save(records []Record) error {
	m.records = append([]Record(nil), records...)
	m.saves++
	return nil
}

func (m *MemoryStore) Close() error { return nil }

// Saves returns how many times Save has been called
func (m *MemoryStore) Saves() int { return m.saves }

// Store backends selectable from configuration.
const (
	BackendCSV    = "csv"
	BackendSQLite = "sqlite"
	BackendMemory = "memory"
)

// NewStore creates the store for a configured backend.
func NewStore(backend, path string) (Store, error) {
	switch backend {
	case BackendCSV, "":
		if path == "" {
			path = DefaultCSVPath
		}
		return NewCSVStore(path), nil
	case BackendSQLite:
		return NewSQLiteStore(path)
	case BackendMemory:
		return NewMemoryStore(), nil
	default:
		return nil, fmt.Errorf("unknown ledger backend %q", backend)
	}
}
