package memdb

import (
	"database/sql"
	"fmt"
	"os"
	"sync"

	"github.com/bugtrail/bugtrail/internal/contract"
	"github.com/bugtrail/bugtrail/schema"
)

// Global Manager instance for main logic.
var (
	Manager   = &StoreManager{}
	initOnce  sync.Once
	closeOnce sync.Once
)

// StoreManager holds the process-wide pattern store behind a mutex, which
// also provides the external serialization a Store requires.
type StoreManager struct {
	sync.Mutex
	store contract.PatternStore
}

// GetStore returns the managed pattern store, nil before InitMemory.
func (m *StoreManager) GetStore() contract.PatternStore {
	m.Lock()
	defer m.Unlock()
	return m.store
}

// SetStore installs a store, used by tests to inject mocks.
func (m *StoreManager) SetStore(store contract.PatternStore) {
	m.Lock()
	defer m.Unlock()
	m.store = store
}

// InitMemory initializes the global pattern store. Safe to call more than
// once; only the first call opens a connection.
func InitMemory(backend schema.DatabaseBackend, connStr string, opts Options) error {
	var initErr error

	initOnce.Do(func() {
		// This function body runs exactly once, even with concurrent calls.
		store, err := NewStore(backend, connStr, opts)
		if err != nil {
			initErr = fmt.Errorf("failed to initialize pattern store: %w", err)
			return
		}
		Manager.SetStore(store)
	})

	return initErr
}

// CloseMemory should be called on application shutdown.
func CloseMemory() { // called once from main
	closeOnce.Do(func() {
		Manager.Lock()
		defer Manager.Unlock()
		if Manager.store != nil {
			_ = Manager.store.Close()
		}
	})
}

// ClearMemory clears the pattern store for the specified backend.
// For SQLite, it deletes the database file.
// For SQL backends (MySQL/PostgreSQL), it drops the four tables.
// For NoneBackend, it does nothing.
func ClearMemory(backend schema.DatabaseBackend, dbFilePath, connStr string) error {
	switch backend {
	case schema.SQLiteBackend:
		if dbFilePath == "" {
			dbFilePath = contract.GetStoreDBFilePath()
		}
		// Remove the file; ignore if it doesn't exist
		if err := os.Remove(dbFilePath); err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("failed to remove SQLite database file %s: %w", dbFilePath, err)
		}
		return nil

	case schema.MySQLBackend:
		return dropStoreTables("mysql", connStr)

	case schema.PostgreSQLBackend:
		return dropStoreTables("pgx", connStr)

	case schema.NoneBackend:
		return nil

	default:
		return fmt.Errorf("unsupported store backend for clearing: %s", backend)
	}
}

// dropStoreTables connects to the SQL database and drops the store tables.
func dropStoreTables(driverName, connStr string) error {
	db, err := sql.Open(driverName, connStr)
	if err != nil {
		return fmt.Errorf("failed to connect to %s database: %w", driverName, err)
	}
	defer func() { _ = db.Close() }()

	if err := db.Ping(); err != nil {
		return fmt.Errorf("failed to ping %s database: %w", driverName, err)
	}

	tables := []string{patternsTable, sessionsTable, repoMemoryTable, relationshipsTable}
	for _, table := range tables {
		query := fmt.Sprintf("DROP TABLE IF EXISTS %s", table)
		if _, err := db.Exec(query); err != nil {
			return fmt.Errorf("failed to drop table %s: %w", table, err)
		}
	}

	return nil
}
