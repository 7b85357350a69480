package memdb

import (
	"fmt"
	"os"

	"github.com/bugtrail/bugtrail/internal/contract"
	"github.com/bugtrail/bugtrail/schema"
)

// GetStatus returns status information about the pattern store.
func (s *Store) GetStatus() (schema.StoreStatus, error) {
	status := schema.StoreStatus{
		Backend:     string(s.backend),
		Connected:   s.db != nil,
		TableCounts: make(map[string]int64),
	}

	if s.disabled() {
		return status, nil
	}

	tables := []string{patternsTable, sessionsTable, repoMemoryTable, relationshipsTable}
	for _, table := range tables {
		countQuery := fmt.Sprintf("SELECT COUNT(*) FROM %s", table)
		var count int64
		if err := s.db.QueryRow(countQuery).Scan(&count); err != nil {
			return status, fmt.Errorf("failed to get count for table %s: %w", table, err)
		}
		status.TableCounts[table] = count
	}

	if status.TableCounts[sessionsTable] > 0 {
		// Fixed-width UTC text orders lexicographically, so MIN/MAX work directly
		boundsQuery := fmt.Sprintf("SELECT MIN(timestamp), MAX(timestamp) FROM %s", sessionsTable)
		var firstStr, lastStr string
		if err := s.db.QueryRow(boundsQuery).Scan(&firstStr, &lastStr); err != nil {
			return status, fmt.Errorf("failed to get session time bounds: %w", err)
		}
		var err error
		if status.FirstSessionAt, err = decodeTime(firstStr); err != nil {
			return status, err
		}
		if status.LastSessionAt, err = decodeTime(lastStr); err != nil {
			return status, err
		}
	}

	if s.backend == schema.SQLiteBackend {
		dbPath := s.connStr
		if dbPath == "" {
			dbPath = contract.GetStoreDBFilePath()
		}
		if info, err := os.Stat(dbPath); err == nil {
			status.SizeBytes = info.Size()
		}
	}

	return status, nil
}

// PrintStoreStatus prints pattern store status information.
func PrintStoreStatus(status schema.StoreStatus) {
	fmt.Printf("Store Backend: %s\n", status.Backend)
	fmt.Printf("Connected: %t\n", status.Connected)
	if !status.Connected {
		return
	}
	if !status.FirstSessionAt.IsZero() {
		fmt.Printf("First Session: %s\n", status.FirstSessionAt.Format("2006-01-02 15:04:05"))
		fmt.Printf("Last Session: %s\n", status.LastSessionAt.Format("2006-01-02 15:04:05"))
	}
	if status.SizeBytes > 0 {
		fmt.Printf("Database Size: %d bytes\n", status.SizeBytes)
	}
	fmt.Println("Table Sizes:")
	for _, table := range []string{patternsTable, sessionsTable, repoMemoryTable, relationshipsTable} {
		fmt.Printf("  %s: %d rows\n", table, status.TableCounts[table])
	}
}
