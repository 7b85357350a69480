package memdb

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/bugtrail/bugtrail/schema"
)

// TestCreateQueriesPerBackend checks backend-specific column types.
func TestCreateQueriesPerBackend(t *testing.T) {
	tests := []struct {
		name     string
		backend  schema.DatabaseBackend
		contains string
	}{
		{name: "sqlite uses REAL", backend: schema.SQLiteBackend, contains: "REAL"},
		{name: "mysql uses DOUBLE", backend: schema.MySQLBackend, contains: "DOUBLE"},
		{name: "postgres uses DOUBLE PRECISION", backend: schema.PostgreSQLBackend, contains: "DOUBLE PRECISION"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			query := getCreatePatternsQuery(tt.backend)
			assert.Contains(t, query, tt.contains)
			assert.Contains(t, query, patternsTable)
		})
	}
}

// TestPlaceholders checks parameter list generation per backend.
func TestPlaceholders(t *testing.T) {
	sqlite := &Store{backend: schema.SQLiteBackend}
	assert.Equal(t, "?, ?, ?", sqlite.placeholders(3, 0))
	assert.Equal(t, "?", sqlite.placeholder(1))

	postgres := &Store{backend: schema.PostgreSQLBackend}
	assert.Equal(t, "$1, $2, $3", postgres.placeholders(3, 0))
	assert.Equal(t, "$3, $4", postgres.placeholders(2, 2))
	assert.Equal(t, "$2", postgres.placeholder(2))
}
