//go:build database

package integration

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

// exerciseStore drives the memory lifecycle against whatever backend the env
// selects: clear, record, match, inspect.
func exerciseStore(t *testing.T, env []string) {
	_, err := runBugtrailCommand(t, env, "store", "clear")
	require.NoError(t, err)

	_, err = runBugtrailCommand(t, env, "store", "migrate")
	require.NoError(t, err)

	_, err = runBugtrailCommand(t, env, "record",
		"--session-id", "db-sess-1",
		"--repository", "acme/payments",
		"--category", "concurrency_issues",
		"--success",
		"--duration-seconds", "90",
		"--files-examined", "internal/worker.go",
		"--fix-applied", "release the mutex in worker.go")
	require.NoError(t, err)

	_, err = runBugtrailCommand(t, env, "patterns", "find",
		"--category", "concurrency_issues",
		"--error-file", "internal/worker.go")
	require.NoError(t, err)

	_, err = runBugtrailCommand(t, env, "insights", "--repository", "acme/payments")
	require.NoError(t, err)

	_, err = runBugtrailCommand(t, env, "store", "status")
	require.NoError(t, err)
}

// TestBugtrailWithMySQL tests the bugtrail CLI with a MySQL backend.
func TestBugtrailWithMySQL(t *testing.T) {
	ctx := context.Background()

	// Start MySQL container
	req := testcontainers.ContainerRequest{
		Image:        "mysql:8",
		ExposedPorts: []string{"3306:3306/tcp"},
		Env: map[string]string{
			"MYSQL_ROOT_PASSWORD": "secret123",
			"MYSQL_DATABASE":      "bugtrail",
		},
		WaitingFor: wait.ForLog("port: 3306  MySQL Community Server").WithStartupTimeout(30 * time.Second),
	}
	mysqlC, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	require.NoError(t, err)
	defer func() { _ = mysqlC.Terminate(ctx) }()

	// Get connection details
	host, err := mysqlC.Host(ctx)
	require.NoError(t, err)
	port, err := mysqlC.MappedPort(ctx, "3306")
	require.NoError(t, err)

	connStr := fmt.Sprintf("root:secret123@tcp(%s:%s)/bugtrail?parseTime=true", host, port.Port())
	env := []string{
		"BUGTRAIL_STORE_BACKEND=mysql",
		"BUGTRAIL_STORE_DB_CONNECT=" + connStr,
	}

	exerciseStore(t, env)
}

// TestBugtrailWithPostgres tests the bugtrail CLI with a PostgreSQL backend.
func TestBugtrailWithPostgres(t *testing.T) {
	ctx := context.Background()

	// Start Postgres container
	req := testcontainers.ContainerRequest{
		Image:        "postgres:18-alpine",
		ExposedPorts: []string{"5432:5432/tcp"},
		Env: map[string]string{
			"POSTGRES_HOST_AUTH_METHOD": "trust",
		},
		WaitingFor: wait.ForLog("database system is ready to accept connections").WithStartupTimeout(30 * time.Second),
	}
	pgC, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	require.NoError(t, err)
	defer func() { _ = pgC.Terminate(ctx) }()
	time.Sleep(5 * time.Second)

	// Get connection details
	host, err := pgC.Host(ctx)
	require.NoError(t, err)
	port, err := pgC.MappedPort(ctx, "5432")
	require.NoError(t, err)

	connStr := fmt.Sprintf("host=%s port=%s user=postgres dbname=postgres", host, port.Port())
	env := []string{
		"BUGTRAIL_STORE_BACKEND=postgresql",
		"BUGTRAIL_STORE_DB_CONNECT=" + connStr,
	}

	exerciseStore(t, env)
}
