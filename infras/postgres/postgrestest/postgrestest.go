//go:build integration

// Package postgrestest starts a throwaway PostgreSQL with the service schema applied.
package postgrestest

import (
	"context"
	"path/filepath"
	"runtime"
	"testing"

	"inap/helper"
	"inap/infras/postgres"

	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcPostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
)

const image = "postgres:16-alpine"

func migrationsSource() string {
	_, file, _, _ := runtime.Caller(0)

	return "file://" + filepath.Join(filepath.Dir(file), "..", "..", "..", "migrations", "postgres")
}

// Start runs a migrated database for the duration of the test.
func Start(t *testing.T) *postgres.Connection {
	t.Helper()

	ctx := context.Background()

	container, err := tcPostgres.Run(ctx, image,
		tcPostgres.WithDatabase("inap"),
		tcPostgres.WithUsername("inap"),
		tcPostgres.WithPassword("inap"),
		tcPostgres.BasicWaitStrategies(),
	)
	testcontainers.CleanupContainer(t, container)
	require.NoError(t, err)

	dsn, err := container.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	require.NoError(t, helper.Run(migrationsSource(), dsn, helper.ActionUp))

	db, err := sqlx.Connect("postgres", dsn)
	require.NoError(t, err)

	t.Cleanup(func() { db.Close() })

	return &postgres.Connection{Read: db, Write: db}
}

// Exec runs fixture statements in order.
func Exec(t *testing.T, db *postgres.Connection, statements ...string) {
	t.Helper()

	for _, statement := range statements {
		_, err := db.Write.Exec(statement)
		require.NoError(t, err, statement)
	}
}
