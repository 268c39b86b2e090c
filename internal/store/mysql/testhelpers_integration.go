//go:build integration

package mysql

import (
	"context"
	"fmt"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/docker/go-connections/nat"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go/modules/mysql"
)

const mysqlPort = nat.Port("3306/tcp")

// schemaPath resolves db/schema.sql relative to this file so the helper works
// from any package working directory.
func schemaPath(t *testing.T) string {
	t.Helper()
	_, file, _, ok := runtime.Caller(0)
	require.True(t, ok)
	return filepath.Join(filepath.Dir(file), "..", "..", "..", "db", "schema.sql")
}

// startMySQL runs a throwaway MySQL with the schema loaded and returns its DSN.
func startMySQL(t *testing.T, ctx context.Context) string {
	t.Helper()
	const (
		database = "blog_core_test"
		user     = "blog"
		password = "blog"
	)

	container, err := mysql.RunContainer(ctx,
		mysql.WithDatabase(database),
		mysql.WithUsername(user),
		mysql.WithPassword(password),
		mysql.WithScripts(schemaPath(t)),
	)
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = container.Terminate(context.Background())
	})

	host, err := container.Host(ctx)
	require.NoError(t, err)
	port, err := container.MappedPort(ctx, mysqlPort)
	require.NoError(t, err)

	return fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?parseTime=true&loc=UTC", user, password, host, port.Port(), database)
}
