package postgres

import (
	"os"
	"testing"

	"fittrack/fitness-app/internal/repository/repotest"

	"github.com/stretchr/testify/require"
)

// Set FITTRACK_TEST_POSTGRES_DSN to a disposable database to run.
func TestRepositories(t *testing.T) {
	dsn := os.Getenv("FITTRACK_TEST_POSTGRES_DSN")
	if dsn == "" {
		t.Skip("FITTRACK_TEST_POSTGRES_DSN not set")
	}
	db, err := Open(dsn)
	require.NoError(t, err)
	defer Close(db)

	repotest.Run(t, NewRepositories(db))
}
