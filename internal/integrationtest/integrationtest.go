// Package integrationtest provides db helpers used in integration tests.
package integrationtest

import (
	"context"
	"database/sql"
	"os"
	"testing"
	"time"

	"github.com/testcontainers/testcontainers-go"
	pgmodule "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/go-petr/cash-card/pkg/dbpkg"

	_ "github.com/lib/pq"
)

// PostgresImage is the image integration databases are started from.
const PostgresImage = "postgres:16-alpine"

// SetupDB starts a disposable Postgres container, applies migrations and
// returns a connection to it. The container is removed once the test is done.
//
// The test is skipped when SKIP_INTEGRATION=true or no container runtime is available.
func SetupDB(t *testing.T) (*sql.DB, string) {
	t.Helper()

	if os.Getenv("SKIP_INTEGRATION") == "true" {
		t.Skip("SKIP_INTEGRATION=true, skipping Postgres integration tests")
	}

	ctx := context.Background()

	container, err := pgmodule.Run(ctx,
		PostgresImage,
		pgmodule.WithDatabase("cash_card"),
		pgmodule.WithUsername("root"),
		pgmodule.WithPassword("secret"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second),
		),
	)
	if err != nil {
		t.Skipf("skipping: could not start Postgres container: %v", err)
	}

	t.Cleanup(func() {
		if err := container.Terminate(context.Background()); err != nil {
			t.Errorf("container.Terminate() returned error: %v", err)
		}
	})

	source, err := container.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		t.Fatalf("container.ConnectionString() returned error: %v", err)
	}

	if err := dbpkg.Migrate(source); err != nil {
		t.Fatalf("dbpkg.Migrate(%v) returned error: %v", source, err)
	}

	db, err := dbpkg.Setup("postgres", source)
	if err != nil {
		t.Fatalf("db initialization failed. err: %v", err)
	}

	t.Cleanup(func() {
		if err := db.Close(); err != nil {
			t.Errorf("db.Close() failed: %v", err)
		}
	})

	return db, source
}
