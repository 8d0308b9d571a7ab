package migrations

import (
	"context"
	"fmt"
	"io/fs"
	"sort"
	"strings"

	"rentvsbuy-lab/internal/storage/postgres"
)

// RunPostgresMigrations applies the embedded schema in lexical order:
// baseline_snapshots first, run_summaries second. Every file is a
// CREATE ... IF NOT EXISTS, so reruns against an existing database are
// no-ops and the CLIs can apply the schema unconditionally on startup.
func RunPostgresMigrations(ctx context.Context, pool *postgres.Pool) error {
	entries, err := fs.ReadDir(PostgresFS, "postgres")
	if err != nil {
		return fmt.Errorf("read embedded postgres migrations: %w", err)
	}

	var files []string
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".sql") {
			continue
		}
		files = append(files, entry.Name())
	}
	sort.Strings(files)

	for _, file := range files {
		data, err := fs.ReadFile(PostgresFS, "postgres/"+file)
		if err != nil {
			return fmt.Errorf("read migration %s: %w", file, err)
		}
		sql := strings.TrimSpace(string(data))
		if sql == "" {
			continue
		}
		if _, err := pool.Exec(ctx, sql); err != nil {
			return fmt.Errorf("apply migration %s: %w", file, err)
		}
	}

	return nil
}
