package pg

import (
	"context"
	"fmt"
	"io/fs"
	"sort"

	migrations "github.com/DogisRiki/KeirekiPro-sub004/migrations/postgres"
)

// Migrate applies the embedded schema migrations in lexical order.
// Statements are idempotent (CREATE IF NOT EXISTS), so re-running is safe.
func (s *UserStore) Migrate(ctx context.Context) error {
	entries, err := fs.ReadDir(migrations.FS, migrations.Dir)
	if err != nil {
		return fmt.Errorf("pg: read migrations: %w", err)
	}
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if !e.IsDir() {
			names = append(names, e.Name())
		}
	}
	sort.Strings(names)

	for _, name := range names {
		sql, err := fs.ReadFile(migrations.FS, migrations.Dir+"/"+name)
		if err != nil {
			return fmt.Errorf("pg: read migration %s: %w", name, err)
		}
		if _, err := s.pool.Exec(ctx, string(sql)); err != nil {
			return fmt.Errorf("pg: apply migration %s: %w", name, err)
		}
	}
	return nil
}
