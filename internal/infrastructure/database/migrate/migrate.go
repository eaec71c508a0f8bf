package migrate

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"sort"
	"strings"

	"entgo.io/ent/dialect"
	"entgo.io/ent/dialect/sql/schema"
)

// Create runs the schema migration for every table against drv. Existing
// tables are upgraded in place; columns and indexes are never dropped.
func Create(ctx context.Context, drv dialect.Driver, opts ...schema.MigrateOption) error {
	m, err := schema.NewMigrate(drv, opts...)
	if err != nil {
		return fmt.Errorf("ent/migrate: %w", err)
	}
	if err := m.Create(ctx, Tables...); err != nil {
		return fmt.Errorf("ent/migrate: create tables: %w", err)
	}
	return nil
}

// Hash fingerprints the table layout so backups can detect schema drift.
func Hash(tables []*schema.Table) string {
	lines := make([]string, 0, len(tables))
	for _, tbl := range tables {
		cols := make([]string, 0, len(tbl.Columns))
		for _, col := range tbl.Columns {
			cols = append(cols, fmt.Sprintf("%s:%s:%t", col.Name, col.Type.String(), col.Nullable))
		}
		lines = append(lines, tbl.Name+"("+strings.Join(cols, ",")+")")
	}
	sort.Strings(lines)
	sum := sha256.Sum256([]byte(strings.Join(lines, ";")))
	return hex.EncodeToString(sum[:])
}
