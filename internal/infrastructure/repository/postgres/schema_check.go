package postgres

import (
	"context"
	"fmt"
	"sort"

	"github.com/jmoiron/sqlx"
	qb "github.com/riskibarqy/fpl-season-ingest/internal/platform/querybuilder"
)

type SchemaReport struct {
	ServerVersion string
	Present       []string
	Missing       []string
}

func (r SchemaReport) Complete() bool {
	return len(r.Missing) == 0
}

// Check opens a connection, reads the server version and looks up which of
// RequiredTables exist in the public schema.
func (s *SeasonStore) Check(ctx context.Context) (SchemaReport, error) {
	db, err := s.open(ctx)
	if err != nil {
		return SchemaReport{}, fmt.Errorf("open postgres: %w", err)
	}
	defer db.Close()

	return inspectSchema(ctx, db, RequiredTables)
}

func inspectSchema(ctx context.Context, db *sqlx.DB, tables []string) (SchemaReport, error) {
	var report SchemaReport
	if err := db.GetContext(ctx, &report.ServerVersion, "SELECT version()"); err != nil {
		return SchemaReport{}, fmt.Errorf("query server version: %w", err)
	}

	names := make([]any, 0, len(tables))
	for _, table := range tables {
		names = append(names, table)
	}
	query, args, err := qb.Select("table_name").
		From("information_schema.tables").
		Where(qb.Eq("table_schema", "public"), qb.In("table_name", names)).
		OrderBy("table_name").
		ToSQL()
	if err != nil {
		return SchemaReport{}, fmt.Errorf("build table lookup query: %w", err)
	}

	var present []string
	if err := db.SelectContext(ctx, &present, query, args...); err != nil {
		return SchemaReport{}, fmt.Errorf("query required tables: %w", err)
	}

	found := make(map[string]struct{}, len(present))
	for _, name := range present {
		found[name] = struct{}{}
	}
	for _, table := range tables {
		if _, ok := found[table]; !ok {
			report.Missing = append(report.Missing, table)
		}
	}
	sort.Strings(report.Missing)
	report.Present = present
	return report, nil
}
