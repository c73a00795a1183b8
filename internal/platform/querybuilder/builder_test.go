package querybuilder

import (
	"strings"
	"testing"
)

func TestSelectBuilder(t *testing.T) {
	query, args, err := Select("table_name").
		From("information_schema.tables").
		Where(Eq("table_schema", "public"), In("table_name", []any{"player", "team_history"})).
		OrderBy("table_name").
		ToSQL()
	if err != nil {
		t.Fatalf("build select query: %v", err)
	}

	wantQuery := "SELECT table_name FROM information_schema.tables WHERE table_schema = $1 AND table_name IN ($2, $3) ORDER BY table_name"
	if query != wantQuery {
		t.Fatalf("unexpected query:\nwant: %s\ngot:  %s", wantQuery, query)
	}
	if len(args) != 3 || args[0] != "public" || args[2] != "team_history" {
		t.Fatalf("unexpected args: %+v", args)
	}
}

func TestSelectBuilder_EmptyIn(t *testing.T) {
	query, args, err := Select("id").From("player").Where(In("id", nil)).ToSQL()
	if err != nil {
		t.Fatalf("build select query: %v", err)
	}
	if query != "SELECT id FROM player WHERE 1=0" || len(args) != 0 {
		t.Fatalf("unexpected query=%q args=%+v", query, args)
	}
}

func TestInsertBuilder(t *testing.T) {
	query, args, err := InsertInto("player_selection").
		Columns("web_name", "season").
		Values("Saka", "2022-23").
		Suffix("RETURNING web_name").
		ToSQL()
	if err != nil {
		t.Fatalf("build insert query: %v", err)
	}

	wantQuery := "INSERT INTO player_selection (web_name, season) VALUES ($1, $2) RETURNING web_name"
	if query != wantQuery {
		t.Fatalf("unexpected query:\nwant: %s\ngot:  %s", wantQuery, query)
	}
	if len(args) != 2 || args[0] != "Saka" || args[1] != "2022-23" {
		t.Fatalf("unexpected args: %+v", args)
	}
}

func TestInsertBuilder_RowWidthMismatch(t *testing.T) {
	_, _, err := InsertInto("player").Columns("id", "season").Values(1).ToSQL()
	if err == nil {
		t.Fatalf("expected error for short row")
	}
}

type selectionRow struct {
	WebName string `db:"web_name"`
	Season  string `db:"season"`
	Count   *int   `db:"selection_count"`
	note    string
	Skipped string `db:"-"`
}

func TestUpsertModel(t *testing.T) {
	count := 12
	query, args, err := UpsertModel("player_selection", selectionRow{WebName: "Saka", Season: "2022-23", Count: &count}, "web_name", "season")
	if err != nil {
		t.Fatalf("build upsert query: %v", err)
	}

	wantQuery := "INSERT INTO player_selection (web_name, season, selection_count) VALUES ($1, $2, $3) " +
		"ON CONFLICT (web_name, season) DO UPDATE SET selection_count = EXCLUDED.selection_count"
	if query != wantQuery {
		t.Fatalf("unexpected query:\nwant: %s\ngot:  %s", wantQuery, query)
	}
	if len(args) != 3 {
		t.Fatalf("unexpected args len: got=%d want=3", len(args))
	}
}

func TestUpsertModel_KeyOnlyModelDoesNothing(t *testing.T) {
	type keyOnly struct {
		ID     int64  `db:"id"`
		Season string `db:"season"`
	}
	query, _, err := UpsertModel("player", &keyOnly{ID: 1, Season: "2022-23"}, "id", "season")
	if err != nil {
		t.Fatalf("build upsert query: %v", err)
	}
	if !strings.HasSuffix(query, "ON CONFLICT (id, season) DO NOTHING") {
		t.Fatalf("unexpected query: %s", query)
	}
}

func TestUpsertModel_RejectsUnknownKey(t *testing.T) {
	_, _, err := UpsertModel("player_selection", selectionRow{}, "player_id")
	if err == nil {
		t.Fatalf("expected error for key column outside the model")
	}
	if _, _, err := UpsertModel("player_selection", selectionRow{}); err == nil {
		t.Fatalf("expected error without key columns")
	}
}

func TestInsertModel_RejectsNonStruct(t *testing.T) {
	var row *selectionRow
	if _, _, err := InsertModel("player_selection", row, ""); err == nil {
		t.Fatalf("expected error for nil model")
	}
	if _, _, err := InsertModel("player_selection", 42, ""); err == nil {
		t.Fatalf("expected error for non-struct model")
	}
}
