package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/riskibarqy/fpl-season-ingest/internal/domain/gameweek"
	"github.com/stretchr/testify/require"
)

func TestSeasonTransformer_MatrixRows(t *testing.T) {
	t.Parallel()

	doc := map[string]any{
		KeyMatrix: []any{
			map[string]any{
				"web_name":     "Saka",
				"team_name":    "Arsenal",
				"position":     "MID",
				"total_points": float64(202),
				"gw_points":    map[string]any{"1": float64(6), "5": float64(2), "7": float64(0)},
			},
			map[string]any{"team_name": "Chelsea"},
			map[string]any{"web_name": "Haaland"},
		},
	}

	batch, issues, err := NewSeasonTransformer(false).Transform(context.Background(), "2022-23", doc)
	require.NoError(t, err)
	require.Len(t, batch.Matrix, 2)
	require.Len(t, issues, 1)

	saka := batch.Matrix[0]
	if saka.Season != "2022-23" || saka.WebName != "Saka" {
		t.Fatalf("unexpected identity: %+v", saka)
	}
	if saka.TotalPoints == nil || *saka.TotalPoints != 202 {
		t.Fatalf("unexpected total points: %v", saka.TotalPoints)
	}
	if v := saka.Gameweeks.At(7); v == nil || *v != 0 {
		t.Fatalf("gw7 zero must be kept, got=%v", v)
	}
	if saka.Gameweeks.At(2) != nil {
		t.Fatalf("gw2 absent in source must be null")
	}

	haaland := batch.Matrix[1]
	if haaland.TeamName != nil || haaland.Gameweeks.Played() != 0 {
		t.Fatalf("missing optional fields must be null: %+v", haaland)
	}

	if issues[0].Entity != KeyMatrix || issues[0].Index != 1 {
		t.Fatalf("unexpected issue: %+v", issues[0])
	}
	if !errors.Is(issues[0], ErrMissingIdentity) {
		t.Fatalf("expected ErrMissingIdentity, got %v", issues[0].Err)
	}
}

func TestSeasonTransformer_TeamRowsTolerateMissingNumbers(t *testing.T) {
	t.Parallel()

	doc := map[string]any{
		KeyTeamHistory: []any{
			map[string]any{
				"team_id":   float64(1),
				"team_name": "Arsenal",
				"goals":     float64(88),
				"xG":        float64(71.9),
			},
			map[string]any{"team_name": "no id"},
		},
	}

	batch, issues, err := NewSeasonTransformer(false).Transform(context.Background(), "2022-23", doc)
	require.NoError(t, err)
	require.Len(t, batch.Teams, 1)
	require.Len(t, issues, 1)

	row := batch.Teams[0]
	if row.TeamID != 1 || row.Goals == nil || *row.Goals != 88 {
		t.Fatalf("unexpected team row: %+v", row)
	}
	if row.XG == nil || *row.XG != 71.9 {
		t.Fatalf("unexpected xG: %v", row.XG)
	}
	if row.Assists != nil || row.XGC5 != nil {
		t.Fatalf("missing numerics must stay null")
	}
}

func TestSeasonTransformer_PlayerTemporalFields(t *testing.T) {
	t.Parallel()

	doc := map[string]any{
		KeyPlayerHistory: []any{
			map[string]any{
				"id":                           float64(7),
				"web_name":                     "Saka",
				"birth_date":                   "1998-05-11",
				"team_join_date":               "",
				"news_added":                   "2023-01-05T10:15:00.123456Z",
				"now_cost":                     float64(8.1),
				"influence":                    "1133.4",
				"selected_by_percent":          "42.1",
				"can_select":                   true,
				"chance_of_playing_next_round": nil,
			},
			map[string]any{
				"id":         float64(8),
				"web_name":   "Odegaard",
				"birth_date": "11/05/1998",
			},
			map[string]any{
				"id":         float64(9),
				"web_name":   "Rice",
				"news_added": "2023-01-05 10:15:00",
			},
		},
	}

	batch, issues, err := NewSeasonTransformer(false).Transform(context.Background(), "2022-23", doc)
	require.NoError(t, err)
	require.Len(t, batch.Players, 1)
	require.Len(t, issues, 2)

	row := batch.Players[0]
	if row.BirthDate == nil || !row.BirthDate.Equal(time.Date(1998, 5, 11, 0, 0, 0, 0, time.UTC)) {
		t.Fatalf("unexpected birth date: %v", row.BirthDate)
	}
	if row.TeamJoinDate != nil {
		t.Fatalf("empty team_join_date must be null")
	}
	wantNews := time.Date(2023, 1, 5, 10, 15, 0, 123456000, time.UTC)
	if row.NewsAdded == nil || !row.NewsAdded.Equal(wantNews) {
		t.Fatalf("unexpected news_added: %v", row.NewsAdded)
	}
	if !row.NowCost.Valid || row.NowCost.Decimal.String() != "8.1" {
		t.Fatalf("unexpected now_cost: %+v", row.NowCost)
	}
	if row.Influence == nil || *row.Influence != "1133.4" {
		t.Fatalf("derived stats must be kept as text: %v", row.Influence)
	}
	if row.CanSelect == nil || !*row.CanSelect || row.ChanceOfPlayingNextRound != nil {
		t.Fatalf("unexpected flags: %+v", row)
	}

	var temporal *TemporalValueError
	if !errors.As(issues[0], &temporal) {
		t.Fatalf("expected TemporalValueError, got %v", issues[0].Err)
	}
	if temporal.Field != "birth_date" || temporal.Raw != "11/05/1998" {
		t.Fatalf("unexpected temporal error: %+v", temporal)
	}
	if issues[0].Key != "8" {
		t.Fatalf("unexpected issue key: %s", issues[0].Key)
	}
	if !errors.Is(issues[1], ErrInvalidTemporalValue) {
		t.Fatalf("expected news_added failure, got %v", issues[1].Err)
	}
}

func TestSeasonTransformer_SelectionAggregates(t *testing.T) {
	t.Parallel()

	doc := map[string]any{
		KeyFixtureSelection: []any{
			map[string]any{"fixture": "LEI(H)", "count": float64(120)},
			map[string]any{"fixture": "MCI(A)", "count": float64(80)},
			map[string]any{"fixture": "BAD", "count": float64(1)},
		},
		KeyPlayerSelection: []any{
			map[string]any{"player": "Salah", "count": float64(33)},
			"not-an-object",
		},
	}

	batch, issues, err := NewSeasonTransformer(false).Transform(context.Background(), "2022-23", doc)
	require.NoError(t, err)
	require.Len(t, batch.FixtureSelections, 2)
	require.Len(t, batch.PlayerSelections, 1)
	require.Len(t, issues, 2)

	if batch.FixtureSelections[0].TeamCode != "LEI" || batch.FixtureSelections[0].Location != gameweek.Home {
		t.Fatalf("unexpected fixture selection: %+v", batch.FixtureSelections[0])
	}
	if batch.FixtureSelections[1].Location != gameweek.Away {
		t.Fatalf("unexpected fixture selection: %+v", batch.FixtureSelections[1])
	}
	if !errors.Is(issues[0], ErrInvalidFixtureToken) {
		t.Fatalf("expected ErrInvalidFixtureToken, got %v", issues[0].Err)
	}
	if !errors.Is(issues[1], ErrMissingIdentity) {
		t.Fatalf("expected ErrMissingIdentity for non-object, got %v", issues[1].Err)
	}
}

func TestSeasonTransformer_MissingKeysYieldNoRows(t *testing.T) {
	t.Parallel()

	batch, issues, err := NewSeasonTransformer(true).Transform(context.Background(), "2022-23", map[string]any{"unrelated": true})
	require.NoError(t, err)
	require.Empty(t, issues)
	if !batch.Empty() {
		t.Fatalf("expected empty batch, got %+v", batch)
	}
}

func TestSeasonTransformer_StrictPolicyFailsBatch(t *testing.T) {
	t.Parallel()

	doc := map[string]any{
		KeyPlayerHistory: []any{
			map[string]any{"id": float64(1), "birth_date": "1998-05-11"},
			map[string]any{"id": float64(2), "birth_date": "11/05/1998"},
		},
	}

	batch, issues, err := NewSeasonTransformer(true).Transform(context.Background(), "2022-23", doc)
	if !errors.Is(err, ErrInvalidTemporalValue) {
		t.Fatalf("expected ErrInvalidTemporalValue, got %v", err)
	}
	require.Len(t, issues, 1)
	if !batch.Empty() {
		t.Fatalf("strict failure must not return rows")
	}
}

func TestSeasonTransformer_ZeroIdentifiersAreKept(t *testing.T) {
	t.Parallel()

	doc := map[string]any{
		KeyTeamHistory:   []any{map[string]any{"team_id": float64(0), "team_name": "Unknown"}},
		KeyPlayerHistory: []any{map[string]any{"id": float64(0), "web_name": "Trialist"}},
	}

	batch, issues, err := NewSeasonTransformer(true).Transform(context.Background(), "2022-23", doc)
	require.NoError(t, err)
	require.Empty(t, issues)
	require.Len(t, batch.Teams, 1)
	require.Len(t, batch.Players, 1)
	require.Equal(t, int64(0), batch.Teams[0].TeamID)
	require.Equal(t, int64(0), batch.Players[0].ID)
}

func TestSeasonTransformer_BlankNamesFailValidation(t *testing.T) {
	t.Parallel()

	doc := map[string]any{
		KeyMatrix:          []any{map[string]any{"web_name": "   "}},
		KeyPlayerSelection: []any{map[string]any{"player": "", "count": float64(3)}},
	}

	batch, issues, err := NewSeasonTransformer(false).Transform(context.Background(), "2022-23", doc)
	require.NoError(t, err)
	require.Empty(t, batch.Matrix)
	require.Empty(t, batch.PlayerSelections)
	require.Len(t, issues, 2)
	for _, issue := range issues {
		if !errors.Is(issue, ErrMissingIdentity) {
			t.Fatalf("expected ErrMissingIdentity, got %v", issue.Err)
		}
	}
}

func TestSeasonTransformer_RejectsMalformedSeasonToken(t *testing.T) {
	t.Parallel()

	doc := map[string]any{KeyMatrix: []any{map[string]any{"web_name": "Saka"}}}

	batch, issues, err := NewSeasonTransformer(false).Transform(context.Background(), "2022", doc)
	require.NoError(t, err)
	require.Empty(t, batch.Matrix)
	require.Len(t, issues, 1)
	require.ErrorIs(t, issues[0], ErrMissingIdentity)
}
