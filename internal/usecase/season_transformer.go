package usecase

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	crerr "github.com/cockroachdb/errors"
	"github.com/go-playground/validator/v10"
	"github.com/riskibarqy/fpl-season-ingest/internal/domain/gameweek"
	"github.com/riskibarqy/fpl-season-ingest/internal/domain/playerhistory"
	"github.com/riskibarqy/fpl-season-ingest/internal/domain/playermatrix"
	"github.com/riskibarqy/fpl-season-ingest/internal/domain/season"
	"github.com/riskibarqy/fpl-season-ingest/internal/domain/selection"
	"github.com/riskibarqy/fpl-season-ingest/internal/domain/teamhistory"
	jv "github.com/riskibarqy/fpl-season-ingest/internal/platform/jsonvalue"
	"github.com/shopspring/decimal"
)

// Top-level payload keys.
const (
	KeyMatrix           = "matrix"
	KeyTeamHistory      = "team_history"
	KeyPlayerHistory    = "history"
	KeyFixtureSelection = "dd_agg_fixture"
	KeyPlayerSelection  = "dd_agg_player"
)

const (
	dateLayout      = "2006-01-02"
	timestampLayout = "2006-01-02T15:04:05.999999999Z"
)

// SeasonTransformer turns a decoded season document into normalized rows.
// Records that cannot be keyed or carry unparsable dates are reported as
// RecordIssues; with strict set, any issue fails the whole transform.
type SeasonTransformer struct {
	validate *validator.Validate
	strict   bool
}

func NewSeasonTransformer(strict bool) *SeasonTransformer {
	validate := validator.New(validator.WithRequiredStructEnabled())
	if err := validate.RegisterValidation("season_token", func(fl validator.FieldLevel) bool {
		return season.Token(fl.Field().String()).Valid()
	}); err != nil {
		panic(fmt.Sprintf("register season_token validation: %v", err))
	}
	return &SeasonTransformer{validate: validate, strict: strict}
}

func (t *SeasonTransformer) Transform(ctx context.Context, token season.Token, doc map[string]any) (season.Batch, []RecordIssue, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.SeasonTransformer.Transform")
	defer span.End()

	batch := season.Batch{Season: token}
	var issues []RecordIssue

	batch.Matrix = collect(ctx, t, KeyMatrix, jv.Array(doc, KeyMatrix), &issues, func(item map[string]any) (playermatrix.Row, string, error) {
		return matrixRow(token, item)
	})
	batch.Teams = collect(ctx, t, KeyTeamHistory, jv.Array(doc, KeyTeamHistory), &issues, func(item map[string]any) (teamhistory.Row, string, error) {
		return teamRow(token, item)
	})
	batch.Players = collect(ctx, t, KeyPlayerHistory, jv.Array(doc, KeyPlayerHistory), &issues, func(item map[string]any) (playerhistory.Row, string, error) {
		return playerRow(token, item)
	})
	batch.FixtureSelections = collect(ctx, t, KeyFixtureSelection, jv.Array(doc, KeyFixtureSelection), &issues, func(item map[string]any) (selection.FixtureRow, string, error) {
		return fixtureSelectionRow(token, item)
	})
	batch.PlayerSelections = collect(ctx, t, KeyPlayerSelection, jv.Array(doc, KeyPlayerSelection), &issues, func(item map[string]any) (selection.PlayerRow, string, error) {
		return playerSelectionRow(token, item)
	})

	if t.strict && len(issues) > 0 {
		return season.Batch{}, issues, crerr.Wrapf(issues[0], "strict record policy rejected %d record(s)", len(issues))
	}
	return batch, issues, nil
}

func collect[R any](
	ctx context.Context,
	t *SeasonTransformer,
	entity string,
	items []any,
	issues *[]RecordIssue,
	build func(item map[string]any) (R, string, error),
) []R {
	out := make([]R, 0, len(items))
	for idx, raw := range items {
		item := jv.Object(raw)
		if item == nil {
			*issues = append(*issues, RecordIssue{
				Entity: entity,
				Index:  idx,
				Err:    crerr.Wrapf(ErrMissingIdentity, "item is %T, not an object", raw),
			})
			continue
		}

		row, key, err := build(item)
		if err == nil {
			if vErr := t.validate.StructCtx(ctx, row); vErr != nil {
				err = crerr.WithSecondaryError(crerr.Wrap(ErrMissingIdentity, "validate row"), vErr)
			}
		}
		if err != nil {
			*issues = append(*issues, RecordIssue{Entity: entity, Index: idx, Key: key, Err: err})
			continue
		}
		out = append(out, row)
	}
	return out
}

func matrixRow(token season.Token, item map[string]any) (playermatrix.Row, string, error) {
	name := strings.TrimSpace(textOrEmpty(item["web_name"]))
	return playermatrix.Row{
		WebName:     name,
		Season:      token.String(),
		TeamName:    jv.Text(item["team_name"]),
		Position:    jv.Text(item["position"]),
		TotalPoints: jv.Int(item["total_points"]),
		Gameweeks:   gameweek.DecodePoints(jv.Object(item["gw_points"])),
	}, name, nil
}

func teamRow(token season.Token, item map[string]any) (teamhistory.Row, string, error) {
	id := jv.Int64(item["team_id"])
	if id == nil {
		return teamhistory.Row{}, "", crerr.Wrap(ErrMissingIdentity, "team_id is absent")
	}

	return teamhistory.Row{
		TeamID:            *id,
		Season:            token.String(),
		TeamName:          jv.Text(item["team_name"]),
		TotalPoints:       jv.Int(item["total_points"]),
		Goals:             jv.Int(item["goals"]),
		Assists:           jv.Int(item["assists"]),
		CleanSheets:       jv.Int(item["clean_sheets"]),
		GoalsConceded:     jv.Int(item["goals_conceded"]),
		HomeGoalsScored:   jv.Int(item["home_goals_scored"]),
		HomeGoalsConceded: jv.Int(item["home_goals_conceded"]),
		AwayGoalsScored:   jv.Int(item["away_goals_scored"]),
		AwayGoalsConceded: jv.Int(item["away_goals_conceded"]),
		OwnGoals:          jv.Int(item["own_goals"]),
		PenaltiesMissed:   jv.Int(item["penalties_missed"]),
		PenaltiesSaved:    jv.Int(item["penalties_saved"]),
		RedCards:          jv.Int(item["red_cards"]),
		YellowCards:       jv.Int(item["yellow_cards"]),
		InDreamteam:       jv.Int(item["in_dreamteam"]),
		XG:                jv.Float(item["xG"]),
		XA:                jv.Float(item["xA"]),
		XGI:               jv.Float(item["xGI"]),
		XGC:               jv.Float(item["xGC"]),
		XG5:               jv.Float(item["xG5"]),
		XGC5:              jv.Float(item["xGC5"]),
	}, strconv.FormatInt(*id, 10), nil
}

func playerRow(token season.Token, item map[string]any) (playerhistory.Row, string, error) {
	id := jv.Int64(item["id"])
	if id == nil {
		return playerhistory.Row{}, "", crerr.Wrap(ErrMissingIdentity, "id is absent")
	}
	key := strconv.FormatInt(*id, 10)

	birthDate, err := parseTemporal("birth_date", item["birth_date"], dateLayout)
	if err != nil {
		return playerhistory.Row{}, key, err
	}
	teamJoinDate, err := parseTemporal("team_join_date", item["team_join_date"], dateLayout)
	if err != nil {
		return playerhistory.Row{}, key, err
	}
	newsAdded, err := parseTemporal("news_added", item["news_added"], timestampLayout)
	if err != nil {
		return playerhistory.Row{}, key, err
	}

	return playerhistory.Row{
		ID:                       *id,
		Season:                   token.String(),
		WebName:                  jv.Text(item["web_name"]),
		FirstName:                jv.Text(item["first_name"]),
		SecondName:               jv.Text(item["second_name"]),
		Position:                 jv.Text(item["position"]),
		Team:                     jv.Int(item["team"]),
		TeamCode:                 jv.Int(item["team_code"]),
		TeamName:                 jv.Text(item["team_name"]),
		BirthDate:                birthDate,
		TeamJoinDate:             teamJoinDate,
		Status:                   jv.Text(item["status"]),
		NowCost:                  parseDecimal(item["now_cost"]),
		TotalPoints:              jv.Int(item["total_points"]),
		Minutes:                  jv.Int(item["minutes"]),
		GoalsScored:              jv.Int(item["goals_scored"]),
		Assists:                  jv.Int(item["assists"]),
		CleanSheets:              jv.Int(item["clean_sheets"]),
		GoalsConceded:            jv.Int(item["goals_conceded"]),
		OwnGoals:                 jv.Int(item["own_goals"]),
		PenaltiesSaved:           jv.Int(item["penalties_saved"]),
		PenaltiesMissed:          jv.Int(item["penalties_missed"]),
		YellowCards:              jv.Int(item["yellow_cards"]),
		RedCards:                 jv.Int(item["red_cards"]),
		Saves:                    jv.Int(item["saves"]),
		Bonus:                    jv.Int(item["bonus"]),
		BPS:                      jv.Int(item["bps"]),
		Influence:                jv.Text(item["influence"]),
		Creativity:               jv.Text(item["creativity"]),
		Threat:                   jv.Text(item["threat"]),
		ICTIndex:                 jv.Text(item["ict_index"]),
		ExpectedGoals:            jv.Text(item["expected_goals"]),
		ExpectedAssists:          jv.Text(item["expected_assists"]),
		ExpectedGoalInvolvements: jv.Text(item["expected_goal_involvements"]),
		ExpectedGoalsConceded:    jv.Text(item["expected_goals_conceded"]),
		Form:                     jv.Text(item["form"]),
		PointsPerGame:            jv.Text(item["points_per_game"]),
		SelectedByPercent:        jv.Text(item["selected_by_percent"]),
		TransfersIn:              jv.Int(item["transfers_in"]),
		TransfersOut:             jv.Int(item["transfers_out"]),
		EventPoints:              jv.Int(item["event_points"]),
		News:                     jv.Text(item["news"]),
		NewsAdded:                newsAdded,
		CanSelect:                jv.Bool(item["can_select"]),
		CanTransact:              jv.Bool(item["can_transact"]),
		ChanceOfPlayingThisRound: jv.Int(item["chance_of_playing_this_round"]),
		ChanceOfPlayingNextRound: jv.Int(item["chance_of_playing_next_round"]),
		Removed:                  jv.Bool(item["removed"]),
		Photo:                    jv.Text(item["photo"]),
		OptaCode:                 jv.Text(item["opta_code"]),
	}, key, nil
}

func fixtureSelectionRow(token season.Token, item map[string]any) (selection.FixtureRow, string, error) {
	raw := textOrEmpty(item["fixture"])
	fixture, err := gameweek.ParseFixture(raw)
	if err != nil {
		return selection.FixtureRow{}, raw, err
	}
	return selection.FixtureRow{
		TeamCode: fixture.Team,
		Location: fixture.Location,
		Season:   token.String(),
		Count:    jv.Int(item["count"]),
	}, raw, nil
}

func playerSelectionRow(token season.Token, item map[string]any) (selection.PlayerRow, string, error) {
	name := strings.TrimSpace(textOrEmpty(item["player"]))
	return selection.PlayerRow{
		WebName: name,
		Season:  token.String(),
		Count:   jv.Int(item["count"]),
	}, name, nil
}

// parseTemporal treats missing and empty values as null. Anything else must
// match layout exactly.
func parseTemporal(field string, value any, layout string) (*time.Time, error) {
	if value == nil {
		return nil, nil
	}
	raw, ok := value.(string)
	if !ok {
		return nil, &TemporalValueError{Field: field, Raw: fmt.Sprint(value)}
	}
	if strings.TrimSpace(raw) == "" {
		return nil, nil
	}
	parsed, err := time.Parse(layout, raw)
	if err != nil {
		return nil, &TemporalValueError{Field: field, Raw: raw}
	}
	return &parsed, nil
}

func parseDecimal(value any) decimal.NullDecimal {
	var (
		out decimal.Decimal
		err error
	)
	switch v := value.(type) {
	case float64:
		out = decimal.NewFromFloat(v)
	case int:
		out = decimal.NewFromInt(int64(v))
	case int64:
		out = decimal.NewFromInt(v)
	case string:
		if strings.TrimSpace(v) == "" {
			return decimal.NullDecimal{}
		}
		out, err = decimal.NewFromString(strings.TrimSpace(v))
	default:
		return decimal.NullDecimal{}
	}
	if err != nil {
		return decimal.NullDecimal{}
	}
	return decimal.NullDecimal{Decimal: out.Round(2), Valid: true}
}

func textOrEmpty(value any) string {
	if text := jv.Text(value); text != nil {
		return *text
	}
	return ""
}
