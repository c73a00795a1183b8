package postgres

import (
	"database/sql"
	"time"

	"github.com/lib/pq"
	"github.com/riskibarqy/fpl-season-ingest/internal/domain/gameweek"
	"github.com/riskibarqy/fpl-season-ingest/internal/domain/playerhistory"
	"github.com/riskibarqy/fpl-season-ingest/internal/domain/playermatrix"
	"github.com/riskibarqy/fpl-season-ingest/internal/domain/season"
	"github.com/riskibarqy/fpl-season-ingest/internal/domain/selection"
	"github.com/riskibarqy/fpl-season-ingest/internal/domain/teamhistory"
	"github.com/shopspring/decimal"
)

const (
	tablePlayerMatrix     = "player_matrix"
	tableTeamHistory      = "team_history"
	tablePlayer           = "player"
	tableFixtureSelection = "fixture_selection"
	tablePlayerSelection  = "player_selection"
	tableRawPayloads      = "raw_season_payloads"
)

// RequiredTables lists every table a run writes to.
var RequiredTables = []string{
	tablePlayerMatrix,
	tableTeamHistory,
	tablePlayer,
	tableFixtureSelection,
	tablePlayerSelection,
	tableRawPayloads,
}

type playerMatrixInsertModel struct {
	WebName     string  `db:"web_name"`
	Season      string  `db:"season"`
	TeamName    *string `db:"team_name"`
	Position    *string `db:"position"`
	TotalPoints *int    `db:"total_points"`
	GwPoints    any     `db:"gw_points"`
}

type teamHistoryInsertModel struct {
	TeamID            int64    `db:"team_id"`
	Season            string   `db:"season"`
	TeamName          *string  `db:"team_name"`
	TotalPoints       *int     `db:"total_points"`
	Goals             *int     `db:"goals"`
	Assists           *int     `db:"assists"`
	CleanSheets       *int     `db:"clean_sheets"`
	GoalsConceded     *int     `db:"goals_conceded"`
	HomeGoalsScored   *int     `db:"home_goals_scored"`
	HomeGoalsConceded *int     `db:"home_goals_conceded"`
	AwayGoalsScored   *int     `db:"away_goals_scored"`
	AwayGoalsConceded *int     `db:"away_goals_conceded"`
	OwnGoals          *int     `db:"own_goals"`
	PenaltiesMissed   *int     `db:"penalties_missed"`
	PenaltiesSaved    *int     `db:"penalties_saved"`
	RedCards          *int     `db:"red_cards"`
	YellowCards       *int     `db:"yellow_cards"`
	InDreamteam       *int     `db:"in_dreamteam"`
	XG                *float64 `db:"xg"`
	XA                *float64 `db:"xa"`
	XGI               *float64 `db:"xgi"`
	XGC               *float64 `db:"xgc"`
	XG5               *float64 `db:"xg5"`
	XGC5              *float64 `db:"xgc5"`
}

type playerInsertModel struct {
	ID                       int64               `db:"id"`
	Season                   string              `db:"season"`
	WebName                  *string             `db:"web_name"`
	FirstName                *string             `db:"first_name"`
	SecondName               *string             `db:"second_name"`
	Position                 *string             `db:"position"`
	Team                     *int                `db:"team"`
	TeamCode                 *int                `db:"team_code"`
	TeamName                 *string             `db:"team_name"`
	BirthDate                *time.Time          `db:"birth_date"`
	TeamJoinDate             *time.Time          `db:"team_join_date"`
	Status                   *string             `db:"status"`
	NowCost                  decimal.NullDecimal `db:"now_cost"`
	TotalPoints              *int                `db:"total_points"`
	Minutes                  *int                `db:"minutes"`
	GoalsScored              *int                `db:"goals_scored"`
	Assists                  *int                `db:"assists"`
	CleanSheets              *int                `db:"clean_sheets"`
	GoalsConceded            *int                `db:"goals_conceded"`
	OwnGoals                 *int                `db:"own_goals"`
	PenaltiesSaved           *int                `db:"penalties_saved"`
	PenaltiesMissed          *int                `db:"penalties_missed"`
	YellowCards              *int                `db:"yellow_cards"`
	RedCards                 *int                `db:"red_cards"`
	Saves                    *int                `db:"saves"`
	Bonus                    *int                `db:"bonus"`
	BPS                      *int                `db:"bps"`
	Influence                *string             `db:"influence"`
	Creativity               *string             `db:"creativity"`
	Threat                   *string             `db:"threat"`
	ICTIndex                 *string             `db:"ict_index"`
	ExpectedGoals            *string             `db:"expected_goals"`
	ExpectedAssists          *string             `db:"expected_assists"`
	ExpectedGoalInvolvements *string             `db:"expected_goal_involvements"`
	ExpectedGoalsConceded    *string             `db:"expected_goals_conceded"`
	Form                     *string             `db:"form"`
	PointsPerGame            *string             `db:"points_per_game"`
	SelectedByPercent        *string             `db:"selected_by_percent"`
	TransfersIn              *int                `db:"transfers_in"`
	TransfersOut             *int                `db:"transfers_out"`
	EventPoints              *int                `db:"event_points"`
	News                     *string             `db:"news"`
	NewsAdded                *time.Time          `db:"news_added"`
	CanSelect                *bool               `db:"can_select"`
	CanTransact              *bool               `db:"can_transact"`
	ChanceOfPlayingThisRound *int                `db:"chance_of_playing_this_round"`
	ChanceOfPlayingNextRound *int                `db:"chance_of_playing_next_round"`
	Removed                  *bool               `db:"removed"`
	Photo                    *string             `db:"photo"`
	OptaCode                 *string             `db:"opta_code"`
}

type fixtureSelectionInsertModel struct {
	TeamCode string `db:"team_code"`
	Location string `db:"location"`
	Season   string `db:"season"`
	Count    *int   `db:"selection_count"`
}

type playerSelectionInsertModel struct {
	WebName string `db:"web_name"`
	Season  string `db:"season"`
	Count   *int   `db:"selection_count"`
}

type rawSeasonPayloadInsertModel struct {
	Season      string    `db:"season"`
	SourceURL   string    `db:"source_url"`
	Payload     string    `db:"payload"`
	PayloadHash string    `db:"payload_hash"`
	LastRunID   string    `db:"last_run_id"`
	IngestedAt  time.Time `db:"ingested_at"`
}

func toPlayerMatrixModel(row playermatrix.Row) playerMatrixInsertModel {
	return playerMatrixInsertModel{
		WebName:     row.WebName,
		Season:      row.Season,
		TeamName:    row.TeamName,
		Position:    row.Position,
		TotalPoints: row.TotalPoints,
		GwPoints:    pq.Array(gameweekArray(row.Gameweeks)),
	}
}

// gameweekArray keeps slot positions; nil slots become NULL array elements.
func gameweekArray(points gameweek.Points) []sql.NullInt64 {
	out := make([]sql.NullInt64, gameweek.Count)
	for i, v := range points {
		if v != nil {
			out[i] = sql.NullInt64{Int64: int64(*v), Valid: true}
		}
	}
	return out
}

func toTeamHistoryModel(row teamhistory.Row) teamHistoryInsertModel {
	return teamHistoryInsertModel{
		TeamID:            row.TeamID,
		Season:            row.Season,
		TeamName:          row.TeamName,
		TotalPoints:       row.TotalPoints,
		Goals:             row.Goals,
		Assists:           row.Assists,
		CleanSheets:       row.CleanSheets,
		GoalsConceded:     row.GoalsConceded,
		HomeGoalsScored:   row.HomeGoalsScored,
		HomeGoalsConceded: row.HomeGoalsConceded,
		AwayGoalsScored:   row.AwayGoalsScored,
		AwayGoalsConceded: row.AwayGoalsConceded,
		OwnGoals:          row.OwnGoals,
		PenaltiesMissed:   row.PenaltiesMissed,
		PenaltiesSaved:    row.PenaltiesSaved,
		RedCards:          row.RedCards,
		YellowCards:       row.YellowCards,
		InDreamteam:       row.InDreamteam,
		XG:                row.XG,
		XA:                row.XA,
		XGI:               row.XGI,
		XGC:               row.XGC,
		XG5:               row.XG5,
		XGC5:              row.XGC5,
	}
}

func toPlayerModel(row playerhistory.Row) playerInsertModel {
	return playerInsertModel{
		ID:                       row.ID,
		Season:                   row.Season,
		WebName:                  row.WebName,
		FirstName:                row.FirstName,
		SecondName:               row.SecondName,
		Position:                 row.Position,
		Team:                     row.Team,
		TeamCode:                 row.TeamCode,
		TeamName:                 row.TeamName,
		BirthDate:                row.BirthDate,
		TeamJoinDate:             row.TeamJoinDate,
		Status:                   row.Status,
		NowCost:                  row.NowCost,
		TotalPoints:              row.TotalPoints,
		Minutes:                  row.Minutes,
		GoalsScored:              row.GoalsScored,
		Assists:                  row.Assists,
		CleanSheets:              row.CleanSheets,
		GoalsConceded:            row.GoalsConceded,
		OwnGoals:                 row.OwnGoals,
		PenaltiesSaved:           row.PenaltiesSaved,
		PenaltiesMissed:          row.PenaltiesMissed,
		YellowCards:              row.YellowCards,
		RedCards:                 row.RedCards,
		Saves:                    row.Saves,
		Bonus:                    row.Bonus,
		BPS:                      row.BPS,
		Influence:                row.Influence,
		Creativity:               row.Creativity,
		Threat:                   row.Threat,
		ICTIndex:                 row.ICTIndex,
		ExpectedGoals:            row.ExpectedGoals,
		ExpectedAssists:          row.ExpectedAssists,
		ExpectedGoalInvolvements: row.ExpectedGoalInvolvements,
		ExpectedGoalsConceded:    row.ExpectedGoalsConceded,
		Form:                     row.Form,
		PointsPerGame:            row.PointsPerGame,
		SelectedByPercent:        row.SelectedByPercent,
		TransfersIn:              row.TransfersIn,
		TransfersOut:             row.TransfersOut,
		EventPoints:              row.EventPoints,
		News:                     row.News,
		NewsAdded:                row.NewsAdded,
		CanSelect:                row.CanSelect,
		CanTransact:              row.CanTransact,
		ChanceOfPlayingThisRound: row.ChanceOfPlayingThisRound,
		ChanceOfPlayingNextRound: row.ChanceOfPlayingNextRound,
		Removed:                  row.Removed,
		Photo:                    row.Photo,
		OptaCode:                 row.OptaCode,
	}
}

func toFixtureSelectionModel(row selection.FixtureRow) fixtureSelectionInsertModel {
	return fixtureSelectionInsertModel{
		TeamCode: row.TeamCode,
		Location: string(row.Location),
		Season:   row.Season,
		Count:    row.Count,
	}
}

func toPlayerSelectionModel(row selection.PlayerRow) playerSelectionInsertModel {
	return playerSelectionInsertModel{
		WebName: row.WebName,
		Season:  row.Season,
		Count:   row.Count,
	}
}

func toRawSeasonPayloadModel(token season.Token, raw season.RawPayload) rawSeasonPayloadInsertModel {
	return rawSeasonPayloadInsertModel{
		Season:      token.String(),
		SourceURL:   raw.SourceURL,
		Payload:     raw.PayloadJSON,
		PayloadHash: raw.PayloadHash,
		LastRunID:   raw.RunID,
		IngestedAt:  raw.IngestedAt,
	}
}
