package playerhistory

import (
	"time"

	"github.com/shopspring/decimal"
)

// Row is a player's season snapshot keyed by (ID, Season).
//
// Influence through SelectedByPercent are kept as the provider's text and are
// never parsed.
type Row struct {
	ID                       int64
	Season                   string `validate:"required,season_token"`
	WebName                  *string
	FirstName                *string
	SecondName               *string
	Position                 *string
	Team                     *int
	TeamCode                 *int
	TeamName                 *string
	BirthDate                *time.Time
	TeamJoinDate             *time.Time
	Status                   *string
	NowCost                  decimal.NullDecimal
	TotalPoints              *int
	Minutes                  *int
	GoalsScored              *int
	Assists                  *int
	CleanSheets              *int
	GoalsConceded            *int
	OwnGoals                 *int
	PenaltiesSaved           *int
	PenaltiesMissed          *int
	YellowCards              *int
	RedCards                 *int
	Saves                    *int
	Bonus                    *int
	BPS                      *int
	Influence                *string
	Creativity               *string
	Threat                   *string
	ICTIndex                 *string
	ExpectedGoals            *string
	ExpectedAssists          *string
	ExpectedGoalInvolvements *string
	ExpectedGoalsConceded    *string
	Form                     *string
	PointsPerGame            *string
	SelectedByPercent        *string
	TransfersIn              *int
	TransfersOut             *int
	EventPoints              *int
	News                     *string
	NewsAdded                *time.Time
	CanSelect                *bool
	CanTransact              *bool
	ChanceOfPlayingThisRound *int
	ChanceOfPlayingNextRound *int
	Removed                  *bool
	Photo                    *string
	OptaCode                 *string
}
