package teamhistory

// Row is a team's aggregate statistics for a season, keyed by (TeamID, Season).
type Row struct {
	TeamID            int64
	Season            string `validate:"required,season_token"`
	TeamName          *string
	TotalPoints       *int
	Goals             *int
	Assists           *int
	CleanSheets       *int
	GoalsConceded     *int
	HomeGoalsScored   *int
	HomeGoalsConceded *int
	AwayGoalsScored   *int
	AwayGoalsConceded *int
	OwnGoals          *int
	PenaltiesMissed   *int
	PenaltiesSaved    *int
	RedCards          *int
	YellowCards       *int
	InDreamteam       *int
	XG                *float64
	XA                *float64
	XGI               *float64
	XGC               *float64
	XG5               *float64
	XGC5              *float64
}
