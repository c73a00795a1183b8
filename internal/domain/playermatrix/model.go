package playermatrix

import "github.com/riskibarqy/fpl-season-ingest/internal/domain/gameweek"

// Row is one player's per-gameweek points for a season, keyed by
// (WebName, Season).
type Row struct {
	WebName     string `validate:"required"`
	Season      string `validate:"required,season_token"`
	TeamName    *string
	Position    *string
	TotalPoints *int
	Gameweeks   gameweek.Points
}
