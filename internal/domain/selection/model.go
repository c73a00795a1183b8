package selection

import "github.com/riskibarqy/fpl-season-ingest/internal/domain/gameweek"

// FixtureRow counts how often a team's home or away fixture was picked in a
// season. Keyed by (TeamCode, Location, Season).
type FixtureRow struct {
	TeamCode string            `validate:"required"`
	Location gameweek.Location `validate:"required,oneof=H A"`
	Season   string            `validate:"required,season_token"`
	Count    *int
}

// PlayerRow counts how often a player was picked in a season. Keyed by
// (WebName, Season).
type PlayerRow struct {
	WebName string `validate:"required"`
	Season  string `validate:"required,season_token"`
	Count   *int
}
