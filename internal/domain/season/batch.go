package season

import (
	"time"

	"github.com/riskibarqy/fpl-season-ingest/internal/domain/playerhistory"
	"github.com/riskibarqy/fpl-season-ingest/internal/domain/playermatrix"
	"github.com/riskibarqy/fpl-season-ingest/internal/domain/selection"
	"github.com/riskibarqy/fpl-season-ingest/internal/domain/teamhistory"
)

// RawPayload is the fetched document kept alongside the normalized rows.
type RawPayload struct {
	SourceURL   string
	PayloadJSON string
	PayloadHash string
	RunID       string
	IngestedAt  time.Time
}

// Batch is everything one run writes for a season. It is merged as a unit.
type Batch struct {
	Season            Token
	Matrix            []playermatrix.Row
	Teams             []teamhistory.Row
	Players           []playerhistory.Row
	FixtureSelections []selection.FixtureRow
	PlayerSelections  []selection.PlayerRow
	Raw               *RawPayload
}

func (b Batch) Empty() bool {
	return len(b.Matrix) == 0 &&
		len(b.Teams) == 0 &&
		len(b.Players) == 0 &&
		len(b.FixtureSelections) == 0 &&
		len(b.PlayerSelections) == 0 &&
		b.Raw == nil
}

// Summary reports what a successful run merged.
type Summary struct {
	RunID             string
	Season            Token
	Matrix            int
	Teams             int
	Players           int
	FixtureSelections int
	PlayerSelections  int
	Skipped           int
	RawArchived       bool
	Duration          time.Duration
}

func (b Batch) Summary(runID string, skipped int) Summary {
	return Summary{
		RunID:             runID,
		Season:            b.Season,
		Matrix:            len(b.Matrix),
		Teams:             len(b.Teams),
		Players:           len(b.Players),
		FixtureSelections: len(b.FixtureSelections),
		PlayerSelections:  len(b.PlayerSelections),
		Skipped:           skipped,
		RawArchived:       b.Raw != nil,
	}
}
