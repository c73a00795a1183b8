package memory

import (
	"context"
	"fmt"
	"maps"
	"sort"
	"strconv"
	"sync"
	"sync/atomic"

	crerr "github.com/cockroachdb/errors"
	"github.com/riskibarqy/fpl-season-ingest/internal/domain/playerhistory"
	"github.com/riskibarqy/fpl-season-ingest/internal/domain/playermatrix"
	"github.com/riskibarqy/fpl-season-ingest/internal/domain/season"
	"github.com/riskibarqy/fpl-season-ingest/internal/domain/selection"
	"github.com/riskibarqy/fpl-season-ingest/internal/domain/teamhistory"
	"github.com/riskibarqy/fpl-season-ingest/internal/usecase"
)

// WriteHook is called before each row is staged. Returning an error aborts
// the batch, leaving the store untouched.
type WriteHook func(table, key string) error

type tables struct {
	matrix            map[string]playermatrix.Row
	teams             map[string]teamhistory.Row
	players           map[string]playerhistory.Row
	fixtureSelections map[string]selection.FixtureRow
	playerSelections  map[string]selection.PlayerRow
	raw               map[season.Token]season.RawPayload
}

func newTables() tables {
	return tables{
		matrix:            make(map[string]playermatrix.Row),
		teams:             make(map[string]teamhistory.Row),
		players:           make(map[string]playerhistory.Row),
		fixtureSelections: make(map[string]selection.FixtureRow),
		playerSelections:  make(map[string]selection.PlayerRow),
		raw:               make(map[season.Token]season.RawPayload),
	}
}

func (t tables) clone() tables {
	return tables{
		matrix:            maps.Clone(t.matrix),
		teams:             maps.Clone(t.teams),
		players:           maps.Clone(t.players),
		fixtureSelections: maps.Clone(t.fixtureSelections),
		playerSelections:  maps.Clone(t.playerSelections),
		raw:               maps.Clone(t.raw),
	}
}

// SeasonStore keeps season rows in maps keyed like the relational primary
// keys. A batch is staged on a copy and swapped in only when every row was
// accepted.
type SeasonStore struct {
	mu       sync.RWMutex
	data     tables
	hook     WriteHook
	sessions atomic.Int64
}

func NewSeasonStore() *SeasonStore {
	return &SeasonStore{data: newTables()}
}

// SetWriteHook installs a hook consulted for every staged row.
func (s *SeasonStore) SetWriteHook(hook WriteHook) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.hook = hook
}

var _ season.Store = (*SeasonStore)(nil)

func (s *SeasonStore) Open(ctx context.Context) (season.Session, error) {
	if err := ctx.Err(); err != nil {
		return nil, crerr.Mark(crerr.Wrap(err, "open memory session"), usecase.ErrPersistenceFailure)
	}
	s.sessions.Add(1)
	return &seasonSession{store: s}, nil
}

// OpenSessions reports sessions that were opened and not yet closed.
func (s *SeasonStore) OpenSessions() int {
	return int(s.sessions.Load())
}

type seasonSession struct {
	store  *SeasonStore
	closed atomic.Bool
}

func (ss *seasonSession) Close() error {
	if ss.closed.CompareAndSwap(false, true) {
		ss.store.sessions.Add(-1)
	}
	return nil
}

func (ss *seasonSession) UpsertSeason(ctx context.Context, batch season.Batch) error {
	if ss.closed.Load() {
		return crerr.Mark(crerr.New("memory session is closed"), usecase.ErrPersistenceFailure)
	}
	if err := ss.store.upsert(ctx, batch); err != nil {
		return crerr.Mark(err, usecase.ErrPersistenceFailure)
	}
	return nil
}

func (s *SeasonStore) upsert(ctx context.Context, batch season.Batch) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	staged := s.data.clone()
	stage := func(table, key string) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		if s.hook != nil {
			if err := s.hook(table, key); err != nil {
				return fmt.Errorf("stage %s key=%s: %w", table, key, err)
			}
		}
		return nil
	}

	for _, row := range batch.Matrix {
		key := row.WebName + "|" + row.Season
		if err := stage("player_matrix", key); err != nil {
			return err
		}
		staged.matrix[key] = row
	}
	for _, row := range batch.Teams {
		key := strconv.FormatInt(row.TeamID, 10) + "|" + row.Season
		if err := stage("team_history", key); err != nil {
			return err
		}
		staged.teams[key] = row
	}
	for _, row := range batch.Players {
		key := strconv.FormatInt(row.ID, 10) + "|" + row.Season
		if err := stage("player", key); err != nil {
			return err
		}
		staged.players[key] = row
	}
	for _, row := range batch.FixtureSelections {
		key := row.TeamCode + "|" + string(row.Location) + "|" + row.Season
		if err := stage("fixture_selection", key); err != nil {
			return err
		}
		staged.fixtureSelections[key] = row
	}
	for _, row := range batch.PlayerSelections {
		key := row.WebName + "|" + row.Season
		if err := stage("player_selection", key); err != nil {
			return err
		}
		staged.playerSelections[key] = row
	}
	if batch.Raw != nil {
		if err := stage("raw_season_payloads", batch.Season.String()); err != nil {
			return err
		}
		staged.raw[batch.Season] = *batch.Raw
	}

	s.data = staged
	return nil
}

// Snapshot is a point-in-time copy of the store with rows ordered by key.
type Snapshot struct {
	Matrix            []playermatrix.Row
	Teams             []teamhistory.Row
	Players           []playerhistory.Row
	FixtureSelections []selection.FixtureRow
	PlayerSelections  []selection.PlayerRow
	Raw               map[season.Token]season.RawPayload
}

func (s *SeasonStore) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return Snapshot{
		Matrix:            sortedValues(s.data.matrix),
		Teams:             sortedValues(s.data.teams),
		Players:           sortedValues(s.data.players),
		FixtureSelections: sortedValues(s.data.fixtureSelections),
		PlayerSelections:  sortedValues(s.data.playerSelections),
		Raw:               maps.Clone(s.data.raw),
	}
}

func sortedValues[V any](src map[string]V) []V {
	keys := make([]string, 0, len(src))
	for key := range src {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	out := make([]V, 0, len(keys))
	for _, key := range keys {
		out = append(out, src[key])
	}
	return out
}
