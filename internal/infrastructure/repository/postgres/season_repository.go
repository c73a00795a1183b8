package postgres

import (
	"context"
	"fmt"

	crerr "github.com/cockroachdb/errors"
	"github.com/jmoiron/sqlx"
	"github.com/riskibarqy/fpl-season-ingest/internal/domain/season"
	"github.com/riskibarqy/fpl-season-ingest/internal/platform/logging"
	qb "github.com/riskibarqy/fpl-season-ingest/internal/platform/querybuilder"
	"github.com/riskibarqy/fpl-season-ingest/internal/usecase"
)

// OpenFunc opens a connected database handle. The handle is owned by the
// session that receives it.
type OpenFunc func(ctx context.Context) (*sqlx.DB, error)

type SeasonStore struct {
	open   OpenFunc
	logger *logging.Logger
}

func NewSeasonStore(open OpenFunc, logger *logging.Logger) *SeasonStore {
	if logger == nil {
		logger = logging.Default()
	}
	return &SeasonStore{open: open, logger: logger}
}

var _ season.Store = (*SeasonStore)(nil)

func (s *SeasonStore) Open(ctx context.Context) (season.Session, error) {
	db, err := s.open(ctx)
	if err != nil {
		return nil, crerr.Mark(crerr.Wrap(err, "open postgres"), usecase.ErrPersistenceFailure)
	}
	return NewSeasonSession(db, s.logger), nil
}

type SeasonSession struct {
	db     *sqlx.DB
	logger *logging.Logger
}

func NewSeasonSession(db *sqlx.DB, logger *logging.Logger) *SeasonSession {
	if logger == nil {
		logger = logging.Default()
	}
	return &SeasonSession{db: db, logger: logger}
}

func (s *SeasonSession) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}

// UpsertSeason merges every row of batch by natural key inside a single
// transaction. Any failure rolls the whole batch back.
func (s *SeasonSession) UpsertSeason(ctx context.Context, batch season.Batch) error {
	if err := s.upsertSeason(ctx, batch); err != nil {
		return crerr.Mark(err, usecase.ErrPersistenceFailure)
	}
	return nil
}

func (s *SeasonSession) upsertSeason(ctx context.Context, batch season.Batch) error {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx upsert season %s: %w", batch.Season, err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	for _, row := range batch.Matrix {
		if err := upsertRow(ctx, tx, tablePlayerMatrix, toPlayerMatrixModel(row), "web_name", "season"); err != nil {
			return fmt.Errorf("upsert player matrix web_name=%s: %w", row.WebName, err)
		}
	}
	for _, row := range batch.Teams {
		if err := upsertRow(ctx, tx, tableTeamHistory, toTeamHistoryModel(row), "team_id", "season"); err != nil {
			return fmt.Errorf("upsert team history team_id=%d: %w", row.TeamID, err)
		}
	}
	for _, row := range batch.Players {
		if err := upsertRow(ctx, tx, tablePlayer, toPlayerModel(row), "id", "season"); err != nil {
			return fmt.Errorf("upsert player id=%d: %w", row.ID, err)
		}
	}
	for _, row := range batch.FixtureSelections {
		if err := upsertRow(ctx, tx, tableFixtureSelection, toFixtureSelectionModel(row), "team_code", "location", "season"); err != nil {
			return fmt.Errorf("upsert fixture selection team=%s location=%s: %w", row.TeamCode, row.Location, err)
		}
	}
	for _, row := range batch.PlayerSelections {
		if err := upsertRow(ctx, tx, tablePlayerSelection, toPlayerSelectionModel(row), "web_name", "season"); err != nil {
			return fmt.Errorf("upsert player selection web_name=%s: %w", row.WebName, err)
		}
	}
	if batch.Raw != nil {
		if err := upsertRow(ctx, tx, tableRawPayloads, toRawSeasonPayloadModel(batch.Season, *batch.Raw), "season"); err != nil {
			return fmt.Errorf("upsert raw season payload: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit upsert season %s tx: %w", batch.Season, err)
	}

	s.logger.DebugContext(ctx, "season tx committed",
		"season", batch.Season.String(),
		"matrix_rows", len(batch.Matrix),
		"team_rows", len(batch.Teams),
		"player_rows", len(batch.Players),
	)
	return nil
}

func upsertRow(ctx context.Context, tx *sqlx.Tx, table string, model any, keyColumns ...string) error {
	query, args, err := qb.UpsertModel(table, model, keyColumns...)
	if err != nil {
		return fmt.Errorf("build upsert %s query: %w", table, err)
	}
	if _, err := tx.ExecContext(ctx, query, args...); err != nil {
		return err
	}
	return nil
}
