package usecase

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"time"

	crerr "github.com/cockroachdb/errors"
	"github.com/google/uuid"
	"github.com/riskibarqy/fpl-season-ingest/internal/domain/season"
	"github.com/riskibarqy/fpl-season-ingest/internal/platform/logging"
)

// SeasonPayload is a fetched season document. Document is the decoded
// top-level object and Raw the body it was decoded from.
type SeasonPayload struct {
	URL      string
	Document map[string]any
	Raw      []byte
}

type PayloadFetcher interface {
	FetchSeason(ctx context.Context, url string) (SeasonPayload, error)
}

type SeasonIngestConfig struct {
	StrictRecords bool
	ArchiveRaw    bool
}

// SeasonIngestService runs one season through resolve, fetch, transform and
// upsert. Nothing is written unless every fatal stage succeeds.
type SeasonIngestService struct {
	fetcher     PayloadFetcher
	store       season.Store
	transformer *SeasonTransformer
	archiveRaw  bool
	logger      *logging.Logger
	newRunID    func() string
	now         func() time.Time
}

func NewSeasonIngestService(fetcher PayloadFetcher, store season.Store, cfg SeasonIngestConfig, logger *logging.Logger) *SeasonIngestService {
	if logger == nil {
		logger = logging.Default()
	}
	return &SeasonIngestService{
		fetcher:     fetcher,
		store:       store,
		transformer: NewSeasonTransformer(cfg.StrictRecords),
		archiveRaw:  cfg.ArchiveRaw,
		logger:      logger,
		newRunID:    uuid.NewString,
		now:         time.Now,
	}
}

func (s *SeasonIngestService) Run(ctx context.Context, locator string) (summary season.Summary, err error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.SeasonIngestService.Run")
	defer span.End()

	startedAt := s.now()
	runID := s.newRunID()
	logger := s.logger.With("run_id", runID)

	token, err := season.Resolve(locator)
	if err != nil {
		return season.Summary{}, crerr.Wrap(err, "resolve season")
	}
	logger = logger.With("season", token.String())
	logger.InfoContext(ctx, "season ingest started", "source_url", locator)

	payload, err := s.fetcher.FetchSeason(ctx, locator)
	if err != nil {
		return season.Summary{}, crerr.Wrapf(err, "fetch season %s", token)
	}

	session, err := s.store.Open(ctx)
	if err != nil {
		return season.Summary{}, markPersistence(crerr.Wrap(err, "open store session"))
	}
	defer func() {
		if closeErr := session.Close(); closeErr != nil {
			logger.WarnContext(ctx, "close store session failed", "error", closeErr)
		}
	}()

	batch, issues, err := s.transformer.Transform(ctx, token, payload.Document)
	for _, issue := range issues {
		logger.WarnContext(ctx, "season record skipped",
			"entity", issue.Entity,
			"index", issue.Index,
			"key", issue.Key,
			"error", issue.Err,
		)
	}
	if err != nil {
		return season.Summary{}, crerr.Wrapf(err, "transform season %s", token)
	}

	if s.archiveRaw && len(payload.Raw) > 0 {
		hash := sha256.Sum256(payload.Raw)
		batch.Raw = &season.RawPayload{
			SourceURL:   locator,
			PayloadJSON: string(payload.Raw),
			PayloadHash: hex.EncodeToString(hash[:]),
			RunID:       runID,
			IngestedAt:  s.now().UTC(),
		}
	}

	if err := session.UpsertSeason(ctx, batch); err != nil {
		return season.Summary{}, markPersistence(crerr.Wrapf(err, "upsert season %s", token))
	}

	summary = batch.Summary(runID, len(issues))
	summary.Duration = s.now().Sub(startedAt)
	logger.InfoContext(ctx, "season ingest committed",
		"matrix_rows", summary.Matrix,
		"team_rows", summary.Teams,
		"player_rows", summary.Players,
		"fixture_selection_rows", summary.FixtureSelections,
		"player_selection_rows", summary.PlayerSelections,
		"skipped_records", summary.Skipped,
		"raw_archived", summary.RawArchived,
		"duration", summary.Duration,
	)
	return summary, nil
}

func markPersistence(err error) error {
	if crerr.Is(err, ErrPersistenceFailure) {
		return err
	}
	return crerr.Mark(err, ErrPersistenceFailure)
}
