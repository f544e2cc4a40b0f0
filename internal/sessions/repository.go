package sessions

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/JaimeStill/compass/pkg/formatting"
	"github.com/JaimeStill/compass/pkg/pagination"
	"github.com/JaimeStill/compass/pkg/query"
	"github.com/JaimeStill/compass/pkg/repository"
	"github.com/JaimeStill/compass/pkg/storage"
)

const reportContentType = "text/markdown; charset=utf-8"

type repo struct {
	db         *sql.DB
	storage    storage.System
	logger     *slog.Logger
	pagination pagination.Config
}

// New creates a session repository implementing the System interface.
func New(
	db *sql.DB,
	store storage.System,
	logger *slog.Logger,
	pagination pagination.Config,
) System {
	return &repo{
		db:         db,
		storage:    store,
		logger:     logger.With("system", "sessions"),
		pagination: pagination,
	}
}

func (r *repo) Handler() *Handler {
	return NewHandler(r, r.logger, r.pagination)
}

func (r *repo) List(
	ctx context.Context,
	page pagination.PageRequest,
	filters Filters,
) (*pagination.PageResult[Session], error) {
	page.Normalize(r.pagination)

	qb := query.
		NewBuilder(projection, defaultSort).
		WhereSearch(page.Search, "Industry", "UserName", "Provider")

	filters.Apply(qb)

	if len(page.Sort) > 0 {
		qb.OrderByFields(page.Sort)
	}

	result, err := repository.QueryPage(ctx, r.db, qb, page, scanSession)
	if err != nil {
		return nil, fmt.Errorf("list sessions: %w", err)
	}
	return result, nil
}

func (r *repo) Find(ctx context.Context, id uuid.UUID) (*Session, error) {
	q, args := query.NewBuilder(projection).BuildSingle("ID", id)

	s, err := repository.QueryOne(ctx, r.db, q, args, scanSession)
	if err != nil {
		return nil, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}
	return &s, nil
}

func (r *repo) Report(ctx context.Context, id uuid.UUID) ([]byte, error) {
	s, err := r.Find(ctx, id)
	if err != nil {
		return nil, err
	}

	body, err := r.storage.Download(ctx, s.ReportKey)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, ErrReportNotFound
		}
		return nil, fmt.Errorf("download report: %w", err)
	}
	defer body.Close()

	data, err := io.ReadAll(body)
	if err != nil {
		return nil, fmt.Errorf("read report: %w", err)
	}
	return data, nil
}

// Create inserts the session row and uploads the report concurrently.
// If either fails, whichever side succeeded is removed.
func (r *repo) Create(ctx context.Context, cmd CreateCommand) (*Session, error) {
	history, err := json.Marshal(cmd.History)
	if err != nil {
		return nil, fmt.Errorf("encode history: %w", err)
	}

	id := uuid.New()
	key := reportKey(id)
	b := cmd.Breakdown

	q := `
		INSERT INTO sessions(id, industry, user_name, tier, score, raw_score, low_percent, safety_net,
			extracted_tier, provider, question_count, history, report_key, report_size)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
		RETURNING ` + columns

	args := []any{
		id,
		cmd.Industry,
		cmd.UserName,
		b.Tier,
		b.Total,
		b.Raw,
		b.LowPercent,
		b.SafetyNet,
		cmd.ExtractedTier,
		cmd.Provider,
		len(cmd.History),
		string(history),
		key,
		int64(len(cmd.Report)),
	}

	var (
		s        Session
		inserted bool
		uploaded bool
	)

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		if err := r.storage.Upload(gctx, key, strings.NewReader(cmd.Report), reportContentType); err != nil {
			return fmt.Errorf("upload report: %w", err)
		}
		uploaded = true
		return nil
	})

	g.Go(func() error {
		var err error
		s, err = repository.WithTx(gctx, r.db, func(tx *sql.Tx) (Session, error) {
			return repository.QueryOne(gctx, tx, q, args, scanSession)
		})
		if err != nil {
			return repository.MapError(err, ErrNotFound, ErrDuplicate)
		}
		inserted = true
		return nil
	})

	if err := g.Wait(); err != nil {
		r.compensate(ctx, id, key, inserted, uploaded)
		return nil, err
	}

	r.logger.Info("session created", "id", s.ID, "tier", s.Tier, "score", s.Score, "report", formatting.FormatBytes(s.ReportSize, 1))
	return &s, nil
}

func (r *repo) compensate(ctx context.Context, id uuid.UUID, key string, inserted, uploaded bool) {
	ctx = context.WithoutCancel(ctx)

	if uploaded {
		if err := r.storage.Delete(ctx, key); err != nil {
			r.logger.Warn("compensating report delete failed", "key", key, "error", err)
		}
	}

	if inserted {
		if _, err := r.db.ExecContext(ctx, "DELETE FROM sessions WHERE id = $1", id); err != nil {
			r.logger.Warn("compensating session delete failed", "id", id, "error", err)
		}
	}
}

func (r *repo) Delete(ctx context.Context, id uuid.UUID) error {
	s, err := r.Find(ctx, id)
	if err != nil {
		return err
	}

	_, err = repository.WithTx(ctx, r.db, func(tx *sql.Tx) (struct{}, error) {
		return struct{}{}, repository.ExecExpectOne(
			ctx, tx,
			"DELETE FROM sessions WHERE id = $1",
			id,
		)
	})

	if err != nil {
		return repository.MapError(err, ErrNotFound, ErrDuplicate)
	}

	if delErr := r.storage.Delete(ctx, s.ReportKey); delErr != nil && !errors.Is(delErr, storage.ErrNotFound) {
		r.logger.Warn("report delete failed after session delete", "key", s.ReportKey, "error", delErr)
	}

	r.logger.Info("session deleted", "id", id)
	return nil
}
