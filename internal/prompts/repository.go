package prompts

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/JaimeStill/compass/pkg/pagination"
	"github.com/JaimeStill/compass/pkg/query"
	"github.com/JaimeStill/compass/pkg/repository"
)

type repo struct {
	db         *sql.DB
	logger     *slog.Logger
	pagination pagination.Config
	effective  *lru.Cache[Stage, string]
}

// New returns the Postgres-backed prompt catalog. Effective instructions
// are cached per stage until the next mutation.
func New(db *sql.DB, logger *slog.Logger, cfg pagination.Config) System {
	cache, _ := lru.New[Stage, string](len(stages))
	return &repo{
		db:         db,
		logger:     logger.With("system", "prompts"),
		pagination: cfg,
		effective:  cache,
	}
}

func (r *repo) Handler() *Handler {
	return NewHandler(r, r.logger, r.pagination)
}

func (r *repo) List(ctx context.Context, page pagination.PageRequest, filters Filters) (*pagination.PageResult[Prompt], error) {
	page.Normalize(r.pagination)

	qb := filters.Apply(
		query.NewBuilder(projection, defaultSort).WhereSearch(page.Search, "Name", "Description"),
	)
	if len(page.Sort) > 0 {
		qb.OrderByFields(page.Sort)
	}

	result, err := repository.QueryPage(ctx, r.db, qb, page, scanPrompt)
	if err != nil {
		return nil, fmt.Errorf("list prompts: %w", err)
	}
	return result, nil
}

func (r *repo) Find(ctx context.Context, id uuid.UUID) (*Prompt, error) {
	q, args := query.NewBuilder(projection).BuildSingle("ID", id)
	p, err := repository.QueryOne(ctx, r.db, q, args, scanPrompt)
	if err != nil {
		return nil, mapError(err)
	}
	return &p, nil
}

// Instructions resolves the active override for stage, falling back to
// the compiled default when none is active.
func (r *repo) Instructions(ctx context.Context, stage Stage) (string, error) {
	fallback, err := Instructions(stage)
	if err != nil {
		return "", err
	}
	if text, ok := r.effective.Get(stage); ok {
		return text, nil
	}

	text := fallback
	err = r.db.QueryRowContext(ctx,
		"SELECT instructions FROM prompts WHERE stage = $1 AND active",
		stage,
	).Scan(&text)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return "", fmt.Errorf("resolve %s instructions: %w", stage, err)
	}

	r.effective.Add(stage, text)
	return text, nil
}

func (r *repo) Spec(_ context.Context, stage Stage) (string, error) {
	return Spec(stage)
}

func (r *repo) Create(ctx context.Context, cmd CreateCommand) (*Prompt, error) {
	return r.mutate(ctx, "created",
		"INSERT INTO prompts(name, stage, instructions, description) VALUES ($1, $2, $3, $4)"+returning,
		cmd.Name, cmd.Stage, cmd.Instructions, cmd.Description,
	)
}

func (r *repo) Update(ctx context.Context, id uuid.UUID, cmd UpdateCommand) (*Prompt, error) {
	return r.mutate(ctx, "updated",
		"UPDATE prompts SET name = $1, stage = $2, instructions = $3, description = $4 WHERE id = $5"+returning,
		cmd.Name, cmd.Stage, cmd.Instructions, cmd.Description, id,
	)
}

func (r *repo) Deactivate(ctx context.Context, id uuid.UUID) (*Prompt, error) {
	return r.mutate(ctx, "deactivated", "UPDATE prompts SET active = false WHERE id = $1"+returning, id)
}

// Activate clears any active prompt on the target's stage and activates
// the target in one transaction.
func (r *repo) Activate(ctx context.Context, id uuid.UUID) (*Prompt, error) {
	p, err := repository.WithTx(ctx, r.db, func(tx *sql.Tx) (Prompt, error) {
		var stage Stage
		if err := tx.QueryRowContext(ctx, "SELECT stage FROM prompts WHERE id = $1 FOR UPDATE", id).Scan(&stage); err != nil {
			return Prompt{}, err
		}
		if _, err := tx.ExecContext(ctx,
			"UPDATE prompts SET active = false WHERE stage = $1 AND active AND id <> $2",
			stage, id,
		); err != nil {
			return Prompt{}, fmt.Errorf("clear active %s prompt: %w", stage, err)
		}
		return repository.QueryOne(ctx, tx,
			"UPDATE prompts SET active = true WHERE id = $1"+returning,
			[]any{id}, scanPrompt,
		)
	})
	if err != nil {
		return nil, mapError(err)
	}

	r.effective.Purge()
	r.logger.Info("prompt activated", "id", p.ID, "name", p.Name, "stage", p.Stage)
	return &p, nil
}

func (r *repo) Delete(ctx context.Context, id uuid.UUID) error {
	_, err := repository.WithTx(ctx, r.db, func(tx *sql.Tx) (struct{}, error) {
		return struct{}{}, repository.ExecExpectOne(ctx, tx, "DELETE FROM prompts WHERE id = $1", id)
	})
	if err != nil {
		return mapError(err)
	}

	r.effective.Purge()
	r.logger.Info("prompt deleted", "id", id)
	return nil
}

// mutate runs a single-row RETURNING statement and invalidates the
// effective instruction cache.
func (r *repo) mutate(ctx context.Context, action, stmt string, args ...any) (*Prompt, error) {
	p, err := repository.WithTx(ctx, r.db, func(tx *sql.Tx) (Prompt, error) {
		return repository.QueryOne(ctx, tx, stmt, args, scanPrompt)
	})
	if err != nil {
		return nil, mapError(err)
	}

	r.effective.Purge()
	r.logger.Info("prompt "+action, "id", p.ID, "name", p.Name, "stage", p.Stage, "active", p.Active)
	return &p, nil
}

func mapError(err error) error {
	return repository.MapError(err, ErrNotFound, ErrDuplicate)
}
