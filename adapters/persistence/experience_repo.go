package persistence

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/khoahotran/portfolio-admin/internal/domain/experience"
	"github.com/khoahotran/portfolio-admin/pkg/apperror"
	"github.com/khoahotran/portfolio-admin/pkg/logger"
)

type postgresExperienceRepo struct {
	db     *pgxpool.Pool
	logger logger.Logger
}

func NewPostgresExperienceRepo(db *pgxpool.Pool, logger logger.Logger) experience.Repository {
	return &postgresExperienceRepo{db: db, logger: logger}
}

var experienceColumns = []string{"id", "owner_id", "designation", "company_name", "from_time", "to_time", "created_at"}

func (r *postgresExperienceRepo) DeleteByOwner(ctx context.Context, ownerID uuid.UUID) (int64, error) {
	cmdTag, err := r.db.Exec(ctx, `DELETE FROM experience_entries WHERE owner_id = $1`, ownerID)
	if err != nil {
		return 0, apperror.NewInternal("failed to delete experience entries", err)
	}
	return cmdTag.RowsAffected(), nil
}

func (r *postgresExperienceRepo) InsertMany(ctx context.Context, entries []*experience.Entry) error {
	if len(entries) == 0 {
		return nil
	}

	now := time.Now().UTC()
	builder := psql.Insert("experience_entries").Columns(experienceColumns...)
	for _, e := range entries {
		if e.ID == uuid.Nil {
			e.ID = uuid.New()
		}
		if e.CreatedAt.IsZero() {
			e.CreatedAt = now
		}
		builder = builder.Values(e.ID, e.OwnerID, e.Designation, e.CompanyName, e.FromTime, e.ToTime, e.CreatedAt)
	}

	sql, args, err := builder.ToSql()
	if err != nil {
		return apperror.NewInternal("failed to build insert experience query", err)
	}
	if _, err := r.db.Exec(ctx, sql, args...); err != nil {
		return apperror.NewInternal("failed to insert experience entries", err)
	}
	return nil
}

func (r *postgresExperienceRepo) ListAll(ctx context.Context) ([]*experience.Entry, error) {
	sql, args, err := psql.Select(experienceColumns...).
		From("experience_entries").
		OrderBy("created_at ASC", "id ASC").
		ToSql()
	if err != nil {
		return nil, apperror.NewInternal("failed to build list experience query", err)
	}
	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, apperror.NewInternal("failed to query experience entries", err)
	}

	entries, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (*experience.Entry, error) {
		e := &experience.Entry{}
		err := row.Scan(&e.ID, &e.OwnerID, &e.Designation, &e.CompanyName, &e.FromTime, &e.ToTime, &e.CreatedAt)
		return e, err
	})
	if err != nil {
		return nil, apperror.NewInternal("failed to scan experience rows", err)
	}
	return entries, nil
}
