package persistence

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/khoahotran/portfolio-admin/internal/domain/education"
	"github.com/khoahotran/portfolio-admin/pkg/apperror"
	"github.com/khoahotran/portfolio-admin/pkg/logger"
)

type postgresEducationRepo struct {
	db     *pgxpool.Pool
	logger logger.Logger
}

func NewPostgresEducationRepo(db *pgxpool.Pool, logger logger.Logger) education.Repository {
	return &postgresEducationRepo{db: db, logger: logger}
}

func scanEducationEntry(row pgx.Row) (*education.Entry, error) {
	e := &education.Entry{}
	var fromYear, toYear int
	err := row.Scan(&e.ID, &e.OwnerID, &e.DegreeName, &e.CollegeName, &fromYear, &toYear, &e.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperror.NewNotFound("education entry", "")
		}
		return nil, apperror.NewInternal("failed to scan education row", err)
	}
	e.FromYear, e.ToYear = education.Year(fromYear), education.Year(toYear)
	return e, nil
}

func (r *postgresEducationRepo) DeleteByOwner(ctx context.Context, ownerID uuid.UUID) (int64, error) {
	cmdTag, err := r.db.Exec(ctx, `DELETE FROM education_entries WHERE owner_id = $1`, ownerID)
	if err != nil {
		return 0, apperror.NewInternal("failed to delete education entries", err)
	}
	return cmdTag.RowsAffected(), nil
}

// InsertMany assigns ids and timestamps to entries that lack them and writes
// all rows in a single statement.
func (r *postgresEducationRepo) InsertMany(ctx context.Context, entries []*education.Entry) error {
	if len(entries) == 0 {
		return nil
	}

	now := time.Now().UTC()
	builder := psql.Insert("education_entries").
		Columns("id", "owner_id", "degree_name", "college_name", "from_year", "to_year", "created_at")
	for _, e := range entries {
		if e.ID == uuid.Nil {
			e.ID = uuid.New()
		}
		if e.CreatedAt.IsZero() {
			e.CreatedAt = now
		}
		builder = builder.Values(e.ID, e.OwnerID, e.DegreeName, e.CollegeName, int(e.FromYear), int(e.ToYear), e.CreatedAt)
	}

	sql, args, err := builder.ToSql()
	if err != nil {
		return apperror.NewInternal("failed to build insert education query", err)
	}
	if _, err := r.db.Exec(ctx, sql, args...); err != nil {
		return apperror.NewInternal("failed to insert education entries", err)
	}
	return nil
}

func (r *postgresEducationRepo) ListAll(ctx context.Context) ([]*education.Entry, error) {
	builder := psql.Select("id", "owner_id", "degree_name", "college_name", "from_year", "to_year", "created_at").
		From("education_entries").
		OrderBy("created_at ASC", "id ASC")

	sql, args, err := builder.ToSql()
	if err != nil {
		return nil, apperror.NewInternal("failed to build list education query", err)
	}
	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, apperror.NewInternal("failed to query education entries", err)
	}
	defer rows.Close()

	entries := make([]*education.Entry, 0)
	for rows.Next() {
		e, err := scanEducationEntry(rows)
		if err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, apperror.NewInternal("error iterating education rows", err)
	}
	return entries, nil
}
