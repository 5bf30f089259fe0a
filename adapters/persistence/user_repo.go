package persistence

import (
	"context"
	"errors"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/khoahotran/portfolio-admin/internal/domain/user"
	"github.com/khoahotran/portfolio-admin/pkg/apperror"
	"github.com/khoahotran/portfolio-admin/pkg/logger"
)

type postgresUserRepo struct {
	db     *pgxpool.Pool
	logger logger.Logger
}

func NewPostgresUserRepo(db *pgxpool.Pool, logger logger.Logger) user.Repository {
	return &postgresUserRepo{db: db, logger: logger}
}

var userColumns = []string{
	"id", "email", "name", "password_hash",
	"phone_number", "degree", "birthday", "address", "experience_summary",
	"created_at", "updated_at",
}

func scanUser(row pgx.Row, identifier string) (*user.User, error) {
	u := &user.User{}
	err := row.Scan(
		&u.ID,
		&u.Email,
		&u.Name,
		&u.PasswordHash,
		&u.Details.PhoneNumber,
		&u.Details.Degree,
		&u.Details.Birthday,
		&u.Details.Address,
		&u.Details.ExperienceSummary,
		&u.CreatedAt,
		&u.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperror.NewNotFound("user", identifier)
		}
		return nil, apperror.NewInternal("error when query user", err)
	}
	return u, nil
}

func (r *postgresUserRepo) findOne(ctx context.Context, builder sq.Sqlizer, identifier string) (*user.User, error) {
	sql, args, err := builder.ToSql()
	if err != nil {
		return nil, apperror.NewInternal("failed to build user query", err)
	}
	return scanUser(r.db.QueryRow(ctx, sql, args...), identifier)
}

func (r *postgresUserRepo) FindByEmail(ctx context.Context, email string) (*user.User, error) {
	builder := psql.Select(userColumns...).From("users").Where("email = ?", email)
	return r.findOne(ctx, builder, email)
}

func (r *postgresUserRepo) FindByID(ctx context.Context, id uuid.UUID) (*user.User, error) {
	builder := psql.Select(userColumns...).From("users").Where("id = ?", id)
	return r.findOne(ctx, builder, id.String())
}

func (r *postgresUserRepo) FindFirst(ctx context.Context) (*user.User, error) {
	builder := psql.Select(userColumns...).From("users").OrderBy("created_at ASC", "id ASC").Limit(1)
	return r.findOne(ctx, builder, "first")
}

func (r *postgresUserRepo) UpdateDetails(ctx context.Context, id uuid.UUID, d user.Details) error {
	query := `
		UPDATE users SET
			phone_number = $2, degree = $3, birthday = $4, address = $5,
			experience_summary = $6, updated_at = NOW()
		WHERE id = $1
	`
	cmdTag, err := r.db.Exec(ctx, query,
		id, d.PhoneNumber, d.Degree, d.Birthday, d.Address, d.ExperienceSummary,
	)
	if err != nil {
		return apperror.NewInternal("failed to update user details", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperror.NewNotFound("user", id.String())
	}
	return nil
}
