package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/khoahotran/portfolio-admin/internal/domain/profile"
	"github.com/khoahotran/portfolio-admin/pkg/apperror"
	"github.com/khoahotran/portfolio-admin/pkg/logger"
)

type postgresProfileRepo struct {
	db     *pgxpool.Pool
	logger logger.Logger
}

func NewPostgresProfileRepo(db *pgxpool.Pool, logger logger.Logger) profile.Repository {
	return &postgresProfileRepo{db: db, logger: logger}
}

func (r *postgresProfileRepo) FindByOwnerID(ctx context.Context, ownerID uuid.UUID) (*profile.Profile, error) {
	query := `
		SELECT owner_id, name, profile_pic_path, profile_pic2_path, resume_pdf_path,
		       video_path, about_text, created_at, updated_at
		FROM profiles
		WHERE owner_id = $1
	`
	p := &profile.Profile{}
	err := r.db.QueryRow(ctx, query, ownerID).Scan(
		&p.OwnerID,
		&p.Name,
		&p.ProfilePic,
		&p.ProfilePic2,
		&p.ResumePDF,
		&p.Video,
		&p.AboutText,
		&p.CreatedAt,
		&p.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperror.NewNotFound("profile", ownerID.String())
		}
		return nil, apperror.NewInternal("failed to query profile", err)
	}
	return p, nil
}

// Create inserts the owner's profile. A row created meanwhile by another
// request is overwritten, keeping its created_at.
func (r *postgresProfileRepo) Create(ctx context.Context, p *profile.Profile) error {
	query := `
		INSERT INTO profiles (owner_id, name, profile_pic_path, profile_pic2_path, resume_pdf_path,
		                      video_path, about_text, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		ON CONFLICT (owner_id) DO UPDATE SET
			name = EXCLUDED.name,
			profile_pic_path = EXCLUDED.profile_pic_path,
			profile_pic2_path = EXCLUDED.profile_pic2_path,
			resume_pdf_path = EXCLUDED.resume_pdf_path,
			video_path = EXCLUDED.video_path,
			about_text = EXCLUDED.about_text,
			updated_at = EXCLUDED.updated_at
	`
	_, err := r.db.Exec(ctx, query,
		p.OwnerID, p.Name, p.ProfilePic, p.ProfilePic2, p.ResumePDF,
		p.Video, p.AboutText, p.CreatedAt, p.UpdatedAt,
	)
	if err != nil {
		return apperror.NewInternal("failed to save profile", err)
	}
	return nil
}

func (r *postgresProfileRepo) Update(ctx context.Context, p *profile.Profile) error {
	query := `
		UPDATE profiles SET
			name = $2, profile_pic_path = $3, profile_pic2_path = $4, resume_pdf_path = $5,
			video_path = $6, about_text = $7, updated_at = $8
		WHERE owner_id = $1
	`
	cmdTag, err := r.db.Exec(ctx, query,
		p.OwnerID, p.Name, p.ProfilePic, p.ProfilePic2, p.ResumePDF,
		p.Video, p.AboutText, p.UpdatedAt,
	)
	if err != nil {
		return apperror.NewInternal("failed to update profile", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperror.NewNotFound("profile", p.OwnerID.String())
	}
	return nil
}
