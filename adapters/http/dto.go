package http

import (
	"time"

	"github.com/google/uuid"

	"github.com/khoahotran/portfolio-admin/internal/domain/profile"
	"github.com/khoahotran/portfolio-admin/internal/domain/user"
)

// Profile DTOs
type ProfileDTO struct {
	OwnerID     uuid.UUID `json:"ownerId"`
	Name        string    `json:"name"`
	ProfilePic  *string   `json:"profilePic"`
	ProfilePic2 *string   `json:"profilePic2"`
	ResumePDF   *string   `json:"resumePdf"`
	Video       *string   `json:"video"`
	AboutText   *string   `json:"aboutText"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// UpdateProfileForm holds the text fields of the multipart update form.
type UpdateProfileForm struct {
	Name        string `form:"name"`
	PhoneNumber string `form:"phoneNumber"`
	Degree      string `form:"degree"`
	Birthday    string `form:"birthday"`
	Address     string `form:"address"`
	Experience  string `form:"experience"`
	AboutText   string `form:"aboutText"`
}

func ToProfileDTO(p *profile.Profile) ProfileDTO {
	return ProfileDTO{
		OwnerID:     p.OwnerID,
		Name:        p.Name,
		ProfilePic:  p.ProfilePic,
		ProfilePic2: p.ProfilePic2,
		ResumePDF:   p.ResumePDF,
		Video:       p.Video,
		AboutText:   p.AboutText,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
}

// ToUserDetails keeps empty form fields as nil so they never override.
func (f UpdateProfileForm) ToUserDetails() user.Details {
	return user.Details{
		PhoneNumber:       optional(f.PhoneNumber),
		Degree:            optional(f.Degree),
		Birthday:          optional(f.Birthday),
		Address:           optional(f.Address),
		ExperienceSummary: optional(f.Experience),
	}
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

// Auth DTOs
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type LoginResponse struct {
	AccessToken string `json:"access_token"`
	OwnerID     string `json:"owner_id"`
}
