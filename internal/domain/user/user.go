package user

import (
	"context"
	"time"

	"github.com/google/uuid"
)

type User struct {
	ID           uuid.UUID `json:"id"`
	Email        string    `json:"email"`
	Name         *string   `json:"name"`
	PasswordHash string    `json:"-"`
	Details      Details   `json:"details"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// Details are the descriptive fields a profile update may change.
type Details struct {
	PhoneNumber       *string `json:"phone_number"`
	Degree            *string `json:"degree"`
	Birthday          *string `json:"birthday"`
	Address           *string `json:"address"`
	ExperienceSummary *string `json:"experience_summary"`
}

// Merge returns d with every non-empty field of in applied over it.
func (d Details) Merge(in Details) Details {
	return Details{
		PhoneNumber:       pick(in.PhoneNumber, d.PhoneNumber),
		Degree:            pick(in.Degree, d.Degree),
		Birthday:          pick(in.Birthday, d.Birthday),
		Address:           pick(in.Address, d.Address),
		ExperienceSummary: pick(in.ExperienceSummary, d.ExperienceSummary),
	}
}

func pick(incoming, existing *string) *string {
	if incoming != nil && *incoming != "" {
		v := *incoming
		return &v
	}
	return existing
}

type Repository interface {
	FindByEmail(ctx context.Context, email string) (*User, error)
	FindByID(ctx context.Context, id uuid.UUID) (*User, error)
	// FindFirst returns the earliest created user.
	FindFirst(ctx context.Context) (*User, error)
	UpdateDetails(ctx context.Context, id uuid.UUID, d Details) error
}
