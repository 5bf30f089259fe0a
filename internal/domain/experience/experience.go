package experience

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

var RequiredFields = []string{"designation", "companyName", "fromTime", "toTime"}

var ErrMissingFields = errors.New("designation, companyName, fromTime and toTime are required")

var validate = validator.New(validator.WithRequiredStructEnabled())

type Entry struct {
	ID          uuid.UUID `json:"id"`
	OwnerID     uuid.UUID `json:"ownerId"`
	Designation string    `json:"designation" validate:"required"`
	CompanyName string    `json:"companyName" validate:"required"`
	FromTime    string    `json:"fromTime" validate:"required"`
	ToTime      string    `json:"toTime" validate:"required"`
	CreatedAt   time.Time `json:"createdAt"`
}

// AssignOwner stamps the entry with its owner and drops any client supplied
// identity so the store assigns a fresh one.
func (e *Entry) AssignOwner(ownerID uuid.UUID) {
	e.OwnerID = ownerID
	e.ID = uuid.Nil
	e.CreatedAt = time.Time{}
}

func (e *Entry) Validate() error {
	e.Designation = strings.TrimSpace(e.Designation)
	e.CompanyName = strings.TrimSpace(e.CompanyName)
	if err := validate.Struct(e); err != nil {
		return ErrMissingFields
	}
	return nil
}

type Repository interface {
	DeleteByOwner(ctx context.Context, ownerID uuid.UUID) (int64, error)
	InsertMany(ctx context.Context, entries []*Entry) error
	ListAll(ctx context.Context) ([]*Entry, error)
}
