package education

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

// RequiredFields is the wire name of every field an entry must carry.
var RequiredFields = []string{"degreeName", "collegeName", "fromYear", "toYear"}

var ErrMissingFields = errors.New("degreeName, collegeName, fromYear and toYear are required")

var validate = validator.New(validator.WithRequiredStructEnabled())

// Year is a calendar year. It decodes from a JSON number or a numeric string,
// since form based clients send "2018". An empty string or null is zero.
type Year int

func (y *Year) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*y = 0
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		data = []byte(strings.TrimSpace(s))
		if len(data) == 0 {
			*y = 0
			return nil
		}
	}
	n, err := strconv.Atoi(string(data))
	if err != nil {
		return fmt.Errorf("invalid year %s", data)
	}
	*y = Year(n)
	return nil
}

type Entry struct {
	ID          uuid.UUID `json:"id"`
	OwnerID     uuid.UUID `json:"ownerId"`
	DegreeName  string    `json:"degreeName" validate:"required"`
	CollegeName string    `json:"collegeName" validate:"required"`
	FromYear    Year      `json:"fromYear" validate:"required"`
	ToYear      Year      `json:"toYear" validate:"required"`
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
	e.DegreeName = strings.TrimSpace(e.DegreeName)
	e.CollegeName = strings.TrimSpace(e.CollegeName)
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
