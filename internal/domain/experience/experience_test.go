package experience

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestEntryValidate(t *testing.T) {
	valid := Entry{Designation: " Engineer ", CompanyName: "Acme", FromTime: "2020", ToTime: "present"}
	assert.NoError(t, valid.Validate())
	assert.Equal(t, "Engineer", valid.Designation)

	missing := Entry{Designation: "Engineer", CompanyName: "Acme", FromTime: "2020"}
	err := missing.Validate()
	assert.ErrorIs(t, err, ErrMissingFields)
	for _, field := range RequiredFields {
		assert.Contains(t, err.Error(), field)
	}
}

func TestAssignOwnerResetsIdentity(t *testing.T) {
	owner := uuid.New()
	e := Entry{ID: uuid.New(), OwnerID: uuid.New(), CreatedAt: time.Now()}

	e.AssignOwner(owner)
	assert.Equal(t, owner, e.OwnerID)
	assert.Equal(t, uuid.Nil, e.ID)
	assert.True(t, e.CreatedAt.IsZero())
}
