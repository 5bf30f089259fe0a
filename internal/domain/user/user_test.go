package user

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func ptr(s string) *string { return &s }

func TestDetailsMerge(t *testing.T) {
	existing := Details{
		PhoneNumber: ptr("111"),
		Degree:      ptr("BSc"),
		Address:     ptr("Old street"),
	}

	merged := existing.Merge(Details{
		PhoneNumber: ptr("222"),
		Degree:      ptr(""),
		Birthday:    ptr("1990-01-01"),
	})

	assert.Equal(t, "222", *merged.PhoneNumber)
	assert.Equal(t, "BSc", *merged.Degree)
	assert.Equal(t, "1990-01-01", *merged.Birthday)
	assert.Equal(t, "Old street", *merged.Address)
	assert.Nil(t, merged.ExperienceSummary)
	assert.Equal(t, "111", *existing.PhoneNumber)
}
