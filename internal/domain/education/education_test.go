package education

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEntryValidate(t *testing.T) {
	valid := Entry{DegreeName: "BSc", CollegeName: "X", FromYear: 2018, ToYear: 2022}
	assert.NoError(t, valid.Validate())

	for name, e := range map[string]Entry{
		"no degree":    {CollegeName: "X", FromYear: 2018, ToYear: 2022},
		"blank school": {DegreeName: "BSc", CollegeName: "  ", FromYear: 2018, ToYear: 2022},
		"no from":      {DegreeName: "BSc", CollegeName: "X", ToYear: 2022},
		"no to":        {DegreeName: "BSc", CollegeName: "X", FromYear: 2018},
	} {
		t.Run(name, func(t *testing.T) {
			err := e.Validate()
			assert.ErrorIs(t, err, ErrMissingFields)
			for _, field := range RequiredFields {
				assert.Contains(t, err.Error(), field)
			}
		})
	}
}

func TestYearDecodesNumbersAndNumericStrings(t *testing.T) {
	for raw, want := range map[string]Year{
		`{"fromYear":2018}`:     2018,
		`{"fromYear":"2018"}`:   2018,
		`{"fromYear":" 2019 "}`: 2019,
		`{"fromYear":""}`:       0,
		`{"fromYear":null}`:     0,
	} {
		var e Entry
		require.NoError(t, json.Unmarshal([]byte(raw), &e), raw)
		assert.Equal(t, want, e.FromYear, raw)
	}

	var e Entry
	assert.Error(t, json.Unmarshal([]byte(`{"fromYear":"twenty"}`), &e))
	assert.Error(t, json.Unmarshal([]byte(`{"fromYear":2018.5}`), &e))
}
