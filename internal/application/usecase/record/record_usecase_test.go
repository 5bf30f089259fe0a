package record

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/khoahotran/portfolio-admin/adapters/event"
	"github.com/khoahotran/portfolio-admin/internal/domain/education"
	"github.com/khoahotran/portfolio-admin/internal/domain/experience"
	"github.com/khoahotran/portfolio-admin/internal/testutil"
	"github.com/khoahotran/portfolio-admin/pkg/apperror"
	"github.com/khoahotran/portfolio-admin/pkg/logger"
)

func newUseCase() (*RecordUseCase, *testutil.EducationRepo, *testutil.ExperienceRepo, *testutil.Events) {
	edu := testutil.NewEducationRepo()
	exp := testutil.NewExperienceRepo()
	events := &testutil.Events{}
	return NewRecordUseCase(edu, exp, events, logger.NewNopLogger()), edu, exp, events
}

func TestNormalize(t *testing.T) {
	t.Run("array", func(t *testing.T) {
		got, err := normalize[*education.Entry]([]byte(`[{"degreeName":"BSc"},{"degreeName":"MSc"}]`))
		require.NoError(t, err)
		require.Len(t, got, 2)
		assert.Equal(t, "MSc", got[1].DegreeName)
	})

	t.Run("single object is wrapped", func(t *testing.T) {
		got, err := normalize[*education.Entry]([]byte(` {"degreeName":"BSc","fromYear":2018} `))
		require.NoError(t, err)
		require.Len(t, got, 1)
		assert.Equal(t, education.Year(2018), got[0].FromYear)
	})

	t.Run("string years", func(t *testing.T) {
		got, err := normalize[*education.Entry]([]byte(`[{"degreeName":"BSc","collegeName":"X","fromYear":"2018","toYear":"2022"}]`))
		require.NoError(t, err)
		require.Len(t, got, 1)
		assert.Equal(t, education.Year(2018), got[0].FromYear)
		assert.Equal(t, education.Year(2022), got[0].ToYear)
		assert.NoError(t, got[0].Validate())
	})

	t.Run("empty array", func(t *testing.T) {
		got, err := normalize[*education.Entry]([]byte(`[]`))
		require.NoError(t, err)
		assert.Empty(t, got)
	})

	for name, body := range map[string]string{
		"empty":            ``,
		"string":           `"BSc"`,
		"number":           `42`,
		"null":             `null`,
		"array of strings": `["BSc"]`,
		"array with null":  `[{"degreeName":"BSc"}, null]`,
		"broken json":      `[{"degreeName":`,
		"wrong field type": `{"fromYear":"2018"}`,
	} {
		t.Run(name, func(t *testing.T) {
			_, err := normalize[*education.Entry]([]byte(body))
			require.Error(t, err)
			assert.ErrorIs(t, err, apperror.ErrInvalidInput)
		})
	}
}

func TestReplaceEducation_RoundTrip(t *testing.T) {
	uc, _, _, events := newUseCase()
	ctx := context.Background()
	owner := uuid.New()
	other := uuid.New()

	_, err := uc.ReplaceEducation(ctx, other, []byte(`{"degreeName":"PhD","collegeName":"Y","fromYear":2010,"toYear":2014}`))
	require.NoError(t, err)
	_, err = uc.ReplaceEducation(ctx, owner, []byte(`[{"degreeName":"HS","collegeName":"Z","fromYear":2012,"toYear":2015}]`))
	require.NoError(t, err)

	inserted, err := uc.ReplaceEducation(ctx, owner, []byte(`[{"degreeName":"BSc","collegeName":"X","fromYear":2018,"toYear":2022}]`))
	require.NoError(t, err)
	require.Len(t, inserted, 1)
	assert.NotEqual(t, uuid.Nil, inserted[0].ID)
	assert.Equal(t, owner, inserted[0].OwnerID)

	all, err := uc.ListEducation(ctx)
	require.NoError(t, err)

	var mine []*education.Entry
	for _, e := range all {
		if e.OwnerID == owner {
			mine = append(mine, e)
		}
	}
	require.Len(t, mine, 1)
	assert.Equal(t, "BSc", mine[0].DegreeName)
	assert.Equal(t, "X", mine[0].CollegeName)
	assert.Equal(t, education.Year(2018), mine[0].FromYear)
	assert.Equal(t, education.Year(2022), mine[0].ToYear)
	// Listing is not scoped to an owner.
	assert.Len(t, all, 2)

	assert.Eventually(t, func() bool {
		return len(events.OfType(event.ProfileEventRecordsReplaced)) == 3
	}, time.Second, 10*time.Millisecond)
}

func TestReplaceEducation_OwnerComesFromCaller(t *testing.T) {
	uc, _, _, _ := newUseCase()
	owner := uuid.New()
	foreign := uuid.New()
	staleID := uuid.New()

	inserted, err := uc.ReplaceEducation(context.Background(), owner, []byte(`{"id":"`+staleID.String()+`","ownerId":"`+foreign.String()+`","degreeName":"BSc","collegeName":"X","fromYear":2018,"toYear":2022}`))
	require.NoError(t, err)
	require.Len(t, inserted, 1)
	assert.Equal(t, owner, inserted[0].OwnerID)
	assert.NotEqual(t, staleID, inserted[0].ID)
}

func TestReplaceEducation_InvalidEntryKeepsExisting(t *testing.T) {
	uc, _, _, _ := newUseCase()
	ctx := context.Background()
	owner := uuid.New()

	_, err := uc.ReplaceEducation(ctx, owner, []byte(`{"degreeName":"BSc","collegeName":"X","fromYear":2018,"toYear":2022}`))
	require.NoError(t, err)

	_, err = uc.ReplaceEducation(ctx, owner, []byte(`[
		{"degreeName":"MSc","collegeName":"Y","fromYear":2022,"toYear":2024},
		{"degreeName":"PhD","collegeName":"Y","fromYear":2024}
	]`))
	require.Error(t, err)
	assert.ErrorIs(t, err, apperror.ErrInvalidInput)
	for _, field := range education.RequiredFields {
		assert.Contains(t, apperror.From(err).Message, field)
	}

	all, err := uc.ListEducation(ctx)
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, "BSc", all[0].DegreeName)
}

func TestReplaceEducation_RequiresOwner(t *testing.T) {
	uc, _, _, _ := newUseCase()

	_, err := uc.ReplaceEducation(context.Background(), uuid.Nil, []byte(`{}`))
	require.Error(t, err)
	assert.ErrorIs(t, err, apperror.ErrUnauthorized)
}

func TestReplaceEducation_InsertFailureLeavesNothing(t *testing.T) {
	uc, edu, _, _ := newUseCase()
	ctx := context.Background()
	owner := uuid.New()

	_, err := uc.ReplaceEducation(ctx, owner, []byte(`{"degreeName":"BSc","collegeName":"X","fromYear":2018,"toYear":2022}`))
	require.NoError(t, err)

	edu.FailInsert = apperror.NewInternal("insert failed", testutil.ErrInjected)
	_, err = uc.ReplaceEducation(ctx, owner, []byte(`{"degreeName":"MSc","collegeName":"Y","fromYear":2022,"toYear":2024}`))
	require.Error(t, err)
	assert.Equal(t, 500, apperror.ToHTTPStatus(err))

	all, err := uc.ListEducation(ctx)
	require.NoError(t, err)
	assert.Empty(t, all)
}

func TestReplaceExperience(t *testing.T) {
	uc, _, _, _ := newUseCase()
	ctx := context.Background()
	owner := uuid.New()

	inserted, err := uc.ReplaceExperience(ctx, owner, []byte(`[
		{"designation":"Engineer","companyName":"Acme","fromTime":"2020-01","toTime":"2022-06"},
		{"designation":"Lead","companyName":"Acme","fromTime":"2022-07","toTime":"present"}
	]`))
	require.NoError(t, err)
	require.Len(t, inserted, 2)

	_, err = uc.ReplaceExperience(ctx, owner, []byte(`{"designation":"CTO","companyName":"Acme"}`))
	require.Error(t, err)
	for _, field := range experience.RequiredFields {
		assert.Contains(t, apperror.From(err).Message, field)
	}

	all, err := uc.ListExperience(ctx)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, "Engineer", all[0].Designation)
	assert.Equal(t, "present", all[1].ToTime)
}
