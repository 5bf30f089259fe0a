package persistence

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/suite"

	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"

	"github.com/khoahotran/portfolio-admin/internal/domain/education"
	"github.com/khoahotran/portfolio-admin/internal/domain/experience"
	"github.com/khoahotran/portfolio-admin/internal/domain/profile"
	"github.com/khoahotran/portfolio-admin/internal/domain/user"
	"github.com/khoahotran/portfolio-admin/pkg/apperror"
	"github.com/khoahotran/portfolio-admin/pkg/logger"
)

type RepoIntegrationTestSuite struct {
	suite.Suite
	dbPool         *pgxpool.Pool
	pgContainer    *postgres.PostgresContainer
	testLogger     logger.Logger
	profileRepo    profile.Repository
	userRepo       user.Repository
	educationRepo  education.Repository
	experienceRepo experience.Repository
	testOwner      *user.User
}

func (s *RepoIntegrationTestSuite) SetupSuite() {
	ctx := context.Background()
	s.testLogger = logger.NewNopLogger()

	pgContainer, err := postgres.Run(ctx,
		"postgres:16-alpine",
		postgres.WithDatabase("test_db"),
		postgres.WithUsername("testuser"),
		postgres.WithPassword("testpass"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).WithStartupTimeout(1*time.Minute),
		),
	)
	if err != nil {
		s.T().Fatalf("Failed to start postgres container: %s", err)
	}
	s.pgContainer = pgContainer

	dsn, err := pgContainer.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		s.T().Fatalf("Failed to get connection string: %s", err)
	}

	m, err := migrate.New("file://../../migrations", dsn)
	if err != nil {
		s.T().Fatalf("Failed to create migrate instance: %s", err)
	}
	if err := m.Up(); err != nil {
		s.T().Fatalf("Failed to run migrations: %s", err)
	}

	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		s.T().Fatalf("Failed to create pgxpool: %s", err)
	}
	s.dbPool = pool

	s.profileRepo = NewPostgresProfileRepo(s.dbPool, s.testLogger)
	s.userRepo = NewPostgresUserRepo(s.dbPool, s.testLogger)
	s.educationRepo = NewPostgresEducationRepo(s.dbPool, s.testLogger)
	s.experienceRepo = NewPostgresExperienceRepo(s.dbPool, s.testLogger)

	s.testOwner = &user.User{
		ID:           uuid.New(),
		Email:        "testowner@example.com",
		PasswordHash: "hashedpassword",
	}
	query := `INSERT INTO users (id, email, password_hash, created_at) VALUES ($1, $2, $3, NOW() - INTERVAL '1 day')`
	_, err = s.dbPool.Exec(ctx, query, s.testOwner.ID, s.testOwner.Email, s.testOwner.PasswordHash)
	if err != nil {
		s.T().Fatalf("Failed to seed owner: %s", err)
	}
}

func (s *RepoIntegrationTestSuite) TearDownSuite() {
	if s.dbPool != nil {
		s.dbPool.Close()
	}
	if s.pgContainer != nil {
		if err := s.pgContainer.Terminate(context.Background()); err != nil {
			s.T().Fatalf("Failed to terminate postgres container: %s", err)
		}
	}
}

func (s *RepoIntegrationTestSuite) SetupTest() {
	_, err := s.dbPool.Exec(context.Background(), `TRUNCATE profiles, education_entries, experience_entries`)
	s.Require().NoError(err)
}

func TestRepoIntegration(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode.")
	}
	suite.Run(t, new(RepoIntegrationTestSuite))
}

func strPtr(v string) *string { return &v }

func (s *RepoIntegrationTestSuite) Test_Profile_Create_Update_Find() {
	ctx := context.Background()
	now := time.Now().UTC().Truncate(time.Microsecond)

	p := profile.New(s.testOwner.ID, profile.Changes{
		Name:  "Jane",
		Paths: map[profile.Slot]string{profile.SlotProfilePic: "/uploads/images/1-a.png"},
	}, now)
	s.Require().NoError(s.profileRepo.Create(ctx, &p))

	// a second first-time save overwrites and keeps the original created_at
	again := profile.New(s.testOwner.ID, profile.Changes{
		Name:  "Jane",
		Paths: map[profile.Slot]string{profile.SlotProfilePic: "/uploads/images/1-a.png"},
	}, now.Add(time.Second))
	s.Require().NoError(s.profileRepo.Create(ctx, &again))

	found, err := s.profileRepo.FindByOwnerID(ctx, s.testOwner.ID)
	s.Require().NoError(err)
	s.Equal("Jane", found.Name)
	s.True(found.CreatedAt.Equal(now))
	s.True(found.UpdatedAt.Equal(now.Add(time.Second)))
	s.Equal("/uploads/images/1-a.png", *found.ProfilePic)
	s.Nil(found.ResumePDF)
	s.Nil(found.AboutText)

	merged, superseded := profile.Merge(*found, profile.Changes{
		Name:      "Jane Doe",
		AboutText: "hello",
		Paths:     map[profile.Slot]string{profile.SlotProfilePic: "/uploads/images/2-b.png"},
	}, now.Add(time.Minute))
	s.Equal([]string{"/uploads/images/1-a.png"}, superseded)
	s.Require().NoError(s.profileRepo.Update(ctx, &merged))

	found, err = s.profileRepo.FindByOwnerID(ctx, s.testOwner.ID)
	s.Require().NoError(err)
	s.Equal("Jane Doe", found.Name)
	s.Equal("/uploads/images/2-b.png", *found.ProfilePic)
	s.Equal("hello", *found.AboutText)
}

func (s *RepoIntegrationTestSuite) Test_Profile_NotFound() {
	ctx := context.Background()

	_, err := s.profileRepo.FindByOwnerID(ctx, uuid.New())
	s.ErrorIs(err, apperror.ErrNotFound)

	missing := profile.Profile{OwnerID: uuid.New(), Name: "x"}
	s.ErrorIs(s.profileRepo.Update(ctx, &missing), apperror.ErrNotFound)
}

func (s *RepoIntegrationTestSuite) Test_User_Lookups_And_Details() {
	ctx := context.Background()

	byEmail, err := s.userRepo.FindByEmail(ctx, s.testOwner.Email)
	s.Require().NoError(err)
	s.Equal(s.testOwner.ID, byEmail.ID)

	first, err := s.userRepo.FindFirst(ctx)
	s.Require().NoError(err)
	s.Equal(s.testOwner.ID, first.ID)

	_, err = s.userRepo.FindByID(ctx, uuid.New())
	s.ErrorIs(err, apperror.ErrNotFound)

	details := byEmail.Details.Merge(user.Details{PhoneNumber: strPtr("0123"), Address: strPtr("Hanoi")})
	s.Require().NoError(s.userRepo.UpdateDetails(ctx, s.testOwner.ID, details))

	updated, err := s.userRepo.FindByID(ctx, s.testOwner.ID)
	s.Require().NoError(err)
	s.Equal("0123", *updated.Details.PhoneNumber)
	s.Equal("Hanoi", *updated.Details.Address)
	s.Nil(updated.Details.Degree)

	s.ErrorIs(s.userRepo.UpdateDetails(ctx, uuid.New(), details), apperror.ErrNotFound)
}

func (s *RepoIntegrationTestSuite) Test_Education_ReplaceAll() {
	ctx := context.Background()
	other := uuid.New()

	s.Require().NoError(s.educationRepo.InsertMany(ctx, []*education.Entry{
		{OwnerID: other, DegreeName: "PhD", CollegeName: "Y", FromYear: 2010, ToYear: 2014},
	}))
	s.Require().NoError(s.educationRepo.InsertMany(ctx, []*education.Entry{
		{OwnerID: s.testOwner.ID, DegreeName: "HS", CollegeName: "Z", FromYear: 2012, ToYear: 2015},
		{OwnerID: s.testOwner.ID, DegreeName: "BSc", CollegeName: "X", FromYear: 2015, ToYear: 2019},
	}))

	removed, err := s.educationRepo.DeleteByOwner(ctx, s.testOwner.ID)
	s.Require().NoError(err)
	s.EqualValues(2, removed)

	fresh := []*education.Entry{{OwnerID: s.testOwner.ID, DegreeName: "MSc", CollegeName: "X", FromYear: 2019, ToYear: 2021}}
	s.Require().NoError(s.educationRepo.InsertMany(ctx, fresh))
	s.NotEqual(uuid.Nil, fresh[0].ID)

	all, err := s.educationRepo.ListAll(ctx)
	s.Require().NoError(err)
	s.Len(all, 2)

	var degrees []string
	for _, e := range all {
		degrees = append(degrees, e.DegreeName)
	}
	s.ElementsMatch([]string{"PhD", "MSc"}, degrees)

	s.NoError(s.educationRepo.InsertMany(ctx, nil))
}

func (s *RepoIntegrationTestSuite) Test_Experience_ReplaceAll() {
	ctx := context.Background()

	s.Require().NoError(s.experienceRepo.InsertMany(ctx, []*experience.Entry{
		{OwnerID: s.testOwner.ID, Designation: "Engineer", CompanyName: "Acme", FromTime: "2020-01", ToTime: "2022-06"},
	}))
	_, err := s.experienceRepo.DeleteByOwner(ctx, s.testOwner.ID)
	s.Require().NoError(err)

	all, err := s.experienceRepo.ListAll(ctx)
	s.Require().NoError(err)
	s.Empty(all)
}

type ProfileCacheIntegrationTestSuite struct {
	suite.Suite
	container testcontainers.Container
	rdb       *redis.Client
	cache     profile.ViewCache
}

func (s *ProfileCacheIntegrationTestSuite) SetupSuite() {
	ctx := context.Background()

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        "redis:7-alpine",
			ExposedPorts: []string{"6379/tcp"},
			WaitingFor:   wait.ForLog("Ready to accept connections").WithStartupTimeout(time.Minute),
		},
		Started: true,
	})
	if err != nil {
		s.T().Fatalf("Failed to start redis container: %s", err)
	}
	s.container = container

	host, err := container.Host(ctx)
	s.Require().NoError(err)
	port, err := container.MappedPort(ctx, "6379")
	s.Require().NoError(err)

	s.rdb = redis.NewClient(&redis.Options{Addr: fmt.Sprintf("%s:%s", host, port.Port())})
	s.cache = NewRedisProfileCache(s.rdb, time.Minute)
}

func (s *ProfileCacheIntegrationTestSuite) TearDownSuite() {
	if s.rdb != nil {
		_ = s.rdb.Close()
	}
	if s.container != nil {
		if err := s.container.Terminate(context.Background()); err != nil {
			s.T().Fatalf("Failed to terminate redis container: %s", err)
		}
	}
}

func TestProfileCacheIntegration(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode.")
	}
	suite.Run(t, new(ProfileCacheIntegrationTestSuite))
}

func (s *ProfileCacheIntegrationTestSuite) Test_Get_Set_Invalidate() {
	ctx := context.Background()
	owner := uuid.New()

	miss, err := s.cache.Get(ctx, owner)
	s.Require().NoError(err)
	s.Nil(miss)

	view := profile.View{OwnerID: owner, Name: "Jane", Email: "jane@example.com", ProfilePic: "/uploads/images/1-a.png"}
	s.Require().NoError(s.cache.Set(ctx, owner, view))

	hit, err := s.cache.Get(ctx, owner)
	s.Require().NoError(err)
	s.Require().NotNil(hit)
	s.Equal(view, *hit)

	ttl, err := s.rdb.TTL(ctx, profileViewKey(owner)).Result()
	s.Require().NoError(err)
	s.Greater(ttl, time.Duration(0))

	s.Require().NoError(s.cache.Invalidate(ctx, owner))
	gone, err := s.cache.Get(ctx, owner)
	s.Require().NoError(err)
	s.Nil(gone)
}
