package userrepo_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	postgresdriver "gorm.io/driver/postgres"
	"gorm.io/gorm"

	"logistics/internal/adapters/out/postgres/userrepo"
	"logistics/internal/core/domain/model/kernel"
	"logistics/internal/core/domain/model/user"
	"logistics/internal/pkg/errs"
)

// MockAggregateTracker is a mock implementation of aggregateTracker interface.
type MockAggregateTracker struct {
	mock.Mock
}

func (m *MockAggregateTracker) TrackAggregate(id kernel.UUID, aggregate any) {
	m.Called(id, aggregate)
}

// UserRepositoryIntegrationTestSuite provides integration tests for
// UserRepository using PostgreSQL containers, including the locking that
// guards the active-administrator count.
type UserRepositoryIntegrationTestSuite struct {
	suite.Suite
	container  *postgres.PostgresContainer
	db         *gorm.DB
	repository *userrepo.GormUserRepository
	tracker    *MockAggregateTracker
}

func (suite *UserRepositoryIntegrationTestSuite) SetupSuite() {
	ctx := context.Background()

	container, err := postgres.Run(ctx,
		"postgres:15-alpine",
		postgres.WithDatabase("testdb"),
		postgres.WithUsername("testuser"),
		postgres.WithPassword("testpass"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second),
		),
	)
	suite.Require().NoError(err)
	suite.container = container

	connStr, err := container.ConnectionString(ctx, "sslmode=disable")
	suite.Require().NoError(err)

	db, err := gorm.Open(postgresdriver.Open(connStr), &gorm.Config{})
	suite.Require().NoError(err)
	suite.db = db

	suite.Require().NoError(db.AutoMigrate(&userrepo.UserDTO{}))
}

func (suite *UserRepositoryIntegrationTestSuite) SetupTest() {
	suite.Require().NoError(suite.db.Exec("TRUNCATE TABLE users").Error)

	suite.tracker = new(MockAggregateTracker)
	suite.repository = userrepo.NewGormUserRepository(suite.db, suite.tracker)
}

func (suite *UserRepositoryIntegrationTestSuite) TearDownSuite() {
	if suite.container != nil {
		suite.Require().NoError(suite.container.Terminate(context.Background()))
	}
}

func (suite *UserRepositoryIntegrationTestSuite) TestAddAndGet_RoundTripsRolesAndPermissions() {
	ctx := context.Background()

	account := suite.createTestUser("ops@example.com", user.RoleAdmin)
	suite.tracker.On("TrackAggregate", account.ID(), account).Once()
	suite.Require().NoError(suite.repository.Add(ctx, account))

	retrieved, err := suite.repository.Get(ctx, account.ID())
	suite.Require().NoError(err)

	suite.True(account.ID().IsEqual(retrieved.ID()))
	suite.Equal(account.Email(), retrieved.Email())
	suite.Equal(account.Roles(), retrieved.Roles())
	suite.Equal(account.Permissions(), retrieved.Permissions())
	suite.True(retrieved.Active())

	suite.tracker.AssertExpectations(suite.T())
}

func (suite *UserRepositoryIntegrationTestSuite) TestGetByEmail_IsCaseInsensitive() {
	ctx := context.Background()

	account := suite.createTestUser("ops@example.com", user.RoleAdmin)
	suite.tracker.On("TrackAggregate", account.ID(), account).Once()
	suite.Require().NoError(suite.repository.Add(ctx, account))

	retrieved, err := suite.repository.GetByEmail(ctx, "OPS@Example.COM")
	suite.Require().NoError(err)
	suite.True(account.ID().IsEqual(retrieved.ID()))

	_, err = suite.repository.GetByEmail(ctx, "nobody@example.com")
	suite.Require().ErrorIs(err, errs.ErrObjectNotFound)
}

func (suite *UserRepositoryIntegrationTestSuite) TestCountAdminsForUpdate_CountsOnlyActiveAdmins() {
	ctx := context.Background()
	suite.tracker.On("TrackAggregate", mock.Anything, mock.Anything)

	admin := suite.createTestUser("admin@example.com", user.RoleAdmin)
	operator := suite.createTestUser("operator@example.com", "OPERATOR")
	suite.Require().NoError(suite.repository.Add(ctx, admin))
	suite.Require().NoError(suite.repository.Add(ctx, operator))

	tx := suite.db.Begin()
	defer tx.Rollback()

	count, err := userrepo.NewGormUserRepository(tx, suite.tracker).CountAdminsForUpdate(ctx)
	suite.Require().NoError(err)
	suite.Equal(int64(1), count)
}

// Two instances starting against an empty users table must not both decide to
// seed the administrator. The second counter has to wait for the first
// transaction to finish and then observe its insert.
func (suite *UserRepositoryIntegrationTestSuite) TestCountAdminsForUpdate_SerializesConcurrentSeeders() {
	ctx := context.Background()
	suite.tracker.On("TrackAggregate", mock.Anything, mock.Anything)

	first := suite.db.Begin()
	suite.Require().NoError(first.Error)
	firstRepo := userrepo.NewGormUserRepository(first, suite.tracker)

	count, err := firstRepo.CountAdminsForUpdate(ctx)
	suite.Require().NoError(err)
	suite.Require().Equal(int64(0), count)

	admin := suite.createTestUser("admin@example.com", user.RoleAdmin)
	suite.Require().NoError(firstRepo.Add(ctx, admin))

	secondSaw := make(chan int64, 1)
	go func() {
		second := suite.db.Begin()
		if second.Error != nil {
			secondSaw <- -1
			return
		}
		defer second.Rollback()

		observed, countErr := userrepo.NewGormUserRepository(second, suite.tracker).CountAdminsForUpdate(ctx)
		if countErr != nil {
			secondSaw <- -1
			return
		}
		secondSaw <- observed
	}()

	// The second counter must block on the guard lock while the first
	// transaction is still open.
	select {
	case observed := <-secondSaw:
		suite.FailNowf("second counter did not block", "observed %d admins", observed)
	case <-time.After(500 * time.Millisecond):
	}

	suite.Require().NoError(first.Commit().Error)

	select {
	case observed := <-secondSaw:
		suite.Equal(int64(1), observed, "second counter should see the committed admin")
	case <-time.After(5 * time.Second):
		suite.FailNow("second counter never returned after commit")
	}
}

func (suite *UserRepositoryIntegrationTestSuite) createTestUser(email, role string) *user.User {
	account, err := user.NewUser(
		kernel.NewUUID(),
		email,
		fmt.Sprintf("$2a$10$hash-for-%s", email),
		"Test",
		"User",
		[]string{role},
		[]string{"reports:read"},
	)
	suite.Require().NoError(err)
	return account
}

func TestUserRepositoryIntegrationTestSuite(t *testing.T) {
	suite.Run(t, new(UserRepositoryIntegrationTestSuite))
}
