package coderepo_test

import (
	"context"
	"testing"
	"time"

	"fleetops/internal/adapters/out/postgres/coderepo"
	"fleetops/internal/core/domain/model/deliverycode"
	"fleetops/internal/core/domain/model/kernel"
	"fleetops/internal/core/ports"
	"fleetops/internal/pkg/errs"

	"github.com/stretchr/testify/suite"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	postgresdriver "gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// CodeRepositoryIntegrationTestSuite verifies delivery code
// persistence, archival and the audit trail against a real PostgreSQL
// container.
type CodeRepositoryIntegrationTestSuite struct {
	suite.Suite
	container  *postgres.PostgresContainer
	db         *gorm.DB
	repository *coderepo.GormCodeRepository
}

func (suite *CodeRepositoryIntegrationTestSuite) SetupSuite() {
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

	suite.Require().NoError(db.AutoMigrate(
		&coderepo.ActiveCodeDTO{},
		&coderepo.ArchivedCodeDTO{},
		&coderepo.CodeHistoryDTO{},
	))
}

func (suite *CodeRepositoryIntegrationTestSuite) SetupTest() {
	suite.Require().NoError(
		suite.db.Exec("TRUNCATE TABLE active_codes, archived_codes, code_history").Error)

	suite.repository = coderepo.NewGormCodeRepository(suite.db)
}

func (suite *CodeRepositoryIntegrationTestSuite) TearDownSuite() {
	if suite.container != nil {
		suite.Require().NoError(suite.container.Terminate(context.Background()))
	}
}

func (suite *CodeRepositoryIntegrationTestSuite) createTestCode(now time.Time) *deliverycode.Code {
	code, err := deliverycode.NewCode(kernel.NewUUID(), "A3X9K2MQ", now)
	suite.Require().NoError(err)
	return code
}

func (suite *CodeRepositoryIntegrationTestSuite) TestAddAndGetByOrder_RoundTrips() {
	ctx := context.Background()
	now := time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)
	code := suite.createTestCode(now)

	suite.Require().NoError(suite.repository.Add(ctx, code))

	retrieved, err := suite.repository.GetByOrder(ctx, code.Order())
	suite.Require().NoError(err)
	suite.Equal(code.Order(), retrieved.Order())
	suite.Equal("A3X9K2MQ", retrieved.Value())
	suite.Equal(deliverycode.Active, retrieved.Status())
	suite.Equal(deliverycode.MaxAttempts, retrieved.AttemptsLeft())
	suite.True(retrieved.ExpiresAt().Equal(now.Add(deliverycode.TTL)))
}

func (suite *CodeRepositoryIntegrationTestSuite) TestGetByOrder_Missing_ReturnsNotFound() {
	ctx := context.Background()

	retrieved, err := suite.repository.GetByOrder(ctx, kernel.NewUUID())
	suite.Nil(retrieved)

	var notFoundErr *errs.ObjectNotFoundError
	suite.Require().ErrorAs(err, &notFoundErr)
}

func (suite *CodeRepositoryIntegrationTestSuite) TestUpdate_PersistsAttemptCount() {
	ctx := context.Background()
	now := time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)
	code := suite.createTestCode(now)

	suite.Require().NoError(suite.repository.Add(ctx, code))

	err := code.Verify("WRONG111", now.Add(time.Minute))
	suite.Require().ErrorIs(err, deliverycode.ErrCodeMismatch)
	suite.Require().NoError(suite.repository.Update(ctx, code))

	retrieved, err := suite.repository.GetByOrder(ctx, code.Order())
	suite.Require().NoError(err)
	suite.Equal(deliverycode.MaxAttempts-1, retrieved.AttemptsLeft())
	suite.Equal(deliverycode.Active, retrieved.Status())
}

func (suite *CodeRepositoryIntegrationTestSuite) TestArchive_MovesRowToArchive() {
	ctx := context.Background()
	now := time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)
	code := suite.createTestCode(now)

	suite.Require().NoError(suite.repository.Add(ctx, code))
	suite.Require().NoError(code.Verify("A3X9K2MQ", now.Add(time.Minute)))

	archivedAt := now.Add(2 * time.Minute)
	err := suite.repository.Archive(ctx, code, deliverycode.ArchiveSuccess, archivedAt)
	suite.Require().NoError(err)

	_, err = suite.repository.GetByOrder(ctx, code.Order())
	var notFoundErr *errs.ObjectNotFoundError
	suite.Require().ErrorAs(err, &notFoundErr)

	var archived coderepo.ArchivedCodeDTO
	suite.Require().NoError(
		suite.db.First(&archived, "order_id = ?", code.Order().Bytes()).Error)
	suite.Equal("A3X9K2MQ", archived.Value)
	suite.Equal(string(deliverycode.ArchiveSuccess), archived.Outcome)
	suite.True(archived.ArchivedAt.Equal(archivedAt))

	active, err := suite.repository.GetAllActive(ctx)
	suite.Require().NoError(err)
	suite.Empty(active)
}

func (suite *CodeRepositoryIntegrationTestSuite) TestArchive_MissingActiveRow_ReturnsNotFound() {
	ctx := context.Background()
	now := time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)
	code := suite.createTestCode(now)
	suite.Require().NoError(code.Verify("A3X9K2MQ", now))

	err := suite.repository.Archive(ctx, code, deliverycode.ArchiveSuccess, now)
	suite.Require().ErrorIs(err, gorm.ErrRecordNotFound)
}

func (suite *CodeRepositoryIntegrationTestSuite) TestGetAllActive_SkipsNonActiveStatuses() {
	ctx := context.Background()
	now := time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)

	active := suite.createTestCode(now)
	locked := suite.createTestCode(now)
	for i := 0; i < deliverycode.MaxAttempts; i++ {
		err := locked.Verify("WRONG111", now.Add(time.Minute))
		suite.Require().Error(err)
	}
	suite.Require().Equal(deliverycode.Locked, locked.Status())

	suite.Require().NoError(suite.repository.Add(ctx, active))
	suite.Require().NoError(suite.repository.Add(ctx, locked))

	codes, err := suite.repository.GetAllActive(ctx)
	suite.Require().NoError(err)
	suite.Require().Len(codes, 1)
	suite.Equal(active.Order(), codes[0].Order())
}

func (suite *CodeRepositoryIntegrationTestSuite) TestAudit_AppendsAndReadsOldestFirst() {
	ctx := context.Background()
	now := time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)
	orderID := kernel.NewUUID()

	records := []ports.CodeAuditRecord{
		{OrderID: orderID, Event: deliverycode.EventGenerated, At: now},
		{OrderID: orderID, Event: deliverycode.EventVerifyFailed, Detail: "2 attempts left", At: now.Add(time.Minute)},
		{OrderID: orderID, Event: deliverycode.EventVerified, At: now.Add(2 * time.Minute)},
	}
	for _, record := range records {
		suite.Require().NoError(suite.repository.AddAudit(ctx, record))
	}

	// An unrelated order's trail must not leak in.
	other := ports.CodeAuditRecord{OrderID: kernel.NewUUID(), Event: deliverycode.EventGenerated, At: now}
	suite.Require().NoError(suite.repository.AddAudit(ctx, other))

	trail, err := suite.repository.GetAuditByOrder(ctx, orderID)
	suite.Require().NoError(err)
	suite.Require().Len(trail, 3)
	suite.Equal(deliverycode.EventGenerated, trail[0].Event)
	suite.Equal(deliverycode.EventVerifyFailed, trail[1].Event)
	suite.Equal("2 attempts left", trail[1].Detail)
	suite.Equal(deliverycode.EventVerified, trail[2].Event)
}

func TestCodeRepositoryIntegrationTestSuite(t *testing.T) {
	suite.Run(t, new(CodeRepositoryIntegrationTestSuite))
}
