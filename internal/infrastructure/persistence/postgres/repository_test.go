package postgres_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"

	"github.com/harborline/payment-orchestrator/internal/core/domain"
	"github.com/harborline/payment-orchestrator/internal/infrastructure/persistence/postgres"
	"github.com/harborline/payment-orchestrator/internal/testhelpers"
)

type RepositoryTestSuite struct {
	suite.Suite
	testDB *testhelpers.TestDatabase
	orders *postgres.OrderRepository
	events *postgres.EventRepository
}

func TestRepositorySuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}
	suite.Run(t, new(RepositoryTestSuite))
}

func (s *RepositoryTestSuite) SetupSuite() {
	s.testDB = testhelpers.SetupTestDatabase(s.T())
	s.orders = postgres.NewOrderRepository(s.testDB.DB.Pool)
	s.events = postgres.NewEventRepository(s.testDB.DB.Pool)
}

func (s *RepositoryTestSuite) TearDownSuite() {
	s.testDB.Cleanup(s.T())
}

func (s *RepositoryTestSuite) SetupTest() {
	s.testDB.CleanTables(s.T())
}

func (s *RepositoryTestSuite) TestLoadOrderRoundTrip() {
	ctx := context.Background()
	seeded := testhelpers.DefaultOrder("100000200")
	testhelpers.SeedOrder(s.T(), ctx, s.testDB, seeded, domain.Payment{Method: "cc", CcType: "VI", PspReference: "AUTH-1"})

	order, err := s.orders.LoadOrder(ctx, "100000200")
	s.Require().NoError(err)
	s.Equal(seeded.IncrementID, order.IncrementID)
	s.Equal(seeded.GrandTotal, order.GrandTotal)
	s.Equal(seeded.CurrencyCode, order.CurrencyCode)
	s.WithinDuration(seeded.CreatedAt, order.CreatedAt, time.Second)
}

func (s *RepositoryTestSuite) TestLoadOrderNotFound() {
	_, err := s.orders.LoadOrder(context.Background(), "999999999")
	s.Require().Error(err)
	s.True(domain.IsErrorCode(err, domain.ErrCodeOrderNotFound))
}

func (s *RepositoryTestSuite) TestLoadPaymentNullableColumns() {
	ctx := context.Background()
	testhelpers.SeedOrder(s.T(), ctx, s.testDB, testhelpers.DefaultOrder("100000201"), domain.Payment{Method: "boleto"})

	payment, err := s.orders.LoadPayment(ctx, "100000201")
	s.Require().NoError(err)
	s.Equal("boleto", payment.Method)
	s.Empty(payment.CcType)
	s.Empty(payment.PspReference)
	s.Empty(payment.RecurringReference)
	s.Nil(payment.FraudScore)
}

func (s *RepositoryTestSuite) TestLoadSplitPaymentsAscendingOrder() {
	ctx := context.Background()
	paymentID := testhelpers.SeedOrder(s.T(), ctx, s.testDB, testhelpers.DefaultOrder("100000202"), domain.Payment{Method: "cc", PspReference: "AUTH-1"})
	testhelpers.SeedSplitPayment(s.T(), ctx, s.testDB, paymentID, "SPLIT-1", 3000, 0)
	testhelpers.SeedSplitPayment(s.T(), ctx, s.testDB, paymentID, "SPLIT-2", 7000, 500)

	splits, err := s.orders.LoadSplitPayments(ctx, paymentID)
	s.Require().NoError(err)
	s.Require().Len(splits, 2)
	s.Equal("SPLIT-1", splits[0].PspReference)
	s.Equal("SPLIT-2", splits[1].PspReference)
	s.Equal(int64(6500), splits[1].RefundableRemainder())
}

func (s *RepositoryTestSuite) TestAppendStatusHistoryWithStatusTransitionsOrder() {
	ctx := context.Background()
	testhelpers.SeedOrder(s.T(), ctx, s.testDB, testhelpers.DefaultOrder("100000203"), domain.Payment{Method: "cc"})

	err := s.orders.AppendStatusHistory(ctx, "100000203", "authorised", "processing")
	s.Require().NoError(err)

	var status string
	err = s.testDB.DB.Pool.QueryRow(ctx, "SELECT status FROM orders WHERE increment_id = $1", "100000203").Scan(&status)
	s.Require().NoError(err)
	s.Equal("processing", status)

	var count int
	err = s.testDB.DB.Pool.QueryRow(ctx, "SELECT count(*) FROM status_history WHERE increment_id = $1", "100000203").Scan(&count)
	s.Require().NoError(err)
	s.Equal(1, count)
}

func (s *RepositoryTestSuite) TestAppendStatusHistoryWithoutStatusLeavesOrderAlone() {
	ctx := context.Background()
	testhelpers.SeedOrder(s.T(), ctx, s.testDB, testhelpers.DefaultOrder("100000204"), domain.Payment{Method: "cc"})

	err := s.orders.AppendStatusHistory(ctx, "100000204", "refund accepted", "")
	s.Require().NoError(err)

	var status *string
	err = s.testDB.DB.Pool.QueryRow(ctx, "SELECT status FROM orders WHERE increment_id = $1", "100000204").Scan(&status)
	s.Require().NoError(err)
	s.Nil(status)
}

func (s *RepositoryTestSuite) TestUpdateRefundedAmountAccumulates() {
	ctx := context.Background()
	paymentID := testhelpers.SeedOrder(s.T(), ctx, s.testDB, testhelpers.DefaultOrder("100000205"), domain.Payment{Method: "cc"})
	splitID := testhelpers.SeedSplitPayment(s.T(), ctx, s.testDB, paymentID, "SPLIT-1", 5000, 0)

	s.Require().NoError(s.orders.UpdateRefundedAmount(ctx, splitID, 1000))
	s.Require().NoError(s.orders.UpdateRefundedAmount(ctx, splitID, 2500))

	splits, err := s.orders.LoadSplitPayments(ctx, paymentID)
	s.Require().NoError(err)
	s.Equal(int64(3500), splits[0].TotalRefunded)
}

func (s *RepositoryTestSuite) TestSetPaymentDetailUpserts() {
	ctx := context.Background()
	paymentID := testhelpers.SeedOrder(s.T(), ctx, s.testDB, testhelpers.DefaultOrder("100000206"), domain.Payment{Method: "cc"})

	s.Require().NoError(s.orders.SetPaymentDetail(ctx, paymentID, "pspReference", "AUTH-OLD"))
	s.Require().NoError(s.orders.SetPaymentDetail(ctx, paymentID, "pspReference", "AUTH-NEW"))

	var value string
	err := s.testDB.DB.Pool.QueryRow(ctx,
		"SELECT detail_value FROM payment_details WHERE payment_id = $1 AND detail_key = $2",
		paymentID, "pspReference").Scan(&value)
	s.Require().NoError(err)
	s.Equal("AUTH-NEW", value)
}

func (s *RepositoryTestSuite) TestEventLedgerRecordAndLookup() {
	ctx := context.Background()
	testhelpers.SeedOrder(s.T(), ctx, s.testDB, testhelpers.DefaultOrder("100000207"), domain.Payment{Method: "cc"})

	base := time.Now().UTC().Truncate(time.Second)
	err := s.events.Record(ctx, domain.Event{
		ID:            uuid.New(),
		PspReference:  "AUTH-FIRST",
		EventCode:     "AUTHORISATION",
		EventResult:   "Authorised",
		IncrementID:   "100000207",
		PaymentMethod: "cc",
		CreatedAt:     base,
	})
	s.Require().NoError(err)

	err = s.events.Record(ctx, domain.Event{
		ID:           uuid.New(),
		PspReference: "AUTH-SECOND",
		EventCode:    "AUTHORISATION",
		EventResult:  "Authorised",
		IncrementID:  "100000207",
		CreatedAt:    base.Add(time.Minute),
	})
	s.Require().NoError(err)

	pspReference, err := s.events.OriginalPspReference(ctx, "100000207")
	s.Require().NoError(err)
	s.Equal("AUTH-FIRST", pspReference)
}

func (s *RepositoryTestSuite) TestEventLedgerAllowsDuplicates() {
	ctx := context.Background()

	event := domain.Event{
		ID:           uuid.New(),
		PspReference: "MOD-1",
		EventCode:    "[refund-received]",
		EventResult:  "[refund-received]",
		IncrementID:  "100000208",
		CreatedAt:    time.Now().UTC(),
	}
	s.Require().NoError(s.events.Record(ctx, event))

	event.ID = uuid.New()
	s.Require().NoError(s.events.Record(ctx, event))
}

func (s *RepositoryTestSuite) TestOriginalPspReferenceMissing() {
	_, err := s.events.OriginalPspReference(context.Background(), "100000209")
	s.Require().Error(err)
	s.True(domain.IsErrorCode(err, domain.ErrCodeOrderNotFound))
}
