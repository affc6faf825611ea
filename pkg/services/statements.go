package services

import (
	"context"
	"errors"
	"time"

	"github.com/andrenbrandao/rinha-ledger/pkg/domain"
	"github.com/andrenbrandao/rinha-ledger/pkg/logging"
	"github.com/andrenbrandao/rinha-ledger/pkg/repositories"
	"github.com/jackc/pgx/v5"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

type StatementService struct {
	db        DB
	customers *domain.CustomerSet
	logger    *logging.Logger
	now       func() time.Time
}

func NewStatementService(db DB, customers *domain.CustomerSet, logger *logging.Logger) *StatementService {
	return &StatementService{
		db:        db,
		customers: customers,
		logger:    logger,
		now:       time.Now,
	}
}

// Get returns the current balance and the latest transactions of a customer.
// Both are read from a single snapshot so the balance always matches the
// transactions listed.
func (s *StatementService) Get(ctx context.Context, customerId int) (domain.Statement, error) {
	if !s.customers.Contains(customerId) {
		return domain.Statement{}, domain.ErrNotFound
	}

	ctx, span := tracer.Start(ctx, "StatementService.Get", trace.WithAttributes(
		attribute.Int("customer.id", customerId),
	))
	defer span.End()

	statement, err := s.read(ctx, customerId)
	if err != nil && !errors.Is(err, domain.ErrNotFound) {
		span.RecordError(err)
		span.SetStatus(codes.Error, "statement failed")
		s.logger.WithError(err).WithField("customer_id", customerId).Error("statement failed")
	}
	return statement, err
}

func (s *StatementService) read(ctx context.Context, customerId int) (domain.Statement, error) {
	tx, err := s.db.BeginTx(ctx, pgx.TxOptions{
		IsoLevel:   pgx.RepeatableRead,
		AccessMode: pgx.ReadOnly,
	})
	if err != nil {
		return domain.Statement{}, domain.NewStorageError("begin", err)
	}
	// read-only: rolling back is how the snapshot is released
	defer func() {
		if err := tx.Rollback(context.WithoutCancel(ctx)); err != nil && !errors.Is(err, pgx.ErrTxClosed) {
			s.logger.WithError(err).Warn("rollback failed")
		}
	}()

	account, err := repositories.GetAccount(ctx, tx, customerId)
	if errors.Is(err, domain.ErrNotFound) {
		return domain.Statement{}, err
	}
	if err != nil {
		return domain.Statement{}, domain.NewStorageError("get account", err)
	}

	transactions, err := repositories.GetLastTransactions(ctx, tx, customerId, domain.StatementSize)
	if err != nil {
		return domain.Statement{}, domain.NewStorageError("get last transactions", err)
	}

	return domain.Statement{
		Balance: domain.StatementBalance{
			Total:       account.Balance,
			GeneratedAt: s.now().UTC(),
			Limit:       account.BalanceLimit,
		},
		LastTransactions: transactions,
	}, nil
}
