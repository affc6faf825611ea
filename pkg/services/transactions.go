package services

import (
	"context"
	"errors"

	"github.com/andrenbrandao/rinha-ledger/pkg/domain"
	"github.com/andrenbrandao/rinha-ledger/pkg/logging"
	"github.com/andrenbrandao/rinha-ledger/pkg/repositories"
	"github.com/andrenbrandao/rinha-ledger/pkg/validation"
	"github.com/jackc/pgx/v5"
	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

type TransactionService struct {
	db        DB
	customers *domain.CustomerSet
	logger    *logging.Logger
}

func NewTransactionService(db DB, customers *domain.CustomerSet, logger *logging.Logger) *TransactionService {
	return &TransactionService{
		db:        db,
		customers: customers,
		logger:    logger,
	}
}

// Create applies one transaction to one customer. The balance update and the
// transaction record are committed together or not at all, and a debit that
// would take the balance below -limit is rejected with
// domain.ErrInsufficientLimit without touching any row.
func (s *TransactionService) Create(ctx context.Context, customerId int, req domain.TransactionRequest) (domain.TransactionResult, error) {
	if !s.customers.Contains(customerId) {
		return domain.TransactionResult{}, domain.ErrNotFound
	}

	txn, err := validation.ValidateTransaction(req)
	if err != nil {
		return domain.TransactionResult{}, err
	}
	txn.AccountId = customerId

	ctx, span := tracer.Start(ctx, "TransactionService.Create", trace.WithAttributes(
		attribute.Int("customer.id", customerId),
		attribute.String("transaction.type", string(txn.Type)),
		attribute.Int("transaction.amount", txn.Amount),
	))
	defer span.End()

	log := s.logger.WithFields(logrus.Fields{
		"customer_id": customerId,
		"type":        txn.Type,
		"amount":      txn.Amount,
	})

	result, err := s.apply(ctx, txn)
	switch {
	case err == nil:
		log.WithField("balance", result.Balance).Debug("transaction committed")
	case errors.Is(err, domain.ErrInsufficientLimit), errors.Is(err, domain.ErrNotFound), errors.Is(err, domain.ErrBalanceOverflow):
		span.SetAttributes(attribute.String("transaction.rejected", err.Error()))
		log.WithError(err).Debug("transaction rejected")
	default:
		span.RecordError(err)
		span.SetStatus(codes.Error, "transaction failed")
		log.WithError(err).Error("transaction failed")
	}

	return result, err
}

func (s *TransactionService) apply(ctx context.Context, txn domain.Transaction) (domain.TransactionResult, error) {
	tx, err := s.db.Begin(ctx)
	if err != nil {
		return domain.TransactionResult{}, domain.NewStorageError("begin", err)
	}

	var account domain.Account
	switch txn.Type {
	case domain.Credit:
		account, err = repositories.CreditAccount(ctx, tx, txn.AccountId, txn.Amount)
	case domain.Debit:
		account, err = repositories.DebitAccount(ctx, tx, txn.AccountId, txn.Amount)
	default:
		err = domain.ErrUnknownBankTransactionType
	}
	if err != nil {
		s.rollback(ctx, tx)
		if errors.Is(err, domain.ErrInsufficientLimit) || errors.Is(err, domain.ErrNotFound) || errors.Is(err, domain.ErrBalanceOverflow) {
			return domain.TransactionResult{}, err
		}
		return domain.TransactionResult{}, domain.NewStorageError("update balance", err)
	}

	if _, err := repositories.InsertTransaction(ctx, tx, txn); err != nil {
		s.rollback(ctx, tx)
		return domain.TransactionResult{}, domain.NewStorageError("insert transaction", err)
	}

	if err := tx.Commit(ctx); err != nil {
		// a failed commit already ended the transaction on the server
		s.rollback(ctx, tx)
		return domain.TransactionResult{}, domain.NewStorageError("commit", err)
	}

	return domain.TransactionResult{Limit: account.BalanceLimit, Balance: account.Balance}, nil
}

// rollback ends tx even when the request context is already cancelled.
func (s *TransactionService) rollback(ctx context.Context, tx pgx.Tx) {
	err := tx.Rollback(context.WithoutCancel(ctx))
	if err != nil && !errors.Is(err, pgx.ErrTxClosed) {
		s.logger.WithError(err).Warn("rollback failed")
	}
}
