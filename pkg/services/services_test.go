package services

import (
	"io"
	"testing"

	"github.com/andrenbrandao/rinha-ledger/pkg/config"
	"github.com/andrenbrandao/rinha-ledger/pkg/database/databasetest"
	"github.com/andrenbrandao/rinha-ledger/pkg/domain"
	"github.com/andrenbrandao/rinha-ledger/pkg/logging"
	"github.com/jackc/pgx/v5/pgxpool"
)

const (
	schema = "services_test"

	// smallLimitCustomer is provisioned by the tests with a limit of 1000.
	smallLimitCustomer = 6
)

func newTestLogger(t *testing.T) *logging.Logger {
	t.Helper()
	logger, err := logging.NewLogger(config.Log{Level: "panic", Format: "json"}, io.Discard)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	return logger
}

func newCustomerSet(t *testing.T) *domain.CustomerSet {
	t.Helper()
	set, err := domain.NewCustomerSet([]int{1, 2, 3, 4, 5, smallLimitCustomer})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	return set
}

func setupDB(t *testing.T) *pgxpool.Pool {
	t.Helper()
	pool := databasetest.Open(t, schema)
	databasetest.Provision(t, pool, smallLimitCustomer, 1000)
	return pool
}

func request(amount int, kind, description string) domain.TransactionRequest {
	return domain.TransactionRequest{Amount: &amount, Type: kind, Description: description}
}
