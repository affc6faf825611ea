package services

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/andrenbrandao/rinha-ledger/pkg/database/databasetest"
	"github.com/andrenbrandao/rinha-ledger/pkg/domain"
)

func TestGetStatement(t *testing.T) {
	pool := setupDB(t)
	customers := newCustomerSet(t)
	logger := newTestLogger(t)
	transactions := NewTransactionService(pool, customers, logger)
	statements := NewStatementService(pool, customers, logger)
	fixed := time.Date(2024, 1, 17, 2, 34, 41, 0, time.UTC)
	statements.now = func() time.Time { return fixed }
	ctx := context.Background()

	t.Run("returns an empty list for a customer without transactions", func(t *testing.T) {
		got, err := statements.Get(ctx, 1)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		want := domain.StatementBalance{Total: 0, GeneratedAt: fixed, Limit: 100000}
		if got.Balance != want {
			t.Errorf("Got %+v, wants %+v", got.Balance, want)
		}
		if got.LastTransactions == nil || len(got.LastTransactions) != 0 {
			t.Errorf("Got %v, wants an empty non-nil list", got.LastTransactions)
		}
	})

	t.Run("shows the most recent transaction first", func(t *testing.T) {
		databasetest.Reset(t, pool)
		if _, err := transactions.Create(ctx, smallLimitCustomer, request(500, "d", "conta")); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if _, err := transactions.Create(ctx, smallLimitCustomer, request(100, "c", "deposito")); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		got, err := statements.Get(ctx, smallLimitCustomer)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if got.Balance.Total != -400 || got.Balance.Limit != 1000 {
			t.Errorf("Got balance %+v, wants total -400 and limit 1000", got.Balance)
		}
		if len(got.LastTransactions) != 2 {
			t.Fatalf("Got %d transactions, wants 2", len(got.LastTransactions))
		}
		first, second := got.LastTransactions[0], got.LastTransactions[1]
		if first.Type != domain.Credit || first.Amount != 100 || first.Description != "deposito" {
			t.Errorf("Got first transaction %+v, wants the credit of 100", first)
		}
		if second.Type != domain.Debit || second.Amount != 500 {
			t.Errorf("Got second transaction %+v, wants the debit of 500", second)
		}
	})

	t.Run("keeps only the ten latest transactions in descending order", func(t *testing.T) {
		databasetest.Reset(t, pool)
		for i := 1; i <= 12; i++ {
			if _, err := transactions.Create(ctx, 2, request(i, "c", fmt.Sprintf("t%d", i))); err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
		}

		got, err := statements.Get(ctx, 2)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if len(got.LastTransactions) != domain.StatementSize {
			t.Fatalf("Got %d transactions, wants %d", len(got.LastTransactions), domain.StatementSize)
		}
		for i, txn := range got.LastTransactions {
			if want := 12 - i; txn.Amount != want {
				t.Errorf("Got amount %d at position %d, wants %d", txn.Amount, i, want)
			}
			if i > 0 && txn.CreatedAt.After(got.LastTransactions[i-1].CreatedAt) {
				t.Errorf("Transaction %d is newer than the one before it", i)
			}
		}
		if got.Balance.Total != 78 {
			t.Errorf("Got total %d, wants 78", got.Balance.Total)
		}
	})

	t.Run("rejects unknown customers", func(t *testing.T) {
		if _, err := statements.Get(ctx, 99); !errors.Is(err, domain.ErrNotFound) {
			t.Errorf("Got error %v, wants ErrNotFound", err)
		}
	})
}
