package database_test

import (
	"context"
	"testing"

	"github.com/andrenbrandao/rinha-ledger/pkg/database"
	"github.com/andrenbrandao/rinha-ledger/pkg/database/databasetest"
	"github.com/andrenbrandao/rinha-ledger/pkg/repositories"
)

func TestMigrateIsIdempotent(t *testing.T) {
	pool := databasetest.Open(t, "database_test")

	if err := database.Migrate(databasetest.URL(t, "database_test")); err != nil {
		t.Fatalf("Second migration failed: %v", err)
	}

	var tables int
	err := pool.QueryRow(context.Background(),
		"SELECT COUNT(*) FROM information_schema.tables WHERE table_schema = 'database_test' AND table_name IN ('accounts', 'transactions')").
		Scan(&tables)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if tables != 2 {
		t.Errorf("Got %d tables, wants 2", tables)
	}
}

func TestSeedProvisionsLimits(t *testing.T) {
	pool := databasetest.Open(t, "database_test")
	ctx := context.Background()

	want := map[int]int{1: 100000, 2: 80000, 3: 1000000, 4: 10000000, 5: 500000}
	for id, limit := range want {
		account, err := repositories.GetAccount(ctx, pool, id)
		if err != nil {
			t.Fatalf("unexpected error for account %d: %v", id, err)
		}
		if account.BalanceLimit != limit || account.Balance != 0 {
			t.Errorf("Account %d has limit %d and balance %d, wants %d and 0", id, account.BalanceLimit, account.Balance, limit)
		}
	}
}

func TestBalanceConstraint(t *testing.T) {
	pool := databasetest.Open(t, "database_test")

	// the table itself refuses a balance below -limit
	_, err := pool.Exec(context.Background(), "UPDATE accounts SET balance = -100001 WHERE id = 1")
	if err == nil {
		t.Errorf("Expected the balance_within_limit constraint to reject the update")
	}
}
