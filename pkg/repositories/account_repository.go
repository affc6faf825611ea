package repositories

import (
	"context"
	"errors"

	"github.com/andrenbrandao/rinha-ledger/pkg/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// Querier is satisfied by pgx.Tx, *pgx.Conn and *pgxpool.Pool.
type Querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

const (
	getAccountQuery = `SELECT id, name, balance, balance_limit, created_at FROM accounts WHERE id = $1;`

	// Predicates are evaluated in bigint so an amount near the INTEGER range
	// is rejected by the WHERE clause instead of overflowing.
	creditAccountQuery = `
		UPDATE accounts
		SET balance = balance + $1::integer
		WHERE id = $2 AND balance::bigint + $1::bigint <= 2147483647
		RETURNING balance, balance_limit;`

	// The limit check lives in the WHERE clause so that checking and applying
	// the debit are one atomic step under the row lock taken by UPDATE.
	debitAccountQuery = `
		UPDATE accounts
		SET balance = balance - $1::integer
		WHERE id = $2 AND balance::bigint - $1::bigint >= -balance_limit
		RETURNING balance, balance_limit;`

	countAccountsQuery = `SELECT COUNT(*) FROM accounts WHERE id = ANY($1);`
)

func GetAccount(ctx context.Context, q Querier, accountId int) (domain.Account, error) {
	var account domain.Account
	row := q.QueryRow(ctx, getAccountQuery, accountId)
	err := row.Scan(&account.Id, &account.Name, &account.Balance, &account.BalanceLimit, &account.CreatedAt)

	if errors.Is(err, pgx.ErrNoRows) {
		return account, domain.ErrNotFound
	}
	if err != nil {
		return account, err
	}

	return account, nil
}

// CreditAccount adds amount to the balance and returns the updated account.
// A credit that would not fit the balance column returns
// domain.ErrBalanceOverflow with the balance untouched.
func CreditAccount(ctx context.Context, q Querier, accountId int, amount int) (domain.Account, error) {
	account := domain.Account{Id: accountId}
	row := q.QueryRow(ctx, creditAccountQuery, amount, accountId)
	err := row.Scan(&account.Balance, &account.BalanceLimit)

	if errors.Is(err, pgx.ErrNoRows) {
		if _, err := GetAccount(ctx, q, accountId); err != nil {
			return account, err
		}
		return account, domain.ErrBalanceOverflow
	}
	if err != nil {
		return account, err
	}

	return account, nil
}

// DebitAccount subtracts amount from the balance only when the result stays
// within the credit limit. When it would not, no row matches and
// domain.ErrInsufficientLimit is returned with the balance untouched.
func DebitAccount(ctx context.Context, q Querier, accountId int, amount int) (domain.Account, error) {
	account := domain.Account{Id: accountId}
	row := q.QueryRow(ctx, debitAccountQuery, amount, accountId)
	err := row.Scan(&account.Balance, &account.BalanceLimit)

	if errors.Is(err, pgx.ErrNoRows) {
		return account, domain.ErrInsufficientLimit
	}
	if err != nil {
		return account, err
	}

	return account, nil
}

// CountAccounts returns how many of ids exist in the accounts table.
func CountAccounts(ctx context.Context, q Querier, ids []int) (int, error) {
	var count int
	if err := q.QueryRow(ctx, countAccountsQuery, ids).Scan(&count); err != nil {
		return 0, err
	}
	return count, nil
}
