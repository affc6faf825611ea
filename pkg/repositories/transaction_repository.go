package repositories

import (
	"context"

	"github.com/andrenbrandao/rinha-ledger/pkg/domain"
)

const (
	insertTransactionQuery = `
		INSERT INTO transactions (account_id, amount, type, description)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at;`

	lastTransactionsQuery = `
		SELECT id, account_id, amount, type, description, created_at
		FROM transactions
		WHERE account_id = $1
		ORDER BY created_at DESC, id DESC
		LIMIT $2;`
)

// InsertTransaction appends t to the log and returns it with the id and
// timestamp assigned by the database.
func InsertTransaction(ctx context.Context, q Querier, t domain.Transaction) (domain.Transaction, error) {
	row := q.QueryRow(ctx, insertTransactionQuery, t.AccountId, t.Amount, string(t.Type), t.Description)
	if err := row.Scan(&t.Id, &t.CreatedAt); err != nil {
		return t, err
	}
	return t, nil
}

// GetLastTransactions returns up to limit transactions of the account, most
// recent first. It never returns a nil slice.
func GetLastTransactions(ctx context.Context, q Querier, accountId int, limit int) ([]domain.Transaction, error) {
	rows, err := q.Query(ctx, lastTransactionsQuery, accountId, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	transactions := make([]domain.Transaction, 0, limit)
	for rows.Next() {
		var (
			t       domain.Transaction
			txnType string
		)
		if err := rows.Scan(&t.Id, &t.AccountId, &t.Amount, &txnType, &t.Description, &t.CreatedAt); err != nil {
			return nil, err
		}
		t.Type = domain.TransactionType(txnType)
		transactions = append(transactions, t)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return transactions, nil
}
