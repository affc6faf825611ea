// Package services holds the two ledger operations: applying a transaction to
// a customer's balance and building a customer's statement.
package services

import (
	"context"

	"github.com/jackc/pgx/v5"
	"go.opentelemetry.io/otel"
)

const tracerName = "github.com/andrenbrandao/rinha-ledger/pkg/services"

var tracer = otel.Tracer(tracerName)

// DB is the storage handle shared by every request. *pgxpool.Pool satisfies it.
type DB interface {
	Begin(ctx context.Context) (pgx.Tx, error)
	BeginTx(ctx context.Context, txOptions pgx.TxOptions) (pgx.Tx, error)
}
