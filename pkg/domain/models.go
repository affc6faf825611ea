package domain

import "time"

type TransactionType string

const (
	Credit TransactionType = "c"
	Debit  TransactionType = "d"
)

func (t TransactionType) Valid() bool {
	return t == Credit || t == Debit
}

type Account struct {
	Id           int       `json:"id"`
	Name         string    `json:"name"`
	Balance      int       `json:"balance"`
	BalanceLimit int       `json:"balance_limit"`
	CreatedAt    time.Time `json:"created_at"`
}

type Transaction struct {
	Id          int             `json:"-"`
	AccountId   int             `json:"-"`
	Amount      int             `json:"valor"`
	Type        TransactionType `json:"tipo"`
	Description string          `json:"descricao"`
	CreatedAt   time.Time       `json:"realizada_em"`
}

// TransactionRequest is the payload accepted by POST /clientes/{id}/transacoes.
// Amount is a pointer so a missing "valor" can be told apart from zero. Its
// upper bound is the range of the integer column it is stored in.
type TransactionRequest struct {
	Amount      *int   `json:"valor" validate:"required,gte=0,lte=2147483647"`
	Type        string `json:"tipo" validate:"required,oneof=c d"`
	Description string `json:"descricao" validate:"required,max=10,nonul"`
}

type TransactionResult struct {
	Limit   int `json:"limite"`
	Balance int `json:"saldo"`
}

type StatementBalance struct {
	Total       int       `json:"total"`
	GeneratedAt time.Time `json:"data_extrato"`
	Limit       int       `json:"limite"`
}

type Statement struct {
	Balance          StatementBalance `json:"saldo"`
	LastTransactions []Transaction    `json:"ultimas_transacoes"`
}

// StatementSize is how many transactions a statement carries at most.
const StatementSize = 10
