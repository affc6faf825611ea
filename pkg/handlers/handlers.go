// Package handlers exposes the ledger over HTTP.
package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/andrenbrandao/rinha-ledger/pkg/domain"
	"github.com/andrenbrandao/rinha-ledger/pkg/logging"
)

type TransactionCreator interface {
	Create(ctx context.Context, customerId int, req domain.TransactionRequest) (domain.TransactionResult, error)
}

type StatementGetter interface {
	Get(ctx context.Context, customerId int) (domain.Statement, error)
}

type Handler struct {
	customers    *domain.CustomerSet
	transactions TransactionCreator
	statements   StatementGetter
	logger       *logging.Logger
}

func New(customers *domain.CustomerSet, transactions TransactionCreator, statements StatementGetter, logger *logging.Logger) *Handler {
	return &Handler{
		customers:    customers,
		transactions: transactions,
		statements:   statements,
		logger:       logger,
	}
}

// Routes registers every endpoint on a new mux.
func (h *Handler) Routes() *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /health", h.health)
	mux.HandleFunc("POST /clientes/{id}/transacoes", h.createTransaction)
	mux.HandleFunc("GET /clientes/{id}/extrato", h.getStatement)
	return mux
}

func (h *Handler) health(w http.ResponseWriter, _ *http.Request) {
	fmt.Fprintf(w, "Server is running!\n")
}

func (h *Handler) createTransaction(w http.ResponseWriter, r *http.Request) {
	id, ok := h.customerID(r)
	if !ok {
		w.WriteHeader(http.StatusNotFound)
		return
	}

	var req domain.TransactionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		w.WriteHeader(http.StatusUnprocessableEntity)
		return
	}

	result, err := h.transactions.Create(r.Context(), id, req)
	if err != nil {
		h.writeError(w, err)
		return
	}

	h.writeJSON(w, http.StatusOK, result)
}

func (h *Handler) getStatement(w http.ResponseWriter, r *http.Request) {
	id, ok := h.customerID(r)
	if !ok {
		w.WriteHeader(http.StatusNotFound)
		return
	}

	statement, err := h.statements.Get(r.Context(), id)
	if err != nil {
		h.writeError(w, err)
		return
	}

	h.writeJSON(w, http.StatusOK, statement)
}

// customerID resolves the {id} path segment against the provisioned set
// before anything else about the request is looked at.
func (h *Handler) customerID(r *http.Request) (int, bool) {
	id, err := strconv.Atoi(r.PathValue("id"))
	if err != nil || !h.customers.Contains(id) {
		return 0, false
	}
	return id, true
}

func (h *Handler) writeError(w http.ResponseWriter, err error) {
	w.WriteHeader(statusFor(err))
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrInvalidTransaction), errors.Is(err, domain.ErrInsufficientLimit), errors.Is(err, domain.ErrBalanceOverflow):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, body any) {
	b, err := json.Marshal(body)
	if err != nil {
		h.logger.WithError(err).Error("unable to encode response")
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	w.Write(b)
}
