package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/AnshRaj112/crypto-dca-backend/internal/observability"
	"github.com/AnshRaj112/crypto-dca-backend/internal/services"
	"github.com/AnshRaj112/crypto-dca-backend/pkg/utils"
)

// TransactionRequest is the body for creating or replacing a transaction.
// All fields but notes are required; replacing overwrites every field.
type TransactionRequest = services.TransactionInput

// NewCreateTransactionHandler appends a transaction with a server-generated id.
// @Summary Create transaction
// @Tags transactions
// @Accept json
// @Produce json
// @Param userId path string true "User id"
// @Param request body services.TransactionInput true "Transaction"
// @Success 201 {object} models.Transaction
// @Failure 400 {object} utils.ErrorResponse
// @Failure 404 {object} utils.ErrorResponse "User not found"
// @Router /users/{userId}/transactions [post]
// @Security ApiKeyAuth
// @Security BearerAuth
func NewCreateTransactionHandler(svc UserService, reporter observability.Reporter) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req TransactionRequest
		if err := decodeJSON(w, r, &req); err != nil {
			utils.WriteError(w, http.StatusBadRequest, msgInvalidBody)
			return
		}

		tx, err := svc.AppendTransaction(r.Context(), chi.URLParam(r, "userId"), req)
		if err != nil {
			writeFailure(w, r, reporter, err, userErrorStatus(err))
			return
		}
		utils.WriteJSON(w, http.StatusCreated, tx)
	}
}

// NewListTransactionsHandler returns every transaction of the user.
// @Summary List transactions
// @Tags transactions
// @Produce json
// @Param userId path string true "User id"
// @Success 200 {array} models.Transaction
// @Failure 404 {object} utils.ErrorResponse "User not found"
// @Router /users/{userId}/transactions [get]
// @Security ApiKeyAuth
// @Security BearerAuth
func NewListTransactionsHandler(svc UserService, reporter observability.Reporter) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		txs, err := svc.GetTransactions(r.Context(), chi.URLParam(r, "userId"))
		if err != nil {
			writeFailure(w, r, reporter, err, userErrorStatus(err))
			return
		}
		utils.WriteJSON(w, http.StatusOK, txs)
	}
}

// NewGetTransactionHandler returns a single transaction.
// @Summary Get transaction
// @Tags transactions
// @Produce json
// @Param userId path string true "User id"
// @Param transactionId path string true "Transaction id"
// @Success 200 {object} models.Transaction
// @Failure 404 {object} utils.ErrorResponse "User or transaction not found"
// @Router /users/{userId}/transactions/{transactionId} [get]
// @Security ApiKeyAuth
// @Security BearerAuth
func NewGetTransactionHandler(svc UserService, reporter observability.Reporter) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		tx, err := svc.GetTransaction(r.Context(), chi.URLParam(r, "userId"), chi.URLParam(r, "transactionId"))
		if err != nil {
			writeFailure(w, r, reporter, err, userErrorStatus(err))
			return
		}
		utils.WriteJSON(w, http.StatusOK, tx)
	}
}

// NewReplaceTransactionHandler overwrites a transaction, keeping its id, and
// returns the updated user.
// @Summary Replace transaction
// @Tags transactions
// @Accept json
// @Produce json
// @Param userId path string true "User id"
// @Param transactionId path string true "Transaction id"
// @Param request body services.TransactionInput true "Transaction"
// @Success 200 {object} models.User
// @Failure 400 {object} utils.ErrorResponse
// @Failure 404 {object} utils.ErrorResponse "User or transaction not found"
// @Router /users/{userId}/transactions/{transactionId} [put]
// @Security ApiKeyAuth
// @Security BearerAuth
func NewReplaceTransactionHandler(svc UserService, reporter observability.Reporter) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req TransactionRequest
		if err := decodeJSON(w, r, &req); err != nil {
			utils.WriteError(w, http.StatusBadRequest, msgInvalidBody)
			return
		}

		user, err := svc.ReplaceTransaction(r.Context(), chi.URLParam(r, "userId"), chi.URLParam(r, "transactionId"), req)
		if err != nil {
			writeFailure(w, r, reporter, err, userErrorStatus(err))
			return
		}
		utils.WriteJSON(w, http.StatusOK, user)
	}
}

// NewDeleteTransactionHandler removes a transaction. Deleting an unknown
// transaction id still answers 204.
// @Summary Delete transaction
// @Tags transactions
// @Param userId path string true "User id"
// @Param transactionId path string true "Transaction id"
// @Success 204
// @Failure 404 {object} utils.ErrorResponse "User not found"
// @Router /users/{userId}/transactions/{transactionId} [delete]
// @Security ApiKeyAuth
// @Security BearerAuth
func NewDeleteTransactionHandler(svc UserService, reporter observability.Reporter) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		err := svc.RemoveTransaction(r.Context(), chi.URLParam(r, "userId"), chi.URLParam(r, "transactionId"))
		if err != nil {
			writeFailure(w, r, reporter, err, userErrorStatus(err))
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}
