// Package handlers contains the HTTP handlers of the API. Each constructor
// returns an http.HandlerFunc bound to the service it needs.
package handlers

//go:generate mockgen -destination=mock_services_test.go -package=handlers github.com/AnshRaj112/crypto-dca-backend/internal/handlers AuthService,UserService

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/AnshRaj112/crypto-dca-backend/internal/apperrors"
	"github.com/AnshRaj112/crypto-dca-backend/internal/logger"
	"github.com/AnshRaj112/crypto-dca-backend/internal/models"
	"github.com/AnshRaj112/crypto-dca-backend/internal/observability"
	"github.com/AnshRaj112/crypto-dca-backend/internal/services"
	"github.com/AnshRaj112/crypto-dca-backend/pkg/utils"
)

const maxBodyBytes = 1 << 20

const msgInvalidBody = "Invalid request body"

// AuthService is implemented by *services.AuthService.
type AuthService interface {
	SignUp(ctx context.Context, in services.SignUpInput) (services.TokenPair, error)
	LogIn(ctx context.Context, email, password string) (services.TokenPair, error)
	LogOut(ctx context.Context, refreshToken string) error
	Refresh(ctx context.Context, refreshToken string) (string, error)
	ForgotPassword(ctx context.Context, email string) error
}

// UserService is implemented by *services.UserService.
type UserService interface {
	GetByID(ctx context.Context, userID string) (*models.User, error)
	UpdateProfile(ctx context.Context, userID string, in services.ProfileUpdate) (*models.User, error)
	GetWatchPairs(ctx context.Context, userID string) ([]string, error)
	SetWatchPairs(ctx context.Context, userID string, pairs []string) ([]string, error)
	AppendTransaction(ctx context.Context, userID string, in services.TransactionInput) (models.Transaction, error)
	GetTransactions(ctx context.Context, userID string) ([]models.Transaction, error)
	GetTransaction(ctx context.Context, userID, transactionID string) (models.Transaction, error)
	ReplaceTransaction(ctx context.Context, userID, transactionID string, in services.TransactionInput) (*models.User, error)
	RemoveTransaction(ctx context.Context, userID, transactionID string) error
}

// StatusResponse is returned by the health endpoint.
type StatusResponse struct {
	Status string `json:"status" example:"ok"`
}

// Status reports that the process is up.
// @Summary Health check
// @Tags status
// @Produce json
// @Success 200 {object} handlers.StatusResponse
// @Router /status [get]
// @Security ApiKeyAuth
func Status(w http.ResponseWriter, r *http.Request) {
	utils.WriteJSON(w, http.StatusOK, StatusResponse{Status: "ok"})
}

func decodeJSON(w http.ResponseWriter, r *http.Request, v interface{}) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	err := json.NewDecoder(r.Body).Decode(v)
	if errors.Is(err, io.EOF) {
		// An empty body decodes as an empty object; validation reports what is missing.
		return nil
	}
	return err
}

// userErrorStatus maps a domain error of the profile and transaction routes to
// its status code. Zero means the error is unexpected.
func userErrorStatus(err error) int {
	switch apperrors.KindOf(err) {
	case apperrors.KindValidation, apperrors.KindConflict:
		return http.StatusBadRequest
	case apperrors.KindNotFound:
		return http.StatusNotFound
	case apperrors.KindAuthentication:
		return http.StatusUnauthorized
	default:
		return 0
	}
}

// writeFailure answers a failed request. Known domain errors get status and
// their own message; anything else is reported and answered with a generic 500.
func writeFailure(w http.ResponseWriter, r *http.Request, reporter observability.Reporter, err error, status int) {
	if status == 0 || apperrors.KindOf(err) == apperrors.KindUnknown {
		logger.Log.Errorw("request failed", "method", r.Method, "path", r.URL.Path, "err", err)
		reporter.CaptureException(r.Context(), err)
		utils.WriteError(w, http.StatusInternalServerError, apperrors.Message(err))
		return
	}
	utils.WriteError(w, status, apperrors.Message(err))
}
