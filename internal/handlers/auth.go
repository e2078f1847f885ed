package handlers

import (
	"net/http"

	"github.com/AnshRaj112/crypto-dca-backend/internal/apperrors"
	"github.com/AnshRaj112/crypto-dca-backend/internal/logger"
	"github.com/AnshRaj112/crypto-dca-backend/internal/observability"
	"github.com/AnshRaj112/crypto-dca-backend/internal/services"
	"github.com/AnshRaj112/crypto-dca-backend/pkg/utils"
)

// SignUpRequest is the body of the sign-up endpoint.
type SignUpRequest struct {
	Firstname string `json:"firstname" example:"Ada"`
	Lastname  string `json:"lastname" example:"Lovelace"`
	Email     string `json:"email" example:"ada@example.com"`
	Password  string `json:"password" example:"correct-horse"`
}

type LogInRequest struct {
	Email    string `json:"email" example:"ada@example.com"`
	Password string `json:"password" example:"correct-horse"`
}

// RefreshTokenRequest is the body of the refresh and logout endpoints.
type RefreshTokenRequest struct {
	RefreshToken string `json:"refreshToken"`
}

type ForgotPasswordRequest struct {
	Email string `json:"email" example:"ada@example.com"`
}

type TokenPairResponse struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}

type AccessTokenResponse struct {
	AccessToken string `json:"accessToken"`
}

// authFailureStatus maps sign-up, login and refresh errors: every expected
// failure is a 401.
func authFailureStatus(err error) int {
	if apperrors.KindOf(err) == apperrors.KindUnknown {
		return 0
	}
	return http.StatusUnauthorized
}

// NewSignUpHandler creates an account and returns a token pair.
// @Summary Sign up
// @Description Creates a user and returns an access/refresh token pair.
// @Tags auth
// @Accept json
// @Produce json
// @Param request body handlers.SignUpRequest true "New account"
// @Success 200 {object} handlers.TokenPairResponse
// @Failure 401 {object} utils.ErrorResponse "Validation failure or email already exists"
// @Failure 500 {object} utils.ErrorResponse
// @Router /users [post]
// @Security ApiKeyAuth
func NewSignUpHandler(svc AuthService, reporter observability.Reporter) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req SignUpRequest
		if err := decodeJSON(w, r, &req); err != nil {
			utils.WriteError(w, http.StatusBadRequest, msgInvalidBody)
			return
		}

		pair, err := svc.SignUp(r.Context(), services.SignUpInput{
			Firstname: req.Firstname,
			Lastname:  req.Lastname,
			Email:     req.Email,
			Password:  req.Password,
		})
		if err != nil {
			writeFailure(w, r, reporter, err, authFailureStatus(err))
			return
		}

		utils.WriteJSON(w, http.StatusOK, TokenPairResponse(pair))
	}
}

// NewLogInHandler exchanges credentials for a token pair.
// @Summary Log in
// @Tags auth
// @Accept json
// @Produce json
// @Param request body handlers.LogInRequest true "Credentials"
// @Success 200 {object} handlers.TokenPairResponse
// @Failure 401 {object} utils.ErrorResponse "Invalid email or password"
// @Failure 500 {object} utils.ErrorResponse
// @Router /auth/login [post]
// @Security ApiKeyAuth
func NewLogInHandler(svc AuthService, reporter observability.Reporter) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req LogInRequest
		if err := decodeJSON(w, r, &req); err != nil {
			utils.WriteError(w, http.StatusBadRequest, msgInvalidBody)
			return
		}

		pair, err := svc.LogIn(r.Context(), req.Email, req.Password)
		if err != nil {
			writeFailure(w, r, reporter, err, authFailureStatus(err))
			return
		}

		utils.WriteJSON(w, http.StatusOK, TokenPairResponse(pair))
	}
}

// NewRefreshHandler issues a new access token for a refresh token.
// @Summary Refresh access token
// @Tags auth
// @Accept json
// @Produce json
// @Param request body handlers.RefreshTokenRequest true "Refresh token"
// @Success 200 {object} handlers.AccessTokenResponse
// @Failure 401 {object} utils.ErrorResponse "Invalid refresh token / Refresh token expired"
// @Failure 500 {object} utils.ErrorResponse
// @Router /auth/refresh [post]
// @Security ApiKeyAuth
func NewRefreshHandler(svc AuthService, reporter observability.Reporter) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req RefreshTokenRequest
		if err := decodeJSON(w, r, &req); err != nil {
			utils.WriteError(w, http.StatusBadRequest, msgInvalidBody)
			return
		}

		access, err := svc.Refresh(r.Context(), req.RefreshToken)
		if err != nil {
			writeFailure(w, r, reporter, err, authFailureStatus(err))
			return
		}

		utils.WriteJSON(w, http.StatusOK, AccessTokenResponse{AccessToken: access})
	}
}

// NewLogOutHandler revokes a refresh token.
// @Summary Log out
// @Tags auth
// @Accept json
// @Produce json
// @Param request body handlers.RefreshTokenRequest true "Refresh token"
// @Success 204
// @Failure 400 {object} utils.ErrorResponse "Invalid refresh token"
// @Failure 500 {object} utils.ErrorResponse
// @Router /auth/logout [post]
// @Security ApiKeyAuth
func NewLogOutHandler(svc AuthService, reporter observability.Reporter) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req RefreshTokenRequest
		if err := decodeJSON(w, r, &req); err != nil {
			utils.WriteError(w, http.StatusBadRequest, msgInvalidBody)
			return
		}

		if err := svc.LogOut(r.Context(), req.RefreshToken); err != nil {
			status := http.StatusBadRequest
			if apperrors.KindOf(err) == apperrors.KindUnknown {
				status = 0
			}
			writeFailure(w, r, reporter, err, status)
			return
		}

		w.WriteHeader(http.StatusNoContent)
	}
}

// NewForgotPasswordHandler sends a reset link. It answers 204 whether or not
// the address is known.
// @Summary Request a password reset
// @Tags auth
// @Accept json
// @Param request body handlers.ForgotPasswordRequest true "Account email"
// @Success 204
// @Router /auth/forgot [post]
// @Security ApiKeyAuth
func NewForgotPasswordHandler(svc AuthService, reporter observability.Reporter) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req ForgotPasswordRequest
		if err := decodeJSON(w, r, &req); err == nil {
			if err := svc.ForgotPassword(r.Context(), req.Email); err != nil {
				logger.Log.Errorw("password reset failed", "err", err)
				reporter.CaptureException(r.Context(), err)
			}
		}
		w.WriteHeader(http.StatusNoContent)
	}
}
