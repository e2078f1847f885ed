package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/AnshRaj112/crypto-dca-backend/internal/apperrors"
	"github.com/AnshRaj112/crypto-dca-backend/internal/middleware"
	"github.com/AnshRaj112/crypto-dca-backend/internal/models"
	"github.com/AnshRaj112/crypto-dca-backend/internal/observability"
	"github.com/AnshRaj112/crypto-dca-backend/internal/services"
	"github.com/AnshRaj112/crypto-dca-backend/pkg/utils"
)

// UpdateProfileRequest lists the fields PATCH accepts; omitted fields keep
// their value.
type UpdateProfileRequest struct {
	Firstname *string                 `json:"firstname,omitempty"`
	Lastname  *string                 `json:"lastname,omitempty"`
	Email     *string                 `json:"email,omitempty"`
	Settings  *map[string]interface{} `json:"settings,omitempty"`
}

// NewGetProfileHandler returns the user document.
// @Summary Get user profile
// @Tags profile
// @Produce json
// @Param userId path string true "User id"
// @Success 200 {object} models.User
// @Failure 401 {object} utils.ErrorResponse
// @Failure 404 {object} utils.ErrorResponse "User not found"
// @Router /users/{userId}/profile [get]
// @Security ApiKeyAuth
// @Security BearerAuth
func NewGetProfileHandler(svc UserService, reporter observability.Reporter) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user, err := svc.GetByID(r.Context(), chi.URLParam(r, "userId"))
		if err != nil {
			writeFailure(w, r, reporter, err, userErrorStatus(err))
			return
		}
		utils.WriteJSON(w, http.StatusOK, user)
	}
}

// NewUpdateProfileHandler changes the supplied profile fields.
// @Summary Update user profile
// @Tags profile
// @Accept json
// @Produce json
// @Param userId path string true "User id"
// @Param request body handlers.UpdateProfileRequest true "Fields to change"
// @Success 200 {object} models.User
// @Failure 400 {object} utils.ErrorResponse
// @Failure 401 {object} utils.ErrorResponse
// @Failure 404 {object} utils.ErrorResponse "User not found"
// @Router /users/{userId}/profile [patch]
// @Security ApiKeyAuth
// @Security BearerAuth
func NewUpdateProfileHandler(svc UserService, reporter observability.Reporter) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req UpdateProfileRequest
		if err := decodeJSON(w, r, &req); err != nil {
			utils.WriteError(w, http.StatusBadRequest, msgInvalidBody)
			return
		}

		user, err := svc.UpdateProfile(r.Context(), chi.URLParam(r, "userId"), services.ProfileUpdate(req))
		if err != nil {
			writeFailure(w, r, reporter, err, userErrorStatus(err))
			return
		}
		utils.WriteJSON(w, http.StatusOK, user)
	}
}

// NewLegacyProfileHandler serves GET /api/profile for the bearer's own user.
// Deprecated: clients should use /api/users/{userId}/profile.
// @Summary Get own profile (deprecated)
// @Tags profile
// @Produce json
// @Success 200 {object} models.Profile
// @Failure 401 {object} utils.ErrorResponse
// @Router /profile [get]
// @Security ApiKeyAuth
// @Security BearerAuth
// @Deprecated
func NewLegacyProfileHandler(svc UserService, reporter observability.Reporter) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := middleware.UserIDFromContext(r.Context())
		if !ok {
			utils.WriteError(w, http.StatusUnauthorized, apperrors.ErrUnauthorized.Message)
			return
		}

		user, err := svc.GetByID(r.Context(), userID)
		if err != nil {
			status := 0
			if apperrors.KindOf(err) == apperrors.KindNotFound {
				err, status = apperrors.ErrUnauthorized, http.StatusUnauthorized
			}
			writeFailure(w, r, reporter, err, status)
			return
		}

		profile := user.ToProfile()
		profile.ID = ""
		utils.WriteJSON(w, http.StatusOK, profile)
	}
}

// LegacyPortfolio serves GET /api/user, which has always returned an empty list.
// Deprecated: kept for old clients.
// @Summary Get portfolio (deprecated)
// @Tags profile
// @Produce json
// @Success 200 {array} string
// @Failure 401 {object} utils.ErrorResponse
// @Router /user [get]
// @Security ApiKeyAuth
// @Security BearerAuth
// @Deprecated
func LegacyPortfolio(w http.ResponseWriter, r *http.Request) {
	utils.WriteJSON(w, http.StatusOK, []models.Transaction{})
}
