package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/AnshRaj112/crypto-dca-backend/internal/apperrors"
	"github.com/AnshRaj112/crypto-dca-backend/internal/observability"
	"github.com/AnshRaj112/crypto-dca-backend/pkg/utils"
)

type WatchPairsRequest struct {
	WatchPairs []string `json:"watchPairs" example:"BTC-USD,ETH-USD"`
}

type WatchPairsResponse struct {
	WatchPairs []string `json:"watchPairs"`
}

// NewGetWatchPairsHandler returns the user's watch pairs in stored order.
// @Summary Get watch pairs
// @Tags watch pairs
// @Produce json
// @Param userId path string true "User id"
// @Success 200 {object} handlers.WatchPairsResponse
// @Failure 404 {object} utils.ErrorResponse "User not found"
// @Router /users/{userId}/watch_pairs [get]
// @Security ApiKeyAuth
// @Security BearerAuth
func NewGetWatchPairsHandler(svc UserService, reporter observability.Reporter) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		pairs, err := svc.GetWatchPairs(r.Context(), chi.URLParam(r, "userId"))
		if err != nil {
			writeFailure(w, r, reporter, err, userErrorStatus(err))
			return
		}
		utils.WriteJSON(w, http.StatusOK, WatchPairsResponse{WatchPairs: pairs})
	}
}

// NewSetWatchPairsHandler replaces the whole watch-pair list.
// @Summary Replace watch pairs
// @Tags watch pairs
// @Accept json
// @Produce json
// @Param userId path string true "User id"
// @Param request body handlers.WatchPairsRequest true "New list"
// @Success 200 {object} handlers.WatchPairsResponse
// @Failure 400 {object} utils.ErrorResponse "InvalidWatchPairs"
// @Failure 404 {object} utils.ErrorResponse "User not found"
// @Router /users/{userId}/watch_pairs [put]
// @Security ApiKeyAuth
// @Security BearerAuth
func NewSetWatchPairsHandler(svc UserService, reporter observability.Reporter) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			WatchPairs json.RawMessage `json:"watchPairs"`
		}
		if err := decodeJSON(w, r, &req); err != nil {
			utils.WriteError(w, http.StatusBadRequest, apperrors.ErrInvalidWatchPairs.Message)
			return
		}

		pairs, ok := parseWatchPairs(req.WatchPairs)
		if !ok {
			utils.WriteError(w, http.StatusBadRequest, apperrors.ErrInvalidWatchPairs.Message)
			return
		}

		pairs, err := svc.SetWatchPairs(r.Context(), chi.URLParam(r, "userId"), pairs)
		if err != nil {
			writeFailure(w, r, reporter, err, userErrorStatus(err))
			return
		}
		utils.WriteJSON(w, http.StatusOK, WatchPairsResponse{WatchPairs: pairs})
	}
}

// parseWatchPairs accepts only a JSON array whose elements are all strings.
// null, for the list or for an element, is rejected.
func parseWatchPairs(raw json.RawMessage) ([]string, bool) {
	if len(raw) == 0 || raw[0] != '[' {
		return nil, false
	}
	var elems []json.RawMessage
	if err := json.Unmarshal(raw, &elems); err != nil {
		return nil, false
	}

	pairs := make([]string, 0, len(elems))
	for _, elem := range elems {
		if len(elem) == 0 || elem[0] != '"' {
			return nil, false
		}
		var pair string
		if err := json.Unmarshal(elem, &pair); err != nil {
			return nil, false
		}
		pairs = append(pairs, pair)
	}
	return pairs, true
}
