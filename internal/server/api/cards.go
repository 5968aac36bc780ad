package api

import (
	"errors"
	"net/http"
	"net/url"

	"github.com/go-chi/chi/v5"

	"github.com/rodr499/kardo/internal/server/services"
	"github.com/rodr499/kardo/pkg/models"
)

type CardHandler struct {
	cardService *services.CardService
}

func NewCardHandler(cardService *services.CardService) *CardHandler {
	return &CardHandler{cardService: cardService}
}

// ResolveCard handles GET /c/{code}: the scan/type-in entry point printed
// on physical cards. Every outcome is a redirect except an infrastructure
// failure, which surfaces as a 500 instead of masquerading as "not found".
func (h *CardHandler) ResolveCard(w http.ResponseWriter, r *http.Request) {
	rawCode := chi.URLParam(r, "code")

	resolution, err := h.cardService.ResolveCode(r.Context(), rawCode)
	if err != nil {
		respondErrorJSON(w, http.StatusInternalServerError, err.Error())
		return
	}

	switch resolution.Outcome {
	case services.OutcomeDisabled:
		http.Redirect(w, r, "/card-disabled", http.StatusFound)
	case services.OutcomeNeedsClaim:
		http.Redirect(w, r, "/claim?code="+url.QueryEscape(resolution.Code), http.StatusFound)
	case services.OutcomeResolved:
		http.Redirect(w, r, "/u/"+url.PathEscape(resolution.Handle), http.StatusFound)
	default:
		http.Redirect(w, r, "/unknown-card", http.StatusFound)
	}
}

// ClaimCard handles POST /api/cards/claim for the authenticated caller.
func (h *CardHandler) ClaimCard(w http.ResponseWriter, r *http.Request) {
	claims := GetUserClaims(r)
	if claims == nil {
		respondErrorJSON(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	userID, err := claims.UserID()
	if err != nil {
		respondErrorJSON(w, http.StatusUnauthorized, "invalid token subject")
		return
	}

	var req models.ClaimCardRequest
	if err := decodeJSON(r, &req); err != nil {
		respondErrorJSON(w, http.StatusBadRequest, "invalid request body")
		return
	}

	profile, code, err := h.cardService.ClaimCard(r.Context(), userID, claims.Email, req.Code)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrInvalidCode):
			respondErrorJSON(w, http.StatusBadRequest, "invalid card code")
		case errors.Is(err, services.ErrCardNotFound):
			respondErrorJSON(w, http.StatusNotFound, "card not found, check the code and try again")
		case errors.Is(err, services.ErrCardDisabled):
			respondErrorJSON(w, http.StatusForbidden, "this card has been disabled")
		case errors.Is(err, services.ErrCardClaimed):
			respondErrorJSON(w, http.StatusConflict, "card is already claimed")
		default:
			respondErrorJSON(w, http.StatusInternalServerError, err.Error())
		}
		return
	}

	respondJSON(w, http.StatusOK, models.ClaimCardResponse{
		Code:   code,
		Handle: profile.Handle,
	})
}

// ListMyCards handles GET /api/cards: the caller's claimed cards.
func (h *CardHandler) ListMyCards(w http.ResponseWriter, r *http.Request) {
	claims := GetUserClaims(r)
	if claims == nil {
		respondErrorJSON(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	userID, err := claims.UserID()
	if err != nil {
		respondErrorJSON(w, http.StatusUnauthorized, "invalid token subject")
		return
	}

	cards, err := h.cardService.ListCardsByProfile(r.Context(), userID)
	if err != nil {
		respondErrorJSON(w, http.StatusInternalServerError, "failed to list cards")
		return
	}

	respondJSON(w, http.StatusOK, models.ListCardsResponse{Cards: cards})
}
