package http

import (
	"encoding/json"
	"net/http"

	"github.com/markethub/user-card-service/internal/application"
)

func (h *Handler) createCard(w http.ResponseWriter, r *http.Request) {
	principal, ok := principalFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "UNAUTHORIZED", "invalid or missing credentials")
		return
	}
	userID, ok := pathUUID(r, "userId")
	if !ok {
		writeError(w, http.StatusNotFound, "NOT_FOUND", "user not found")
		return
	}
	var req application.NewCardRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "VALIDATION_ERROR", "invalid json body")
		return
	}
	resp, err := h.service.CreateCardForUser(r.Context(), principal, userID, req)
	if err != nil {
		status, code, msg := mapDomainError(err)
		logHTTPOperationError(r.Context(), "create_card", status, code, msg, err)
		writeDomainError(w, err, status, code, msg)
		return
	}
	writeSuccess(w, http.StatusCreated, resp)
}

func (h *Handler) getCardsByUserID(w http.ResponseWriter, r *http.Request) {
	principal, ok := principalFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "UNAUTHORIZED", "invalid or missing credentials")
		return
	}
	userID, ok := pathUUID(r, "userId")
	if !ok {
		writeError(w, http.StatusNotFound, "NOT_FOUND", "user not found")
		return
	}
	resp, err := h.service.GetCardsByUserID(r.Context(), principal, userID)
	if err != nil {
		status, code, msg := mapDomainError(err)
		logHTTPOperationError(r.Context(), "get_user_cards", status, code, msg, err)
		writeDomainError(w, err, status, code, msg)
		return
	}
	writeSuccess(w, http.StatusOK, resp)
}

func (h *Handler) getCardByID(w http.ResponseWriter, r *http.Request) {
	principal, ok := principalFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "UNAUTHORIZED", "invalid or missing credentials")
		return
	}
	id, ok := pathUUID(r, "id")
	if !ok {
		writeError(w, http.StatusNotFound, "NOT_FOUND", "card not found")
		return
	}
	resp, err := h.service.GetCardByID(r.Context(), principal, id)
	if err != nil {
		status, code, msg := mapDomainError(err)
		logHTTPOperationError(r.Context(), "get_card", status, code, msg, err)
		writeDomainError(w, err, status, code, msg)
		return
	}
	writeSuccess(w, http.StatusOK, resp)
}

func (h *Handler) deleteCard(w http.ResponseWriter, r *http.Request) {
	principal, ok := principalFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "UNAUTHORIZED", "invalid or missing credentials")
		return
	}
	id, ok := pathUUID(r, "id")
	if !ok {
		writeError(w, http.StatusNotFound, "NOT_FOUND", "card not found")
		return
	}
	if err := h.service.DeleteCard(r.Context(), principal, id); err != nil {
		status, code, msg := mapDomainError(err)
		logHTTPOperationError(r.Context(), "delete_card", status, code, msg, err)
		writeDomainError(w, err, status, code, msg)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// queryCards serves the cards collection: lookup by number or the expired
// listing, selected by query params.
func (h *Handler) queryCards(w http.ResponseWriter, r *http.Request) {
	principal, ok := principalFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "UNAUTHORIZED", "invalid or missing credentials")
		return
	}

	if number := r.URL.Query().Get("number"); number != "" {
		resp, found, err := h.service.GetCardByNumber(r.Context(), principal, number)
		if err != nil {
			status, code, msg := mapDomainError(err)
			logHTTPOperationError(r.Context(), "get_card_by_number", status, code, msg, err)
			writeDomainError(w, err, status, code, msg)
			return
		}
		if !found {
			writeError(w, http.StatusNotFound, "NOT_FOUND", "card not found")
			return
		}
		writeSuccess(w, http.StatusOK, resp)
		return
	}

	if r.URL.Query().Get("expiration-date") == "today" {
		resp, err := h.service.GetExpiredCards(r.Context(), principal)
		if err != nil {
			status, code, msg := mapDomainError(err)
			logHTTPOperationError(r.Context(), "get_expired_cards", status, code, msg, err)
			writeDomainError(w, err, status, code, msg)
			return
		}
		writeSuccess(w, http.StatusOK, resp)
		return
	}

	writeError(w, http.StatusBadRequest, "VALIDATION_ERROR", "number or expiration-date query param is required")
}
