package http

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/markethub/user-card-service/internal/application"
	"github.com/markethub/user-card-service/internal/ports"
)

func pathUUID(r *http.Request, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, name))
	return id, err == nil
}

func pageFromQuery(r *http.Request) ports.PageRequest {
	var page ports.PageRequest
	if raw := r.URL.Query().Get("page"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil && n >= 0 {
			page.Page = n
		}
	}
	if raw := r.URL.Query().Get("size"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil && n > 0 {
			page.Size = n
		}
	}
	return page
}

func (h *Handler) registerUser(w http.ResponseWriter, r *http.Request) {
	var req application.RegistrationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "VALIDATION_ERROR", "invalid json body")
		return
	}
	resp, err := h.service.RegisterUser(r.Context(), req)
	if err != nil {
		status, code, msg := mapDomainError(err)
		logHTTPOperationError(r.Context(), "register_user", status, code, msg, err)
		writeDomainError(w, err, status, code, msg)
		return
	}
	writeSuccess(w, http.StatusCreated, resp)
}

func (h *Handler) createUser(w http.ResponseWriter, r *http.Request) {
	var req application.NewUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "VALIDATION_ERROR", "invalid json body")
		return
	}
	resp, err := h.service.CreateUser(r.Context(), req)
	if err != nil {
		status, code, msg := mapDomainError(err)
		logHTTPOperationError(r.Context(), "create_user", status, code, msg, err)
		writeDomainError(w, err, status, code, msg)
		return
	}
	writeSuccess(w, http.StatusCreated, resp)
}

func (h *Handler) getUserByID(w http.ResponseWriter, r *http.Request) {
	principal, ok := principalFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "UNAUTHORIZED", "invalid or missing credentials")
		return
	}
	id, ok := pathUUID(r, "id")
	if !ok {
		writeError(w, http.StatusNotFound, "NOT_FOUND", "user not found")
		return
	}
	resp, err := h.service.GetUserByID(r.Context(), principal, id)
	if err != nil {
		status, code, msg := mapDomainError(err)
		logHTTPOperationError(r.Context(), "get_user", status, code, msg, err)
		writeDomainError(w, err, status, code, msg)
		return
	}
	writeSuccess(w, http.StatusOK, resp)
}

func (h *Handler) updateUser(w http.ResponseWriter, r *http.Request) {
	principal, ok := principalFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "UNAUTHORIZED", "invalid or missing credentials")
		return
	}
	id, ok := pathUUID(r, "id")
	if !ok {
		writeError(w, http.StatusNotFound, "NOT_FOUND", "user not found")
		return
	}
	var req application.NewUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "VALIDATION_ERROR", "invalid json body")
		return
	}
	resp, err := h.service.UpdateUser(r.Context(), principal, id, req)
	if err != nil {
		status, code, msg := mapDomainError(err)
		logHTTPOperationError(r.Context(), "update_user", status, code, msg, err)
		writeDomainError(w, err, status, code, msg)
		return
	}
	writeSuccess(w, http.StatusOK, resp)
}

func (h *Handler) deleteUser(w http.ResponseWriter, r *http.Request) {
	principal, ok := principalFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "UNAUTHORIZED", "invalid or missing credentials")
		return
	}
	id, ok := pathUUID(r, "id")
	if !ok {
		writeError(w, http.StatusNotFound, "NOT_FOUND", "user not found")
		return
	}
	if err := h.service.DeleteUser(r.Context(), principal, id); err != nil {
		status, code, msg := mapDomainError(err)
		logHTTPOperationError(r.Context(), "delete_user", status, code, msg, err)
		writeDomainError(w, err, status, code, msg)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// queryUsers serves the users collection: lookup by email, search by term,
// or a plain listing, selected by query params.
func (h *Handler) queryUsers(w http.ResponseWriter, r *http.Request) {
	principal, ok := principalFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "UNAUTHORIZED", "invalid or missing credentials")
		return
	}

	if email := r.URL.Query().Get("email"); email != "" {
		resp, found, err := h.service.GetUserByEmail(r.Context(), principal, email)
		if err != nil {
			status, code, msg := mapDomainError(err)
			logHTTPOperationError(r.Context(), "get_user_by_email", status, code, msg, err)
			writeDomainError(w, err, status, code, msg)
			return
		}
		if !found {
			writeError(w, http.StatusNotFound, "NOT_FOUND", "user with email "+email+" not found")
			return
		}
		writeSuccess(w, http.StatusOK, resp)
		return
	}

	page := pageFromQuery(r)
	if term := r.URL.Query().Get("search"); term != "" {
		resp, err := h.service.SearchUsers(r.Context(), principal, term, page)
		if err != nil {
			status, code, msg := mapDomainError(err)
			logHTTPOperationError(r.Context(), "search_users", status, code, msg, err)
			writeDomainError(w, err, status, code, msg)
			return
		}
		writeSuccess(w, http.StatusOK, resp)
		return
	}

	resp, err := h.service.ListUsers(r.Context(), principal, page)
	if err != nil {
		status, code, msg := mapDomainError(err)
		logHTTPOperationError(r.Context(), "list_users", status, code, msg, err)
		writeDomainError(w, err, status, code, msg)
		return
	}
	writeSuccess(w, http.StatusOK, resp)
}

func (h *Handler) getUsersWithBirthdayToday(w http.ResponseWriter, r *http.Request) {
	principal, ok := principalFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "UNAUTHORIZED", "invalid or missing credentials")
		return
	}
	resp, err := h.service.GetUsersWithBirthdayToday(r.Context(), principal)
	if err != nil {
		status, code, msg := mapDomainError(err)
		logHTTPOperationError(r.Context(), "get_birthday_users", status, code, msg, err)
		writeDomainError(w, err, status, code, msg)
		return
	}
	writeSuccess(w, http.StatusOK, resp)
}
