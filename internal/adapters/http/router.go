package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/markethub/user-card-service/internal/application"
)

type Handler struct {
	service  *application.Service
	verifier *TokenVerifier
}

func NewHandler(service *application.Service, verifier *TokenVerifier) *Handler {
	return &Handler{service: service, verifier: verifier}
}

func NewRouter(handler *Handler) http.Handler {
	r := chi.NewRouter()
	r.Use(requestIDMiddleware)
	r.Use(recoverMiddleware)
	r.Use(loggingMiddleware)

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) { writeMessage(w, http.StatusOK, "ok") })
	r.Get("/readyz", func(w http.ResponseWriter, _ *http.Request) { writeMessage(w, http.StatusOK, "ready") })

	r.Route("/v1", func(r chi.Router) {
		r.Post("/registration/users", handler.registerUser)

		r.Route("/users", func(r chi.Router) {
			r.Post("/", handler.createUser)

			r.Group(func(r chi.Router) {
				r.Use(handler.authMiddleware)
				r.Get("/", handler.queryUsers)
				r.Get("/birthdays", handler.getUsersWithBirthdayToday)
				r.Get("/{id}", handler.getUserByID)
				r.Put("/{id}", handler.updateUser)
				r.Delete("/{id}", handler.deleteUser)
				r.Post("/{userId}/cards", handler.createCard)
				r.Get("/{userId}/cards", handler.getCardsByUserID)
			})
		})

		r.Route("/cards", func(r chi.Router) {
			r.Use(handler.authMiddleware)
			r.Get("/", handler.queryCards)
			r.Get("/{id}", handler.getCardByID)
			r.Delete("/{id}", handler.deleteCard)
		})
	})
	return r
}
