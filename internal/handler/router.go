package handler

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/therealadik/cashcards-api/internal/middleware"
)

func NewRouter(cardHandler *CardHandler, authHandler *AuthHandler, authMW *middleware.AuthMiddleware) *mux.Router {
	router := mux.NewRouter()

	router.HandleFunc("/register", authHandler.Register).Methods(http.MethodPost)
	router.HandleFunc("/login", authHandler.Login).Methods(http.MethodPost)

	cards := router.PathPrefix("/cashcards").Subrouter()
	cards.Use(authMW.Middleware)
	cards.HandleFunc("", cardHandler.CreateCard).Methods(http.MethodPost)
	cards.HandleFunc("", cardHandler.ListCards).Methods(http.MethodGet)
	cards.HandleFunc("/{id}", cardHandler.GetCard).Methods(http.MethodGet)
	cards.HandleFunc("/{id}", cardHandler.UpdateCard).Methods(http.MethodPut)

	return router
}
