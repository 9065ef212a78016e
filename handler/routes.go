package handler

import (
	"net/http"

	"github.com/julienschmidt/httprouter"
)

func (h *Handler) Routes() http.Handler {
	router := httprouter.New()

	router.NotFound = http.HandlerFunc(h.notFoundResponse)
	router.MethodNotAllowed = http.HandlerFunc(h.methodNotAllowed)

	router.HandlerFunc(http.MethodGet, "/v1/books", h.requireAuthenticatedUser(h.listBooksHandler))
	router.HandlerFunc(http.MethodPost, "/v1/books", h.requireAuthenticatedUser(h.createBookHandler))
	router.HandlerFunc(http.MethodGet, "/v1/books/:bookId", h.requireAuthenticatedUser(h.showBookHandler))
	router.HandlerFunc(http.MethodPut, "/v1/books/:bookId", h.requireBookOwnerPermission(h.updateBookHandler))
	router.HandlerFunc(http.MethodDelete, "/v1/books/:bookId", h.requireBookOwnerPermission(h.deleteBookHandler))

	router.HandlerFunc(http.MethodPost, "/v1/books/:bookId/ratings", h.requireAuthenticatedUser(h.createRatingHandler))
	router.HandlerFunc(http.MethodGet, "/v1/rankings/books", h.requireAuthenticatedUser(h.topRatedBooksHandler))

	router.HandlerFunc(http.MethodGet, "/v1/healthcheck", h.healthcheckHandler)

	return h.recoverPanic(h.metrics(h.enableCORS(h.rateLimit(h.authenticate(router)))))
}
