package handler

import (
	"errors"
	"net/http"

	"grimoire/data/dto"
	"grimoire/service"
)

func (h *Handler) createRatingHandler(w http.ResponseWriter, r *http.Request) {
	bookID, err := h.readIDParam(r, "bookId")
	if err != nil {
		h.notFoundResponse(w, r)
		return
	}
	var requestBody dto.CreateRatingRequestBody
	err = h.decodeJSON(w, r, &requestBody)
	if err != nil {
		h.badRequestResponse(w, r, err)
		return
	}
	callerID := h.contextGetCaller(r)
	book, err := h.service.AddRating(bookID, callerID, requestBody.Rating)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrRecordNotFound):
			h.notFoundResponse(w, r)
		case errors.Is(err, service.ErrAlreadyRated):
			h.alreadyRatedResponse(w, r)
		case errors.Is(err, service.ErrFailedValidation):
			h.failedValidationResponse(w, r, err)
		case errors.Is(err, service.ErrEditConflict):
			h.editConflictResponse(w, r)
		default:
			h.serverErrorResponse(w, r, err)
		}
		return
	}
	err = h.encodeJSON(w, http.StatusCreated, envelope{"message": "rating added", "book": book}, nil)
	if err != nil {
		h.serverErrorResponse(w, r, err)
	}
}
