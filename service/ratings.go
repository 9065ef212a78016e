package service

import (
	"errors"

	"grimoire/data"
	"grimoire/internal/validator"
	"grimoire/repository"
)

type ratings interface {
	AddRating(bookID int64, userID int64, grade int32) (*data.Book, error)
}

// A lost optimistic-locking race is retried this many times before giving up.
const maxRatingAttempts = 3

// AddRating service records a user's grade for a book and recomputes the
// book's average rating. A user may rate a given book at most once. The
// read-modify-write is guarded by the record version, so two concurrent
// ratings against the same book cannot overwrite each other; the loser of the
// race re-reads the record and tries again.
func (s *service) AddRating(bookID int64, userID int64, grade int32) (*data.Book, error) {
	v := validator.New()
	if data.ValidateGrade(v, grade); !v.Valid() {
		return nil, s.failedValidation(v.Errors)
	}
	for attempt := 0; attempt < maxRatingAttempts; attempt++ {
		book, err := s.repo.GetBook(bookID)
		if err != nil {
			switch {
			case errors.Is(err, repository.ErrRecordNotFound):
				return nil, ErrRecordNotFound
			default:
				return nil, err
			}
		}
		if book.HasRatingFrom(userID) {
			return nil, ErrAlreadyRated
		}
		book.Ratings = append(book.Ratings, data.Rating{UserID: userID, Grade: int8(grade)})
		book.AverageRating = data.ComputeAverageRating(book.Ratings)
		err = s.repo.ReplaceBook(book)
		if err == nil {
			return book, nil
		}
		if !errors.Is(err, repository.ErrEditConflict) {
			return nil, err
		}
	}
	return nil, ErrEditConflict
}
