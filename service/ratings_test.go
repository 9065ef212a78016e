package service

import (
	"testing"

	"grimoire/data"
	"grimoire/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAddRating(t *testing.T) {
	seedBook := data.Book{
		OwnerID: 42,
		Title:   "Dune",
		Author:  "Frank Herbert",
		Year:    1965,
		Ratings: []data.Rating{{UserID: 7, Grade: 4}},
	}

	t.Run("records a grade and recomputes the average", func(t *testing.T) {
		repo := newFakeRepo()
		bookID := repo.seed(seedBook)
		s := newTestService(t, repo, &fakeProcessor{})

		book, err := s.AddRating(bookID, 9, 5)
		require.NoError(t, err)
		require.Len(t, book.Ratings, 2)
		assert.Equal(t, data.Rating{UserID: 9, Grade: 5}, book.Ratings[1])
		assert.Equal(t, 4.5, book.AverageRating)

		stored, err := repo.GetBook(bookID)
		require.NoError(t, err)
		assert.Equal(t, 4.5, stored.AverageRating)
	})

	t.Run("rejects a second rating from the same user", func(t *testing.T) {
		repo := newFakeRepo()
		bookID := repo.seed(seedBook)
		s := newTestService(t, repo, &fakeProcessor{})

		_, err := s.AddRating(bookID, 7, 2)
		assert.ErrorIs(t, err, ErrAlreadyRated)

		stored, err := repo.GetBook(bookID)
		require.NoError(t, err)
		assert.Equal(t, seedBook.Ratings, stored.Ratings)
	})

	t.Run("rejects an out-of-range grade", func(t *testing.T) {
		repo := newFakeRepo()
		bookID := repo.seed(seedBook)
		s := newTestService(t, repo, &fakeProcessor{})

		_, err := s.AddRating(bookID, 9, 6)
		assert.ErrorIs(t, err, ErrFailedValidation)
		_, err = s.AddRating(bookID, 9, -1)
		assert.ErrorIs(t, err, ErrFailedValidation)
		_, err = s.AddRating(bookID, 9, 300)
		assert.ErrorIs(t, err, ErrFailedValidation)
	})

	t.Run("reports an unknown book", func(t *testing.T) {
		repo := newFakeRepo()
		s := newTestService(t, repo, &fakeProcessor{})

		_, err := s.AddRating(1, 9, 3)
		assert.ErrorIs(t, err, ErrRecordNotFound)
	})

	t.Run("retries after losing a version race", func(t *testing.T) {
		repo := newFakeRepo()
		bookID := repo.seed(seedBook)
		repo.replaceErrs = []error{repository.ErrEditConflict}
		s := newTestService(t, repo, &fakeProcessor{})

		book, err := s.AddRating(bookID, 9, 5)
		require.NoError(t, err)
		assert.Len(t, book.Ratings, 2)
	})

	t.Run("gives up after repeated version races", func(t *testing.T) {
		repo := newFakeRepo()
		bookID := repo.seed(seedBook)
		repo.replaceErrs = []error{
			repository.ErrEditConflict,
			repository.ErrEditConflict,
			repository.ErrEditConflict,
		}
		s := newTestService(t, repo, &fakeProcessor{})

		_, err := s.AddRating(bookID, 9, 5)
		assert.ErrorIs(t, err, ErrEditConflict)
	})
}
