package service

import (
	"encoding/json"
	"errors"
	"net/http"
	"os"
	"strings"

	"grimoire/data"
	"grimoire/data/dto"
	"grimoire/internal/validator"
	"grimoire/repository"
)

type books interface {
	CreateBook(ownerID int64, r *http.Request) (*data.Book, error)
	GetBook(bookID int64) (*data.Book, error)
	ListBooks() ([]*data.Book, error)
	TopRatedBooks(limit int) ([]*data.Book, error)
	UpdateBook(bookID int64, callerID int64, r *http.Request) (*data.Book, error)
	DeleteBook(bookID int64, callerID int64) error
}

// CreateBook service creates a new book from a multipart request carrying the
// metadata document and a cover image. The image is transformed before the
// record is inserted; if the insert fails the transformed file is removed
// again so no orphan is left behind.
func (s *service) CreateBook(ownerID int64, r *http.Request) (*data.Book, error) {
	err := s.parseMultipartForm(r)
	if err != nil {
		return nil, err
	}
	requestBody, err := s.decodeBookMetadata(r)
	if err != nil {
		return nil, err
	}
	book := &data.Book{
		OwnerID:       ownerID,
		Title:         requestBody.Title,
		Author:        requestBody.Author,
		Year:          requestBody.Year,
		Genre:         requestBody.Genre,
		Ratings:       []data.Rating{},
		AverageRating: 0,
	}
	v := validator.New()
	if data.ValidateBook(v, book); !v.Valid() {
		return nil, s.failedValidation(v.Errors)
	}
	sourcePath, originalName, err := s.stageUpload(r)
	if err != nil {
		return nil, err
	}
	outputPath, err := s.processor.Transform(r.Context(), sourcePath, originalName)
	if err != nil {
		s.logger.PrintError(err, map[string]string{"source": sourcePath})
		os.Remove(sourcePath)
		return nil, ErrProcessingFailed
	}
	book.ImageURL = s.buildImageURL(r, outputPath)
	err = s.repo.CreateBook(book)
	if err != nil {
		os.Remove(outputPath)
		return nil, err
	}
	return book, nil
}

// GetBook service retrieves the details of a book.
func (s *service) GetBook(bookID int64) (*data.Book, error) {
	book, err := s.repo.GetBook(bookID)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrRecordNotFound):
			return nil, ErrRecordNotFound
		default:
			return nil, err
		}
	}
	return book, nil
}

// ListBooks service retrieves all books. No ordering is guaranteed.
func (s *service) ListBooks() ([]*data.Book, error) {
	return s.repo.GetAllBooks()
}

// TopRatedBooks service retrieves the highest-rated books, best first.
func (s *service) TopRatedBooks(limit int) ([]*data.Book, error) {
	if limit < 1 {
		limit = defaultTopRatedLimit
	}
	return s.repo.GetTopRatedBooks(limit)
}

const defaultTopRatedLimit = 3

// UpdateBook service replaces the metadata of a book, and optionally its
// cover image, on behalf of its owner. Identity and rating fields are always
// carried over from the stored record so a client can never set them. The
// record is committed before the previous image file is removed; if the
// commit fails, the freshly transformed file is removed instead.
func (s *service) UpdateBook(bookID int64, callerID int64, r *http.Request) (*data.Book, error) {
	book, err := s.repo.GetBook(bookID)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrRecordNotFound):
			return nil, ErrRecordNotFound
		default:
			return nil, err
		}
	}
	if book.OwnerID != callerID {
		return nil, ErrNotPermitted
	}

	var requestBody dto.BookRequestBody
	var sourcePath, originalName string
	if strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data") {
		err = s.parseMultipartForm(r)
		if err != nil {
			return nil, err
		}
		requestBody, err = s.decodeBookMetadata(r)
		if err != nil {
			return nil, err
		}
		sourcePath, originalName, err = s.stageUpload(r)
		if err != nil && !errors.Is(err, ErrMissingFile) {
			return nil, err
		}
	} else {
		err = json.NewDecoder(r.Body).Decode(&requestBody)
		if err != nil {
			var maxBytesError *http.MaxBytesError
			switch {
			case errors.As(err, &maxBytesError):
				return nil, ErrContentTooLarge
			default:
				return nil, ErrBadRequest
			}
		}
	}

	updated := *book
	updated.Title = requestBody.Title
	updated.Author = requestBody.Author
	updated.Year = requestBody.Year
	updated.Genre = requestBody.Genre
	if requestBody.ImageURL != "" {
		updated.ImageURL = requestBody.ImageURL
	}
	updated.AverageRating = data.ComputeAverageRating(updated.Ratings)
	v := validator.New()
	if data.ValidateBook(v, &updated); !v.Valid() {
		if sourcePath != "" {
			os.Remove(sourcePath)
		}
		return nil, s.failedValidation(v.Errors)
	}

	var outputPath string
	if sourcePath != "" {
		outputPath, err = s.processor.Transform(r.Context(), sourcePath, originalName)
		if err != nil {
			s.logger.PrintError(err, map[string]string{"source": sourcePath})
			os.Remove(sourcePath)
			return nil, ErrProcessingFailed
		}
		updated.ImageURL = s.buildImageURL(r, outputPath)
	}

	err = s.repo.ReplaceBook(&updated)
	if err != nil {
		if outputPath != "" {
			os.Remove(outputPath)
		}
		switch {
		case errors.Is(err, repository.ErrEditConflict):
			return nil, ErrEditConflict
		default:
			return nil, err
		}
	}
	// The record now points at the new file, so the old one can go.
	if outputPath != "" && book.ImageURL != updated.ImageURL {
		err = s.removeImageFile(book.ImageURL)
		if err != nil {
			s.logger.PrintError(err, map[string]string{"image_url": book.ImageURL})
		}
	}
	return &updated, nil
}

// DeleteBook service deletes a book on behalf of its owner, along with its
// cover image. Image removal is best-effort and never blocks record deletion.
func (s *service) DeleteBook(bookID int64, callerID int64) error {
	book, err := s.repo.GetBook(bookID)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrRecordNotFound):
			return ErrRecordNotFound
		default:
			return err
		}
	}
	if book.OwnerID != callerID {
		return ErrNotPermitted
	}
	err = s.repo.DeleteBook(bookID)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrRecordNotFound):
			return ErrRecordNotFound
		default:
			return err
		}
	}
	s.background(func() {
		err := s.removeImageFile(book.ImageURL)
		if err != nil {
			s.logger.PrintError(err, map[string]string{"image_url": book.ImageURL})
		}
	})
	return nil
}
