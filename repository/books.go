package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"time"

	"grimoire/data"
)

type books interface {
	CreateBook(book *data.Book) error
	GetBook(bookID int64) (*data.Book, error)
	GetAllBooks() ([]*data.Book, error)
	GetTopRatedBooks(limit int) ([]*data.Book, error)
	ReplaceBook(book *data.Book) error
	DeleteBook(bookID int64) error
}

// CreateBook creates a new book record.
func (r *repository) CreateBook(book *data.Book) error {
	query := `
		INSERT INTO books (owner_id, title, author, genre, year, image_url, ratings, average_rating)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id, created_at, version`
	ratings, err := json.Marshal(ratingsOrEmpty(book.Ratings))
	if err != nil {
		return err
	}
	args := []interface{}{book.OwnerID, book.Title, book.Author, book.Genre, book.Year, book.ImageURL, ratings, book.AverageRating}
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	return r.db.QueryRowContext(ctx, query, args...).Scan(&book.ID, &book.CreatedAt, &book.Version)
}

// GetBook retrieves a book record by its ID.
func (r *repository) GetBook(bookID int64) (*data.Book, error) {
	if bookID < 1 {
		return nil, ErrRecordNotFound
	}
	query := `
		SELECT id, owner_id, created_at, title, author, genre, year, image_url, ratings, average_rating, version
		FROM books
		WHERE id = $1`
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	book, err := scanBook(r.db.QueryRowContext(ctx, query, bookID))
	if err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			return nil, ErrRecordNotFound
		default:
			return nil, err
		}
	}
	return book, nil
}

// GetAllBooks retrieves every book record. No ordering is guaranteed.
func (r *repository) GetAllBooks() ([]*data.Book, error) {
	query := `
		SELECT id, owner_id, created_at, title, author, genre, year, image_url, ratings, average_rating, version
		FROM books`
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectBooks(rows)
}

// GetTopRatedBooks retrieves the highest-rated book records, ordered by
// average rating descending. Ties are broken by id ascending so the order is
// stable across calls.
func (r *repository) GetTopRatedBooks(limit int) ([]*data.Book, error) {
	query := `
		SELECT id, owner_id, created_at, title, author, genre, year, image_url, ratings, average_rating, version
		FROM books
		ORDER BY average_rating DESC, id ASC
		LIMIT $1`
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	rows, err := r.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectBooks(rows)
}

// ReplaceBook replaces every mutable field of a book record. The update is
// conditional on the version the caller read, so concurrent read-modify-write
// sequences against the same book cannot silently lose updates.
func (r *repository) ReplaceBook(book *data.Book) error {
	query := `
		UPDATE books
		SET title = $1, author = $2, genre = $3, year = $4, image_url = $5, ratings = $6, average_rating = $7, version = version + 1
		WHERE id = $8 AND version = $9
		RETURNING version`
	ratings, err := json.Marshal(ratingsOrEmpty(book.Ratings))
	if err != nil {
		return err
	}
	args := []interface{}{
		book.Title,
		book.Author,
		book.Genre,
		book.Year,
		book.ImageURL,
		ratings,
		book.AverageRating,
		book.ID,
		book.Version,
	}
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	err = r.db.QueryRowContext(ctx, query, args...).Scan(&book.Version)
	if err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			return ErrEditConflict
		default:
			return err
		}
	}
	return nil
}

// DeleteBook deletes a book record.
func (r *repository) DeleteBook(bookID int64) error {
	if bookID < 1 {
		return ErrRecordNotFound
	}
	query := `
		DELETE FROM books
		WHERE id = $1`
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	result, err := r.db.ExecContext(ctx, query, bookID)
	if err != nil {
		return err
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rowsAffected == 0 {
		return ErrRecordNotFound
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanBook(row rowScanner) (*data.Book, error) {
	var book data.Book
	var ratings []byte
	err := row.Scan(
		&book.ID,
		&book.OwnerID,
		&book.CreatedAt,
		&book.Title,
		&book.Author,
		&book.Genre,
		&book.Year,
		&book.ImageURL,
		&ratings,
		&book.AverageRating,
		&book.Version,
	)
	if err != nil {
		return nil, err
	}
	err = json.Unmarshal(ratings, &book.Ratings)
	if err != nil {
		return nil, err
	}
	return &book, nil
}

func collectBooks(rows *sql.Rows) ([]*data.Book, error) {
	books := []*data.Book{}
	for rows.Next() {
		book, err := scanBook(rows)
		if err != nil {
			return nil, err
		}
		books = append(books, book)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return books, nil
}

// ratingsOrEmpty keeps the stored ratings document a JSON array even when a
// book has no ratings yet.
func ratingsOrEmpty(ratings []data.Rating) []data.Rating {
	if ratings == nil {
		return []data.Rating{}
	}
	return ratings
}
