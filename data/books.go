package data

import (
	"math"
	"time"

	"grimoire/internal/validator"
)

// Book defines a book catalog record. Ratings holds one entry per user and
// AverageRating is always the recomputed mean of the grades, never a value
// taken from a client.
type Book struct {
	ID            int64     `json:"id"`
	OwnerID       int64     `json:"ownerId"`
	CreatedAt     time.Time `json:"createdAt"`
	Title         string    `json:"title"`
	Author        string    `json:"author"`
	Year          int32     `json:"year"`
	Genre         string    `json:"genre"`
	ImageURL      string    `json:"imageUrl"`
	Ratings       []Rating  `json:"ratings"`
	AverageRating float64   `json:"averageRating"`
	Version       int32     `json:"-"`
}

// Rating defines a single user's grade for a book.
type Rating struct {
	UserID int64 `json:"userId"`
	Grade  int8  `json:"grade"`
}

// HasRatingFrom reports whether the user has already rated the book.
func (b *Book) HasRatingFrom(userID int64) bool {
	for _, r := range b.Ratings {
		if r.UserID == userID {
			return true
		}
	}
	return false
}

// ComputeAverageRating returns the mean of all grades rounded to one decimal
// place, or 0 when there are no ratings.
func ComputeAverageRating(ratings []Rating) float64 {
	if len(ratings) == 0 {
		return 0
	}
	var total int64
	for _, r := range ratings {
		total += int64(r.Grade)
	}
	mean := float64(total) / float64(len(ratings))
	return math.Round(mean*10) / 10
}

func ValidateBook(v *validator.Validator, book *Book) {
	v.Check(book.Title != "", "title", "must be provided")
	v.Check(len(book.Title) <= 500, "title", "must not be more than 500 bytes long")
	v.Check(book.Author != "", "author", "must be provided")
	v.Check(len(book.Author) <= 200, "author", "must not be more than 200 bytes long")
	v.Check(book.Year != 0, "year", "must be provided")
	v.Check(book.Year <= int32(time.Now().Year()), "year", "must not be in the future")
	v.Check(len(book.Genre) <= 100, "genre", "must not be more than 100 bytes long")
}

func ValidateGrade(v *validator.Validator, grade int32) {
	v.Check(grade >= 0, "rating", "must not be less than zero")
	v.Check(grade <= 5, "rating", "must not be greater than five")
}
