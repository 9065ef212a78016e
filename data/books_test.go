package data

import (
	"testing"
	"time"

	"grimoire/internal/validator"

	"github.com/stretchr/testify/assert"
)

func TestComputeAverageRating(t *testing.T) {
	tests := []struct {
		name    string
		ratings []Rating
		want    float64
	}{
		{
			name:    "no ratings",
			ratings: []Rating{},
			want:    0,
		},
		{
			name:    "nil ratings",
			ratings: nil,
			want:    0,
		},
		{
			name:    "single rating",
			ratings: []Rating{{UserID: 1, Grade: 4}},
			want:    4,
		},
		{
			name:    "mean rounded to one decimal",
			ratings: []Rating{{UserID: 1, Grade: 5}, {UserID: 2, Grade: 4}, {UserID: 3, Grade: 4}},
			want:    4.3,
		},
		{
			name:    "half rounds up",
			ratings: []Rating{{UserID: 1, Grade: 4}, {UserID: 2, Grade: 5}},
			want:    4.5,
		},
		{
			name:    "zero grades count",
			ratings: []Rating{{UserID: 1, Grade: 0}, {UserID: 2, Grade: 5}},
			want:    2.5,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ComputeAverageRating(tt.ratings))
		})
	}
}

func TestHasRatingFrom(t *testing.T) {
	book := &Book{
		Ratings: []Rating{
			{UserID: 7, Grade: 3},
			{UserID: 9, Grade: 5},
		},
	}
	assert.True(t, book.HasRatingFrom(7))
	assert.True(t, book.HasRatingFrom(9))
	assert.False(t, book.HasRatingFrom(8))

	empty := &Book{}
	assert.False(t, empty.HasRatingFrom(7))
}

func TestValidateBook(t *testing.T) {
	valid := Book{
		Title:  "The Name of the Wind",
		Author: "Patrick Rothfuss",
		Year:   2007,
		Genre:  "Fantasy",
	}

	tests := []struct {
		name    string
		mutate  func(b *Book)
		wantKey string
	}{
		{
			name:   "valid book",
			mutate: func(b *Book) {},
		},
		{
			name:    "missing title",
			mutate:  func(b *Book) { b.Title = "" },
			wantKey: "title",
		},
		{
			name:    "missing author",
			mutate:  func(b *Book) { b.Author = "" },
			wantKey: "author",
		},
		{
			name:    "missing year",
			mutate:  func(b *Book) { b.Year = 0 },
			wantKey: "year",
		},
		{
			name:    "year in the future",
			mutate:  func(b *Book) { b.Year = int32(time.Now().Year()) + 1 },
			wantKey: "year",
		},
		{
			name:   "genre is optional",
			mutate: func(b *Book) { b.Genre = "" },
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			book := valid
			tt.mutate(&book)
			v := validator.New()
			ValidateBook(v, &book)
			if tt.wantKey == "" {
				assert.True(t, v.Valid())
			} else {
				assert.False(t, v.Valid())
				assert.Contains(t, v.Errors, tt.wantKey)
			}
		})
	}
}

func TestValidateGrade(t *testing.T) {
	tests := []struct {
		name  string
		grade int32
		valid bool
	}{
		{name: "lowest grade", grade: 0, valid: true},
		{name: "highest grade", grade: 5, valid: true},
		{name: "middle grade", grade: 3, valid: true},
		{name: "negative grade", grade: -1, valid: false},
		{name: "grade above five", grade: 6, valid: false},
		{name: "grade far out of range", grade: 300, valid: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := validator.New()
			ValidateGrade(v, tt.grade)
			assert.Equal(t, tt.valid, v.Valid())
		})
	}
}
