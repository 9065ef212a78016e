package dto

// BookRequestBody carries the client-editable book metadata. Record identity
// and ownership fields are deliberately absent so that a client cannot supply
// them. ImageURL is honored only on updates without a new image file.
type BookRequestBody struct {
	Title    string `json:"title"`
	Author   string `json:"author"`
	Year     int32  `json:"year"`
	Genre    string `json:"genre"`
	ImageURL string `json:"imageUrl,omitempty"`
}

// CreateRatingRequestBody carries a rating submission. The field is wider
// than a stored grade so out-of-range values survive decoding and get a
// proper validation response instead of a JSON type error.
type CreateRatingRequestBody struct {
	Rating int32 `json:"rating"`
}
