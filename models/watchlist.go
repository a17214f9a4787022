package models

// Movie is a single record inside a user's watchlist. MovieID is minted
// server-side on creation and is the only external handle for mutations.
type Movie struct {
	MovieID     string  `json:"movieId"`
	Title       string  `json:"title"`
	Description string  `json:"description"`
	ReleaseYear int     `json:"releaseYear"`
	Genre       string  `json:"genre"`
	IsWatched   bool    `json:"isWatched"`
	Rating      *int    `json:"rating,omitempty"`
	Review      *string `json:"review,omitempty"`
}

// MovieDraft captures data required to add a movie to a watchlist.
type MovieDraft struct {
	Title       string  `json:"title"`
	Description string  `json:"description"`
	ReleaseYear int     `json:"releaseYear"`
	Genre       string  `json:"genre"`
	IsWatched   bool    `json:"isWatched"`
	Rating      *int    `json:"rating,omitempty"`
	Review      *string `json:"review,omitempty"`
}

// MovieEdit carries the descriptive fields replaced by an edit. Edits are
// whole-field replacements; watch status, rating and review are untouched.
type MovieEdit struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	ReleaseYear int    `json:"releaseYear"`
	Genre       string `json:"genre"`
}
