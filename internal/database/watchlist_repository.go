package database

import (
	"context"
	"database/sql"
	"fmt"

	"cinelist/models"
)

// WatchlistRepository persists the per-user watchlist aggregate. Movies are
// keyed by movie_id for O(1) addressing; reads order by the insertion
// position so list output always reflects insertion order.
type WatchlistRepository struct {
	db *sql.DB
}

// NewWatchlistRepository creates a new watchlist repository
func NewWatchlistRepository(db *sql.DB) *WatchlistRepository {
	return &WatchlistRepository{db: db}
}

// Exists reports whether a watchlist aggregate exists for the user.
func (r *WatchlistRepository) Exists(ctx context.Context, userID string) (bool, error) {
	var one int
	err := r.db.QueryRowContext(ctx,
		`SELECT 1 FROM watchlists WHERE user_id = ?`, userID).Scan(&one)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("check watchlist: %w", err)
	}
	return true, nil
}

// ListMovies returns the user's movies in insertion order. An absent
// watchlist yields an empty slice, not an error.
func (r *WatchlistRepository) ListMovies(ctx context.Context, userID string) ([]models.Movie, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT movie_id, title, description, release_year, genre, is_watched, rating, review
		 FROM watchlist_movies WHERE user_id = ? ORDER BY position`, userID)
	if err != nil {
		return nil, fmt.Errorf("list movies: %w", err)
	}
	defer rows.Close()

	movies := []models.Movie{}
	for rows.Next() {
		movie, err := scanMovie(rows)
		if err != nil {
			return nil, err
		}
		movies = append(movies, *movie)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list movies: %w", err)
	}
	return movies, nil
}

// GetMovie returns the matching movie within the user's watchlist, or nil
// when no record matches.
func (r *WatchlistRepository) GetMovie(ctx context.Context, userID, movieID string) (*models.Movie, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT movie_id, title, description, release_year, genre, is_watched, rating, review
		 FROM watchlist_movies WHERE user_id = ? AND movie_id = ?`, userID, movieID)
	if err != nil {
		return nil, fmt.Errorf("get movie: %w", err)
	}
	defer rows.Close()

	if !rows.Next() {
		return nil, rows.Err()
	}
	return scanMovie(rows)
}

// AppendMovie creates the watchlist when absent and appends the movie at the
// end of the collection. The insert is transactional so a failed append
// leaves the aggregate unchanged.
func (r *WatchlistRepository) AppendMovie(ctx context.Context, userID string, movie *models.Movie) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin append: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx,
		`INSERT OR IGNORE INTO watchlists (user_id) VALUES (?)`, userID); err != nil {
		return fmt.Errorf("ensure watchlist: %w", err)
	}

	if _, err := tx.ExecContext(ctx,
		`INSERT INTO watchlist_movies (movie_id, user_id, position, title, description, release_year, genre, is_watched, rating, review)
		 VALUES (?, ?, (SELECT COALESCE(MAX(position), 0) + 1 FROM watchlist_movies WHERE user_id = ?), ?, ?, ?, ?, ?, ?, ?)`,
		movie.MovieID, userID, userID,
		movie.Title, movie.Description, movie.ReleaseYear, movie.Genre,
		movie.IsWatched, movie.Rating, movie.Review); err != nil {
		return fmt.Errorf("append movie: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit append: %w", err)
	}
	return nil
}

// UpdateMovie persists every mutable field of the record. The movie_id and
// position columns are never touched, so record identity and collection
// order survive any update.
func (r *WatchlistRepository) UpdateMovie(ctx context.Context, userID string, movie *models.Movie) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE watchlist_movies
		 SET title = ?, description = ?, release_year = ?, genre = ?, is_watched = ?, rating = ?, review = ?
		 WHERE user_id = ? AND movie_id = ?`,
		movie.Title, movie.Description, movie.ReleaseYear, movie.Genre,
		movie.IsWatched, movie.Rating, movie.Review,
		userID, movie.MovieID)
	if err != nil {
		return fmt.Errorf("update movie: %w", err)
	}
	return nil
}

// DeleteMovie removes the matching record. Zero matched rows is not an
// error; surviving rows keep their positions.
func (r *WatchlistRepository) DeleteMovie(ctx context.Context, userID, movieID string) error {
	_, err := r.db.ExecContext(ctx,
		`DELETE FROM watchlist_movies WHERE user_id = ? AND movie_id = ?`, userID, movieID)
	if err != nil {
		return fmt.Errorf("delete movie: %w", err)
	}
	return nil
}

func scanMovie(rows *sql.Rows) (*models.Movie, error) {
	var movie models.Movie
	var rating sql.NullInt64
	var review sql.NullString
	if err := rows.Scan(&movie.MovieID, &movie.Title, &movie.Description, &movie.ReleaseYear,
		&movie.Genre, &movie.IsWatched, &rating, &review); err != nil {
		return nil, fmt.Errorf("scan movie: %w", err)
	}
	if rating.Valid {
		value := int(rating.Int64)
		movie.Rating = &value
	}
	if review.Valid {
		movie.Review = &review.String
	}
	return &movie, nil
}
