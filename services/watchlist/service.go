package watchlist

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"cinelist/internal/database"
	"cinelist/models"
)

var (
	// ErrWatchlistNotFound is returned when an operation requires an
	// existing watchlist aggregate and the user has none.
	ErrWatchlistNotFound = errors.New("watchlist not found")
	// ErrMovieNotFound is returned when the watchlist exists but no movie
	// matches the supplied id.
	ErrMovieNotFound = errors.New("movie not found in watchlist")
)

// Service is the authoritative per-user watchlist store. Every mutation
// addresses movies by id strictly within the owning user's watchlist, so a
// movie id from another user's list behaves exactly like an unknown id.
type Service struct {
	repo *database.WatchlistRepository
}

// NewService creates a new watchlist service backed by the given repository.
func NewService(repo *database.WatchlistRepository) *Service {
	return &Service{repo: repo}
}

// List returns the user's movies in insertion order. A user without a
// watchlist gets an empty collection, never an error.
func (s *Service) List(ctx context.Context, userID string) ([]models.Movie, error) {
	return s.repo.ListMovies(ctx, userID)
}

// Add mints a fresh movie id, appends the movie to the user's watchlist and
// returns the created record. The watchlist is created lazily on first add.
func (s *Service) Add(ctx context.Context, userID string, draft models.MovieDraft) (*models.Movie, error) {
	movie := &models.Movie{
		MovieID:     uuid.NewString(),
		Title:       draft.Title,
		Description: draft.Description,
		ReleaseYear: draft.ReleaseYear,
		Genre:       draft.Genre,
		IsWatched:   draft.IsWatched,
		Rating:      draft.Rating,
		Review:      draft.Review,
	}

	if err := s.repo.AppendMovie(ctx, userID, movie); err != nil {
		return nil, fmt.Errorf("add movie: %w", err)
	}
	return movie, nil
}

// Edit replaces the descriptive fields of the matching movie in place.
// The movie id, watch status, rating and review are untouched.
func (s *Service) Edit(ctx context.Context, userID, movieID string, edit models.MovieEdit) (*models.Movie, error) {
	movie, err := s.locate(ctx, userID, movieID)
	if err != nil {
		return nil, err
	}

	movie.Title = edit.Title
	movie.Description = edit.Description
	movie.ReleaseYear = edit.ReleaseYear
	movie.Genre = edit.Genre

	if err := s.repo.UpdateMovie(ctx, userID, movie); err != nil {
		return nil, fmt.Errorf("edit movie: %w", err)
	}
	return movie, nil
}

// Delete removes the matching movie from the user's watchlist. A missing
// watchlist is an error; a missing movie within an existing watchlist is a
// silent no-op. The source system behaved this way and clients depend on
// delete acknowledgments for ids that were already gone.
func (s *Service) Delete(ctx context.Context, userID, movieID string) error {
	exists, err := s.repo.Exists(ctx, userID)
	if err != nil {
		return err
	}
	if !exists {
		return ErrWatchlistNotFound
	}

	return s.repo.DeleteMovie(ctx, userID, movieID)
}

// UpdateWatchedStatus sets the watched flag of the matching movie.
func (s *Service) UpdateWatchedStatus(ctx context.Context, userID, movieID string, isWatched bool) (*models.Movie, error) {
	movie, err := s.locate(ctx, userID, movieID)
	if err != nil {
		return nil, err
	}

	movie.IsWatched = isWatched

	if err := s.repo.UpdateMovie(ctx, userID, movie); err != nil {
		return nil, fmt.Errorf("update watched status: %w", err)
	}
	return movie, nil
}

// Rate sets the rating of the matching movie and returns the updated record.
func (s *Service) Rate(ctx context.Context, userID, movieID string, rating int) (*models.Movie, error) {
	movie, err := s.locate(ctx, userID, movieID)
	if err != nil {
		return nil, err
	}

	movie.Rating = &rating

	if err := s.repo.UpdateMovie(ctx, userID, movie); err != nil {
		return nil, fmt.Errorf("rate movie: %w", err)
	}
	return movie, nil
}

// Review sets the review text of the matching movie and returns the updated
// record.
func (s *Service) Review(ctx context.Context, userID, movieID, review string) (*models.Movie, error) {
	movie, err := s.locate(ctx, userID, movieID)
	if err != nil {
		return nil, err
	}

	movie.Review = &review

	if err := s.repo.UpdateMovie(ctx, userID, movie); err != nil {
		return nil, fmt.Errorf("review movie: %w", err)
	}
	return movie, nil
}

// DeleteReview clears the review to absent. Clearing an already absent
// review still succeeds, so the operation is idempotent.
func (s *Service) DeleteReview(ctx context.Context, userID, movieID string) (*models.Movie, error) {
	movie, err := s.locate(ctx, userID, movieID)
	if err != nil {
		return nil, err
	}

	movie.Review = nil

	if err := s.repo.UpdateMovie(ctx, userID, movie); err != nil {
		return nil, fmt.Errorf("delete review: %w", err)
	}
	return movie, nil
}

// locate resolves the aggregate-then-record lookup shared by every mutation
// that requires an existing movie.
func (s *Service) locate(ctx context.Context, userID, movieID string) (*models.Movie, error) {
	exists, err := s.repo.Exists(ctx, userID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, ErrWatchlistNotFound
	}

	movie, err := s.repo.GetMovie(ctx, userID, movieID)
	if err != nil {
		return nil, err
	}
	if movie == nil {
		return nil, ErrMovieNotFound
	}
	return movie, nil
}
