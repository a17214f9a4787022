package client

import (
	"context"

	"cinelist/models"
)

// Watchlist ties the API client, the local cache and a request bridge
// together: every mutation goes through the bridge and reconciles the cache
// only after the server acknowledges it.
type Watchlist struct {
	api    *Client
	cache  *Cache
	bridge *Bridge
}

// NewWatchlist creates a watchlist view for a signed-in client. Failures of
// issued mutations are routed to report.
func NewWatchlist(api *Client, report func(error)) *Watchlist {
	return &Watchlist{
		api:    api,
		cache:  NewCache(),
		bridge: NewBridge(report),
	}
}

// Movies returns the cached collection.
func (w *Watchlist) Movies() []models.Movie {
	return w.cache.Movies()
}

// Refresh synchronously reloads the cache from the server. Reads bypass the
// bridge; only mutations are single-flight.
func (w *Watchlist) Refresh(ctx context.Context) error {
	movies, err := w.api.Movies(ctx)
	if err != nil {
		return err
	}
	w.cache.SetAll(movies)
	return nil
}

// Add issues an add mutation; on acknowledgment the returned record is
// appended to the cache.
func (w *Watchlist) Add(ctx context.Context, draft models.MovieDraft) error {
	var created *models.Movie
	return w.bridge.Do(ctx,
		func(ctx context.Context) error {
			movie, err := w.api.AddMovie(ctx, draft)
			if err != nil {
				return err
			}
			created = movie
			return nil
		},
		func() { w.cache.Append(*created) },
	)
}

// Edit issues an edit mutation; on acknowledgment the returned record
// replaces the cached one.
func (w *Watchlist) Edit(ctx context.Context, movieID string, edit models.MovieEdit) error {
	var updated *models.Movie
	return w.bridge.Do(ctx,
		func(ctx context.Context) error {
			movie, err := w.api.EditMovie(ctx, movieID, edit)
			if err != nil {
				return err
			}
			updated = movie
			return nil
		},
		func() { w.cache.Replace(*updated) },
	)
}

// Delete issues a delete mutation; on acknowledgment the record is removed
// from the cache.
func (w *Watchlist) Delete(ctx context.Context, movieID string) error {
	return w.bridge.Do(ctx,
		func(ctx context.Context) error {
			return w.api.DeleteMovie(ctx, movieID)
		},
		func() { w.cache.Remove(movieID) },
	)
}

// ToggleWatched flips the watched flag: the new value is computed here
// before sending, and reconciliation applies that requested value.
func (w *Watchlist) ToggleWatched(ctx context.Context, movieID string, isWatched bool) error {
	next := !isWatched
	return w.bridge.Do(ctx,
		func(ctx context.Context) error {
			return w.api.SetWatched(ctx, movieID, next)
		},
		func() { w.cache.SetWatched(movieID, next) },
	)
}

// Rate issues a rate mutation; on acknowledgment the returned record
// replaces the cached one.
func (w *Watchlist) Rate(ctx context.Context, movieID string, rating int) error {
	var updated *models.Movie
	return w.bridge.Do(ctx,
		func(ctx context.Context) error {
			movie, err := w.api.RateMovie(ctx, movieID, rating)
			if err != nil {
				return err
			}
			updated = movie
			return nil
		},
		func() { w.cache.Replace(*updated) },
	)
}

// Review issues a review mutation; on acknowledgment the returned record
// replaces the cached one.
func (w *Watchlist) Review(ctx context.Context, movieID, review string) error {
	var updated *models.Movie
	return w.bridge.Do(ctx,
		func(ctx context.Context) error {
			movie, err := w.api.ReviewMovie(ctx, movieID, review)
			if err != nil {
				return err
			}
			updated = movie
			return nil
		},
		func() { w.cache.Replace(*updated) },
	)
}

// ClearReview issues a delete-review mutation; on acknowledgment the
// returned record replaces the cached one.
func (w *Watchlist) ClearReview(ctx context.Context, movieID string) error {
	var updated *models.Movie
	return w.bridge.Do(ctx,
		func(ctx context.Context) error {
			movie, err := w.api.DeleteReview(ctx, movieID)
			if err != nil {
				return err
			}
			updated = movie
			return nil
		},
		func() { w.cache.Replace(*updated) },
	)
}

// Wait blocks until the in-flight mutation, if any, has settled.
func (w *Watchlist) Wait() {
	w.bridge.Wait()
}

// State exposes the bridge state for consumers rendering pending/failed UI.
func (w *Watchlist) State() State {
	return w.bridge.State()
}

// Close releases the view; a still-pending acknowledgment will no longer
// touch the cache.
func (w *Watchlist) Close() {
	w.bridge.Close()
}
