package client

import (
	"sync"

	"cinelist/models"
)

// Cache is the local read model of the signed-in user's watchlist. It is the
// sole owner of the rendered collection and changes only through the
// reconciliation methods below, applied after an acknowledged server
// response. Nothing here writes ahead of the server.
type Cache struct {
	mu     sync.RWMutex
	movies []models.Movie
}

// NewCache creates an empty cache.
func NewCache() *Cache {
	return &Cache{movies: []models.Movie{}}
}

// Movies returns a copy of the cached collection in insertion order.
func (c *Cache) Movies() []models.Movie {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]models.Movie, len(c.movies))
	copy(out, c.movies)
	return out
}

// Len returns the number of cached movies.
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.movies)
}

// SetAll replaces the collection with a server-returned listing.
func (c *Cache) SetAll(movies []models.Movie) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.movies = make([]models.Movie, len(movies))
	copy(c.movies, movies)
}

// Append applies an acknowledged add.
func (c *Cache) Append(movie models.Movie) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.movies = append(c.movies, movie)
}

// Replace applies an acknowledged edit, rate, review or review-clear by
// swapping in the server-returned record with the matching id.
func (c *Cache) Replace(movie models.Movie) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for i := range c.movies {
		if c.movies[i].MovieID == movie.MovieID {
			c.movies[i] = movie
			return
		}
	}
}

// Remove applies an acknowledged delete.
func (c *Cache) Remove(movieID string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for i := range c.movies {
		if c.movies[i].MovieID == movieID {
			c.movies = append(c.movies[:i], c.movies[i+1:]...)
			return
		}
	}
}

// SetWatched applies an acknowledged status toggle. The status response
// carries no movie payload, so by protocol contract the cache applies the
// value the caller requested rather than re-reading the response body.
func (c *Cache) SetWatched(movieID string, isWatched bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for i := range c.movies {
		if c.movies[i].MovieID == movieID {
			c.movies[i].IsWatched = isWatched
			return
		}
	}
}
