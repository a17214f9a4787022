package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/cookiejar"
	"strings"
	"time"

	"github.com/avast/retry-go/v4"

	"cinelist/models"
)

// Client is a typed API client for the watchlist server. The cookie jar
// holds the session cookie issued at signup/login, so one client instance
// represents one signed-in user.
type Client struct {
	httpClient *http.Client
	baseURL    string
}

// APIError carries a fail envelope returned by the server.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api error %d: %s", e.StatusCode, e.Message)
}

// Account is the user shape returned by the auth endpoints.
type Account struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// envelope mirrors the server's uniform response wrapper.
type envelope struct {
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
	Data    struct {
		Watchlist []models.Movie `json:"watchlist,omitempty"`
		Movie     *models.Movie  `json:"movie,omitempty"`
		User      *Account       `json:"user,omitempty"`
	} `json:"data,omitempty"`
}

// NewClient creates a new API client for the given base URL.
func NewClient(baseURL string) (*Client, error) {
	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, fmt.Errorf("create cookie jar: %w", err)
	}
	return &Client{
		httpClient: &http.Client{Timeout: 10 * time.Second, Jar: jar},
		baseURL:    strings.TrimRight(baseURL, "/"),
	}, nil
}

// WaitReady polls the health endpoint until the server answers. Only this
// probe retries; mutations are never retried automatically.
func (c *Client) WaitReady(ctx context.Context) error {
	return retry.Do(
		func() error {
			req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/health", nil)
			if err != nil {
				return err
			}
			resp, err := c.httpClient.Do(req)
			if err != nil {
				return err
			}
			defer resp.Body.Close()
			if resp.StatusCode != http.StatusOK {
				return fmt.Errorf("health returned %s", resp.Status)
			}
			return nil
		},
		retry.Context(ctx),
		retry.Attempts(10),
		retry.Delay(200*time.Millisecond),
	)
}

// Signup registers an account; the session cookie lands in the jar.
func (c *Client) Signup(ctx context.Context, name, email, password string) (*Account, error) {
	env, err := c.do(ctx, http.MethodPost, "/auth/signup", map[string]string{
		"name": name, "email": email, "password": password,
	})
	if err != nil {
		return nil, err
	}
	return env.Data.User, nil
}

// Login authenticates; the session cookie lands in the jar.
func (c *Client) Login(ctx context.Context, email, password string) (*Account, error) {
	env, err := c.do(ctx, http.MethodPost, "/auth/login", map[string]string{
		"email": email, "password": password,
	})
	if err != nil {
		return nil, err
	}
	return env.Data.User, nil
}

// Logout clears the session.
func (c *Client) Logout(ctx context.Context) error {
	_, err := c.do(ctx, http.MethodGet, "/auth/logout", nil)
	return err
}

// Movies fetches the signed-in user's watchlist.
func (c *Client) Movies(ctx context.Context) ([]models.Movie, error) {
	env, err := c.do(ctx, http.MethodGet, "/watchlist/movies", nil)
	if err != nil {
		return nil, err
	}
	if env.Data.Watchlist == nil {
		return []models.Movie{}, nil
	}
	return env.Data.Watchlist, nil
}

// AddMovie creates a movie and returns the server-acknowledged record.
func (c *Client) AddMovie(ctx context.Context, draft models.MovieDraft) (*models.Movie, error) {
	env, err := c.do(ctx, http.MethodPost, "/watchlist/movies", draft)
	if err != nil {
		return nil, err
	}
	return requireMovie(env)
}

// EditMovie replaces the descriptive fields of a movie.
func (c *Client) EditMovie(ctx context.Context, movieID string, edit models.MovieEdit) (*models.Movie, error) {
	env, err := c.do(ctx, http.MethodPatch, "/watchlist/movies/"+movieID, edit)
	if err != nil {
		return nil, err
	}
	return requireMovie(env)
}

// DeleteMovie removes a movie.
func (c *Client) DeleteMovie(ctx context.Context, movieID string) error {
	_, err := c.do(ctx, http.MethodDelete, "/watchlist/movies/"+movieID, nil)
	return err
}

// SetWatched updates the watched flag. The response carries no movie
// payload; callers reconcile from the value they sent.
func (c *Client) SetWatched(ctx context.Context, movieID string, isWatched bool) error {
	_, err := c.do(ctx, http.MethodPatch, "/watchlist/movies/"+movieID+"/updateWatchedStatus", map[string]interface{}{
		"movieId": movieID, "isWatched": isWatched,
	})
	return err
}

// RateMovie sets the rating and returns the updated record.
func (c *Client) RateMovie(ctx context.Context, movieID string, rating int) (*models.Movie, error) {
	env, err := c.do(ctx, http.MethodPatch, "/watchlist/movies/"+movieID+"/rate", map[string]interface{}{
		"movieId": movieID, "rating": rating,
	})
	if err != nil {
		return nil, err
	}
	return requireMovie(env)
}

// ReviewMovie sets the review text and returns the updated record.
func (c *Client) ReviewMovie(ctx context.Context, movieID, review string) (*models.Movie, error) {
	env, err := c.do(ctx, http.MethodPatch, "/watchlist/movies/"+movieID+"/review", map[string]interface{}{
		"movieId": movieID, "review": review,
	})
	if err != nil {
		return nil, err
	}
	return requireMovie(env)
}

// DeleteReview clears the review and returns the updated record.
func (c *Client) DeleteReview(ctx context.Context, movieID string) (*models.Movie, error) {
	env, err := c.do(ctx, http.MethodDelete, "/watchlist/movies/"+movieID+"/review", nil)
	if err != nil {
		return nil, err
	}
	return requireMovie(env)
}

func (c *Client) do(ctx context.Context, method, path string, body interface{}) (*envelope, error) {
	var reader *bytes.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("marshal request: %w", err)
		}
		reader = bytes.NewReader(encoded)
	} else {
		reader = bytes.NewReader(nil)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("api request: %w", err)
	}
	defer resp.Body.Close()

	var env envelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}

	if resp.StatusCode >= 400 || env.Status != "success" {
		message := env.Message
		if message == "" {
			message = resp.Status
		}
		return nil, &APIError{StatusCode: resp.StatusCode, Message: message}
	}
	return &env, nil
}

func requireMovie(env *envelope) (*models.Movie, error) {
	if env.Data.Movie == nil {
		return nil, fmt.Errorf("response is missing the movie payload")
	}
	return env.Data.Movie, nil
}
