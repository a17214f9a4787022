package handlers_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cinelist/handlers"
	"cinelist/internal/database"
	"cinelist/models"
	"cinelist/services/users"
	"cinelist/services/watchlist"
	"cinelist/utils"
)

const testSecret = "handler-test-secret"

type testServer struct {
	*httptest.Server
	store *watchlist.Service
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()

	db, err := database.NewDB(database.Config{DatabasePath: filepath.Join(t.TempDir(), "test.db")})
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	usersService := users.NewService(db.Users)
	store := watchlist.NewService(db.Watchlists)

	router := utils.NewRouter()

	authHandler := handlers.NewAuthHandler(usersService, testSecret, time.Hour)
	auth := router.PathPrefix("/auth").Subrouter()
	auth.HandleFunc("/signup", authHandler.Signup).Methods(http.MethodPost)
	auth.HandleFunc("/login", authHandler.Login).Methods(http.MethodPost)
	auth.HandleFunc("/logout", authHandler.Logout).Methods(http.MethodGet)

	authed := router.NewRoute().Subrouter()
	authed.Use(handlers.RequireAuth(testSecret))
	authed.HandleFunc("/auth/checkauth", authHandler.CheckAuth).Methods(http.MethodGet)
	handlers.NewWatchlistHandler(store).Register(authed)

	srv := httptest.NewServer(router)
	t.Cleanup(srv.Close)

	return &testServer{Server: srv, store: store}
}

// request sends a JSON request with the session token for userID and decodes
// the envelope.
func (s *testServer) request(t *testing.T, method, path, userID string, body interface{}) (int, map[string]interface{}) {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(encoded)
	} else {
		reader = bytes.NewReader(nil)
	}

	req, err := http.NewRequest(method, s.URL+path, reader)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")

	if userID != "" {
		token, err := utils.CreateSessionToken(testSecret, userID, time.Hour)
		require.NoError(t, err)
		req.AddCookie(&http.Cookie{Name: handlers.SessionCookieName, Value: token})
	}

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	var decoded map[string]interface{}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&decoded))
	return resp.StatusCode, decoded
}

func (s *testServer) addMovie(t *testing.T, userID, title string) string {
	t.Helper()

	status, body := s.request(t, http.MethodPost, "/watchlist/movies", userID, models.MovieDraft{
		Title: title, Description: "test", ReleaseYear: 2020, Genre: "Drama",
	})
	require.Equal(t, http.StatusCreated, status)

	movie := body["data"].(map[string]interface{})["movie"].(map[string]interface{})
	return movie["movieId"].(string)
}

func TestUnauthenticatedRequestsAreRejected(t *testing.T) {
	srv := newTestServer(t)

	status, body := srv.request(t, http.MethodGet, "/watchlist/movies", "", nil)
	assert.Equal(t, http.StatusUnauthorized, status)
	assert.Equal(t, "fail", body["status"])

	// A garbage token is rejected the same way
	req, _ := http.NewRequest(http.MethodGet, srv.URL+"/watchlist/movies", nil)
	req.Header.Set("Authorization", "Bearer not-a-token")
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestListReturnsEmptyWatchlist(t *testing.T) {
	srv := newTestServer(t)

	status, body := srv.request(t, http.MethodGet, "/watchlist/movies", "user-a", nil)
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "success", body["status"])

	data := body["data"].(map[string]interface{})
	assert.Empty(t, data["watchlist"])
}

func TestAddMovieReturnsCreatedEnvelope(t *testing.T) {
	srv := newTestServer(t)

	status, body := srv.request(t, http.MethodPost, "/watchlist/movies", "user-a", models.MovieDraft{
		Title: "Dune", Description: "desert planet", ReleaseYear: 2021, Genre: "Sci-Fi",
	})
	require.Equal(t, http.StatusCreated, status)
	assert.Equal(t, "success", body["status"])

	movie := body["data"].(map[string]interface{})["movie"].(map[string]interface{})
	assert.NotEmpty(t, movie["movieId"])
	assert.Equal(t, "Dune", movie["title"])
	assert.Equal(t, false, movie["isWatched"])
}

func TestAddMovieRejectsUnknownFields(t *testing.T) {
	srv := newTestServer(t)

	status, body := srv.request(t, http.MethodPost, "/watchlist/movies", "user-a", map[string]interface{}{
		"title": "Dune", "director": "Villeneuve",
	})
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "fail", body["status"])
}

func TestEditMovie(t *testing.T) {
	srv := newTestServer(t)
	movieID := srv.addMovie(t, "user-a", "Dune")

	status, body := srv.request(t, http.MethodPatch, "/watchlist/movies/"+movieID, "user-a", models.MovieEdit{
		Title: "Dune: Part One", Description: "first half", ReleaseYear: 2021, Genre: "Sci-Fi",
	})
	require.Equal(t, http.StatusOK, status)

	movie := body["data"].(map[string]interface{})["movie"].(map[string]interface{})
	assert.Equal(t, movieID, movie["movieId"])
	assert.Equal(t, "Dune: Part One", movie["title"])
}

func TestEditUnknownMovieIsNotFound(t *testing.T) {
	srv := newTestServer(t)
	srv.addMovie(t, "user-a", "Dune")

	status, body := srv.request(t, http.MethodPatch, "/watchlist/movies/no-such-id", "user-a", models.MovieEdit{
		Title: "X", Description: "y", ReleaseYear: 2000, Genre: "Drama",
	})
	assert.Equal(t, http.StatusNotFound, status)
	assert.Equal(t, "fail", body["status"])
}

func TestDeleteMovie(t *testing.T) {
	srv := newTestServer(t)
	movieID := srv.addMovie(t, "user-a", "Dune")

	status, body := srv.request(t, http.MethodDelete, "/watchlist/movies/"+movieID, "user-a", nil)
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "success", body["status"])
	// Delete acknowledges without a data payload
	assert.Nil(t, body["data"])

	status, body = srv.request(t, http.MethodGet, "/watchlist/movies", "user-a", nil)
	require.Equal(t, http.StatusOK, status)
	assert.Empty(t, body["data"].(map[string]interface{})["watchlist"])
}

func TestDeleteWithoutWatchlistIsNotFound(t *testing.T) {
	srv := newTestServer(t)

	status, _ := srv.request(t, http.MethodDelete, "/watchlist/movies/any-id", "user-a", nil)
	assert.Equal(t, http.StatusNotFound, status)
}

func TestUpdateWatchedStatusHasNoPayload(t *testing.T) {
	srv := newTestServer(t)
	movieID := srv.addMovie(t, "user-a", "Dune")

	status, body := srv.request(t, http.MethodPatch, "/watchlist/movies/"+movieID+"/updateWatchedStatus", "user-a",
		map[string]interface{}{"movieId": movieID, "isWatched": true})
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "success", body["status"])
	assert.Nil(t, body["data"])

	status, body = srv.request(t, http.MethodGet, "/watchlist/movies", "user-a", nil)
	require.Equal(t, http.StatusOK, status)
	listing := body["data"].(map[string]interface{})["watchlist"].([]interface{})
	require.Len(t, listing, 1)
	assert.Equal(t, true, listing[0].(map[string]interface{})["isWatched"])
}

func TestRateAndReviewMovie(t *testing.T) {
	srv := newTestServer(t)
	movieID := srv.addMovie(t, "user-a", "Dune")

	status, body := srv.request(t, http.MethodPatch, "/watchlist/movies/"+movieID+"/rate", "user-a",
		map[string]interface{}{"movieId": movieID, "rating": 5})
	require.Equal(t, http.StatusOK, status)
	movie := body["data"].(map[string]interface{})["movie"].(map[string]interface{})
	assert.Equal(t, float64(5), movie["rating"])

	status, body = srv.request(t, http.MethodPatch, "/watchlist/movies/"+movieID+"/review", "user-a",
		map[string]interface{}{"movieId": movieID, "review": "a slow burn"})
	require.Equal(t, http.StatusOK, status)
	movie = body["data"].(map[string]interface{})["movie"].(map[string]interface{})
	assert.Equal(t, "a slow burn", movie["review"])

	status, body = srv.request(t, http.MethodDelete, "/watchlist/movies/"+movieID+"/review", "user-a", nil)
	require.Equal(t, http.StatusOK, status)
	movie = body["data"].(map[string]interface{})["movie"].(map[string]interface{})
	_, hasReview := movie["review"]
	assert.False(t, hasReview, "cleared review must be absent, not empty")
}

func TestMoviesAreScopedToTheSessionUser(t *testing.T) {
	srv := newTestServer(t)
	movieID := srv.addMovie(t, "user-a", "Dune")
	srv.addMovie(t, "user-b", "Heat")

	// user-b cannot address user-a's movie
	status, _ := srv.request(t, http.MethodPatch, "/watchlist/movies/"+movieID+"/rate", "user-b",
		map[string]interface{}{"movieId": movieID, "rating": 1})
	assert.Equal(t, http.StatusNotFound, status)

	// user-a's listing contains only their movie
	status, body := srv.request(t, http.MethodGet, "/watchlist/movies", "user-a", nil)
	require.Equal(t, http.StatusOK, status)
	listing := body["data"].(map[string]interface{})["watchlist"].([]interface{})
	require.Len(t, listing, 1)
	assert.Equal(t, movieID, listing[0].(map[string]interface{})["movieId"])
}
