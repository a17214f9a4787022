package handlers

import (
	"net/http"

	"github.com/gorilla/mux"

	"cinelist/models"
	"cinelist/services/watchlist"
)

// WatchlistHandler maps the watchlist mutation routes onto the store. The
// handlers only extract the user identity and parameters, call the store and
// shape the response envelope; failures go to the shared translator.
type WatchlistHandler struct {
	store *watchlist.Service
}

// NewWatchlistHandler creates a new watchlist handler.
func NewWatchlistHandler(store *watchlist.Service) *WatchlistHandler {
	return &WatchlistHandler{store: store}
}

type updateWatchedStatusRequest struct {
	MovieID   string `json:"movieId"`
	IsWatched bool   `json:"isWatched"`
}

type rateMovieRequest struct {
	MovieID string `json:"movieId"`
	Rating  int    `json:"rating"`
}

type reviewMovieRequest struct {
	MovieID string `json:"movieId"`
	Review  string `json:"review"`
}

// ListMovies returns the signed-in user's watchlist.
// GET /watchlist/movies
func (h *WatchlistHandler) ListMovies(w http.ResponseWriter, r *http.Request) {
	userID := userIDFromContext(r.Context())
	if userID == "" {
		jsonError(w, "Not authenticated", http.StatusUnauthorized)
		return
	}

	movies, err := h.store.List(r.Context(), userID)
	if err != nil {
		translateError(w, err)
		return
	}

	jsonSuccess(w, http.StatusOK, map[string]interface{}{"watchlist": movies})
}

// AddMovie appends a new movie, creating the watchlist when absent.
// POST /watchlist/movies
func (h *WatchlistHandler) AddMovie(w http.ResponseWriter, r *http.Request) {
	userID := userIDFromContext(r.Context())
	if userID == "" {
		jsonError(w, "Not authenticated", http.StatusUnauthorized)
		return
	}

	var draft models.MovieDraft
	if err := decodeBody(r, &draft); err != nil {
		jsonError(w, "Invalid request body: "+err.Error(), http.StatusBadRequest)
		return
	}

	movie, err := h.store.Add(r.Context(), userID, draft)
	if err != nil {
		translateError(w, err)
		return
	}

	jsonSuccess(w, http.StatusCreated, map[string]interface{}{"movie": movie})
}

// EditMovie replaces the descriptive fields of a movie.
// PUT/PATCH /watchlist/movies/{id}
func (h *WatchlistHandler) EditMovie(w http.ResponseWriter, r *http.Request) {
	userID := userIDFromContext(r.Context())
	if userID == "" {
		jsonError(w, "Not authenticated", http.StatusUnauthorized)
		return
	}

	movieID := mux.Vars(r)["id"]

	var edit models.MovieEdit
	if err := decodeBody(r, &edit); err != nil {
		jsonError(w, "Invalid request body: "+err.Error(), http.StatusBadRequest)
		return
	}

	movie, err := h.store.Edit(r.Context(), userID, movieID, edit)
	if err != nil {
		translateError(w, err)
		return
	}

	jsonSuccess(w, http.StatusOK, map[string]interface{}{"movie": movie})
}

// DeleteMovie removes a movie from the watchlist.
// DELETE /watchlist/movies/{id}
func (h *WatchlistHandler) DeleteMovie(w http.ResponseWriter, r *http.Request) {
	userID := userIDFromContext(r.Context())
	if userID == "" {
		jsonError(w, "Not authenticated", http.StatusUnauthorized)
		return
	}

	movieID := mux.Vars(r)["id"]

	if err := h.store.Delete(r.Context(), userID, movieID); err != nil {
		translateError(w, err)
		return
	}

	jsonSuccess(w, http.StatusOK, nil)
}

// UpdateWatchedStatus sets the watched flag of a movie.
// PATCH /watchlist/movies/{id}/updateWatchedStatus
func (h *WatchlistHandler) UpdateWatchedStatus(w http.ResponseWriter, r *http.Request) {
	userID := userIDFromContext(r.Context())
	if userID == "" {
		jsonError(w, "Not authenticated", http.StatusUnauthorized)
		return
	}

	var req updateWatchedStatusRequest
	if err := decodeBody(r, &req); err != nil {
		jsonError(w, "Invalid request body: "+err.Error(), http.StatusBadRequest)
		return
	}

	if _, err := h.store.UpdateWatchedStatus(r.Context(), userID, req.MovieID, req.IsWatched); err != nil {
		translateError(w, err)
		return
	}

	// The wire contract returns no movie payload here; clients reconcile
	// the toggle from the value they requested.
	jsonSuccess(w, http.StatusOK, nil)
}

// RateMovie sets the rating of a movie.
// PATCH /watchlist/movies/{id}/rate
func (h *WatchlistHandler) RateMovie(w http.ResponseWriter, r *http.Request) {
	userID := userIDFromContext(r.Context())
	if userID == "" {
		jsonError(w, "Not authenticated", http.StatusUnauthorized)
		return
	}

	var req rateMovieRequest
	if err := decodeBody(r, &req); err != nil {
		jsonError(w, "Invalid request body: "+err.Error(), http.StatusBadRequest)
		return
	}

	movie, err := h.store.Rate(r.Context(), userID, req.MovieID, req.Rating)
	if err != nil {
		translateError(w, err)
		return
	}

	jsonSuccess(w, http.StatusOK, map[string]interface{}{"movie": movie})
}

// ReviewMovie sets the review text of a movie.
// PATCH /watchlist/movies/{id}/review
func (h *WatchlistHandler) ReviewMovie(w http.ResponseWriter, r *http.Request) {
	userID := userIDFromContext(r.Context())
	if userID == "" {
		jsonError(w, "Not authenticated", http.StatusUnauthorized)
		return
	}

	var req reviewMovieRequest
	if err := decodeBody(r, &req); err != nil {
		jsonError(w, "Invalid request body: "+err.Error(), http.StatusBadRequest)
		return
	}

	movie, err := h.store.Review(r.Context(), userID, req.MovieID, req.Review)
	if err != nil {
		translateError(w, err)
		return
	}

	jsonSuccess(w, http.StatusOK, map[string]interface{}{"movie": movie})
}

// DeleteReview clears the review of a movie.
// DELETE /watchlist/movies/{id}/review
func (h *WatchlistHandler) DeleteReview(w http.ResponseWriter, r *http.Request) {
	userID := userIDFromContext(r.Context())
	if userID == "" {
		jsonError(w, "Not authenticated", http.StatusUnauthorized)
		return
	}

	movieID := mux.Vars(r)["id"]

	movie, err := h.store.DeleteReview(r.Context(), userID, movieID)
	if err != nil {
		translateError(w, err)
		return
	}

	jsonSuccess(w, http.StatusOK, map[string]interface{}{"movie": movie})
}

// Register wires the watchlist routes onto the router behind the auth
// middleware.
func (h *WatchlistHandler) Register(r *mux.Router) {
	r.HandleFunc("/watchlist/movies", h.ListMovies).Methods(http.MethodGet)
	r.HandleFunc("/watchlist/movies", h.AddMovie).Methods(http.MethodPost)
	r.HandleFunc("/watchlist/movies/{id}", h.EditMovie).Methods(http.MethodPut, http.MethodPatch)
	r.HandleFunc("/watchlist/movies/{id}", h.DeleteMovie).Methods(http.MethodDelete)
	r.HandleFunc("/watchlist/movies/{id}/updateWatchedStatus", h.UpdateWatchedStatus).Methods(http.MethodPatch)
	r.HandleFunc("/watchlist/movies/{id}/rate", h.RateMovie).Methods(http.MethodPatch)
	r.HandleFunc("/watchlist/movies/{id}/review", h.ReviewMovie).Methods(http.MethodPatch)
	r.HandleFunc("/watchlist/movies/{id}/review", h.DeleteReview).Methods(http.MethodDelete)
}
