package handlers

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"cinelist/services/users"
	"cinelist/services/watchlist"
)

// envelope is the uniform response wrapper: {status, data?} on success,
// {status, message} on failure.
type envelope struct {
	Status  string      `json:"status"`
	Data    interface{} `json:"data,omitempty"`
	Message string      `json:"message,omitempty"`
}

// jsonSuccess writes a success envelope with the given payload.
func jsonSuccess(w http.ResponseWriter, statusCode int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(envelope{Status: "success", Data: data})
}

// jsonError writes a fail envelope with the given message.
func jsonError(w http.ResponseWriter, message string, statusCode int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(envelope{Status: "fail", Message: message})
}

// translateError maps domain failures to response codes. Handlers forward
// every store failure here instead of classifying locally.
func translateError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, watchlist.ErrWatchlistNotFound):
		jsonError(w, "Watchlist not found", http.StatusNotFound)
	case errors.Is(err, watchlist.ErrMovieNotFound):
		jsonError(w, "Movie not found in watchlist", http.StatusNotFound)
	case errors.Is(err, users.ErrUserNotFound):
		jsonError(w, "User not found", http.StatusNotFound)
	case errors.Is(err, users.ErrEmailTaken):
		jsonError(w, "Email already registered", http.StatusConflict)
	case errors.Is(err, users.ErrInvalidCredentials):
		jsonError(w, "Invalid email or password", http.StatusUnauthorized)
	default:
		log.Printf("[handlers] internal error: %v", err)
		jsonError(w, "Internal server error", http.StatusInternalServerError)
	}
}

// decodeBody decodes a typed request body, rejecting unknown fields so
// malformed payloads fail before reaching the store.
func decodeBody(r *http.Request, dst interface{}) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	return dec.Decode(dst)
}
