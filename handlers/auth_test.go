package handlers_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cinelist/handlers"
)

func postJSON(t *testing.T, url string, body interface{}) *http.Response {
	t.Helper()

	encoded, err := json.Marshal(body)
	require.NoError(t, err)

	resp, err := http.Post(url, "application/json", bytes.NewReader(encoded))
	require.NoError(t, err)
	return resp
}

func decodeEnvelope(t *testing.T, resp *http.Response) map[string]interface{} {
	t.Helper()
	defer resp.Body.Close()

	var decoded map[string]interface{}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&decoded))
	return decoded
}

func sessionCookie(resp *http.Response) *http.Cookie {
	for _, cookie := range resp.Cookies() {
		if cookie.Name == handlers.SessionCookieName {
			return cookie
		}
	}
	return nil
}

func TestSignupIssuesSession(t *testing.T) {
	srv := newTestServer(t)

	resp := postJSON(t, srv.URL+"/auth/signup", map[string]string{
		"name": "Movie Buff", "email": "buff@example.com", "password": "s3cret-pass",
	})
	body := decodeEnvelope(t, resp)

	require.Equal(t, http.StatusCreated, resp.StatusCode)
	assert.Equal(t, "success", body["status"])

	user := body["data"].(map[string]interface{})["user"].(map[string]interface{})
	assert.Equal(t, "buff@example.com", user["email"])
	assert.NotEmpty(t, user["id"])

	cookie := sessionCookie(resp)
	require.NotNil(t, cookie, "signup must set the session cookie")
	assert.True(t, cookie.HttpOnly)

	// The issued session authenticates checkauth
	req, err := http.NewRequest(http.MethodGet, srv.URL+"/auth/checkauth", nil)
	require.NoError(t, err)
	req.AddCookie(cookie)
	checkResp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	checkBody := decodeEnvelope(t, checkResp)
	assert.Equal(t, http.StatusOK, checkResp.StatusCode)
	assert.Equal(t, "success", checkBody["status"])
}

func TestSignupValidation(t *testing.T) {
	srv := newTestServer(t)

	resp := postJSON(t, srv.URL+"/auth/signup", map[string]string{"email": "buff@example.com"})
	body := decodeEnvelope(t, resp)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "fail", body["status"])
}

func TestLoginFlow(t *testing.T) {
	srv := newTestServer(t)

	resp := postJSON(t, srv.URL+"/auth/signup", map[string]string{
		"name": "Movie Buff", "email": "buff@example.com", "password": "s3cret-pass",
	})
	decodeEnvelope(t, resp)

	resp = postJSON(t, srv.URL+"/auth/login", map[string]string{
		"email": "buff@example.com", "password": "s3cret-pass",
	})
	body := decodeEnvelope(t, resp)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "success", body["status"])
	assert.NotNil(t, sessionCookie(resp))

	resp = postJSON(t, srv.URL+"/auth/login", map[string]string{
		"email": "buff@example.com", "password": "wrong",
	})
	body = decodeEnvelope(t, resp)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, "fail", body["status"])
}

func TestDuplicateSignupConflicts(t *testing.T) {
	srv := newTestServer(t)

	resp := postJSON(t, srv.URL+"/auth/signup", map[string]string{
		"name": "First", "email": "buff@example.com", "password": "pass-one",
	})
	decodeEnvelope(t, resp)

	resp = postJSON(t, srv.URL+"/auth/signup", map[string]string{
		"name": "Second", "email": "buff@example.com", "password": "pass-two",
	})
	body := decodeEnvelope(t, resp)
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	assert.Equal(t, "fail", body["status"])
}

func TestLogoutClearsCookie(t *testing.T) {
	srv := newTestServer(t)

	resp, err := http.Get(srv.URL + "/auth/logout")
	require.NoError(t, err)
	body := decodeEnvelope(t, resp)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "success", body["status"])

	cookie := sessionCookie(resp)
	require.NotNil(t, cookie)
	assert.Empty(t, cookie.Value)
	assert.Equal(t, -1, cookie.MaxAge)
}
