package utils_test

import (
	"testing"
	"time"

	"cinelist/utils"
)

func TestSessionTokenRoundTrip(t *testing.T) {
	token, err := utils.CreateSessionToken("secret", "user-a", time.Hour)
	if err != nil {
		t.Fatalf("create token returned error: %v", err)
	}

	claims, err := utils.ValidateSessionToken("secret", token)
	if err != nil {
		t.Fatalf("validate token returned error: %v", err)
	}
	if claims.UserID != "user-a" {
		t.Fatalf("expected user id %q, got %q", "user-a", claims.UserID)
	}
}

func TestSessionTokenWrongSecret(t *testing.T) {
	token, err := utils.CreateSessionToken("secret", "user-a", time.Hour)
	if err != nil {
		t.Fatalf("create token returned error: %v", err)
	}

	if _, err := utils.ValidateSessionToken("other-secret", token); err == nil {
		t.Fatalf("expected validation to fail with the wrong secret")
	}
}

func TestSessionTokenExpired(t *testing.T) {
	token, err := utils.CreateSessionToken("secret", "user-a", -time.Minute)
	if err != nil {
		t.Fatalf("create token returned error: %v", err)
	}

	if _, err := utils.ValidateSessionToken("secret", token); err == nil {
		t.Fatalf("expected validation to fail for an expired token")
	}
}

func TestSessionTokenMissing(t *testing.T) {
	if _, err := utils.ValidateSessionToken("secret", ""); err == nil {
		t.Fatalf("expected validation to fail for an empty token")
	}
}
