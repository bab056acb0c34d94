package auth

import (
	"testing"

	"github.com/google/uuid"
)

func TestIssueAndVerify(t *testing.T) {
	issuer := NewTokenIssuer("test-secret")
	userID := uuid.New()

	pair, err := issuer.Issue(userID, "moderator")
	if err != nil {
		t.Fatalf("Issue failed: %v", err)
	}
	if pair.AccessToken == "" || pair.RefreshToken == "" {
		t.Fatal("Expected both tokens to be set")
	}

	claims, err := issuer.Verify(pair.AccessToken)
	if err != nil {
		t.Fatalf("Verify failed: %v", err)
	}
	if claims.UserID != userID {
		t.Errorf("Expected user ID %s, got %s", userID, claims.UserID)
	}
	if claims.Role != "moderator" {
		t.Errorf("Expected role moderator, got %s", claims.Role)
	}
	if claims.Subject != "access" {
		t.Errorf("Expected access subject, got %s", claims.Subject)
	}
}

func TestVerifyBearerPrefix(t *testing.T) {
	issuer := NewTokenIssuer("test-secret")
	pair, err := issuer.Issue(uuid.New(), "user")
	if err != nil {
		t.Fatalf("Issue failed: %v", err)
	}

	if _, err := issuer.Verify("Bearer " + pair.AccessToken); err != nil {
		t.Errorf("Verify with Bearer prefix failed: %v", err)
	}
}

func TestVerifyRejectsWrongSecret(t *testing.T) {
	pair, err := NewTokenIssuer("secret-a").Issue(uuid.New(), "user")
	if err != nil {
		t.Fatalf("Issue failed: %v", err)
	}

	if _, err := NewTokenIssuer("secret-b").Verify(pair.AccessToken); err == nil {
		t.Error("Expected verification to fail with a different secret")
	}
}

func TestRefreshRequiresRefreshToken(t *testing.T) {
	issuer := NewTokenIssuer("test-secret")
	userID := uuid.New()

	pair, err := issuer.Issue(userID, "user")
	if err != nil {
		t.Fatalf("Issue failed: %v", err)
	}

	// Access tokens cannot be used to refresh
	if _, err := issuer.Refresh(pair.AccessToken); err == nil {
		t.Error("Expected refresh with an access token to fail")
	}

	fresh, err := issuer.Refresh(pair.RefreshToken)
	if err != nil {
		t.Fatalf("Refresh failed: %v", err)
	}

	claims, err := issuer.Verify(fresh.AccessToken)
	if err != nil {
		t.Fatalf("Verify of refreshed token failed: %v", err)
	}
	if claims.UserID != userID {
		t.Errorf("Refreshed token carries wrong user: %s", claims.UserID)
	}
}
