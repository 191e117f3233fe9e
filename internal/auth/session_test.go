package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const testSecret = "test-secret"

func TestMintAndParseSessionToken(t *testing.T) {
	token, err := MintSessionToken("account-1", "user@example.com", testSecret, time.Hour)
	if err != nil {
		t.Fatalf("MintSessionToken() error = %v", err)
	}

	claims, err := ParseSessionToken(token, testSecret)
	if err != nil {
		t.Fatalf("ParseSessionToken() error = %v", err)
	}
	if claims.AccountID != "account-1" {
		t.Errorf("AccountID = %v, want account-1", claims.AccountID)
	}
	if claims.Email != "user@example.com" {
		t.Errorf("Email = %v, want user@example.com", claims.Email)
	}
}

func TestParseSessionToken_WrongSecret(t *testing.T) {
	token, err := MintSessionToken("account-1", "", testSecret, time.Hour)
	if err != nil {
		t.Fatalf("MintSessionToken() error = %v", err)
	}

	if _, err := ParseSessionToken(token, "other-secret"); err == nil {
		t.Error("ParseSessionToken() should reject a token signed with a different secret")
	}
}

func TestParseSessionToken_Expired(t *testing.T) {
	token, err := MintSessionToken("account-1", "", testSecret, -time.Minute)
	if err != nil {
		t.Fatalf("MintSessionToken() error = %v", err)
	}

	if _, err := ParseSessionToken(token, testSecret); err == nil {
		t.Error("ParseSessionToken() should reject an expired token")
	}
}

func TestParseSessionToken_WrongAlgorithm(t *testing.T) {
	token := jwt.NewWithClaims(jwt.SigningMethodNone, Claims{
		AccountID: "account-1",
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	})
	signed, err := token.SignedString(jwt.UnsafeAllowNoneSignatureType)
	if err != nil {
		t.Fatalf("SignedString() error = %v", err)
	}

	if _, err := ParseSessionToken(signed, testSecret); err == nil {
		t.Error("ParseSessionToken() should reject a token not signed with HS256")
	}
}

func TestParseSessionToken_Garbage(t *testing.T) {
	if _, err := ParseSessionToken("not-a-jwt", testSecret); err == nil {
		t.Error("ParseSessionToken() should reject garbage input")
	}
}

func TestIssueCookie(t *testing.T) {
	rec := httptest.NewRecorder()
	IssueCookie(rec, "token-value", 24*time.Hour, true)

	cookies := rec.Result().Cookies()
	if len(cookies) != 1 {
		t.Fatalf("expected 1 cookie, got %d", len(cookies))
	}

	c := cookies[0]
	if c.Name != CookieName {
		t.Errorf("cookie name = %v, want %v", c.Name, CookieName)
	}
	if c.Value != "token-value" {
		t.Errorf("cookie value = %v, want token-value", c.Value)
	}
	if c.Path != "/" {
		t.Errorf("cookie path = %v, want /", c.Path)
	}
	if c.MaxAge != 86400 {
		t.Errorf("cookie max-age = %d, want 86400", c.MaxAge)
	}
	if !c.HttpOnly {
		t.Error("cookie must be HttpOnly")
	}
	if !c.Secure {
		t.Error("cookie must be Secure when requested")
	}
	if c.SameSite != http.SameSiteLaxMode {
		t.Errorf("cookie SameSite = %v, want Lax", c.SameSite)
	}
}

func TestClearCookie(t *testing.T) {
	rec := httptest.NewRecorder()
	ClearCookie(rec, false)

	cookies := rec.Result().Cookies()
	if len(cookies) != 1 {
		t.Fatalf("expected 1 cookie, got %d", len(cookies))
	}

	c := cookies[0]
	if c.Name != CookieName {
		t.Errorf("cookie name = %v, want %v", c.Name, CookieName)
	}
	if c.Value != "" {
		t.Errorf("cleared cookie should have empty value, got %v", c.Value)
	}
	if c.MaxAge >= 0 {
		t.Errorf("cleared cookie max-age = %d, want negative", c.MaxAge)
	}
}
