package utils

import "testing"

func TestSignAndParseJWT(t *testing.T) {
	token, err := SignJWT("secret", "42", "admin", 60)
	if err != nil {
		t.Fatal(err)
	}

	parsed, claims, err := ParseJWT("secret", token)
	if err != nil {
		t.Fatal(err)
	}
	if !parsed.Valid {
		t.Fatal("token should be valid")
	}
	if claims.UserID != "42" || claims.Role != "admin" {
		t.Fatalf("claims mismatch: %+v", claims)
	}
	if claims.ID == "" {
		t.Fatal("expected a JTI for revocation")
	}
}

func TestParseJWTWrongSecret(t *testing.T) {
	token, err := SignJWT("secret", "42", "admin", 60)
	if err != nil {
		t.Fatal(err)
	}
	if _, _, err := ParseJWT("wrong", token); err == nil {
		t.Fatal("expected verification failure")
	}
}

func TestParseJWTExpired(t *testing.T) {
	token, err := SignJWT("secret", "42", "admin", -5)
	if err != nil {
		t.Fatal(err)
	}
	if _, _, err := ParseJWT("secret", token); err == nil {
		t.Fatal("expected expiry failure")
	}
}

// Each token gets its own JTI so revoking one session leaves the
// others alone.
func TestJTIsAreUnique(t *testing.T) {
	a, err := SignJWT("secret", "42", "admin", 60)
	if err != nil {
		t.Fatal(err)
	}
	b, err := SignJWT("secret", "42", "admin", 60)
	if err != nil {
		t.Fatal(err)
	}

	_, ca, err := ParseJWT("secret", a)
	if err != nil {
		t.Fatal(err)
	}
	_, cb, err := ParseJWT("secret", b)
	if err != nil {
		t.Fatal(err)
	}
	if ca.ID == cb.ID {
		t.Fatalf("expected distinct JTIs, both %q", ca.ID)
	}
}
