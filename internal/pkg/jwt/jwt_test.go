package jwt

import (
	"testing"
	"time"
)

func TestSignAndParse(t *testing.T) {
	token, err := Sign("admin", time.Minute)
	if err != nil {
		t.Fatal(err)
	}
	claims, err := Parse(token)
	if err != nil {
		t.Fatal(err)
	}
	if claims.Subject != "admin" {
		t.Fatalf("subject = %q", claims.Subject)
	}
}

func TestParseExpiredToken(t *testing.T) {
	token, err := Sign("admin", -time.Minute)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := Parse(token); err == nil {
		t.Fatal("expired token accepted")
	}
}

func TestParseGarbage(t *testing.T) {
	if _, err := Parse("not-a-token"); err == nil {
		t.Fatal("garbage token accepted")
	}
}
