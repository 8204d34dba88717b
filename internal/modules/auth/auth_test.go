package auth

import (
	"testing"

	appcfg "github.com/folio-space/core/internal/config"
	"golang.org/x/crypto/bcrypt"
)

func TestLogin(t *testing.T) {
	hash, err := bcrypt.GenerateFromPassword([]byte("hunter2"), bcrypt.MinCost)
	if err != nil {
		t.Fatal(err)
	}
	cfg := &appcfg.AppConfig{}
	cfg.AdminPassword.BcryptHash = string(hash)
	svc := NewService(cfg)

	token, err := svc.Login("hunter2")
	if err != nil {
		t.Fatal(err)
	}
	if token == "" {
		t.Fatal("empty token")
	}

	if _, err := svc.Login("wrong"); err == nil {
		t.Fatal("wrong password accepted")
	}
}

func TestLoginUnconfigured(t *testing.T) {
	svc := NewService(&appcfg.AppConfig{})
	if _, err := svc.Login("anything"); err == nil {
		t.Fatal("unconfigured login must fail")
	}
}
