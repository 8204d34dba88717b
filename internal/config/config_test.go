package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yml"))
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Port != 2333 {
		t.Errorf("Port = %d", cfg.Port)
	}
	if !cfg.IsDev() {
		t.Error("default env must be development")
	}
	if cfg.I18N.DefaultLanguage != "en" {
		t.Errorf("DefaultLanguage = %q", cfg.I18N.DefaultLanguage)
	}
}

func TestLoadYAMLAndEnvOverride(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yml")
	body := "port: 8080\nenv: production\nsite:\n  owner_name: Ada Example\n"
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	t.Setenv("FOLIO_PORT", "9090")

	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Port != 9090 {
		t.Errorf("env override lost, Port = %d", cfg.Port)
	}
	if cfg.IsDev() {
		t.Error("env = production must not be dev")
	}
	if cfg.Site.OwnerName != "Ada Example" {
		t.Errorf("OwnerName = %q", cfg.Site.OwnerName)
	}
}

func TestDatabaseDSNFromParts(t *testing.T) {
	c := DatabaseRuntimeConfig{Host: "db.internal", Port: 3307, User: "folio", Password: "s3cret", Name: "folio_prod"}
	dsn := c.DSNValue()
	for _, want := range []string{"folio:s3cret@tcp(db.internal:3307)/folio_prod", "parseTime=True", "charset=utf8mb4"} {
		if !strings.Contains(dsn, want) {
			t.Errorf("dsn %q missing %q", dsn, want)
		}
	}
}

func TestRedisURLFromParts(t *testing.T) {
	c := RedisRuntimeConfig{Host: "cache.internal", Port: 6380, DB: 2, Password: "pw", TLS: true}
	url := c.URLValue()
	if !strings.HasPrefix(url, "rediss://") {
		t.Errorf("url = %q", url)
	}
	if !strings.Contains(url, "cache.internal:6380/2") {
		t.Errorf("url = %q", url)
	}
}

func TestCVPathsDefaultUnderDataDir(t *testing.T) {
	cfg := &AppConfig{}
	applyDefaults(cfg)
	if !strings.HasSuffix(cfg.CVDocumentPath(), filepath.Join("data", "cv.json")) {
		t.Errorf("CVDocumentPath = %q", cfg.CVDocumentPath())
	}
	if !strings.HasSuffix(cfg.CVSchemaPath(), filepath.Join("data", "cv.schema.json")) {
		t.Errorf("CVSchemaPath = %q", cfg.CVSchemaPath())
	}
}
