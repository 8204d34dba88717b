package config

import (
	"fmt"
	"net"
	neturl "net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const (
	// DefaultConfigPath is used when --config is not provided.
	DefaultConfigPath = "config.yml"

	defaultPort       = 2333
	defaultEnv        = "development"
	defaultDBHost     = "127.0.0.1"
	defaultDBPort     = 3306
	defaultDBUser     = "root"
	defaultDBPassword = "password"
	defaultDBName     = "folio"
	defaultDBCharset  = "utf8mb4"
	defaultDBLoc      = "Local"
	defaultRedisHost  = "localhost"
	defaultRedisPort  = 6379
	defaultLocalesDir = "locales"
	defaultDataDir    = "data"
	defaultCVDocument = "cv.json"
	defaultCVSchema   = "cv.schema.json"
	defaultLanguage   = "en"
	defaultSiteTitle  = "Portfolio"
)

// Load reads the YAML config file, applies env overrides and defaults.
// A missing file is not an error: env + defaults still produce a usable config.
func Load(path string) (*AppConfig, error) {
	_ = godotenv.Load()

	cfg := &AppConfig{}
	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config %s: %w", path, err)
		}
	case os.IsNotExist(err):
		// fall through to env/defaults
	default:
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}

	applyEnvOverrides(cfg)
	applyDefaults(cfg)
	return cfg, nil
}

// IsDev reports whether the app runs in development mode.
func (c *AppConfig) IsDev() bool {
	return strings.EqualFold(strings.TrimSpace(c.Env), "development") || strings.EqualFold(strings.TrimSpace(c.Env), "dev")
}

// DatabaseDSN resolves the effective MySQL DSN.
func (c *AppConfig) DatabaseDSN() string {
	if v := strings.TrimSpace(c.DSN); v != "" {
		return v
	}
	return c.Database.DSNValue()
}

// RedisAddr resolves the effective Redis URL.
func (c *AppConfig) RedisAddr() string {
	if v := strings.TrimSpace(c.RedisURL); v != "" {
		return v
	}
	return c.Redis.URLValue()
}

// LocalesDir resolves the translation files directory.
func (c *AppConfig) LocalesDir() string {
	return resolveRuntimePath(c.Paths.Locales, defaultLocalesDir)
}

// CVDocumentPath resolves the CV document location.
func (c *AppConfig) CVDocumentPath() string {
	if v := strings.TrimSpace(c.CV.DocumentPath); v != "" {
		return resolveRuntimePath(v, "")
	}
	return filepath.Join(resolveRuntimePath(c.Paths.Data, defaultDataDir), defaultCVDocument)
}

// CVSchemaPath resolves the companion schema location.
func (c *AppConfig) CVSchemaPath() string {
	if v := strings.TrimSpace(c.CV.SchemaPath); v != "" {
		return resolveRuntimePath(v, "")
	}
	return filepath.Join(resolveRuntimePath(c.Paths.Data, defaultDataDir), defaultCVSchema)
}

func applyEnvOverrides(cfg *AppConfig) {
	if v := strings.TrimSpace(os.Getenv("FOLIO_PORT")); v != "" {
		if p, err := strconv.Atoi(v); err == nil {
			cfg.Port = p
		}
	}
	if v := strings.TrimSpace(os.Getenv("FOLIO_ENV")); v != "" {
		cfg.Env = v
	}
	if v := strings.TrimSpace(os.Getenv("FOLIO_DSN")); v != "" {
		cfg.DSN = v
	}
	if v := strings.TrimSpace(os.Getenv("FOLIO_REDIS_URL")); v != "" {
		cfg.RedisURL = v
	}
	if v := strings.TrimSpace(os.Getenv("FOLIO_JWT_SECRET")); v != "" {
		cfg.JWTSecret = v
	}
	if v := strings.TrimSpace(os.Getenv("FOLIO_ADMIN_PASSWORD_HASH")); v != "" {
		cfg.AdminPassword.BcryptHash = v
	}
	if v := strings.TrimSpace(os.Getenv("FOLIO_AI_API_KEY")); v != "" {
		// Convenience for single-provider deployments.
		if len(cfg.AI.Providers) == 0 {
			cfg.AI.Providers = []AIProvider{{ID: "default", Name: "default", Type: "openai", Enabled: true}}
		}
		cfg.AI.Providers[0].APIKey = v
	}
}

func applyDefaults(cfg *AppConfig) {
	if cfg.Port == 0 {
		cfg.Port = defaultPort
	}
	if strings.TrimSpace(cfg.Env) == "" {
		cfg.Env = defaultEnv
	}
	if strings.TrimSpace(cfg.I18N.DefaultLanguage) == "" {
		cfg.I18N.DefaultLanguage = defaultLanguage
	}
	if strings.TrimSpace(cfg.Site.Title) == "" {
		cfg.Site.Title = defaultSiteTitle
	}
}

// DSNValue builds a MySQL DSN from discrete fields when no explicit DSN is set.
func (c DatabaseRuntimeConfig) DSNValue() string {
	if v := strings.TrimSpace(c.DSN); v != "" {
		return v
	}
	if v := strings.TrimSpace(c.URL); v != "" {
		return v
	}

	host := strings.TrimSpace(c.Host)
	if host == "" {
		host = defaultDBHost
	}
	port := c.Port
	if port == 0 {
		port = defaultDBPort
	}
	user := strings.TrimSpace(c.User)
	if user == "" {
		user = strings.TrimSpace(c.Username)
	}
	if user == "" {
		user = defaultDBUser
	}
	password := strings.TrimSpace(c.Password)
	if password == "" {
		password = defaultDBPassword
	}
	name := strings.TrimSpace(c.Name)
	if name == "" {
		name = strings.TrimSpace(c.DBName)
	}
	if name == "" {
		name = defaultDBName
	}
	charset := strings.TrimSpace(c.Charset)
	if charset == "" {
		charset = defaultDBCharset
	}
	loc := strings.TrimSpace(c.Loc)
	if loc == "" {
		loc = defaultDBLoc
	}

	params := neturl.Values{}
	for key, value := range c.Params {
		k := strings.TrimSpace(key)
		v := strings.TrimSpace(value)
		if k != "" && v != "" {
			params.Set(k, v)
		}
	}
	if params.Get("charset") == "" {
		params.Set("charset", charset)
	}
	if params.Get("parseTime") == "" {
		params.Set("parseTime", "True")
	}
	if params.Get("loc") == "" {
		params.Set("loc", loc)
	}

	return fmt.Sprintf("%s:%s@tcp(%s)/%s?%s",
		user, password, net.JoinHostPort(host, strconv.Itoa(port)), name, params.Encode())
}

// URLValue builds a Redis URL from discrete fields when no explicit URL is set.
func (c RedisRuntimeConfig) URLValue() string {
	if v := strings.TrimSpace(c.URL); v != "" {
		return v
	}

	host := strings.TrimSpace(c.Host)
	if host == "" {
		host = defaultRedisHost
	}
	port := c.Port
	if port == 0 {
		port = defaultRedisPort
	}

	scheme := "redis"
	if c.TLS {
		scheme = "rediss"
	}

	u := neturl.URL{
		Scheme: scheme,
		Host:   net.JoinHostPort(host, strconv.Itoa(port)),
		Path:   "/" + strconv.Itoa(c.DB),
	}
	if strings.TrimSpace(c.Password) != "" {
		u.User = neturl.UserPassword(strings.TrimSpace(c.Username), strings.TrimSpace(c.Password))
	}
	return u.String()
}

func resolveRuntimePath(raw, fallbackSubdir string) string {
	target := strings.TrimSpace(raw)
	if target == "" {
		target = strings.TrimSpace(fallbackSubdir)
		if target == "" {
			return "."
		}
	}
	if filepath.IsAbs(target) {
		return filepath.Clean(target)
	}
	wd, err := os.Getwd()
	if err != nil {
		wd = "."
	}
	return filepath.Clean(filepath.Join(wd, target))
}
