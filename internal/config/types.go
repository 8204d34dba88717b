package config

// AppConfig holds runtime startup configuration loaded from YAML.
type AppConfig struct {
	Port           int                   `yaml:"port"`
	DSN            string                `yaml:"dsn"` // MySQL DSN
	RedisURL       string                `yaml:"redis_url"`
	Database       DatabaseRuntimeConfig `yaml:"database"`
	Redis          RedisRuntimeConfig    `yaml:"redis"`
	Env            string                `yaml:"env"` // "development" | "production"
	Paths          RuntimePathsConfig    `yaml:"paths"`
	AllowedOrigins []string              `yaml:"allowed_origins"`
	JWTSecret      string                `yaml:"jwt_secret"`
	AdminPassword  AdminPasswordConfig   `yaml:"admin_password"`
	Site           SiteConfig            `yaml:"site"`
	I18N           I18NConfig            `yaml:"i18n"`
	CV             CVConfig              `yaml:"cv"`
	AI             AIConfig              `yaml:"ai"`
}

type DatabaseRuntimeConfig struct {
	DSN      string            `yaml:"dsn"`
	URL      string            `yaml:"url"`
	Host     string            `yaml:"host"`
	Port     int               `yaml:"port"`
	User     string            `yaml:"user"`
	Username string            `yaml:"username"`
	Password string            `yaml:"password"`
	Name     string            `yaml:"name"`
	DBName   string            `yaml:"db_name"`
	Charset  string            `yaml:"charset"`
	Loc      string            `yaml:"loc"`
	Params   map[string]string `yaml:"params"`
}

type RedisRuntimeConfig struct {
	URL      string `yaml:"url"`
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	Username string `yaml:"username"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
	TLS      bool   `yaml:"tls"`
}

type RuntimePathsConfig struct {
	Locales string `yaml:"locales"` // directory of <lang>.json translation files
	Data    string `yaml:"data"`    // directory holding cv.json / cv.schema.json
}

// AdminPasswordConfig holds the bcrypt hash used for the admin login.
type AdminPasswordConfig struct {
	BcryptHash string `yaml:"bcrypt_hash"`
}

type SiteConfig struct {
	Title       string `yaml:"title"`
	OwnerName   string `yaml:"owner_name"` // persona the chat bot speaks as
	WebURL      string `yaml:"web_url"`
	Description string `yaml:"description"`
}

type I18NConfig struct {
	DefaultLanguage string `yaml:"default_language"`
	RemoteBaseURL   string `yaml:"remote_base_url"` // optional; overrides the locales dir
}

type CVConfig struct {
	DocumentPath string `yaml:"document_path"`
	SchemaPath   string `yaml:"schema_path"`
}

// AIConfig configures the generation pipeline.
type AIConfig struct {
	Providers        []AIProvider       `yaml:"providers"`
	ChatModel        *AIModelAssignment `yaml:"chat_model,omitempty"`
	FallbackProvider string             `yaml:"fallback_provider"` // provider id used when the primary probe fails
	EnableChat       bool               `yaml:"enable_chat"`
	ExtraDenylist    []string           `yaml:"extra_denylist"` // appended to the built-in hallucination denylist
}

type AIModelAssignment struct {
	ProviderID string `yaml:"provider_id"`
	Model      string `yaml:"model"`
}

type AIProvider struct {
	ID           string `yaml:"id"`
	Name         string `yaml:"name"`
	Type         string `yaml:"type"` // OpenAI | OpenAI-Compatible | Anthropic
	APIKey       string `yaml:"api_key"`
	Endpoint     string `yaml:"endpoint,omitempty"`
	DefaultModel string `yaml:"default_model"`
	Enabled      bool   `yaml:"enabled"`
}
