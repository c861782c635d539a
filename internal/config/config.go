package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/joho/godotenv"

	"github.com/basel-ax/ailogo/internal/logger"
)

// Sink names accepted in SINK.
const (
	SinkLog       = "log"
	SinkFirestore = "firestore"
	SinkPostgres  = "postgres"
)

// DefaultGenerationBaseURL is the cloud function that serves /generate-image.
const DefaultGenerationBaseURL = "https://us-central1-feraset-case-120ad.cloudfunctions.net/api"

// Validation errors returned by Load and Validate.
var (
	ErrUnknownSink         = errors.New("unknown sink")
	ErrMissingBaseURL      = errors.New("GENERATION_BASE_URL is required")
	ErrMissingFirebase     = errors.New("FIREBASE_PROJECT_ID or FIREBASE_CREDENTIALS_PATH is required for the firestore sink")
	ErrMissingDBConnection = errors.New("DB_HOST, DB_USER and DB_NAME are required for the postgres sink")
)

// DBConfig holds database configuration
type DBConfig struct {
	Host            string        `env:"DB_HOST"`
	Port            int           `env:"DB_PORT" env-default:"5432"`
	User            string        `env:"DB_USER"`
	Password        string        `env:"DB_PASSWORD"`
	Database        string        `env:"DB_NAME"`
	SSLMode         string        `env:"DB_SSL_MODE" env-default:"disable"`
	MaxOpenConns    int           `env:"DB_MAX_OPEN_CONNS" env-default:"5"`
	MaxIdleConns    int           `env:"DB_MAX_IDLE_CONNS" env-default:"5"`
	ConnMaxLifetime time.Duration `env:"DB_CONN_MAX_LIFETIME" env-default:"5m"`
}

// FirestoreConfig holds the Firebase project used by the firestore sink.
type FirestoreConfig struct {
	ProjectID       string `env:"FIREBASE_PROJECT_ID"`
	CredentialsPath string `env:"FIREBASE_CREDENTIALS_PATH"`
	Collection      string `env:"FIRESTORE_COLLECTION" env-default:"images"`
}

// Config holds all configuration for the application
type Config struct {
	AppEnv string `env:"APP_ENV" env-default:"development"`

	// Empty means DefaultGenerationBaseURL.
	GenerationBaseURL string `env:"GENERATION_BASE_URL"`
	// Zero means the transport waits indefinitely.
	GenerationTimeout time.Duration `env:"GENERATION_HTTP_TIMEOUT" env-default:"120s"`

	// UserID is stamped on every persisted image record.
	UserID string `env:"USER_ID" env-default:"12345"`

	Sink           string `env:"SINK" env-default:"log"`
	PushGatewayURL string `env:"PUSHGATEWAY_URL"`

	Logger    logger.Config
	Firestore FirestoreConfig
	DB        DBConfig
}

// Load loads the configuration from the environment, reading a .env file first when present.
func Load() (*Config, error) {
	// A missing .env is fine, the process environment still applies.
	_ = godotenv.Load()

	var cfg Config
	if err := cleanenv.ReadEnv(&cfg); err != nil {
		return nil, fmt.Errorf("error reading environment: %w", err)
	}
	if cfg.GenerationBaseURL == "" {
		cfg.GenerationBaseURL = DefaultGenerationBaseURL
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate checks the sink-specific requirements.
func (c *Config) Validate() error {
	if c.GenerationBaseURL == "" {
		return ErrMissingBaseURL
	}

	switch c.Sink {
	case SinkLog:
	case SinkFirestore:
		if c.Firestore.ProjectID == "" && c.Firestore.CredentialsPath == "" {
			return ErrMissingFirebase
		}
	case SinkPostgres:
		if c.DB.Host == "" || c.DB.User == "" || c.DB.Database == "" {
			return ErrMissingDBConnection
		}
	default:
		return fmt.Errorf("%w: %q", ErrUnknownSink, c.Sink)
	}

	return nil
}

// GetDSN returns the PostgreSQL connection string
func (c *Config) GetDSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.DB.Host, c.DB.Port, c.DB.User, c.DB.Password, c.DB.Database, c.DB.SSLMode)
}
