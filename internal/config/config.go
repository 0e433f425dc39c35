package config

import (
	"context"
	"fmt"

	"github.com/sethvargo/go-envconfig"
)

type Config struct {
	Port       string `env:"PORT,       default=8080"`
	LogLevel   string `env:"LOG_LEVEL,  default=info"`
	LogPretty  bool   `env:"LOG_PRETTY, default=true"`
	UploadsDir string `env:"UPLOADS_DIR, default=uploads"`
	// Only this origin may call the API from a browser.
	CORSAllowedOrigin string `env:"CORS_ALLOWED_ORIGIN, default=http://localhost:4200"`
	MaxUploadBytes    int64  `env:"MAX_UPLOAD_BYTES,    default=10485760"`

	Database DatabaseConfig
}

type DatabaseConfig struct {
	Driver     string `env:"DB_DRIVER,      default=postgres"`
	Host       string `env:"DB_HOST,        default=localhost"`
	Port       string `env:"DB_PORT,        default=5432"`
	User       string `env:"DB_USER,        default=clients_user"`
	Password   string `env:"DB_PASSWORD,    default=clients_password"`
	Name       string `env:"DB_NAME,        default=clients_db"`
	SSLMode    string `env:"DB_SSLMODE,     default=disable"`
	Path       string `env:"DB_PATH,        default=clients.db"` // SQLite file
	SchemaPath string `env:"DB_SCHEMA_PATH"`
}

// Load reads configuration from environment variables.
func Load(ctx context.Context) (*Config, error) {
	return LoadWith(ctx, envconfig.OsLookuper())
}

// LoadWith reads configuration from the given lookuper.
func LoadWith(ctx context.Context, lookuper envconfig.Lookuper) (*Config, error) {
	var cfg Config
	if err := envconfig.ProcessWith(ctx, &envconfig.Config{
		Target:   &cfg,
		Lookuper: lookuper,
	}); err != nil {
		return nil, fmt.Errorf("config: failed to load configuration: %w", err)
	}
	if cfg.MaxUploadBytes <= 0 {
		return nil, fmt.Errorf("config: MAX_UPLOAD_BYTES must be positive, got %d", cfg.MaxUploadBytes)
	}
	return &cfg, nil
}
