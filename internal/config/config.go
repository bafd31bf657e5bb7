package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

// Config contains server configuration parameters.
type Config struct {
	LogLevel    int         `env:"LOG_LEVEL" envDefault:"0"`
	HTTP        HTTP        `envPrefix:"HTTP_"`
	Database    Database    `envPrefix:"DATABASE_"`
	JWT         JWT         `envPrefix:"JWT_"`
	Storage     Storage     `envPrefix:"MINIO_"`
	Recognition Recognition `envPrefix:"RECOGNITION_"`
}

// HTTP contains HTTP server parameters.
type HTTP struct {
	Port               string `env:"PORT" envDefault:"8080"`
	CORSOrigin         string `env:"CORS_ORIGIN" envDefault:"http://localhost:4200"`
	EnableHTTPS        bool   `env:"ENABLE_HTTPS" envDefault:"false"`
	CertFileName       string `env:"CERT_FILE_NAME" envDefault:"cert.pem"`
	PrivateKeyFileName string `env:"PRIVATE_KEY_FILE_NAME" envDefault:"key.pem"`
}

// Database contains database connection parameters. An empty DSN selects
// the in-memory key-value backend.
type Database struct {
	DSN string `env:"DSN" envDefault:""`
}

// JWT contains session token parameters.
type JWT struct {
	Secret string `env:"SECRET" envDefault:"devsecret"`
}

// Storage contains object storage parameters for meal photos. An empty
// endpoint disables object storage; photos are then kept inline.
type Storage struct {
	Endpoint  string `env:"ENDPOINT" envDefault:""`
	AccessKey string `env:"ACCESS_KEY" envDefault:"nutrilog-access-key"`
	SecretKey string `env:"SECRET_KEY" envDefault:"nutrilog-secret-key"`
	Bucket    string `env:"BUCKET_NAME" envDefault:"nutrilog-photos"`
	UseSSL    bool   `env:"USE_SSL" envDefault:"false"`
}

// Recognition contains parameters for the nutrition inference endpoint.
type Recognition struct {
	URL     string        `env:"URL" envDefault:"https://generativelanguage.googleapis.com/v1beta/models/gemini-1.5-flash:generateContent"`
	APIKey  string        `env:"API_KEY" envDefault:""`
	Timeout time.Duration `env:"TIMEOUT" envDefault:"15s"`
}

// NewConfig loads configuration from environment variables.
func NewConfig() (*Config, error) {
	cfg := Config{}
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	return &cfg, nil
}
