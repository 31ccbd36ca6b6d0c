package config

import (
	"fmt"
	"os"
	"reflect"
	"sync"
)

var cfg *Config
var once sync.Once

// Config is the configuration for the application
type Config struct {
	Server
	PostgreSQL
	Monnify
	Frontend
	Auth
	Sweep
}

// Server is the configuration for the server
type Server struct {
	Port string `env:"PORT" envDefault:"8080"`
	// PublicBaseURL is the externally reachable base URL of this service,
	// used as the redirect target handed to the payment provider.
	PublicBaseURL string `env:"PUBLIC_BASE_URL" envDefault:"http://localhost:8080"`
}

// Addr returns the address for the server
func (s Server) Addr() string {
	return fmt.Sprintf("%s:%s", "0.0.0.0", s.Port)
}

// PostgreSQL is the configuration for the database
type PostgreSQL struct {
	Driver          string `env:"DB_DRIVER" envDefault:"postgres"`
	Host            string `env:"DB_HOST" envDefault:"localhost"`
	Port            string `env:"DB_PORT" envDefault:"5432"`
	Database        string `env:"DB_DATABASE" envDefault:"party_currency"`
	Username        string `env:"DB_USERNAME" envDefault:"party_currency"`
	Password        string `env:"DB_PASSWORD" envDefault:"party_currency"`
	SSLMode         string `env:"DB_SSLMODE" envDefault:"disable"`
	MaxConnAttempts string `env:"DB_MAX_CONN_ATTEMPTS" envDefault:"5"`
}

// DSN returns the DSN for the database
func (c PostgreSQL) DSN() string {
	return fmt.Sprintf("%s://%s:%s@%s:%s/%s?sslmode=%s",
		c.Driver,
		c.Username,
		c.Password,
		c.Host,
		c.Port,
		c.Database,
		c.SSLMode,
	)
}

// Monnify is the configuration for the payment provider
type Monnify struct {
	BaseURL        string `env:"MONNIFY_BASE_URL" envDefault:"https://sandbox.monnify.com"`
	APIKey         string `env:"MONNIFY_API_KEY" envDefault:""`
	SecretKey      string `env:"MONNIFY_SECRET_KEY" envDefault:""`
	ContractCode   string `env:"MONNIFY_CONTRACT_CODE" envDefault:""`
	TimeoutSeconds string `env:"MONNIFY_TIMEOUT_SECONDS" envDefault:"30"`
}

// Frontend holds the base URL the callback handler redirects end users to
type Frontend struct {
	BaseURL string `env:"FRONTEND_BASE_URL" envDefault:"http://localhost:5173"`
}

// Auth is the configuration for token issuance and validation
type Auth struct {
	JWTSecret     string `env:"JWT_SECRET" envDefault:"party-currency-dev-secret"`
	TokenTTLHours string `env:"TOKEN_TTL_HOURS" envDefault:"24"`
}

// Sweep is the configuration for the pending-reconciliation sweeper
type Sweep struct {
	IntervalMinutes string `env:"SWEEP_INTERVAL_MINUTES" envDefault:"10"`
	MaxAgeMinutes   string `env:"SWEEP_MAX_AGE_MINUTES" envDefault:"30"`
	BatchSize       string `env:"SWEEP_BATCH_SIZE" envDefault:"50"`
}

// Load loads the configuration from environment variables
func Load() *Config {
	once.Do(func() {
		cfg = &Config{}
		cfgType := reflect.TypeOf(*cfg)
		cfgValue := reflect.ValueOf(cfg).Elem()

		for i := 0; i < cfgType.NumField(); i++ {
			field := cfgType.Field(i)
			fieldValue := cfgValue.Field(i)
			for j := 0; j < field.Type.NumField(); j++ {
				subField := field.Type.Field(j)
				envVar := subField.Tag.Get("env")
				envDefault := subField.Tag.Get("envDefault")
				value := getEnv(envVar, envDefault)

				fieldValue.Field(j).SetString(value)
			}
		}
	})

	return cfg
}

// getEnv retrieves the value of the environment variable named by the key or returns the defaultValue if not set
func getEnv(key, defaultValue string) string {
	value, exists := os.LookupEnv(key)
	if !exists {
		value = defaultValue
	}
	return value
}
