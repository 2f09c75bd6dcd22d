package config // package config loads application configuration from environment variables

import (
    "fmt" // fmt wraps parse errors with context
    "log" // log is used to report configuration errors and halt execution

    "github.com/caarlos0/env/v11" // env maps environment variables onto tagged struct fields
)

// Supported values for DB_DRIVER.
const (
    DriverMySQL  = "mysql"
    DriverSQLite = "sqlite"
)

// Config holds all runtime configuration values.  Each field corresponds to
// an environment variable.  The types reflect how the values are used in
// the application: strings for identifiers and secrets, ints for durations and costs.
type Config struct {
    Env            string `env:"APP_ENV" envDefault:"dev"`                 // application environment (e.g. "dev", "prod")
    Port           string `env:"APP_PORT" envDefault:"8080"`               // HTTP port to listen on
    DBDriver       string `env:"DB_DRIVER" envDefault:"mysql"`             // mysql or sqlite
    DBUser         string `env:"DB_USER"`                                  // database username (mysql)
    DBPass         string `env:"DB_PASS"`                                  // database password (optional)
    DBHost         string `env:"DB_HOST" envDefault:"127.0.0.1"`           // database host address
    DBPort         string `env:"DB_PORT" envDefault:"3306"`                // database port number
    DBName         string `env:"DB_NAME" envDefault:"fixsewa"`             // database name
    SQLitePath     string `env:"SQLITE_PATH" envDefault:"fixsewa.db"`      // database file when DB_DRIVER=sqlite
    JWTSecret      string `env:"JWT_SECRET,required,notEmpty"`             // secret used to sign JWTs
    AccessTTLMin   int    `env:"ACCESS_TOKEN_TTL_MIN" envDefault:"15"`     // access token time‑to‑live in minutes
    RefreshTTLDays int    `env:"REFRESH_TOKEN_TTL_DAYS" envDefault:"7"`    // refresh token time‑to‑live in days
    BcryptCost     int    `env:"BCRYPT_COST" envDefault:"10"`              // bcrypt cost for password hashing
}

// Parse reads the environment into a Config and checks the values that
// depend on each other.  It never exits; Load is the fatal variant used
// by the server entry point.
func Parse() (Config, error) {
    var cfg Config
    if err := env.Parse(&cfg); err != nil {
        return Config{}, fmt.Errorf("parse env: %w", err)
    }
    switch cfg.DBDriver {
    case DriverMySQL:
        if cfg.DBUser == "" {
            return Config{}, fmt.Errorf("DB_USER is required when DB_DRIVER=%s", DriverMySQL)
        }
    case DriverSQLite:
        if cfg.SQLitePath == "" {
            return Config{}, fmt.Errorf("SQLITE_PATH is required when DB_DRIVER=%s", DriverSQLite)
        }
    default:
        return Config{}, fmt.Errorf("unsupported DB_DRIVER %q", cfg.DBDriver)
    }
    if cfg.AccessTTLMin <= 0 || cfg.RefreshTTLDays <= 0 {
        return Config{}, fmt.Errorf("token TTLs must be positive")
    }
    // bcrypt accepts costs 4..31
    if cfg.BcryptCost < 4 || cfg.BcryptCost > 31 {
        return Config{}, fmt.Errorf("invalid BCRYPT_COST %d", cfg.BcryptCost)
    }
    return cfg, nil
}

// Load reads configuration values from environment variables and returns a
// Config.  Missing or malformed values cause the program to exit with a
// fatal log message.
func Load() Config {
    cfg, err := Parse()
    if err != nil {
        log.Fatalf("config: %v", err)
    }
    return cfg
}
