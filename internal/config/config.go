package config // package config loads application configuration from environment variables

import (
	"log"
	"os"
	"strconv"
	"time"
)

// Config holds all runtime configuration values. Each field corresponds
// to an environment variable; strings for identifiers and secrets, ints
// for costs and durations.
type Config struct {
	Env        string        // application environment (e.g. "dev", "prod")
	Port       string        // HTTP port to listen on
	DBUser     string        // database username
	DBPass     string        // database password (optional)
	DBHost     string        // database host address
	DBPort     string        // database port number
	DBName     string        // database name
	JWTSecret  string        // secret used to sign session tokens
	TokenTTL   time.Duration // session token lifetime
	BcryptCost int           // bcrypt cost for password hashing
	DBMaxOpen  int           // connection pool: max open connections
	DBMaxIdle  int           // connection pool: max idle connections
	DBConnLife time.Duration // connection pool: max connection lifetime
}

// Load reads configuration from environment variables. Required
// variables are enforced by must(); missing values exit with a fatal
// log message. TOKEN_TTL_DAYS defaults to 3 and BCRYPT_COST to 10.
func Load() Config {
	return Config{
		Env:        must("APP_ENV"),
		Port:       must("APP_PORT"),
		DBUser:     must("DB_USER"),
		DBPass:     os.Getenv("DB_PASS"), // empty allowed
		DBHost:     must("DB_HOST"),
		DBPort:     must("DB_PORT"),
		DBName:     must("DB_NAME"),
		JWTSecret:  must("JWT_SECRET"),
		TokenTTL:   time.Duration(intOr("TOKEN_TTL_DAYS", 3)) * 24 * time.Hour,
		BcryptCost: intOr("BCRYPT_COST", 10),
		DBMaxOpen:  intOr("DB_MAX_OPEN_CONNS", 25),
		DBMaxIdle:  intOr("DB_MAX_IDLE_CONNS", 25),
		DBConnLife: time.Duration(intOr("DB_CONN_MAX_LIFETIME_MIN", 30)) * time.Minute,
	}
}

// must retrieves the value of a required environment variable. If the
// variable is unset or empty, the application logs a fatal error and exits.
func must(key string) string {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		log.Fatalf("missing required env var: %s", key)
	}
	return v
}

// intOr converts an optional environment variable into an integer,
// falling back to def when unset or invalid.
func intOr(key string, def int) int {
	s := os.Getenv(key)
	if s == "" {
		return def
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		log.Fatalf("invalid int for %s: %q", key, s)
	}
	return n
}
