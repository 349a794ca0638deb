package config // package config loads application configuration from environment variables

import (
	"log"
	"os"
	"strconv"
	"time"
)

// Config holds all runtime configuration values.  Each field corresponds to
// an environment variable.  The types reflect how the values are used in the
// application: strings for identifiers and secrets, ints for durations and
// costs, and a resolved time.Location for the cinema's timezone.
type Config struct {
	Env          string         // application environment (e.g. "dev", "prod")
	Port         string         // HTTP port to listen on
	DBUser       string         // database username
	DBPass       string         // database password (optional)
	DBHost       string         // database host address
	DBPort       string         // database port number
	DBName       string         // database name
	JWTSecret    string         // secret used to sign JWTs
	AccessTTLMin int            // access token time-to-live in minutes
	BcryptCost   int            // bcrypt cost for password hashing
	CinemaTZ     string         // IANA timezone name the planner schedules in
	Location     *time.Location // resolved CinemaTZ
	EnforceCaps  bool           // switch on the declared per-format daily/room caps
}

// Load reads configuration values from environment variables and returns a
// Config.  Required variables are enforced by must() and missing values
// cause the program to exit with a fatal log message.
func Load() Config {
	tz := getenv("CINEMA_TZ", "UTC")
	loc, err := time.LoadLocation(tz)
	if err != nil {
		log.Fatalf("invalid CINEMA_TZ %q: %v", tz, err)
	}
	return Config{
		Env:          must("APP_ENV"),
		Port:         must("APP_PORT"),
		DBUser:       must("DB_USER"),
		DBPass:       os.Getenv("DB_PASS"), // empty allowed
		DBHost:       must("DB_HOST"),
		DBPort:       must("DB_PORT"),
		DBName:       must("DB_NAME"),
		JWTSecret:    must("JWT_SECRET"),
		AccessTTLMin: mustInt("ACCESS_TOKEN_TTL_MIN"),
		BcryptCost:   mustInt("BCRYPT_COST"),
		CinemaTZ:     tz,
		Location:     loc,
		EnforceCaps:  envBool("PLANNER_ENFORCE_CAPS", false),
	}
}

// must retrieves the value of a required environment variable.  If the
// variable is unset or empty, the application logs a fatal error and exits.
func must(key string) string {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		log.Fatalf("missing required env var: %s", key)
	}
	return v
}

// mustInt is like must() but converts the retrieved string into an integer.
func mustInt(key string) int {
	s := must(key)
	n, err := strconv.Atoi(s)
	if err != nil {
		log.Fatalf("invalid int for %s: %q", key, s)
	}
	return n
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func envBool(key string, def bool) bool {
	switch os.Getenv(key) {
	case "":
		return def
	case "1", "true", "TRUE", "True", "yes", "on":
		return true
	case "0", "false", "FALSE", "False", "no", "off":
		return false
	}
	return def
}

func envInt(key string, def int) int {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	if n, err := strconv.Atoi(v); err == nil {
		return n
	}
	return def
}

func envDur(key string, def time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	if d, err := time.ParseDuration(v); err == nil {
		return d
	}
	return def
}
