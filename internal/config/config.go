// Package config implements A1: loading the proxy's entire runtime
// configuration from the environment (optionally seeded from a .env
// file), per the variable table in spec.md §6.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"

	"github.com/Pushkarm029/postgres-proxy-server/internal/backend"
)

// Config is every environment-derived setting the proxy needs to start.
type Config struct {
	ServerHost string
	ServerPort int

	DataStore          string // "postgres" | "snowflake"
	SemanticModelStore string // "local" | "s3"
	JSONPath           string
	Tenant             string
	S3BucketName       string

	Postgres  PostgresConfig
	Snowflake SnowflakeConfig

	Auth string

	QueryTimeout time.Duration
}

type PostgresConfig struct {
	User     string
	Password string
	Host     string
	DBName   string
}

type SnowflakeConfig struct {
	Account   string
	User      string
	Password  string
	Warehouse string
	Database  string
	Schema    string
	Role      string
	Timeout   time.Duration
}

// Load reads a .env file if present (a missing file is not an error — the
// teacher's own deploy configs rely on the environment alone in
// production and only use a .env file for local development) and then
// resolves Config from os.Environ(), applying spec.md §6's defaults and
// validating the two store-selector fields. A Load failure is meant to be
// fatal at startup (§4.7: "exit code 1"), never a retried/soft failure.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("config: reading .env: %w", err)
	}

	cfg := &Config{
		ServerHost:         getenv("SERVER_HOST", "127.0.0.1"),
		ServerPort:         getenvInt("SERVER_PORT", 5432),
		DataStore:          getenv("DATA_STORE", "postgres"),
		SemanticModelStore: getenv("SEMANTIC_MODEL_STORE", "local"),
		JSONPath:           getenv("JSON_PATH", "semantic_models.json"),
		Tenant:             getenv("TENANT", ""),
		S3BucketName:       getenv("S3_BUCKET_NAME", ""),
		Auth:               getenv("AUTH", "admin,password;manager,password2"),
		QueryTimeout:       30 * time.Second,
		Postgres: PostgresConfig{
			User:     getenv("POSTGRES_USER", "postgres"),
			Password: getenv("POSTGRES_PASSWORD", "postgres"),
			Host:     getenv("POSTGRES_HOST", "localhost:5433"),
			DBName:   getenv("POSTGRES_DB", "main"),
		},
		Snowflake: SnowflakeConfig{
			Account:   getenv("SNOWFLAKE_ACCOUNT", ""),
			User:      getenv("SNOWFLAKE_USER", ""),
			Password:  getenv("SNOWFLAKE_PASSWORD", ""),
			Warehouse: getenv("SNOWFLAKE_WAREHOUSE", ""),
			Database:  getenv("SNOWFLAKE_DATABASE", ""),
			Schema:    getenv("SNOWFLAKE_SCHEMA", ""),
			Role:      getenv("SNOWFLAKE_ROLE", ""),
			Timeout:   time.Duration(getenvInt("SNOWFLAKE_TIMEOUT", 60)) * time.Second,
		},
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	switch c.DataStore {
	case "postgres", "snowflake":
	default:
		return fmt.Errorf("config: DATA_STORE must be \"postgres\" or \"snowflake\", got %q", c.DataStore)
	}

	switch c.SemanticModelStore {
	case "local":
	case "s3":
		if c.Tenant == "" || c.S3BucketName == "" {
			return fmt.Errorf("config: SEMANTIC_MODEL_STORE=s3 requires TENANT and S3_BUCKET_NAME")
		}
	default:
		return fmt.Errorf("config: SEMANTIC_MODEL_STORE must be \"local\" or \"s3\", got %q", c.SemanticModelStore)
	}

	if c.DataStore == "snowflake" {
		if c.Snowflake.Account == "" || c.Snowflake.User == "" || c.Snowflake.Password == "" {
			return fmt.Errorf("config: DATA_STORE=snowflake requires SNOWFLAKE_ACCOUNT, SNOWFLAKE_USER and SNOWFLAKE_PASSWORD")
		}
	}

	return nil
}

// BackendConnectionConfig builds the C7 connection settings for whichever
// store DataStore selects.
func (c *Config) BackendConnectionConfig() backend.ConnectionConfig {
	return backend.ConnectionConfig{
		DSN:          c.backendDSN(),
		QueryTimeout: c.QueryTimeout,
	}
}

func (c *Config) backendDSN() string {
	if c.DataStore == "snowflake" {
		dsn := fmt.Sprintf("%s:%s@%s", c.Snowflake.User, c.Snowflake.Password, c.Snowflake.Account)
		params := make([]string, 0, 4)
		if c.Snowflake.Database != "" {
			params = append(params, "database="+c.Snowflake.Database)
		}
		if c.Snowflake.Schema != "" {
			params = append(params, "schema="+c.Snowflake.Schema)
		}
		if c.Snowflake.Warehouse != "" {
			params = append(params, "warehouse="+c.Snowflake.Warehouse)
		}
		if c.Snowflake.Role != "" {
			params = append(params, "role="+c.Snowflake.Role)
		}
		if len(params) == 0 {
			return dsn
		}
		joined := params[0]
		for _, p := range params[1:] {
			joined += "&" + p
		}
		return dsn + "?" + joined
	}
	return fmt.Sprintf("postgres://%s:%s@%s/%s", c.Postgres.User, c.Postgres.Password, c.Postgres.Host, c.Postgres.DBName)
}

func getenv(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return fallback
}

func getenvInt(key string, fallback int) int {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}
