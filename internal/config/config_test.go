package config

import "testing"

// clearEnv blanks every variable Load reads, so each test starts from a
// clean slate regardless of the outer process environment. getenv/getenvInt
// treat an empty value the same as an absent one.
func clearEnv(t *testing.T) {
	t.Helper()
	keys := []string{
		"SERVER_HOST", "SERVER_PORT", "DATA_STORE", "SEMANTIC_MODEL_STORE",
		"JSON_PATH", "TENANT", "S3_BUCKET_NAME", "POSTGRES_USER",
		"POSTGRES_PASSWORD", "POSTGRES_HOST", "POSTGRES_DB",
		"SNOWFLAKE_ACCOUNT", "SNOWFLAKE_USER", "SNOWFLAKE_PASSWORD",
		"SNOWFLAKE_WAREHOUSE", "SNOWFLAKE_DATABASE", "SNOWFLAKE_SCHEMA",
		"SNOWFLAKE_ROLE", "SNOWFLAKE_TIMEOUT", "AUTH",
	}
	for _, k := range keys {
		t.Setenv(k, "")
	}
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.ServerHost != "127.0.0.1" {
		t.Errorf("ServerHost = %q, want 127.0.0.1", cfg.ServerHost)
	}
	if cfg.ServerPort != 5432 {
		t.Errorf("ServerPort = %d, want 5432", cfg.ServerPort)
	}
	if cfg.DataStore != "postgres" {
		t.Errorf("DataStore = %q, want postgres", cfg.DataStore)
	}
	if cfg.SemanticModelStore != "local" {
		t.Errorf("SemanticModelStore = %q, want local", cfg.SemanticModelStore)
	}
	if cfg.JSONPath != "semantic_models.json" {
		t.Errorf("JSONPath = %q, want semantic_models.json", cfg.JSONPath)
	}
}

func TestLoad_RejectsUnknownDataStore(t *testing.T) {
	clearEnv(t)
	t.Setenv("DATA_STORE", "mysql")
	if _, err := Load(); err == nil {
		t.Fatal("expected error for unknown DATA_STORE")
	}
}

func TestLoad_RejectsS3WithoutTenantOrBucket(t *testing.T) {
	clearEnv(t)
	t.Setenv("SEMANTIC_MODEL_STORE", "s3")
	if _, err := Load(); err == nil {
		t.Fatal("expected error for s3 store missing TENANT/S3_BUCKET_NAME")
	}
}

func TestLoad_AcceptsS3WithTenantAndBucket(t *testing.T) {
	clearEnv(t)
	t.Setenv("SEMANTIC_MODEL_STORE", "s3")
	t.Setenv("TENANT", "acme")
	t.Setenv("S3_BUCKET_NAME", "acme-models")
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Tenant != "acme" || cfg.S3BucketName != "acme-models" {
		t.Errorf("unexpected tenant/bucket: %+v", cfg)
	}
}

func TestLoad_RequiresSnowflakeCredentialsWhenSelected(t *testing.T) {
	clearEnv(t)
	t.Setenv("DATA_STORE", "snowflake")
	if _, err := Load(); err == nil {
		t.Fatal("expected error for snowflake store missing credentials")
	}
}

func TestLoad_SnowflakeDSNIncludesParams(t *testing.T) {
	clearEnv(t)
	t.Setenv("DATA_STORE", "snowflake")
	t.Setenv("SNOWFLAKE_ACCOUNT", "xy12345")
	t.Setenv("SNOWFLAKE_USER", "svc")
	t.Setenv("SNOWFLAKE_PASSWORD", "secret")
	t.Setenv("SNOWFLAKE_WAREHOUSE", "compute_wh")
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	dsn := cfg.backendDSN()
	if dsn == "" {
		t.Fatal("expected non-empty DSN")
	}
}
