package config

import (
	"testing"
	"time"
)

func validConfig() Config {
	return Config{
		DatabaseURL:        "postgres://localhost/sirh",
		Environment:        "development",
		MaxBodyBytes:       1048576,
		RateLimitPerMinute: 120,
		JobQueueSize:       128,
		ContractScanEvery:  24 * time.Hour,
		ContractScanWindow: 30,
	}
}

func TestValidateRequiresDatabaseURL(t *testing.T) {
	cfg := validConfig()
	cfg.DatabaseURL = "  "
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for missing DATABASE_URL")
	}
}

func TestValidateProductionRequiresSecrets(t *testing.T) {
	cfg := validConfig()
	cfg.Environment = "production"
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for missing JWT_SECRET in production")
	}

	cfg.JWTSecret = "secret"
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for missing DATA_ENCRYPTION_KEY in production")
	}

	cfg.DataEncryptionKey = "key"
	cfg.RunSeed = true
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for default seed password in production")
	}

	cfg.SeedAdminPassword = "changed"
	if err := cfg.Validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestValidateEmailNeedsHost(t *testing.T) {
	cfg := validConfig()
	cfg.EmailEnabled = true
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error when EMAIL_ENABLED without SMTP_HOST")
	}
	cfg.SMTPHost = "smtp.example.com"
	if err := cfg.Validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestValidateBounds(t *testing.T) {
	cfg := validConfig()
	cfg.MaxBodyBytes = 100
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for tiny MAX_BODY_BYTES")
	}

	cfg = validConfig()
	cfg.RateLimitPerMinute = 0
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for zero rate limit")
	}

	cfg = validConfig()
	cfg.JobQueueSize = 0
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for zero job queue size")
	}
}
