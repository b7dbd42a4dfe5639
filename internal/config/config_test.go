package config

import (
	"os"
	"testing"
	"time"
)

func TestLoadConfig(t *testing.T) {
	os.Setenv("MONGODB_URI", "mongodb://localhost:27017/testdb")
	os.Setenv("MONGODB_DATABASE", "impactorbit_test")
	os.Setenv("REDIS_HOST", "localhost")
	os.Setenv("REDIS_PORT", "6379")
	os.Setenv("JWT_SECRET", "testsecret123456789012345678901234")

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}

	if cfg.MongoDB.URI == "" || cfg.Redis.Host == "" {
		t.Fatalf("unexpected empty config values: %+v", cfg)
	}
	if cfg.MongoDB.Database != "impactorbit_test" {
		t.Fatalf("unexpected database: %s", cfg.MongoDB.Database)
	}
	if cfg.JWT.AccessTokenTTL != 15*time.Minute {
		t.Fatalf("unexpected access token TTL: %v", cfg.JWT.AccessTokenTTL)
	}
	if cfg.RateLimit.RPS <= 0 || cfg.RateLimit.Burst <= 0 {
		t.Fatalf("rate limit defaults missing: %+v", cfg.RateLimit)
	}
}
