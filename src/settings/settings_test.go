package settings

import (
	"testing"
	"time"
)

func TestFromEnvRequiresMongoURI(t *testing.T) {
	t.Setenv("MONGODB_URI", "")
	if _, err := FromEnv(); err == nil {
		t.Fatal("expected error when MONGODB_URI is unset")
	}
}

func TestFromEnvDefaults(t *testing.T) {
	t.Setenv("MONGODB_URI", "mongodb://localhost:27017")

	s, err := FromEnv()
	if err != nil {
		t.Fatalf("FromEnv: %v", err)
	}
	if s.BindAddress != "127.0.0.1:3000" {
		t.Errorf("BindAddress = %q, want 127.0.0.1:3000", s.BindAddress)
	}
	if s.LogLevel != "info" {
		t.Errorf("LogLevel = %q, want info", s.LogLevel)
	}
	if s.PoolMinSize != 0 || s.PoolMaxSize != 0 {
		t.Errorf("pool sizes = %d/%d, want zero", s.PoolMinSize, s.PoolMaxSize)
	}
	if s.ConnectTimeout != 0 || s.ServerSelectionTimeout != 0 {
		t.Error("timeouts should be zero when unset")
	}
}

func TestFromEnvParsesOptionalValues(t *testing.T) {
	t.Setenv("MONGODB_URI", "mongodb://localhost:27017")
	t.Setenv("MONGODB_DEFAULT_DATABASE", "app")
	t.Setenv("MONGODB_DEFAULT_COLLECTION", "users")
	t.Setenv("MONGODB_POOL_MIN_SIZE", "5")
	t.Setenv("MONGODB_POOL_MAX_SIZE", "50")
	t.Setenv("MONGODB_CONNECT_TIMEOUT_MS", "1000")
	t.Setenv("MONGODB_SERVER_SELECTION_TIMEOUT_MS", "5000")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("APP_BIND_ADDRESS", "0.0.0.0:8080")

	s, err := FromEnv()
	if err != nil {
		t.Fatalf("FromEnv: %v", err)
	}
	if s.DefaultDatabase != "app" || s.DefaultCollection != "users" {
		t.Errorf("defaults = %q/%q", s.DefaultDatabase, s.DefaultCollection)
	}
	if s.PoolMinSize != 5 || s.PoolMaxSize != 50 {
		t.Errorf("pool sizes = %d/%d, want 5/50", s.PoolMinSize, s.PoolMaxSize)
	}
	if s.ConnectTimeout != time.Second {
		t.Errorf("ConnectTimeout = %v, want 1s", s.ConnectTimeout)
	}
	if s.ServerSelectionTimeout != 5*time.Second {
		t.Errorf("ServerSelectionTimeout = %v, want 5s", s.ServerSelectionTimeout)
	}
	if s.LogLevel != "debug" {
		t.Errorf("LogLevel = %q, want debug", s.LogLevel)
	}
	if s.BindAddress != "0.0.0.0:8080" {
		t.Errorf("BindAddress = %q", s.BindAddress)
	}
}

func TestFromEnvRejectsUnparsableNumbers(t *testing.T) {
	cases := []struct {
		name string
		key  string
	}{
		{"pool min", "MONGODB_POOL_MIN_SIZE"},
		{"pool max", "MONGODB_POOL_MAX_SIZE"},
		{"connect timeout", "MONGODB_CONNECT_TIMEOUT_MS"},
		{"server selection timeout", "MONGODB_SERVER_SELECTION_TIMEOUT_MS"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Setenv("MONGODB_URI", "mongodb://localhost:27017")
			t.Setenv(tc.key, "not_a_number")
			if _, err := FromEnv(); err == nil {
				t.Fatalf("expected error for %s=not_a_number", tc.key)
			}
		})
	}
}

func TestFromEnvRejectsOverflowingDurations(t *testing.T) {
	cases := []struct {
		name string
		key  string
	}{
		{"connect timeout", "MONGODB_CONNECT_TIMEOUT_MS"},
		{"server selection timeout", "MONGODB_SERVER_SELECTION_TIMEOUT_MS"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Setenv("MONGODB_URI", "mongodb://localhost:27017")
			// Parses as uint64 but cannot be represented as a
			// time.Duration in nanoseconds.
			t.Setenv(tc.key, "18446744073709551615")
			if _, err := FromEnv(); err == nil {
				t.Fatalf("expected error for overflowing %s", tc.key)
			}
		})
	}
}

func TestFromEnvAcceptsLargestRepresentableDuration(t *testing.T) {
	t.Setenv("MONGODB_URI", "mongodb://localhost:27017")
	t.Setenv("MONGODB_CONNECT_TIMEOUT_MS", "9223372036854")
	s, err := FromEnv()
	if err != nil {
		t.Fatalf("FromEnv: %v", err)
	}
	if s.ConnectTimeout != 9223372036854*time.Millisecond {
		t.Errorf("ConnectTimeout = %v", s.ConnectTimeout)
	}
}

func TestFromEnvTreatsEmptyOptionalsAsUnset(t *testing.T) {
	t.Setenv("MONGODB_URI", "mongodb://localhost:27017")
	t.Setenv("MONGODB_DEFAULT_DATABASE", "")
	t.Setenv("MONGODB_POOL_MIN_SIZE", "")
	t.Setenv("LOG_LEVEL", "")

	s, err := FromEnv()
	if err != nil {
		t.Fatalf("FromEnv: %v", err)
	}
	if s.DefaultDatabase != "" {
		t.Errorf("DefaultDatabase = %q, want empty", s.DefaultDatabase)
	}
	if s.PoolMinSize != 0 {
		t.Errorf("PoolMinSize = %d, want 0", s.PoolMinSize)
	}
	if s.LogLevel != "info" {
		t.Errorf("LogLevel = %q, want info", s.LogLevel)
	}
}
