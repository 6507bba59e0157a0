package settings

import (
	"fmt"
	"math"
	"os"
	"strconv"
	"time"
)

// Settings holds the process-wide configuration for the gateway.
// It is read once at start-up and never mutated afterwards; every
// component that needs it receives the same pointer at construction.
type Settings struct {
	// MongoURI is the connection string for the backing deployment.
	MongoURI string

	// DefaultDatabase fills in requests that omit a database name.
	DefaultDatabase string

	// DefaultCollection fills in requests that omit a collection name.
	DefaultCollection string

	// Connection pool sizing. Zero means "leave the driver default".
	PoolMinSize uint64
	PoolMaxSize uint64

	ConnectTimeout         time.Duration
	ServerSelectionTimeout time.Duration

	// LogLevel is a zap level name ("debug", "info", "warn", ...).
	LogLevel string

	// BindAddress is the host:port the HTTP listener binds to.
	BindAddress string
}

const (
	envMongoURI               = "MONGODB_URI"
	envDefaultDatabase        = "MONGODB_DEFAULT_DATABASE"
	envDefaultCollection      = "MONGODB_DEFAULT_COLLECTION"
	envPoolMinSize            = "MONGODB_POOL_MIN_SIZE"
	envPoolMaxSize            = "MONGODB_POOL_MAX_SIZE"
	envConnectTimeout         = "MONGODB_CONNECT_TIMEOUT_MS"
	envServerSelectionTimeout = "MONGODB_SERVER_SELECTION_TIMEOUT_MS"
	envLogLevel               = "LOG_LEVEL"
	envBindAddress            = "APP_BIND_ADDRESS"

	defaultBindAddress = "127.0.0.1:3000"
	defaultLogLevel    = "info"
)

// FromEnv builds Settings from the process environment. The connection
// URI is mandatory; every numeric variable must parse or the whole load
// fails, so a typo never silently falls back to a driver default.
func FromEnv() (*Settings, error) {
	uri := os.Getenv(envMongoURI)
	if uri == "" {
		return nil, fmt.Errorf("missing required environment variable %s", envMongoURI)
	}

	s := &Settings{
		MongoURI:          uri,
		DefaultDatabase:   os.Getenv(envDefaultDatabase),
		DefaultCollection: os.Getenv(envDefaultCollection),
		LogLevel:          defaultLogLevel,
		BindAddress:       defaultBindAddress,
	}

	var err error
	if s.PoolMinSize, err = optionalUint(envPoolMinSize); err != nil {
		return nil, err
	}
	if s.PoolMaxSize, err = optionalUint(envPoolMaxSize); err != nil {
		return nil, err
	}
	if s.ConnectTimeout, err = optionalMillis(envConnectTimeout); err != nil {
		return nil, err
	}
	if s.ServerSelectionTimeout, err = optionalMillis(envServerSelectionTimeout); err != nil {
		return nil, err
	}

	if level := os.Getenv(envLogLevel); level != "" {
		s.LogLevel = level
	}
	if addr := os.Getenv(envBindAddress); addr != "" {
		s.BindAddress = addr
	}

	return s, nil
}

func optionalUint(key string) (uint64, error) {
	raw := os.Getenv(key)
	if raw == "" {
		return 0, nil
	}
	value, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid value for %s: %q", key, raw)
	}
	return value, nil
}

// maxMillis is the largest millisecond count that still fits in a
// time.Duration; anything beyond it would overflow the conversion.
const maxMillis = uint64(math.MaxInt64 / int64(time.Millisecond))

func optionalMillis(key string) (time.Duration, error) {
	millis, err := optionalUint(key)
	if err != nil {
		return 0, err
	}
	if millis > maxMillis {
		return 0, fmt.Errorf("invalid value for %s: %d exceeds the maximum of %d ms", key, millis, maxMillis)
	}
	return time.Duration(millis) * time.Millisecond, nil
}
