// Package config loads service configuration: built-in defaults first,
// then environment variables (optionally from a .env file).
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

const (
	DriverMongo  = "mongo"
	DriverMemory = "memory"
)

type Config struct {
	Server    ServerConfig    `koanf:"server"`
	Mongo     MongoConfig     `koanf:"mongo"`
	Store     StoreConfig     `koanf:"store"`
	JWT       JWTConfig       `koanf:"jwt"`
	Redis     RedisConfig     `koanf:"redis"`
	RateLimit RateLimitConfig `koanf:"ratelimit"`
	CORS      CORSConfig      `koanf:"cors"`
	Codelist  CodelistConfig  `koanf:"codelist"`
	Log       LogConfig       `koanf:"log"`
}

type ServerConfig struct {
	Port            string        `koanf:"port"`
	ReadTimeout     time.Duration `koanf:"read_timeout"`
	WriteTimeout    time.Duration `koanf:"write_timeout"`
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout"`
}

type MongoConfig struct {
	URI      string `koanf:"uri"`
	Database string `koanf:"database"`
}

type StoreConfig struct {
	// Driver is mongo or memory.
	Driver string `koanf:"driver"`
}

type JWTConfig struct {
	Secret string        `koanf:"secret"`
	TTL    time.Duration `koanf:"ttl"`
}

type RedisConfig struct {
	// Addr empty disables domain event publishing.
	Addr     string `koanf:"addr"`
	Password string `koanf:"password"`
	DB       int    `koanf:"db"`
	Channel  string `koanf:"channel"`
}

type RateLimitConfig struct {
	RPS   float64 `koanf:"rps"`
	Burst int     `koanf:"burst"`
}

type CORSConfig struct {
	Origins []string `koanf:"origins"`
}

type CodelistConfig struct {
	TTL time.Duration `koanf:"ttl"`
}

type LogConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
}

func defaultConfig() Config {
	return Config{
		Server: ServerConfig{
			Port:            "3000",
			ReadTimeout:     7 * time.Second,
			WriteTimeout:    15 * time.Second,
			ShutdownTimeout: 10 * time.Second,
		},
		Mongo: MongoConfig{
			URI:      "mongodb://127.0.0.1:27017",
			Database: "Sports",
		},
		Store:     StoreConfig{Driver: DriverMongo},
		JWT:       JWTConfig{TTL: 7 * 24 * time.Hour},
		Redis:     RedisConfig{Channel: "recreo-events"},
		RateLimit: RateLimitConfig{RPS: 5, Burst: 10},
		CORS:      CORSConfig{Origins: []string{"*"}},
		Codelist:  CodelistConfig{TTL: 5 * time.Minute},
		Log:       LogConfig{Level: "info", Format: "json"},
	}
}

// envKeys maps environment variable names onto koanf paths. Anything not
// listed is ignored.
var envKeys = map[string]string{
	"PORT":                    "server.port",
	"SERVER_READ_TIMEOUT":     "server.read_timeout",
	"SERVER_WRITE_TIMEOUT":    "server.write_timeout",
	"SERVER_SHUTDOWN_TIMEOUT": "server.shutdown_timeout",
	"MONGO_URI":               "mongo.uri",
	"MONGODB_URI":             "mongo.uri",
	"MONGO_DATABASE":          "mongo.database",
	"STORE_DRIVER":            "store.driver",
	"JWT_SECRET":              "jwt.secret",
	"JWT_TTL":                 "jwt.ttl",
	"REDIS_ADDR":              "redis.addr",
	"REDIS_PASSWORD":          "redis.password",
	"REDIS_DB":                "redis.db",
	"REDIS_CHANNEL":           "redis.channel",
	"RATELIMIT_RPS":           "ratelimit.rps",
	"RATELIMIT_BURST":         "ratelimit.burst",
	"CORS_ORIGINS":            "cors.origins",
	"CODELIST_TTL":            "codelist.ttl",
	"LOG_LEVEL":               "log.level",
	"LOG_FORMAT":              "log.format",
}

func envTransform(key string) string {
	return envKeys[strings.ToUpper(key)]
}

// Load reads .env (if present), layers environment variables over the
// defaults and validates the result.
func Load() (*Config, error) {
	_ = godotenv.Load()

	k := koanf.New(".")
	if err := k.Load(structs.Provider(defaultConfig(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("load defaults: %w", err)
	}
	if err := k.Load(env.Provider("", ".", envTransform), nil); err != nil {
		return nil, fmt.Errorf("load environment: %w", err)
	}
	if err := splitLists(k); err != nil {
		return nil, err
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// listPaths are config paths that arrive from the environment as
// comma-separated strings.
var listPaths = []string{"cors.origins"}

func splitLists(k *koanf.Koanf) error {
	for _, path := range listPaths {
		raw, ok := k.Get(path).(string)
		if !ok || raw == "" {
			continue
		}
		var items []string
		for _, p := range strings.Split(raw, ",") {
			if p = strings.TrimSpace(p); p != "" {
				items = append(items, p)
			}
		}
		if err := k.Set(path, items); err != nil {
			return fmt.Errorf("set %s: %w", path, err)
		}
	}
	return nil
}

// Validate rejects configurations the server cannot start with.
func (c *Config) Validate() error {
	if c.JWT.Secret == "" {
		return fmt.Errorf("config: JWT_SECRET is required")
	}
	switch c.Store.Driver {
	case DriverMongo:
		if c.Mongo.URI == "" {
			return fmt.Errorf("config: mongo.uri is required for the mongo store")
		}
	case DriverMemory:
	default:
		return fmt.Errorf("config: unknown store driver %q", c.Store.Driver)
	}
	if c.RateLimit.RPS <= 0 || c.RateLimit.Burst < 1 {
		return fmt.Errorf("config: rate limit needs rps > 0 and burst >= 1")
	}
	return nil
}

// Addr is the listen address for http.Server.
func (c *Config) Addr() string {
	if strings.HasPrefix(c.Server.Port, ":") {
		return c.Server.Port
	}
	return ":" + c.Server.Port
}
