package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

const (
	BackendMemory = "memory"
	BackendRedis  = "redis"
	BackendMongo  = "mongo"
)

type Config struct {
	Env  string
	Port string

	Store    StoreConfig
	Auth     AuthConfig
	NATS     NATSConfig
	Pricing  PricingConfig
	Tracking TrackingConfig

	MenuFile        string
	CartAckDelay    time.Duration
	CartIdleTimeout time.Duration
	CartMaxEngines  int
}

type StoreConfig struct {
	Backend    string
	MongoURI   string
	DBName     string
	RedisURL   string
	SessionTTL time.Duration
}

type AuthConfig struct {
	JWTSecret     string
	TokenTTL      time.Duration
	AdminEmail    string
	AdminPassword string
}

type NATSConfig struct {
	URL string
}

type PricingConfig struct {
	TaxRate          float64
	DeliveryFee      float64
	FreeDeliveryOver float64
}

type TrackingConfig struct {
	Interval  time.Duration
	ETAOffset time.Duration
}

// LoadEnv reads a .env file when one is present. A missing file is not an error.
func LoadEnv() {
	_ = godotenv.Load()
}

func Load() (*Config, error) {
	LoadEnv()

	cfg := &Config{
		Env:  GetEnv("APP_ENV", "production"),
		Port: GetEnv("PORT", "8080"),
		Store: StoreConfig{
			Backend:    GetEnv("STORE_BACKEND", BackendMemory),
			MongoURI:   GetEnv("MONGO_URI", "mongodb://localhost:27017"),
			DBName:     GetEnv("DB_NAME", "fusion6"),
			RedisURL:   GetEnv("REDIS_URL", "redis://localhost:6379/0"),
			SessionTTL: GetDuration("SESSION_TTL", 30*time.Minute),
		},
		Auth: AuthConfig{
			JWTSecret:     GetEnv("JWT_SECRET", ""),
			TokenTTL:      GetDuration("TOKEN_TTL", 24*time.Hour),
			AdminEmail:    GetEnv("ADMIN_EMAIL", ""),
			AdminPassword: GetEnv("ADMIN_PASSWORD", ""),
		},
		NATS: NATSConfig{
			URL: GetEnv("NATS_URL", ""),
		},
		Pricing: PricingConfig{
			TaxRate:          GetFloat("TAX_RATE", 0.10),
			DeliveryFee:      GetFloat("DELIVERY_FEE", 5),
			FreeDeliveryOver: GetFloat("FREE_DELIVERY_OVER", 50),
		},
		Tracking: TrackingConfig{
			Interval:  GetDuration("TRACKING_INTERVAL", 6*time.Second),
			ETAOffset: GetDuration("TRACKING_ETA", 25*time.Minute),
		},
		MenuFile:        GetEnv("MENU_FILE", ""),
		CartAckDelay:    GetDuration("CART_ACK_DELAY", 2*time.Second),
		CartIdleTimeout: GetDuration("CART_IDLE_TIMEOUT", 10*time.Minute),
		CartMaxEngines:  GetInt("CART_MAX_ENGINES", 1000),
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

func (c *Config) Validate() error {
	if c.Port == "" {
		return fmt.Errorf("PORT is required")
	}
	if c.Auth.JWTSecret == "" {
		return fmt.Errorf("JWT_SECRET is required")
	}
	switch c.Store.Backend {
	case BackendMemory:
	case BackendRedis:
		if c.Store.RedisURL == "" {
			return fmt.Errorf("REDIS_URL is required for the redis backend")
		}
	case BackendMongo:
		if c.Store.MongoURI == "" || c.Store.DBName == "" {
			return fmt.Errorf("MONGO_URI and DB_NAME are required for the mongo backend")
		}
	default:
		return fmt.Errorf("unknown STORE_BACKEND %q", c.Store.Backend)
	}
	if c.Store.SessionTTL <= 0 {
		return fmt.Errorf("SESSION_TTL must be positive")
	}
	if c.Tracking.Interval <= 0 {
		return fmt.Errorf("TRACKING_INTERVAL must be positive")
	}
	if c.Pricing.TaxRate < 0 || c.Pricing.DeliveryFee < 0 {
		return fmt.Errorf("pricing values cannot be negative")
	}
	return nil
}

func (c *Config) IsDevelopment() bool {
	return c.Env == "development"
}

func GetEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

func GetDuration(key string, defaultValue time.Duration) time.Duration {
	value, exists := os.LookupEnv(key)
	if !exists {
		return defaultValue
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return defaultValue
	}
	return d
}

func GetFloat(key string, defaultValue float64) float64 {
	value, exists := os.LookupEnv(key)
	if !exists {
		return defaultValue
	}
	f, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return defaultValue
	}
	return f
}

func GetInt(key string, defaultValue int) int {
	value, exists := os.LookupEnv(key)
	if !exists {
		return defaultValue
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return defaultValue
	}
	return n
}
