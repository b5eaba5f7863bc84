package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	AppEnv   string
	LogLevel string

	GRPCPort     int
	HTTPPort     int
	ShopGRPCAddr string

	// StoreDriver selects the persistence backend: "memory" or "postgres".
	StoreDriver string
	Postgres    PostgresConfig

	// NotifySink selects where order events go: "log" or "kafka".
	NotifySink   string
	KafkaBrokers []string

	GatewayTimeout      time.Duration
	CheckoutConcurrency int

	JWTSecret string
	JWTTTL    time.Duration

	SeedFile string
}

type PostgresConfig struct {
	Host     string
	Port     int
	User     string
	Pass     string
	DB       string
	SSLMode  string
	MaxConns int
}

func Load() Config {
	// A missing .env is fine; the environment wins either way.
	_ = godotenv.Load()

	return Config{
		AppEnv:       getEnv("APP_ENV", "dev"),
		LogLevel:     getEnv("LOG_LEVEL", "info"),
		HTTPPort:     getEnvInt("HTTP_PORT", 8080),
		GRPCPort:     getEnvInt("GRPC_PORT", 8081),
		ShopGRPCAddr: getEnv("SHOP_GRPC_ADDR", "localhost:8081"),

		StoreDriver: getEnv("STORE_DRIVER", "memory"),
		Postgres: PostgresConfig{
			Host:     getEnv("POSTGRES_HOST", "localhost"),
			Port:     getEnvInt("POSTGRES_PORT", 5432),
			User:     getEnv("POSTGRES_USER", "shopping"),
			Pass:     getEnv("POSTGRES_PASSWORD", "shoppingpassword"),
			DB:       getEnv("POSTGRES_DB", "shopping_db"),
			SSLMode:  getEnv("POSTGRES_SSLMODE", "disable"),
			MaxConns: getEnvInt("POSTGRES_MAX_CONNS", 25),
		},

		NotifySink:   getEnv("NOTIFY_SINK", "log"),
		KafkaBrokers: getEnvList("KAFKA_BROKERS", []string{"localhost:9092"}),

		GatewayTimeout:      getEnvDuration("GATEWAY_TIMEOUT", 5*time.Second),
		CheckoutConcurrency: getEnvInt("CHECKOUT_CONCURRENCY", 10),

		JWTSecret: getEnv("JWT_SECRET", "digital-mall-secret-key"),
		JWTTTL:    getEnvDuration("JWT_TTL", 24*time.Hour),

		SeedFile: getEnv("SEED_FILE", "seed/catalog.yaml"),
	}
}

func (c Config) IsDev() bool {
	return c.AppEnv == "dev" || c.AppEnv == "development"
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getEnvInt(key string, def int) int {
	v := os.Getenv(key)

	if v == "" {
		return def
	}

	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}

	return n
}

func getEnvDuration(key string, def time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return def
	}

	d, err := time.ParseDuration(v)
	if err != nil {
		return def
	}
	return d
}

func getEnvList(key string, def []string) []string {
	v := os.Getenv(key)
	if v == "" {
		return def
	}

	var out []string
	for _, part := range strings.Split(v, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	if len(out) == 0 {
		return def
	}
	return out
}
