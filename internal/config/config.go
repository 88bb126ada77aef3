package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	DBHost     string
	DBUser     string
	DBPassword string
	DBName     string
	DBPort     string
	AppPort    string
	AppEnv     string

	JWTSecret     string
	AdminEmail    string
	AdminPassword string

	PhonePe PhonePeConfig

	DeliveryCharge float64

	// Whether an admin "Delivered" transition also forces payment=true for
	// gateway orders. Cash-on-Delivery orders are always marked paid on
	// delivery.
	DeliveredMarksGatewayPaid bool

	Redis RedisConfig
	Kafka KafkaConfig

	SweepInterval   time.Duration
	SweepPendingTTL time.Duration
}

type PhonePeConfig struct {
	MerchantID  string
	SaltKey     string
	SaltIndex   int
	BaseURL     string
	RedirectURL string
	CallbackURL string
	Timeout     time.Duration
}

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
	TTL      time.Duration
}

type KafkaConfig struct {
	Enabled     bool
	Brokers     []string
	OrdersTopic string
}

func LoadConfig() *Config {
	_ = godotenv.Load()

	cfg := &Config{
		DBHost:     os.Getenv("DB_HOST"),
		DBUser:     os.Getenv("DB_USER"),
		DBPassword: os.Getenv("DB_PASSWORD"),
		DBName:     os.Getenv("DB_NAME"),
		DBPort:     getEnv("DB_PORT", "5432"),
		AppPort:    getEnv("APP_PORT", "5000"),
		AppEnv:     os.Getenv("APP_ENV"),

		JWTSecret:     os.Getenv("JWT_SECRET"),
		AdminEmail:    os.Getenv("ADMIN_EMAIL"),
		AdminPassword: os.Getenv("ADMIN_PASSWORD"),

		PhonePe: PhonePeConfig{
			MerchantID:  os.Getenv("PHONEPE_MERCHANT_ID"),
			SaltKey:     os.Getenv("PHONEPE_SALT_KEY"),
			SaltIndex:   getEnvInt("PHONEPE_SALT_INDEX", 1),
			BaseURL:     getEnv("PHONEPE_BASE_URL", "https://api-preprod.phonepe.com/apis/pg-sandbox"),
			RedirectURL: os.Getenv("PHONEPE_REDIRECT_URL"),
			CallbackURL: os.Getenv("PHONEPE_CALLBACK_URL"),
			Timeout:     time.Duration(getEnvInt("PHONEPE_TIMEOUT_SECONDS", 15)) * time.Second,
		},

		DeliveryCharge:            getEnvFloat("DELIVERY_CHARGE", 10),
		DeliveredMarksGatewayPaid: getEnvBool("DELIVERED_MARKS_GATEWAY_PAID", false),

		Redis: RedisConfig{
			Addr:     os.Getenv("REDIS_ADDR"),
			Password: os.Getenv("REDIS_PASSWORD"),
			DB:       getEnvInt("REDIS_DB", 0),
			TTL:      time.Duration(getEnvInt("REDIS_TTL_SECONDS", 300)) * time.Second,
		},

		Kafka: KafkaConfig{
			Enabled:     getEnvBool("KAFKA_ENABLED", false),
			Brokers:     splitNonEmpty(os.Getenv("KAFKA_BROKERS")),
			OrdersTopic: getEnv("KAFKA_ORDERS_TOPIC", "velora.orders"),
		},

		SweepInterval:   time.Duration(getEnvInt("SWEEP_INTERVAL_MINUTES", 10)) * time.Minute,
		SweepPendingTTL: time.Duration(getEnvInt("SWEEP_PENDING_TTL_MINUTES", 60)) * time.Minute,
	}

	if cfg.DBHost == "" {
		log.Fatal("Environment variables not loaded properly")
	}

	return cfg
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func getEnvFloat(key string, fallback float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return fallback
}

func splitNonEmpty(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
