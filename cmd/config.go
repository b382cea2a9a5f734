package cmd

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Config carries every knob the application reads at startup. Values come
// from the environment with development defaults; production deployments set
// them explicitly.
type Config struct {
	HTTPPort string

	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBSslMode  string

	// SessionStoreBackend selects where OTP sessions live: "memory" for a
	// single instance, "redis" when several instances share traffic.
	SessionStoreBackend string
	RedisAddr           string
	RedisPassword       string
	RedisDB             int

	KafkaBrokers     []string
	KafkaUserTopic   string
	KafkaSellerTopic string
	KafkaAgentTopic  string

	SmsAPIKey     string
	SmsTemplateID string

	PaymentClientID      string
	PaymentClientSecret  string
	PaymentWebhookSecret string

	PayoutDelay      time.Duration
	ReturnWindow     time.Duration
	OtpTTL           time.Duration
	OtpSendPerMinute int
	OtpSendPerHour   int

	RequireReturnPickupOtp   bool
	RequireReturnDeliveryOtp bool

	OtpSweepSchedule    string
	BatchPayoutSchedule string
	PayoutRetrySchedule string
}

// LoadConfig reads the environment into a Config. Every value has a default
// so a bare development checkout starts without a .env file.
func LoadConfig() Config {
	return Config{
		HTTPPort: envOr("HTTP_PORT", "8080"),

		DBHost:     envOr("DB_HOST", "localhost"),
		DBPort:     envOr("DB_PORT", "5432"),
		DBUser:     envOr("DB_USER", "postgres"),
		DBPassword: envOr("DB_PASSWORD", "postgres"),
		DBName:     envOr("DB_NAME", "marketplace"),
		DBSslMode:  envOr("DB_SSLMODE", "disable"),

		SessionStoreBackend: envOr("SESSION_STORE", "memory"),
		RedisAddr:           envOr("REDIS_ADDR", "localhost:6379"),
		RedisPassword:       envOr("REDIS_PASSWORD", ""),
		RedisDB:             envIntOr("REDIS_DB", 0),

		KafkaBrokers:     strings.Split(envOr("KAFKA_BROKERS", "localhost:9092"), ","),
		KafkaUserTopic:   envOr("KAFKA_USER_TOPIC", "notifications.users"),
		KafkaSellerTopic: envOr("KAFKA_SELLER_TOPIC", "notifications.sellers"),
		KafkaAgentTopic:  envOr("KAFKA_AGENT_TOPIC", "notifications.agents"),

		SmsAPIKey:     envOr("SMS_API_KEY", ""),
		SmsTemplateID: envOr("SMS_TEMPLATE_ID", "HANDOFF_OTP"),

		PaymentClientID:      envOr("PAYMENT_CLIENT_ID", ""),
		PaymentClientSecret:  envOr("PAYMENT_CLIENT_SECRET", ""),
		PaymentWebhookSecret: envOr("PAYMENT_WEBHOOK_SECRET", ""),

		PayoutDelay:      time.Duration(envIntOr("PAYOUT_DELAY_DAYS", 3)) * 24 * time.Hour,
		ReturnWindow:     time.Duration(envIntOr("RETURN_WINDOW_HOURS", 24)) * time.Hour,
		OtpTTL:           time.Duration(envIntOr("OTP_TTL_MINUTES", 5)) * time.Minute,
		OtpSendPerMinute: envIntOr("OTP_SEND_PER_MINUTE", 1),
		OtpSendPerHour:   envIntOr("OTP_SEND_PER_HOUR", 10),

		RequireReturnPickupOtp:   envBoolOr("REQUIRE_RETURN_PICKUP_OTP", true),
		RequireReturnDeliveryOtp: envBoolOr("REQUIRE_RETURN_DELIVERY_OTP", false),

		OtpSweepSchedule:    envOr("OTP_SWEEP_SCHEDULE", "*/5 * * * *"),
		BatchPayoutSchedule: envOr("BATCH_PAYOUT_SCHEDULE", "0 2 * * *"),
		PayoutRetrySchedule: envOr("PAYOUT_RETRY_SCHEDULE", "0 * * * *"),
	}
}

func envOr(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func envIntOr(key string, fallback int) int {
	value, err := strconv.Atoi(os.Getenv(key))
	if err != nil {
		return fallback
	}
	return value
}

func envBoolOr(key string, fallback bool) bool {
	value, err := strconv.ParseBool(os.Getenv(key))
	if err != nil {
		return fallback
	}
	return value
}
