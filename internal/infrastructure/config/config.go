package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

type DatabaseConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	Name     string
	SSLMode  string
}

type KafkaConfig struct {
	Brokers           string
	AuditTopic        string
	NotificationTopic string
	EventTopic        string
}

type BatchConfig struct {
	Workers  int
	Interval time.Duration
}

type Config struct {
	GRPCPort    int
	HTTPPort    int
	DB          DatabaseConfig
	Kafka       KafkaConfig
	Batch       BatchConfig
	ServiceName string
}

func (c Config) Validate() {
	if c.DB.Password == "" {
		panic("DB_PASSWORD environment variable is required")
	}
}

func Load() Config {
	return Config{
		GRPCPort: getEnvInt("GRPC_PORT", 9093),
		HTTPPort: getEnvInt("HTTP_PORT", 8093),
		DB: DatabaseConfig{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnvInt("DB_PORT", 5432),
			User:     getEnv("DB_USER", "servicing"),
			Password: getEnv("DB_PASSWORD", ""),
			Name:     getEnv("DB_NAME", "loan_servicing"),
			SSLMode:  getEnv("DB_SSLMODE", "require"),
		},
		Kafka: KafkaConfig{
			Brokers:           getEnv("KAFKA_BROKERS", "localhost:9092"),
			AuditTopic:        getEnv("KAFKA_AUDIT_TOPIC", "servicing-audit"),
			NotificationTopic: getEnv("KAFKA_NOTIFICATION_TOPIC", "servicing-notifications"),
			EventTopic:        getEnv("KAFKA_EVENT_TOPIC", "servicing-events"),
		},
		Batch: BatchConfig{
			Workers:  getEnvInt("BATCH_WORKERS", 4),
			Interval: getEnvDuration("BATCH_INTERVAL", 24*time.Hour),
		},
		ServiceName: "loan-servicing-engine",
	}
}

func (c Config) GRPCAddr() string {
	return fmt.Sprintf(":%d", c.GRPCPort)
}

func (c Config) HTTPAddr() string {
	return fmt.Sprintf(":%d", c.HTTPPort)
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}
