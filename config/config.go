package config

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
)

type Config struct {
	ServerPort int
	JWTSecret  string
	Database   DatabaseConfig
	Events     EventsConfig
	Backup     BackupConfig
}

type DatabaseConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	DBName   string
	UseSSL   bool
}

// EventsConfig selects the activity-feed broker. Backend is "rabbitmq",
// "pubsub" or empty (feed disabled).
type EventsConfig struct {
	Backend  string
	RabbitMQ RabbitMQConfig
	PubSub   PubSubConfig
}

type RabbitMQConfig struct {
	URL             string
	QueueDurable    bool
	QueueAutoDelete bool
	PrefetchCount   int
}

type PubSubConfig struct {
	ProjectID          string
	CredentialsFile    string
	SubscriptionSuffix string
}

// BackupConfig selects the snapshot object store. Backend is "minio", "gcs"
// or empty (backups unavailable).
type BackupConfig struct {
	Backend string
	Minio   MinioConfig
	GCS     GCSConfig
}

type MinioConfig struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	UseSSL    bool
}

type GCSConfig struct {
	ProjectID       string
	CredentialsFile string
	Bucket          string
}

func LoadConfig() Config {
	if os.Getenv("ENV") == "dev" {
		godotenv.Load()
	}

	dbConfig := DatabaseConfig{
		Host:     getEnv("DB_HOST", "localhost"),
		Port:     getEnvInt("DB_PORT", 5432),
		User:     getEnv("DB_USER", "stridetrack"),
		Password: getEnv("DB_PASSWORD", "password"),
		DBName:   getEnv("DB_NAME", "stridetrack_db"),
		UseSSL:   getEnvBool("DB_USE_SSL", false),
	}

	eventsConfig := EventsConfig{
		Backend: getEnv("EVENTS_BACKEND", ""),
		RabbitMQ: RabbitMQConfig{
			URL:             getEnv("EVENTS_RABBITMQ_URL", ""),
			QueueDurable:    getEnvBool("EVENTS_RABBITMQ_DURABLE", true),
			QueueAutoDelete: getEnvBool("EVENTS_RABBITMQ_AUTO_DELETE", false),
			PrefetchCount:   getEnvInt("EVENTS_RABBITMQ_PREFETCH", 1),
		},
		PubSub: PubSubConfig{
			ProjectID:          getEnv("EVENTS_PUBSUB_PROJECT", ""),
			CredentialsFile:    getEnv("EVENTS_PUBSUB_CREDENTIALS", ""),
			SubscriptionSuffix: getEnv("EVENTS_PUBSUB_SUB_SUFFIX", "-sub"),
		},
	}

	backupConfig := BackupConfig{
		Backend: getEnv("BACKUP_BACKEND", ""),
		Minio: MinioConfig{
			Endpoint:  getEnv("BACKUP_MINIO_ENDPOINT", ""),
			AccessKey: getEnv("BACKUP_MINIO_ACCESS_KEY", ""),
			SecretKey: getEnv("BACKUP_MINIO_SECRET_KEY", ""),
			Bucket:    getEnv("BACKUP_MINIO_BUCKET", "stridetrack-backups"),
			UseSSL:    getEnvBool("BACKUP_MINIO_USE_SSL", false),
		},
		GCS: GCSConfig{
			ProjectID:       getEnv("BACKUP_GCS_PROJECT", ""),
			CredentialsFile: getEnv("BACKUP_GCS_CREDENTIALS", ""),
			Bucket:          getEnv("BACKUP_GCS_BUCKET", ""),
		},
	}

	return Config{
		ServerPort: getEnvInt("SERVER_PORT", 8080),
		JWTSecret:  getEnv("JWT_SECRET", ""),
		Database:   dbConfig,
		Events:     eventsConfig,
		Backup:     backupConfig,
	}
}

func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if valueStr, exists := os.LookupEnv(key); exists {
		var value int
		fmt.Sscanf(valueStr, "%d", &value)
		return value
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if valueStr, exists := os.LookupEnv(key); exists {
		return valueStr == "1" || valueStr == "true" || valueStr == "yes"
	}
	return defaultValue
}
