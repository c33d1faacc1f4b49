package config

import "time"

// Config holds all application configuration.
// It organizes settings into logical groups for better maintainability.
type Config struct {
	Server   ServerConfig   `mapstructure:"server" validate:"required"`
	Database DatabaseConfig `mapstructure:"database" validate:"required"`
	Ledger   LedgerConfig   `mapstructure:"ledger" validate:"required"`
	Queue    QueueConfig    `mapstructure:"queue" validate:"required"`
	Worker   WorkerConfig   `mapstructure:"worker" validate:"required"`
	Storage  StorageConfig  `mapstructure:"storage" validate:"required"`
	Image    ImageConfig    `mapstructure:"image" validate:"required"`
}

// ServerConfig contains all server-related configuration settings.
type ServerConfig struct {
	Port     int    `mapstructure:"port" validate:"required,gt=0,lt=65536"`
	LogLevel string `mapstructure:"log_level" validate:"required,oneof=debug info warn error"`
}

// DatabaseConfig contains all database-related configuration settings.
type DatabaseConfig struct {
	URL string `mapstructure:"url" validate:"required"`
}

// LedgerConfig selects and configures the durable task-state ledger.
type LedgerConfig struct {
	// Backend is either "postgres" (the tasks table in the main
	// database) or "redis" (in-flight set plus solved/failed hashes).
	Backend   string `mapstructure:"backend" validate:"required,oneof=postgres redis"`
	RedisAddr string `mapstructure:"redis_addr" validate:"required_if=Backend redis"`
}

// QueueConfig selects and configures the job queue transport.
type QueueConfig struct {
	// Backend is either "channel" (in-process buffered channel) or
	// "rabbitmq" (broker transport for multi-process deployments).
	Backend     string `mapstructure:"backend" validate:"required,oneof=channel rabbitmq"`
	BufferSize  int    `mapstructure:"buffer_size" validate:"required,gt=0"`
	RabbitMQURL string `mapstructure:"rabbitmq_url" validate:"required_if=Backend rabbitmq"`
	Topic       string `mapstructure:"topic" validate:"required_if=Backend rabbitmq"`
}

// WorkerConfig configures the image worker pool.
type WorkerConfig struct {
	Count int `mapstructure:"count" validate:"required,gt=0"`

	// StaleTaskAge is how long a task may sit in-flight before the
	// reconciliation sweep fails it. Zero disables the sweep.
	StaleTaskAge       time.Duration `mapstructure:"stale_task_age"`
	StaleCheckInterval time.Duration `mapstructure:"stale_check_interval"`
}

// StorageConfig configures the image blob store (MinIO / S3-compatible).
type StorageConfig struct {
	Endpoint  string `mapstructure:"endpoint" validate:"required"`
	AccessKey string `mapstructure:"access_key" validate:"required"`
	SecretKey string `mapstructure:"secret_key" validate:"required"`
	Bucket    string `mapstructure:"bucket" validate:"required"`
	UseSSL    bool   `mapstructure:"use_ssl"`
}

// ImageConfig configures the image transform step.
type ImageConfig struct {
	// TargetSize is the side, in pixels, of the square every stored
	// image is cropped and scaled to.
	TargetSize int `mapstructure:"target_size" validate:"required,gt=0"`
}
