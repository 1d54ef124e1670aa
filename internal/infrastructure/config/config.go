package config

import "time"

// Config holds all configuration for the application
type Config struct {
	Environment string         `mapstructure:"environment"`
	Server      ServerConfig   `mapstructure:"server"`
	Database    DatabaseConfig `mapstructure:"database"`
	Logger      LoggerConfig   `mapstructure:"logger"`
	Storage     StorageConfig  `mapstructure:"storage"`
	Payment     PaymentConfig  `mapstructure:"payment"`
	Queue       QueueConfig    `mapstructure:"queue"`
	Redis       RedisConfig    `mapstructure:"redis"`
	Auth        AuthConfig     `mapstructure:"auth"`
	Worker      WorkerConfig   `mapstructure:"worker"`
}

// ServerConfig contains HTTP server settings
type ServerConfig struct {
	Host              string        `mapstructure:"host"`
	Port              int           `mapstructure:"port"`
	ReadTimeout       time.Duration `mapstructure:"readTimeout"`       // seconds
	WriteTimeout      time.Duration `mapstructure:"writeTimeout"`      // seconds
	IdleTimeout       time.Duration `mapstructure:"idleTimeout"`       // seconds
	ReadHeaderTimeout time.Duration `mapstructure:"readHeaderTimeout"` // seconds
	ShutdownTimeout   time.Duration `mapstructure:"shutdownTimeout"`   // seconds
	MaxUploadBytes    int64         `mapstructure:"maxUploadBytes"`
}

// DatabaseConfig contains database connection settings
type DatabaseConfig struct {
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	Username        string        `mapstructure:"username"`
	Password        string        `mapstructure:"password"`
	Database        string        `mapstructure:"database"`
	SSLMode         string        `mapstructure:"sslMode"`
	MaxOpenConns    int           `mapstructure:"maxOpenConns"`
	MaxIdleConns    int           `mapstructure:"maxIdleConns"`
	ConnMaxLifetime time.Duration `mapstructure:"connMaxLifetime"` // minutes
	ConnMaxIdleTime time.Duration `mapstructure:"connMaxIdleTime"` // minutes
	QueryTimeout    time.Duration `mapstructure:"queryTimeout"`    // seconds
	LogLevel        string        `mapstructure:"logLevel"`
	RetryAttempts   int           `mapstructure:"retryAttempts"`
	RetryDelay      time.Duration `mapstructure:"retryDelay"` // seconds
}

// LoggerConfig contains logger settings
type LoggerConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
	Output string `mapstructure:"output"`
}

// StorageConfig contains Supabase object storage settings
type StorageConfig struct {
	URL            string        `mapstructure:"url"`
	ServiceRoleKey string        `mapstructure:"serviceRoleKey"`
	Bucket         string        `mapstructure:"bucket"`
	RequestTimeout time.Duration `mapstructure:"requestTimeout"` // seconds
}

// PaymentConfig contains Razorpay settings
type PaymentConfig struct {
	KeyID     string `mapstructure:"keyId"`
	KeySecret string `mapstructure:"keySecret"`
	Currency  string `mapstructure:"currency"`
}

// QueueConfig contains Kafka settings
type QueueConfig struct {
	Brokers []string `mapstructure:"brokers"`
	Topic   string   `mapstructure:"topic"`
	GroupID string   `mapstructure:"groupId"`
}

// RedisConfig contains Redis cache settings
type RedisConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

// AuthConfig contains JWT settings
type AuthConfig struct {
	JWTSecret string `mapstructure:"jwtSecret"`
}

// WorkerConfig contains job executor settings
type WorkerConfig struct {
	MaxAttempts int           `mapstructure:"maxAttempts"`
	RetryDelay  time.Duration `mapstructure:"retryDelay"`  // seconds
	TaskTimeout time.Duration `mapstructure:"taskTimeout"` // seconds
}
