package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Environment constants
const (
	Development = "development"
	Production  = "production"
	Test        = "test"
)

// ConfigPaths defines the paths to look for config files
var ConfigPaths = []string{
	"./configs",
	"../configs",
	"../../configs",
}

// DotEnvPaths defines the paths to look for .env files
var DotEnvPaths = []string{
	".env",
	"./.env",
	"../.env",
	"../../.env",
	"./configs/.env",
}

// LoadConfig loads configuration from file based on the environment
func LoadConfig() (*Config, error) {
	// Load environment variables from .env file first
	if err := loadDotEnvFile(); err != nil {
		fmt.Println("Warning: Could not load .env file:", err)
	}

	env := getEnvironment()

	v := viper.New()
	v.SetConfigName(env)
	v.SetConfigType("yaml")
	for _, path := range ConfigPaths {
		v.AddConfigPath(path)
	}

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("error reading config file: %w", err)
	}

	// Environment variables override file values
	v.SetEnvPrefix("IW")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	processEnvOverrides(v)

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("unable to decode config into struct: %w", err)
	}

	config.Environment = env
	processDurations(&config)

	return &config, nil
}

// loadDotEnvFile attempts to load environment variables from .env files
func loadDotEnvFile() error {
	var lastError error

	for _, path := range DotEnvPaths {
		if _, err := os.Stat(path); err == nil {
			if err := godotenv.Load(path); err == nil {
				return nil
			} else {
				lastError = err
			}
		}
	}

	if lastError != nil {
		return fmt.Errorf("could not load any .env file: %w", lastError)
	}
	return fmt.Errorf("no .env file found in search paths")
}

// setDefaults sets default values for non-critical configuration
func setDefaults(v *viper.Viper) {
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.readTimeout", 15)        // seconds
	v.SetDefault("server.writeTimeout", 30)       // seconds, uploads can be slow
	v.SetDefault("server.idleTimeout", 60)        // seconds
	v.SetDefault("server.readHeaderTimeout", 10)  // seconds
	v.SetDefault("server.shutdownTimeout", 10)    // seconds
	v.SetDefault("server.maxUploadBytes", 10<<20) // 10 MiB

	v.SetDefault("database.port", 5432)
	v.SetDefault("database.sslMode", "disable")
	v.SetDefault("database.maxOpenConns", 50)
	v.SetDefault("database.maxIdleConns", 25)
	v.SetDefault("database.connMaxLifetime", 30) // minutes
	v.SetDefault("database.connMaxIdleTime", 15) // minutes
	v.SetDefault("database.queryTimeout", 5)     // seconds
	v.SetDefault("database.logLevel", "warn")
	v.SetDefault("database.retryAttempts", 3)
	v.SetDefault("database.retryDelay", 1) // seconds

	v.SetDefault("logger.level", "info")
	v.SetDefault("logger.format", "json")
	v.SetDefault("logger.output", "stdout")

	v.SetDefault("storage.bucket", "images")
	v.SetDefault("storage.requestTimeout", 30) // seconds

	v.SetDefault("payment.currency", "INR")

	v.SetDefault("queue.brokers", []string{"localhost:9092"})
	v.SetDefault("queue.topic", "image-jobs")
	v.SetDefault("queue.groupId", "image-workers")

	v.SetDefault("redis.enabled", true)
	v.SetDefault("redis.addr", "localhost:6379")
	v.SetDefault("redis.db", 0)

	v.SetDefault("worker.maxAttempts", 3)
	v.SetDefault("worker.retryDelay", 120) // seconds
	v.SetDefault("worker.taskTimeout", 600) // seconds
}

// getEnvironment determines the environment to use based on IW_ENV
func getEnvironment() string {
	env := os.Getenv("IW_ENV")
	if env == "" {
		env = Development
	}
	return strings.ToLower(env)
}

// processEnvOverrides ensures environment variables override config values
// for sensitive settings
func processEnvOverrides(v *viper.Viper) {
	if dbHost := os.Getenv("IW_DB_HOST"); dbHost != "" {
		v.Set("database.host", dbHost)
	}
	if dbPort := os.Getenv("IW_DB_PORT"); dbPort != "" {
		v.Set("database.port", dbPort)
	}
	if dbUser := os.Getenv("IW_DB_USERNAME"); dbUser != "" {
		v.Set("database.username", dbUser)
	}
	if dbPass := os.Getenv("IW_DB_PASSWORD"); dbPass != "" {
		v.Set("database.password", dbPass)
	}
	if dbName := os.Getenv("IW_DB_NAME"); dbName != "" {
		v.Set("database.database", dbName)
	}

	if storageURL := os.Getenv("IW_SUPABASE_URL"); storageURL != "" {
		v.Set("storage.url", storageURL)
	}
	if storageKey := os.Getenv("IW_SUPABASE_SERVICE_ROLE_KEY"); storageKey != "" {
		v.Set("storage.serviceRoleKey", storageKey)
	}
	if bucket := os.Getenv("IW_SUPABASE_BUCKET"); bucket != "" {
		v.Set("storage.bucket", bucket)
	}

	if keyID := os.Getenv("IW_RAZORPAY_KEY_ID"); keyID != "" {
		v.Set("payment.keyId", keyID)
	}
	if keySecret := os.Getenv("IW_RAZORPAY_KEY_SECRET"); keySecret != "" {
		v.Set("payment.keySecret", keySecret)
	}

	if brokers := os.Getenv("IW_KAFKA_BROKERS"); brokers != "" {
		v.Set("queue.brokers", strings.Split(brokers, ","))
	}
	if topic := os.Getenv("IW_KAFKA_TOPIC"); topic != "" {
		v.Set("queue.topic", topic)
	}

	if redisAddr := os.Getenv("IW_REDIS_ADDR"); redisAddr != "" {
		v.Set("redis.addr", redisAddr)
	}
	if redisPass := os.Getenv("IW_REDIS_PASSWORD"); redisPass != "" {
		v.Set("redis.password", redisPass)
	}

	if jwtSecret := os.Getenv("IW_JWT_SECRET"); jwtSecret != "" {
		v.Set("auth.jwtSecret", jwtSecret)
	}

	if logLevel := os.Getenv("IW_LOGGER_LEVEL"); logLevel != "" {
		v.Set("logger.level", logLevel)
	}
}

// processDurations converts duration fields from their raw config values
func processDurations(config *Config) {
	config.Server.ReadTimeout = time.Duration(config.Server.ReadTimeout) * time.Second
	config.Server.WriteTimeout = time.Duration(config.Server.WriteTimeout) * time.Second
	config.Server.IdleTimeout = time.Duration(config.Server.IdleTimeout) * time.Second
	config.Server.ReadHeaderTimeout = time.Duration(config.Server.ReadHeaderTimeout) * time.Second
	config.Server.ShutdownTimeout = time.Duration(config.Server.ShutdownTimeout) * time.Second

	config.Database.ConnMaxLifetime = time.Duration(config.Database.ConnMaxLifetime) * time.Minute
	config.Database.ConnMaxIdleTime = time.Duration(config.Database.ConnMaxIdleTime) * time.Minute
	config.Database.QueryTimeout = time.Duration(config.Database.QueryTimeout) * time.Second
	config.Database.RetryDelay = time.Duration(config.Database.RetryDelay) * time.Second

	config.Storage.RequestTimeout = time.Duration(config.Storage.RequestTimeout) * time.Second

	config.Worker.RetryDelay = time.Duration(config.Worker.RetryDelay) * time.Second
	config.Worker.TaskTimeout = time.Duration(config.Worker.TaskTimeout) * time.Second
}
