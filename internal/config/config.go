package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all application configuration.
type Config struct {
	Server ServerConfig
	DB     DBConfig
	JWT    JWTConfig
	S3     S3Config
	Recon  ReconConfig
	CORS   CORSConfig
	Log    LogConfig
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port         string        `mapstructure:"port"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
	Environment  string        `mapstructure:"environment"`
}

// DBConfig holds PostgreSQL connection settings.
type DBConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	Name     string `mapstructure:"name"`
	SSLMode  string `mapstructure:"sslmode"`
	MaxOpen  int    `mapstructure:"max_open"`
	MaxIdle  int    `mapstructure:"max_idle"`
}

// DSN returns the PostgreSQL connection string.
func (d *DBConfig) DSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		d.User, d.Password, d.Host, d.Port, d.Name, d.SSLMode,
	)
}

// JWTConfig holds JWT signing and expiry settings.
type JWTConfig struct {
	Secret             string        `mapstructure:"secret"`
	AccessTokenExpiry  time.Duration `mapstructure:"access_expiry"`
	RefreshTokenExpiry time.Duration `mapstructure:"refresh_expiry"`
	Issuer             string        `mapstructure:"issuer"`
}

// S3Config holds object storage settings.
type S3Config struct {
	Region        string `mapstructure:"region"`
	Bucket        string `mapstructure:"bucket"`
	Endpoint      string `mapstructure:"endpoint"`
	AccessKey     string `mapstructure:"access_key"`
	SecretKey     string `mapstructure:"secret_key"`
	MaxFileSizeMB int64  `mapstructure:"max_file_size_mb"`
	PresignExpiry int64  `mapstructure:"presign_expiry"`
}

// ReconConfig holds reconciliation engine settings.
type ReconConfig struct {
	// Concurrency bounds the worker pool used for cross-reference scans.
	Concurrency int `mapstructure:"concurrency"`
	// ScanTimeout caps a single reconciliation request end to end.
	ScanTimeout time.Duration `mapstructure:"scan_timeout"`
	// HeaderRows and HeaderCols bound the legacy display-name search window.
	HeaderRows int `mapstructure:"header_rows"`
	HeaderCols int `mapstructure:"header_cols"`
}

// CORSConfig holds CORS settings.
type CORSConfig struct {
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// Load reads configuration from environment variables with the PATRIMON_ prefix.
func Load() (*Config, error) {
	v := viper.New()
	v.SetEnvPrefix("PATRIMON")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Server defaults
	v.SetDefault("server.port", ":8080")
	v.SetDefault("server.read_timeout", "15s")
	v.SetDefault("server.write_timeout", "60s")
	v.SetDefault("server.environment", "development")

	// DB defaults
	v.SetDefault("db.host", "localhost")
	v.SetDefault("db.port", 5432)
	v.SetDefault("db.user", "patrimon")
	v.SetDefault("db.password", "patrimon_secret")
	v.SetDefault("db.name", "patrimon_db")
	v.SetDefault("db.sslmode", "disable")
	v.SetDefault("db.max_open", 25)
	v.SetDefault("db.max_idle", 10)

	// JWT defaults
	v.SetDefault("jwt.secret", "change-me-in-production")
	v.SetDefault("jwt.access_expiry", "15m")
	v.SetDefault("jwt.refresh_expiry", "168h")
	v.SetDefault("jwt.issuer", "patrimon")

	// S3 defaults
	v.SetDefault("s3.region", "us-east-1")
	v.SetDefault("s3.bucket", "patrimon-masters")
	v.SetDefault("s3.endpoint", "")
	v.SetDefault("s3.max_file_size_mb", 25)
	v.SetDefault("s3.presign_expiry", 3600)

	// Recon defaults
	v.SetDefault("recon.concurrency", 4)
	v.SetDefault("recon.scan_timeout", "120s")
	v.SetDefault("recon.header_rows", 20)
	v.SetDefault("recon.header_cols", 20)

	// Log defaults
	v.SetDefault("log.level", "debug")
	v.SetDefault("log.format", "console")

	// CORS defaults (localhost origins for development)
	v.SetDefault("cors.allowed_origins", "http://localhost:3000,http://127.0.0.1:3000")

	// Bind environment variables explicitly for nested keys
	envBindings := map[string]string{
		"server.port":           "PATRIMON_SERVER_PORT",
		"server.read_timeout":   "PATRIMON_SERVER_READ_TIMEOUT",
		"server.write_timeout":  "PATRIMON_SERVER_WRITE_TIMEOUT",
		"server.environment":    "PATRIMON_SERVER_ENVIRONMENT",
		"db.host":               "PATRIMON_DB_HOST",
		"db.port":               "PATRIMON_DB_PORT",
		"db.user":               "PATRIMON_DB_USER",
		"db.password":           "PATRIMON_DB_PASSWORD",
		"db.name":               "PATRIMON_DB_NAME",
		"db.sslmode":            "PATRIMON_DB_SSLMODE",
		"db.max_open":           "PATRIMON_DB_MAX_OPEN",
		"db.max_idle":           "PATRIMON_DB_MAX_IDLE",
		"jwt.secret":            "PATRIMON_JWT_SECRET",
		"jwt.access_expiry":     "PATRIMON_JWT_ACCESS_EXPIRY",
		"jwt.refresh_expiry":    "PATRIMON_JWT_REFRESH_EXPIRY",
		"jwt.issuer":            "PATRIMON_JWT_ISSUER",
		"s3.region":             "PATRIMON_S3_REGION",
		"s3.bucket":             "PATRIMON_S3_BUCKET",
		"s3.endpoint":           "PATRIMON_S3_ENDPOINT",
		"s3.access_key":         "PATRIMON_S3_ACCESS_KEY",
		"s3.secret_key":         "PATRIMON_S3_SECRET_KEY",
		"s3.max_file_size_mb":   "PATRIMON_S3_MAX_FILE_SIZE_MB",
		"s3.presign_expiry":     "PATRIMON_S3_PRESIGN_EXPIRY",
		"recon.concurrency":     "PATRIMON_RECON_CONCURRENCY",
		"recon.scan_timeout":    "PATRIMON_RECON_SCAN_TIMEOUT",
		"recon.header_rows":     "PATRIMON_RECON_HEADER_ROWS",
		"recon.header_cols":     "PATRIMON_RECON_HEADER_COLS",
		"log.level":             "PATRIMON_LOG_LEVEL",
		"log.format":            "PATRIMON_LOG_FORMAT",
		"cors.allowed_origins":  "PATRIMON_CORS_ALLOWED_ORIGINS",
	}
	for key, env := range envBindings {
		_ = v.BindEnv(key, env)
	}

	cfg := &Config{}

	// Railway/Heroku/Render set a PORT env var. Use it if PATRIMON_SERVER_PORT is not explicitly set.
	serverPort := v.GetString("server.port")
	if port := os.Getenv("PORT"); port != "" && os.Getenv("PATRIMON_SERVER_PORT") == "" {
		serverPort = ":" + port
	}

	cfg.Server = ServerConfig{
		Port:         serverPort,
		ReadTimeout:  v.GetDuration("server.read_timeout"),
		WriteTimeout: v.GetDuration("server.write_timeout"),
		Environment:  v.GetString("server.environment"),
	}
	cfg.DB = DBConfig{
		Host:     v.GetString("db.host"),
		Port:     v.GetInt("db.port"),
		User:     v.GetString("db.user"),
		Password: v.GetString("db.password"),
		Name:     v.GetString("db.name"),
		SSLMode:  v.GetString("db.sslmode"),
		MaxOpen:  v.GetInt("db.max_open"),
		MaxIdle:  v.GetInt("db.max_idle"),
	}
	cfg.JWT = JWTConfig{
		Secret:             v.GetString("jwt.secret"),
		AccessTokenExpiry:  v.GetDuration("jwt.access_expiry"),
		RefreshTokenExpiry: v.GetDuration("jwt.refresh_expiry"),
		Issuer:             v.GetString("jwt.issuer"),
	}
	cfg.S3 = S3Config{
		Region:        v.GetString("s3.region"),
		Bucket:        v.GetString("s3.bucket"),
		Endpoint:      v.GetString("s3.endpoint"),
		AccessKey:     v.GetString("s3.access_key"),
		SecretKey:     v.GetString("s3.secret_key"),
		MaxFileSizeMB: v.GetInt64("s3.max_file_size_mb"),
		PresignExpiry: v.GetInt64("s3.presign_expiry"),
	}
	cfg.Recon = ReconConfig{
		Concurrency: v.GetInt("recon.concurrency"),
		ScanTimeout: v.GetDuration("recon.scan_timeout"),
		HeaderRows:  v.GetInt("recon.header_rows"),
		HeaderCols:  v.GetInt("recon.header_cols"),
	}
	cfg.Log = LogConfig{
		Level:  v.GetString("log.level"),
		Format: v.GetString("log.format"),
	}

	// Parse CORS allowed origins from comma-separated string
	var corsOrigins []string
	for _, o := range strings.Split(v.GetString("cors.allowed_origins"), ",") {
		o = strings.TrimSpace(o)
		if o != "" {
			corsOrigins = append(corsOrigins, o)
		}
	}
	cfg.CORS = CORSConfig{AllowedOrigins: corsOrigins}

	return cfg, nil
}
