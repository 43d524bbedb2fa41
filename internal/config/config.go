package config

import (
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Port          string
	DbURL         string
	SessionSecret string

	// Audit
	AuditLogPath string

	// Image uploads
	ImageStore string // "local" or "s3"
	UploadDir  string
	S3Bucket   string
	S3Region   string

	// Notifications
	SendGridKey string
	NotifyFrom  string
	BaseURL     string

	// Locator
	MapsKey string

	// Login challenge
	RecaptchaSecret string

	// Seed admin, ensured at startup
	AdminEmail    string
	AdminPassword string

	// Per-request deadline; cancels in-flight storage calls so a stalled
	// database never pins a handler indefinitely.
	RequestTimeout time.Duration
}

// Load reads the configuration from a .env file or environment variables and returns a Config struct.
// It returns an error if any required variable is missing.
func Load() (*Config, error) {
	// Try to load .env file, ignore error if it doesn't exist
	_ = godotenv.Load()

	port := os.Getenv("PORT")
	sessionSecret := os.Getenv("SESSION_SECRET")
	dbURL := os.Getenv("DATABASE_URL")

	if port == "" || sessionSecret == "" || dbURL == "" {
		return nil, fmt.Errorf("missing required environment variables: PORT=%q, SESSION_SECRET=%q, DATABASE_URL=%q", port, sessionSecret, dbURL)
	}

	cfg := &Config{
		Port:            port,
		DbURL:           dbURL,
		SessionSecret:   sessionSecret,
		AuditLogPath:    getEnv("AUDIT_LOG_PATH", "blog.log"),
		ImageStore:      getEnv("IMAGE_STORE", "local"),
		UploadDir:       getEnv("UPLOAD_DIR", "images"),
		S3Bucket:        os.Getenv("S3_BUCKET"),
		S3Region:        getEnv("S3_REGION", "us-east-1"),
		SendGridKey:     os.Getenv("SENDGRID_API_KEY"),
		NotifyFrom:      getEnv("NOTIFY_FROM_EMAIL", "hungerhelphelp@gmail.com"),
		BaseURL:         getEnv("BASE_URL", "http://localhost:8080"),
		MapsKey:         os.Getenv("GOOGLEMAPS_KEY"),
		RecaptchaSecret: os.Getenv("RECAPTCHA_SECRET"),
		AdminEmail:      getEnv("ADMIN_EMAIL", "admin@email.com"),
		AdminPassword:   os.Getenv("ADMIN_PASSWORD"),
		RequestTimeout:  getEnvDuration("REQUEST_TIMEOUT", 15*time.Second),
	}

	if cfg.ImageStore == "s3" && cfg.S3Bucket == "" {
		return nil, fmt.Errorf("IMAGE_STORE=s3 requires S3_BUCKET to be set")
	}

	return cfg, nil
}

func getEnv(key, defaultVal string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultVal
}

func getEnvDuration(key string, defaultVal time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return defaultVal
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return defaultVal
	}
	return d
}
