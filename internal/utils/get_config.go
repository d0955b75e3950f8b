package utils

import (
	"os"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2/log"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v2"
)

type Config struct {
	// Server configuration
	AppPort      string `yaml:"APP_PORT"`
	AppURL       string `yaml:"APP_URL"`
	CookieSecure bool   `yaml:"COOKIE_SECURE"`

	// Database configuration
	DBUser     string `yaml:"DB_USER"`
	DBName     string `yaml:"DB_NAME"`
	DBPassword string `yaml:"DB_PASSWORD"`
	DBPort     string `yaml:"DB_PORT"`
	DBHost     string `yaml:"DB_HOST"`
	DBSSLMode  string `yaml:"DB_SSLMODE"`
	DBTimeZone string `yaml:"DB_TIMEZONE"`

	// JWT
	JWTSecret string `yaml:"JWT_SECRET"`

	// Open Food Facts
	OFFBaseURL   string `yaml:"OFF_BASE_URL"`
	OFFTimeout   string `yaml:"OFF_TIMEOUT"`
	OFFUserAgent string `yaml:"OFF_USER_AGENT"`

	// Mailing configuration
	SMTPHost         string `yaml:"SMTP_HOST"`
	SMTPPort         string `yaml:"SMTP_PORT"`
	SMTPSenderName   string `yaml:"SMTP_SENDER_NAME"`
	SMTPAuthEmail    string `yaml:"SMTP_AUTH_EMAIL"`
	SMTPAuthPassword string `yaml:"SMTP_AUTH_PASSWORD"`

	// AWS S3 configuration
	AWSS3Bucket  string `yaml:"AWS_S3_BUCKET"`
	AWSS3Region  string `yaml:"AWS_S3_REGION"`
	AWSAccessKey string `yaml:"AWS_ACCESS_KEY"`
	AWSSecretKey string `yaml:"AWS_SECRET_KEY"`
}

var config = defaultConfig()

func defaultConfig() Config {
	return Config{
		AppPort:      "8082",
		AppURL:       "http://localhost:8082",
		DBSSLMode:    "disable",
		DBTimeZone:   "UTC",
		OFFBaseURL:   "https://world.openfoodfacts.org",
		OFFTimeout:   "10s",
		OFFUserAgent: "Markit/1.0 (pantry tracker)",
	}
}

// LoadConfig reads config.yaml, then .env, then the process environment.
// Later sources override earlier ones key by key.
func LoadConfig() {
	LoadConfigFrom("config.yaml", ".env")
}

func LoadConfigFrom(yamlPath, envPath string) {
	cfg := defaultConfig()

	file, err := os.ReadFile(yamlPath)
	if err != nil {
		log.Warnf("config file %s not read: %v", yamlPath, err)
	} else if err := yaml.Unmarshal(file, &cfg); err != nil {
		log.Errorf("error parsing YAML file %s: %v", yamlPath, err)
	}

	if err := godotenv.Load(envPath); err != nil && !os.IsNotExist(err) {
		log.Warnf("env file %s not loaded: %v", envPath, err)
	}

	applyEnv(&cfg)
	config = cfg
}

func applyEnv(cfg *Config) {
	for key, target := range stringFields(cfg) {
		if v, ok := os.LookupEnv(key); ok {
			*target = v
		}
	}
	if v, ok := os.LookupEnv("COOKIE_SECURE"); ok {
		cfg.CookieSecure = v == "true"
	}
}

func stringFields(cfg *Config) map[string]*string {
	return map[string]*string{
		"APP_PORT":           &cfg.AppPort,
		"APP_URL":            &cfg.AppURL,
		"DB_USER":            &cfg.DBUser,
		"DB_NAME":            &cfg.DBName,
		"DB_PASSWORD":        &cfg.DBPassword,
		"DB_PORT":            &cfg.DBPort,
		"DB_HOST":            &cfg.DBHost,
		"DB_SSLMODE":         &cfg.DBSSLMode,
		"DB_TIMEZONE":        &cfg.DBTimeZone,
		"JWT_SECRET":         &cfg.JWTSecret,
		"OFF_BASE_URL":       &cfg.OFFBaseURL,
		"OFF_TIMEOUT":        &cfg.OFFTimeout,
		"OFF_USER_AGENT":     &cfg.OFFUserAgent,
		"SMTP_HOST":          &cfg.SMTPHost,
		"SMTP_PORT":          &cfg.SMTPPort,
		"SMTP_SENDER_NAME":   &cfg.SMTPSenderName,
		"SMTP_AUTH_EMAIL":    &cfg.SMTPAuthEmail,
		"SMTP_AUTH_PASSWORD": &cfg.SMTPAuthPassword,
		"AWS_S3_BUCKET":      &cfg.AWSS3Bucket,
		"AWS_S3_REGION":      &cfg.AWSS3Region,
		"AWS_ACCESS_KEY":     &cfg.AWSAccessKey,
		"AWS_SECRET_KEY":     &cfg.AWSSecretKey,
	}
}

func GetConfig(key string) string {
	if key == "COOKIE_SECURE" {
		return strconv.FormatBool(config.CookieSecure)
	}
	if target, ok := stringFields(&config)[key]; ok {
		return *target
	}
	return ""
}

// GetDuration parses a duration key, falling back when unset or invalid.
func GetDuration(key string, fallback time.Duration) time.Duration {
	raw := GetConfig(key)
	if raw == "" {
		return fallback
	}
	d, err := time.ParseDuration(raw)
	if err != nil || d <= 0 {
		log.Warnf("invalid duration for %s: %q", key, raw)
		return fallback
	}
	return d
}
