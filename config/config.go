package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds application configuration
type Config struct {
	Port string

	DBDriver   string // postgres, mysql, sqlite
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBDSN      string // overrides the individual DB_* values when set
	DBLogLevel string

	JWTKey string

	CertificatePrefix        string
	CertificateValidityYears int
	CertificateDir           string
	CertificateReminderDays  int

	ExamPassingScore     float64
	ExamRequiredProgress float64
	ExamMaxAttempts      int
	DefaultTotalLessons  int

	MpesaBaseURL        string
	MpesaConsumerKey    string
	MpesaConsumerSecret string
	MpesaShortCode      string
	MpesaPassKey        string
	MpesaCallbackURL    string
	MpesaTimeout        time.Duration
	PaymentPendingTTL   time.Duration

	SendGridAPIKey  string
	EmailSender     string
	EmailSenderName string

	RateLimitMax int
	SeedDemo     bool
}

// AppConfig is a global variable to access configuration
var AppConfig *Config

// LoadConfig initializes configuration from environment variables or defaults
func LoadConfig() *Config {
	// Load .env file if it exists
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found. Using system environment variables.")
	}

	AppConfig = &Config{
		Port: getEnv("PORT", "3000"),

		DBDriver:   strings.ToLower(getEnv("DB_DRIVER", "postgres")),
		DBHost:     getEnv("DB_HOST", "localhost"),
		DBPort:     getEnv("DB_PORT", "5432"),
		DBUser:     getEnv("DB_USER", "postgres"),
		DBPassword: getEnv("DB_PASSWORD", "postgres"),
		DBName:     getEnv("DB_NAME", "apex"),
		DBDSN:      getEnv("DB_DSN", ""),
		DBLogLevel: getEnv("DB_LOG_LEVEL", "warn"),

		JWTKey: getEnv("JWT_SECRET_KEY", "defaultSecret"),

		CertificatePrefix:        getEnv("CERTIFICATE_PREFIX", "APEX"),
		CertificateValidityYears: getEnvInt("CERTIFICATE_VALIDITY_YEARS", 2),
		CertificateDir:           getEnv("CERTIFICATE_DIR", "./storage/certificates"),
		CertificateReminderDays:  getEnvInt("CERTIFICATE_REMINDER_DAYS", 30),

		ExamPassingScore:     getEnvFloat("EXAM_PASSING_SCORE", 70),
		ExamRequiredProgress: getEnvFloat("EXAM_REQUIRED_PROGRESS", 80),
		ExamMaxAttempts:      getEnvInt("EXAM_MAX_ATTEMPTS", 3),
		DefaultTotalLessons:  getEnvInt("DEFAULT_TOTAL_LESSONS", 10),

		MpesaBaseURL:        getEnv("MPESA_BASE_URL", "https://sandbox.safaricom.co.ke"),
		MpesaConsumerKey:    getEnv("MPESA_CONSUMER_KEY", ""),
		MpesaConsumerSecret: getEnv("MPESA_CONSUMER_SECRET", ""),
		MpesaShortCode:      getEnv("MPESA_SHORTCODE", "174379"),
		MpesaPassKey:        getEnv("MPESA_PASSKEY", ""),
		MpesaCallbackURL:    getEnv("MPESA_CALLBACK_URL", "http://localhost:3000/mpesa/callback"),
		MpesaTimeout:        getEnvDuration("MPESA_TIMEOUT", 15*time.Second),
		PaymentPendingTTL:   getEnvDuration("PAYMENT_PENDING_TTL", 30*time.Minute),

		SendGridAPIKey:  getEnv("SENDGRID_API_KEY", ""),
		EmailSender:     getEnv("EMAIL_SENDER", "no-reply@apexsoftware.co.ke"),
		EmailSenderName: getEnv("EMAIL_SENDER_NAME", "Apex Academy"),

		RateLimitMax: getEnvInt("RATE_LIMIT_MAX", 100),
		SeedDemo:     getEnvBool("SEED_DEMO", false),
	}

	// Validate critical configuration
	if AppConfig.JWTKey == "defaultSecret" {
		log.Println("Warning: Using default JWT_SECRET_KEY. Update it in your environment.")
	}
	if AppConfig.MpesaConsumerKey == "" {
		log.Println("Warning: MPESA_CONSUMER_KEY is empty. Payment initiation will fail.")
	}

	return AppConfig
}

// getEnv retrieves an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

// getEnvInt retrieves an environment variable as an integer or returns the default integer value
func getEnvInt(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	intValue, err := strconv.Atoi(value)
	if err != nil {
		log.Printf("Error converting environment variable %s to int: %v", key, err)
		return defaultValue
	}
	return intValue
}

func getEnvFloat(key string, defaultValue float64) float64 {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	f, err := strconv.ParseFloat(value, 64)
	if err != nil {
		log.Printf("Error converting environment variable %s to float: %v", key, err)
		return defaultValue
	}
	return f
}

func getEnvBool(key string, defaultValue bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	b, err := strconv.ParseBool(value)
	if err != nil {
		log.Printf("Error converting environment variable %s to bool: %v", key, err)
		return defaultValue
	}
	return b
}

// getEnvDuration accepts Go duration strings ("15s", "30m").
func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		log.Printf("Error converting environment variable %s to duration: %v", key, err)
		return defaultValue
	}
	return d
}
