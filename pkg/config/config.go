package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// AppConfig holds the application configuration.
type AppConfig struct {
	Port             string
	JWTSecret        string
	JWTTokenLifespan time.Duration
	DBHost           string
	DBPort           string
	DBUser           string
	DBPassword       string
	DBName           string
	EnableDBSSL      bool
	Environment      string // "development", "staging", "production"

	FrontendBaseURL string

	// Password reset. The issuance TTL and the validation grace are two
	// separate knobs on purpose: validation treats a token as alive until
	// expiry + grace, which is wider than the window advertised in the
	// reset email. See DESIGN.md before unifying them.
	ResetTokenTTL             time.Duration
	ResetTokenValidationGrace time.Duration

	// People search.
	SearchSiteDomain         string
	SearchInstitutionKeyword string
	LookupTimeout            time.Duration
	GoogleCSEAPIKey          string
	GoogleCSEEngineID        string

	// Avatar storage.
	FileStorageProvider string // "s3" or "gcs"
	AWSS3Bucket         string
	GCSProjectID        string
	GCSBucketName       string

	AWSRegion         string
	AWSSESEmailSender string

	AppVersion     string
	FeatureToggles map[string]bool
}

var Cfg AppConfig

// LoadConfig loads the application configuration from environment variables.
func LoadConfig() {
	// Load .env for local development; a missing file is fine in production.
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file loaded:", err)
	}

	Cfg.Port = getEnv("PORT", "8080")
	Cfg.JWTSecret = getEnv("JWT_SECRET_KEY", "")
	jwtLifespanHours, err := strconv.Atoi(getEnv("JWT_TOKEN_LIFESPAN_HOURS", "24"))
	if err != nil {
		log.Printf("Invalid JWT_TOKEN_LIFESPAN_HOURS, using default 24h. Error: %v", err)
		jwtLifespanHours = 24
	}
	Cfg.JWTTokenLifespan = time.Duration(jwtLifespanHours) * time.Hour

	Cfg.DBHost = getEnv("DB_HOST", "localhost")
	Cfg.DBPort = getEnv("DB_PORT", "5432")
	Cfg.DBUser = getEnv("DB_USER", "alumninet_user")
	Cfg.DBPassword = getEnv("DB_PASSWORD", "alumninet_pass")
	Cfg.DBName = getEnv("DB_NAME", "alumninet_db")
	Cfg.EnableDBSSL = getEnvAsBool("DB_SSL_ENABLE", false)

	Cfg.Environment = getEnv("ENVIRONMENT", "development")

	Cfg.FrontendBaseURL = getEnv("FRONTEND_BASE_URL", "http://localhost:3000")

	Cfg.ResetTokenTTL = time.Duration(getEnvAsInt("RESET_TOKEN_TTL_MINUTES", 10)) * time.Minute
	Cfg.ResetTokenValidationGrace = time.Duration(getEnvAsInt("RESET_TOKEN_VALIDATION_GRACE_SECONDS", 60)) * time.Second

	Cfg.SearchSiteDomain = getEnv("SEARCH_SITE_DOMAIN", "linkedin.com")
	Cfg.SearchInstitutionKeyword = getEnv("SEARCH_INSTITUTION_KEYWORD", "SLRTCE")
	Cfg.LookupTimeout = time.Duration(getEnvAsInt("LOOKUP_TIMEOUT_SECONDS", 10)) * time.Second
	Cfg.GoogleCSEAPIKey = getEnv("GOOGLE_CSE_API_KEY", "")
	Cfg.GoogleCSEEngineID = getEnv("GOOGLE_CSE_ENGINE_ID", "")

	Cfg.FileStorageProvider = getEnv("FILE_STORAGE_PROVIDER", "s3")
	Cfg.AWSS3Bucket = getEnv("AWS_S3_BUCKET", "")
	Cfg.GCSProjectID = getEnv("GCS_PROJECT_ID", "")
	Cfg.GCSBucketName = getEnv("GCS_BUCKET_NAME", "")

	Cfg.AWSRegion = getEnv("AWS_REGION", "")
	Cfg.AWSSESEmailSender = getEnv("AWS_SES_EMAIL_SENDER", "")

	Cfg.AppVersion = getEnv("APP_VERSION", "")
	Cfg.FeatureToggles = loadFeatureToggles()

	log.Printf("Configuration loaded for environment: %s", Cfg.Environment)
}

// loadFeatureToggles collects every FEATURE_* environment variable into a map
// keyed by the name without the prefix.
func loadFeatureToggles() map[string]bool {
	toggles := make(map[string]bool)
	for _, kv := range os.Environ() {
		if !strings.HasPrefix(kv, "FEATURE_") {
			continue
		}
		name, value, found := strings.Cut(kv[len("FEATURE_"):], "=")
		if !found || name == "" {
			continue
		}
		enabled, err := strconv.ParseBool(value)
		if err != nil {
			log.Printf("Invalid boolean value for feature toggle %s, ignoring.", name)
			continue
		}
		toggles[name] = enabled
	}
	return toggles
}

// getEnv returns the value of an environment variable or a default.
func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

// getEnvAsBool returns the boolean value of an environment variable or a default.
func getEnvAsBool(key string, defaultValue bool) bool {
	valStr := getEnv(key, "")
	if valStr == "" {
		return defaultValue
	}
	valBool, err := strconv.ParseBool(valStr)
	if err != nil {
		log.Printf("Invalid boolean environment variable '%s'='%s', using default: %t", key, valStr, defaultValue)
		return defaultValue
	}
	return valBool
}

// getEnvAsInt returns the integer value of an environment variable or a default.
func getEnvAsInt(key string, defaultValue int) int {
	valStr := getEnv(key, "")
	if valStr == "" {
		return defaultValue
	}
	valInt, err := strconv.Atoi(valStr)
	if err != nil {
		log.Printf("Invalid integer environment variable '%s'='%s', using default: %d", key, valStr, defaultValue)
		return defaultValue
	}
	return valInt
}

func init() {
	LoadConfig()
}
