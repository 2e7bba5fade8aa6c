package config

import (
	"log"
	"os"
	"strconv"
)

type Config struct {
	AppEnv               string
	AppPort              string
	AllowedOrigins       string
	DBDriver             string
	DBHost               string
	DBPort               string
	DBUser               string
	DBPassword           string
	DBName               string
	DBMaxIdleConns       int
	DBMaxOpenConns       int
	NatsURL              string
	ValidationCharPolicy string
	DueDatePrecision     string
	UploadDir            string
}

func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	log.Printf("%s not set, defaulting to %s", key, defaultValue)
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value, exists := os.LookupEnv(key); exists {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
		log.Printf("Invalid integer value for %s, defaulting to %d", key, defaultValue)
	}
	return defaultValue
}

func Load() Config {
	log.Println("Loading configuration...")

	return Config{
		AppEnv:         getEnv("APP_ENV", "development"),
		AppPort:        getEnv("APP_PORT", "8080"),
		AllowedOrigins: getEnv("ALLOWED_ORIGINS", "*"),
		DBDriver:       getEnv("DB_DRIVER", "postgres"),
		DBHost:         getEnv("DB_HOST", "localhost"),
		DBPort:         getEnv("DB_PORT", "5432"),
		DBUser:         getEnv("DB_USER", "todostack"),
		DBPassword:     getEnv("DB_PASSWORD", "todostack"),
		DBName:         getEnv("DB_NAME", "todostack"),
		DBMaxIdleConns: getEnvAsInt("DB_MAX_IDLE_CONNS", 10),
		DBMaxOpenConns: getEnvAsInt("DB_MAX_OPEN_CONNS", 100),
		NatsURL:        getEnv("NATS_URL", "nats://localhost:4222"),
		// strict allows letters and whitespace in title/description;
		// extended additionally allows digits, periods and underscores.
		ValidationCharPolicy: getEnv("VALIDATION_CHAR_POLICY", "extended"),
		// seconds accepts YYYY-MM-DDTHH:MM:SS; nanos requires nine
		// fractional digits. One grammar per deployment.
		DueDatePrecision: getEnv("DUE_DATE_PRECISION", "seconds"),
		UploadDir:        getEnv("UPLOAD_DIR", "uploads/images"),
	}
}
