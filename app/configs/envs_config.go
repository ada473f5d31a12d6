package configs

import (
	"fmt"
	"log"
	"os"

	"github.com/joho/godotenv"
)

// Store backends selectable via CART_STORE_BACKEND.
const (
	StoreBackendFile  = "file"
	StoreBackendRedis = "redis"
	StoreBackendMySQL = "mysql"
)

type ENV struct {
	Port       string
	APIBaseURL string
	AppEnv     string
	LogLevel   string

	SessionKey string
	AppAuthKey string
	AppEncKey  string
	CSRFKey    string

	StoreBackend string
	CartFilePath string
	CartProfile  string

	RedisAddr     string
	RedisPassword string
	RedisDB       string

	DBHost     string
	DBUser     string
	DBPassword string
	DBName     string
	DBPort     string

	MidtransServerKey string
	MidtransClientKey string
}

func LoadEnv() ENV {
	if err := godotenv.Load(".env"); err != nil {
		log.Println("Warning: No .env file found")
	}

	return ENV{
		Port:              getEnv("APP_PORT", ":8080"),
		APIBaseURL:        os.Getenv("MARBO_API_BASE_URL"),
		AppEnv:            getEnv("APP_ENV", "development"),
		LogLevel:          getEnv("LOG_LEVEL", "info"),
		SessionKey:        os.Getenv("SESSION_KEY"),
		AppAuthKey:        os.Getenv("APP_AUTH_KEY"),
		AppEncKey:         os.Getenv("APP_ENC_KEY"),
		CSRFKey:           os.Getenv("CSRF_KEY"),
		StoreBackend:      getEnv("CART_STORE_BACKEND", StoreBackendFile),
		CartFilePath:      getEnv("CART_FILE_PATH", "data/cart.json"),
		CartProfile:       getEnv("CART_PROFILE", "default"),
		RedisAddr:         getEnv("REDIS_ADDR", "localhost:6379"),
		RedisPassword:     os.Getenv("REDIS_PASSWORD"),
		RedisDB:           getEnv("REDIS_DB", "0"),
		DBHost:            os.Getenv("DB_HOST"),
		DBUser:            os.Getenv("DB_USER"),
		DBPassword:        os.Getenv("DB_PASSWORD"),
		DBName:            os.Getenv("DB_NAME"),
		DBPort:            os.Getenv("DB_PORT"),
		MidtransServerKey: os.Getenv("MIDTRANS_SERVER_KEY"),
		MidtransClientKey: os.Getenv("MIDTRANS_CLIENT_KEY"),
	}
}

// Validate checks the settings the service cannot run without.
func (e ENV) Validate() error {
	if e.APIBaseURL == "" {
		return fmt.Errorf("MARBO_API_BASE_URL is required")
	}
	if e.SessionKey == "" && (e.AppAuthKey == "" || e.AppEncKey == "") {
		return fmt.Errorf("either SESSION_KEY or APP_AUTH_KEY/APP_ENC_KEY must be set")
	}

	switch e.StoreBackend {
	case StoreBackendFile, StoreBackendRedis, StoreBackendMySQL:
	default:
		return fmt.Errorf("unknown CART_STORE_BACKEND %q", e.StoreBackend)
	}

	if e.StoreBackend == StoreBackendMySQL {
		if e.DBHost == "" || e.DBUser == "" || e.DBName == "" || e.DBPort == "" {
			return fmt.Errorf("DB_HOST, DB_USER, DB_NAME and DB_PORT are required for the mysql cart store")
		}
	}
	return nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
