package config

import (
	"log"
	"os"

	"github.com/joho/godotenv"
)

type Config struct {
	DBHost        string
	DBPort        string
	DBUser        string
	DBPassword    string
	DBName        string
	ServerPort    string
	TokenAudience string
	TokenSecret   string
	ClientOrigin  string
}

func Load() *Config {
	err := godotenv.Load()
	if err != nil {
		log.Println("⚠️  No .env file found, using system environment variables")
	}

	return &Config{
		DBHost:        getEnv("DB_HOST", "localhost"),
		DBPort:        getEnv("DB_PORT", "5432"),
		DBUser:        getEnv("DB_USER", "agility_user"),
		DBPassword:    getEnv("DB_PASSWORD", "agility_pass"),
		DBName:        getEnv("DB_NAME", "agility_db"),
		ServerPort:    getEnv("SERVER_PORT", "3000"),
		TokenAudience: getEnv("TOKEN_AUDIENCE", "agility-client"),
		TokenSecret:   getEnv("TOKEN_SECRET", "supersecretkey"),
		ClientOrigin:  getEnv("CLIENT_ORIGIN", "http://localhost:4200"),
	}
}

func getEnv(key, defaultVal string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultVal
}
