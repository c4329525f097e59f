package config

import "os"

// Config holds the application configuration read from the environment.
type Config struct {
	Port                    string
	Env                     string
	PostgresConnStr         string
	FirebaseCredentialsPath string
	JWTSecret               string
}

// Load reads the configuration from environment variables.
func Load() *Config {
	return &Config{
		Port:                    getEnv("PORT", "8080"),
		Env:                     getEnv("ENV", "development"),
		PostgresConnStr:         getEnv("POSTGRES_CONN_STR", ""),
		FirebaseCredentialsPath: getEnv("FIREBASE_CREDENTIALS_PATH", "./firebase_credentials.json"),
		JWTSecret:               getEnv("JWT_SECRET", ""),
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
