package config

import (
	"log"
	"os"
)

// Config contient la configuration principale de l'API.
type Config struct {
	Env       string
	Port      string
	JWTSecret string

	DatabaseURL string

	LogLevel  string
	LogFormat string

	// "local" ou "s3"
	StorageBackend string
	UploadDir      string
	PublicBaseURL  string
	S3Bucket       string
	S3Region       string
	S3AccessKey    string
	S3SecretKey    string

	// "http" ou "mock", choisi à la composition. Le cœur ne lit jamais
	// l'environnement lui-même.
	StagingProvider string
	StagingAPIKey   string
	StagingAPIBase  string
}

// LoadConfig charge la configuration à partir des variables d'environnement.
func LoadConfig() Config {
	cfg := Config{
		Env:       getEnv("API_ENV", "development"),
		Port:      getEnv("API_PORT", "8080"),
		JWTSecret: getEnv("API_JWT_SECRET", "changeme-super-secret"),

		DatabaseURL: getEnv("DATABASE_URL", ""),

		LogLevel:  getEnv("LOG_LEVEL", "info"),
		LogFormat: getEnv("LOG_FORMAT", "json"),

		StorageBackend: getEnv("STORAGE_BACKEND", "local"),
		UploadDir:      getEnv("UPLOAD_DIR", "uploads"),
		PublicBaseURL:  getEnv("PUBLIC_BASE_URL", "http://localhost:8080"),
		S3Bucket:       getEnv("S3_BUCKET", ""),
		S3Region:       getEnv("S3_REGION", "eu-west-3"),
		S3AccessKey:    getEnv("S3_ACCESS_KEY", ""),
		S3SecretKey:    getEnv("S3_SECRET_KEY", ""),

		StagingProvider: getEnv("STAGING_PROVIDER", "http"),
		StagingAPIKey:   getEnv("STAGING_API_KEY", ""),
		StagingAPIBase:  getEnv("STAGING_API_BASE", ""),
	}

	if cfg.JWTSecret == "" || cfg.JWTSecret == "changeme-super-secret" {
		log.Println("[AVERTISSEMENT] API_JWT_SECRET n'est pas configuré ou utilise la valeur par défaut. Ne pas utiliser en production.")
	}

	if cfg.StagingProvider == "http" && cfg.StagingAPIKey == "" {
		log.Println("[INFO] STAGING_API_KEY n'est pas configuré. Les générations échoueront tant que la clé est absente.")
	}

	return cfg
}

func (c Config) HTTPAddr() string {
	return ":" + c.Port
}

func getEnv(key, def string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return def
}
