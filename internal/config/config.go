package config

import (
	"fmt"
	"os"
)

type Config struct {
	Port        string
	Environment string
	LogLevel    string
	ClientURL   string

	FirebaseProjectID                string
	FirebaseDatabaseURL              string
	GoogleApplicationCredentials     string
	FirebaseServiceAccountJSONBase64 string

	RedisURL string

	PubNubPublishKey   string
	PubNubSubscribeKey string

	CloudinaryCloudName string
	CloudinaryAPIKey    string
	CloudinaryAPISecret string
}

func LoadConfig() (*Config, error) {
	cfg := &Config{
		Port:        getEnvWithDefault("PORT", "8080"),
		Environment: getEnvWithDefault("ENVIRONMENT", "development"),
		LogLevel:    getEnvWithDefault("LOG_LEVEL", "info"),
		ClientURL:   getEnvWithDefault("CLIENT_URL", "http://localhost:3000"),

		FirebaseProjectID:                os.Getenv("FIREBASE_PROJECT_ID"),
		FirebaseDatabaseURL:              os.Getenv("FIREBASE_DATABASE_URL"),
		GoogleApplicationCredentials:     os.Getenv("GOOGLE_APPLICATION_CREDENTIALS"),
		FirebaseServiceAccountJSONBase64: os.Getenv("FIREBASE_SERVICE_ACCOUNT_JSON_BASE64"),

		RedisURL: os.Getenv("REDIS_URL"),

		PubNubPublishKey:   os.Getenv("PUBNUB_PUBLISH_KEY"),
		PubNubSubscribeKey: os.Getenv("PUBNUB_SUBSCRIBE_KEY"),

		CloudinaryCloudName: os.Getenv("CLOUDINARY_CLOUD_NAME"),
		CloudinaryAPIKey:    os.Getenv("CLOUDINARY_API_KEY"),
		CloudinaryAPISecret: os.Getenv("CLOUDINARY_API_SECRET"),
	}

	// Validate required fields
	if cfg.FirebaseProjectID == "" {
		return nil, fmt.Errorf("FIREBASE_PROJECT_ID is required")
	}
	if cfg.FirebaseDatabaseURL == "" {
		return nil, fmt.Errorf("FIREBASE_DATABASE_URL is required")
	}

	return cfg, nil
}

func getEnvWithDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

func (c *Config) IsDevelopment() bool {
	return c.Environment == "development"
}

// HasRedis reports whether a Redis instance was configured. Without one the
// scan rate limiter is disabled, not failed.
func (c *Config) HasRedis() bool {
	return c.RedisURL != ""
}

func (c *Config) HasPubNub() bool {
	return c.PubNubPublishKey != "" && c.PubNubSubscribeKey != ""
}

func (c *Config) HasCloudinary() bool {
	return c.CloudinaryCloudName != "" && c.CloudinaryAPIKey != "" && c.CloudinaryAPISecret != ""
}
