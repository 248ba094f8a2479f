package config

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
)

type Config struct {
	Port            string
	StorageBucket   string
	MapsAPIKey      string
	OpenAIAPIKey    string
	HasFirebaseCred bool
}

// Load reads the .env file (if present) and the environment. Firebase
// credentials and the storage bucket are required; maps and OpenAI keys
// switch on optional features when set.
func Load() (*Config, error) {
	// .env is for local dev; deployed environments set real env vars.
	_ = godotenv.Load()

	cfg := &Config{
		Port:            os.Getenv("PORT"),
		StorageBucket:   os.Getenv("STORAGE_BUCKET"),
		MapsAPIKey:      os.Getenv("MAPS_CREDENTIALS"),
		OpenAIAPIKey:    os.Getenv("OPENAI_API_KEY"),
		HasFirebaseCred: os.Getenv("FIREBASE_CREDENTIALS") != "",
	}

	if cfg.Port == "" {
		cfg.Port = "8080"
	}

	if !cfg.HasFirebaseCred {
		return nil, fmt.Errorf("FIREBASE_CREDENTIALS not set")
	}
	if cfg.StorageBucket == "" {
		return nil, fmt.Errorf("STORAGE_BUCKET not set")
	}

	return cfg, nil
}
