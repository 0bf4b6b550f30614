package config

import "os"

// Config holds process-level settings, all read from the environment.
type Config struct {
	HTTPPort  string
	KBSource  string // "file" (default) or "mongo"
	KBPath    string
	MongoURI  string
	MongoDB   string
	RedisAddr string // empty disables the detection cache
}

// Load reads the configuration from the environment.
func Load() *Config {
	return &Config{
		HTTPPort:  getEnvOrDefault("PORT", "8080"),
		KBSource:  getEnvOrDefault("KB_SOURCE", "file"),
		KBPath:    getEnvOrDefault("KB_PATH", "data/intents.json"),
		MongoURI:  getEnvOrDefault("MONGO_URI", "mongodb://localhost:27017"),
		MongoDB:   getEnvOrDefault("MONGO_DB", "concierge"),
		RedisAddr: os.Getenv("REDIS_ADDR"),
	}
}

func getEnvOrDefault(key, defaultValue string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultValue
}
