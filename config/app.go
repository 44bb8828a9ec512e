package config

import (
	"os"
	"strconv"
	"sync"
)

// AppConfig holds global application configuration
var AppConfig *Config
var once sync.Once

type Config struct {
	AppName       string
	Port          string
	Env           string
	Debug         bool
	EventChannel  string
	RetryAttempts int
	// Add more fields as needed
}

// LoadAppConfig initializes the global AppConfig variable
func LoadAppConfig() {
	once.Do(func() {
		attempts := 5
		if v := os.Getenv("STOCK_RETRY_ATTEMPTS"); v != "" {
			if n, err := strconv.Atoi(v); err == nil && n > 0 {
				attempts = n
			}
		}
		AppConfig = &Config{
			AppName:       os.Getenv("APP_NAME"),
			Port:          os.Getenv("PORT"),
			Env:           os.Getenv("APP_ENV"),
			Debug:         os.Getenv("DEBUG") == "true",
			EventChannel:  GetEnv("STOCK_EVENT_CHANNEL", "stock.low"),
			RetryAttempts: attempts,
		}
	})
}
