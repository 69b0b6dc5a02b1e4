package config

import (
	"time"

	env "github.com/allisson/go-env"
)

type envConfig struct {
	ConfigFile           string
	JournalFile          string
	AppLogFile           string
	LogLevel             string
	RequestTimeout       time.Duration
	MaxConcurrentPunches int
	ServerPort           int
	Version              string
	UploadDir            string
	EmailTo              string
	EmailFrom            string
	AWSRegion            string
	ImportRatePerSecond  float64
	ImportConcurrency    int
}

func NewEnvironmentConfig() *envConfig {
	return &envConfig{
		ConfigFile:           env.GetString("CONFIG_FILE", "config.json"),
		JournalFile:          env.GetString("JOURNAL_FILE", "cOrange.log"),
		AppLogFile:           env.GetString("APP_LOG_FILE", "cOrange-app.log"),
		LogLevel:             env.GetString("LOG_LEVEL", "info"),
		RequestTimeout:       env.GetDuration("REQUEST_TIMEOUT_SECONDS", 30, time.Second),
		MaxConcurrentPunches: env.GetInt("MAX_CONCURRENT_PUNCHES", 4),
		ServerPort:           env.GetInt("SERVER_PORT", 8080),
		Version:              env.GetString("VERSION", "v1"),
		UploadDir:            env.GetString("UPLOAD_DIR", ""),
		EmailTo:              env.GetString("EMAIL_TO", ""),
		EmailFrom:            env.GetString("EMAIL_FROM", ""),
		AWSRegion:            env.GetString("AWS_REGION", "ap-southeast-2"),
		ImportRatePerSecond:  env.GetFloat64("IMPORT_RATE_PER_SECOND", 1),
		ImportConcurrency:    env.GetInt("IMPORT_CONCURRENCY", 2),
	}
}
