package config

import (
	"os"
	"strconv"
	"strings"
)

// Config holds all runtime configuration loaded from environment variables.
type Config struct {
	AppPort string
	AppEnv  string

	AWSRegion      string
	AWSEndpointURL string // empty in prod, set to LocalStack URL in dev
	AWSAccessKeyID string
	AWSSecretKey   string

	DynamoTableAccounts string
	SNSRegion           string

	// Telos chain access. The creator account pays for the new account's
	// RAM and CPU/NET stake; its key lives in the wallet daemon, not here.
	TelosAPIURL         string
	TelosWalletAPIURL   string
	TelosCreatorAccount string
	TelosCreatorKey     string // public key used to select the signing key in the wallet
	TelosRAMBytes       int32
	TelosNetStake       string // asset string, e.g. "0.1000 TLOS"
	TelosCPUStake       string

	SentryDSN string

	AllowedOrigins []string // CORS allowed origins
}

// Load reads all configuration from environment variables.
// ALLOW_DELETE_NUMBER is deliberately not loaded here: the deletion
// workflow reads it per request so the gate can be flipped without a
// restart.
func Load() *Config {
	return &Config{
		AppPort: getEnv("APP_PORT", "3000"),
		AppEnv:  getEnv("APP_ENV", "development"),

		AWSRegion:      getEnv("AWS_REGION", "us-east-1"),
		AWSEndpointURL: getEnv("AWS_ENDPOINT_URL", ""),
		AWSAccessKeyID: getEnv("AWS_ACCESS_KEY_ID", ""),
		AWSSecretKey:   getEnv("AWS_SECRET_ACCESS_KEY", ""),

		DynamoTableAccounts: getEnv("DYNAMO_TABLE_ACCOUNTS", "accounts"),
		SNSRegion:           getEnv("SNS_REGION", "us-east-1"),

		TelosAPIURL:         getEnv("TELOS_API_URL", "https://api.telos.net"),
		TelosWalletAPIURL:   getEnv("TELOS_WALLET_API_URL", "http://localhost:8900"),
		TelosCreatorAccount: getEnv("TELOS_CREATOR_ACCOUNT", ""),
		TelosCreatorKey:     getEnv("TELOS_CREATOR_KEY", ""),
		TelosRAMBytes:       int32(getEnvInt("TELOS_RAM_BYTES", 4096)),
		TelosNetStake:       getEnv("TELOS_NET_STAKE", "0.1000 TLOS"),
		TelosCPUStake:       getEnv("TELOS_CPU_STAKE", "0.9000 TLOS"),

		SentryDSN: getEnv("SENTRY_DSN", ""),

		AllowedOrigins: strings.Split(getEnv("ALLOWED_ORIGINS", "*"), ","),
	}
}

// AllowDeleteNumber reports whether the administrative record-deletion
// endpoint is enabled. Checked at request time, not at process start.
func AllowDeleteNumber() bool {
	return os.Getenv("ALLOW_DELETE_NUMBER") == "Y"
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}
