package config

import (
	"os"
	"time"

	"github.com/joho/godotenv"
)

// parseEnv overlays configuration from environment variables, loading an
// optional .env file first. Duration variables accept time.ParseDuration
// syntax ("15m", "168h"); unparsable values are ignored.
func parseEnv(config *Config) {
	_ = godotenv.Load()

	setString := func(name string, dst *string) {
		if v, ok := os.LookupEnv(name); ok {
			*dst = v
		}
	}
	setDuration := func(name string, dst *time.Duration) {
		if v, ok := os.LookupEnv(name); ok {
			if d, err := time.ParseDuration(v); err == nil {
				*dst = d
			}
		}
	}

	setString("ADDRESS", &config.EndpointAddrHTTP)
	setString("DATABASE_DSN", &config.DatabaseDSN)
	setString("REDIS_ADDR", &config.RedisAddr)
	setString("SECRET_KEY", &config.SecretKey)
	setDuration("ACCESS_TOKEN_TTL", &config.AccessTokenValidityDuration)
	setDuration("REFRESH_TOKEN_TTL", &config.RefreshTokenValidityDuration)
	setString("S3_ROOT_USER", &config.S3RootUser)
	setString("S3_ROOT_PASSWORD", &config.S3RootPassword)
	setString("S3_BUCKET", &config.S3Bucket)
	setString("S3_REGION", &config.S3Region)
	setString("S3_BASE_ENDPOINT", &config.S3BaseEndpoint)
}
