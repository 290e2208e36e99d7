package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// parseEnv overlays Config fields from environment variables, loading a
// .env file first if one is present (missing files are fine). Variables:
//
//	ADDRESS, DATABASE_DSN, SESSION_SECRET, ADMIN_COOKIE_SECRET,
//	ADMIN_EMAIL, ADMIN_PASSWORD, ADMIN_SESSION_TTL,
//	REQUIRE_CHALLENGE_VERIFIED, S3_ROOT_USER, S3_ROOT_PASSWORD, S3_BUCKET,
//	S3_REGION, S3_BASE_ENDPOINT, PRODUCTION
func parseEnv(config *Config) {
	_ = godotenv.Load()

	setString := func(key string, dst *string) {
		if v, ok := os.LookupEnv(key); ok {
			*dst = v
		}
	}

	setString("ADDRESS", &config.EndpointAddr)
	setString("DATABASE_DSN", &config.DatabaseDSN)
	setString("SESSION_SECRET", &config.SessionSecret)
	setString("ADMIN_COOKIE_SECRET", &config.AdminCookieSecret)
	setString("ADMIN_EMAIL", &config.AdminEmail)
	setString("ADMIN_PASSWORD", &config.AdminPassword)
	setString("S3_ROOT_USER", &config.S3RootUser)
	setString("S3_ROOT_PASSWORD", &config.S3RootPassword)
	setString("S3_BUCKET", &config.S3Bucket)
	setString("S3_REGION", &config.S3Region)
	setString("S3_BASE_ENDPOINT", &config.S3BaseEndpoint)

	if v, ok := os.LookupEnv("ADMIN_SESSION_TTL"); ok {
		if d, err := time.ParseDuration(v); err == nil {
			config.AdminSessionTTL = d
		}
	}
	if v, ok := os.LookupEnv("REQUIRE_CHALLENGE_VERIFIED"); ok {
		if b, err := strconv.ParseBool(v); err == nil {
			config.RequireChallengeVerified = b
		}
	}
	if v, ok := os.LookupEnv("PRODUCTION"); ok {
		if b, err := strconv.ParseBool(v); err == nil {
			config.Production = b
		}
	}
}
