package config

import (
	"encoding/json"
	"os"

	"github.com/dmitrijs2005/lostfound/internal/flagx"
	"github.com/dmitrijs2005/lostfound/internal/timex"
)

// JsonConfig defines a configuration structure tailored for JSON
// unmarshalling. It uses timex.Duration for interval fields, which allows
// parsing both string values such as "30m" and integer nanoseconds.
//
// This struct is an intermediate DTO used only for reading JSON
// configuration files. After unmarshalling, its fields are copied into the
// runtime Config struct which uses time.Duration.
type JsonConfig struct {
	EndpointAddr             string         `json:"endpoint_addr"`
	DatabaseDSN              string         `json:"database_dsn"`
	SessionSecret            string         `json:"session_secret"`
	AdminCookieSecret        string         `json:"admin_cookie_secret"`
	AdminEmail               string         `json:"admin_email"`
	AdminPassword            string         `json:"admin_password"`
	AdminSessionTTL          timex.Duration `json:"admin_session_ttl"`
	AccessTokenValidity      timex.Duration `json:"access_token_validity"`
	RefreshTokenValidity     timex.Duration `json:"refresh_token_validity"`
	RequireChallengeVerified *bool          `json:"require_challenge_verified"`
	RateLimitWindow          timex.Duration `json:"rate_limit_window"`
	RateLimitMax             int            `json:"rate_limit_max"`
	S3RootUser               string         `json:"s3_root_user"`
	S3RootPassword           string         `json:"s3_root_password"`
	S3Bucket                 string         `json:"s3_bucket"`
	S3Region                 string         `json:"s3_region"`
	S3BaseEndpoint           string         `json:"s3_base_endpoint"`
}

// parseJson loads configuration values from an optional JSON file into the
// provided Config. The file path is taken from the -c or -config flags; if
// neither is set, nothing is loaded. Unreadable or invalid JSON panics, so
// a misconfigured deployment fails fast at startup.
func parseJson(config *Config) {
	path := flagx.JsonConfigFlags()
	if path == "" {
		return
	}

	data, err := os.ReadFile(path)
	if err != nil {
		panic(err)
	}

	jc := &JsonConfig{}
	if err := json.Unmarshal(data, jc); err != nil {
		panic(err)
	}

	if jc.EndpointAddr != "" {
		config.EndpointAddr = jc.EndpointAddr
	}
	if jc.DatabaseDSN != "" {
		config.DatabaseDSN = jc.DatabaseDSN
	}
	if jc.SessionSecret != "" {
		config.SessionSecret = jc.SessionSecret
	}
	if jc.AdminCookieSecret != "" {
		config.AdminCookieSecret = jc.AdminCookieSecret
	}
	if jc.AdminEmail != "" {
		config.AdminEmail = jc.AdminEmail
	}
	if jc.AdminPassword != "" {
		config.AdminPassword = jc.AdminPassword
	}
	if jc.AdminSessionTTL.Duration != 0 {
		config.AdminSessionTTL = jc.AdminSessionTTL.Duration
	}
	if jc.AccessTokenValidity.Duration != 0 {
		config.AccessTokenValidity = jc.AccessTokenValidity.Duration
	}
	if jc.RefreshTokenValidity.Duration != 0 {
		config.RefreshTokenValidity = jc.RefreshTokenValidity.Duration
	}
	if jc.RequireChallengeVerified != nil {
		config.RequireChallengeVerified = *jc.RequireChallengeVerified
	}
	if jc.RateLimitWindow.Duration != 0 {
		config.RateLimitWindow = jc.RateLimitWindow.Duration
	}
	if jc.RateLimitMax != 0 {
		config.RateLimitMax = jc.RateLimitMax
	}
	if jc.S3RootUser != "" {
		config.S3RootUser = jc.S3RootUser
	}
	if jc.S3RootPassword != "" {
		config.S3RootPassword = jc.S3RootPassword
	}
	if jc.S3Bucket != "" {
		config.S3Bucket = jc.S3Bucket
	}
	if jc.S3Region != "" {
		config.S3Region = jc.S3Region
	}
	if jc.S3BaseEndpoint != "" {
		config.S3BaseEndpoint = jc.S3BaseEndpoint
	}
}
