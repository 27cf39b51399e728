package config

import (
	"errors"
	"io/fs"

	"github.com/spf13/viper"
)

// envFile is read when present; real environment variables win over it.
var envFile = ".env"

// parseEnv overlays config with environment variables.
//
//	HTTP_ADDR / PORT         bind address (PORT=3000 means ":3000")
//	DATABASE_DSN             PostgreSQL DSN
//	JWT_SECRET               token signing secret
//	TOKEN_VALIDITY           e.g. "24h"
//	ENVIRONMENT              "production" | "development"
//	LOG_LEVEL                debug | info | warn | error
//	CLIENT_URL               allowed CORS origin
//	BCRYPT_COST              bcrypt work factor
//	REVOCATION_BACKEND       postgres | redis
//	REDIS_ADDR, REDIS_PASSWORD
//	ENFORCE_TODO_OWNERSHIP   true | false
func parseEnv(config *Config) {
	parseEnvFrom(newEnvViper(envFile), config)
}

func newEnvViper(path string) *viper.Viper {
	v := viper.New()
	v.AutomaticEnv()

	if path == "" {
		return v
	}

	v.SetConfigFile(path)
	v.SetConfigType("env")
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !errors.Is(err, fs.ErrNotExist) {
			panic(err)
		}
	}
	return v
}

func parseEnvFrom(v *viper.Viper, config *Config) {
	if v.IsSet("PORT") {
		config.HTTPAddr = ":" + v.GetString("PORT")
	}

	stringKeys := map[string]*string{
		"HTTP_ADDR":          &config.HTTPAddr,
		"DATABASE_DSN":       &config.DatabaseDSN,
		"JWT_SECRET":         &config.SecretKey,
		"ENVIRONMENT":        &config.Environment,
		"LOG_LEVEL":          &config.LogLevel,
		"CLIENT_URL":         &config.ClientURL,
		"REVOCATION_BACKEND": &config.RevocationBackend,
		"REDIS_ADDR":         &config.RedisAddr,
		"REDIS_PASSWORD":     &config.RedisPassword,
	}
	for key, dst := range stringKeys {
		if v.IsSet(key) {
			*dst = v.GetString(key)
		}
	}

	if v.IsSet("TOKEN_VALIDITY") {
		if d := v.GetDuration("TOKEN_VALIDITY"); d > 0 {
			config.TokenValidityDuration = d
		}
	}
	if v.IsSet("BCRYPT_COST") {
		config.BcryptCost = v.GetInt("BCRYPT_COST")
	}
	if v.IsSet("ENFORCE_TODO_OWNERSHIP") {
		config.EnforceTodoOwnership = v.GetBool("ENFORCE_TODO_OWNERSHIP")
	}
}
