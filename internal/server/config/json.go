package config

import (
	"encoding/json"
	"os"

	"github.com/dmitrijs2005/scicatalog/internal/flagx"
	"github.com/dmitrijs2005/scicatalog/internal/timex"
)

// JsonConfig is the on-disk shape of the config file. Durations use
// timex.Duration so both "30m" and integer nanoseconds are accepted.
// Fields left out of the file keep their current values.
type JsonConfig struct {
	EndpointAddrHTTP             *string         `json:"endpoint_addr_http"`
	DatabaseDSN                  *string         `json:"database_dsn"`
	JWTPrivateKeyPath            *string         `json:"jwt_private_key_path"`
	JWTPublicKeyPath             *string         `json:"jwt_public_key_path"`
	JWTAlgorithm                 *string         `json:"jwt_algorithm"`
	AccessTokenValidityDuration  *timex.Duration `json:"access_token_validity_duration"`
	RefreshTokenValidityDuration *timex.Duration `json:"refresh_token_validity_duration"`
	CookieSecure                 *bool           `json:"cookie_secure"`
	LogLevel                     *string         `json:"log_level"`
	DBMaxOpenConns               *int            `json:"db_max_open_conns"`
}

// parseJson overlays values from the file named by -c / -config. Without the
// flag nothing is loaded. An unreadable or malformed file panics, as startup
// cannot continue with a half-applied configuration.
func parseJson(config *Config) {
	path := flagx.ConfigPath()
	if path == "" {
		return
	}

	file, err := os.ReadFile(path)
	if err != nil {
		panic(err)
	}

	c := &JsonConfig{}
	if err := json.Unmarshal(file, c); err != nil {
		panic(err)
	}

	c.apply(config)
}

func (c *JsonConfig) apply(config *Config) {
	setIf(&config.EndpointAddrHTTP, c.EndpointAddrHTTP)
	setIf(&config.DatabaseDSN, c.DatabaseDSN)
	setIf(&config.JWTPrivateKeyPath, c.JWTPrivateKeyPath)
	setIf(&config.JWTPublicKeyPath, c.JWTPublicKeyPath)
	setIf(&config.JWTAlgorithm, c.JWTAlgorithm)
	setIf(&config.CookieSecure, c.CookieSecure)
	setIf(&config.LogLevel, c.LogLevel)
	setIf(&config.DBMaxOpenConns, c.DBMaxOpenConns)

	if c.AccessTokenValidityDuration != nil {
		config.AccessTokenValidityDuration = c.AccessTokenValidityDuration.Duration
	}
	if c.RefreshTokenValidityDuration != nil {
		config.RefreshTokenValidityDuration = c.RefreshTokenValidityDuration.Duration
	}
}

func setIf[T any](dst *T, src *T) {
	if src != nil {
		*dst = *src
	}
}
