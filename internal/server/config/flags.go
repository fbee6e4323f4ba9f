package config

import (
	"flag"
	"os"
	"time"

	"github.com/dmitrijs2005/scicatalog/internal/flagx"
)

// KeyFlags are the flags describing the JWT keypair location. They are shared
// with cmd/keygen so both binaries agree on the paths.
var KeyFlags = []string{"-k", "-K"}

// parseFlags populates Config fields from command-line flags.
//
// Supported flags:
//
//	-a string   HTTP bind address (e.g. ":8000")
//	-d string   PostgreSQL DSN
//	-k string   JWT private key PEM path
//	-K string   JWT public key PEM path
//	-j string   JWT algorithm (RS256, RS384, RS512, ES256, ES384, ES512, EdDSA)
//	-t int      access token validity, minutes
//	-r int      refresh token validity, minutes
//	-s bool     Secure flag on auth cookies
//	-l string   log level
//	-m int      max open DB connections
//
// Only the flags above are taken from os.Args (see flagx.FilterArgs), so the
// -c config flag does not collide with this set.
func parseFlags(config *Config) {
	args := flagx.FilterArgs(os.Args[1:], []string{"-a", "-d", "-k", "-K", "-j", "-t", "-r", "-s", "-l", "-m"})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&config.EndpointAddrHTTP, "a", config.EndpointAddrHTTP, "address and port to run server")
	fs.StringVar(&config.DatabaseDSN, "d", config.DatabaseDSN, "database DSN")
	fs.StringVar(&config.JWTPrivateKeyPath, "k", config.JWTPrivateKeyPath, "JWT private key (PEM)")
	fs.StringVar(&config.JWTPublicKeyPath, "K", config.JWTPublicKeyPath, "JWT public key (PEM)")
	fs.StringVar(&config.JWTAlgorithm, "j", config.JWTAlgorithm, "JWT signing algorithm")

	accessTokenValidityDuration := fs.Int("t", int(config.AccessTokenValidityDuration.Minutes()), "access token validity (in minutes)")
	refreshTokenValidityDuration := fs.Int("r", int(config.RefreshTokenValidityDuration.Minutes()), "refresh token validity (in minutes)")

	fs.BoolVar(&config.CookieSecure, "s", config.CookieSecure, "set Secure on auth cookies")
	fs.StringVar(&config.LogLevel, "l", config.LogLevel, "log level")
	fs.IntVar(&config.DBMaxOpenConns, "m", config.DBMaxOpenConns, "max open database connections")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}

	config.AccessTokenValidityDuration = time.Duration(*accessTokenValidityDuration) * time.Minute
	config.RefreshTokenValidityDuration = time.Duration(*refreshTokenValidityDuration) * time.Minute
}
