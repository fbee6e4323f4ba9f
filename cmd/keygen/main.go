// Command keygen writes an RSA keypair for signing session tokens. The
// -k and -K flags are the same ones the server reads.
package main

import (
	"flag"
	"log"
	"os"
	"path/filepath"

	"github.com/dmitrijs2005/scicatalog/internal/flagx"
	"github.com/dmitrijs2005/scicatalog/internal/server/auth"
	"github.com/dmitrijs2005/scicatalog/internal/server/config"
)

const keyBits = 2048

func main() {
	cfg := &config.Config{}
	cfg.LoadDefaults()

	fs := flag.NewFlagSet("keygen", flag.ExitOnError)
	fs.StringVar(&cfg.JWTPrivateKeyPath, "k", cfg.JWTPrivateKeyPath, "JWT private key (PEM)")
	fs.StringVar(&cfg.JWTPublicKeyPath, "K", cfg.JWTPublicKeyPath, "JWT public key (PEM)")
	_ = fs.Parse(flagx.FilterArgs(os.Args[1:], config.KeyFlags))

	priv, pub, err := auth.GenerateRSAKeyPEM(keyBits)
	if err != nil {
		log.Fatalf("generate key: %v", err)
	}

	if err := writeFile(cfg.JWTPrivateKeyPath, priv, 0o600); err != nil {
		log.Fatalf("%v", err)
	}
	if err := writeFile(cfg.JWTPublicKeyPath, pub, 0o644); err != nil {
		log.Fatalf("%v", err)
	}

	log.Printf("wrote %s and %s", cfg.JWTPrivateKeyPath, cfg.JWTPublicKeyPath)
}

func writeFile(path string, data []byte, perm os.FileMode) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	return os.WriteFile(path, data, perm)
}
