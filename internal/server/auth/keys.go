package auth

import (
	"crypto/rand"
	"crypto/rsa"
	"crypto/x509"
	"encoding/pem"
	"fmt"
	"os"

	"github.com/golang-jwt/jwt/v5"
)

// parseKeys decodes a PEM keypair for the family of method.
func parseKeys(method jwt.SigningMethod, privatePEM, publicPEM []byte) (private any, public any, err error) {
	switch method.(type) {
	case *jwt.SigningMethodRSA, *jwt.SigningMethodRSAPSS:
		if private, err = jwt.ParseRSAPrivateKeyFromPEM(privatePEM); err != nil {
			return nil, nil, fmt.Errorf("parse RSA private key: %w", err)
		}
		if public, err = jwt.ParseRSAPublicKeyFromPEM(publicPEM); err != nil {
			return nil, nil, fmt.Errorf("parse RSA public key: %w", err)
		}
	case *jwt.SigningMethodECDSA:
		if private, err = jwt.ParseECPrivateKeyFromPEM(privatePEM); err != nil {
			return nil, nil, fmt.Errorf("parse EC private key: %w", err)
		}
		if public, err = jwt.ParseECPublicKeyFromPEM(publicPEM); err != nil {
			return nil, nil, fmt.Errorf("parse EC public key: %w", err)
		}
	case *jwt.SigningMethodEd25519:
		if private, err = jwt.ParseEdPrivateKeyFromPEM(privatePEM); err != nil {
			return nil, nil, fmt.Errorf("parse Ed25519 private key: %w", err)
		}
		if public, err = jwt.ParseEdPublicKeyFromPEM(publicPEM); err != nil {
			return nil, nil, fmt.Errorf("parse Ed25519 public key: %w", err)
		}
	default:
		return nil, nil, fmt.Errorf("unsupported signing method %q", method.Alg())
	}
	return private, public, nil
}

// LoadTokenManager reads the PEM keypair from disk and builds a TokenManager
// for algorithm.
func LoadTokenManager(algorithm, privatePath, publicPath string) (*TokenManager, error) {
	method, err := asymmetricMethod(algorithm)
	if err != nil {
		return nil, err
	}

	privatePEM, err := os.ReadFile(privatePath)
	if err != nil {
		return nil, fmt.Errorf("read private key: %w", err)
	}
	publicPEM, err := os.ReadFile(publicPath)
	if err != nil {
		return nil, fmt.Errorf("read public key: %w", err)
	}

	private, public, err := parseKeys(method, privatePEM, publicPEM)
	if err != nil {
		return nil, err
	}
	return NewTokenManager(algorithm, private, public)
}

// GenerateRSAKeyPEM creates an RSA keypair encoded as PKCS#8 / PKIX PEM
// blocks, the layout openssl produces for RS256 keys.
func GenerateRSAKeyPEM(bits int) (privatePEM, publicPEM []byte, err error) {
	key, err := rsa.GenerateKey(rand.Reader, bits)
	if err != nil {
		return nil, nil, err
	}

	privateDER, err := x509.MarshalPKCS8PrivateKey(key)
	if err != nil {
		return nil, nil, err
	}
	publicDER, err := x509.MarshalPKIXPublicKey(&key.PublicKey)
	if err != nil {
		return nil, nil, err
	}

	privatePEM = pem.EncodeToMemory(&pem.Block{Type: "PRIVATE KEY", Bytes: privateDER})
	publicPEM = pem.EncodeToMemory(&pem.Block{Type: "PUBLIC KEY", Bytes: publicDER})
	return privatePEM, publicPEM, nil
}
