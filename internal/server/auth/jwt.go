// Package auth issues and verifies session tokens and hashes passwords.
//
// Tokens are JWTs signed with an asymmetric key: the private key signs,
// the public key verifies, so verification never needs the signing secret.
package auth

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/dmitrijs2005/scicatalog/internal/common"
	"github.com/golang-jwt/jwt/v5"
)

// Claims carries the user identity. Subject is the decimal user id.
type Claims struct {
	jwt.RegisteredClaims
	Email string `json:"email"`
}

// UserID parses the subject claim.
func (c *Claims) UserID() (int64, error) {
	id, err := strconv.ParseInt(c.Subject, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: bad subject %q", common.ErrInvalidToken, c.Subject)
	}
	return id, nil
}

// TokenManager signs and verifies tokens with one keypair.
type TokenManager struct {
	method     jwt.SigningMethod
	privateKey any
	publicKey  any
	now        func() time.Time
}

// NewTokenManager builds a manager for an asymmetric algorithm identifier
// (RS*, PS*, ES*, EdDSA) and its matching keys.
func NewTokenManager(algorithm string, privateKey, publicKey any) (*TokenManager, error) {
	method, err := asymmetricMethod(algorithm)
	if err != nil {
		return nil, err
	}
	if privateKey == nil || publicKey == nil {
		return nil, errors.New("token manager needs both keys")
	}
	return &TokenManager{method: method, privateKey: privateKey, publicKey: publicKey, now: time.Now}, nil
}

func asymmetricMethod(algorithm string) (jwt.SigningMethod, error) {
	method := jwt.GetSigningMethod(algorithm)
	switch method.(type) {
	case *jwt.SigningMethodRSA, *jwt.SigningMethodRSAPSS, *jwt.SigningMethodECDSA, *jwt.SigningMethodEd25519:
		return method, nil
	default:
		return nil, fmt.Errorf("unsupported or symmetric signing algorithm %q", algorithm)
	}
}

// Issue signs claims with issued-at set to now and expiry to now+ttl.
func (m *TokenManager) Issue(claims Claims, ttl time.Duration) (string, error) {
	now := m.now()
	claims.IssuedAt = jwt.NewNumericDate(now)
	claims.ExpiresAt = jwt.NewNumericDate(expiry(now, ttl))

	token, err := jwt.NewWithClaims(m.method, claims).SignedString(m.privateKey)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return token, nil
}

// expiry is now+ttl rounded up to a whole second, since NumericDate drops
// the fraction and a token must not expire before its ttl has elapsed.
func expiry(now time.Time, ttl time.Duration) time.Time {
	exp := now.Add(ttl)
	if whole := exp.Truncate(time.Second); !whole.Equal(exp) {
		return whole.Add(time.Second)
	}
	return exp
}

// Verify checks signature, algorithm and expiry. An expired token yields
// common.ErrTokenExpired; anything else wrong yields common.ErrInvalidToken.
func (m *TokenManager) Verify(tokenString string) (*Claims, error) {
	claims := &Claims{}

	_, err := jwt.ParseWithClaims(tokenString, claims,
		func(*jwt.Token) (any, error) { return m.publicKey, nil },
		jwt.WithValidMethods([]string{m.method.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithIssuedAt(),
		jwt.WithTimeFunc(m.now),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, common.ErrTokenExpired
		}
		return nil, fmt.Errorf("%w: %v", common.ErrInvalidToken, err)
	}

	if claims.Subject == "" {
		return nil, fmt.Errorf("%w: missing subject", common.ErrInvalidToken)
	}
	if claims.IssuedAt == nil {
		return nil, fmt.Errorf("%w: missing issued-at", common.ErrInvalidToken)
	}

	return claims, nil
}
