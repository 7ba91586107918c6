package auth

import (
	"crypto/rsa"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/heartmarshall/auditlog-backend/internal/domain"
)

// Claims is what the transport layer needs from a verified token.
// TenantID is empty when the token carries no tenant claim.
type Claims struct {
	Subject  string
	TenantID string
}

// JWTManager verifies tenant tokens and, when configured with a shared
// secret, issues them. With a public key it verifies RS256 tokens minted by
// an external identity provider and cannot issue.
type JWTManager struct {
	secret      []byte
	publicKey   *rsa.PublicKey
	issuer      string
	tenantClaim string
	accessTTL   time.Duration
}

// NewJWTManager creates an HS256 manager.
// secret must be at least 32 characters for HS256 security.
func NewJWTManager(secret, issuer, tenantClaim string, accessTTL time.Duration) *JWTManager {
	return &JWTManager{
		secret:      []byte(secret),
		issuer:      issuer,
		tenantClaim: tenantClaim,
		accessTTL:   accessTTL,
	}
}

// NewRS256Verifier creates a verify-only manager from a PEM encoded RSA public key.
func NewRS256Verifier(publicKeyPEM, issuer, tenantClaim string) (*JWTManager, error) {
	key, err := jwt.ParseRSAPublicKeyFromPEM([]byte(publicKeyPEM))
	if err != nil {
		return nil, fmt.Errorf("parse public key: %w", err)
	}
	return &JWTManager{
		publicKey:   key,
		issuer:      issuer,
		tenantClaim: tenantClaim,
	}, nil
}

// IssueToken creates a signed HS256 JWT for subject bound to tenantID.
func (m *JWTManager) IssueToken(subject, tenantID string) (string, error) {
	if len(m.secret) == 0 {
		return "", errors.New("token issuing requires a shared secret")
	}

	now := time.Now()
	claims := jwt.MapClaims{
		"sub":         subject,
		"iss":         m.issuer,
		"iat":         jwt.NewNumericDate(now),
		"exp":         jwt.NewNumericDate(now.Add(m.accessTTL)),
		m.tenantClaim: tenantID,
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

// VerifyToken parses and validates a token. Any failure wraps
// domain.ErrUnauthenticated.
func (m *JWTManager) VerifyToken(tokenString string) (Claims, error) {
	if tokenString == "" {
		return Claims{}, fmt.Errorf("token is empty: %w", domain.ErrUnauthenticated)
	}

	claims := jwt.MapClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, m.keyFunc,
		jwt.WithIssuer(m.issuer),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		return Claims{}, fmt.Errorf("parse token: %v: %w", err, domain.ErrUnauthenticated)
	}
	if !token.Valid {
		return Claims{}, fmt.Errorf("invalid token: %w", domain.ErrUnauthenticated)
	}

	sub, _ := claims.GetSubject()
	tenantID, _ := claims[m.tenantClaim].(string)

	return Claims{Subject: sub, TenantID: tenantID}, nil
}

func (m *JWTManager) keyFunc(token *jwt.Token) (any, error) {
	if m.publicKey != nil {
		if _, ok := token.Method.(*jwt.SigningMethodRSA); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return m.publicKey, nil
	}
	if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
		return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
	}
	return m.secret, nil
}
