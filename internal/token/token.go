package token

import (
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/avsuhas/hoa-backend/internal/domain"
)

// PurposeSetupPassword marks one-off tokens minted by the approval flow.
const PurposeSetupPassword = "setup_password"

// Claims are the signed facts carried by every bearer token. Access tokens
// carry a role; setup tokens carry a purpose instead.
type Claims struct {
	jwt.RegisteredClaims
	Email   string `json:"email"`
	Role    string `json:"role,omitempty"`
	Purpose string `json:"purpose,omitempty"`
}

// UserID parses the subject claim.
func (c Claims) UserID() (int64, error) {
	id, err := strconv.ParseInt(c.Subject, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("parse subject: %w", domain.ErrInvalidToken)
	}
	return id, nil
}

// Service signs and verifies bearer tokens with a shared HS256 secret. It is
// stateless: issued tokens are not tracked, so revocation before expiry is
// only possible for setup tokens through the persisted reset column.
type Service struct {
	secret    []byte
	accessTTL time.Duration
	setupTTL  time.Duration
}

// NewService creates a token service.
func NewService(secret string, accessTTL, setupTTL time.Duration) *Service {
	return &Service{secret: []byte(secret), accessTTL: accessTTL, setupTTL: setupTTL}
}

// IssueAccess mints a session token for a logged-in user.
func (s *Service) IssueAccess(user domain.User) (string, error) {
	return s.sign(Claims{
		RegisteredClaims: s.registered(user.ID, s.accessTTL),
		Email:            user.Email,
		Role:             user.Role.String(),
	})
}

// IssueSetup mints a purpose-scoped token for the set-password link.
func (s *Service) IssueSetup(user domain.User) (string, error) {
	return s.sign(Claims{
		RegisteredClaims: s.registered(user.ID, s.setupTTL),
		Email:            user.Email,
		Purpose:          PurposeSetupPassword,
	})
}

// SetupTTL exposes the setup-token lifetime so callers can persist a matching
// expiry next to the token.
func (s *Service) SetupTTL() time.Duration {
	return s.setupTTL
}

// Verify checks signature and expiry. Any failure, including a tampered or
// expired token, returns domain.ErrInvalidToken.
func (s *Service) Verify(tokenString string) (Claims, error) {
	claims := Claims{}
	parsed, err := jwt.ParseWithClaims(tokenString, &claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return s.secret, nil
	})
	if err != nil || !parsed.Valid {
		return Claims{}, domain.ErrInvalidToken
	}
	if claims.Subject == "" {
		return Claims{}, domain.ErrInvalidToken
	}
	return claims, nil
}

func (s *Service) sign(claims Claims) (string, error) {
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

func (s *Service) registered(userID int64, ttl time.Duration) jwt.RegisteredClaims {
	now := time.Now()
	return jwt.RegisteredClaims{
		Subject:   strconv.FormatInt(userID, 10),
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
	}
}
