package service

import (
	"errors"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"salary-api/internal/domain"
)

const tokenIssuer = "salary-api"

// JWTService emite y valida access tokens.
type JWTService struct {
	secret []byte
	ttl    time.Duration
	issuer string
	now    func() time.Time
}

type AccessToken struct {
	Token     string    `json:"access_token"`
	TokenType string    `json:"token_type"`
	ExpiresAt time.Time `json:"expires_at"`
}

type Claims struct {
	UserID string `json:"uid"`
	Email  string `json:"email"`
	Role   string `json:"role,omitempty"`
	jwt.RegisteredClaims
}

func NewJWTService(secret string, ttl time.Duration) *JWTService {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &JWTService{
		secret: []byte(secret),
		ttl:    ttl,
		issuer: tokenIssuer,
		now:    func() time.Time { return time.Now().UTC() },
	}
}

// Issue firma un token con subject = id del usuario y expiracion now + ttl.
func (s *JWTService) Issue(user domain.User) (AccessToken, error) {
	if len(s.secret) == 0 {
		return AccessToken{}, ErrTokenInvalid
	}
	if strings.TrimSpace(user.ID) == "" {
		return AccessToken{}, ErrTokenInvalid
	}
	now := s.now()
	expiresAt := now.Add(s.ttl)
	claims := Claims{
		UserID: user.ID,
		Email:  user.Email,
		Role:   user.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    s.issuer,
			Subject:   user.ID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return AccessToken{}, err
	}
	return AccessToken{Token: signed, TokenType: "bearer", ExpiresAt: expiresAt}, nil
}

// Parse valida firma, expiracion y emisor. Devuelve ErrTokenExpired o ErrTokenInvalid.
func (s *JWTService) Parse(tokenString string) (Claims, error) {
	if len(s.secret) == 0 || strings.TrimSpace(tokenString) == "" {
		return Claims{}, ErrTokenInvalid
	}
	var claims Claims
	parser := jwt.NewParser(
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(s.now),
		jwt.WithExpirationRequired(),
	)
	_, err := parser.ParseWithClaims(tokenString, &claims, func(_ *jwt.Token) (any, error) {
		return s.secret, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return Claims{}, ErrTokenExpired
		}
		return Claims{}, ErrTokenInvalid
	}
	if !s.isValidClaims(claims) {
		return Claims{}, ErrTokenInvalid
	}
	return claims, nil
}

func (s *JWTService) isValidClaims(claims Claims) bool {
	if strings.TrimSpace(claims.UserID) == "" {
		return false
	}
	if claims.Subject != claims.UserID {
		return false
	}
	return strings.TrimSpace(claims.Issuer) == s.issuer
}
