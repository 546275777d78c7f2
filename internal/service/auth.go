package service

import (
	"context"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	"github.com/SudilMin/Devthon-website/internal/domain"
)

// RoleAdmin is the only role issued by the service
const RoleAdmin = "admin"

// Claims represents JWT claims
type Claims struct {
	Role string `json:"role"`
	jwt.RegisteredClaims
}

// AuthService authenticates organizers and issues JWT tokens for the admin endpoints
type AuthService struct {
	apiKeyHash []byte
	jwtSecret  string
	jwtExpiry  time.Duration
}

// NewAuthService creates a new AuthService. apiKeyHash is a bcrypt hash of the
// organizer API key.
func NewAuthService(apiKeyHash, jwtSecret string, jwtExpiry time.Duration) *AuthService {
	return &AuthService{
		apiKeyHash: []byte(apiKeyHash),
		jwtSecret:  jwtSecret,
		jwtExpiry:  jwtExpiry,
	}
}

// Enabled reports whether admin authentication is configured.
// Without it the admin endpoints are open, as in local development.
func (s *AuthService) Enabled() bool {
	return len(s.apiKeyHash) > 0 && s.jwtSecret != ""
}

// Login checks the API key and generates a JWT token
func (s *AuthService) Login(_ context.Context, apiKey string) (string, error) {
	if !s.Enabled() || apiKey == "" {
		return "", domain.ErrUnauthorized
	}
	if err := bcrypt.CompareHashAndPassword(s.apiKeyHash, []byte(apiKey)); err != nil {
		return "", domain.ErrUnauthorized
	}

	now := time.Now()
	claims := &Claims{
		Role: RoleAdmin,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   RoleAdmin,
			ExpiresAt: jwt.NewNumericDate(now.Add(s.jwtExpiry)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)

	tokenString, err := token.SignedString([]byte(s.jwtSecret))
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}

	return tokenString, nil
}

// ValidateToken validates a JWT token and returns claims
func (s *AuthService) ValidateToken(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		// Verify signing method
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(s.jwtSecret), nil
	})

	if err != nil {
		return nil, domain.ErrInvalidToken
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid || claims.Role != RoleAdmin {
		return nil, domain.ErrInvalidToken
	}

	return claims, nil
}

// HashAPIKey returns the bcrypt hash to put into ADMIN_API_KEY_HASH
func HashAPIKey(apiKey string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(apiKey), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("failed to hash api key: %w", err)
	}
	return string(hash), nil
}
