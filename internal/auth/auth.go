// server/internal/auth/auth.go
package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

// JWTClaims defines the payload for the JWT.
type JWTClaims struct {
	UserID string `json:"userId"`
	Email  string `json:"email"`
	Role   string `json:"role"`
	jwt.RegisteredClaims
}

// Hashing
func HashPassword(password string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	return string(bytes), err
}

func CheckPasswordHash(password, hash string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
	return err == nil
}

// Manager ký và kiểm tra JWT bằng secret lấy từ config.
type Manager struct {
	secret []byte
	ttl    time.Duration
}

const defaultTTL = 24 * time.Hour

// NewManager parses expiration as a Go duration ("24h"); an empty value means 24h.
func NewManager(secret, expiration string) (*Manager, error) {
	if secret == "" {
		return nil, errors.New("jwt secret must not be empty")
	}
	ttl := defaultTTL
	if expiration != "" {
		d, err := time.ParseDuration(expiration)
		if err != nil {
			return nil, fmt.Errorf("invalid jwt expiration %q: %w", expiration, err)
		}
		ttl = d
	}
	return &Manager{secret: []byte(secret), ttl: ttl}, nil
}

// JWT Generation
func (m *Manager) GenerateJWT(userID, email, role string) (string, error) {
	expirationTime := time.Now().Add(m.ttl)
	claims := &JWTClaims{
		UserID: userID,
		Email:  email,
		Role:   role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			ExpiresAt: jwt.NewNumericDate(expirationTime),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(m.secret)
}

// Parse validates the token signature, algorithm and expiry.
func (m *Manager) Parse(tokenString string) (*JWTClaims, error) {
	claims := &JWTClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		return m.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return nil, err
	}
	if !token.Valid {
		return nil, errors.New("invalid token")
	}
	return claims, nil
}
