package utils

import (
	"errors"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var (
	ErrInvalidToken     = errors.New("invalid or expired token")
	ErrBlacklistedToken = errors.New("token has been revoked")
)

type CustomClaims struct {
	EmployeeID uint   `json:"employee_id"`
	Role       string `json:"role"`
	jwt.RegisteredClaims
}

// TokenManager issues and validates employee session tokens.
type TokenManager struct {
	secret []byte
	ttl    time.Duration

	mu          sync.RWMutex
	blacklisted map[string]time.Time
}

func NewTokenManager(secret string, ttl time.Duration) *TokenManager {
	return &TokenManager{
		secret:      []byte(secret),
		ttl:         ttl,
		blacklisted: make(map[string]time.Time),
	}
}

func (tm *TokenManager) GenerateToken(employeeID uint, role string) (string, error) {
	now := time.Now()
	claims := &CustomClaims{
		EmployeeID: employeeID,
		Role:       role,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(tm.ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
			Issuer:    "BuffetApp",
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(tm.secret)
}

func (tm *TokenManager) ParseToken(tokenString string) (*CustomClaims, error) {
	if tm.IsBlacklisted(tokenString) {
		return nil, ErrBlacklistedToken
	}

	token, err := jwt.ParseWithClaims(tokenString, &CustomClaims{}, func(token *jwt.Token) (interface{}, error) {
		return tm.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil || !token.Valid {
		return nil, ErrInvalidToken
	}

	claims, ok := token.Claims.(*CustomClaims)
	if !ok || claims.EmployeeID == 0 {
		return nil, ErrInvalidToken
	}

	return claims, nil
}

// Blacklist revokes a token until its own expiry.
func (tm *TokenManager) Blacklist(tokenString string, expiresAt time.Time) {
	tm.mu.Lock()
	defer tm.mu.Unlock()
	tm.blacklisted[tokenString] = expiresAt

	// Sweep expired entries.
	now := time.Now()
	for t, exp := range tm.blacklisted {
		if now.After(exp) {
			delete(tm.blacklisted, t)
		}
	}
}

func (tm *TokenManager) IsBlacklisted(tokenString string) bool {
	tm.mu.RLock()
	defer tm.mu.RUnlock()

	expiry, exists := tm.blacklisted[tokenString]
	return exists && time.Now().Before(expiry)
}
