package jwtmw

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// TestGenerator_GenerateToken verifies the token is valid HS256 and carries sub, jti, exp and iat.
func TestGenerator_GenerateToken(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		userID    string
		sessionID string
		ttl       time.Duration
	}{
		{"basic user", "u-1", "s-1", time.Hour},
		{"uuid ids", "0b6c5a52-8f1e-4f65-9a37-3c0f3b9e0d11", "6f0d9a9e-2f1a-4b0e-8d5e-1c2b3a4d5e6f", 24 * time.Hour},
		{"short ttl", "u-2", "s-2", time.Minute},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			gen := NewGenerator("test-secret")
			expiresAt := time.Now().Add(tt.ttl)
			tokenStr, err := gen.GenerateToken(tt.userID, tt.sessionID, expiresAt)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}

			token, err := jwt.Parse(tokenStr, func(tok *jwt.Token) (interface{}, error) {
				if _, ok := tok.Method.(*jwt.SigningMethodHMAC); !ok {
					t.Errorf("unexpected signing method: %v", tok.Header["alg"])
				}
				return []byte("test-secret"), nil
			})
			if err != nil {
				t.Fatalf("failed to parse token: %v", err)
			}

			claims := token.Claims.(jwt.MapClaims)
			if claims["sub"] != tt.userID {
				t.Errorf("expected sub %q, got %v", tt.userID, claims["sub"])
			}
			if claims["jti"] != tt.sessionID {
				t.Errorf("expected jti %q, got %v", tt.sessionID, claims["jti"])
			}
			if exp := int64(claims["exp"].(float64)); exp != expiresAt.Unix() {
				t.Errorf("expected exp %d, got %d", expiresAt.Unix(), exp)
			}
			if _, ok := claims["iat"]; !ok {
				t.Error("expected iat claim to be set")
			}
		})
	}
}

// TestGenerator_DifferentSessionsProduceDifferentTokens verifies two sessions of one user get distinct tokens.
func TestGenerator_DifferentSessionsProduceDifferentTokens(t *testing.T) {
	t.Parallel()

	gen := NewGenerator("test-secret")
	exp := time.Now().Add(time.Hour)

	token1, _ := gen.GenerateToken("u-1", "s-1", exp)
	token2, _ := gen.GenerateToken("u-1", "s-2", exp)

	if token1 == token2 {
		t.Error("expected different tokens for different sessions")
	}
}
