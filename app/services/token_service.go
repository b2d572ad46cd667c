package services

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// TokenService is the default authentication collaborator: HS256 bot tokens
// issued at registration and presented on bot-facing endpoints. Deployments
// with their own auth can swap it out behind clients.TokenIssuer.
type TokenService struct {
	secret     []byte
	expiration time.Duration
}

// NewTokenService creates a new token service.
func NewTokenService(secret string, expirationSec int64) *TokenService {
	return &TokenService{
		secret:     []byte(secret),
		expiration: time.Duration(expirationSec) * time.Second,
	}
}

// BotClaims are the claims carried in a bot token.
type BotClaims struct {
	BotID string `json:"bot_id"`
	jwt.RegisteredClaims
}

// Issue generates a token for a bot.
func (t *TokenService) Issue(botID string) (string, error) {
	now := time.Now()
	claims := &BotClaims{
		BotID: botID,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   botID,
			Issuer:    "botops-svc",
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(t.expiration)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(t.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}

// Verify validates a token and returns the bot ID it speaks for.
func (t *TokenService) Verify(tokenString string) (string, error) {
	claims := &BotClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return t.secret, nil
	})
	if err != nil {
		return "", fmt.Errorf("failed to parse token: %w", err)
	}
	if !token.Valid {
		return "", fmt.Errorf("invalid token")
	}
	return claims.BotID, nil
}
