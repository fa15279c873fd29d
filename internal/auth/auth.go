package auth

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/DeadlyParkour777/cpp-simulator/internal/cache"
	"github.com/golang-jwt/jwt/v5"
)

var ErrInvalidToken = errors.New("invalid or expired token")

type Claims struct {
	UserID string `json:"user_id"`
	jwt.RegisteredClaims
}

// Verifier checks learner tokens signed by the identity provider.
type Verifier struct {
	secret []byte
	cache  cache.JWTCache
	now    func() time.Time
}

// NewVerifier builds a verifier. tokens may be nil to verify every request.
func NewVerifier(secret string, tokens cache.JWTCache) *Verifier {
	return &Verifier{secret: []byte(secret), cache: tokens, now: time.Now}
}

func (v *Verifier) Verify(ctx context.Context, tokenString string) (string, error) {
	if tokenString == "" {
		return "", ErrInvalidToken
	}

	if v.cache != nil {
		if userID, err := v.cache.GetUserID(ctx, tokenString); err == nil && userID != "" {
			return userID, nil
		}
	}

	claims, err := v.parse(tokenString)
	if err != nil {
		return "", err
	}

	if v.cache != nil {
		ttl := cache.DefaultTokenTTL
		if claims.ExpiresAt != nil {
			ttl = claims.ExpiresAt.Sub(v.now())
		}
		if err := v.cache.SetUserID(ctx, tokenString, claims.UserID, ttl); err != nil {
			log.Printf("Failed to cache token for user %s: %v", claims.UserID, err)
		}
	}
	return claims.UserID, nil
}

func (v *Verifier) parse(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return v.secret, nil
	}, jwt.WithTimeFunc(v.now))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid || claims.UserID == "" {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

// Issue signs a token for userID. The identity provider owns issuance in
// production; this is used by tests and local tooling.
func Issue(secret, userID string, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := Claims{
		UserID: userID,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}
