package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const (
	ISSUER  = "github.com/haguru/yelpcamp"
	SUBJECT = "AUTHENTICATION"

	// RegisterTokenTTL is the lifetime of the token issued right after sign-up.
	RegisterTokenTTL = time.Hour
	// LoginExpirySeconds is the lifetime of login tokens, echoed to clients as expiryTime.
	LoginExpirySeconds = 500000
)

var ErrEmptySecret = errors.New("signing secret cannot be empty")

type CustomClaims struct {
	UserID string `json:"userId"`
	jwt.RegisteredClaims
}

// LoginTokenTTL is LoginExpirySeconds as a duration.
func LoginTokenTTL() time.Duration {
	return LoginExpirySeconds * time.Second
}

// CreateToken issues an HS256 token for userID signed with secret.
func CreateToken(userID, secret string, ttl time.Duration) (string, error) {
	if secret == "" {
		return "", ErrEmptySecret
	}

	now := time.Now()
	claims := CustomClaims{
		UserID: userID,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			Issuer:    ISSUER,
			Subject:   SUBJECT,
			Audience:  []string{"api" + ISSUER},
			ID:        uuid.NewString(),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)

	signToken, err := token.SignedString([]byte(secret))
	if err != nil {
		return "", err
	}

	return signToken, nil
}

// VerifyToken parses tokenString and checks its signature, expiry and issuer.
func VerifyToken(tokenString, secret string) (*CustomClaims, error) {
	if secret == "" {
		return nil, ErrEmptySecret
	}

	token, err := jwt.ParseWithClaims(tokenString, &CustomClaims{}, func(token *jwt.Token) (interface{}, error) {
		// validate the signing method
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(secret), nil
	}, jwt.WithIssuer(ISSUER), jwt.WithExpirationRequired())
	if err != nil {
		return nil, fmt.Errorf("token parsing error: %w", err)
	}

	if claims, ok := token.Claims.(*CustomClaims); ok && token.Valid && claims.UserID != "" {
		return claims, nil
	}

	return nil, fmt.Errorf("invalid token or claims")
}
