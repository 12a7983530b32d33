package auth

import (
	"fmt"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const testSecret = "test-secret-which-is-long-enough"

func TestCreateToken(t *testing.T) {
	type args struct {
		userID string
		secret string
		ttl    time.Duration
	}
	tests := []struct {
		name    string
		args    args
		wantErr bool
	}{
		{
			name: "Successful token creation for valid user",
			args: args{
				userID: "64b7f1c2e4b0a1a2b3c4d5e6",
				secret: testSecret,
				ttl:    RegisterTokenTTL,
			},
			wantErr: false,
		},
		{
			name: "Login token lifetime",
			args: args{
				userID: "64b7f1c2e4b0a1a2b3c4d5e6",
				secret: testSecret,
				ttl:    LoginTokenTTL(),
			},
			wantErr: false,
		},
		{
			name: "Error with empty secret",
			args: args{
				userID: "someuser",
				secret: "",
				ttl:    time.Hour,
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gotTokenString, err := CreateToken(tt.args.userID, tt.args.secret, tt.args.ttl)

			// Check if the error expectation matches
			if (err != nil) != tt.wantErr {
				t.Errorf("CreateToken() error = %v, wantErr %v", err, tt.wantErr)
				return
			}
			if tt.wantErr {
				return
			}
			if gotTokenString == "" {
				t.Error("CreateToken() returned an empty token string for a successful case")
				return
			}

			// Parse and validate the token with the shared secret
			parsedToken, parseErr := jwt.ParseWithClaims(gotTokenString, &CustomClaims{}, func(token *jwt.Token) (interface{}, error) {
				if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
					return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
				}
				return []byte(tt.args.secret), nil
			}, jwt.WithValidMethods([]string{"HS256"}))
			if parseErr != nil {
				t.Fatalf("Failed to parse or validate token: %v", parseErr)
			}
			if !parsedToken.Valid {
				t.Error("Parsed token is not valid")
			}

			claims, ok := parsedToken.Claims.(*CustomClaims)
			if !ok {
				t.Fatal("Failed to cast claims to *CustomClaims")
			}
			if claims.UserID != tt.args.userID {
				t.Errorf("Expected UserID to be %s, got %s", tt.args.userID, claims.UserID)
			}

			now := time.Now()
			if claims.ExpiresAt == nil ||
				claims.ExpiresAt.Before(now.Add(tt.args.ttl-time.Minute)) ||
				claims.ExpiresAt.After(now.Add(tt.args.ttl+time.Minute)) {
				t.Errorf("ExpiresAt claim is not within expected range. Expected around %v from now, got %v", tt.args.ttl, claims.ExpiresAt)
			}
			if claims.IssuedAt == nil || claims.IssuedAt.After(now.Add(5*time.Second)) || claims.IssuedAt.Before(now.Add(-5*time.Second)) {
				t.Errorf("IssuedAt claim is not recent enough. Expected around now, got %v", claims.IssuedAt)
			}
			if claims.Issuer != ISSUER {
				t.Errorf("Expected Issuer to be %s, got %s", ISSUER, claims.Issuer)
			}
			if claims.Subject != SUBJECT {
				t.Errorf("Expected Subject to be %s, got %s", SUBJECT, claims.Subject)
			}
			if _, err := uuid.Parse(claims.ID); err != nil {
				t.Errorf("ID (JTI) claim is not a valid UUID: %v", err)
			}
		})
	}
}

func TestVerifyToken(t *testing.T) {
	valid, err := CreateToken("user-1", testSecret, time.Hour)
	if err != nil {
		t.Fatalf("Failed to create token for test: %v", err)
	}
	expired, err := CreateToken("user-1", testSecret, -time.Minute)
	if err != nil {
		t.Fatalf("Failed to create token for test: %v", err)
	}
	otherSecret, err := CreateToken("user-1", "another-secret", time.Hour)
	if err != nil {
		t.Fatalf("Failed to create token for test: %v", err)
	}
	noneAlg, err := jwt.NewWithClaims(jwt.SigningMethodNone, CustomClaims{UserID: "user-1"}).
		SignedString(jwt.UnsafeAllowNoneSignatureType)
	if err != nil {
		t.Fatalf("Failed to create token for test: %v", err)
	}

	tests := []struct {
		name        string
		tokenString string
		secret      string
		wantErr     bool
	}{
		{name: "Successful token verification with valid token", tokenString: valid, secret: testSecret},
		{name: "Error with invalid token format", tokenString: "invalid-token-format", secret: testSecret, wantErr: true},
		{name: "Error with tampered token", tokenString: valid + "x", secret: testSecret, wantErr: true},
		{name: "Error with expired token", tokenString: expired, secret: testSecret, wantErr: true},
		{name: "Error with token signed by different secret", tokenString: otherSecret, secret: testSecret, wantErr: true},
		{name: "Error with unsigned token", tokenString: noneAlg, secret: testSecret, wantErr: true},
		{name: "Error with empty secret", tokenString: valid, secret: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gotClaims, err := VerifyToken(tt.tokenString, tt.secret)

			if (err != nil) != tt.wantErr {
				t.Errorf("VerifyToken() error = %v, wantErr %v", err, tt.wantErr)
				return
			}
			if tt.wantErr {
				return
			}
			if gotClaims == nil {
				t.Fatal("VerifyToken() returned nil claims for a successful case")
			}
			if gotClaims.UserID != "user-1" {
				t.Errorf("Expected UserID to be 'user-1', got %s", gotClaims.UserID)
			}
			if gotClaims.Subject != SUBJECT {
				t.Errorf("Expected Subject to be %s, got %s", SUBJECT, gotClaims.Subject)
			}
		})
	}
}
