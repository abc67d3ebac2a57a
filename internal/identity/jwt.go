package identity

import (
	"fmt"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/jonathan/interview-agent/internal/config"
)

// Claims carries the owner id alongside the registered JWT claims.
type Claims struct {
	UserID uuid.UUID `json:"user_id"`
	jwt.RegisteredClaims
}

// JWTResolver validates HS256 bearer tokens and extracts the owner id.
type JWTResolver struct {
	cfg *config.JWTConfig
}

// NewJWTResolver creates a resolver over the given JWT configuration.
func NewJWTResolver(cfg *config.JWTConfig) *JWTResolver {
	return &JWTResolver{cfg: cfg}
}

// Resolve parses the request's bearer token. A missing, malformed,
// expired, or otherwise invalid token yields an unresolved owner, not an
// error: the caller decides what an anonymous request may do.
func (j *JWTResolver) Resolve(r *http.Request) (uuid.UUID, bool) {
	token := bearerToken(r)
	if token == "" {
		return uuid.Nil, false
	}

	claims, err := j.validate(token)
	if err != nil || claims.UserID == uuid.Nil {
		return uuid.Nil, false
	}
	return claims.UserID, true
}

// GenerateToken mints a token for the given owner id. Used by tests and
// by operators issuing service tokens; the platform's real login flow
// lives outside this repository.
func (j *JWTResolver) GenerateToken(userID uuid.UUID) (string, error) {
	now := time.Now()
	claims := &Claims{
		UserID: userID,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(time.Duration(j.cfg.ExpirationHours) * time.Hour)),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(j.cfg.Secret))
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}

func (j *JWTResolver) validate(tokenString string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(j.cfg.Secret), nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to parse token: %w", err)
	}
	if !token.Valid {
		return nil, fmt.Errorf("token is invalid")
	}
	return claims, nil
}
