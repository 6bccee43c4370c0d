package auth

import (
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// DefaultTokenTTL matches the original 1-day login expiry.
const DefaultTokenTTL = 24 * time.Hour

// Claims is what a verified credential token asserts: the user it was
// issued to.
type Claims struct {
	UserID int64
}

// TokenCodec signs and verifies credential tokens.
type TokenCodec interface {
	Sign(claims Claims, ttl time.Duration) (string, error)
	Verify(token string) (*Claims, error)
}

// JWTCodec is the HS256 TokenCodec.
type JWTCodec struct {
	secret []byte
}

func NewJWTCodec(secret string) *JWTCodec {
	return &JWTCodec{secret: []byte(secret)}
}

func (c *JWTCodec) Sign(claims Claims, ttl time.Duration) (string, error) {
	if ttl == 0 {
		ttl = DefaultTokenTTL
	}
	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   strconv.FormatInt(claims.UserID, 10),
		ID:        uuid.New().String(),
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
	})
	return token.SignedString(c.secret)
}

func (c *JWTCodec) Verify(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &jwt.RegisteredClaims{},
		func(t *jwt.Token) (any, error) { return c.secret, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
	)
	if err != nil {
		return nil, err
	}
	reg, ok := token.Claims.(*jwt.RegisteredClaims)
	if !ok {
		return nil, fmt.Errorf("unexpected claims type %T", token.Claims)
	}
	userID, err := strconv.ParseInt(reg.Subject, 10, 64)
	if err != nil {
		return nil, fmt.Errorf("parse subject %q: %w", reg.Subject, err)
	}
	return &Claims{UserID: userID}, nil
}
