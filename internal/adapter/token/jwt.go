package token

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"todoboard/internal/core/domain"
	"todoboard/internal/core/port"
)

// TokenTTL is the fixed validity window. There is no refresh mechanism;
// revocation happens through the token-version check at the gateway.
const TokenTTL = 24 * time.Hour

type JWTService struct {
	secret []byte
}

func NewJWTService(secret string) port.TokenService {
	return &JWTService{secret: []byte(secret)}
}

func (j *JWTService) Issue(payload domain.TokenPayload) (string, error) {
	claims := jwt.MapClaims{
		"id":           payload.ID,
		"email":        payload.Email,
		"tokenVersion": payload.TokenVersion,
		"exp":          time.Now().Add(TokenTTL).Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)

	return token.SignedString(j.secret)
}

func (j *JWTService) Verify(tokenString string) (domain.TokenPayload, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return j.secret, nil
	})

	if err != nil {
		return domain.TokenPayload{}, err
	}

	if !token.Valid {
		return domain.TokenPayload{}, fmt.Errorf("invalid access token")
	}

	claims, ok := token.Claims.(jwt.MapClaims)

	if !ok {
		return domain.TokenPayload{}, fmt.Errorf("invalid token claims")
	}

	id, ok := claims["id"].(float64)

	if !ok {
		return domain.TokenPayload{}, fmt.Errorf("invalid token claims")
	}

	email, _ := claims["email"].(string)
	version, ok := claims["tokenVersion"].(float64)

	if !ok {
		return domain.TokenPayload{}, fmt.Errorf("invalid token claims")
	}

	return domain.TokenPayload{
		ID:           int(id),
		Email:        email,
		TokenVersion: int(version),
	}, nil
}
