package auth

import (
	"errors"
	"fmt"

	"github.com/golang-jwt/jwt/v5"

	"github.com/dcastano/miscelanea/internal/domain/models"
)

// Claims is the payload embedded in session tokens.
type Claims struct {
	UserID  string `json:"userId"`
	Usuario string `json:"usuario"`
	Rol     string `json:"rol"`
	jwt.RegisteredClaims
}

// IssueToken signs a session token for the user with the configured TTL.
// There is no refresh or revocation; tokens simply age out.
func (s *Service) IssueToken(user models.User) (string, error) {
	now := s.now()
	claims := &Claims{
		UserID:  user.ID.Hex(),
		Usuario: user.Usuario,
		Rol:     user.Rol,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.cfg.TokenTTL)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.cfg.JWTSecret))
}

// ValidateToken parses and verifies a session token, returning its claims.
func (s *Service) ValidateToken(tokenString string) (*Claims, error) {
	claims := &Claims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", token.Header["alg"])
		}
		return []byte(s.cfg.JWTSecret), nil
	})
	if err != nil {
		return nil, err
	}
	if !token.Valid {
		return nil, errors.New("invalid token")
	}

	return claims, nil
}
