package auth

import (
	"fmt"
	"strconv"
	"time"

	"github.com/go-chi/jwtauth/v5"
	"github.com/golang-jwt/jwt/v5"
)

const tokenTTL = 12 * time.Hour

type JWTService struct {
	secretKey []byte
	auth      *jwtauth.JWTAuth
}

func NewJWTService(secretKey string) *JWTService {
	return &JWTService{
		secretKey: []byte(secretKey),
		auth:      jwtauth.New("HS256", []byte(secretKey), nil),
	}
}

// JWTAuth отдаёт верификатор для chi-middleware с тем же секретом.
func (s *JWTService) JWTAuth() *jwtauth.JWTAuth {
	return s.auth
}

func (s *JWTService) GenerateToken(userID int, username, role string) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"user_id":  strconv.Itoa(userID),
		"username": username,
		"role":     role,
		"exp":      now.Add(tokenTTL).Unix(),
		"iat":      now.Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString(s.secretKey)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return tokenString, nil
}
