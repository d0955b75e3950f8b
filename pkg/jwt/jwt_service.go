package jwt

import (
	"Markit-Pantry/domain"
	"Markit-Pantry/internal/utils"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v4"
)

const (
	defaultIssuer   = "MARKIT"
	sessionLifetime = 120 * time.Minute
)

type (
	JWTService interface {
		GenerateSessionToken(username string) (string, error)
		ValidateSessionToken(token string) (*jwt.Token, error)
		GetUsernameByToken(token string) (string, error)
		Lifetime() time.Duration
	}

	sessionClaim struct {
		Username string `json:"username"`
		jwt.RegisteredClaims
	}

	jwtService struct {
		secretKey string
		issuer    string
		lifetime  time.Duration
		now       func() time.Time
	}
)

func NewJWTService() JWTService {
	return NewJWTServiceWithSecret(utils.GetConfig("JWT_SECRET"))
}

func NewJWTServiceWithSecret(secretKey string) JWTService {
	return &jwtService{
		secretKey: secretKey,
		issuer:    defaultIssuer,
		lifetime:  sessionLifetime,
		now:       time.Now,
	}
}

func (j *jwtService) Lifetime() time.Duration {
	return j.lifetime
}

func (j *jwtService) GenerateSessionToken(username string) (string, error) {
	now := j.now()
	claims := sessionClaim{
		username,
		jwt.RegisteredClaims{
			Subject:   username,
			ExpiresAt: jwt.NewNumericDate(now.Add(j.lifetime)),
			Issuer:    j.issuer,
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(j.secretKey))
}

func (j *jwtService) parseToken(t_ *jwt.Token) (any, error) {
	if _, ok := t_.Method.(*jwt.SigningMethodHMAC); !ok {
		return nil, fmt.Errorf("unexpected signing method %v", t_.Header["alg"])
	}
	return []byte(j.secretKey), nil
}

func (j *jwtService) ValidateSessionToken(token string) (*jwt.Token, error) {
	return jwt.ParseWithClaims(token, &sessionClaim{}, j.parseToken)
}

func (j *jwtService) GetUsernameByToken(token string) (string, error) {
	if token == "" {
		return "", domain.ErrTokenNotFound
	}

	t_Token, err := j.ValidateSessionToken(token)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return "", domain.ErrTokenExpired
		}
		return "", domain.ErrTokenInvalid
	}
	if !t_Token.Valid {
		return "", domain.ErrTokenInvalid
	}

	claims, ok := t_Token.Claims.(*sessionClaim)
	if !ok || claims.Username == "" || claims.Issuer != j.issuer {
		return "", domain.ErrTokenInvalid
	}
	return claims.Username, nil
}
