package jwt

import (
	"time"

	"github.com/go-chi/jwtauth/v5"
	"github.com/kantorkita/presensi-backend-go/internal/domain/employee"
	"github.com/lestrrat-go/jwx/v2/jwt"
)

// Service issues and verifies the operator tokens that protect the
// admin trigger surface.
type Service interface {
	GenerateAccessToken(subjectID string, role employee.Role) (token string, expiresAt int64, err error)
	JWTAuth() *jwtauth.JWTAuth
}

type JWTService struct {
	secretKey                 string
	accessTokenExpirationTime string
	tokenAuth                 *jwtauth.JWTAuth
}

func NewJWTService(secretKey string, accessTokenExpirationTime string) Service {
	return &JWTService{
		secretKey:                 secretKey,
		accessTokenExpirationTime: accessTokenExpirationTime,
		tokenAuth:                 jwtauth.New("HS256", []byte(secretKey), nil, jwt.WithAcceptableSkew(30*time.Second)),
	}
}

func (j *JWTService) JWTAuth() *jwtauth.JWTAuth {
	return j.tokenAuth
}

func (j *JWTService) GenerateAccessToken(subjectID string, role employee.Role) (token string, expiresAt int64, err error) {
	expDuration, err := time.ParseDuration(j.accessTokenExpirationTime)
	if err != nil {
		return "", 0, err
	}
	expiresAt = time.Now().Add(expDuration).Unix()

	_, tokenString, err := j.tokenAuth.Encode(map[string]interface{}{
		"subject_id": subjectID,
		"role":       string(role),
		"type":       "access",
		"exp":        expiresAt,
	})
	return tokenString, expiresAt, err
}
