package service

import (
	"errors"

	"golang.org/x/crypto/bcrypt"

	"github.com/courtside/academy-api/internal/pkg/jwthelper"
)

var ErrWrongPassword = errors.New("wrong password")

// AuthService gates coach operations behind a shared password injected at
// process start. The password is hashed once at construction so the plain
// text never sits on the struct. A successful login yields a coach token.
type AuthService struct {
	coachHash  []byte
	signingKey []byte
}

func NewAuthService(coachPassword, signingKey string) *AuthService {
	hash, err := bcrypt.GenerateFromPassword([]byte(coachPassword), bcrypt.DefaultCost)
	if err != nil {
		// Only possible when the password exceeds 72 bytes, which config
		// validation rejects before we get here.
		panic(err)
	}

	return &AuthService{
		coachHash:  hash,
		signingKey: []byte(signingKey),
	}
}

func (s *AuthService) LoginCoach(password, userAgent string) (string, error) {
	if err := bcrypt.CompareHashAndPassword(s.coachHash, []byte(password)); err != nil {
		return "", ErrWrongPassword
	}

	token, err := jwthelper.GenerateToken(s.signingKey, "coach", userAgent)
	if err != nil {
		return "", err
	}

	return token, nil
}
