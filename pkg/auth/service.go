// Package auth issues and validates the bearer tokens guarding the API.
// A token is only good while it is both cryptographically valid and still
// the one registered for its requester; issuing a new token revokes the
// previous one.
package auth

import (
	"encoding/base64"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/uemf/forms-api/pkg/requester"
)

const issuer = "uemf-forms-api"

// ErrInvalidToken is returned for any token that fails verification or is
// not currently registered. Callers get no more detail than that.
var ErrInvalidToken = errors.New("invalid token")

// Service issues and validates requester tokens.
type Service struct {
	secret []byte
	ttl    time.Duration
	repo   *requester.Repository
	log    *logrus.Logger

	now func() time.Time
}

// NewService creates an auth service over the requester directory.
func NewService(secret []byte, ttl time.Duration, repo *requester.Repository, log *logrus.Logger) *Service {
	return &Service{secret: secret, ttl: ttl, repo: repo, log: log, now: time.Now}
}

// SecretFromEnv decodes the base64 FORMS_JWT_SECRET value.
func SecretFromEnv() ([]byte, error) {
	raw := os.Getenv("FORMS_JWT_SECRET")
	if raw == "" {
		return nil, errors.New("FORMS_JWT_SECRET environment variable is required")
	}
	secret, err := base64.StdEncoding.DecodeString(raw)
	if err != nil {
		return nil, fmt.Errorf("bad FORMS_JWT_SECRET: %w", err)
	}
	return secret, nil
}

// Register upserts the requester and issues them a fresh token, storing
// it as their current one.
func (s *Service) Register(name, email, ip string) (string, error) {
	rec, err := s.fetchRequester(name, email, ip)
	if err != nil {
		return "", err
	}

	token, err := s.Generate(rec)
	if err != nil {
		return "", err
	}
	if err := s.repo.SaveToken(rec.RequesterID, token); err != nil {
		return "", err
	}

	s.log.WithField("email", email).Info("Issued token")
	return token, nil
}

// fetchRequester loads the requester by email, creating the row when it
// is new and refreshing the stored ip address when it changed.
func (s *Service) fetchRequester(name, email, ip string) (*requester.Record, error) {
	rec, err := s.repo.GetByEmail(email)
	if err != nil {
		if errors.Is(err, requester.ErrNotFound) {
			rec = &requester.Record{Name: name, Email: email, IPAddress: ip}
			if err := s.repo.Save(rec); err != nil {
				return nil, err
			}
			return rec, nil
		}
		return nil, err
	}

	if ip != "" && rec.IPAddress != ip {
		rec.IPAddress = ip
		if err := s.repo.Save(rec); err != nil {
			return nil, err
		}
	}
	return rec, nil
}

// Generate signs an HS512 token for the requester. The claim layout is
// kept compatible with the tokens the previous system issued.
func (s *Service) Generate(rec *requester.Record) (string, error) {
	now := s.now()
	claims := jwt.MapClaims{
		"iat": now.Unix(),
		"jti": uuid.NewString(),
		"iss": issuer,
		"exp": now.Add(s.ttl).Unix(),
		"data": map[string]interface{}{
			"userId": rec.RequesterID,
			"email":  rec.Email,
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS512, claims).SignedString(s.secret)
}

// Authenticate verifies the token against the shared secret and then
// checks it is the token currently stored for some requester. Both checks
// must pass; which one failed is not distinguished to callers.
func (s *Service) Authenticate(tokenString string) (*requester.Record, error) {
	token, err := jwt.Parse(tokenString, func(t *jwt.Token) (interface{}, error) {
		return s.secret, nil
	}, jwt.WithValidMethods([]string{"HS512"}))
	if err != nil || !token.Valid {
		return nil, ErrInvalidToken
	}

	rec, err := s.repo.GetByToken(tokenString)
	if err != nil {
		if errors.Is(err, requester.ErrNotFound) {
			return nil, ErrInvalidToken
		}
		return nil, err
	}
	return rec, nil
}
