package services

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"fmt"
	"time"

	"github.com/r1cA18/make-slide-script/internal/config"
)

// SignURL appends exp and sig query parameters to path. The signature covers
// both the path and the expiry.
func SignURL(path string, expiresAt int64, secret string) string {
	return fmt.Sprintf("%s?exp=%d&sig=%s", path, expiresAt, computeSignature(path, expiresAt, secret))
}

func ValidateSignature(path string, expiresAt int64, signature, secret string) bool {
	if signature == "" {
		return false
	}
	return hmac.Equal([]byte(signature), []byte(computeSignature(path, expiresAt, secret)))
}

// ShareService issues expiring links to a project's PDF handout.
type ShareService struct {
	secret  string
	baseURL string
	ttl     time.Duration
	now     func() time.Time
}

func NewShareService(cfg config.Config) *ShareService {
	return &ShareService{
		secret:  cfg.ShareSecret,
		baseURL: cfg.BaseURL,
		ttl:     cfg.ShareTTL,
		now:     time.Now,
	}
}

func SharePath(projectID string) string {
	return "/pdf/" + projectID
}

func (s *ShareService) Generate(projectID string) (string, time.Time) {
	expiresAt := s.now().Add(s.ttl)
	signedPath := SignURL(SharePath(projectID), expiresAt.Unix(), s.secret)
	return s.baseURL + signedPath, expiresAt
}

// Validate rejects expired links as well as bad signatures.
func (s *ShareService) Validate(path string, expires int64, signature string) bool {
	if s.now().Unix() > expires {
		return false
	}
	return ValidateSignature(path, expires, signature, s.secret)
}

func computeSignature(path string, expiresAt int64, secret string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	fmt.Fprintf(mac, "%s:%d", path, expiresAt)
	return base64.RawURLEncoding.EncodeToString(mac.Sum(nil))
}
