package identity

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var (
	ErrMissingSigningSecret = errors.New("identity verifier: signing secret required")
	ErrMissingToken         = errors.New("identity verifier: token required")
	ErrInvalidToken         = errors.New("identity verifier: invalid token")
	ErrExpiredToken         = errors.New("identity verifier: token expired")
	ErrMissingSubject       = errors.New("identity verifier: subject required")
)

// Claims is the identity token payload. The subject is the uid.
type Claims struct {
	Name    string `json:"name,omitempty"`
	Picture string `json:"picture,omitempty"`
	jwt.RegisteredClaims
}

type VerifierConfig struct {
	SigningSecret []byte
	// Issuer is checked when set.
	Issuer string
	Clock  func() time.Time
}

// Verifier validates HS256 identity tokens.
type Verifier struct {
	signingSecret []byte
	issuer        string
	clock         func() time.Time
}

func NewVerifier(cfg VerifierConfig) (*Verifier, error) {
	if len(cfg.SigningSecret) == 0 {
		return nil, ErrMissingSigningSecret
	}
	clock := cfg.Clock
	if clock == nil {
		clock = time.Now
	}
	return &Verifier{
		signingSecret: append([]byte(nil), cfg.SigningSecret...),
		issuer:        strings.TrimSpace(cfg.Issuer),
		clock:         clock,
	}, nil
}

// Verify parses tokenString and returns the identity it carries.
func (v *Verifier) Verify(tokenString string) (*Identity, error) {
	token := strings.TrimSpace(tokenString)
	if token == "" {
		return nil, ErrMissingToken
	}

	claims := &Claims{}
	opts := []jwt.ParserOption{
		jwt.WithTimeFunc(v.clock),
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
	}
	if v.issuer != "" {
		opts = append(opts, jwt.WithIssuer(v.issuer))
	}

	parsed, err := jwt.ParseWithClaims(token, claims, func(*jwt.Token) (interface{}, error) {
		return v.signingSecret, nil
	}, opts...)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrExpiredToken
		}
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if parsed == nil || !parsed.Valid {
		return nil, ErrInvalidToken
	}

	uid := strings.TrimSpace(claims.Subject)
	if uid == "" {
		return nil, ErrMissingSubject
	}
	return &Identity{
		UID:         uid,
		DisplayName: claims.Name,
		AvatarURL:   claims.Picture,
	}, nil
}

// VerifyUID returns only the uid of a valid token.
func (v *Verifier) VerifyUID(_ context.Context, tokenString string) (string, error) {
	identity, err := v.Verify(tokenString)
	if err != nil {
		return "", err
	}
	return identity.UID, nil
}
