// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Keyward Contributors

package account

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/oklog/ulid/v2"
	"github.com/samber/oops"
)

// TokenClass identifies what a signed token may be used for. Every class has
// its own secret and TTL, so a token minted for one class never verifies as
// another.
type TokenClass int

// Token classes.
const (
	TokenAccess TokenClass = iota + 1
	TokenRefresh
	TokenRecoveryStage1
	TokenRecoveryStage2
)

func (c TokenClass) String() string {
	switch c {
	case TokenAccess:
		return "access"
	case TokenRefresh:
		return "refresh"
	case TokenRecoveryStage1:
		return "recovery_stage1"
	case TokenRecoveryStage2:
		return "recovery_stage2"
	default:
		return "unknown"
	}
}

// Token verification failures. Callers distinguish them with errors.Is.
var (
	ErrTokenExpired = errors.New("token has expired")
	ErrTokenInvalid = errors.New("token is invalid")
)

// TokenSpec is the signing secret and lifetime of one token class.
type TokenSpec struct {
	Secret string
	TTL    time.Duration
}

// TokenConfig configures a TokenService.
type TokenConfig struct {
	Issuer         string
	Access         TokenSpec
	Refresh        TokenSpec
	RecoveryStage1 TokenSpec
	RecoveryStage2 TokenSpec
}

func (c TokenConfig) specs() map[TokenClass]TokenSpec {
	return map[TokenClass]TokenSpec{
		TokenAccess:         c.Access,
		TokenRefresh:        c.Refresh,
		TokenRecoveryStage1: c.RecoveryStage1,
		TokenRecoveryStage2: c.RecoveryStage2,
	}
}

// Validate requires a secret and a positive TTL per class, and distinct secrets.
func (c TokenConfig) Validate() error {
	seen := make(map[string]TokenClass, 4)
	for _, class := range []TokenClass{TokenAccess, TokenRefresh, TokenRecoveryStage1, TokenRecoveryStage2} {
		spec := c.specs()[class]
		if spec.Secret == "" {
			return oops.Code("TOKEN_CONFIG_INVALID").With("class", class.String()).Errorf("%s token secret is required", class)
		}
		if spec.TTL <= 0 {
			return oops.Code("TOKEN_CONFIG_INVALID").With("class", class.String()).Errorf("%s token ttl must be positive", class)
		}
		if other, dup := seen[spec.Secret]; dup {
			return oops.Code("TOKEN_CONFIG_INVALID").
				With("class", class.String()).
				Errorf("%s token secret must differ from the %s secret", class, other)
		}
		seen[spec.Secret] = class
	}
	return nil
}

// TokenSubject is the identity a token is issued for.
type TokenSubject struct {
	UserID  ulid.ULID
	Role    Role
	Email   string
	Purpose Purpose
}

// Claims are the verified contents of a token.
type Claims struct {
	Class   string  `json:"cls"`
	Role    Role    `json:"role,omitempty"`
	Email   string  `json:"email,omitempty"`
	Purpose Purpose `json:"purpose,omitempty"`

	// IssuedAtMs is iat in Unix milliseconds. iat itself only has second
	// precision, which cannot order a token against a logout in the same second.
	IssuedAtMs int64 `json:"iat_ms,omitempty"`
	jwt.RegisteredClaims
}

// UserID parses the subject claim.
func (c *Claims) UserID() (ulid.ULID, error) {
	id, err := ulid.Parse(c.Subject)
	if err != nil {
		return ulid.ULID{}, oops.Code(CodeTokenInvalid).With("subject", c.Subject).Wrap(ErrTokenInvalid)
	}
	return id, nil
}

// IssuedAtTime returns the issue time with millisecond precision when the
// token carries it, otherwise the iat claim, or the zero time when absent.
func (c *Claims) IssuedAtTime() time.Time {
	if c.IssuedAtMs != 0 {
		return time.UnixMilli(c.IssuedAtMs).UTC()
	}
	if c.IssuedAt == nil {
		return time.Time{}
	}
	return c.IssuedAt.Time.UTC()
}

// TokenService issues and verifies HS256 tokens per class.
type TokenService struct {
	issuer string
	specs  map[TokenClass]TokenSpec
	now    func() time.Time
}

// TokenOption configures a TokenService during construction.
type TokenOption func(*TokenService)

// WithTokenClock replaces time.Now for issuing and expiry checks.
func WithTokenClock(now func() time.Time) TokenOption {
	return func(s *TokenService) {
		s.now = now
	}
}

// NewTokenService validates cfg and creates a TokenService.
func NewTokenService(cfg TokenConfig, opts ...TokenOption) (*TokenService, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	issuer := cfg.Issuer
	if issuer == "" {
		issuer = "keyward"
	}
	s := &TokenService{issuer: issuer, specs: cfg.specs(), now: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// TTL returns the lifetime of tokens of the given class.
func (s *TokenService) TTL(class TokenClass) time.Duration {
	return s.specs[class].TTL
}

// Issue signs a token of the given class for subject and returns it with its expiry.
func (s *TokenService) Issue(class TokenClass, subject TokenSubject) (string, time.Time, error) {
	spec, ok := s.specs[class]
	if !ok {
		return "", time.Time{}, oops.Code("TOKEN_ISSUE_FAILED").Errorf("unknown token class %d", int(class))
	}

	now := s.now()
	expiresAt := now.Add(spec.TTL)
	claims := &Claims{
		Class:      class.String(),
		Role:       subject.Role,
		Email:      subject.Email,
		Purpose:    subject.Purpose,
		IssuedAtMs: now.UnixMilli(),
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        ulid.Make().String(),
			Issuer:    s.issuer,
			Subject:   subject.UserID.String(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(spec.Secret))
	if err != nil {
		return "", time.Time{}, oops.Code("TOKEN_ISSUE_FAILED").
			With("class", class.String()).
			Wrap(err)
	}
	return signed, expiresAt, nil
}

// Verify checks signature, issuer, expiry and class of token. Expired tokens
// fail with ErrTokenExpired; anything else that is wrong fails with
// ErrTokenInvalid.
func (s *TokenService) Verify(class TokenClass, token string) (*Claims, error) {
	spec, ok := s.specs[class]
	if !ok || token == "" {
		return nil, oops.Code(CodeTokenInvalid).With("class", class.String()).Wrap(ErrTokenInvalid)
	}

	parser := jwt.NewParser(
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(s.issuer),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.now),
	)

	claims := &Claims{}
	_, err := parser.ParseWithClaims(token, claims, func(*jwt.Token) (any, error) {
		return []byte(spec.Secret), nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, oops.Code(CodeTokenExpired).With("class", class.String()).Wrap(ErrTokenExpired)
		}
		return nil, oops.Code(CodeTokenInvalid).
			With("class", class.String()).
			With("cause", err.Error()).
			Wrap(ErrTokenInvalid)
	}
	if claims.Class != class.String() {
		return nil, oops.Code(CodeTokenInvalid).
			With("class", class.String()).
			With("got_class", claims.Class).
			Wrap(ErrTokenInvalid)
	}
	return claims, nil
}
