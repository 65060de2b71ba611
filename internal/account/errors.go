// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Keyward Contributors

package account

import (
	"errors"
	"fmt"

	"github.com/samber/oops"
)

// Repository outcomes.
var (
	// ErrNotFound is returned when a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrDuplicate is returned when a unique field is already taken.
	ErrDuplicate = errors.New("already exists")
)

// Kind classifies a failure for the calling layer.
type Kind string

// Failure kinds.
const (
	KindNotFound     Kind = "not_found"
	KindForbidden    Kind = "forbidden"
	KindUnauthorized Kind = "unauthorized"
	KindBadRequest   Kind = "bad_request"
	KindConflict     Kind = "conflict"
	KindRateLimited  Kind = "rate_limited"
	KindUnavailable  Kind = "unavailable"
	KindInternal     Kind = "internal"
)

// Error codes returned by this package.
const (
	CodeInvalidInput      = "INVALID_INPUT"
	CodeUserNotFound      = "AUTH_USER_NOT_FOUND"
	CodeUserDeleted       = "AUTH_USER_DELETED"
	CodeUserBlocked       = "AUTH_USER_BLOCKED"
	CodeUserPending       = "AUTH_USER_PENDING"
	CodePasswordMismatch  = "AUTH_PASSWORD_MISMATCH"
	CodePasswordPolicy    = "AUTH_PASSWORD_POLICY"
	CodeEmptyPassword     = "AUTH_EMPTY_PASSWORD"
	CodeSessionRevoked    = "AUTH_SESSION_REVOKED"
	CodeTokenExpired      = "TOKEN_EXPIRED"
	CodeTokenInvalid      = "TOKEN_INVALID"
	CodeMalformedCode     = "RECOVERY_MALFORMED_CODE"
	CodeInvalidCode       = "RECOVERY_INVALID_CODE"
	CodeOTPExpired        = "RECOVERY_OTP_EXPIRED"
	CodeOTPNotFound       = "RECOVERY_OTP_NOT_FOUND"
	CodeOTPExhausted      = "RECOVERY_OTP_ATTEMPTS_EXHAUSTED"
	CodeRecoveryInvalid   = "RECOVERY_SESSION_INVALID"
	CodeRecoveryThrottled = "RECOVERY_RATE_LIMITED"
	CodeMailFailed        = "RECOVERY_MAIL_FAILED"
	CodeUserExists        = "USER_ALREADY_EXISTS"
	CodeInvalidStatus     = "USER_INVALID_STATUS"
	CodeInvalidRole       = "USER_INVALID_ROLE"
	CodeStatusUnchanged   = "USER_STATUS_UNCHANGED"
	CodeRoleUnchanged     = "USER_ROLE_UNCHANGED"
)

var codeKinds = map[string]Kind{
	CodeInvalidInput:      KindBadRequest,
	CodeUserNotFound:      KindNotFound,
	CodeUserDeleted:       KindForbidden,
	CodeUserBlocked:       KindForbidden,
	CodeUserPending:       KindForbidden,
	CodePasswordMismatch:  KindForbidden,
	CodePasswordPolicy:    KindBadRequest,
	CodeEmptyPassword:     KindBadRequest,
	CodeSessionRevoked:    KindUnauthorized,
	CodeTokenExpired:      KindUnauthorized,
	CodeTokenInvalid:      KindUnauthorized,
	CodeMalformedCode:     KindBadRequest,
	CodeInvalidCode:       KindBadRequest,
	CodeOTPExpired:        KindBadRequest,
	CodeOTPNotFound:       KindNotFound,
	CodeOTPExhausted:      KindBadRequest,
	CodeRecoveryInvalid:   KindUnauthorized,
	CodeRecoveryThrottled: KindRateLimited,
	CodeMailFailed:        KindUnavailable,
	CodeUserExists:        KindBadRequest,
	CodeInvalidStatus:     KindBadRequest,
	CodeInvalidRole:       KindBadRequest,
	CodeStatusUnchanged:   KindConflict,
	CodeRoleUnchanged:     KindConflict,
}

// KindOf classifies err. Errors without a known code are Internal, except
// those wrapping ErrNotFound.
func KindOf(err error) Kind {
	if err == nil {
		return ""
	}
	if oopsErr, ok := oops.AsOops(err); ok {
		if kind, known := codeKinds[fmt.Sprint(oopsErr.Code())]; known {
			return kind
		}
	}
	if errors.Is(err, ErrNotFound) {
		return KindNotFound
	}
	return KindInternal
}

// genericMessage is shown for Internal failures.
const genericMessage = "Something went wrong!"

// PublicMessage returns the caller-facing message for err.
func PublicMessage(err error) string {
	if err == nil || KindOf(err) == KindInternal {
		return genericMessage
	}
	if oopsErr, ok := oops.AsOops(err); ok {
		if msg := oopsErr.Public(); msg != "" {
			return msg
		}
	}
	return genericMessage
}

// fail builds a classified error whose message is safe to return to callers.
func fail(code, message string) oops.OopsErrorBuilder {
	return oops.Code(code).Public(message)
}

func errUserNotFound() error {
	return fail(CodeUserNotFound, "This user is not found!").Errorf("user not found")
}

func errUserDeleted() error {
	return fail(CodeUserDeleted, "This user is deleted!").Errorf("user is deleted")
}

func errUserBlocked() error {
	return fail(CodeUserBlocked, "This user is blocked!").Errorf("user is blocked")
}

func errUserPending() error {
	return fail(CodeUserPending, "This user is pending!").Errorf("user is pending")
}

func errPasswordMismatch() error {
	return fail(CodePasswordMismatch, "Password does not match!").Errorf("password mismatch")
}

func errNotAuthorized(code, reason string) error {
	return fail(code, "You are not authorized!").With("reason", reason).Errorf("not authorized: %s", reason)
}

// errToken converts a TokenService failure into a classified error, keeping
// expired and invalid tokens apart.
func errToken(err error, class TokenClass) error {
	code := CodeTokenInvalid
	if errors.Is(err, ErrTokenExpired) {
		code = CodeTokenExpired
	}
	return fail(code, "You are not authorized!").
		With("token_class", class.String()).
		With("reason", err.Error()).
		Errorf("%s token rejected", class)
}
