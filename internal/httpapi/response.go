// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Keyward Contributors

package httpapi

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/samber/oops"

	"github.com/keyward/keyward/internal/account"
	"github.com/keyward/keyward/internal/schema"
	"github.com/keyward/keyward/pkg/errutil"
)

// envelope is the body of every API response.
type envelope struct {
	StatusCode int    `json:"statusCode"`
	Success    bool   `json:"success"`
	Message    string `json:"message"`
	Data       any    `json:"data"`
}

// Messages not produced by the account package.
const (
	msgNotFound     = "API Not Found"
	msgUnauthorized = "You are not authorized!"
	msgInternal     = "Something went wrong!"
)

// Codes raised by the transport itself.
const (
	codeUnauthorized = "HTTP_UNAUTHORIZED"
	codeForbidden    = "HTTP_FORBIDDEN"
	codeBodyTooLarge = "HTTP_BODY_TOO_LARGE"
	codeInvalidID    = "HTTP_INVALID_ID"
)

var kindStatus = map[account.Kind]int{
	account.KindNotFound:     http.StatusNotFound,
	account.KindForbidden:    http.StatusForbidden,
	account.KindUnauthorized: http.StatusUnauthorized,
	account.KindBadRequest:   http.StatusBadRequest,
	account.KindConflict:     http.StatusConflict,
	account.KindRateLimited:  http.StatusTooManyRequests,
	account.KindUnavailable:  http.StatusServiceUnavailable,
	account.KindInternal:     http.StatusInternalServerError,
}

var transportStatus = map[string]int{
	schema.CodeInvalid: http.StatusBadRequest,
	codeInvalidID:      http.StatusBadRequest,
	codeBodyTooLarge:   http.StatusRequestEntityTooLarge,
	codeUnauthorized:   http.StatusUnauthorized,
	codeForbidden:      http.StatusForbidden,
}

func writeJSON(w http.ResponseWriter, status int, body envelope) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body) //nolint:errcheck // client went away
}

func writeOK(w http.ResponseWriter, message string, data any) {
	writeJSON(w, http.StatusOK, envelope{StatusCode: http.StatusOK, Success: true, Message: message, Data: data})
}

func writeFailure(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, envelope{StatusCode: status, Message: message})
}

// classify maps err to an HTTP status and the message callers may see.
func classify(err error) (int, string) {
	if oopsErr, ok := oops.AsOops(err); ok {
		if code, isString := oopsErr.Code().(string); isString {
			if status, known := transportStatus[code]; known {
				msg := oopsErr.Public()
				if msg == "" {
					msg = http.StatusText(status)
				}
				return status, msg
			}
		}
	}
	status, ok := kindStatus[account.KindOf(err)]
	if !ok {
		status = http.StatusInternalServerError
	}
	if status == http.StatusInternalServerError {
		return status, msgInternal
	}
	return status, account.PublicMessage(err)
}

// writeError writes the failure envelope. Server-side failures are logged
// with their full context; client errors at DEBUG.
func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status, msg := classify(err)
	if status == http.StatusTooManyRequests {
		if retry := retryAfter(err); retry > 0 {
			w.Header().Set("Retry-After", strconv.Itoa(int((retry+time.Second-1)/time.Second)))
		}
	}
	level := slog.LevelDebug
	if status >= http.StatusInternalServerError {
		level = slog.LevelError
	}
	errutil.Log(r.Context(), s.logger, level, "request failed", err)
	writeFailure(w, status, msg)
}

func retryAfter(err error) time.Duration {
	oopsErr, ok := oops.AsOops(err)
	if !ok {
		return 0
	}
	raw, ok := oopsErr.Context()["retry_after"].(string)
	if !ok {
		return 0
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		return 0
	}
	return d
}

// writeRaw writes v without the envelope.
func writeRaw(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	_ = json.NewEncoder(w).Encode(v) //nolint:errcheck // client went away
}
