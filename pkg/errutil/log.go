// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Keyward Contributors

// Package errutil logs and asserts on samber/oops errors.
package errutil

import (
	"context"
	"log/slog"

	"github.com/samber/oops"
)

// Log writes err at level with its oops code and context as attributes.
// Plain errors are logged by their message only.
func Log(ctx context.Context, logger *slog.Logger, level slog.Level, msg string, err error) {
	attrs := []any{"error", err.Error()}
	if oopsErr, ok := oops.AsOops(err); ok {
		if code := oopsErr.Code(); code != nil {
			attrs = append(attrs, "code", code)
		}
		if ectx := oopsErr.Context(); len(ectx) > 0 {
			attrs = append(attrs, "context", ectx)
		}
	}
	logger.Log(ctx, level, msg, attrs...)
}

// LogError logs err at ERROR.
func LogError(logger *slog.Logger, msg string, err error) {
	Log(context.Background(), logger, slog.LevelError, msg, err)
}

// LogWarn logs err at WARN, for failures the caller deliberately tolerates.
func LogWarn(ctx context.Context, logger *slog.Logger, msg string, err error) {
	Log(ctx, logger, slog.LevelWarn, msg, err)
}
