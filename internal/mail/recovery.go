// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Keyward Contributors

package mail

import (
	"bytes"
	"context"
	"embed"
	"fmt"
	"html/template"
	"math"

	"github.com/samber/oops"

	"github.com/keyward/keyward/internal/account"
)

//go:embed templates/*.html
var templatesFS embed.FS

var recoveryTemplate = template.Must(template.ParseFS(templatesFS, "templates/recovery.html"))

// RecoveryNotifier emails recovery codes. It implements account.CodeSender.
type RecoveryNotifier struct {
	mailer Mailer
}

var _ account.CodeSender = (*RecoveryNotifier)(nil)

// NewRecoveryNotifier creates a notifier that sends through mailer.
func NewRecoveryNotifier(mailer Mailer) *RecoveryNotifier {
	return &RecoveryNotifier{mailer: mailer}
}

// RecoverySubject is the subject line for a code valid for ttlMinutes.
func RecoverySubject(ttlMinutes int) string {
	return fmt.Sprintf("Reset your password within %d minutes!", ttlMinutes)
}

// SendRecoveryCode renders and sends the recovery email.
func (n *RecoveryNotifier) SendRecoveryCode(ctx context.Context, msg account.RecoveryMessage) error {
	minutes := int(math.Ceil(msg.TTL.Minutes()))

	var body bytes.Buffer
	err := recoveryTemplate.Execute(&body, struct {
		Name    string
		Code    string
		Minutes int
	}{Name: msg.Name, Code: msg.Code, Minutes: minutes})
	if err != nil {
		return oops.Code("MAIL_RENDER_FAILED").With("template", "recovery").Wrap(err)
	}

	return n.mailer.Send(ctx, Message{
		To:       msg.To,
		Subject:  RecoverySubject(minutes),
		HTMLBody: body.String(),
	})
}
