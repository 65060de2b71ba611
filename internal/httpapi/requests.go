// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Keyward Contributors

package httpapi

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/samber/oops"

	"github.com/keyward/keyward/internal/schema"
)

// MaxBodyBytes bounds every request body.
const MaxBodyBytes = 1 << 20

const (
	msgPasswordLength = "Password must be at least 6 characters long."
	msgInvalidEmail   = "Invalid email format."
)

type loginRequest struct {
	Email    string `json:"email" jsonschema:"format=email"`
	Password string `json:"password" jsonschema:"minLength=6"`
}

type refreshRequest struct {
	RefreshToken string `json:"refreshToken" jsonschema:"minLength=1"`
}

type changePasswordRequest struct {
	OldPassword        string `json:"oldPassword" jsonschema:"minLength=1"`
	NewPassword        string `json:"newPassword" jsonschema:"minLength=6"`
	LogoutOtherDevices bool   `json:"logoutOtherDevices,omitempty"`
}

type forgetPasswordRequest struct {
	Email string `json:"email" jsonschema:"format=email"`
}

type verifyOTPRequest struct {
	Token string `json:"token" jsonschema:"minLength=1"`
	OTP   string `json:"otp" jsonschema:"minLength=1"`
}

type resetPasswordRequest struct {
	Token       string `json:"token" jsonschema:"minLength=1"`
	NewPassword string `json:"newPassword" jsonschema:"minLength=6"`
}

type createUserRequest struct {
	Name       string `json:"name" jsonschema:"minLength=2"`
	UserName   string `json:"userName" jsonschema:"minLength=3"`
	Email      string `json:"email" jsonschema:"format=email"`
	Password   string `json:"password" jsonschema:"minLength=6"`
	ProfileImg string `json:"profileImg,omitempty"`
}

type changeStatusRequest struct {
	Status string `json:"status" jsonschema:"enum=active,enum=blocked,enum=pending"`
}

type changeRoleRequest struct {
	Role string `json:"role" jsonschema:"enum=user,enum=admin,enum=superAdmin"`
}

var (
	loginSchema = schema.MustCompile(&loginRequest{}, schema.Messages{
		"email.required":    "Email is required.",
		"email":             msgInvalidEmail,
		"password.required": "Password is required",
		"password":          msgPasswordLength,
	})
	refreshSchema = schema.MustCompile(&refreshRequest{}, schema.Messages{
		"refreshToken": "Refresh token is required!",
	})
	changePasswordSchema = schema.MustCompile(&changePasswordRequest{}, schema.Messages{
		"oldPassword":          "Old password is required",
		"newPassword.required": "Password is required",
		"newPassword":          msgPasswordLength,
	})
	forgetPasswordSchema = schema.MustCompile(&forgetPasswordRequest{}, schema.Messages{
		"email.required": "Email is required!",
		"email":          msgInvalidEmail,
	})
	verifyOTPSchema = schema.MustCompile(&verifyOTPRequest{}, schema.Messages{
		"token": "Token and OTP are required",
		"otp":   "Token and OTP are required",
	})
	resetPasswordSchema = schema.MustCompile(&resetPasswordRequest{}, schema.Messages{
		"token":                msgUnauthorized,
		"newPassword.required": "New password is required",
		"newPassword":          msgPasswordLength,
	})
	createUserSchema = schema.MustCompile(&createUserRequest{}, schema.Messages{
		"name.required":     "Full name is required.",
		"name":              "Full name must be at least 2 characters long.",
		"userName.required": "Username is required.",
		"userName":          "Username must be at least 3 characters long.",
		"email.required":    "Email is required.",
		"email":             msgInvalidEmail,
		"password.required": "Password is required.",
		"password":          msgPasswordLength,
		"profileImg":        "Profile image must be a string.",
	})
	changeStatusSchema = schema.MustCompile(&changeStatusRequest{}, schema.Messages{
		"status": "Status must be one of active, blocked or pending.",
	})
	changeRoleSchema = schema.MustCompile(&changeRoleRequest{}, schema.Messages{
		"role": "Role must be one of user, admin or superAdmin.",
	})
)

// decode reads at most MaxBodyBytes, validates the document against v and
// then decodes it into dst.
func decode(w http.ResponseWriter, r *http.Request, v *schema.Validator, dst any) error {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, MaxBodyBytes))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return oops.Code(codeBodyTooLarge).Public("Request body is too large.").Wrap(err)
		}
		return oops.Code(schema.CodeInvalid).Public("Request body could not be read.").Wrap(err)
	}
	if len(bytes.TrimSpace(body)) == 0 {
		body = []byte("{}")
	}
	if err := v.ValidateJSON(bytes.NewReader(body)); err != nil {
		return err
	}
	if err := json.Unmarshal(body, dst); err != nil {
		return oops.Code(schema.CodeInvalid).Public("Request body must be valid JSON.").Wrap(err)
	}
	return nil
}
