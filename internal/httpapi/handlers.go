// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Keyward Contributors

package httpapi

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/oklog/ulid/v2"
	"github.com/samber/oops"

	"github.com/keyward/keyward/internal/account"
)

// RefreshCookie names the cookie carrying the refresh token.
const RefreshCookie = "refreshToken"

type loginResponse struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}

type accessTokenResponse struct {
	AccessToken string `json:"accessToken"`
}

type ticketResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// userResponse is the public view of a user. Credentials never leave the
// service.
type userResponse struct {
	ID              string    `json:"id"`
	Name            string    `json:"name"`
	UserName        string    `json:"userName"`
	Email           string    `json:"email"`
	ProfileImg      string    `json:"profileImg,omitempty"`
	Role            string    `json:"role"`
	Status          string    `json:"status"`
	IsEmailVerified bool      `json:"isEmailVerified"`
	CreatedAt       time.Time `json:"createdAt"`
	UpdatedAt       time.Time `json:"updatedAt"`
}

func newUserResponse(u *account.User) userResponse {
	return userResponse{
		ID:              u.ID.String(),
		Name:            u.Name,
		UserName:        u.UserName,
		Email:           u.Email,
		ProfileImg:      u.ProfileImg,
		Role:            string(u.Role),
		Status:          string(u.Status),
		IsEmailVerified: u.IsEmailVerified,
		CreatedAt:       u.CreatedAt,
		UpdatedAt:       u.UpdatedAt,
	}
}

func (s *Server) login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decode(w, r, loginSchema, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	result, err := s.svc.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.setRefreshCookie(w, result.RefreshToken, result.RefreshExpiresAt)
	writeOK(w, "User is logged in successfully!", loginResponse{
		AccessToken:  result.AccessToken,
		RefreshToken: result.RefreshToken,
	})
}

func (s *Server) setRefreshCookie(w http.ResponseWriter, token string, expires time.Time) {
	cookie := &http.Cookie{
		Name:     RefreshCookie,
		Value:    token,
		Path:     BasePath + "/auth",
		Expires:  expires,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	}
	if s.secureCookies {
		cookie.Secure = true
		cookie.SameSite = http.SameSiteNoneMode
	}
	http.SetCookie(w, cookie)
}

// refreshToken prefers a token in the JSON body and falls back to the cookie
// when the body has none.
func (s *Server) refreshToken(w http.ResponseWriter, r *http.Request) {
	var cookieToken string
	if cookie, err := r.Cookie(RefreshCookie); err == nil {
		cookieToken = cookie.Value
	}

	var (
		req   refreshRequest
		token string
	)
	switch err := decode(w, r, refreshSchema, &req); {
	case err == nil:
		token = req.RefreshToken
	case cookieToken != "":
		token = cookieToken
	default:
		s.writeError(w, r, err)
		return
	}

	result, err := s.svc.Refresh(r.Context(), token)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeOK(w, "Access token is retrieved successfully!", accessTokenResponse{AccessToken: result.AccessToken})
}

func (s *Server) changePassword(w http.ResponseWriter, r *http.Request) {
	claims, _ := ClaimsFrom(r.Context())
	userID, err := claims.UserID()
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	var req changePasswordRequest
	if err := decode(w, r, changePasswordSchema, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	if err := s.svc.ChangePassword(r.Context(), userID, req.OldPassword, req.NewPassword, req.LogoutOtherDevices); err != nil {
		s.writeError(w, r, err)
		return
	}
	writeOK(w, "Password is updated successfully!", nil)
}

func (s *Server) forgetPassword(w http.ResponseWriter, r *http.Request) {
	var req forgetPasswordRequest
	if err := decode(w, r, forgetPasswordSchema, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	ticket, err := s.svc.RequestRecovery(r.Context(), req.Email)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeOK(w, "OTP has been successfully sent to your email.", ticketResponse{Token: ticket.Token, ExpiresAt: ticket.ExpiresAt})
}

func (s *Server) verifyOTP(w http.ResponseWriter, r *http.Request) {
	var req verifyOTPRequest
	if err := decode(w, r, verifyOTPSchema, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	ticket, err := s.svc.VerifyRecoveryCode(r.Context(), req.Token, req.OTP)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeOK(w, "OTP confirmed successfully!", ticketResponse{Token: ticket.Token, ExpiresAt: ticket.ExpiresAt})
}

func (s *Server) resetPassword(w http.ResponseWriter, r *http.Request) {
	var req resetPasswordRequest
	if err := decode(w, r, resetPasswordSchema, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	if err := s.svc.CommitRecovery(r.Context(), req.Token, req.NewPassword); err != nil {
		s.writeError(w, r, err)
		return
	}
	writeOK(w, "Password changed successfully. Please login.", nil)
}

func (s *Server) createUser(w http.ResponseWriter, r *http.Request) {
	var req createUserRequest
	if err := decode(w, r, createUserSchema, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	user, err := s.svc.CreateUser(r.Context(), account.NewUserInput{
		Name:       req.Name,
		UserName:   req.UserName,
		Email:      req.Email,
		Password:   req.Password,
		ProfileImg: req.ProfileImg,
	})
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeOK(w, "User is created successfully!", newUserResponse(user))
}

func (s *Server) changeUserStatus(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	var req changeStatusRequest
	if err := decode(w, r, changeStatusSchema, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	user, err := s.svc.ChangeUserStatus(r.Context(), id, account.Status(req.Status))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeOK(w, "User status is updated successfully!", newUserResponse(user))
}

func (s *Server) changeUserRole(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	var req changeRoleRequest
	if err := decode(w, r, changeRoleSchema, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	user, err := s.svc.ChangeUserRole(r.Context(), id, account.Role(req.Role))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeOK(w, "User role is updated successfully!", newUserResponse(user))
}

func pathID(r *http.Request) (ulid.ULID, error) {
	raw := chi.URLParam(r, "id")
	id, err := ulid.Parse(raw)
	if err != nil {
		return ulid.ULID{}, oops.Code(codeInvalidID).With("id", raw).Public("Invalid user id.").Wrap(err)
	}
	return id, nil
}
