package server

import (
	"errors"
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"

	"authflow/internal/auth"
)

type signupRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (s *Server) handleSignup(w http.ResponseWriter, r *http.Request) {
	var req signupRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.Name == "" || req.Password == "" || !validateEmail(req.Email) {
		writeError(w, http.StatusBadRequest, "Name, email and password are required")
		return
	}

	err := s.Lifecycle.Signup(r.Context(), req.Name, req.Email, req.Password)
	switch {
	case errors.Is(err, auth.ErrDuplicateEmail):
		writeError(w, http.StatusBadRequest, "User already exists")
	case errors.Is(err, auth.ErrUnhashablePassword):
		writeError(w, http.StatusBadRequest, "Invalid password")
	case err != nil:
		log.Printf("signup failed: %v", err)
		writeError(w, http.StatusInternalServerError, "Signup failed")
	default:
		writeJSON(w, http.StatusCreated, map[string]string{
			"message": "Signup successful. Verification email sent.",
		})
	}
}

func (s *Server) handleVerifyEmail(w http.ResponseWriter, r *http.Request) {
	token := chi.URLParam(r, "token")

	err := s.Lifecycle.VerifyEmail(r.Context(), token)
	switch {
	case errors.Is(err, auth.ErrInvalidToken):
		writeError(w, http.StatusBadRequest, "Invalid or expired token")
	case err != nil:
		log.Printf("email verification failed: %v", err)
		writeError(w, http.StatusInternalServerError, "Email verification failed")
	default:
		writeJSON(w, http.StatusOK, map[string]string{
			"message": "Email verified successfully",
		})
	}
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if !validateEmail(req.Email) || req.Password == "" {
		writeError(w, http.StatusBadRequest, "Email and password are required")
		return
	}

	token, profile, err := s.Lifecycle.Login(r.Context(), req.Email, req.Password)
	switch {
	case errors.Is(err, auth.ErrInvalidCredentials):
		writeError(w, http.StatusUnauthorized, "Invalid credentials")
	case errors.Is(err, auth.ErrNotVerified):
		writeError(w, http.StatusUnauthorized, "Please verify your email")
	case err != nil:
		log.Printf("login failed: %v", err)
		writeError(w, http.StatusInternalServerError, "Login failed")
	default:
		writeJSON(w, http.StatusOK, map[string]interface{}{
			"message": "Login successful",
			"token":   token,
			"user":    profile,
		})
	}
}

// handleLogout acknowledges only. The bearer token cannot be
// server-invalidated; the client discards it.
func (s *Server) handleLogout(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"message": "Logged out successfully",
	})
}

type forgotPasswordRequest struct {
	Email string `json:"email"`
}

func (s *Server) handleForgotPassword(w http.ResponseWriter, r *http.Request) {
	var req forgotPasswordRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if !validateEmail(req.Email) {
		writeError(w, http.StatusBadRequest, "Email is required")
		return
	}

	err := s.Lifecycle.ForgotPassword(r.Context(), req.Email)
	switch {
	// Deliberately reveals whether the account exists, unlike login.
	case errors.Is(err, auth.ErrAccountNotFound):
		writeError(w, http.StatusNotFound, "User not found")
	case err != nil:
		log.Printf("forgot-password failed: %v", err)
		writeError(w, http.StatusInternalServerError, "Failed to send OTP")
	default:
		writeJSON(w, http.StatusOK, map[string]string{
			"message": "OTP sent to email",
		})
	}
}

type resetPasswordRequest struct {
	Email       string `json:"email"`
	OTP         string `json:"otp"`
	NewPassword string `json:"newPassword"`
}

func (s *Server) handleResetPassword(w http.ResponseWriter, r *http.Request) {
	var req resetPasswordRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if !validateEmail(req.Email) || req.OTP == "" || req.NewPassword == "" {
		writeError(w, http.StatusBadRequest, "Email, OTP and new password are required")
		return
	}

	err := s.Lifecycle.ResetPassword(r.Context(), req.Email, req.OTP, req.NewPassword)
	switch {
	case errors.Is(err, auth.ErrInvalidOTP):
		writeError(w, http.StatusBadRequest, "Invalid or expired OTP")
	case errors.Is(err, auth.ErrUnhashablePassword):
		writeError(w, http.StatusBadRequest, "Invalid password")
	case err != nil:
		log.Printf("password reset failed: %v", err)
		writeError(w, http.StatusInternalServerError, "Password reset failed")
	default:
		writeJSON(w, http.StatusOK, map[string]string{
			"message": "Password reset successful",
		})
	}
}

func (s *Server) handleMe(w http.ResponseWriter, r *http.Request) {
	accountID := accountFromContext(r.Context())
	if accountID == "" {
		writeError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	profile, err := s.Lifecycle.Profile(r.Context(), accountID)
	if err != nil {
		if errors.Is(err, auth.ErrAccountNotFound) {
			writeError(w, http.StatusUnauthorized, "Unauthorized")
			return
		}
		log.Printf("profile lookup failed: %v", err)
		writeError(w, http.StatusInternalServerError, "Failed to load profile")
		return
	}
	writeJSON(w, http.StatusOK, profile)
}
