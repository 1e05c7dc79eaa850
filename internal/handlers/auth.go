package handlers

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"strings"
	"time"

	"campus-feedback-backend/internal/authsvc"
	"campus-feedback-backend/internal/middleware"
	"campus-feedback-backend/internal/models"
	"campus-feedback-backend/internal/reconcile"
	"campus-feedback-backend/internal/repository"

	"github.com/google/uuid"
	"github.com/resend/resend-go/v2"
)

// SessionStore is the slice of the session repository the auth handlers need.
type SessionStore interface {
	Create(ctx context.Context, session *models.Session) error
	Delete(ctx context.Context, token string) error
}

type AuthHandler struct {
	auth         authsvc.Service
	users        reconcile.UserStore
	sessions     SessionStore
	admin        reconcile.Admin
	cookieSecure bool
}

func NewAuthHandler(auth authsvc.Service, users reconcile.UserStore, sessions SessionStore, admin reconcile.Admin, cookieSecure bool) *AuthHandler {
	return &AuthHandler{
		auth:         auth,
		users:        users,
		sessions:     sessions,
		admin:        admin,
		cookieSecure: cookieSecure,
	}
}

// --- Request / Response types ---

type SignupRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// --- POST /api/auth/signup ---

func (h *AuthHandler) Signup(w http.ResponseWriter, r *http.Request) {
	var req SignupRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	req.Email = strings.TrimSpace(strings.ToLower(req.Email))
	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" || req.Email == "" || req.Password == "" {
		writeError(w, http.StatusBadRequest, "Name, email, and password are required")
		return
	}

	identity, err := h.auth.SignUp(r.Context(), req.Email, req.Password)
	if err != nil {
		var authErr *authsvc.AuthError
		if errors.As(err, &authErr) {
			writeError(w, http.StatusBadRequest, authErr.Message)
			return
		}
		log.Printf("Error signing up with auth service: %v", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	// The reserved administrator gets the canonical name and the admin flag
	// from the very first record.
	profile := reconcile.NewProfile(h.admin, identity.ID, identity.Email, req.Name)
	if err := h.users.Create(r.Context(), profile); err != nil {
		// A profile may already exist for this identity; that is fine.
		if !errors.Is(err, repository.ErrDuplicate) {
			log.Printf("Error creating user profile: %v", err)
			writeError(w, http.StatusBadRequest, "Could not create user record")
			return
		}
	}

	if err := sendConfirmationEmail(profile.Email, profile.Name); err != nil {
		log.Printf("Error sending confirmation email: %v", err)
		// Best-effort — signup already succeeded.
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"message": "Signup successful! Please check your email to verify your account.",
		"user": map[string]string{
			"id":    profile.ID,
			"email": profile.Email,
			"name":  profile.Name,
		},
	})
}

// --- POST /api/auth/login ---

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	req.Email = strings.TrimSpace(strings.ToLower(req.Email))
	if req.Email == "" || req.Password == "" {
		writeError(w, http.StatusBadRequest, "Email and password are required")
		return
	}

	creds, err := h.auth.SignIn(r.Context(), req.Email, req.Password)
	if err != nil {
		var authErr *authsvc.AuthError
		if errors.As(err, &authErr) {
			writeError(w, http.StatusUnauthorized, authErr.Message)
			return
		}
		log.Printf("Error signing in with auth service: %v", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	user, err := reconcile.Resolve(r.Context(), h.users, h.admin, creds.Identity)
	if err != nil {
		if errors.Is(err, reconcile.ErrUserRecordUnresolvable) {
			writeError(w, http.StatusBadRequest, "Could not create or find user record")
			return
		}
		log.Printf("Error reconciling user record: %v", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	session := &models.Session{
		Token: uuid.New().String(),
		User: models.SessionUser{
			ID:      user.ID,
			Email:   user.Email,
			Name:    user.Name,
			IsAdmin: user.IsAdmin,
		},
		AccessToken: creds.AccessToken,
		ExpiresAt:   creds.ExpiresAt,
	}
	if err := h.sessions.Create(r.Context(), session); err != nil {
		log.Printf("Error creating session: %v", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	h.setSessionCookie(w, session.Token, session.ExpiresAt)

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"message": "Login successful",
		"user":    session.User,
	})
}

// --- POST /api/auth/logout ---

func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	if cookie, err := r.Cookie(middleware.CookieName); err == nil && cookie.Value != "" {
		if err := h.sessions.Delete(r.Context(), cookie.Value); err != nil {
			log.Printf("Error deleting session: %v", err)
		}
	}
	h.clearSessionCookie(w)

	writeJSON(w, http.StatusOK, map[string]string{
		"message": "Logged out successfully",
	})
}

// --- GET /api/auth/status ---

func (h *AuthHandler) Status(w http.ResponseWriter, r *http.Request) {
	user := middleware.GetUser(r.Context())
	if user == nil {
		writeJSON(w, http.StatusOK, map[string]interface{}{"authenticated": false})
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"authenticated": true,
		"user":          user,
	})
}

// --- Helpers (cookie) ---

func (h *AuthHandler) setSessionCookie(w http.ResponseWriter, token string, expires time.Time) {
	http.SetCookie(w, &http.Cookie{
		Name:     middleware.CookieName,
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		Secure:   h.cookieSecure,
		Expires:  expires,
	})
}

func (h *AuthHandler) clearSessionCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     middleware.CookieName,
		Value:    "",
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		Secure:   h.cookieSecure,
		MaxAge:   -1,
	})
}

// --- Helpers (email) ---

func sendConfirmationEmail(to, name string) error {
	apiKey := os.Getenv("RESEND_API_KEY")
	fromEmail := os.Getenv("FROM_EMAIL")

	if apiKey == "" {
		log.Println("⚠️  RESEND_API_KEY not set, skipping email send")
		log.Printf("📧 [Dev Mode] Signup confirmation for %s", to)
		return nil
	}

	client := resend.NewClient(apiKey)

	params := &resend.SendEmailRequest{
		From:    fromEmail,
		To:      []string{to},
		Subject: "Welcome to the Student Feedback Portal",
		Html: fmt.Sprintf(`
			<div style="font-family: sans-serif; max-width: 480px; margin: 0 auto; padding: 24px;">
				<h2 style="color: #333;">Welcome, %s!</h2>
				<p>Your account has been created. Verify your email address to start submitting faculty and course feedback.</p>
				<p style="color: #888; font-size: 14px; margin-top: 16px;">
					If you didn't sign up, you can safely ignore this email.
				</p>
			</div>
		`, name),
	}

	sent, err := client.Emails.Send(params)
	if err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}
	log.Printf("📧 Confirmation email sent (ID: %s)", sent.Id)
	return nil
}
