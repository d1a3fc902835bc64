package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/Kushal-np/SocialMedia/internal/apperr"
	"github.com/Kushal-np/SocialMedia/internal/middleware"
	"github.com/Kushal-np/SocialMedia/internal/repo"
	"github.com/go-playground/validator/v10"
	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

// ==========================
// Auth Handler
// ==========================
type AuthHandler struct {
	Users       *repo.UserRepo
	Secret      []byte
	ExpireHours int
	// SecureCookie marks the session cookie Secure; enable when serving HTTPS.
	SecureCookie bool
}

// ==========================
// Signup
// ==========================
func (h *AuthHandler) Signup(w http.ResponseWriter, r *http.Request) {
	var input struct {
		FullName string `json:"fullName" validate:"required,min=1,max=100"`
		Username string `json:"username" validate:"required,min=1,max=50"`
		Email    string `json:"email" validate:"required,email"`
		Password string `json:"password" validate:"required,min=6"`
	}

	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		JSONError(w, "invalid json", http.StatusBadRequest)
		return
	}

	validate := validator.New()
	if err := validate.Struct(input); err != nil {
		JSONError(w, err.Error(), http.StatusBadRequest)
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		WriteError(w, apperr.Wrap(apperr.Internal, "hash password", err))
		return
	}

	user, err := h.Users.Create(r.Context(), input.FullName, input.Username, input.Email, string(hash))
	if err != nil {
		if apperr.IsKind(err, apperr.Conflict) {
			JSONError(w, "username or email already registered", http.StatusConflict)
			return
		}
		WriteError(w, err)
		return
	}

	token, err := h.issueToken(user.ID)
	if err != nil {
		WriteError(w, apperr.Wrap(apperr.Internal, "issue token", err))
		return
	}
	h.setSessionCookie(w, token)

	respondJSON(w, http.StatusCreated, map[string]interface{}{
		"token": token,
		"user":  user,
	})
}

// ==========================
// Login
// ==========================
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var input struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}

	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		JSONError(w, "invalid json", http.StatusBadRequest)
		return
	}
	if input.Username == "" || input.Password == "" {
		JSONError(w, "username and password are required", http.StatusBadRequest)
		return
	}

	user, err := h.Users.GetByUsername(r.Context(), input.Username)
	if err != nil {
		if apperr.IsKind(err, apperr.NotFound) {
			JSONError(w, "invalid credentials", http.StatusUnauthorized)
			return
		}
		WriteError(w, err)
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(input.Password)); err != nil {
		JSONError(w, "invalid credentials", http.StatusUnauthorized)
		return
	}

	token, err := h.issueToken(user.ID)
	if err != nil {
		WriteError(w, apperr.Wrap(apperr.Internal, "issue token", err))
		return
	}
	h.setSessionCookie(w, token)

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"token": token,
		"user":  user,
	})
}

// ==========================
// Logout
// ==========================
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	http.SetCookie(w, &http.Cookie{
		Name:     middleware.SessionCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   h.SecureCookie,
		SameSite: http.SameSiteStrictMode,
	})
	respondJSON(w, http.StatusOK, map[string]string{"message": "logged out"})
}

// ==========================
// Me
// ==========================
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.CurrentUser(r.Context())
	if !ok {
		JSONError(w, "authentication required", http.StatusUnauthorized)
		return
	}
	respondJSON(w, http.StatusOK, user)
}

// ==========================
// Token plumbing
// ==========================

func (h *AuthHandler) issueToken(userID int) (string, error) {
	expire := h.ExpireHours
	if expire <= 0 {
		expire = 24
	}
	claims := jwt.MapClaims{
		"user_id": userID,
		"exp":     time.Now().Add(time.Duration(expire) * time.Hour).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(h.Secret)
}

func (h *AuthHandler) setSessionCookie(w http.ResponseWriter, token string) {
	expire := h.ExpireHours
	if expire <= 0 {
		expire = 24
	}
	http.SetCookie(w, &http.Cookie{
		Name:     middleware.SessionCookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   expire * 3600,
		HttpOnly: true,
		Secure:   h.SecureCookie,
		SameSite: http.SameSiteStrictMode,
	})
}
