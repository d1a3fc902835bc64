package handlers

import (
	"encoding/base64"
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"github.com/Kushal-np/SocialMedia/internal/apperr"
	"github.com/Kushal-np/SocialMedia/internal/assets"
	"github.com/Kushal-np/SocialMedia/internal/metrics"
	"github.com/Kushal-np/SocialMedia/internal/middleware"
	"github.com/Kushal-np/SocialMedia/internal/models"
	"github.com/Kushal-np/SocialMedia/internal/repo"
	"github.com/go-chi/chi/v5"
	"golang.org/x/crypto/bcrypt"
)

// suggestedLimit caps the "who to follow" panel.
const suggestedLimit = 4

// ==========================
// User Handler
// ==========================
type UserHandler struct {
	Users   *repo.UserRepo
	Follows *repo.FollowRepo
	Assets  *assets.Client
}

// ==========================
// Get Profile (public)
// ==========================
func (h *UserHandler) GetProfile(w http.ResponseWriter, r *http.Request) {
	username := chi.URLParam(r, "username")
	user, err := h.Users.GetByUsername(r.Context(), username)
	if err != nil {
		WriteError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, user)
}

// ==========================
// Suggested Users
// ==========================
func (h *UserHandler) Suggested(w http.ResponseWriter, r *http.Request) {
	actor, ok := middleware.CurrentUser(r.Context())
	if !ok {
		JSONError(w, "authentication required", http.StatusUnauthorized)
		return
	}

	users, err := h.Users.Suggested(r.Context(), actor.ID, suggestedLimit)
	if err != nil {
		WriteError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, users)
}

// ==========================
// Follow / Unfollow
// ==========================
func (h *UserHandler) FollowUnfollow(w http.ResponseWriter, r *http.Request) {
	actor, ok := middleware.CurrentUser(r.Context())
	if !ok {
		JSONError(w, "authentication required", http.StatusUnauthorized)
		return
	}

	targetID, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		JSONError(w, "invalid user id", http.StatusBadRequest)
		return
	}

	followed, err := h.Follows.Toggle(r.Context(), actor.ID, targetID)
	if err != nil {
		WriteError(w, err)
		return
	}
	metrics.RecordFollowToggle(followed)

	msg := "user unfollowed successfully"
	if followed {
		msg = "user followed successfully"
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"message":  msg,
		"followed": followed,
	})
}

// ==========================
// Update Profile
// ==========================
func (h *UserHandler) Update(w http.ResponseWriter, r *http.Request) {
	actor, ok := middleware.CurrentUser(r.Context())
	if !ok {
		JSONError(w, "authentication required", http.StatusUnauthorized)
		return
	}

	var input struct {
		FullName        *string `json:"fullName"`
		Email           *string `json:"email"`
		Username        *string `json:"username"`
		Bio             *string `json:"bio"`
		Link            *string `json:"link"`
		CurrentPassword string  `json:"currentPassword"`
		NewPassword     string  `json:"newPassword"`
		ProfileImage    string  `json:"profileImage"`
		CoverImage      string  `json:"coverImage"`
	}
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		JSONError(w, "invalid json", http.StatusBadRequest)
		return
	}

	upd := repo.ProfileUpdate{
		FullName: input.FullName,
		Email:    input.Email,
		Username: input.Username,
		Bio:      input.Bio,
		Link:     input.Link,
	}

	// Password change requires both the current and the new password.
	if input.CurrentPassword != "" || input.NewPassword != "" {
		if input.CurrentPassword == "" || input.NewPassword == "" {
			JSONError(w, "please provide both current and new password", http.StatusBadRequest)
			return
		}
		if err := bcrypt.CompareHashAndPassword([]byte(actor.PasswordHash), []byte(input.CurrentPassword)); err != nil {
			JSONError(w, "current password is incorrect", http.StatusBadRequest)
			return
		}
		if len(input.NewPassword) < models.MinPasswordLength {
			JSONError(w, "password must be at least 6 characters long", http.StatusBadRequest)
			return
		}
		hash, err := bcrypt.GenerateFromPassword([]byte(input.NewPassword), bcrypt.DefaultCost)
		if err != nil {
			WriteError(w, apperr.Wrap(apperr.Internal, "hash password", err))
			return
		}
		s := string(hash)
		upd.PasswordHash = &s
	}

	if input.ProfileImage != "" {
		url, err := h.replaceImage(r, input.ProfileImage, actor.ProfileImage, "profile")
		if err != nil {
			WriteError(w, err)
			return
		}
		upd.ProfileImage = &url
	}
	if input.CoverImage != "" {
		url, err := h.replaceImage(r, input.CoverImage, actor.CoverImage, "cover")
		if err != nil {
			WriteError(w, err)
			return
		}
		upd.CoverImage = &url
	}

	user, err := h.Users.UpdateProfile(r.Context(), actor.ID, upd)
	if err != nil {
		WriteError(w, err)
		return
	}
	user.Followers = actor.Followers
	user.Following = actor.Following

	respondJSON(w, http.StatusOK, user)
}

// replaceImage uploads a base64 data-URL image and best-effort deletes the
// one it replaces.
func (h *UserHandler) replaceImage(r *http.Request, dataURL, previous, label string) (string, error) {
	if !h.Assets.Enabled() {
		return "", apperr.New(apperr.Validation, "image upload is not configured")
	}

	raw, err := decodeDataURL(dataURL)
	if err != nil {
		return "", apperr.New(apperr.Validation, "invalid "+label+" image data")
	}

	url, err := h.Assets.Upload(r.Context(), label+".img", strings.NewReader(string(raw)))
	if err != nil {
		return "", apperr.Wrap(apperr.Internal, "upload "+label+" image", err)
	}

	h.Assets.DeleteQuietly(r.Context(), previous)
	return url, nil
}

// decodeDataURL accepts "data:<mime>;base64,<payload>" or bare base64.
func decodeDataURL(s string) ([]byte, error) {
	if i := strings.Index(s, "base64,"); i >= 0 {
		s = s[i+len("base64,"):]
	}
	return base64.StdEncoding.DecodeString(s)
}
