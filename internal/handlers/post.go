package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/Kushal-np/SocialMedia/internal/apperr"
	"github.com/Kushal-np/SocialMedia/internal/assets"
	"github.com/Kushal-np/SocialMedia/internal/metrics"
	"github.com/Kushal-np/SocialMedia/internal/middleware"
	"github.com/Kushal-np/SocialMedia/internal/repo"
	"github.com/go-chi/chi/v5"
)

// maxPostMemory bounds the in-memory part of multipart parsing; larger file
// parts spill to disk.
const maxPostMemory = 2 << 20

// ==========================
// Post Handler
// ==========================
type PostHandler struct {
	Posts  *repo.PostRepo
	Users  *repo.UserRepo
	Assets *assets.Client
}

// ==========================
// Create Post
// ==========================

// Create accepts a multipart form with an optional "text" field and an
// optional "image" file. At least one must be present.
func (h *PostHandler) Create(w http.ResponseWriter, r *http.Request) {
	actor, ok := middleware.CurrentUser(r.Context())
	if !ok {
		JSONError(w, "authentication required", http.StatusUnauthorized)
		return
	}

	if err := r.ParseMultipartForm(maxPostMemory); err != nil {
		JSONError(w, "invalid multipart form", http.StatusBadRequest)
		return
	}

	text := strings.TrimSpace(r.FormValue("text"))

	imageURL := ""
	file, header, err := r.FormFile("image")
	switch err {
	case nil:
		defer file.Close()
		if !h.Assets.Enabled() {
			JSONError(w, "image upload is not configured", http.StatusBadRequest)
			return
		}
		imageURL, err = h.Assets.Upload(r.Context(), header.Filename, file)
		if err != nil {
			WriteError(w, apperr.Wrap(apperr.Internal, "upload post image", err))
			return
		}
	case http.ErrMissingFile:
		// text-only post
	default:
		JSONError(w, "invalid image upload", http.StatusBadRequest)
		return
	}

	if text == "" && imageURL == "" {
		JSONError(w, "post must have text or image", http.StatusBadRequest)
		return
	}

	post, err := h.Posts.Create(r.Context(), actor.ID, text, imageURL)
	if err != nil {
		// The post row failed after the asset went up; don't leak the asset.
		h.Assets.DeleteQuietly(r.Context(), imageURL)
		WriteError(w, err)
		return
	}
	metrics.PostsCreated.Inc()

	respondJSON(w, http.StatusCreated, post)
}

// ==========================
// Delete Post
// ==========================
func (h *PostHandler) Delete(w http.ResponseWriter, r *http.Request) {
	actor, ok := middleware.CurrentUser(r.Context())
	if !ok {
		JSONError(w, "authentication required", http.StatusUnauthorized)
		return
	}

	postID, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		JSONError(w, "invalid post id", http.StatusBadRequest)
		return
	}

	imageURL, err := h.Posts.Delete(r.Context(), actor.ID, postID)
	if err != nil {
		WriteError(w, err)
		return
	}
	h.Assets.DeleteQuietly(r.Context(), imageURL)

	respondJSON(w, http.StatusOK, map[string]string{"message": "post deleted successfully"})
}

// ==========================
// Like / Unlike
// ==========================
func (h *PostHandler) LikeUnlike(w http.ResponseWriter, r *http.Request) {
	actor, ok := middleware.CurrentUser(r.Context())
	if !ok {
		JSONError(w, "authentication required", http.StatusUnauthorized)
		return
	}

	postID, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		JSONError(w, "invalid post id", http.StatusBadRequest)
		return
	}

	liked, err := h.Posts.ToggleLike(r.Context(), actor.ID, postID)
	if err != nil {
		WriteError(w, err)
		return
	}
	metrics.RecordLikeToggle(liked)

	msg := "post unliked successfully"
	if liked {
		msg = "post liked successfully"
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"message": msg,
		"liked":   liked,
	})
}

// ==========================
// Comment
// ==========================
func (h *PostHandler) Comment(w http.ResponseWriter, r *http.Request) {
	actor, ok := middleware.CurrentUser(r.Context())
	if !ok {
		JSONError(w, "authentication required", http.StatusUnauthorized)
		return
	}

	postID, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		JSONError(w, "invalid post id", http.StatusBadRequest)
		return
	}

	var input struct {
		Text string `json:"text"`
	}
	if err := decodeJSON(r, &input); err != nil {
		JSONError(w, "invalid json", http.StatusBadRequest)
		return
	}
	if strings.TrimSpace(input.Text) == "" {
		JSONError(w, "text field is required", http.StatusBadRequest)
		return
	}

	post, err := h.Posts.Comment(r.Context(), actor.ID, postID, input.Text)
	if err != nil {
		WriteError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, post)
}

// ==========================
// Feeds
// ==========================

// All serves the global feed, newest first. Public.
func (h *PostHandler) All(w http.ResponseWriter, r *http.Request) {
	posts, err := h.Posts.All(r.Context())
	if err != nil {
		WriteError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, posts)
}

// Following serves posts authored by users the actor follows. An empty
// following set yields an empty feed, not an error.
func (h *PostHandler) Following(w http.ResponseWriter, r *http.Request) {
	actor, ok := middleware.CurrentUser(r.Context())
	if !ok {
		JSONError(w, "authentication required", http.StatusUnauthorized)
		return
	}

	posts, err := h.Posts.FollowingFeed(r.Context(), actor.ID)
	if err != nil {
		WriteError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, posts)
}

// UserPosts serves a single author's posts, resolved by username.
func (h *PostHandler) UserPosts(w http.ResponseWriter, r *http.Request) {
	username := chi.URLParam(r, "username")
	user, err := h.Users.GetByUsername(r.Context(), username)
	if err != nil {
		WriteError(w, err)
		return
	}

	posts, err := h.Posts.ByAuthor(r.Context(), user.ID)
	if err != nil {
		WriteError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, posts)
}

// Liked serves the posts a target user has liked.
func (h *PostHandler) Liked(w http.ResponseWriter, r *http.Request) {
	userID, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		JSONError(w, "invalid user id", http.StatusBadRequest)
		return
	}

	if _, err := h.Users.GetByID(r.Context(), userID); err != nil {
		WriteError(w, err)
		return
	}

	posts, err := h.Posts.LikedBy(r.Context(), userID)
	if err != nil {
		WriteError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, posts)
}
