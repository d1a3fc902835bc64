package handlers

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/Kushal-np/SocialMedia/internal/middleware"
	"github.com/Kushal-np/SocialMedia/internal/models"
	"github.com/Kushal-np/SocialMedia/internal/repo"
)

var postCols = []string{
	"id", "text", "image_url", "created_at",
	"uid", "full_name", "username", "profile_image",
}

func newPostHandler(t *testing.T) (*PostHandler, sqlmock.Sqlmock, func()) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	h := &PostHandler{
		Posts: repo.NewPostRepo(db),
		Users: repo.NewUserRepo(db),
	}
	return h, mock, func() { db.Close() }
}

func multipartBody(t *testing.T, fields map[string]string) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for k, v := range fields {
		if err := mw.WriteField(k, v); err != nil {
			t.Fatalf("write field: %v", err)
		}
	}
	if err := mw.Close(); err != nil {
		t.Fatalf("close multipart: %v", err)
	}
	return &buf, mw.FormDataContentType()
}

func TestPostHandler_Create_TextOnly(t *testing.T) {
	h, mock, done := newPostHandler(t)
	defer done()

	mock.ExpectQuery(`INSERT INTO posts`).
		WithArgs(1, "hello", "").
		WillReturnRows(sqlmock.NewRows(postCols).
			AddRow(10, "hello", "", testTime, 1, "Alice A", "alice", ""))

	body, contentType := multipartBody(t, map[string]string{"text": "hello"})
	req := httptest.NewRequest("POST", "/post/create", body)
	req.Header.Set("Content-Type", contentType)
	req = req.WithContext(middleware.WithUser(req.Context(), &models.User{ID: 1, Username: "alice"}))
	rr := httptest.NewRecorder()
	h.Create(rr, req)

	if rr.Code != http.StatusCreated {
		t.Fatalf("status: got %d, want 201: %s", rr.Code, rr.Body.String())
	}
	var out models.Post
	if err := json.NewDecoder(rr.Body).Decode(&out); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if out.Text != "hello" || out.User.Username != "alice" || len(out.Likes) != 0 {
		t.Errorf("unexpected post: %+v", out)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("expectations: %v", err)
	}
}

func TestPostHandler_Create_Empty(t *testing.T) {
	h, mock, done := newPostHandler(t)
	defer done()

	body, contentType := multipartBody(t, nil)
	req := httptest.NewRequest("POST", "/post/create", body)
	req.Header.Set("Content-Type", contentType)
	req = req.WithContext(middleware.WithUser(req.Context(), &models.User{ID: 1}))
	rr := httptest.NewRecorder()
	h.Create(rr, req)

	if rr.Code != http.StatusBadRequest {
		t.Errorf("status: got %d, want 400", rr.Code)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("expectations: %v", err)
	}
}

func TestPostHandler_Delete_NotOwner(t *testing.T) {
	h, mock, done := newPostHandler(t)
	defer done()

	mock.ExpectQuery(`SELECT user_id, image_url FROM posts`).
		WithArgs(10).
		WillReturnRows(sqlmock.NewRows([]string{"user_id", "image_url"}).AddRow(2, ""))

	req := httptest.NewRequest("DELETE", "/post/10", nil)
	req = withChiParam(req, &models.User{ID: 1}, "id", "10")
	rr := httptest.NewRecorder()
	h.Delete(rr, req)

	if rr.Code != http.StatusForbidden {
		t.Errorf("status: got %d, want 403", rr.Code)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("expectations: %v", err)
	}
}

func TestPostHandler_Delete_Owner(t *testing.T) {
	h, mock, done := newPostHandler(t)
	defer done()

	mock.ExpectQuery(`SELECT user_id, image_url FROM posts`).
		WithArgs(10).
		WillReturnRows(sqlmock.NewRows([]string{"user_id", "image_url"}).AddRow(1, ""))
	mock.ExpectExec(`DELETE FROM posts`).
		WithArgs(10).
		WillReturnResult(sqlmock.NewResult(0, 1))

	req := httptest.NewRequest("DELETE", "/post/10", nil)
	req = withChiParam(req, &models.User{ID: 1}, "id", "10")
	rr := httptest.NewRecorder()
	h.Delete(rr, req)

	if rr.Code != http.StatusOK {
		t.Errorf("status: got %d, want 200: %s", rr.Code, rr.Body.String())
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("expectations: %v", err)
	}
}

func TestPostHandler_LikeUnlike_MissingPost(t *testing.T) {
	h, mock, done := newPostHandler(t)
	defer done()

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT user_id FROM posts`).
		WithArgs(99).
		WillReturnError(errNoRows())
	mock.ExpectRollback()

	req := httptest.NewRequest("POST", "/post/like/99", nil)
	req = withChiParam(req, &models.User{ID: 1}, "id", "99")
	rr := httptest.NewRecorder()
	h.LikeUnlike(rr, req)

	if rr.Code != http.StatusNotFound {
		t.Errorf("status: got %d, want 404", rr.Code)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("expectations: %v", err)
	}
}

func TestPostHandler_Comment_Blank(t *testing.T) {
	h, mock, done := newPostHandler(t)
	defer done()

	body, _ := json.Marshal(map[string]string{"text": "   "})
	req := httptest.NewRequest("POST", "/post/comment/10", bytes.NewReader(body))
	req = withChiParam(req, &models.User{ID: 1}, "id", "10")
	rr := httptest.NewRecorder()
	h.Comment(rr, req)

	if rr.Code != http.StatusBadRequest {
		t.Errorf("status: got %d, want 400", rr.Code)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("expectations: %v", err)
	}
}

func TestPostHandler_Following_EmptyFeed(t *testing.T) {
	h, mock, done := newPostHandler(t)
	defer done()

	mock.ExpectQuery(`FROM posts p`).
		WithArgs(1).
		WillReturnRows(sqlmock.NewRows(postCols))

	req := httptest.NewRequest("GET", "/post/following", nil)
	req = req.WithContext(middleware.WithUser(req.Context(), &models.User{ID: 1}))
	rr := httptest.NewRecorder()
	h.Following(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("status: got %d, want 200: %s", rr.Code, rr.Body.String())
	}
	var out []models.Post
	if err := json.NewDecoder(rr.Body).Decode(&out); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(out) != 0 {
		t.Errorf("expected empty feed, got: %+v", out)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("expectations: %v", err)
	}
}

func TestPostHandler_All(t *testing.T) {
	h, mock, done := newPostHandler(t)
	defer done()

	mock.ExpectQuery(`FROM posts p`).
		WillReturnRows(sqlmock.NewRows(postCols).
			AddRow(10, "hello", "", testTime, 1, "Alice A", "alice", ""))
	mock.ExpectQuery(`FROM post_likes`).
		WillReturnRows(sqlmock.NewRows([]string{"post_id", "user_id"}))
	mock.ExpectQuery(`FROM comments c`).
		WillReturnRows(sqlmock.NewRows([]string{
			"id", "post_id", "text", "created_at", "uid", "full_name", "username", "profile_image",
		}))

	req := httptest.NewRequest("GET", "/post/AllPosts", nil)
	rr := httptest.NewRecorder()
	h.All(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("status: got %d, want 200: %s", rr.Code, rr.Body.String())
	}
	var out []models.Post
	if err := json.NewDecoder(rr.Body).Decode(&out); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(out) != 1 || out[0].Text != "hello" || len(out[0].Likes) != 0 {
		t.Errorf("unexpected feed: %+v", out)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("expectations: %v", err)
	}
}

func TestPostHandler_UserPosts_UnknownUser(t *testing.T) {
	h, mock, done := newPostHandler(t)
	defer done()

	mock.ExpectQuery(`SELECT id, full_name, username`).
		WithArgs("ghost").
		WillReturnError(errNoRows())

	req := httptest.NewRequest("GET", "/post/user/ghost", nil)
	req = withChiParam(req, &models.User{ID: 1}, "username", "ghost")
	rr := httptest.NewRecorder()
	h.UserPosts(rr, req)

	if rr.Code != http.StatusNotFound {
		t.Errorf("status: got %d, want 404", rr.Code)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("expectations: %v", err)
	}
}
