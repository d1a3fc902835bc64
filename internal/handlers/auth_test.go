package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/Kushal-np/SocialMedia/internal/middleware"
	"github.com/Kushal-np/SocialMedia/internal/models"
	"github.com/Kushal-np/SocialMedia/internal/repo"
	"github.com/lib/pq"
	"golang.org/x/crypto/bcrypt"
)

var userCols = []string{
	"id", "full_name", "username", "email", "password_hash",
	"bio", "link", "profile_image", "cover_image", "created_at",
}

var userEdgeCols = append(append([]string{}, userCols...), "followers", "following")

var testTime = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

func newAuthHandler(t *testing.T) (*AuthHandler, sqlmock.Sqlmock, func()) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	h := &AuthHandler{
		Users:       repo.NewUserRepo(db),
		Secret:      []byte("test-secret"),
		ExpireHours: 24,
	}
	return h, mock, func() { db.Close() }
}

func sessionCookie(t *testing.T, rr *httptest.ResponseRecorder) *http.Cookie {
	t.Helper()
	for _, c := range rr.Result().Cookies() {
		if c.Name == middleware.SessionCookieName {
			return c
		}
	}
	return nil
}

func TestAuthHandler_Signup(t *testing.T) {
	h, mock, done := newAuthHandler(t)
	defer done()

	mock.ExpectQuery(`INSERT INTO users`).
		WithArgs("Alice A", "alice", "alice@x.com", sqlmock.AnyArg()).
		WillReturnRows(sqlmock.NewRows(userCols).
			AddRow(1, "Alice A", "alice", "alice@x.com", "hash", "", "", "", "", testTime))

	body, _ := json.Marshal(map[string]string{
		"fullName": "Alice A",
		"username": "alice",
		"email":    "alice@x.com",
		"password": "secret1",
	})
	req := httptest.NewRequest("POST", "/auth/signup", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rr := httptest.NewRecorder()
	h.Signup(rr, req)

	if rr.Code != http.StatusCreated {
		t.Fatalf("Signup status: got %d, want 201: %s", rr.Code, rr.Body.String())
	}

	var out struct {
		Token string      `json:"token"`
		User  models.User `json:"user"`
	}
	if err := json.NewDecoder(rr.Body).Decode(&out); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if out.Token == "" || out.User.Username != "alice" {
		t.Errorf("unexpected response: token=%q user=%+v", out.Token, out.User)
	}

	c := sessionCookie(t, rr)
	if c == nil || c.Value == "" {
		t.Fatal("expected session cookie to be set")
	}
	if !c.HttpOnly {
		t.Error("session cookie must be http-only")
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("expectations: %v", err)
	}
}

func TestAuthHandler_Signup_ShortPassword(t *testing.T) {
	h, mock, done := newAuthHandler(t)
	defer done()

	body, _ := json.Marshal(map[string]string{
		"fullName": "Alice A",
		"username": "alice",
		"email":    "alice@x.com",
		"password": "short",
	})
	req := httptest.NewRequest("POST", "/auth/signup", bytes.NewReader(body))
	rr := httptest.NewRecorder()
	h.Signup(rr, req)

	if rr.Code != http.StatusBadRequest {
		t.Errorf("Signup status: got %d, want 400", rr.Code)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("expectations: %v", err)
	}
}

func TestAuthHandler_Signup_Duplicate(t *testing.T) {
	h, mock, done := newAuthHandler(t)
	defer done()

	mock.ExpectQuery(`INSERT INTO users`).
		WithArgs("Alice A", "alice", "alice@x.com", sqlmock.AnyArg()).
		WillReturnError(&pq.Error{Code: "23505"})

	body, _ := json.Marshal(map[string]string{
		"fullName": "Alice A",
		"username": "alice",
		"email":    "alice@x.com",
		"password": "secret1",
	})
	req := httptest.NewRequest("POST", "/auth/signup", bytes.NewReader(body))
	rr := httptest.NewRecorder()
	h.Signup(rr, req)

	if rr.Code != http.StatusConflict {
		t.Errorf("Signup status: got %d, want 409", rr.Code)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("expectations: %v", err)
	}
}

func TestAuthHandler_Login(t *testing.T) {
	h, mock, done := newAuthHandler(t)
	defer done()

	hash, _ := bcrypt.GenerateFromPassword([]byte("secret1"), bcrypt.MinCost)
	mock.ExpectQuery(`SELECT id, full_name, username`).
		WithArgs("alice").
		WillReturnRows(sqlmock.NewRows(userEdgeCols).
			AddRow(1, "Alice A", "alice", "alice@x.com", string(hash), "", "", "", "", testTime, "{}", "{}"))

	body, _ := json.Marshal(map[string]string{"username": "alice", "password": "secret1"})
	req := httptest.NewRequest("POST", "/auth/login", bytes.NewReader(body))
	rr := httptest.NewRecorder()
	h.Login(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("Login status: got %d, want 200: %s", rr.Code, rr.Body.String())
	}
	if c := sessionCookie(t, rr); c == nil || c.Value == "" {
		t.Error("expected session cookie to be set")
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("expectations: %v", err)
	}
}

func TestAuthHandler_Login_WrongPassword(t *testing.T) {
	h, mock, done := newAuthHandler(t)
	defer done()

	hash, _ := bcrypt.GenerateFromPassword([]byte("secret1"), bcrypt.MinCost)
	mock.ExpectQuery(`SELECT id, full_name, username`).
		WithArgs("alice").
		WillReturnRows(sqlmock.NewRows(userEdgeCols).
			AddRow(1, "Alice A", "alice", "alice@x.com", string(hash), "", "", "", "", testTime, "{}", "{}"))

	body, _ := json.Marshal(map[string]string{"username": "alice", "password": "wrong"})
	req := httptest.NewRequest("POST", "/auth/login", bytes.NewReader(body))
	rr := httptest.NewRecorder()
	h.Login(rr, req)

	if rr.Code != http.StatusUnauthorized {
		t.Errorf("Login status: got %d, want 401", rr.Code)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("expectations: %v", err)
	}
}

func TestAuthHandler_Login_MissingFields(t *testing.T) {
	h, mock, done := newAuthHandler(t)
	defer done()

	body, _ := json.Marshal(map[string]string{"username": "alice"})
	req := httptest.NewRequest("POST", "/auth/login", bytes.NewReader(body))
	rr := httptest.NewRecorder()
	h.Login(rr, req)

	if rr.Code != http.StatusBadRequest {
		t.Errorf("Login status: got %d, want 400", rr.Code)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("expectations: %v", err)
	}
}

func TestAuthHandler_Me(t *testing.T) {
	h, _, done := newAuthHandler(t)
	defer done()

	user := &models.User{ID: 1, Username: "alice"}
	req := httptest.NewRequest("GET", "/auth/me", nil)
	req = req.WithContext(middleware.WithUser(req.Context(), user))
	rr := httptest.NewRecorder()
	h.Me(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("Me status: got %d, want 200", rr.Code)
	}
	var out models.User
	if err := json.NewDecoder(rr.Body).Decode(&out); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if out.Username != "alice" {
		t.Errorf("unexpected user: %+v", out)
	}
}

func TestAuthHandler_Logout_ClearsCookie(t *testing.T) {
	h, _, done := newAuthHandler(t)
	defer done()

	req := httptest.NewRequest("POST", "/auth/logout", nil)
	rr := httptest.NewRecorder()
	h.Logout(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("Logout status: got %d, want 200", rr.Code)
	}
	c := sessionCookie(t, rr)
	if c == nil || c.MaxAge >= 0 {
		t.Error("expected expired session cookie")
	}
}
