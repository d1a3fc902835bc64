package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/Kushal-np/SocialMedia/internal/middleware"
	"github.com/Kushal-np/SocialMedia/internal/models"
	"github.com/Kushal-np/SocialMedia/internal/repo"
)

func newNotificationHandler(t *testing.T) (*NotificationHandler, sqlmock.Sqlmock, func()) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	return &NotificationHandler{Notifs: repo.NewNotificationRepo(db)}, mock, func() { db.Close() }
}

func TestNotificationHandler_List(t *testing.T) {
	h, mock, done := newNotificationHandler(t)
	defer done()

	mock.ExpectQuery(`FROM notifications n`).
		WithArgs(2).
		WillReturnRows(sqlmock.NewRows([]string{
			"id", "to_user", "kind", "read", "created_at",
			"uid", "full_name", "username", "profile_image",
		}).AddRow(1, 2, "follow", false, testTime, 1, "Alice A", "alice", ""))
	mock.ExpectExec(`UPDATE notifications SET read`).
		WithArgs(2).
		WillReturnResult(sqlmock.NewResult(0, 1))

	req := httptest.NewRequest("GET", "/notification/", nil)
	req = req.WithContext(middleware.WithUser(req.Context(), &models.User{ID: 2}))
	rr := httptest.NewRecorder()
	h.List(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("status: got %d, want 200: %s", rr.Code, rr.Body.String())
	}
	var out []models.Notification
	if err := json.NewDecoder(rr.Body).Decode(&out); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(out) != 1 || out[0].Kind != "follow" || out[0].From.Username != "alice" {
		t.Errorf("unexpected notifications: %+v", out)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("expectations: %v", err)
	}
}

func TestNotificationHandler_DeleteOne_Forbidden(t *testing.T) {
	h, mock, done := newNotificationHandler(t)
	defer done()

	mock.ExpectQuery(`SELECT to_user FROM notifications`).
		WithArgs(5).
		WillReturnRows(sqlmock.NewRows([]string{"to_user"}).AddRow(9))

	req := httptest.NewRequest("DELETE", "/notification/5", nil)
	req = withChiParam(req, &models.User{ID: 2}, "id", "5")
	rr := httptest.NewRecorder()
	h.DeleteOne(rr, req)

	if rr.Code != http.StatusForbidden {
		t.Errorf("status: got %d, want 403", rr.Code)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("expectations: %v", err)
	}
}

func TestNotificationHandler_DeleteAll(t *testing.T) {
	h, mock, done := newNotificationHandler(t)
	defer done()

	mock.ExpectExec(`DELETE FROM notifications WHERE to_user`).
		WithArgs(2).
		WillReturnResult(sqlmock.NewResult(0, 3))

	req := httptest.NewRequest("DELETE", "/notification/", nil)
	req = req.WithContext(middleware.WithUser(req.Context(), &models.User{ID: 2}))
	rr := httptest.NewRecorder()
	h.DeleteAll(rr, req)

	if rr.Code != http.StatusOK {
		t.Errorf("status: got %d, want 200: %s", rr.Code, rr.Body.String())
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("expectations: %v", err)
	}
}
