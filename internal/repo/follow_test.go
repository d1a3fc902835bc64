package repo

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/Kushal-np/SocialMedia/internal/apperr"
)

func TestFollowRepo_Toggle_Follow(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM users`).
		WithArgs(1, 2).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(2))
	mock.ExpectExec(`DELETE FROM follows`).
		WithArgs(1, 2).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec(`INSERT INTO follows`).
		WithArgs(1, 2).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec(`INSERT INTO notifications`).
		WithArgs(1, 2, "follow").
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	repo := NewFollowRepo(db)
	followed, err := repo.Toggle(context.Background(), 1, 2)
	if err != nil {
		t.Fatalf("Toggle: %v", err)
	}
	if !followed {
		t.Error("expected follow, got unfollow")
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("expectations: %v", err)
	}
}

func TestFollowRepo_Toggle_Unfollow(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM users`).
		WithArgs(1, 2).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(2))
	// The edge existed, so deleting it is the whole toggle: no insert, no notification.
	mock.ExpectExec(`DELETE FROM follows`).
		WithArgs(1, 2).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	repo := NewFollowRepo(db)
	followed, err := repo.Toggle(context.Background(), 1, 2)
	if err != nil {
		t.Fatalf("Toggle: %v", err)
	}
	if followed {
		t.Error("expected unfollow, got follow")
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("expectations: %v", err)
	}
}

func TestFollowRepo_Toggle_SelfReference(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	repo := NewFollowRepo(db)
	_, err = repo.Toggle(context.Background(), 7, 7)
	if !apperr.IsKind(err, apperr.Validation) {
		t.Errorf("expected Validation, got: %v", err)
	}
	// Rejected before any storage access.
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("expectations: %v", err)
	}
}

func TestFollowRepo_Toggle_MissingUser(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM users`).
		WithArgs(1, 99).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))
	mock.ExpectRollback()

	repo := NewFollowRepo(db)
	_, err = repo.Toggle(context.Background(), 1, 99)
	if !apperr.IsKind(err, apperr.NotFound) {
		t.Errorf("expected NotFound, got: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("expectations: %v", err)
	}
}

func TestFollowRepo_Following_Empty(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	mock.ExpectQuery(`SELECT followee_id FROM follows`).
		WithArgs(5).
		WillReturnRows(sqlmock.NewRows([]string{"followee_id"}))

	repo := NewFollowRepo(db)
	ids, err := repo.Following(context.Background(), 5)
	if err != nil {
		t.Fatalf("Following: %v", err)
	}
	if ids == nil || len(ids) != 0 {
		t.Errorf("expected empty non-nil slice, got: %v", ids)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("expectations: %v", err)
	}
}
