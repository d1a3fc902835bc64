package repo

import (
	"context"
	"database/sql"
	"time"

	"github.com/Kushal-np/SocialMedia/internal/apperr"
	"github.com/Kushal-np/SocialMedia/internal/models"
)

// ==========================
// NotificationRepo
// ==========================
type NotificationRepo struct {
	DB *sql.DB
}

func NewNotificationRepo(db *sql.DB) *NotificationRepo {
	return &NotificationRepo{DB: db}
}

// ==========================
// List For User
// ==========================

// ListForUser returns the recipient's notifications, newest first, annotated
// with the sender identity, and marks them read.
func (r *NotificationRepo) ListForUser(ctx context.Context, userID int) ([]models.Notification, error) {
	rows, err := r.DB.QueryContext(ctx, `
		SELECT n.id, n.to_user, n.kind, n.read, n.created_at,
			u.id, u.full_name, u.username, u.profile_image
		FROM notifications n
		JOIN users u ON u.id = n.from_user
		WHERE n.to_user = $1
		ORDER BY n.created_at DESC, n.id DESC
	`, userID)
	if err != nil {
		return nil, apperr.FromStore(err, "notification not found")
	}
	defer rows.Close()

	notifs := []models.Notification{}
	for rows.Next() {
		var n models.Notification
		if err := rows.Scan(
			&n.ID, &n.To, &n.Kind, &n.Read, &n.CreatedAt,
			&n.From.ID, &n.From.FullName, &n.From.Username, &n.From.ProfileImage,
		); err != nil {
			return nil, apperr.FromStore(err, "notification not found")
		}
		notifs = append(notifs, n)
	}
	if err := rows.Err(); err != nil {
		return nil, apperr.FromStore(err, "notification not found")
	}

	if _, err := r.DB.ExecContext(ctx,
		`UPDATE notifications SET read = TRUE WHERE to_user = $1 AND NOT read`, userID,
	); err != nil {
		return nil, apperr.FromStore(err, "notification not found")
	}

	return notifs, nil
}

// ==========================
// Delete One
// ==========================

// DeleteOne removes a single notification; only the recipient may delete it.
func (r *NotificationRepo) DeleteOne(ctx context.Context, userID, id int) error {
	var to int
	err := r.DB.QueryRowContext(ctx,
		`SELECT to_user FROM notifications WHERE id = $1`, id,
	).Scan(&to)
	if err != nil {
		return apperr.FromStore(err, "notification not found")
	}
	if to != userID {
		return apperr.New(apperr.Forbidden, "not authorized to delete this notification")
	}

	_, err = r.DB.ExecContext(ctx, `DELETE FROM notifications WHERE id = $1`, id)
	return apperr.FromStore(err, "notification not found")
}

// ==========================
// Delete All
// ==========================
func (r *NotificationRepo) DeleteAll(ctx context.Context, userID int) error {
	_, err := r.DB.ExecContext(ctx, `DELETE FROM notifications WHERE to_user = $1`, userID)
	return apperr.FromStore(err, "notification not found")
}

// ==========================
// Retention
// ==========================

// DeleteOlderThan removes notifications created before the cutoff and
// returns how many were deleted. Used by the retention sweep.
func (r *NotificationRepo) DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	res, err := r.DB.ExecContext(ctx,
		`DELETE FROM notifications WHERE created_at < $1`, cutoff)
	if err != nil {
		return 0, apperr.FromStore(err, "notification not found")
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, apperr.FromStore(err, "notification not found")
	}
	return n, nil
}
