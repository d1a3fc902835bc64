package repo

import (
	"context"
	"database/sql"

	"github.com/Kushal-np/SocialMedia/internal/apperr"
	"github.com/Kushal-np/SocialMedia/internal/models"
)

// ==========================
// FollowRepo
// ==========================

// FollowRepo owns the follow edge set. An edge is one row keyed by
// (follower, followee), so a toggle touches exactly one row and both sides
// of the relationship always agree.
type FollowRepo struct {
	DB *sql.DB
}

func NewFollowRepo(db *sql.DB) *FollowRepo {
	return &FollowRepo{DB: db}
}

// ==========================
// Toggle Follow
// ==========================

// Toggle follows target if the edge is absent, unfollows otherwise. A follow
// also records a notification to the target, inside the same transaction.
// Returns true when the call resulted in a follow.
func (r *FollowRepo) Toggle(ctx context.Context, actorID, targetID int) (bool, error) {
	if actorID == targetID {
		return false, apperr.New(apperr.Validation, "you can't follow or unfollow yourself")
	}

	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return false, apperr.FromStore(err, "user not found")
	}
	defer tx.Rollback()

	var count int
	err = tx.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM users WHERE id = $1 OR id = $2`, actorID, targetID,
	).Scan(&count)
	if err != nil {
		return false, apperr.FromStore(err, "user not found")
	}
	if count != 2 {
		return false, apperr.New(apperr.NotFound, "user not found")
	}

	res, err := tx.ExecContext(ctx,
		`DELETE FROM follows WHERE follower_id = $1 AND followee_id = $2`, actorID, targetID,
	)
	if err != nil {
		return false, apperr.FromStore(err, "user not found")
	}
	removed, err := res.RowsAffected()
	if err != nil {
		return false, apperr.FromStore(err, "user not found")
	}

	followed := removed == 0
	if followed {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO follows (follower_id, followee_id) VALUES ($1, $2)`, actorID, targetID,
		); err != nil {
			return false, apperr.FromStore(err, "user not found")
		}
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO notifications (from_user, to_user, kind) VALUES ($1, $2, $3)`,
			actorID, targetID, models.NotificationFollow,
		); err != nil {
			return false, apperr.FromStore(err, "user not found")
		}
	}

	if err := tx.Commit(); err != nil {
		return false, apperr.FromStore(err, "user not found")
	}
	return followed, nil
}

// ==========================
// Edge queries
// ==========================

// Following returns the ids of users the given user follows.
func (r *FollowRepo) Following(ctx context.Context, userID int) ([]int, error) {
	return r.edgeIDs(ctx,
		`SELECT followee_id FROM follows WHERE follower_id = $1 ORDER BY followee_id`, userID)
}

// Followers returns the ids of users following the given user.
func (r *FollowRepo) Followers(ctx context.Context, userID int) ([]int, error) {
	return r.edgeIDs(ctx,
		`SELECT follower_id FROM follows WHERE followee_id = $1 ORDER BY follower_id`, userID)
}

func (r *FollowRepo) edgeIDs(ctx context.Context, query string, userID int) ([]int, error) {
	rows, err := r.DB.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, apperr.FromStore(err, "user not found")
	}
	defer rows.Close()

	ids := []int{}
	for rows.Next() {
		var id int
		if err := rows.Scan(&id); err != nil {
			return nil, apperr.FromStore(err, "user not found")
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, apperr.FromStore(err, "user not found")
	}
	return ids, nil
}
