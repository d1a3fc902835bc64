package repo

import (
	"context"
	"database/sql"

	"github.com/Kushal-np/SocialMedia/internal/apperr"
	"github.com/Kushal-np/SocialMedia/internal/models"
	"github.com/lib/pq"
)

// ==========================
// PostRepo
// ==========================
type PostRepo struct {
	DB *sql.DB
}

func NewPostRepo(db *sql.DB) *PostRepo {
	return &PostRepo{DB: db}
}

// postSelect joins each post with its author identity. Feed ordering is
// newest first with id as the stable tie-break.
const postSelect = `
	SELECT p.id, p.text, p.image_url, p.created_at,
		u.id, u.full_name, u.username, u.profile_image
	FROM posts p
	JOIN users u ON u.id = p.user_id
`

const feedOrder = ` ORDER BY p.created_at DESC, p.id DESC`

// ==========================
// Create Post
// ==========================
func (r *PostRepo) Create(ctx context.Context, userID int, text, imageURL string) (*models.Post, error) {
	query := `
		WITH ins AS (
			INSERT INTO posts (user_id, text, image_url)
			VALUES ($1, $2, $3)
			RETURNING id, user_id, text, image_url, created_at
		)
		SELECT ins.id, ins.text, ins.image_url, ins.created_at,
			u.id, u.full_name, u.username, u.profile_image
		FROM ins
		JOIN users u ON u.id = ins.user_id
	`

	post := &models.Post{}
	err := r.DB.QueryRowContext(ctx, query, userID, text, imageURL).Scan(
		&post.ID, &post.Text, &post.Image, &post.CreatedAt,
		&post.User.ID, &post.User.FullName, &post.User.Username, &post.User.ProfileImage,
	)
	if err != nil {
		return nil, apperr.FromStore(err, "post not found")
	}

	post.Likes = []int{}
	post.Comments = []models.Comment{}
	return post, nil
}

// ==========================
// Get By ID
// ==========================
func (r *PostRepo) GetByID(ctx context.Context, id int) (*models.Post, error) {
	posts, err := r.queryPosts(ctx, postSelect+` WHERE p.id = $1`, id)
	if err != nil {
		return nil, err
	}
	if len(posts) == 0 {
		return nil, apperr.New(apperr.NotFound, "post not found")
	}
	return &posts[0], nil
}

// ==========================
// Delete Post
// ==========================

// Delete removes the post when actorID owns it and returns the stored image
// URL so the caller can clean up the external asset.
func (r *PostRepo) Delete(ctx context.Context, actorID, postID int) (string, error) {
	var ownerID int
	var imageURL string
	err := r.DB.QueryRowContext(ctx,
		`SELECT user_id, image_url FROM posts WHERE id = $1`, postID,
	).Scan(&ownerID, &imageURL)
	if err != nil {
		return "", apperr.FromStore(err, "post not found")
	}
	if ownerID != actorID {
		return "", apperr.New(apperr.Forbidden, "not authorized to delete this post")
	}

	if _, err := r.DB.ExecContext(ctx, `DELETE FROM posts WHERE id = $1`, postID); err != nil {
		return "", apperr.FromStore(err, "post not found")
	}
	return imageURL, nil
}

// ==========================
// Toggle Like
// ==========================

// ToggleLike likes the post if the actor's like edge is absent, unlikes
// otherwise. A like records a notification to the post owner inside the same
// transaction. Returns true when the call resulted in a like.
func (r *PostRepo) ToggleLike(ctx context.Context, actorID, postID int) (bool, error) {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return false, apperr.FromStore(err, "post not found")
	}
	defer tx.Rollback()

	var ownerID int
	err = tx.QueryRowContext(ctx, `SELECT user_id FROM posts WHERE id = $1`, postID).Scan(&ownerID)
	if err != nil {
		return false, apperr.FromStore(err, "post not found")
	}

	res, err := tx.ExecContext(ctx,
		`DELETE FROM post_likes WHERE post_id = $1 AND user_id = $2`, postID, actorID,
	)
	if err != nil {
		return false, apperr.FromStore(err, "post not found")
	}
	removed, err := res.RowsAffected()
	if err != nil {
		return false, apperr.FromStore(err, "post not found")
	}

	liked := removed == 0
	if liked {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO post_likes (post_id, user_id) VALUES ($1, $2)`, postID, actorID,
		); err != nil {
			return false, apperr.FromStore(err, "post not found")
		}
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO notifications (from_user, to_user, kind) VALUES ($1, $2, $3)`,
			actorID, ownerID, models.NotificationLike,
		); err != nil {
			return false, apperr.FromStore(err, "post not found")
		}
	}

	if err := tx.Commit(); err != nil {
		return false, apperr.FromStore(err, "post not found")
	}
	return liked, nil
}

// ==========================
// Comment
// ==========================

// Comment appends a comment and returns the annotated post.
func (r *PostRepo) Comment(ctx context.Context, actorID, postID int, text string) (*models.Post, error) {
	res, err := r.DB.ExecContext(ctx, `
		INSERT INTO comments (post_id, user_id, text)
		SELECT $1, $2, $3
		WHERE EXISTS (SELECT 1 FROM posts WHERE id = $1)
	`, postID, actorID, text)
	if err != nil {
		return nil, apperr.FromStore(err, "post not found")
	}
	inserted, err := res.RowsAffected()
	if err != nil {
		return nil, apperr.FromStore(err, "post not found")
	}
	if inserted == 0 {
		return nil, apperr.New(apperr.NotFound, "post not found")
	}

	return r.GetByID(ctx, postID)
}

// ==========================
// Feeds
// ==========================

// All returns every post, newest first.
func (r *PostRepo) All(ctx context.Context) ([]models.Post, error) {
	return r.queryPosts(ctx, postSelect+feedOrder)
}

// FollowingFeed returns posts authored by users the actor follows, newest
// first. An empty following set yields an empty feed.
func (r *PostRepo) FollowingFeed(ctx context.Context, actorID int) ([]models.Post, error) {
	query := postSelect + `
	WHERE p.user_id IN (SELECT followee_id FROM follows WHERE follower_id = $1)` + feedOrder
	return r.queryPosts(ctx, query, actorID)
}

// ByAuthor returns the given user's posts, newest first.
func (r *PostRepo) ByAuthor(ctx context.Context, userID int) ([]models.Post, error) {
	return r.queryPosts(ctx, postSelect+` WHERE p.user_id = $1`+feedOrder, userID)
}

// LikedBy returns the posts the given user has liked. Order follows the
// store's default.
func (r *PostRepo) LikedBy(ctx context.Context, userID int) ([]models.Post, error) {
	query := postSelect + `
	WHERE p.id IN (SELECT post_id FROM post_likes WHERE user_id = $1)`
	return r.queryPosts(ctx, query, userID)
}

// ==========================
// Assembly
// ==========================

// queryPosts runs a post query and annotates the result set with likes and
// comments in two follow-up queries over the collected post ids.
func (r *PostRepo) queryPosts(ctx context.Context, query string, args ...interface{}) ([]models.Post, error) {
	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, apperr.FromStore(err, "post not found")
	}
	defer rows.Close()

	posts := []models.Post{}
	index := map[int]int{} // post id -> slice position
	ids := pq.Int64Array{}
	for rows.Next() {
		var p models.Post
		if err := rows.Scan(
			&p.ID, &p.Text, &p.Image, &p.CreatedAt,
			&p.User.ID, &p.User.FullName, &p.User.Username, &p.User.ProfileImage,
		); err != nil {
			return nil, apperr.FromStore(err, "post not found")
		}
		p.Likes = []int{}
		p.Comments = []models.Comment{}
		index[p.ID] = len(posts)
		ids = append(ids, int64(p.ID))
		posts = append(posts, p)
	}
	if err := rows.Err(); err != nil {
		return nil, apperr.FromStore(err, "post not found")
	}
	if len(posts) == 0 {
		return posts, nil
	}

	if err := r.fillLikes(ctx, posts, index, ids); err != nil {
		return nil, err
	}
	if err := r.fillComments(ctx, posts, index, ids); err != nil {
		return nil, err
	}
	return posts, nil
}

func (r *PostRepo) fillLikes(ctx context.Context, posts []models.Post, index map[int]int, ids pq.Int64Array) error {
	rows, err := r.DB.QueryContext(ctx, `
		SELECT post_id, user_id
		FROM post_likes
		WHERE post_id = ANY($1)
		ORDER BY created_at, user_id
	`, ids)
	if err != nil {
		return apperr.FromStore(err, "post not found")
	}
	defer rows.Close()

	for rows.Next() {
		var postID, userID int
		if err := rows.Scan(&postID, &userID); err != nil {
			return apperr.FromStore(err, "post not found")
		}
		if i, ok := index[postID]; ok {
			posts[i].Likes = append(posts[i].Likes, userID)
		}
	}
	return apperr.FromStore(rows.Err(), "post not found")
}

func (r *PostRepo) fillComments(ctx context.Context, posts []models.Post, index map[int]int, ids pq.Int64Array) error {
	rows, err := r.DB.QueryContext(ctx, `
		SELECT c.id, c.post_id, c.text, c.created_at,
			u.id, u.full_name, u.username, u.profile_image
		FROM comments c
		JOIN users u ON u.id = c.user_id
		WHERE c.post_id = ANY($1)
		ORDER BY c.created_at, c.id
	`, ids)
	if err != nil {
		return apperr.FromStore(err, "post not found")
	}
	defer rows.Close()

	for rows.Next() {
		var c models.Comment
		var postID int
		if err := rows.Scan(
			&c.ID, &postID, &c.Text, &c.CreatedAt,
			&c.User.ID, &c.User.FullName, &c.User.Username, &c.User.ProfileImage,
		); err != nil {
			return apperr.FromStore(err, "post not found")
		}
		if i, ok := index[postID]; ok {
			posts[i].Comments = append(posts[i].Comments, c)
		}
	}
	return apperr.FromStore(rows.Err(), "post not found")
}
