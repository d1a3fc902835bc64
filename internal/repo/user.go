package repo

import (
	"context"
	"database/sql"

	"github.com/Kushal-np/SocialMedia/internal/apperr"
	"github.com/Kushal-np/SocialMedia/internal/models"
	"github.com/lib/pq"
)

// ==========================
// UserRepo
// ==========================
type UserRepo struct {
	DB *sql.DB
}

func NewUserRepo(db *sql.DB) *UserRepo {
	return &UserRepo{DB: db}
}

const userColumns = `id, full_name, username, email, password_hash, bio, link, profile_image, cover_image, created_at`

// userWithEdges selects a user row plus its follower/following id sets.
// The edges live in the follows table; the arrays here are read-time views.
const userWithEdges = `
	SELECT ` + userColumns + `,
		COALESCE(ARRAY(SELECT follower_id FROM follows WHERE followee_id = users.id), '{}'),
		COALESCE(ARRAY(SELECT followee_id FROM follows WHERE follower_id = users.id), '{}')
	FROM users
`

func scanUser(row *sql.Row) (*models.User, error) {
	user := &models.User{}
	var followers, following pq.Int64Array
	err := row.Scan(
		&user.ID, &user.FullName, &user.Username, &user.Email, &user.PasswordHash,
		&user.Bio, &user.Link, &user.ProfileImage, &user.CoverImage, &user.CreatedAt,
		&followers, &following,
	)
	if err != nil {
		return nil, err
	}
	user.Followers = toIntSlice(followers)
	user.Following = toIntSlice(following)
	return user, nil
}

func toIntSlice(a pq.Int64Array) []int {
	out := make([]int, len(a))
	for i, v := range a {
		out[i] = int(v)
	}
	return out
}

// ==========================
// Create User
// ==========================
func (r *UserRepo) Create(ctx context.Context, fullName, username, email, passwordHash string) (*models.User, error) {
	query := `
		INSERT INTO users (full_name, username, email, password_hash)
		VALUES ($1, $2, $3, $4)
		RETURNING ` + userColumns + `
	`

	user := &models.User{}
	err := r.DB.QueryRowContext(ctx, query, fullName, username, email, passwordHash).Scan(
		&user.ID, &user.FullName, &user.Username, &user.Email, &user.PasswordHash,
		&user.Bio, &user.Link, &user.ProfileImage, &user.CoverImage, &user.CreatedAt,
	)
	if err != nil {
		return nil, apperr.FromStore(err, "user not found")
	}

	user.Followers = []int{}
	user.Following = []int{}
	return user, nil
}

// ==========================
// Get By ID
// ==========================
func (r *UserRepo) GetByID(ctx context.Context, id int) (*models.User, error) {
	row := r.DB.QueryRowContext(ctx, userWithEdges+`WHERE users.id = $1`, id)
	user, err := scanUser(row)
	if err != nil {
		return nil, apperr.FromStore(err, "user not found")
	}
	return user, nil
}

// ==========================
// Get By Username
// ==========================
func (r *UserRepo) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	row := r.DB.QueryRowContext(ctx, userWithEdges+`WHERE users.username = $1`, username)
	user, err := scanUser(row)
	if err != nil {
		return nil, apperr.FromStore(err, "user not found")
	}
	return user, nil
}

// ==========================
// Suggested Users
// ==========================

// Suggested returns up to limit random users the actor does not already
// follow, excluding the actor. Edge sets are not loaded.
func (r *UserRepo) Suggested(ctx context.Context, actorID, limit int) ([]models.User, error) {
	query := `
		SELECT ` + userColumns + `
		FROM users
		WHERE id <> $1
		  AND NOT EXISTS (
			SELECT 1 FROM follows WHERE follower_id = $1 AND followee_id = users.id
		  )
		ORDER BY random()
		LIMIT $2
	`

	rows, err := r.DB.QueryContext(ctx, query, actorID, limit)
	if err != nil {
		return nil, apperr.FromStore(err, "user not found")
	}
	defer rows.Close()

	users := []models.User{}
	for rows.Next() {
		var u models.User
		if err := rows.Scan(
			&u.ID, &u.FullName, &u.Username, &u.Email, &u.PasswordHash,
			&u.Bio, &u.Link, &u.ProfileImage, &u.CoverImage, &u.CreatedAt,
		); err != nil {
			return nil, apperr.FromStore(err, "user not found")
		}
		u.PasswordHash = ""
		users = append(users, u)
	}
	if err := rows.Err(); err != nil {
		return nil, apperr.FromStore(err, "user not found")
	}

	return users, nil
}

// ==========================
// Update Profile
// ==========================

// ProfileUpdate carries the fields a user may change. Nil pointers leave the
// stored value untouched.
type ProfileUpdate struct {
	FullName     *string
	Email        *string
	Username     *string
	Bio          *string
	Link         *string
	ProfileImage *string
	CoverImage   *string
	PasswordHash *string
}

func (r *UserRepo) UpdateProfile(ctx context.Context, id int, upd ProfileUpdate) (*models.User, error) {
	query := `
		UPDATE users SET
			full_name     = COALESCE($2, full_name),
			email         = COALESCE($3, email),
			username      = COALESCE($4, username),
			bio           = COALESCE($5, bio),
			link          = COALESCE($6, link),
			profile_image = COALESCE($7, profile_image),
			cover_image   = COALESCE($8, cover_image),
			password_hash = COALESCE($9, password_hash)
		WHERE id = $1
		RETURNING ` + userColumns + `
	`

	user := &models.User{}
	err := r.DB.QueryRowContext(ctx, query, id,
		upd.FullName, upd.Email, upd.Username, upd.Bio, upd.Link,
		upd.ProfileImage, upd.CoverImage, upd.PasswordHash,
	).Scan(
		&user.ID, &user.FullName, &user.Username, &user.Email, &user.PasswordHash,
		&user.Bio, &user.Link, &user.ProfileImage, &user.CoverImage, &user.CreatedAt,
	)
	if err != nil {
		return nil, apperr.FromStore(err, "user not found")
	}

	return user, nil
}
