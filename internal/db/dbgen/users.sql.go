package dbgen

import (
	"context"
	"database/sql"
)

const createUser = `-- name: CreateUser :one
INSERT INTO users (email, display_name, role, password_hash, clerk_user_id)
VALUES (?, ?, ?, ?, ?)
RETURNING id, email, display_name, role, password_hash, clerk_user_id, created_at
`

type CreateUserParams struct {
	Email        string         `json:"email"`
	DisplayName  string         `json:"displayName"`
	Role         string         `json:"role"`
	PasswordHash sql.NullString `json:"-"`
	ClerkUserID  sql.NullString `json:"-"`
}

func (q *Queries) CreateUser(ctx context.Context, arg CreateUserParams) (User, error) {
	row := q.db.QueryRowContext(ctx, createUser,
		arg.Email,
		arg.DisplayName,
		arg.Role,
		arg.PasswordHash,
		arg.ClerkUserID,
	)
	return scanUser(row)
}

const getUser = `-- name: GetUser :one
SELECT id, email, display_name, role, password_hash, clerk_user_id, created_at FROM users
WHERE id = ?
`

func (q *Queries) GetUser(ctx context.Context, id int64) (User, error) {
	row := q.db.QueryRowContext(ctx, getUser, id)
	return scanUser(row)
}

const getUserByEmail = `-- name: GetUserByEmail :one
SELECT id, email, display_name, role, password_hash, clerk_user_id, created_at FROM users
WHERE email = ?
`

func (q *Queries) GetUserByEmail(ctx context.Context, email string) (User, error) {
	row := q.db.QueryRowContext(ctx, getUserByEmail, email)
	return scanUser(row)
}

const getUserByClerkID = `-- name: GetUserByClerkID :one
SELECT id, email, display_name, role, password_hash, clerk_user_id, created_at FROM users
WHERE clerk_user_id = ?
`

func (q *Queries) GetUserByClerkID(ctx context.Context, clerkUserID sql.NullString) (User, error) {
	row := q.db.QueryRowContext(ctx, getUserByClerkID, clerkUserID)
	return scanUser(row)
}

const linkClerkUser = `-- name: LinkClerkUser :exec
UPDATE users
SET clerk_user_id = ?
WHERE id = ?
`

type LinkClerkUserParams struct {
	ClerkUserID sql.NullString `json:"-"`
	ID          int64          `json:"id"`
}

func (q *Queries) LinkClerkUser(ctx context.Context, arg LinkClerkUserParams) error {
	_, err := q.db.ExecContext(ctx, linkClerkUser, arg.ClerkUserID, arg.ID)
	return err
}

func scanUser(row rowScanner) (User, error) {
	var i User
	err := row.Scan(
		&i.ID,
		&i.Email,
		&i.DisplayName,
		&i.Role,
		&i.PasswordHash,
		&i.ClerkUserID,
		&i.CreatedAt,
	)
	return i, err
}
