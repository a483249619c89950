package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"nearbyserve/pkg/logger"
	"nearbyserve/pkg/models"
)

type userRepo struct {
	db  *pgxpool.Pool
	log logger.ILogger
}

func (r *userRepo) Create(ctx context.Context, u *models.UserProfile) (*models.UserProfile, error) {
	query := `
		INSERT INTO users (id, name, email, role, created_at)
		VALUES ($1, $2, LOWER($3), $4, $5)
	`
	_, err := r.db.Exec(ctx, query, u.ID, u.Name, u.Email, u.Role, u.CreatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return nil, fmt.Errorf("user %s: %w", u.Email, models.ErrDuplicateEmail)
		}
		r.log.Error("failed to create user", logger.Error(err))
		return nil, err
	}
	return u, nil
}

func (r *userRepo) GetByID(ctx context.Context, id string) (*models.UserProfile, error) {
	query := `SELECT id, name, email, role, created_at FROM users WHERE id = $1`

	u, err := scanUser(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, fmt.Errorf("user %s: %w", id, models.ErrNotFound)
		}
		r.log.Error("failed to get user by id", logger.String("id", id), logger.Error(err))
		return nil, err
	}
	return u, nil
}

func (r *userRepo) GetByEmail(ctx context.Context, email string) (*models.UserProfile, error) {
	query := `SELECT id, name, email, role, created_at FROM users WHERE email = LOWER($1)`

	u, err := scanUser(r.db.QueryRow(ctx, query, email))
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, fmt.Errorf("user %s: %w", email, models.ErrNotFound)
		}
		r.log.Error("failed to get user by email", logger.Error(err))
		return nil, err
	}
	return u, nil
}

func (r *userRepo) GetAll(ctx context.Context) ([]*models.UserProfile, error) {
	rows, err := r.db.Query(ctx, `SELECT id, name, email, role, created_at FROM users ORDER BY email`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var users []*models.UserProfile
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, u)
	}
	return users, rows.Err()
}

func scanUser(row pgx.Row) (*models.UserProfile, error) {
	var u models.UserProfile
	if err := row.Scan(&u.ID, &u.Name, &u.Email, &u.Role, &u.CreatedAt); err != nil {
		return nil, err
	}
	return &u, nil
}
