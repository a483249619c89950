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
	"nearbyserve/storage"
)

type volunteerRepo struct {
	db   *pgxpool.Pool
	feed *changeFeed
	log  logger.ILogger
}

const volunteerColumns = `
	id, name, email, verified, COALESCE(phone, ''), lat, lng, is_online, COALESCE(chat_id, 0)
`

func (r *volunteerRepo) Create(ctx context.Context, v *models.Volunteer) (*models.Volunteer, error) {
	query := `
		INSERT INTO volunteers (id, name, email, verified, phone, lat, lng, is_online, chat_id)
		VALUES ($1, $2, LOWER($3), $4, NULLIF($5, ''), $6, $7, $8, NULLIF($9, 0))
	`
	var lat, lng *float64
	if v.Location != nil {
		lat, lng = &v.Location.Lat, &v.Location.Lng
	}

	_, err := r.db.Exec(ctx, query,
		v.ID, v.Name, v.Email, v.Verified, v.Phone, lat, lng, v.IsOnline, v.ChatID,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return nil, fmt.Errorf("volunteer %s: %w", v.Email, models.ErrDuplicateEmail)
		}
		r.log.Error("failed to create volunteer", logger.Error(err))
		return nil, err
	}

	r.feed.publish(storage.CollectionVolunteers)
	return v, nil
}

func (r *volunteerRepo) GetByID(ctx context.Context, id string) (*models.Volunteer, error) {
	query := `SELECT ` + volunteerColumns + ` FROM volunteers WHERE id = $1`

	v, err := scanVolunteer(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, fmt.Errorf("volunteer %s: %w", id, models.ErrNotFound)
		}
		r.log.Error("failed to get volunteer by id", logger.String("id", id), logger.Error(err))
		return nil, err
	}
	return v, nil
}

func (r *volunteerRepo) GetByEmail(ctx context.Context, email string) (*models.Volunteer, error) {
	query := `SELECT ` + volunteerColumns + ` FROM volunteers WHERE email = LOWER($1)`

	v, err := scanVolunteer(r.db.QueryRow(ctx, query, email))
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, fmt.Errorf("volunteer %s: %w", email, models.ErrNotFound)
		}
		r.log.Error("failed to get volunteer by email", logger.Error(err))
		return nil, err
	}
	return v, nil
}

func (r *volunteerRepo) GetAll(ctx context.Context) ([]*models.Volunteer, error) {
	query := `SELECT ` + volunteerColumns + ` FROM volunteers ORDER BY name`
	return r.scanVolunteers(ctx, query)
}

func (r *volunteerRepo) GetOnline(ctx context.Context) ([]*models.Volunteer, error) {
	query := `SELECT ` + volunteerColumns + ` FROM volunteers WHERE is_online ORDER BY name`
	return r.scanVolunteers(ctx, query)
}

func (r *volunteerRepo) SetOnline(ctx context.Context, id string, online bool) error {
	return r.patch(ctx, id, `UPDATE volunteers SET is_online = $1 WHERE id = $2`, online)
}

func (r *volunteerRepo) SetVerified(ctx context.Context, id string, verified bool) error {
	return r.patch(ctx, id, `UPDATE volunteers SET verified = $1 WHERE id = $2`, verified)
}

func (r *volunteerRepo) patch(ctx context.Context, id, query string, value bool) error {
	res, err := r.db.Exec(ctx, query, value, id)
	if err != nil {
		r.log.Error("failed to update volunteer", logger.String("id", id), logger.Error(err))
		return err
	}
	if res.RowsAffected() == 0 {
		return fmt.Errorf("volunteer %s: %w", id, models.ErrNotFound)
	}

	r.feed.publish(storage.CollectionVolunteers)
	return nil
}

func (r *volunteerRepo) Delete(ctx context.Context, id string) error {
	res, err := r.db.Exec(ctx, `DELETE FROM volunteers WHERE id = $1`, id)
	if err != nil {
		r.log.Error("failed to delete volunteer", logger.String("id", id), logger.Error(err))
		return err
	}
	if res.RowsAffected() == 0 {
		return fmt.Errorf("volunteer %s: %w", id, models.ErrNotFound)
	}

	r.feed.publish(storage.CollectionVolunteers)
	return nil
}

func (r *volunteerRepo) scanVolunteers(ctx context.Context, query string, args ...interface{}) ([]*models.Volunteer, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var volunteers []*models.Volunteer
	for rows.Next() {
		v, err := scanVolunteer(rows)
		if err != nil {
			return nil, err
		}
		volunteers = append(volunteers, v)
	}
	return volunteers, rows.Err()
}

func scanVolunteer(row pgx.Row) (*models.Volunteer, error) {
	var (
		v        models.Volunteer
		lat, lng *float64
	)
	err := row.Scan(&v.ID, &v.Name, &v.Email, &v.Verified, &v.Phone, &lat, &lng, &v.IsOnline, &v.ChatID)
	if err != nil {
		return nil, err
	}
	if lat != nil && lng != nil {
		v.Location = &models.GeoPoint{Lat: *lat, Lng: *lng}
	}
	return &v, nil
}
