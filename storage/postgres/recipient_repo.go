package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"nearbyserve/pkg/logger"
	"nearbyserve/pkg/models"
	"nearbyserve/storage"
)

type recipientRepo struct {
	db   *pgxpool.Pool
	feed *changeFeed
	log  logger.ILogger
}

const recipientColumns = `
	id, name, head_count, description, needs, lat, lng, address_label,
	COALESCE(image_url, ''), status, last_seen, COALESCE(reported_by, '')
`

func (r *recipientRepo) Create(ctx context.Context, rec *models.Recipient) (*models.Recipient, error) {
	query := `
		INSERT INTO recipients (id, name, head_count, description, needs, lat, lng,
			address_label, image_url, status, last_seen, reported_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, NULLIF($9, ''), $10, $11, NULLIF($12, ''))
	`
	_, err := r.db.Exec(ctx, query,
		rec.ID,
		rec.Name,
		rec.Count,
		rec.Description,
		rec.Needs,
		rec.Location.Lat,
		rec.Location.Lng,
		rec.AddressLabel,
		rec.ImageURL,
		rec.Status,
		rec.LastSeen,
		rec.ReportedBy,
	)
	if err != nil {
		r.log.Error("failed to create recipient", logger.Error(err))
		return nil, err
	}

	r.feed.publish(storage.CollectionRecipients)
	return rec, nil
}

func (r *recipientRepo) GetByID(ctx context.Context, id string) (*models.Recipient, error) {
	query := `SELECT ` + recipientColumns + ` FROM recipients WHERE id = $1`

	rec, err := scanRecipient(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, fmt.Errorf("recipient %s: %w", id, models.ErrNotFound)
		}
		r.log.Error("failed to get recipient by id", logger.String("id", id), logger.Error(err))
		return nil, err
	}
	return rec, nil
}

func (r *recipientRepo) GetAll(ctx context.Context) ([]*models.Recipient, error) {
	query := `SELECT ` + recipientColumns + ` FROM recipients ORDER BY last_seen DESC`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var recipients []*models.Recipient
	for rows.Next() {
		rec, err := scanRecipient(rows)
		if err != nil {
			return nil, err
		}
		recipients = append(recipients, rec)
	}
	return recipients, rows.Err()
}

func (r *recipientRepo) Update(ctx context.Context, rec *models.Recipient) (*models.Recipient, error) {
	query := `
		UPDATE recipients
		SET name = $1, head_count = $2, description = $3, needs = $4, lat = $5,
		    lng = $6, address_label = $7, image_url = NULLIF($8, ''), status = $9,
		    last_seen = $10, reported_by = NULLIF($11, '')
		WHERE id = $12
	`
	res, err := r.db.Exec(ctx, query,
		rec.Name,
		rec.Count,
		rec.Description,
		rec.Needs,
		rec.Location.Lat,
		rec.Location.Lng,
		rec.AddressLabel,
		rec.ImageURL,
		rec.Status,
		rec.LastSeen,
		rec.ReportedBy,
		rec.ID,
	)
	if err != nil {
		r.log.Error("failed to update recipient", logger.String("id", rec.ID), logger.Error(err))
		return nil, err
	}
	if res.RowsAffected() == 0 {
		return nil, fmt.Errorf("recipient %s: %w", rec.ID, models.ErrNotFound)
	}

	r.feed.publish(storage.CollectionRecipients)
	return rec, nil
}

func (r *recipientRepo) UpdateLastSeen(ctx context.Context, id string, seen time.Time, reportedBy string) error {
	res, err := r.db.Exec(ctx, `
		UPDATE recipients
		SET last_seen = $1, reported_by = COALESCE(NULLIF($2, ''), reported_by)
		WHERE id = $3
	`, seen, reportedBy, id)
	if err != nil {
		r.log.Error("failed to update recipient last_seen", logger.String("id", id), logger.Error(err))
		return err
	}
	if res.RowsAffected() == 0 {
		return fmt.Errorf("recipient %s: %w", id, models.ErrNotFound)
	}

	r.feed.publish(storage.CollectionRecipients)
	return nil
}

func (r *recipientRepo) Delete(ctx context.Context, id string) error {
	// Historical requests keep their recipient_id and name snapshot.
	res, err := r.db.Exec(ctx, `DELETE FROM recipients WHERE id = $1`, id)
	if err != nil {
		r.log.Error("failed to delete recipient", logger.String("id", id), logger.Error(err))
		return err
	}
	if res.RowsAffected() == 0 {
		return fmt.Errorf("recipient %s: %w", id, models.ErrNotFound)
	}

	r.feed.publish(storage.CollectionRecipients)
	return nil
}

func scanRecipient(row pgx.Row) (*models.Recipient, error) {
	var rec models.Recipient
	err := row.Scan(
		&rec.ID, &rec.Name, &rec.Count, &rec.Description, &rec.Needs,
		&rec.Location.Lat, &rec.Location.Lng, &rec.AddressLabel,
		&rec.ImageURL, &rec.Status, &rec.LastSeen, &rec.ReportedBy,
	)
	if err != nil {
		return nil, err
	}
	return &rec, nil
}
