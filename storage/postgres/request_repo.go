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

type requestRepo struct {
	db   *pgxpool.Pool
	feed *changeFeed
	log  logger.ILogger
}

const requestColumns = `
	id, recipient_id, recipient_name, donor_name, COALESCE(donor_phone, ''),
	items, pickup_address, COALESCE(pickup_otp, ''), pickup_lat, pickup_lng,
	service_fee, status, COALESCE(volunteer_id, ''), COALESCE(volunteer_name, ''),
	COALESCE(proof_url, ''), COALESCE(proof_type, ''), created_at, updated_at
`

func (r *requestRepo) Create(ctx context.Context, req *models.DeliveryRequest) (*models.DeliveryRequest, error) {
	query := `
		INSERT INTO requests (id, recipient_id, recipient_name, donor_name, donor_phone,
			items, pickup_address, pickup_otp, pickup_lat, pickup_lng, service_fee,
			status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, NULLIF($5, ''), $6, $7, NULLIF($8, ''), $9, $10, $11, $12, $13, $14)
	`
	var lat, lng *float64
	if req.PickupLocation != nil {
		lat, lng = &req.PickupLocation.Lat, &req.PickupLocation.Lng
	}

	_, err := r.db.Exec(ctx, query,
		req.ID,
		req.RecipientID,
		req.RecipientName,
		req.DonorName,
		req.DonorPhone,
		req.Items,
		req.PickupAddress,
		req.PickupOtp,
		lat,
		lng,
		req.ServiceFee,
		req.Status,
		req.CreatedAt,
		req.UpdatedAt,
	)
	if err != nil {
		r.log.Error("failed to create request", logger.Error(err))
		return nil, err
	}

	r.feed.publish(storage.CollectionRequests)
	return req, nil
}

func (r *requestRepo) GetByID(ctx context.Context, id string) (*models.DeliveryRequest, error) {
	query := `SELECT ` + requestColumns + ` FROM requests WHERE id = $1`

	req, err := scanRequest(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, fmt.Errorf("request %s: %w", id, models.ErrNotFound)
		}
		r.log.Error("failed to get request by id", logger.String("id", id), logger.Error(err))
		return nil, err
	}
	return req, nil
}

func (r *requestRepo) GetAll(ctx context.Context) ([]*models.DeliveryRequest, error) {
	query := `SELECT ` + requestColumns + ` FROM requests ORDER BY created_at DESC`
	return r.scanRequests(ctx, query)
}

func (r *requestRepo) GetByStatus(ctx context.Context, status models.RequestStatus) ([]*models.DeliveryRequest, error) {
	query := `SELECT ` + requestColumns + ` FROM requests WHERE status = $1 ORDER BY created_at DESC`
	return r.scanRequests(ctx, query, status)
}

func (r *requestRepo) GetByVolunteer(ctx context.Context, volunteerID string) ([]*models.DeliveryRequest, error) {
	query := `SELECT ` + requestColumns + ` FROM requests WHERE volunteer_id = $1 ORDER BY created_at DESC`
	return r.scanRequests(ctx, query, volunteerID)
}

func (r *requestRepo) GetByDonor(ctx context.Context, donorName string) ([]*models.DeliveryRequest, error) {
	query := `SELECT ` + requestColumns + ` FROM requests WHERE donor_name = $1 ORDER BY created_at DESC`
	return r.scanRequests(ctx, query, donorName)
}

func (r *requestRepo) Accept(ctx context.Context, id, volunteerID, volunteerName string, at time.Time) error {
	// Conditional update: only one accept can flip pending -> accepted.
	res, err := r.db.Exec(ctx, `
		UPDATE requests
		SET status = 'accepted', volunteer_id = $1, volunteer_name = $2, updated_at = $3
		WHERE id = $4 AND status = 'pending'
	`, volunteerID, volunteerName, at, id)
	if err != nil {
		r.log.Error("failed to accept request", logger.String("id", id), logger.Error(err))
		return err
	}
	if res.RowsAffected() == 0 {
		return fmt.Errorf("accept request %s: %w", id, models.ErrInvalidState)
	}

	r.feed.publish(storage.CollectionRequests)
	return nil
}

func (r *requestRepo) AdvanceStatus(ctx context.Context, id string, from, to models.RequestStatus, patch models.RequestPatch) error {
	res, err := r.db.Exec(ctx, `
		UPDATE requests
		SET status = $1,
		    volunteer_id = COALESCE($2, volunteer_id),
		    volunteer_name = COALESCE($3, volunteer_name),
		    proof_url = COALESCE($4, proof_url),
		    proof_type = COALESCE($5, proof_type),
		    updated_at = $6
		WHERE id = $7 AND status = $8
	`, to, patch.VolunteerID, patch.VolunteerName, patch.ProofURL, patch.ProofType, patch.UpdatedAt, id, from)
	if err != nil {
		r.log.Error("failed to advance request status", logger.String("id", id), logger.Error(err))
		return err
	}
	if res.RowsAffected() == 0 {
		return fmt.Errorf("advance request %s from %s: %w", id, from, models.ErrInvalidState)
	}

	r.feed.publish(storage.CollectionRequests)
	return nil
}

func (r *requestRepo) CountDelivered(ctx context.Context, volunteerID string) (int, error) {
	var n int
	err := r.db.QueryRow(ctx, `
		SELECT COUNT(*) FROM requests
		WHERE volunteer_id = $1 AND status IN ('delivered', 'paid')
	`, volunteerID).Scan(&n)
	if err != nil {
		r.log.Error("failed to count deliveries", logger.String("volunteer_id", volunteerID), logger.Error(err))
		return 0, err
	}
	return n, nil
}

func (r *requestRepo) scanRequests(ctx context.Context, query string, args ...interface{}) ([]*models.DeliveryRequest, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var requests []*models.DeliveryRequest
	for rows.Next() {
		req, err := scanRequest(rows)
		if err != nil {
			return nil, err
		}
		requests = append(requests, req)
	}
	return requests, rows.Err()
}

func scanRequest(row pgx.Row) (*models.DeliveryRequest, error) {
	var (
		req      models.DeliveryRequest
		lat, lng *float64
	)
	err := row.Scan(
		&req.ID, &req.RecipientID, &req.RecipientName, &req.DonorName, &req.DonorPhone,
		&req.Items, &req.PickupAddress, &req.PickupOtp, &lat, &lng,
		&req.ServiceFee, &req.Status, &req.VolunteerID, &req.VolunteerName,
		&req.ProofURL, &req.ProofType, &req.CreatedAt, &req.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if lat != nil && lng != nil {
		req.PickupLocation = &models.GeoPoint{Lat: *lat, Lng: *lng}
	}
	return &req, nil
}
