package service

import (
	"context"
	"fmt"
	"math/rand"
	"strconv"
	"time"

	"github.com/google/uuid"

	"nearbyserve/pkg/logger"
	"nearbyserve/pkg/models"
	"nearbyserve/storage"
)

// CreateRequestInput is what a donor submits to start a delivery.
type CreateRequestInput struct {
	RecipientID    string
	DonorName      string
	DonorPhone     string
	Items          string
	PickupAddress  string
	PickupLocation *models.GeoPoint
	ServiceFee     int
	Mode           models.FulfillmentMode
}

// DonorHistory is a donor's requests split at the delivered boundary.
type DonorHistory struct {
	Active []*models.DeliveryRequest
	Past   []*models.DeliveryRequest
}

// RequestService is the delivery request lifecycle engine. It is the only
// mutator of DeliveryRequest.Status; transitions move strictly forward
// through pending -> accepted -> picked_up -> delivered -> paid.
type RequestService interface {
	Create(ctx context.Context, input CreateRequestInput) (*models.DeliveryRequest, error)
	Accept(ctx context.Context, requestID, volunteerID, volunteerName string) (*models.DeliveryRequest, error)
	VerifyPickup(ctx context.Context, requestID, otp string) (*models.DeliveryRequest, error)
	SubmitProof(ctx context.Context, requestID, proofURL string, proofType models.ProofType) (*models.DeliveryRequest, error)
	ApprovePayout(ctx context.Context, requestID string) (*models.DeliveryRequest, error)

	GetByID(ctx context.Context, requestID string) (*models.DeliveryRequest, error)
	Pending(ctx context.Context) ([]*models.DeliveryRequest, error)
	ActiveTasks(ctx context.Context, volunteerID string) ([]*models.DeliveryRequest, error)
	DonorHistory(ctx context.Context, donorName string) (*DonorHistory, error)
	PayoutQueue(ctx context.Context) ([]*models.DeliveryRequest, error)
}

type requestService struct {
	requests     storage.IRequestStorage
	recipients   storage.IRecipientStorage
	recipientTTL time.Duration
	log          logger.ILogger
	now          func() time.Time
}

func NewRequestService(stg storage.IStorage, log logger.ILogger, recipientTTL time.Duration) RequestService {
	return &requestService{
		requests:     stg.Request(),
		recipients:   stg.Recipient(),
		recipientTTL: recipientTTL,
		log:          log,
		now:          time.Now,
	}
}

func (s *requestService) Create(ctx context.Context, input CreateRequestInput) (*models.DeliveryRequest, error) {
	if input.DonorName == "" || input.Items == "" {
		return nil, fmt.Errorf("donor name and items are required: %w", models.ErrValidation)
	}
	if input.ServiceFee < 0 {
		return nil, fmt.Errorf("service fee must not be negative: %w", models.ErrValidation)
	}
	if input.Mode != models.ModeSelf && input.Mode != models.ModeVolunteer {
		return nil, fmt.Errorf("unknown fulfillment mode %q: %w", input.Mode, models.ErrValidation)
	}

	rec, err := s.recipients.GetByID(ctx, input.RecipientID)
	if err != nil {
		return nil, err
	}

	now := s.now()
	if rec.Status != models.RecipientActive || rec.Stale(now, s.recipientTTL) {
		return nil, fmt.Errorf("recipient %s is not donatable: %w", input.RecipientID, models.ErrNotFound)
	}

	req := &models.DeliveryRequest{
		ID:             uuid.NewString(),
		RecipientID:    rec.ID,
		RecipientName:  rec.Name,
		DonorName:      input.DonorName,
		DonorPhone:     input.DonorPhone,
		Items:          input.Items,
		PickupAddress:  input.PickupAddress,
		PickupLocation: input.PickupLocation,
		ServiceFee:     input.ServiceFee,
		Status:         models.StatusPending,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if input.Mode == models.ModeVolunteer {
		req.PickupOtp = generateOtp()
	}

	created, err := s.requests.Create(ctx, req)
	if err != nil {
		return nil, err
	}

	s.log.Info("delivery request created",
		logger.String("id", created.ID),
		logger.String("recipient", created.RecipientName),
	)
	return created, nil
}

func (s *requestService) Accept(ctx context.Context, requestID, volunteerID, volunteerName string) (*models.DeliveryRequest, error) {
	if volunteerID == "" {
		return nil, fmt.Errorf("volunteer id is required: %w", models.ErrValidation)
	}

	// The store enforces the pending precondition atomically, so a racing
	// second accept loses with ErrInvalidState instead of overwriting.
	if err := s.requests.Accept(ctx, requestID, volunteerID, volunteerName, s.now()); err != nil {
		return nil, err
	}

	s.log.Info("request accepted",
		logger.String("id", requestID),
		logger.String("volunteer", volunteerID),
	)
	return s.requests.GetByID(ctx, requestID)
}

func (s *requestService) VerifyPickup(ctx context.Context, requestID, otp string) (*models.DeliveryRequest, error) {
	req, err := s.requests.GetByID(ctx, requestID)
	if err != nil {
		return nil, err
	}
	if req.Status != models.StatusAccepted {
		return nil, fmt.Errorf("verify pickup for request %s in status %s: %w", requestID, req.Status, models.ErrInvalidState)
	}
	if req.PickupOtp == "" || otp != req.PickupOtp {
		return nil, fmt.Errorf("request %s: %w", requestID, models.ErrOTPMismatch)
	}

	err = s.requests.AdvanceStatus(ctx, requestID, models.StatusAccepted, models.StatusPickedUp,
		models.RequestPatch{UpdatedAt: s.now()})
	if err != nil {
		return nil, err
	}

	s.log.Info("pickup verified", logger.String("id", requestID))
	return s.requests.GetByID(ctx, requestID)
}

func (s *requestService) SubmitProof(ctx context.Context, requestID, proofURL string, proofType models.ProofType) (*models.DeliveryRequest, error) {
	if proofURL == "" {
		return nil, fmt.Errorf("proof url is required: %w", models.ErrValidation)
	}
	if proofType != models.ProofImage && proofType != models.ProofVideo {
		return nil, fmt.Errorf("unknown proof type %q: %w", proofType, models.ErrValidation)
	}

	err := s.requests.AdvanceStatus(ctx, requestID, models.StatusPickedUp, models.StatusDelivered,
		models.RequestPatch{
			ProofURL:  &proofURL,
			ProofType: &proofType,
			UpdatedAt: s.now(),
		})
	if err != nil {
		return nil, err
	}

	s.log.Info("delivery proof submitted", logger.String("id", requestID))
	return s.requests.GetByID(ctx, requestID)
}

func (s *requestService) ApprovePayout(ctx context.Context, requestID string) (*models.DeliveryRequest, error) {
	err := s.requests.AdvanceStatus(ctx, requestID, models.StatusDelivered, models.StatusPaid,
		models.RequestPatch{UpdatedAt: s.now()})
	if err != nil {
		return nil, err
	}

	s.log.Info("payout approved", logger.String("id", requestID))
	return s.requests.GetByID(ctx, requestID)
}

func (s *requestService) GetByID(ctx context.Context, requestID string) (*models.DeliveryRequest, error) {
	return s.requests.GetByID(ctx, requestID)
}

func (s *requestService) Pending(ctx context.Context) ([]*models.DeliveryRequest, error) {
	return s.requests.GetByStatus(ctx, models.StatusPending)
}

func (s *requestService) ActiveTasks(ctx context.Context, volunteerID string) ([]*models.DeliveryRequest, error) {
	all, err := s.requests.GetByVolunteer(ctx, volunteerID)
	if err != nil {
		return nil, err
	}
	var active []*models.DeliveryRequest
	for _, req := range all {
		if req.Status != models.StatusDelivered && req.Status != models.StatusPaid {
			active = append(active, req)
		}
	}
	return active, nil
}

func (s *requestService) DonorHistory(ctx context.Context, donorName string) (*DonorHistory, error) {
	all, err := s.requests.GetByDonor(ctx, donorName)
	if err != nil {
		return nil, err
	}
	history := &DonorHistory{}
	for _, req := range all {
		if req.Status == models.StatusDelivered || req.Status == models.StatusPaid {
			history.Past = append(history.Past, req)
		} else {
			history.Active = append(history.Active, req)
		}
	}
	return history, nil
}

func (s *requestService) PayoutQueue(ctx context.Context) ([]*models.DeliveryRequest, error) {
	return s.requests.GetByStatus(ctx, models.StatusDelivered)
}

// generateOtp draws a 4-digit pickup code uniformly from [1000, 9999].
func generateOtp() string {
	return strconv.Itoa(1000 + rand.Intn(9000))
}
