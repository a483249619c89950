package api

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"nearbyserve/pkg/models"
	"nearbyserve/service"
)

type createRequestBody struct {
	RecipientID    string                 `json:"recipient_id" binding:"required"`
	DonorName      string                 `json:"donor_name" binding:"required"`
	DonorPhone     string                 `json:"donor_phone"`
	Items          string                 `json:"items" binding:"required"`
	PickupAddress  string                 `json:"pickup_address"`
	PickupLocation *models.GeoPoint       `json:"pickup_location"`
	ServiceFee     int                    `json:"service_fee"`
	Mode           models.FulfillmentMode `json:"mode" binding:"required"`
}

func (s *Server) createRequest(c *gin.Context) {
	var body createRequestBody
	if err := c.ShouldBindJSON(&body); err != nil {
		s.fail(c, fmt.Errorf("%s: %w", err.Error(), models.ErrValidation))
		return
	}

	req, err := s.svc.Request().Create(c.Request.Context(), service.CreateRequestInput{
		RecipientID:    body.RecipientID,
		DonorName:      body.DonorName,
		DonorPhone:     body.DonorPhone,
		Items:          body.Items,
		PickupAddress:  body.PickupAddress,
		PickupLocation: body.PickupLocation,
		ServiceFee:     body.ServiceFee,
		Mode:           body.Mode,
	})
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, req)
}

func (s *Server) getRequest(c *gin.Context) {
	req, err := s.svc.Request().GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, req)
}

func (s *Server) pendingRequests(c *gin.Context) {
	requests, err := s.svc.Request().Pending(c.Request.Context())
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, requests)
}

func (s *Server) payoutQueue(c *gin.Context) {
	requests, err := s.svc.Request().PayoutQueue(c.Request.Context())
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, requests)
}

func (s *Server) acceptRequest(c *gin.Context) {
	var body struct {
		VolunteerID   string `json:"volunteer_id" binding:"required"`
		VolunteerName string `json:"volunteer_name"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		s.fail(c, fmt.Errorf("%s: %w", err.Error(), models.ErrValidation))
		return
	}

	req, err := s.svc.Request().Accept(c.Request.Context(), c.Param("id"), body.VolunteerID, body.VolunteerName)
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, req)
}

func (s *Server) verifyPickup(c *gin.Context) {
	var body struct {
		Otp string `json:"otp" binding:"required"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		s.fail(c, fmt.Errorf("%s: %w", err.Error(), models.ErrValidation))
		return
	}

	req, err := s.svc.Request().VerifyPickup(c.Request.Context(), c.Param("id"), body.Otp)
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, req)
}

func (s *Server) submitProof(c *gin.Context) {
	var body struct {
		ProofURL  string           `json:"proof_url" binding:"required"`
		ProofType models.ProofType `json:"proof_type" binding:"required"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		s.fail(c, fmt.Errorf("%s: %w", err.Error(), models.ErrValidation))
		return
	}

	req, err := s.svc.Request().SubmitProof(c.Request.Context(), c.Param("id"), body.ProofURL, body.ProofType)
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, req)
}

func (s *Server) approvePayout(c *gin.Context) {
	req, err := s.svc.Request().ApprovePayout(c.Request.Context(), c.Param("id"))
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, req)
}

func (s *Server) donorHistory(c *gin.Context) {
	history, err := s.svc.Request().DonorHistory(c.Request.Context(), c.Param("name"))
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, history)
}
