package api

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"nearbyserve/pkg/models"
)

func (s *Server) listRecipients(c *gin.Context) {
	recipients, err := s.svc.Recipient().List(c.Request.Context())
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, recipients)
}

func (s *Server) listActiveRecipients(c *gin.Context) {
	recipients, err := s.svc.Recipient().ListActive(c.Request.Context())
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, recipients)
}

func (s *Server) addRecipient(c *gin.Context) {
	var rec models.Recipient
	if err := c.ShouldBindJSON(&rec); err != nil {
		s.fail(c, fmt.Errorf("%s: %w", err.Error(), models.ErrValidation))
		return
	}

	created, err := s.svc.Recipient().Add(c.Request.Context(), &rec)
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, created)
}

func (s *Server) updateRecipient(c *gin.Context) {
	var rec models.Recipient
	if err := c.ShouldBindJSON(&rec); err != nil {
		s.fail(c, fmt.Errorf("%s: %w", err.Error(), models.ErrValidation))
		return
	}
	rec.ID = c.Param("id")

	updated, err := s.svc.Recipient().Update(c.Request.Context(), &rec)
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, updated)
}

func (s *Server) confirmRecipient(c *gin.Context) {
	var body struct {
		ReportedBy string `json:"reported_by"`
	}
	_ = c.ShouldBindJSON(&body)

	if err := s.svc.Recipient().Confirm(c.Request.Context(), c.Param("id"), body.ReportedBy); err != nil {
		s.fail(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (s *Server) deleteRecipient(c *gin.Context) {
	if err := s.svc.Recipient().Delete(c.Request.Context(), c.Param("id")); err != nil {
		s.fail(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
