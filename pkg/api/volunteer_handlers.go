package api

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"nearbyserve/pkg/models"
)

func (s *Server) registerVolunteer(c *gin.Context) {
	var v models.Volunteer
	if err := c.ShouldBindJSON(&v); err != nil {
		s.fail(c, fmt.Errorf("%s: %w", err.Error(), models.ErrValidation))
		return
	}

	created, err := s.svc.Volunteer().Register(c.Request.Context(), &v)
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, created)
}

func (s *Server) listVolunteers(c *gin.Context) {
	volunteers, err := s.svc.Volunteer().List(c.Request.Context())
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, volunteers)
}

func (s *Server) volunteerTasks(c *gin.Context) {
	tasks, err := s.svc.Request().ActiveTasks(c.Request.Context(), c.Param("id"))
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, tasks)
}

func (s *Server) setVolunteerOnline(c *gin.Context) {
	var body struct {
		Online *bool `json:"online" binding:"required"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		s.fail(c, fmt.Errorf("%s: %w", err.Error(), models.ErrValidation))
		return
	}

	if err := s.svc.Volunteer().SetOnline(c.Request.Context(), c.Param("id"), *body.Online); err != nil {
		s.fail(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (s *Server) verifyVolunteer(c *gin.Context) {
	if err := s.svc.Volunteer().Verify(c.Request.Context(), c.Param("id")); err != nil {
		s.fail(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (s *Server) registerUser(c *gin.Context) {
	var body struct {
		Name  string          `json:"name" binding:"required"`
		Email string          `json:"email" binding:"required"`
		Role  models.UserRole `json:"role" binding:"required"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		s.fail(c, fmt.Errorf("%s: %w", err.Error(), models.ErrValidation))
		return
	}

	created, err := s.svc.User().Register(c.Request.Context(), body.Name, body.Email, body.Role)
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, created)
}

func (s *Server) getUser(c *gin.Context) {
	u, err := s.svc.User().GetByEmail(c.Request.Context(), c.Param("email"))
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, u)
}
