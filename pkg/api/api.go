package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"nearbyserve/pkg/logger"
	"nearbyserve/pkg/models"
	"nearbyserve/service"
)

type Server struct {
	svc service.IServiceManager
	log logger.ILogger
}

func New(svc service.IServiceManager, log logger.ILogger) *Server {
	return &Server{svc: svc, log: log}
}

func (s *Server) Run(port int) error {
	return s.router().Run(fmt.Sprintf(":%d", port))
}

func (s *Server) router() *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(gin.Recovery())

	// CORS
	r.Use(func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}
		c.Next()
	})

	s.routes(r)
	return r
}

func (s *Server) routes(r *gin.Engine) {
	api := r.Group("/api")
	{
		api.GET("/recipients", s.listRecipients)
		api.GET("/recipients/active", s.listActiveRecipients)
		api.POST("/recipients", s.addRecipient)
		api.PUT("/recipients/:id", s.updateRecipient)
		api.POST("/recipients/:id/confirm", s.confirmRecipient)
		api.DELETE("/recipients/:id", s.deleteRecipient)

		api.POST("/requests", s.createRequest)
		api.GET("/requests/pending", s.pendingRequests)
		api.GET("/requests/payouts", s.payoutQueue)
		api.GET("/requests/:id", s.getRequest)
		api.POST("/requests/:id/accept", s.acceptRequest)
		api.POST("/requests/:id/pickup", s.verifyPickup)
		api.POST("/requests/:id/proof", s.submitProof)
		api.POST("/requests/:id/payout", s.approvePayout)

		api.POST("/volunteers", s.registerVolunteer)
		api.GET("/volunteers", s.listVolunteers)
		api.GET("/volunteers/:id/tasks", s.volunteerTasks)
		api.POST("/volunteers/:id/online", s.setVolunteerOnline)
		api.POST("/volunteers/:id/verify", s.verifyVolunteer)

		api.POST("/users", s.registerUser)
		api.GET("/users/:email", s.getUser)
		api.GET("/donors/:name/history", s.donorHistory)
	}
}

// fail maps the error taxonomy onto HTTP statuses. Nothing here is fatal
// to the process; every failure becomes a JSON body.
func (s *Server) fail(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, models.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, models.ErrInvalidState):
		status = http.StatusConflict
	case errors.Is(err, models.ErrDuplicateEmail):
		status = http.StatusConflict
	case errors.Is(err, models.ErrOTPMismatch):
		status = http.StatusForbidden
	case errors.Is(err, models.ErrValidation):
		status = http.StatusBadRequest
	default:
		s.log.Error("request failed", logger.String("path", c.FullPath()), logger.Error(err))
	}
	c.JSON(status, gin.H{"error": err.Error()})
}
