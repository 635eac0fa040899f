package server

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	leaddomain "github.com/smallbiznis/homestead/internal/lead/domain"
)

type updateLeadStatusRequest struct {
	Status string `json:"status"`
}

// SubmitContact stores a contact form submission. The caller's address is
// passed through for hashing and never echoed back.
func (s *Server) SubmitContact(c *gin.Context) {
	var req leaddomain.SubmitLeadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, bindError(err))
		return
	}
	req.ClientIP = c.ClientIP()

	resp, err := s.leadSvc.Submit(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": gin.H{
		"id":     resp.ID.String(),
		"status": string(resp.Status),
	}})
}

func (s *Server) ListLeads(c *gin.Context) {
	resp, err := s.leadSvc.List(c.Request.Context(), strings.TrimSpace(c.Query("status")))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) UpdateLeadStatus(c *gin.Context) {
	id, err := pathID(c)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	var req updateLeadStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, bindError(err))
		return
	}

	resp, err := s.leadSvc.UpdateStatus(c.Request.Context(), id, req.Status)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	s.audit(c, "lead.status_update", "lead", id.String(), map[string]any{
		"status": string(resp.Status),
	})

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) DeleteLead(c *gin.Context) {
	id, err := pathID(c)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	if err := s.leadSvc.Delete(c.Request.Context(), id); err != nil {
		AbortWithError(c, err)
		return
	}

	s.audit(c, "lead.delete", "lead", id.String(), nil)

	c.Status(http.StatusNoContent)
}

func isLeadValidationError(err error) bool {
	switch err {
	case leaddomain.ErrInvalidName,
		leaddomain.ErrInvalidEmail,
		leaddomain.ErrInvalidInterest,
		leaddomain.ErrInvalidMessage,
		leaddomain.ErrInvalidStatus,
		leaddomain.ErrInvalidID:
		return true
	default:
		return false
	}
}
