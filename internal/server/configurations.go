package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
	configurationdomain "github.com/smallbiznis/homestead/internal/configuration/domain"
)

type updateConfigurationStatusRequest struct {
	Status string `json:"status"`
}

type submitConfigurationResponse struct {
	ID     string                     `json:"id"`
	Status configurationdomain.Status `json:"status"`
}

// SubmitConfiguration records a customer's option choices from the public
// wizard.
func (s *Server) SubmitConfiguration(c *gin.Context) {
	var req configurationdomain.CreateConfigurationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, bindError(err))
		return
	}
	req.Status = ""

	resp, err := s.configurationSvc.Submit(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": submitConfigurationResponse{
		ID:     resp.ID.String(),
		Status: resp.Status,
	}})
}

func (s *Server) ListConfigurations(c *gin.Context) {
	resp, err := s.configurationSvc.List(c.Request.Context())
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": configurationViews(resp)})
}

func (s *Server) GetConfiguration(c *gin.Context) {
	id, err := pathID(c)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	resp, err := s.configurationSvc.Get(c.Request.Context(), id)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp.View()})
}

func (s *Server) CreateConfiguration(c *gin.Context) {
	var req configurationdomain.CreateConfigurationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, bindError(err))
		return
	}

	resp, err := s.configurationSvc.Create(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	s.audit(c, "configuration.create", "configuration", resp.ID.String(), map[string]any{
		"plan_id":        resp.PlanID.String(),
		"customer_email": resp.CustomerEmail,
		"status":         string(resp.Status),
		"selections":     len(resp.Selections),
	})

	c.JSON(http.StatusOK, gin.H{"data": resp.View()})
}

func (s *Server) UpdateConfigurationStatus(c *gin.Context) {
	id, err := pathID(c)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	var req updateConfigurationStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, bindError(err))
		return
	}

	resp, err := s.configurationSvc.UpdateStatus(c.Request.Context(), id, req.Status)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	s.audit(c, "configuration.update_status", "configuration", id.String(), map[string]any{
		"status": string(resp.Status),
	})

	c.JSON(http.StatusOK, gin.H{"data": resp.View()})
}

func (s *Server) DeleteConfiguration(c *gin.Context) {
	id, err := pathID(c)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	if err := s.configurationSvc.Delete(c.Request.Context(), id); err != nil {
		AbortWithError(c, err)
		return
	}

	s.audit(c, "configuration.delete", "configuration", id.String(), nil)

	c.Status(http.StatusNoContent)
}

func configurationViews(items []configurationdomain.Configuration) []configurationdomain.View {
	out := make([]configurationdomain.View, 0, len(items))
	for _, item := range items {
		out = append(out, item.View())
	}
	return out
}

func isConfigurationValidationError(err error) bool {
	switch err {
	case configurationdomain.ErrInvalidPlan,
		configurationdomain.ErrInvalidCustomerName,
		configurationdomain.ErrInvalidCustomerEmail,
		configurationdomain.ErrNoSelections,
		configurationdomain.ErrInvalidSelection,
		configurationdomain.ErrInvalidStatus,
		configurationdomain.ErrInvalidID:
		return true
	default:
		return false
	}
}
