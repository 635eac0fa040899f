package server

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	lotdomain "github.com/smallbiznis/homestead/internal/lot/domain"
)

func (s *Server) ListPublishedLots(c *gin.Context) {
	resp, err := s.lotSvc.List(c.Request.Context(), true)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) GetPublishedLot(c *gin.Context) {
	resp, err := s.lotSvc.Get(c.Request.Context(), strings.TrimSpace(c.Param("id")), true)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) ListLots(c *gin.Context) {
	resp, err := s.lotSvc.List(c.Request.Context(), false)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) GetLot(c *gin.Context) {
	id, err := pathID(c)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	resp, err := s.lotSvc.GetByID(c.Request.Context(), id)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) CreateLot(c *gin.Context) {
	var req lotdomain.CreateLotRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, bindError(err))
		return
	}

	resp, err := s.lotSvc.Create(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	s.audit(c, "lot.create", "lot", resp.ID.String(), map[string]any{
		"name": resp.Name,
		"slug": resp.Slug,
	})

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) UpdateLot(c *gin.Context) {
	id, err := pathID(c)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	var req lotdomain.UpdateLotRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, bindError(err))
		return
	}

	resp, err := s.lotSvc.Update(c.Request.Context(), id, req)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	s.audit(c, "lot.update", "lot", id.String(), map[string]any{
		"slug":             resp.Slug,
		"status":           string(resp.Status),
		"features_changed": req.Features.Set,
		"images_changed":   req.Images.Set,
	})

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) DeleteLot(c *gin.Context) {
	id, err := pathID(c)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	if err := s.lotSvc.Delete(c.Request.Context(), id); err != nil {
		AbortWithError(c, err)
		return
	}

	s.audit(c, "lot.delete", "lot", id.String(), nil)

	c.Status(http.StatusNoContent)
}

func isLotValidationError(err error) bool {
	switch err {
	case lotdomain.ErrInvalidName,
		lotdomain.ErrInvalidSlug,
		lotdomain.ErrInvalidStatus,
		lotdomain.ErrInvalidPrice,
		lotdomain.ErrInvalidAcreage,
		lotdomain.ErrInvalidFeature,
		lotdomain.ErrInvalidImage,
		lotdomain.ErrInvalidID:
		return true
	default:
		return false
	}
}
