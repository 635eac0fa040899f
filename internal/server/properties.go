package server

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	propertydomain "github.com/smallbiznis/homestead/internal/property/domain"
)

type listPropertiesQuery struct {
	Status   string `form:"status"`
	Featured string `form:"featured"`
}

func (s *Server) ListPublishedProperties(c *gin.Context) {
	s.listProperties(c, true)
}

func (s *Server) ListProperties(c *gin.Context) {
	s.listProperties(c, false)
}

func (s *Server) listProperties(c *gin.Context, publishedOnly bool) {
	var query listPropertiesQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	featured, err := parseOptionalBool(query.Featured)
	if err != nil {
		AbortWithError(c, newValidationError("featured", "invalid_featured", "invalid featured"))
		return
	}

	req := propertydomain.ListRequest{
		PublishedOnly: publishedOnly,
		Status:        strings.TrimSpace(query.Status),
	}
	if featured != nil {
		req.FeaturedOnly = *featured
	}

	resp, err := s.propertySvc.List(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": propertyViews(resp)})
}

func (s *Server) GetPublishedProperty(c *gin.Context) {
	resp, err := s.propertySvc.Get(c.Request.Context(), strings.TrimSpace(c.Param("id")), true)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp.View()})
}

func (s *Server) GetProperty(c *gin.Context) {
	id, err := pathID(c)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	resp, err := s.propertySvc.GetByID(c.Request.Context(), id)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp.View()})
}

func (s *Server) CreateProperty(c *gin.Context) {
	var req propertydomain.CreatePropertyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, bindError(err))
		return
	}

	resp, err := s.propertySvc.Create(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	s.audit(c, "property.create", "property", resp.ID.String(), map[string]any{
		"title":  resp.Title,
		"slug":   resp.Slug,
		"status": string(resp.Status),
	})

	c.JSON(http.StatusOK, gin.H{"data": resp.View()})
}

func (s *Server) UpdateProperty(c *gin.Context) {
	id, err := pathID(c)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	var req propertydomain.UpdatePropertyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, bindError(err))
		return
	}

	resp, err := s.propertySvc.Update(c.Request.Context(), id, req)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	s.audit(c, "property.update", "property", id.String(), map[string]any{
		"slug":           resp.Slug,
		"status":         string(resp.Status),
		"images_changed": req.Images.Set,
	})

	c.JSON(http.StatusOK, gin.H{"data": resp.View()})
}

func (s *Server) DeleteProperty(c *gin.Context) {
	id, err := pathID(c)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	if err := s.propertySvc.Delete(c.Request.Context(), id); err != nil {
		AbortWithError(c, err)
		return
	}

	s.audit(c, "property.delete", "property", id.String(), nil)

	c.Status(http.StatusNoContent)
}

func propertyViews(items []propertydomain.Property) []propertydomain.View {
	out := make([]propertydomain.View, 0, len(items))
	for _, item := range items {
		out = append(out, item.View())
	}
	return out
}

func isPropertyValidationError(err error) bool {
	switch err {
	case propertydomain.ErrInvalidTitle,
		propertydomain.ErrInvalidSlug,
		propertydomain.ErrInvalidStatus,
		propertydomain.ErrInvalidPrice,
		propertydomain.ErrInvalidSpecs,
		propertydomain.ErrInvalidImage,
		propertydomain.ErrInvalidPlan,
		propertydomain.ErrInvalidID:
		return true
	default:
		return false
	}
}
