package server

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	gallerydomain "github.com/smallbiznis/homestead/internal/gallery/domain"
)

func (s *Server) ListPublishedGallery(c *gin.Context) {
	s.listGallery(c, true)
}

func (s *Server) ListGallery(c *gin.Context) {
	s.listGallery(c, false)
}

func (s *Server) listGallery(c *gin.Context, publishedOnly bool) {
	resp, err := s.gallerySvc.List(c.Request.Context(), gallerydomain.ListRequest{
		PublishedOnly: publishedOnly,
		Category:      strings.TrimSpace(c.Query("category")),
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) GetGalleryItem(c *gin.Context) {
	id, err := pathID(c)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	resp, err := s.gallerySvc.Get(c.Request.Context(), id)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) CreateGalleryItem(c *gin.Context) {
	var req gallerydomain.CreateItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, bindError(err))
		return
	}

	resp, err := s.gallerySvc.Create(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	s.audit(c, "gallery_item.create", "gallery_item", resp.ID.String(), map[string]any{
		"category": resp.Category,
	})

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) UpdateGalleryItem(c *gin.Context) {
	id, err := pathID(c)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	var req gallerydomain.UpdateItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, bindError(err))
		return
	}

	resp, err := s.gallerySvc.Update(c.Request.Context(), id, req)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	s.audit(c, "gallery_item.update", "gallery_item", id.String(), map[string]any{
		"category":     resp.Category,
		"is_published": resp.IsPublished,
	})

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) DeleteGalleryItem(c *gin.Context) {
	id, err := pathID(c)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	if err := s.gallerySvc.Delete(c.Request.Context(), id); err != nil {
		AbortWithError(c, err)
		return
	}

	s.audit(c, "gallery_item.delete", "gallery_item", id.String(), nil)

	c.Status(http.StatusNoContent)
}

func isGalleryValidationError(err error) bool {
	switch err {
	case gallerydomain.ErrInvalidImageURL, gallerydomain.ErrInvalidID:
		return true
	default:
		return false
	}
}
