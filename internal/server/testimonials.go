package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
	testimonialdomain "github.com/smallbiznis/homestead/internal/testimonial/domain"
)

func (s *Server) ListPublishedTestimonials(c *gin.Context) {
	resp, err := s.testimonialSvc.List(c.Request.Context(), true)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) ListTestimonials(c *gin.Context) {
	resp, err := s.testimonialSvc.List(c.Request.Context(), false)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) GetTestimonial(c *gin.Context) {
	id, err := pathID(c)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	resp, err := s.testimonialSvc.Get(c.Request.Context(), id)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) CreateTestimonial(c *gin.Context) {
	var req testimonialdomain.CreateTestimonialRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, bindError(err))
		return
	}

	resp, err := s.testimonialSvc.Create(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	s.audit(c, "testimonial.create", "testimonial", resp.ID.String(), map[string]any{
		"customer_name": resp.CustomerName,
		"rating":        resp.Rating,
	})

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) UpdateTestimonial(c *gin.Context) {
	id, err := pathID(c)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	var req testimonialdomain.UpdateTestimonialRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, bindError(err))
		return
	}

	resp, err := s.testimonialSvc.Update(c.Request.Context(), id, req)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	s.audit(c, "testimonial.update", "testimonial", id.String(), map[string]any{
		"is_published": resp.IsPublished,
	})

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) DeleteTestimonial(c *gin.Context) {
	id, err := pathID(c)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	if err := s.testimonialSvc.Delete(c.Request.Context(), id); err != nil {
		AbortWithError(c, err)
		return
	}

	s.audit(c, "testimonial.delete", "testimonial", id.String(), nil)

	c.Status(http.StatusNoContent)
}

func isTestimonialValidationError(err error) bool {
	switch err {
	case testimonialdomain.ErrInvalidCustomerName,
		testimonialdomain.ErrInvalidQuote,
		testimonialdomain.ErrInvalidRating,
		testimonialdomain.ErrInvalidID:
		return true
	default:
		return false
	}
}
