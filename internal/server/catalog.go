package server

import (
	"net/http"

	"github.com/bwmarrin/snowflake"
	"github.com/gin-gonic/gin"
	catalogdomain "github.com/smallbiznis/homestead/internal/catalog/domain"
)

type reorderCategoriesRequest struct {
	IDs []snowflake.ID `json:"ids"`
}

// GetPublicCatalog returns the wizard catalog. With plan_id only the options
// offered on that plan are listed and empty steps are dropped.
func (s *Server) GetPublicCatalog(c *gin.Context) {
	planID, err := parseOptionalSnowflakeID(c.Query("plan_id"))
	if err != nil {
		AbortWithError(c, newValidationError("plan_id", "invalid_plan_id", "invalid plan_id"))
		return
	}

	resp, err := s.catalogSvc.ListCatalog(c.Request.Context(), catalogdomain.CatalogRequest{PlanID: planID})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) ListAdminCatalog(c *gin.Context) {
	planID, err := parseOptionalSnowflakeID(c.Query("plan_id"))
	if err != nil {
		AbortWithError(c, newValidationError("plan_id", "invalid_plan_id", "invalid plan_id"))
		return
	}
	includeInactive, err := parseOptionalBool(c.Query("include_inactive"))
	if err != nil {
		AbortWithError(c, newValidationError("include_inactive", "invalid_include_inactive", "invalid include_inactive"))
		return
	}

	req := catalogdomain.CatalogRequest{PlanID: planID}
	if includeInactive != nil {
		req.IncludeInactive = *includeInactive
	}

	resp, err := s.catalogSvc.ListCatalog(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) CreateOption(c *gin.Context) {
	var req catalogdomain.CreateOptionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, bindError(err))
		return
	}

	resp, err := s.catalogSvc.CreateOption(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	s.audit(c, "customization_option.create", "customization_option", resp.ID.String(), map[string]any{
		"name":        resp.Name,
		"category_id": resp.CategoryID.String(),
	})

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) UpdateOption(c *gin.Context) {
	id, err := pathID(c)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	var req catalogdomain.UpdateOptionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, bindError(err))
		return
	}

	resp, err := s.catalogSvc.UpdateOption(c.Request.Context(), id, req)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	s.audit(c, "customization_option.update", "customization_option", id.String(), map[string]any{
		"name": resp.Name,
	})

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) DeleteOption(c *gin.Context) {
	id, err := pathID(c)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	if err := s.catalogSvc.DeleteOption(c.Request.Context(), id); err != nil {
		AbortWithError(c, err)
		return
	}

	s.audit(c, "customization_option.delete", "customization_option", id.String(), nil)

	c.Status(http.StatusNoContent)
}

func (s *Server) ListCategories(c *gin.Context) {
	resp, err := s.catalogSvc.ListCategories(c.Request.Context())
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) CreateCategory(c *gin.Context) {
	var req catalogdomain.CreateCategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, bindError(err))
		return
	}

	resp, err := s.catalogSvc.CreateCategory(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	s.audit(c, "customization_category.create", "customization_category", resp.ID.String(), map[string]any{
		"name": resp.Name,
	})

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) UpdateCategory(c *gin.Context) {
	id, err := pathID(c)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	var req catalogdomain.UpdateCategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, bindError(err))
		return
	}

	resp, err := s.catalogSvc.UpdateCategory(c.Request.Context(), id, req)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	s.audit(c, "customization_category.update", "customization_category", id.String(), map[string]any{
		"name": resp.Name,
	})

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) ReorderCategories(c *gin.Context) {
	var req reorderCategoriesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, bindError(err))
		return
	}

	resp, err := s.catalogSvc.ReorderCategories(c.Request.Context(), req.IDs)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	ids := make([]string, 0, len(req.IDs))
	for _, id := range req.IDs {
		ids = append(ids, id.String())
	}
	s.audit(c, "customization_category.reorder", "customization_category", "", map[string]any{
		"ids": ids,
	})

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) DeleteCategory(c *gin.Context) {
	id, err := pathID(c)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	if err := s.catalogSvc.DeleteCategory(c.Request.Context(), id); err != nil {
		AbortWithError(c, err)
		return
	}

	s.audit(c, "customization_category.delete", "customization_category", id.String(), nil)

	c.Status(http.StatusNoContent)
}

func isCatalogValidationError(err error) bool {
	switch err {
	case catalogdomain.ErrInvalidName,
		catalogdomain.ErrInvalidCategory,
		catalogdomain.ErrInvalidPlan,
		catalogdomain.ErrInvalidPrice,
		catalogdomain.ErrInvalidImageURL,
		catalogdomain.ErrInvalidOrder,
		catalogdomain.ErrInvalidID:
		return true
	default:
		return false
	}
}
