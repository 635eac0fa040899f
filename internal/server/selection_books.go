package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
	selectionbookdomain "github.com/smallbiznis/homestead/internal/selectionbook/domain"
)

func (s *Server) ListSelectionBooks(c *gin.Context) {
	resp, err := s.selectionBookSvc.List(c.Request.Context())
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) GetSelectionBook(c *gin.Context) {
	id, err := pathID(c)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	resp, err := s.selectionBookSvc.Get(c.Request.Context(), id)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) CreateSelectionBook(c *gin.Context) {
	var req selectionbookdomain.CreateSelectionBookRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, bindError(err))
		return
	}

	resp, err := s.selectionBookSvc.Create(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	s.audit(c, "selection_book.create", "selection_book", resp.ID.String(), map[string]any{
		"customer_name":  resp.CustomerName,
		"customer_email": resp.CustomerEmail,
	})

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

// UpdateSelectionBook applies a partial update: only keys present in the
// body change and an explicit null clears the field.
func (s *Server) UpdateSelectionBook(c *gin.Context) {
	id, err := pathID(c)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	var req selectionbookdomain.UpdateSelectionBookRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, bindError(err))
		return
	}

	resp, err := s.selectionBookSvc.Update(c.Request.Context(), id, req)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	metadata := map[string]any{"status": string(resp.Status)}
	if req.Selections.Set {
		metadata["selections_changed"] = true
	}
	s.audit(c, "selection_book.update", "selection_book", id.String(), metadata)

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) DeleteSelectionBook(c *gin.Context) {
	id, err := pathID(c)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	if err := s.selectionBookSvc.Delete(c.Request.Context(), id); err != nil {
		AbortWithError(c, err)
		return
	}

	s.audit(c, "selection_book.delete", "selection_book", id.String(), nil)

	c.Status(http.StatusNoContent)
}

func isSelectionBookValidationError(err error) bool {
	switch err {
	case selectionbookdomain.ErrInvalidEmail,
		selectionbookdomain.ErrInvalidSelections,
		selectionbookdomain.ErrInvalidTotal,
		selectionbookdomain.ErrInvalidStatus,
		selectionbookdomain.ErrInvalidID:
		return true
	default:
		return false
	}
}
