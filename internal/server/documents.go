package server

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	documentdomain "github.com/smallbiznis/homestead/internal/document/domain"
)

const contentTypePDF = "application/pdf"

func (s *Server) DownloadPlanBrochure(c *gin.Context) {
	doc, err := s.documentSvc.PlanBrochure(c.Request.Context(), strings.TrimSpace(c.Param("id")))
	if err != nil {
		AbortWithError(c, err)
		return
	}
	writeDocument(c, doc)
}

func (s *Server) DownloadPropertyBrochure(c *gin.Context) {
	doc, err := s.documentSvc.PropertyBrochure(c.Request.Context(), strings.TrimSpace(c.Param("id")))
	if err != nil {
		AbortWithError(c, err)
		return
	}
	writeDocument(c, doc)
}

// DownloadPropertyFlyer renders up to six available homes on one page from
// ids=a,b,c.
func (s *Server) DownloadPropertyFlyer(c *gin.Context) {
	ids, err := documentdomain.ParseIDs(c.Query("ids"))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	doc, err := s.documentSvc.PropertyFlyer(c.Request.Context(), ids)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	writeDocument(c, doc)
}

func (s *Server) DownloadSelectionBook(c *gin.Context) {
	id, err := pathID(c)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	doc, err := s.documentSvc.SelectionBookSummary(c.Request.Context(), id)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	writeDocument(c, doc)
}

func writeDocument(c *gin.Context, doc documentdomain.Document) {
	filename := strings.TrimSpace(doc.Filename)
	if filename == "" {
		filename = "document.pdf"
	}
	filename = strings.NewReplacer(`"`, "", "\\", "", "\r", "", "\n", "").Replace(filename)
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))
	c.Header("Cache-Control", "no-store")
	c.Data(http.StatusOK, contentTypePDF, doc.Data)
}
