package server

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	mediadomain "github.com/smallbiznis/homestead/internal/media/domain"
)

// multipartOverhead leaves room for boundaries and form fields around the file.
const multipartOverhead = 1 << 20

// Upload accepts a multipart form with a "file" part and a "type" field of
// image or document. Size ceilings depend on the type.
func (s *Server) Upload(c *gin.Context) {
	limit := s.cfg.Storage.MaxImageBytes
	if s.cfg.Storage.MaxDocumentBytes > limit {
		limit = s.cfg.Storage.MaxDocumentBytes
	}
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, limit+multipartOverhead)

	header, err := c.FormFile("file")
	if err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			AbortWithError(c, ErrPayloadTooLarge)
			return
		}
		AbortWithError(c, mediadomain.ErrMissingFile)
		return
	}

	kind := mediadomain.Kind(strings.ToLower(strings.TrimSpace(c.PostForm("type"))))
	if !kind.Valid() {
		AbortWithError(c, mediadomain.ErrInvalidKind)
		return
	}

	file, err := header.Open()
	if err != nil {
		AbortWithError(c, err)
		return
	}
	defer file.Close()

	resp, err := s.mediaSvc.Upload(c.Request.Context(), mediadomain.UploadRequest{
		Kind:        kind,
		Filename:    header.Filename,
		ContentType: header.Header.Get("Content-Type"),
		Size:        header.Size,
		Body:        file,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	s.audit(c, "upload.create", "upload", resp.Path, map[string]any{
		"type":         string(kind),
		"content_type": resp.ContentType,
		"size":         resp.Size,
	})

	c.JSON(http.StatusOK, gin.H{"data": resp})
}
