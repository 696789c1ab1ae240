package api

import (
	"bytes"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"backoffice/internal/export"
)

// download renders into a buffer first so a failed render still gets a
// proper error status.
func download(c *gin.Context, f export.Format, kind string, render func(*bytes.Buffer) error) {
	var buf bytes.Buffer
	if err := render(&buf); err != nil {
		failErr(c, err)
		return
	}
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", f.Filename(kind)))
	c.Data(http.StatusOK, f.ContentType(), buf.Bytes())
}
