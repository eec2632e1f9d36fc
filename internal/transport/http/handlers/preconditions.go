package handlers

import (
	"strings"

	"github.com/gin-gonic/gin"
)

// ifMatchVersion extracts the version precondition from the If-Match header.
// Absence yields nil, which the services reject with a precondition-required
// outcome. Quotes and a weak-validator prefix are tolerated.
func ifMatchVersion(c *gin.Context) *string {
	raw := c.GetHeader("If-Match")
	if raw == "" {
		return nil
	}

	version := strings.TrimSpace(raw)
	version = strings.TrimPrefix(version, "W/")
	version = strings.Trim(version, `"`)
	return &version
}

// setETag surfaces the resource version so clients can echo it back on writes.
func setETag(c *gin.Context, version string) {
	if version == "" {
		return
	}
	c.Header("ETag", `"`+version+`"`)
}
