package api

import (
	"net/http"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/guttosm/packflow/internal/domain/dto"
)

const indexFile = "index.html"

// notFound answers unmatched routes. Unknown /api paths get a JSON 404.
// Other GET paths are served from staticDir when the file exists, and
// extensionless paths fall back to index.html so client-side routes work.
func notFound(staticDir string) gin.HandlerFunc {
	return func(c *gin.Context) {
		p := c.Request.URL.Path
		if strings.HasPrefix(p, "/api/") || p == "/api" {
			c.JSON(http.StatusNotFound, dto.NewErrorResponse("API endpoint not found", nil))
			return
		}
		if staticDir == "" || (c.Request.Method != http.MethodGet && c.Request.Method != http.MethodHead) {
			c.JSON(http.StatusNotFound, dto.NewErrorResponse("Not found", nil))
			return
		}

		clean := path.Clean("/" + p)
		file := filepath.Join(staticDir, filepath.FromSlash(clean))
		if info, err := os.Stat(file); err == nil && !info.IsDir() {
			c.File(file)
			return
		}
		if strings.Contains(path.Base(clean), ".") {
			c.JSON(http.StatusNotFound, dto.NewErrorResponse("Not found", nil))
			return
		}
		c.File(filepath.Join(staticDir, indexFile))
	}
}
