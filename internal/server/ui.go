package server

import (
	"embed"
	"fmt"
	"io/fs"
	"net/http"
	"strings"

	"github.com/gin-contrib/static"
	"github.com/gin-gonic/gin"
)

//go:embed ui
var uiAssets embed.FS

// embedFileSystem adapts an fs.FS to static.ServeFileSystem.
type embedFileSystem struct {
	http.FileSystem
	root fs.FS
}

var _ static.ServeFileSystem = embedFileSystem{}

func (e embedFileSystem) Exists(prefix, path string) bool {
	p, ok := strings.CutPrefix(path, prefix)
	if !ok {
		return false
	}
	p = strings.Trim(p, "/")
	if p == "" {
		p = "."
	}
	_, err := fs.Stat(e.root, p)
	return err == nil
}

func uiFileSystem() (static.ServeFileSystem, error) {
	sub, err := fs.Sub(uiAssets, "ui")
	if err != nil {
		return nil, fmt.Errorf("open embedded ui: %w", err)
	}
	return embedFileSystem{FileSystem: http.FS(sub), root: sub}, nil
}

// serveUI serves the admin page for GET requests that matched no route.
func serveUI(ui static.ServeFileSystem) gin.HandlerFunc {
	serve := static.Serve("/", ui)
	return func(c *gin.Context) {
		if c.Request.Method != http.MethodGet && c.Request.Method != http.MethodHead {
			c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
			return
		}
		serve(c)
		if !c.Writer.Written() {
			c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
		}
	}
}
