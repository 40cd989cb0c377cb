package handlers

import (
	"context"
	"io"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

// ImageOpener streams stored images back to the browser.
type ImageOpener interface {
	Open(ctx context.Context, key string) (io.ReadCloser, string, error)
}

// MediaHandler serves /media/* from object storage when images are not on local disk.
type MediaHandler struct {
	store ImageOpener
}

func NewMediaHandler(store ImageOpener) *MediaHandler {
	return &MediaHandler{store: store}
}

func (h *MediaHandler) Serve(c *gin.Context) {
	key := strings.TrimPrefix(c.Param("filepath"), "/")
	if key == "" || strings.Contains(key, "..") {
		c.Status(http.StatusNotFound)
		return
	}

	body, contentType, err := h.store.Open(c.Request.Context(), key)
	if err != nil {
		c.Status(http.StatusNotFound)
		return
	}
	defer body.Close()

	c.Header("Cache-Control", "public, max-age=86400")
	c.Header("X-Content-Type-Options", "nosniff")
	c.DataFromReader(http.StatusOK, -1, contentType, body, nil)
}
