package upload

import (
	"io"
	"log"
	"net/http"
	"os"

	"github.com/gin-gonic/gin"
)

// Handler serves stored images by name.
type Handler struct {
	store *Store
}

func NewHandler(store *Store) *Handler {
	return &Handler{store: store}
}

// Serve handles GET <url base>/:name
// Image content is served inline with its sniffed type, anything else as a download.
func (h *Handler) Serve(c *gin.Context) {
	name := c.Param("name")
	if !h.store.Exists(name) {
		c.Status(http.StatusNotFound)
		return
	}

	mimeType, err := h.sniff(name)
	if err != nil {
		log.Printf("image serve failed name=%q error=%v", name, err)
		c.Status(http.StatusInternalServerError)
		return
	}

	if IsImageType(mimeType) {
		c.Header("Content-Type", mimeType)
	} else {
		c.Header("Content-Type", "application/octet-stream")
		c.Header("Content-Disposition", `attachment; filename="`+name+`"`)
	}
	c.Header("Cache-Control", "public, max-age=86400")
	c.Header("X-Content-Type-Options", "nosniff")
	c.File(h.store.Path(name))
}

func (h *Handler) sniff(name string) (string, error) {
	f, err := os.Open(h.store.Path(name))
	if err != nil {
		return "", err
	}
	defer f.Close()

	head := make([]byte, 512)
	n, err := io.ReadFull(f, head)
	if err != nil && err != io.ErrUnexpectedEOF && err != io.EOF {
		return "", err
	}
	return DetectMimeType(head[:n]), nil
}
