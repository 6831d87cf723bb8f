package upload

import (
	"strings"

	"github.com/gin-gonic/gin"
)

// RegisterRoutes exposes stored images under urlBase, e.g. /images/:name.
func RegisterRoutes(r gin.IRoutes, h *Handler, urlBase string) {
	urlBase = strings.TrimRight(urlBase, "/")
	if urlBase == "" {
		urlBase = DefaultURLBase
	}
	r.GET(urlBase+"/:name", h.Serve)
	r.HEAD(urlBase+"/:name", h.Serve)
}
