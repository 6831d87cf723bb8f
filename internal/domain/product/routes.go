package product

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// RegisterRoutes mounts the product pages and redirects / to the list.
func RegisterRoutes(r gin.IRouter, h *Handler) {
	r.GET("/", func(c *gin.Context) {
		c.Redirect(http.StatusSeeOther, listPath)
	})

	products := r.Group("/products")
	{
		products.GET("", h.List)
		products.GET("/create", h.ShowCreate)
		products.POST("/create", h.Create)
		products.GET("/edit", h.ShowEdit)
		products.POST("/edit", h.Update)
		products.GET("/delete", h.Delete)
	}
}
