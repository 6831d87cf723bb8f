package response

import (
	"github.com/gin-gonic/gin"

	"productcatalog/internal/pkg/flash"
)

func Success(c *gin.Context, statusCode int, data interface{}) {
	c.JSON(statusCode, gin.H{
		"success": true,
		"data":    data,
	})
}

func Error(c *gin.Context, statusCode int, code string, message string) {
	c.JSON(statusCode, gin.H{
		"success": false,
		"error": gin.H{
			"code":    code,
			"message": message,
		},
	})
}

// HTML renders a named template with pending flash messages merged in.
func HTML(c *gin.Context, statusCode int, name string, data gin.H) {
	if data == nil {
		data = gin.H{}
	}
	if _, ok := data["Flashes"]; !ok {
		data["Flashes"] = flash.Pop(c)
	}
	c.HTML(statusCode, name, data)
}
