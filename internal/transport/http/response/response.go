package response

import "github.com/gin-gonic/gin"

// Success writes body with success:true merged in.
func Success(c *gin.Context, httpStatus int, body gin.H) {
	if body == nil {
		body = gin.H{}
	}
	body["success"] = true
	c.JSON(httpStatus, body)
}

func Error(c *gin.Context, httpStatus int, message string) {
	c.JSON(httpStatus, gin.H{
		"success": false,
		"error":   message,
	})
}
