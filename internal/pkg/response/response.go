package response

import "github.com/gin-gonic/gin"

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

func ErrorWithDetails(c *gin.Context, statusCode int, code string, message string, details any) {
	c.JSON(statusCode, gin.H{
		"success": false,
		"error": gin.H{
			"code":    code,
			"message": message,
			"details": details,
		},
	})
}

// Six-cities error types.
const (
	TypeCommon     = "COMMON_ERROR"
	TypeValidation = "VALIDATION_ERROR"
)

// ValidationDetail describes one rejected request property.
type ValidationDetail struct {
	Property string   `json:"property"`
	Value    any      `json:"value"`
	Messages []string `json:"messages"`
}

// APIError writes the error body the six-cities server uses.
func APIError(c *gin.Context, statusCode int, errorType string, message string) {
	c.JSON(statusCode, gin.H{
		"errorType": errorType,
		"message":   message,
	})
}

func APIValidationError(c *gin.Context, message string, details []ValidationDetail) {
	c.JSON(400, gin.H{
		"errorType": TypeValidation,
		"message":   message,
		"details":   details,
	})
}
