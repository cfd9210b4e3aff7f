package utils

import "github.com/gin-gonic/gin"

// ErrorResponse is the envelope for every failed request.
func ErrorResponse(message string) gin.H {
	return gin.H{
		"success": false,
		"error":   message,
	}
}

// ErrorResponseWithData carries extra context, e.g. the fields still missing.
func ErrorResponseWithData(message string, data any) gin.H {
	return gin.H{
		"success": false,
		"error":   message,
		"data":    data,
	}
}

func SuccessResponse(message string, data any) gin.H {
	return gin.H{
		"success": true,
		"message": message,
		"data":    data,
	}
}
