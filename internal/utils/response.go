package utils

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Payload carries the operation-specific keys of a response, such as
// "patient", "patients", "user" or "accessToken".
type Payload map[string]interface{}

// Respond writes the standard envelope: error flag, message, and the payload
// keys merged into the top-level object.
func Respond(c *gin.Context, statusCode int, isError bool, message string, payload Payload) {
	body := gin.H{
		"error":   isError,
		"message": message,
	}
	for k, v := range payload {
		if k == "error" || k == "message" {
			continue
		}
		body[k] = v
	}
	c.JSON(statusCode, body)
}

// Success sends a standard success response.
func Success(c *gin.Context, message string, payload Payload) {
	Respond(c, http.StatusOK, false, message, payload)
}

// Created sends a standard resource created response.
func Created(c *gin.Context, message string, payload Payload) {
	Respond(c, http.StatusCreated, false, message, payload)
}

// Error sends a standard error response.
func Error(c *gin.Context, statusCode int, errorMessage string) {
	Respond(c, statusCode, true, errorMessage, nil)
}

// BadRequest sends a 400 Bad Request error response.
func BadRequest(c *gin.Context, errorMessage string) {
	Error(c, http.StatusBadRequest, errorMessage)
}

// Unauthorized sends a 401 Unauthorized error response.
func Unauthorized(c *gin.Context, errorMessage string) {
	Error(c, http.StatusUnauthorized, errorMessage)
}

// Forbidden sends a 403 Forbidden error response.
func Forbidden(c *gin.Context, errorMessage string) {
	Error(c, http.StatusForbidden, errorMessage)
}

// NotFound sends a 404 Not Found error response.
func NotFound(c *gin.Context, errorMessage string) {
	Error(c, http.StatusNotFound, errorMessage)
}

// TooManyRequests sends a 429 Too Many Requests error response.
func TooManyRequests(c *gin.Context, errorMessage string) {
	Error(c, http.StatusTooManyRequests, errorMessage)
}

// InternalServerError sends a 500 response with a generic message. The cause
// belongs in the log, not in the body.
func InternalServerError(c *gin.Context) {
	Error(c, http.StatusInternalServerError, "Internal Server Error")
}
