package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"clinic-records-server/internal/utils"
)

func abort(c *gin.Context, status int, message string) {
	utils.Error(c, status, message)
	c.Abort()
}

// Recovery turns a panic into the standard 500 envelope and logs it.
func Recovery(log zerolog.Logger) gin.HandlerFunc {
	return gin.CustomRecoveryWithWriter(nil, func(c *gin.Context, recovered interface{}) {
		log.Error().
			Interface("panic", recovered).
			Str("method", c.Request.Method).
			Str("path", c.Request.URL.Path).
			Msg("recovered from panic")
		utils.InternalServerError(c)
		c.Abort()
	})
}
