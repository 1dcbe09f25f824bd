package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"panchayat-portal/internal/transport/http/ez"
)

const KeyRequestID = "X-Request-ID"

func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		rid := c.Request.Header.Get(KeyRequestID)
		if rid == "" || len(rid) > 64 {
			rid = uuid.NewString()
		}
		c.Writer.Header().Set(KeyRequestID, rid)
		c.Set(ez.RequestIDKey, rid)
		c.Next()
	}
}
