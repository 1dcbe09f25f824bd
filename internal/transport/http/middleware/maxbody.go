package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	resp "panchayat-portal/internal/transport/http/response"
)

// MaxBodyBytes limits the request body to n bytes. Oversized declared lengths are refused up front;
// streamed bodies fail while binding.
func MaxBodyBytes(n int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.ContentLength > n {
			c.AbortWithStatusJSON(http.StatusRequestEntityTooLarge, resp.Error(http.StatusRequestEntityTooLarge, ""))
			return
		}
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, n)
		c.Next()
	}
}
