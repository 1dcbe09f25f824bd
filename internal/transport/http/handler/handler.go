// Package handler holds the route modules mounted by the router.
package handler

import (
	"github.com/gin-gonic/gin"

	"panchayat-portal/internal/core/auth"
	"panchayat-portal/internal/domain"
)

// identity returns the session identity, zero when the request has none.
func identity(c *gin.Context) domain.Identity {
	if cl, ok := auth.ClaimsFrom(c); ok {
		return cl.Identity()
	}
	return domain.Identity{}
}

type pageQ struct {
	Offset int    `form:"offset,default=0"`
	Limit  int    `form:"limit,default=20"`
	Q      string `form:"q"`
	Status string `form:"status"`
}

type pageOut[T any] struct {
	Total int64 `json:"total"`
	Items []T   `json:"items"`
}
