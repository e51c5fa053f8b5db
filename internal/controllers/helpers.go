package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// currentUserID pulls the authenticated user id set by the auth
// middleware. Writes the error response itself when the id is missing
// or malformed, so callers just bail on !ok.
func currentUserID(ctx *gin.Context) (uint, bool) {
	userID, exists := ctx.Get("userID")
	if !exists {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return 0, false
	}

	switch v := userID.(type) {
	case uint:
		return v, true
	case int:
		return uint(v), true
	default:
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Unexpected user ID type"})
		return 0, false
	}
}
