package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/Orel-y/U-Schedule/internal/middleware"
	"github.com/Orel-y/U-Schedule/internal/models"
)

func claimsFromContext(c *gin.Context) *models.JWTClaims {
	value, exists := c.Get(middleware.ContextUserKey)
	if !exists {
		return nil
	}
	claims, ok := value.(*models.JWTClaims)
	if !ok {
		return nil
	}
	return claims
}

// actorFromContext converts the request claims into the user identity
// services act on behalf of.
func actorFromContext(c *gin.Context) *models.User {
	claims := claimsFromContext(c)
	if claims == nil {
		return nil
	}
	return &models.User{
		ID:          claims.UserID,
		Username:    claims.Username,
		Role:        claims.Role,
		ProgramID:   claims.ProgramID,
		ProgramCode: claims.ProgramCode,
	}
}
