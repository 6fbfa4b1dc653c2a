package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/227007/E-commerce-backend/internal/usecase"
)

// Token verification happens at the edge; this service trusts the identity
// headers the verifier injects.
const (
	HeaderUserID    = "X-User-Id"
	HeaderUserType  = "X-User-Type"
	HeaderCompanyID = "X-Company-Id"
)

const actorKey = "actor"

// Identity rejects anonymous requests and exposes the caller as a
// usecase.Actor on the gin context.
func Identity() gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.GetHeader(HeaderUserID)
		if userID == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing identity"})
			return
		}

		userType := c.GetHeader(HeaderUserType)
		if userType == "" {
			userType = "user"
		}

		c.Set(actorKey, usecase.Actor{
			UserID:    userID,
			UserType:  userType,
			CompanyID: c.GetHeader(HeaderCompanyID),
		})
		c.Next()
	}
}

func ActorFrom(c *gin.Context) usecase.Actor {
	value, _ := c.Get(actorKey)
	actor, _ := value.(usecase.Actor)
	return actor
}

// RequireUserType gates a route to the listed user types.
func RequireUserType(types ...string) gin.HandlerFunc {
	allowed := make(map[string]bool, len(types))
	for _, t := range types {
		allowed[t] = true
	}

	return func(c *gin.Context) {
		if !allowed[ActorFrom(c).UserType] {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "forbidden"})
			return
		}
		c.Next()
	}
}
