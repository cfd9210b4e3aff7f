package middleware

import (
	"net/http"
	"strings"

	"github.com/developia-II/vendora-onboarding/utils"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// AuthMiddleware verifies the bearer token and puts userId and role on the context.
func AuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, utils.ErrorResponse("Authorization header is required"))
			return
		}

		scheme, token, found := strings.Cut(authHeader, " ")
		if !found || scheme != "Bearer" || token == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, utils.ErrorResponse("Authorization header must be Bearer token"))
			return
		}

		claims, err := utils.VerifyToken(token)
		if err != nil {
			// 401 lets the frontend refresh the token
			logrus.WithError(err).WithField("path", c.FullPath()).Debug("Rejected token")
			c.AbortWithStatusJSON(http.StatusUnauthorized, utils.ErrorResponse(err.Error()))
			return
		}

		c.Set("userId", claims.UserID)
		c.Set("role", claims.Role)
		c.Next()
	}
}

func RoleMiddleware(allowedRoles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		role, ok := c.Get("role")
		userRole, isString := role.(string)
		if !ok || !isString {
			c.AbortWithStatusJSON(http.StatusUnauthorized, utils.ErrorResponse("Role not found in context"))
			return
		}

		for _, r := range allowedRoles {
			if strings.EqualFold(userRole, r) {
				c.Next()
				return
			}
		}
		c.AbortWithStatusJSON(http.StatusForbidden, utils.ErrorResponse("You do not have permission to access this resource"))
	}
}
