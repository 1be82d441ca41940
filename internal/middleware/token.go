package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"sixcities/internal/pkg/jwt"
	"sixcities/internal/pkg/response"
)

const TokenHeader = "X-Token"

// TokenAuth reads the session token from X-Token and stores the user's id
// and email under "user_id" and "email". When required is false a missing
// or bad token lets the request through anonymously.
func TokenAuth(svc *jwt.Service, required bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := c.GetHeader(TokenHeader)
		if token == "" {
			if required {
				response.APIError(c, http.StatusUnauthorized, response.TypeCommon, "Unauthorized")
				c.Abort()
				return
			}
			c.Next()
			return
		}

		claims, err := svc.ValidateToken(token)
		if err != nil {
			if required {
				response.APIError(c, http.StatusUnauthorized, response.TypeCommon, "Invalid token")
				c.Abort()
				return
			}
			c.Next()
			return
		}

		c.Set("user_id", claims.UserID)
		c.Set("email", claims.Email)
		c.Next()
	}
}
