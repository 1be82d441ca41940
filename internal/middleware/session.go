package middleware

import (
	"net/http"
	"net/url"

	"github.com/gin-gonic/gin"
)

type Authorizer interface {
	IsAuthorized() bool
}

// PrivateRoute sends anonymous users to the login page, remembering where
// they were headed.
func PrivateRoute(auth Authorizer) gin.HandlerFunc {
	return func(c *gin.Context) {
		if auth.IsAuthorized() {
			c.Next()
			return
		}
		target := "/login?from=" + url.QueryEscape(c.Request.URL.Path)
		c.Redirect(http.StatusSeeOther, target)
		c.Abort()
	}
}

// PublicRoute keeps signed-in users away from pages like login.
func PublicRoute(auth Authorizer) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !auth.IsAuthorized() {
			c.Next()
			return
		}
		c.Redirect(http.StatusSeeOther, "/")
		c.Abort()
	}
}
