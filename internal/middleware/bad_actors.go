package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"
)

// Scanner noise seen against the public endpoint. Nothing legitimate on this
// API contains these path fragments.
var badPaths = []string{
	".env", "php", "mysql", "cgi-bin", "wp-login.php",
	"wp-admin", "xmlrpc.php", "config.php", "passwd", "shadow",
	"cmd.exe", "bin/bash", "bin/sh", "shell", "exec",
	"actuator", "console", "manager/html", "web-console", "login.do",
}

func BlockBadActorsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		requestPath := c.Request.URL.Path

		for _, path := range badPaths {
			if strings.Contains(requestPath, path) {
				c.JSON(403, gin.H{"error": "Forbidden"})
				c.Abort()
				return
			}
		}
		c.Next()
	}
}
