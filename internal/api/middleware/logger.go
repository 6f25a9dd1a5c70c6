package middleware

import (
	"log"
	"time"

	"github.com/gin-gonic/gin"
)

// Logger logs one line per request.
func Logger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		line := c.Request.Method + " " + c.Request.URL.Path
		if q := c.Request.URL.RawQuery; q != "" {
			line += "?" + q
		}
		log.Printf("API: %s %d %s", line, c.Writer.Status(), time.Since(start))
		for _, e := range c.Errors {
			log.Printf("API: %s error: %v", line, e.Err)
		}
	}
}
