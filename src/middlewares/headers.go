package middlewares

import (
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

func SecureHeaders(ctx *gin.Context) {
	ctx.Header("X-Content-Type-Options", "nosniff")
	ctx.Header("X-Frame-Options", "DENY")
	ctx.Header("Referrer-Policy", "no-referrer")
	ctx.Next()
}

func RequestLogger() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		start := time.Now()
		ctx.Next()
		uid := ctx.GetString(UID_KEY)
		if uid == "" {
			uid = "-"
		}
		log.Printf("%s %s -> %d in %dms uid=%s",
			ctx.Request.Method, ctx.Request.URL.Path, ctx.Writer.Status(), time.Since(start).Milliseconds(), uid)
	}
}

// MaintenanceMode rejects every request with 503 while enabled.
func MaintenanceMode(enabled bool) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		if enabled {
			err := errors.New("server is under maintenance")
			log.Println(err.Error())
			ctx.AbortWithStatusJSON(http.StatusServiceUnavailable, gin.H{"success": false, "error": err.Error()})
			return
		}
		ctx.Next()
	}
}
