package middlewares

import (
	"context"
	"log"
	"net/http"
	"strings"

	"firebase.google.com/go/v4/auth"
	"github.com/gin-gonic/gin"
)

// IdentityVerifier is satisfied by *auth.Client.
type IdentityVerifier interface {
	VerifyIDToken(ctx context.Context, idToken string) (*auth.Token, error)
}

const UID_KEY = "uid"

func bearerToken(header string) string {
	scheme, token, ok := strings.Cut(strings.TrimSpace(header), " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return ""
	}
	return strings.TrimSpace(token)
}

// VerifyIdToken checks the Firebase ID token in the Authorization header and
// stores the token's uid in the context under UID_KEY.
func VerifyIdToken(verifier IdentityVerifier) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		idToken := bearerToken(ctx.GetHeader("Authorization"))
		if idToken == "" {
			log.Println("[auth] check failed: missing bearer token")
			ctx.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"success": false, "error": "Missing or invalid authorization token"})
			return
		}
		token, err := verifier.VerifyIDToken(ctx.Request.Context(), idToken)
		if err != nil {
			log.Printf("[auth] failed to verify ID token: %s\n", err.Error())
			ctx.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"success": false, "error": "Invalid or expired token"})
			return
		}
		if token.UID == "" {
			log.Println("[auth] verified token has no uid")
			ctx.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"success": false, "error": "Invalid or expired token"})
			return
		}
		ctx.Set(UID_KEY, token.UID)
		ctx.Next()
	}
}
