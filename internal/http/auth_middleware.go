package http

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"profile-api/internal/service"
)

const authIdentityKey = "auth_identity"

// AuthMiddleware verifica la credencial Bearer y guarda la identidad
// resuelta en el contexto. Ninguna petición rechazada toca el store.
func AuthMiddleware(verifier service.TokenVerifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		if verifier == nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "auth not configured"})
			c.Abort()
			return
		}

		header := strings.TrimSpace(c.GetHeader("Authorization"))
		if header == "" || !strings.HasPrefix(strings.ToLower(header), "bearer ") {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Missing token"})
			c.Abort()
			return
		}

		token := strings.TrimSpace(header[len("Bearer "):])
		identity, err := verifier.Verify(token)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid token"})
			c.Abort()
			return
		}

		c.Set(authIdentityKey, identity)
		c.Next()
	}
}

// GetAuthIdentity obtiene la identidad verificada desde el contexto.
func GetAuthIdentity(c *gin.Context) (service.Identity, bool) {
	val, ok := c.Get(authIdentityKey)
	if !ok {
		return service.Identity{}, false
	}
	identity, ok := val.(service.Identity)
	return identity, ok
}
