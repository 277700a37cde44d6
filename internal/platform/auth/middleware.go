package auth

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"

	"instituto-backend/internal/models"
)

const (
	CtxUserIDKey = "user_id"
	CtxRoleKey   = "role"
)

// Identity is the request-scoped caller read from the verified token.
// It is the only ambient state an operation may consult.
type Identity struct {
	UserID string
	Role   models.Role
}

// CallerFrom reads the authenticated identity stored by RequireAuth.
func CallerFrom(c *gin.Context) (Identity, bool) {
	id, ok := c.Get(CtxUserIDKey)
	if !ok {
		return Identity{}, false
	}
	userID, ok := id.(string)
	if !ok || userID == "" {
		return Identity{}, false
	}
	role := models.Role("")
	if v, ok := c.Get(CtxRoleKey); ok {
		if s, ok := v.(string); ok {
			role = models.Role(s)
		}
	}
	return Identity{UserID: userID, Role: role}, true
}

// RequireAuth validates "Authorization: Bearer <token>" and stores sub/role
// in the gin context.
func RequireAuth(secret []byte) gin.HandlerFunc {
	return func(c *gin.Context) {
		h := c.GetHeader("Authorization")
		if h == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing Authorization header"})
			return
		}

		parts := strings.SplitN(h, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid Authorization header"})
			return
		}

		tokenStr := strings.TrimSpace(parts[1])
		if tokenStr == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "empty token"})
			return
		}

		token, err := jwt.Parse(tokenStr, func(t *jwt.Token) (any, error) {
			// HS256 only, rejects alg=none tokens
			if t.Method.Alg() != jwt.SigningMethodHS256.Alg() {
				return nil, jwt.ErrTokenSignatureInvalid
			}
			return secret, nil
		}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
		if err != nil || token == nil || !token.Valid {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
			return
		}

		claims, ok := token.Claims.(jwt.MapClaims)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid claims"})
			return
		}

		sub, _ := claims["sub"].(string)
		if sub == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing sub"})
			return
		}

		role := ""
		if roleAny, ok := claims["role"]; ok {
			if roleStr, ok := roleAny.(string); ok {
				role = roleStr
			}
		}
		if !models.Role(role).IsValid() {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid role"})
			return
		}

		c.Set(CtxUserIDKey, sub)
		c.Set(CtxRoleKey, role)
		c.Next()
	}
}

// RequireRole gates a route group to the given roles.
func RequireRole(roles ...models.Role) gin.HandlerFunc {
	roleSet := make(map[models.Role]struct{})
	for _, r := range roles {
		if !r.IsValid() {
			continue
		}
		roleSet[r] = struct{}{}
	}

	return func(c *gin.Context) {
		caller, ok := CallerFrom(c)
		if !ok {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "missing role"})
			return
		}

		if _, allowed := roleSet[caller.Role]; !allowed {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "forbidden"})
			return
		}

		c.Next()
	}
}
