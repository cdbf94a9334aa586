package middleware

import (
	"errors"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/suduyun739/project-management-platform/internal/constants"
	apierrors "github.com/suduyun739/project-management-platform/internal/errors"
	"github.com/suduyun739/project-management-platform/internal/models"
	"github.com/suduyun739/project-management-platform/internal/policy"
)

type authClaims struct {
	jwt.RegisteredClaims
	Username string      `json:"username"`
	Role     models.Role `json:"role"`
}

// RequireAuth validates the bearer token and stores the principal in the
// request context. Everything downstream trusts these values completely.
func RequireAuth(jwtSecret string) gin.HandlerFunc {
	secret := []byte(jwtSecret)
	return func(c *gin.Context) {
		token, ok := bearerToken(c.GetHeader("Authorization"))
		if !ok {
			apierrors.Unauthorized(c, "No authentication token provided")
			c.Abort()
			return
		}

		principal, err := parseToken(token, secret)
		if err != nil {
			apierrors.Unauthorized(c, "Invalid authentication token")
			c.Abort()
			return
		}

		c.Set(constants.ContextKeyUserID, principal.ID)
		c.Set(constants.ContextKeyUserRole, principal.Role)
		c.Next()
	}
}

// RequireAdmin rejects principals without the ADMIN role. Must run after
// RequireAuth.
func RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		principal, ok := GetPrincipal(c)
		if !ok {
			apierrors.Unauthorized(c, "")
			c.Abort()
			return
		}
		if !principal.IsAdmin() {
			apierrors.Forbidden(c, "Administrator privileges required")
			c.Abort()
			return
		}
		c.Next()
	}
}

// GetPrincipal retrieves the authenticated principal from the context.
func GetPrincipal(c *gin.Context) (policy.Principal, bool) {
	userID, exists := c.Get(constants.ContextKeyUserID)
	if !exists {
		return policy.Principal{}, false
	}
	id, ok := userID.(string)
	if !ok || id == "" {
		return policy.Principal{}, false
	}

	role := models.RoleMember
	if raw, exists := c.Get(constants.ContextKeyUserRole); exists {
		if r, ok := raw.(models.Role); ok {
			role = r
		}
	}

	return policy.Principal{ID: id, Role: role}, true
}

func bearerToken(authorization string) (string, bool) {
	parts := strings.Fields(authorization)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
		return "", false
	}
	return parts[1], true
}

func parseToken(token string, secret []byte) (policy.Principal, error) {
	parser := jwt.NewParser(jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	claims := &authClaims{}
	parsed, err := parser.ParseWithClaims(token, claims, func(t *jwt.Token) (any, error) {
		return secret, nil
	})
	if err != nil {
		return policy.Principal{}, err
	}
	if !parsed.Valid {
		return policy.Principal{}, errors.New("invalid token")
	}
	if claims.Subject == "" {
		return policy.Principal{}, errors.New("subject claim required")
	}
	return policy.Principal{ID: claims.Subject, Role: claims.Role}, nil
}
