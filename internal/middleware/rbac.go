package middleware

import (
	"github.com/gin-gonic/gin"

	"github.com/noah-isme/yupiflow-admin/internal/models"
	appErrors "github.com/noah-isme/yupiflow-admin/pkg/errors"
	"github.com/noah-isme/yupiflow-admin/pkg/response"
)

// RequireRoles lets the request through only for the listed roles.
func RequireRoles(roles ...models.UserRole) gin.HandlerFunc {
	allowed := make(map[models.UserRole]struct{}, len(roles))
	for _, r := range roles {
		allowed[r] = struct{}{}
	}
	return func(c *gin.Context) {
		claims := Claims(c)
		if claims == nil {
			response.Abort(c, appErrors.ErrUnauthorized)
			return
		}
		if _, ok := allowed[claims.Role]; !ok {
			response.Abort(c, appErrors.Clone(appErrors.ErrForbidden, "role "+string(claims.Role)+" may not access this resource"))
			return
		}
		c.Next()
	}
}

// RequireTier admits every role of the given tiers, e.g. all admin-tier roles.
func RequireTier(tiers ...models.RoleTier) gin.HandlerFunc {
	var roles []models.UserRole
	for _, info := range models.RoleCatalog {
		for _, tier := range tiers {
			if info.Tier == tier {
				roles = append(roles, info.Role)
			}
		}
	}
	return RequireRoles(roles...)
}
