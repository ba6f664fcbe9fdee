package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/yupiflow-admin/internal/middleware"
	"github.com/noah-isme/yupiflow-admin/internal/models"
	appErrors "github.com/noah-isme/yupiflow-admin/pkg/errors"
)

func actorID(c *gin.Context) int64 {
	if claims := middleware.Claims(c); claims != nil {
		return claims.UserID
	}
	return 0
}

func requestMeta(c *gin.Context) models.RequestMeta {
	return models.RequestMeta{IP: c.ClientIP(), UserAgent: c.GetHeader("User-Agent")}
}

func pathID(c *gin.Context) (int64, error) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, appErrors.Clone(appErrors.ErrValidation, "id must be a positive integer")
	}
	return id, nil
}

func queryInt(c *gin.Context, key string, fallback int) int {
	raw := c.Query(key)
	if raw == "" {
		return fallback
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return v
}
