package handler

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/yupiflow-admin/internal/models"
	"github.com/noah-isme/yupiflow-admin/internal/service"
	appErrors "github.com/noah-isme/yupiflow-admin/pkg/errors"
	"github.com/noah-isme/yupiflow-admin/pkg/export"
	"github.com/noah-isme/yupiflow-admin/pkg/response"
)

type userService interface {
	List(ctx context.Context, filter models.UserFilter) (*models.UserPage, error)
	Get(ctx context.Context, id int64) (*models.User, error)
	Create(ctx context.Context, req service.CreateUserRequest, actorID int64, meta models.RequestMeta) (*models.User, error)
	Delete(ctx context.Context, id int64, actorID int64, meta models.RequestMeta) error
}

type userExporter interface {
	ExportUsers(ctx context.Context, format export.Format, filter models.UserFilter) (*service.ExportFile, error)
}

// UserHandler serves the /users directory endpoints.
type UserHandler struct {
	service  userService
	exporter userExporter
}

// NewUserHandler creates a new user handler.
func NewUserHandler(svc userService, exporter userExporter) *UserHandler {
	return &UserHandler{service: svc, exporter: exporter}
}

// List godoc
// @Summary List users
// @Description One page of the directory, newest first. search matches name, email and username.
// @Tags Users
// @Produce json
// @Param page query int false "Page number" default(1)
// @Param limit query int false "Page size" default(10)
// @Param search query string false "Search term"
// @Param role query string false "Comma separated roles"
// @Success 200 {object} models.UserPage
// @Failure 401 {object} response.ErrorBody
// @Router /users [get]
func (h *UserHandler) List(c *gin.Context) {
	page, err := h.service.List(c.Request.Context(), userFilterFromQuery(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, page)
}

// Get godoc
// @Summary Get user
// @Tags Users
// @Produce json
// @Param id path int true "User ID"
// @Success 200 {object} models.User
// @Failure 404 {object} response.ErrorBody
// @Router /users/{id} [get]
func (h *UserHandler) Get(c *gin.Context) {
	id, err := pathID(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	user, err := h.service.Get(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, user)
}

// Create godoc
// @Summary Create user
// @Tags Users
// @Accept json
// @Produce json
// @Param payload body service.CreateUserRequest true "Create user payload"
// @Success 201 {object} models.User
// @Failure 400 {object} response.ErrorBody
// @Failure 409 {object} response.ErrorBody
// @Router /users [post]
func (h *UserHandler) Create(c *gin.Context) {
	var req service.CreateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}

	user, err := h.service.Create(c.Request.Context(), req, actorID(c), requestMeta(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, user)
}

// Delete godoc
// @Summary Delete user
// @Description Permanently removes the user. Deleting an unknown id returns 404.
// @Tags Users
// @Produce json
// @Param id path int true "User ID"
// @Success 200 {object} response.MessageBody
// @Failure 404 {object} response.ErrorBody
// @Router /users/{id} [delete]
func (h *UserHandler) Delete(c *gin.Context) {
	id, err := pathID(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	if id == actorID(c) {
		response.Error(c, appErrors.Clone(appErrors.ErrConflict, "you cannot delete your own account"))
		return
	}

	if err := h.service.Delete(c.Request.Context(), id, actorID(c), requestMeta(c)); err != nil {
		response.Error(c, err)
		return
	}
	response.Message(c, http.StatusOK, "User deleted successfully")
}

// Export godoc
// @Summary Export users
// @Tags Users
// @Produce text/csv
// @Produce application/pdf
// @Param format query string false "csv or pdf" default(csv)
// @Param search query string false "Search term"
// @Param role query string false "Comma separated roles"
// @Success 200 {file} file
// @Failure 400 {object} response.ErrorBody
// @Router /users/export [get]
func (h *UserHandler) Export(c *gin.Context) {
	format, err := export.ParseFormat(c.Query("format"))
	if err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "format must be csv or pdf"))
		return
	}

	file, err := h.exporter.ExportUsers(c.Request.Context(), format, userFilterFromQuery(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.File(c, file.Filename, file.ContentType, file.Data)
}

func userFilterFromQuery(c *gin.Context) models.UserFilter {
	filter := models.UserFilter{
		Page:   queryInt(c, "page", 1),
		Limit:  queryInt(c, "limit", 10),
		Search: strings.TrimSpace(c.Query("search")),
	}
	for _, raw := range strings.Split(c.Query("role"), ",") {
		if role := models.UserRole(strings.TrimSpace(raw)); role.Valid() {
			filter.Roles = append(filter.Roles, role)
		}
	}
	return filter
}
