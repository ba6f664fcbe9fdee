package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/yupiflow-admin/internal/models"
	"github.com/noah-isme/yupiflow-admin/internal/service"
	appErrors "github.com/noah-isme/yupiflow-admin/pkg/errors"
	"github.com/noah-isme/yupiflow-admin/pkg/response"
)

type registrationService interface {
	List(ctx context.Context, filter models.RegistrationFilter) ([]models.Registration, error)
	Get(ctx context.Context, id int64) (*models.Registration, error)
	Review(ctx context.Context, id int64, req service.ReviewRegistrationRequest, actorID int64, meta models.RequestMeta) (*models.Registration, error)
}

// RegistrationHandler serves partner registration review.
type RegistrationHandler struct {
	service registrationService
}

// NewRegistrationHandler constructs the handler.
func NewRegistrationHandler(svc registrationService) *RegistrationHandler {
	return &RegistrationHandler{service: svc}
}

// List godoc
// @Summary List registrations
// @Tags Registrations
// @Produce json
// @Param status query string false "pending, approved or rejected"
// @Success 200 {object} models.RegistrationList
// @Router /registrations [get]
func (h *RegistrationHandler) List(c *gin.Context) {
	regs, err := h.service.List(c.Request.Context(), models.RegistrationFilter{Status: models.RegistrationStatus(c.Query("status"))})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, models.RegistrationList{Registrations: regs})
}

// Get godoc
// @Summary Get registration
// @Tags Registrations
// @Produce json
// @Param id path int true "Registration ID"
// @Success 200 {object} models.Registration
// @Failure 404 {object} response.ErrorBody
// @Router /registrations/{id} [get]
func (h *RegistrationHandler) Get(c *gin.Context) {
	id, err := pathID(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	reg, err := h.service.Get(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, reg)
}

// Review godoc
// @Summary Approve or reject a registration
// @Description Only pending registrations can be reviewed; anything else answers 409.
// @Tags Registrations
// @Accept json
// @Produce json
// @Param id path int true "Registration ID"
// @Param payload body service.ReviewRegistrationRequest true "Decision"
// @Success 200 {object} models.Registration
// @Failure 409 {object} response.ErrorBody
// @Router /registrations/{id}/status [patch]
func (h *RegistrationHandler) Review(c *gin.Context) {
	id, err := pathID(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	var req service.ReviewRegistrationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}

	reg, err := h.service.Review(c.Request.Context(), id, req, actorID(c), requestMeta(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, reg)
}
