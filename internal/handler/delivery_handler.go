package handler

import (
	"net/http"

	"github.com/WandevPB/brisagenda-backend/internal/middleware"
	"github.com/WandevPB/brisagenda-backend/internal/model"
	"github.com/WandevPB/brisagenda-backend/internal/service"
	"github.com/WandevPB/brisagenda-backend/pkg/apperror"
	"github.com/WandevPB/brisagenda-backend/pkg/response"

	"github.com/gin-gonic/gin"
)

type DeliveryHandler struct {
	deliveryService service.DeliveryService
}

// NewDeliveryHandler sets up the routing dependencies for delivery endpoints
func NewDeliveryHandler(deliveryService service.DeliveryService) *DeliveryHandler {
	return &DeliveryHandler{deliveryService: deliveryService}
}

// RegisterRoutes binds the endpoints to the gin Engine or RouterGroup
func (h *DeliveryHandler) RegisterRoutes(router *gin.RouterGroup) {
	anyRole := middleware.RequireRole(model.RoleAdmin, model.RoleInstitution, model.RoleConsultivo)
	staff := middleware.RequireRole(model.RoleAdmin, model.RoleInstitution)

	entrega := router.Group("/entrega")
	{
		entrega.PUT("/:id/confirmar", staff, h.Confirm)
		entrega.GET("/hoje", anyRole, h.Today)
		entrega.GET("/pendentes", anyRole, h.Pending)
		entrega.GET("/estatisticas", anyRole, h.Statistics)
	}
}

// Confirm handles PUT /entrega/:id/confirmar
// @Summary      Record delivery outcome
// @Description  Records whether the delivery arrived, arrived late or did not show. Overwrites any previous outcome.
// @Tags         entrega
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id       path      string                          true  "Appointment ID"
// @Param        payload  body      service.ConfirmDeliveryRequest  true  "Outcome payload"
// @Success      200      {object}  response.Response{data=model.Appointment}
// @Failure      400      {object}  response.Response
// @Failure      404      {object}  response.Response
// @Router       /entrega/{id}/confirmar [put]
func (h *DeliveryHandler) Confirm(c *gin.Context) {
	var req service.ConfirmDeliveryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, apperror.Validation("invalid request payload: "+err.Error()))
		return
	}

	appointment, err := h.deliveryService.Confirm(c.Request.Context(), actorFrom(c), c.Param("id"), req)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, appointment))
}

// Today handles GET /entrega/hoje
// @Summary      Today's deliveries
// @Tags         entrega
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  response.Response
// @Router       /entrega/hoje [get]
func (h *DeliveryHandler) Today(c *gin.Context) {
	appointments, err := h.deliveryService.Today(c.Request.Context(), actorFrom(c))
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, appointments))
}

// Pending handles GET /entrega/pendentes
// @Summary      Deliveries awaiting an outcome
// @Description  Confirmed appointments whose date has passed without a recorded delivery outcome.
// @Tags         entrega
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  response.Response
// @Router       /entrega/pendentes [get]
func (h *DeliveryHandler) Pending(c *gin.Context) {
	appointments, err := h.deliveryService.Pending(c.Request.Context(), actorFrom(c))
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, appointments))
}

// Statistics handles GET /entrega/estatisticas
// @Summary      Attendance statistics per center
// @Tags         entrega
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  response.Response
// @Router       /entrega/estatisticas [get]
func (h *DeliveryHandler) Statistics(c *gin.Context) {
	stats, err := h.deliveryService.Statistics(c.Request.Context(), actorFrom(c))
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, stats))
}
