package handler

import (
	"net/http"

	"github.com/WandevPB/brisagenda-backend/internal/middleware"
	"github.com/WandevPB/brisagenda-backend/internal/model"
	"github.com/WandevPB/brisagenda-backend/internal/repository"
	"github.com/WandevPB/brisagenda-backend/internal/service"
	"github.com/WandevPB/brisagenda-backend/pkg/apperror"
	"github.com/WandevPB/brisagenda-backend/pkg/pagination"
	"github.com/WandevPB/brisagenda-backend/pkg/response"

	"github.com/gin-gonic/gin"
)

type AppointmentHandler struct {
	appointmentService service.AppointmentService
	windowService      service.BlockedWindowService
}

// NewAppointmentHandler sets up the routing dependencies for appointment endpoints
func NewAppointmentHandler(appointmentService service.AppointmentService, windowService service.BlockedWindowService) *AppointmentHandler {
	return &AppointmentHandler{appointmentService: appointmentService, windowService: windowService}
}

// RegisterRoutes binds the endpoints to the gin Engine or RouterGroup
func (h *AppointmentHandler) RegisterRoutes(router *gin.RouterGroup) {
	anyRole := middleware.RequireRole(model.RoleAdmin, model.RoleInstitution, model.RoleConsultivo)
	staff := middleware.RequireRole(model.RoleAdmin, model.RoleInstitution)
	admin := middleware.RequireRole(model.RoleAdmin)

	agendamentos := router.Group("/agendamentos")
	{
		// Creation is public: external companies book without an account
		agendamentos.POST("", h.Create)

		agendamentos.GET("", anyRole, h.List)
		agendamentos.PATCH("/:id/status", staff, h.UpdateStatus)
		agendamentos.PATCH("/:id/sugerir-horario", staff, h.SuggestReschedule)
		agendamentos.DELETE("/antigos", admin, h.PurgeOld)

		agendamentos.POST("/bloquear-horarios", staff, h.CreateBlockedWindow)
		agendamentos.GET("/bloqueios", staff, h.ListBlockedWindows)
		agendamentos.DELETE("/bloqueios/:id", staff, h.DeleteBlockedWindow)

		// Registered last so it does not shadow the literal paths above
		agendamentos.GET("/:id", anyRole, h.GetByID)
	}
}

// Create handles POST /agendamentos
// @Summary      Create appointment
// @Description  Books a delivery slot at a distribution center. Rejects slots already taken by an active appointment or covered by a blocked window.
// @Tags         agendamentos
// @Accept       json
// @Produce      json
// @Param        payload  body      service.CreateAppointmentRequest  true  "Appointment payload"
// @Success      201      {object}  response.Response{data=model.Appointment}
// @Failure      400      {object}  response.Response
// @Failure      409      {object}  response.Response
// @Router       /agendamentos [post]
func (h *AppointmentHandler) Create(c *gin.Context) {
	var req service.CreateAppointmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, apperror.Validation("invalid request payload: "+err.Error()))
		return
	}

	appointment, err := h.appointmentService.Create(c.Request.Context(), req)
	if err != nil {
		abortWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, response.Success(http.StatusCreated, appointment))
}

// List handles GET /agendamentos
// @Summary      List appointments
// @Description  Lists appointments visible to the caller; institution accounts only see their own center.
// @Tags         agendamentos
// @Produce      json
// @Security     BearerAuth
// @Param        page    query     int     false  "Page"
// @Param        limit   query     int     false  "Page size"
// @Param        data    query     string  false  "Filter by date (YYYY-MM-DD)"
// @Param        status  query     string  false  "Filter by lifecycle status"
// @Success      200     {object}  response.Response
// @Router       /agendamentos [get]
func (h *AppointmentHandler) List(c *gin.Context) {
	params := pagination.Parse(c)
	q := repository.AppointmentListQuery{
		Data:   c.Query("data"),
		Status: c.Query("status"),
	}

	appointments, total, err := h.appointmentService.List(c.Request.Context(), actorFrom(c), q, params.Page, params.Limit)
	if err != nil {
		abortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, gin.H{
		"agendamentos": appointments,
		"pagination":   pagination.NewMeta(params, total),
	}))
}

// GetByID handles GET /agendamentos/:id
// @Summary      Get appointment
// @Tags         agendamentos
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Appointment ID"
// @Success      200  {object}  response.Response{data=model.Appointment}
// @Failure      404  {object}  response.Response
// @Router       /agendamentos/{id} [get]
func (h *AppointmentHandler) GetByID(c *gin.Context) {
	appointment, err := h.appointmentService.GetByID(c.Request.Context(), actorFrom(c), c.Param("id"))
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, appointment))
}

// UpdateStatus handles PATCH /agendamentos/:id/status
// @Summary      Confirm appointment
// @Description  Moves a pending or reschedule-suggested appointment to confirmed.
// @Tags         agendamentos
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id       path      string                       true  "Appointment ID"
// @Param        payload  body      service.UpdateStatusRequest  true  "Target status"
// @Success      200      {object}  response.Response{data=model.Appointment}
// @Failure      400      {object}  response.Response
// @Failure      403      {object}  response.Response
// @Failure      404      {object}  response.Response
// @Router       /agendamentos/{id}/status [patch]
func (h *AppointmentHandler) UpdateStatus(c *gin.Context) {
	var req service.UpdateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, apperror.Validation("invalid request payload: "+err.Error()))
		return
	}

	appointment, err := h.appointmentService.UpdateStatus(c.Request.Context(), actorFrom(c), c.Param("id"), req)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, appointment))
}

// SuggestReschedule handles PATCH /agendamentos/:id/sugerir-horario
// @Summary      Suggest a new slot
// @Description  Moves the appointment to a new date and slot, conflict-checking the target.
// @Tags         agendamentos
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id       path      string                            true  "Appointment ID"
// @Param        payload  body      service.SuggestRescheduleRequest  true  "New slot"
// @Success      200      {object}  response.Response{data=model.Appointment}
// @Failure      409      {object}  response.Response
// @Router       /agendamentos/{id}/sugerir-horario [patch]
func (h *AppointmentHandler) SuggestReschedule(c *gin.Context) {
	var req service.SuggestRescheduleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, apperror.Validation("invalid request payload: "+err.Error()))
		return
	}

	appointment, err := h.appointmentService.SuggestReschedule(c.Request.Context(), actorFrom(c), c.Param("id"), req)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, appointment))
}

// PurgeOld handles DELETE /agendamentos/antigos
// @Summary      Purge old appointments
// @Description  Deletes appointments older than the retention threshold.
// @Tags         agendamentos
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  response.Response
// @Router       /agendamentos/antigos [delete]
func (h *AppointmentHandler) PurgeOld(c *gin.Context) {
	deleted, err := h.appointmentService.PurgeOld(c.Request.Context())
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, gin.H{"deleted": deleted}))
}

// CreateBlockedWindow handles POST /agendamentos/bloquear-horarios
// @Summary      Block a time window
// @Description  Blocks an arbitrary start/end range at a center for a date; conflicts with other windows and active appointments by interval overlap.
// @Tags         bloqueios
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        payload  body      service.CreateBlockedWindowRequest  true  "Window payload"
// @Success      201      {object}  response.Response{data=model.BlockedWindow}
// @Failure      409      {object}  response.Response
// @Router       /agendamentos/bloquear-horarios [post]
func (h *AppointmentHandler) CreateBlockedWindow(c *gin.Context) {
	var req service.CreateBlockedWindowRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, apperror.Validation("invalid request payload: "+err.Error()))
		return
	}

	window, err := h.windowService.Create(c.Request.Context(), actorFrom(c), req)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusCreated, response.Success(http.StatusCreated, window))
}

// ListBlockedWindows handles GET /agendamentos/bloqueios
// @Summary      List blocked windows
// @Tags         bloqueios
// @Produce      json
// @Security     BearerAuth
// @Param        data  query     string  false  "Filter by date (YYYY-MM-DD)"
// @Success      200   {object}  response.Response
// @Router       /agendamentos/bloqueios [get]
func (h *AppointmentHandler) ListBlockedWindows(c *gin.Context) {
	windows, err := h.windowService.List(c.Request.Context(), actorFrom(c), c.Query("data"))
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, windows))
}

// DeleteBlockedWindow handles DELETE /agendamentos/bloqueios/:id
// @Summary      Delete blocked window
// @Tags         bloqueios
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Window ID"
// @Success      200  {object}  response.Response
// @Failure      404  {object}  response.Response
// @Router       /agendamentos/bloqueios/{id} [delete]
func (h *AppointmentHandler) DeleteBlockedWindow(c *gin.Context) {
	if err := h.windowService.Delete(c.Request.Context(), actorFrom(c), c.Param("id")); err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, gin.H{"deleted": true}))
}
