package record

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/caffeinepub/smartcare-connect/internal/handler"
	"github.com/caffeinepub/smartcare-connect/internal/middleware"
	"github.com/caffeinepub/smartcare-connect/internal/model"
	"github.com/caffeinepub/smartcare-connect/internal/service/record"
)

type Handler struct {
	service *record.Service
}

func NewHandler(service *record.Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	patients := r.Group("/patients/:id")
	{
		patients.POST("/vitals", h.AddVitals)
		patients.GET("/vitals", h.ListVitals)

		patients.POST("/medications", h.AddMedication)
		patients.GET("/medications", h.ListMedications)
		patients.PUT("/medications/:rid", h.UpdateMedication)
		patients.DELETE("/medications/:rid", h.DeleteMedication)

		patients.POST("/appointments", h.AddAppointment)
		patients.GET("/appointments", h.ListAppointments)
		patients.PUT("/appointments/:rid", h.UpdateAppointment)
		patients.DELETE("/appointments/:rid", h.DeleteAppointment)

		patients.POST("/nurse-requests", h.AddHomeNurseRequest)
		patients.GET("/nurse-requests", h.ListHomeNurseRequests)

		patients.GET("/alerts", h.GetAlerts)
	}

	r.POST("/alerts/emergency", h.SendEmergencyAlert)
}

func recordID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("rid"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid record id"))
		return 0, false
	}
	return id, true
}

func (h *Handler) AddVitals(c *gin.Context) {
	caller, _ := middleware.Caller(c)
	patient, ok := handler.IdentityParam(c, "id")
	if !ok {
		return
	}

	var req model.VitalsReading
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse(err.Error()))
		return
	}

	if err := h.service.AddVitals(c.Request.Context(), caller, patient, &req); err != nil {
		handler.WriteError(c, err)
		return
	}
	c.JSON(http.StatusCreated, handler.NewSuccessResponse(req))
}

func (h *Handler) ListVitals(c *gin.Context) {
	caller, _ := middleware.Caller(c)
	patient, ok := handler.IdentityParam(c, "id")
	if !ok {
		return
	}

	readings, err := h.service.ListVitals(c.Request.Context(), caller, patient)
	if err != nil {
		handler.WriteError(c, err)
		return
	}
	c.JSON(http.StatusOK, handler.NewSuccessResponse(readings))
}

func (h *Handler) AddMedication(c *gin.Context) {
	caller, _ := middleware.Caller(c)
	patient, ok := handler.IdentityParam(c, "id")
	if !ok {
		return
	}

	var req model.MedicationReminder
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse(err.Error()))
		return
	}

	if err := h.service.AddMedication(c.Request.Context(), caller, patient, &req); err != nil {
		handler.WriteError(c, err)
		return
	}
	c.JSON(http.StatusCreated, handler.NewSuccessResponse(req))
}

func (h *Handler) ListMedications(c *gin.Context) {
	caller, _ := middleware.Caller(c)
	patient, ok := handler.IdentityParam(c, "id")
	if !ok {
		return
	}

	reminders, err := h.service.ListMedications(c.Request.Context(), caller, patient)
	if err != nil {
		handler.WriteError(c, err)
		return
	}
	c.JSON(http.StatusOK, handler.NewSuccessResponse(reminders))
}

func (h *Handler) UpdateMedication(c *gin.Context) {
	caller, _ := middleware.Caller(c)
	patient, ok := handler.IdentityParam(c, "id")
	if !ok {
		return
	}
	id, ok := recordID(c)
	if !ok {
		return
	}

	var req model.MedicationReminder
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse(err.Error()))
		return
	}

	if err := h.service.UpdateMedication(c.Request.Context(), caller, patient, id, &req); err != nil {
		handler.WriteError(c, err)
		return
	}
	c.JSON(http.StatusOK, handler.NewSuccessResponse(req))
}

func (h *Handler) DeleteMedication(c *gin.Context) {
	caller, _ := middleware.Caller(c)
	patient, ok := handler.IdentityParam(c, "id")
	if !ok {
		return
	}
	id, ok := recordID(c)
	if !ok {
		return
	}

	if err := h.service.DeleteMedication(c.Request.Context(), caller, patient, id); err != nil {
		handler.WriteError(c, err)
		return
	}
	c.JSON(http.StatusOK, handler.NewSuccessResponse(nil))
}

func (h *Handler) AddAppointment(c *gin.Context) {
	caller, _ := middleware.Caller(c)
	patient, ok := handler.IdentityParam(c, "id")
	if !ok {
		return
	}

	var req model.Appointment
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse(err.Error()))
		return
	}

	if err := h.service.AddAppointment(c.Request.Context(), caller, patient, &req); err != nil {
		handler.WriteError(c, err)
		return
	}
	c.JSON(http.StatusCreated, handler.NewSuccessResponse(req))
}

func (h *Handler) ListAppointments(c *gin.Context) {
	caller, _ := middleware.Caller(c)
	patient, ok := handler.IdentityParam(c, "id")
	if !ok {
		return
	}

	appointments, err := h.service.ListAppointments(c.Request.Context(), caller, patient)
	if err != nil {
		handler.WriteError(c, err)
		return
	}
	c.JSON(http.StatusOK, handler.NewSuccessResponse(appointments))
}

func (h *Handler) UpdateAppointment(c *gin.Context) {
	caller, _ := middleware.Caller(c)
	patient, ok := handler.IdentityParam(c, "id")
	if !ok {
		return
	}
	id, ok := recordID(c)
	if !ok {
		return
	}

	var req model.Appointment
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse(err.Error()))
		return
	}

	if err := h.service.UpdateAppointment(c.Request.Context(), caller, patient, id, &req); err != nil {
		handler.WriteError(c, err)
		return
	}
	c.JSON(http.StatusOK, handler.NewSuccessResponse(req))
}

func (h *Handler) DeleteAppointment(c *gin.Context) {
	caller, _ := middleware.Caller(c)
	patient, ok := handler.IdentityParam(c, "id")
	if !ok {
		return
	}
	id, ok := recordID(c)
	if !ok {
		return
	}

	if err := h.service.DeleteAppointment(c.Request.Context(), caller, patient, id); err != nil {
		handler.WriteError(c, err)
		return
	}
	c.JSON(http.StatusOK, handler.NewSuccessResponse(nil))
}

func (h *Handler) AddHomeNurseRequest(c *gin.Context) {
	caller, _ := middleware.Caller(c)
	patient, ok := handler.IdentityParam(c, "id")
	if !ok {
		return
	}

	var req model.HomeNurseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse(err.Error()))
		return
	}

	if err := h.service.AddHomeNurseRequest(c.Request.Context(), caller, patient, &req); err != nil {
		handler.WriteError(c, err)
		return
	}
	c.JSON(http.StatusCreated, handler.NewSuccessResponse(req))
}

func (h *Handler) ListHomeNurseRequests(c *gin.Context) {
	caller, _ := middleware.Caller(c)
	patient, ok := handler.IdentityParam(c, "id")
	if !ok {
		return
	}

	requests, err := h.service.ListHomeNurseRequests(c.Request.Context(), caller, patient)
	if err != nil {
		handler.WriteError(c, err)
		return
	}
	c.JSON(http.StatusOK, handler.NewSuccessResponse(requests))
}

type emergencyAlertRequest struct {
	Message string `json:"message" binding:"required"`
}

func (h *Handler) SendEmergencyAlert(c *gin.Context) {
	caller, _ := middleware.Caller(c)

	var req emergencyAlertRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse(err.Error()))
		return
	}

	alert, err := h.service.SendEmergencyAlert(c.Request.Context(), caller, req.Message)
	if err != nil {
		handler.WriteError(c, err)
		return
	}
	c.JSON(http.StatusCreated, handler.NewSuccessResponse(alert))
}

func (h *Handler) GetAlerts(c *gin.Context) {
	caller, _ := middleware.Caller(c)
	patient, ok := handler.IdentityParam(c, "id")
	if !ok {
		return
	}

	alerts, err := h.service.GetAlerts(c.Request.Context(), caller, patient)
	if err != nil {
		handler.WriteError(c, err)
		return
	}
	c.JSON(http.StatusOK, handler.NewSuccessResponse(alerts))
}
