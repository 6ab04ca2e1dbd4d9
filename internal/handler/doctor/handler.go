package doctor

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/caffeinepub/smartcare-connect/internal/handler"
	"github.com/caffeinepub/smartcare-connect/internal/middleware"
	"github.com/caffeinepub/smartcare-connect/internal/service/doctorview"
)

type Handler struct {
	service *doctorview.Service
}

func NewHandler(service *doctorview.Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	doctor := r.Group("/doctor")
	{
		doctor.GET("/patients", h.MyPatients)
		doctor.GET("/alerts", h.MyPatientsAlerts)
	}
}

func (h *Handler) MyPatients(c *gin.Context) {
	caller, _ := middleware.Caller(c)

	patients, err := h.service.MyPatients(c.Request.Context(), caller)
	if err != nil {
		handler.WriteError(c, err)
		return
	}
	c.JSON(http.StatusOK, handler.NewSuccessResponse(patients))
}

func (h *Handler) MyPatientsAlerts(c *gin.Context) {
	caller, _ := middleware.Caller(c)

	alerts, err := h.service.MyPatientsAlerts(c.Request.Context(), caller)
	if err != nil {
		handler.WriteError(c, err)
		return
	}
	c.JSON(http.StatusOK, handler.NewSuccessResponse(alerts))
}
