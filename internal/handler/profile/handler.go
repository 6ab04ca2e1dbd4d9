package profile

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/caffeinepub/smartcare-connect/internal/handler"
	"github.com/caffeinepub/smartcare-connect/internal/identity"
	"github.com/caffeinepub/smartcare-connect/internal/middleware"
	"github.com/caffeinepub/smartcare-connect/internal/model"
	"github.com/caffeinepub/smartcare-connect/internal/service/profile"
)

type Handler struct {
	service  *profile.Service
	resolver *identity.Resolver
}

func NewHandler(service *profile.Service, resolver *identity.Resolver) *Handler {
	return &Handler{service: service, resolver: resolver}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	r.PUT("/profile", h.SaveCallerUserProfile)
	r.GET("/profile", h.GetCallerUserProfile)
	r.GET("/profile/role", h.ResolveRole)

	r.PUT("/patients/:id/profile", h.SavePatientProfile)
	r.GET("/patients/:id/profile", h.GetPatientProfile)

	r.PUT("/doctors/profile", h.SaveDoctorProfile)
	r.GET("/doctors/:id/profile", h.GetDoctorProfile)
}

func (h *Handler) SaveCallerUserProfile(c *gin.Context) {
	caller, _ := middleware.Caller(c)

	var req model.UserProfile
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse(err.Error()))
		return
	}

	if err := h.service.SaveCallerUserProfile(c.Request.Context(), caller, &req); err != nil {
		handler.WriteError(c, err)
		return
	}
	c.JSON(http.StatusCreated, handler.NewSuccessResponse(req))
}

func (h *Handler) GetCallerUserProfile(c *gin.Context) {
	caller, _ := middleware.Caller(c)

	profile, err := h.service.GetCallerUserProfile(c.Request.Context(), caller)
	if err != nil {
		handler.WriteError(c, err)
		return
	}
	c.JSON(http.StatusOK, handler.NewSuccessResponse(profile))
}

func (h *Handler) ResolveRole(c *gin.Context) {
	caller, _ := middleware.Caller(c)

	res, err := h.resolver.ResolveRole(c.Request.Context(), caller)
	if err != nil {
		handler.WriteError(c, err)
		return
	}
	c.JSON(http.StatusOK, handler.NewSuccessResponse(res))
}

func (h *Handler) SavePatientProfile(c *gin.Context) {
	caller, _ := middleware.Caller(c)
	patient, ok := handler.IdentityParam(c, "id")
	if !ok {
		return
	}

	var req model.PatientProfile
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse(err.Error()))
		return
	}

	if err := h.service.SavePatientProfile(c.Request.Context(), caller, patient, &req); err != nil {
		handler.WriteError(c, err)
		return
	}
	c.JSON(http.StatusOK, handler.NewSuccessResponse(req))
}

func (h *Handler) GetPatientProfile(c *gin.Context) {
	caller, _ := middleware.Caller(c)
	patient, ok := handler.IdentityParam(c, "id")
	if !ok {
		return
	}

	profile, err := h.service.GetPatientProfile(c.Request.Context(), caller, patient)
	if err != nil {
		handler.WriteError(c, err)
		return
	}
	c.JSON(http.StatusOK, handler.NewSuccessResponse(profile))
}

func (h *Handler) SaveDoctorProfile(c *gin.Context) {
	caller, _ := middleware.Caller(c)

	var req model.DoctorProfile
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse(err.Error()))
		return
	}

	if err := h.service.SaveDoctorProfile(c.Request.Context(), caller, &req); err != nil {
		handler.WriteError(c, err)
		return
	}
	c.JSON(http.StatusOK, handler.NewSuccessResponse(req))
}

func (h *Handler) GetDoctorProfile(c *gin.Context) {
	doctor, ok := handler.IdentityParam(c, "id")
	if !ok {
		return
	}

	profile, err := h.service.GetDoctorProfile(c.Request.Context(), doctor)
	if err != nil {
		handler.WriteError(c, err)
		return
	}
	c.JSON(http.StatusOK, handler.NewSuccessResponse(profile))
}
