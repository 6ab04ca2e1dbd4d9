package admin

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/caffeinepub/smartcare-connect/internal/handler"
	"github.com/caffeinepub/smartcare-connect/internal/middleware"
	"github.com/caffeinepub/smartcare-connect/internal/model"
	"github.com/caffeinepub/smartcare-connect/internal/service/admin"
	"github.com/caffeinepub/smartcare-connect/pkg/errors"
)

type Handler struct {
	service *admin.Service
}

func NewHandler(service *admin.Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	adm := r.Group("/admin")
	{
		adm.POST("/bootstrap", h.Bootstrap)
		adm.PUT("/users/:id/tier", h.AssignTier)
		adm.GET("/me", h.Me)
		adm.GET("/patients", h.ListAllPatients)
	}
}

type bootstrapRequest struct {
	Secret string `json:"secret" binding:"required"`
}

func (h *Handler) Bootstrap(c *gin.Context) {
	caller, _ := middleware.Caller(c)

	var req bootstrapRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse(err.Error()))
		return
	}

	if err := h.service.Bootstrap(c.Request.Context(), caller, req.Secret); err != nil {
		handler.WriteError(c, err)
		return
	}
	c.JSON(http.StatusOK, handler.NewSuccessResponse(gin.H{"tier": model.TierAdmin}))
}

type assignTierRequest struct {
	Tier string `json:"tier" binding:"required,oneof=admin user guest"`
}

func (h *Handler) AssignTier(c *gin.Context) {
	caller, _ := middleware.Caller(c)
	target, ok := handler.IdentityParam(c, "id")
	if !ok {
		return
	}

	var req assignTierRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse(err.Error()))
		return
	}

	tier, err := model.ParseAdminTier(req.Tier)
	if err != nil {
		handler.WriteError(c, errors.NewInvalidArgument(err.Error(), err))
		return
	}

	if err := h.service.AssignTier(c.Request.Context(), caller, target, tier); err != nil {
		handler.WriteError(c, err)
		return
	}
	c.JSON(http.StatusOK, handler.NewSuccessResponse(gin.H{"identity": target, "tier": tier}))
}

func (h *Handler) Me(c *gin.Context) {
	caller, _ := middleware.Caller(c)

	isAdmin, err := h.service.IsAdmin(c.Request.Context(), caller)
	if err != nil {
		handler.WriteError(c, err)
		return
	}
	tier, err := h.service.Tier(c.Request.Context(), caller)
	if err != nil {
		handler.WriteError(c, err)
		return
	}
	c.JSON(http.StatusOK, handler.NewSuccessResponse(gin.H{"is_admin": isAdmin, "tier": tier}))
}

func (h *Handler) ListAllPatients(c *gin.Context) {
	caller, _ := middleware.Caller(c)

	patients, err := h.service.ListAllPatients(c.Request.Context(), caller)
	if err != nil {
		handler.WriteError(c, err)
		return
	}
	c.JSON(http.StatusOK, handler.NewSuccessResponse(patients))
}
