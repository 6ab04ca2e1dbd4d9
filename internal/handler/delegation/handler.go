package delegation

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/caffeinepub/smartcare-connect/internal/handler"
	"github.com/caffeinepub/smartcare-connect/internal/middleware"
	"github.com/caffeinepub/smartcare-connect/internal/service/delegation"
)

type Handler struct {
	service *delegation.Service
}

func NewHandler(service *delegation.Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	r.POST("/family-access/:grantee", h.Grant)
	r.DELETE("/family-access/:grantee", h.Revoke)
	r.GET("/patients/:id/family-access", h.List)
}

func (h *Handler) Grant(c *gin.Context) {
	caller, _ := middleware.Caller(c)
	grantee, ok := handler.IdentityParam(c, "grantee")
	if !ok {
		return
	}

	if err := h.service.Grant(c.Request.Context(), caller, grantee); err != nil {
		handler.WriteError(c, err)
		return
	}
	c.JSON(http.StatusOK, handler.NewSuccessResponse(nil))
}

func (h *Handler) Revoke(c *gin.Context) {
	caller, _ := middleware.Caller(c)
	grantee, ok := handler.IdentityParam(c, "grantee")
	if !ok {
		return
	}

	if err := h.service.Revoke(c.Request.Context(), caller, grantee); err != nil {
		handler.WriteError(c, err)
		return
	}
	c.JSON(http.StatusOK, handler.NewSuccessResponse(nil))
}

func (h *Handler) List(c *gin.Context) {
	caller, _ := middleware.Caller(c)
	patient, ok := handler.IdentityParam(c, "id")
	if !ok {
		return
	}

	grantees, err := h.service.List(c.Request.Context(), caller, patient)
	if err != nil {
		handler.WriteError(c, err)
		return
	}
	c.JSON(http.StatusOK, handler.NewSuccessResponse(grantees))
}
