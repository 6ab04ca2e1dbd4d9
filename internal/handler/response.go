package handler

import (
	stderrors "errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/caffeinepub/smartcare-connect/internal/model"
	"github.com/caffeinepub/smartcare-connect/pkg/errors"
)

type Response struct {
	Status  string      `json:"status"`
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data,omitempty"`
}

func NewSuccessResponse(data interface{}) *Response {
	return &Response{
		Status: "success",
		Data:   data,
	}
}

func NewErrorResponse(message string) *Response {
	return &Response{
		Status:  "error",
		Message: message,
	}
}

// WriteError maps application error kinds to HTTP statuses. Unauthorized
// and NotFound stay distinct so consumers can tell "you may not see
// this" from "this does not exist".
func WriteError(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	switch errors.CodeOf(err) {
	case errors.ErrUnauthorized:
		status = http.StatusForbidden
	case errors.ErrNotFound:
		status = http.StatusNotFound
	case errors.ErrInvalidArgument:
		status = http.StatusBadRequest
	case errors.ErrAlreadyExists:
		status = http.StatusConflict
	}

	message := "internal server error"
	var appErr *errors.AppError
	if stderrors.As(err, &appErr) {
		message = appErr.Message
	}
	c.JSON(status, NewErrorResponse(message))
}

// IdentityParam parses an identity path parameter, writing a 400 on
// malformed input.
func IdentityParam(c *gin.Context, name string) (model.Identity, bool) {
	id, err := model.ParseIdentity(c.Param(name))
	if err != nil {
		c.JSON(http.StatusBadRequest, NewErrorResponse("invalid identity: "+err.Error()))
		return "", false
	}
	return id, true
}
