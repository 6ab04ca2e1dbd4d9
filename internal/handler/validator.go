package handler

import (
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"github.com/caffeinepub/smartcare-connect/internal/model"
)

// RegisterValidators installs the identity syntax check on gin's
// binding engine so request fields tagged `identity` are validated
// before any service is touched.
func RegisterValidators() {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return
	}
	_ = v.RegisterValidation("identity", func(fl validator.FieldLevel) bool {
		_, err := model.ParseIdentity(fl.Field().String())
		return err == nil
	})
}
