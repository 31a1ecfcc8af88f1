package menu

import (
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

// Registers the mealtype binding tag so requests carrying a meal type
// are rejected at bind time, before any handler logic runs.
func init() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		v.RegisterValidation("mealtype", func(fl validator.FieldLevel) bool {
			return MealType(fl.Field().String()).Valid()
		})
	}
}
