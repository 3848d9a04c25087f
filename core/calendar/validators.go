package calendar

import (
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"

	"github.com/trezcool/tawjih/core"
)

var (
	eventCategoryTag  = "eventcategory"
	eventCategoryText = "unknown event category"

	dateTag  = "datetime"
	dateText = "date must be formatted as YYYY-MM-DD"
)

func InitValidators(validate *validator.Validate, translator ut.Translator) {
	_ = validate.RegisterValidation(eventCategoryTag, func(fl validator.FieldLevel) bool {
		return Category(fl.Field().String()).Valid()
	})
	core.RegisterCustomTranslation(validate, translator, eventCategoryTag, eventCategoryText)
	core.RegisterCustomTranslation(validate, translator, dateTag, dateText, true)
}
