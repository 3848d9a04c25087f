package score

import (
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"

	"github.com/trezcool/tawjih/core"
)

var (
	bacStreamTag  = "bacstream"
	bacStreamText = "unknown bac stream"

	regionTag  = "region"
	regionText = "region must be one of الشمال, الوسط, الجنوب"

	subjectsTag  = "subjects"
	subjectsText = "grades must be known subjects with values between 0 and 20"
)

// InitValidators registers the stream, region and grades validation tags.
func InitValidators(validate *validator.Validate, translator ut.Translator) {
	_ = validate.RegisterValidation(bacStreamTag, bacStreamValidation)
	core.RegisterCustomTranslation(validate, translator, bacStreamTag, bacStreamText)

	_ = validate.RegisterValidation(regionTag, regionValidation)
	core.RegisterCustomTranslation(validate, translator, regionTag, regionText)

	_ = validate.RegisterValidation(subjectsTag, subjectsValidation)
	core.RegisterCustomTranslation(validate, translator, subjectsTag, subjectsText)
}

func bacStreamValidation(fl validator.FieldLevel) bool {
	_, err := ParseStream(fl.Field().String())
	return err == nil
}

func regionValidation(fl validator.FieldLevel) bool {
	_, ok := ParseRegion(fl.Field().String())
	return ok
}

// subjectsValidation checks a Scores map: known subjects, grades in [0, 20].
func subjectsValidation(fl validator.FieldLevel) bool {
	scores, ok := fl.Field().Interface().(Scores)
	if !ok {
		return false
	}
	for sub, grade := range scores {
		if !sub.Valid() || grade < 0 || grade > 20 {
			return false
		}
	}
	return true
}
