package validator

import (
	"github.com/go-playground/validator/v10"
)

const maxChapters = 12

var knownThemes = map[string]struct{}{
	"islands": {},
	"voyage":  {},
}

func chaptersValidator(fl validator.FieldLevel) bool {
	val, ok := fl.Field().Interface().(int)
	if !ok {
		return false
	}
	return val >= 1 && val <= maxChapters
}

func themeValidator(fl validator.FieldLevel) bool {
	val, ok := fl.Field().Interface().(string)
	if !ok {
		return false
	}
	_, known := knownThemes[val]
	return known
}

func advanceStatusValidator(fl validator.FieldLevel) bool {
	val, ok := fl.Field().Interface().(string)
	if !ok {
		return false
	}
	switch val {
	case "processing", "completed", "failed":
		return true
	default:
		return false
	}
}
