package httpapi

import (
	"sync"

	"github.com/dmitrijs2005/scicatalog/internal/server/terms"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

const (
	termTag = "vocabterm"
	langTag = "lang"
)

var validatorsOnce sync.Once

// registerValidators adds the vocabulary checks to gin's shared validator.
func registerValidators() {
	validatorsOnce.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			return
		}
		_ = v.RegisterValidation(termTag, validateTerm)
		_ = v.RegisterValidation(langTag, validateLang)
	})
}

// validateTerm accepts a label from either language.
func validateTerm(fl validator.FieldLevel) bool {
	return terms.IsLabel(fl.Field().String())
}

func validateLang(fl validator.FieldLevel) bool {
	_, err := terms.ParseLang(fl.Field().String())
	return err == nil
}
