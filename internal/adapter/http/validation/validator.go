package validation

import (
	"strings"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	en_translations "github.com/go-playground/validator/v10/translations/en"
)

var (
	Validator  *validator.Validate
	Translator ut.Translator
)

func init() {
	Validator = validator.New(validator.WithRequiredStructEnabled())

	enLocale := en.New()
	uni := ut.New(enLocale, enLocale)

	var found bool
	Translator, found = uni.GetTranslator("en")

	if !found {
		panic("translator en not found")
	}

	if err := en_translations.RegisterDefaultTranslations(Validator, Translator); err != nil {
		panic(err)
	}
}

// FormatValidationError flattens the first field error into the plain
// message surfaced to clients.
func FormatValidationError(err error) string {
	validationErrors, ok := err.(validator.ValidationErrors)

	if !ok || len(validationErrors) == 0 {
		return "Invalid request parameters"
	}

	messages := make([]string, 0, len(validationErrors))

	for _, fieldError := range validationErrors {
		messages = append(messages, fieldError.Translate(Translator))
	}

	return strings.Join(messages, "; ")
}
