package core

import (
	"reflect"
	"regexp"
	"strings"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	en_translations "github.com/go-playground/validator/v10/translations/en"
)

var (
	Validate   *validator.Validate
	Translator ut.Translator

	// custom validation tags & texts
	blockTimeTag   = "hmm"
	blockTimeText  = "must be a block time in H:MM form"
	blockTimeRegex = regexp.MustCompile(`^\d{1,2}:\d{2}$`)

	weekdayTag  = "weekday"
	weekdayText = "must be a weekday name (Sunday..Saturday)"

	blockLetterTag   = "blockletter"
	blockLetterText  = "must be a single block letter A-G"
	blockLetterRegex = regexp.MustCompile(`^[A-Ga-g]$`)

	requiredTag     = "required"
	requiredWithTag = "required_with"
	requiredText    = "this field is required"

	weekdayNames = map[string]struct{}{
		"sunday": {}, "monday": {}, "tuesday": {}, "wednesday": {},
		"thursday": {}, "friday": {}, "saturday": {},
	}
)

func init() {
	Validate = validator.New()
	enLocale := en.New()
	uni := ut.New(enLocale, enLocale)
	Translator, _ = uni.GetTranslator("en")
	InitValidators(Validate, Translator)
}

// InitValidators instantiates the validator for use.
func InitValidators(validate *validator.Validate, translator ut.Translator) {
	_ = en_translations.RegisterDefaultTranslations(validate, translator)

	// Use JSON tag names for errors instead of Go struct names.
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	// register custom validators
	_ = validate.RegisterValidation(blockTimeTag, blockTimeValidation)
	RegisterCustomTranslation(validate, translator, blockTimeTag, blockTimeText)

	_ = validate.RegisterValidation(weekdayTag, weekdayValidation)
	RegisterCustomTranslation(validate, translator, weekdayTag, weekdayText)

	_ = validate.RegisterValidation(blockLetterTag, blockLetterValidation)
	RegisterCustomTranslation(validate, translator, blockLetterTag, blockLetterText)

	RegisterCustomTranslation(validate, translator, requiredTag, requiredText, true)
	RegisterCustomTranslation(validate, translator, requiredWithTag, requiredText, true)
}

// RegisterCustomTranslation registers a custom translation for the specified validation tag.
func RegisterCustomTranslation(validate *validator.Validate, translator ut.Translator, tag, text string, override ...bool) {
	var ovrd bool
	if len(override) > 0 {
		ovrd = override[0]
	}
	_ = validate.RegisterTranslation(
		tag, translator,
		func(t ut.Translator) error { return t.Add(tag, text, ovrd) },
		func(t ut.Translator, fe validator.FieldError) string {
			s, _ := t.T(tag, fe.Field())
			return s
		},
	)
}

// Custom Global Validators

// blockTimeValidation allows compact block times of the institutional tables ("8:25", "1:15").
func blockTimeValidation(fl validator.FieldLevel) bool {
	return blockTimeRegex.MatchString(fl.Field().String())
}

// weekdayValidation allows full English weekday names, any case.
func weekdayValidation(fl validator.FieldLevel) bool {
	_, ok := weekdayNames[strings.ToLower(fl.Field().String())]
	return ok
}

// blockLetterValidation allows a single letter A-G.
func blockLetterValidation(fl validator.FieldLevel) bool {
	return blockLetterRegex.MatchString(fl.Field().String())
}
