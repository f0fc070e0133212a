package export

import (
	"errors"
	"reflect"
	"strings"
	"sync"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	en_translations "github.com/go-playground/validator/v10/translations/en"
)

const (
	docKindTag   = "doc_kind"
	docFormatTag = "doc_format"
)

var (
	registerOnce sync.Once
	translator   ut.Translator
)

// RegisterValidators adds the doc_kind and doc_format tags to gin's binding
// engine. Safe to call more than once.
func RegisterValidators() {
	registerOnce.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			return
		}
		english := en.New()
		translator, _ = ut.New(english, english).GetTranslator("en")
		_ = en_translations.RegisterDefaultTranslations(v, translator)

		// Report uri/form names instead of Go field names.
		v.RegisterTagNameFunc(func(fld reflect.StructField) string {
			for _, tag := range []string{"uri", "form"} {
				if name := strings.SplitN(fld.Tag.Get(tag), ",", 2)[0]; name != "" && name != "-" {
					return name
				}
			}
			return fld.Name
		})

		_ = v.RegisterValidation(docKindTag, func(fl validator.FieldLevel) bool {
			_, err := ParseKind(fl.Field().String())
			return err == nil
		})
		_ = v.RegisterValidation(docFormatTag, func(fl validator.FieldLevel) bool {
			_, err := ParseFormat(fl.Field().String())
			return err == nil
		})
		registerTranslation(v, docKindTag, "{0} must be one of CV, SOP or LOR")
		registerTranslation(v, docFormatTag, "{0} must be one of docx, pdf or xlsx")
	})
}

func registerTranslation(v *validator.Validate, tag, text string) {
	_ = v.RegisterTranslation(tag, translator,
		func(t ut.Translator) error { return t.Add(tag, text, true) },
		func(t ut.Translator, fe validator.FieldError) string {
			s, _ := t.T(tag, fe.Field())
			return s
		},
	)
}

// validationDetails turns binding errors into field -> message pairs.
func validationDetails(err error) map[string]string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || translator == nil {
		return nil
	}
	out := make(map[string]string, len(verrs))
	for _, fe := range verrs {
		out[fe.Field()] = fe.Translate(translator)
	}
	return out
}
